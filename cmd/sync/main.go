// Command sync pushes the product and inventory CSV exports into the
// Firestore master-data collections.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"po-review/internal/config"
	"po-review/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.GCPProjectID == "" {
		log.Fatal("GCP_PROJECT_ID is required")
	}
	if cfg.ProductsCSV == "" || cfg.InventoryCSV == "" {
		log.Fatal("PRODUCTS_CSV and INVENTORY_CSV are required")
	}

	ctx := context.Background()
	docs, err := store.NewFirestoreStore(ctx, cfg.GCPProjectID)
	if err != nil {
		log.Fatalf("firestore: %v", err)
	}
	defer docs.Close()

	products, err := store.LoadProductsFile(cfg.ProductsCSV)
	if err != nil {
		log.Fatalf("products: %v", err)
	}
	stock, err := store.LoadInventoryFile(cfg.InventoryCSV)
	if err != nil {
		log.Fatalf("inventory: %v", err)
	}

	np, err := docs.SyncProducts(ctx, products)
	if err != nil {
		log.Fatalf("sync products: %v", err)
	}
	ni, err := docs.SyncInventory(ctx, stock)
	if err != nil {
		log.Fatalf("sync inventory: %v", err)
	}
	log.Printf("synced %d product and %d inventory documents", np, ni)
}
