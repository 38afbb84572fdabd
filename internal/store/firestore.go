package store

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"po-review/internal/core"
)

const (
	productsCollection  = "products"
	inventoryCollection = "inventory"
)

// DocumentStore is the remote master-data backend. The CSV bootstrap path
// satisfies local development; production loads from Firestore.
type DocumentStore interface {
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
	GetProduct(ctx context.Context, sku string) (core.ProductRecord, bool, error)
	SyncProducts(ctx context.Context, products map[string]core.ProductRecord) (int, error)
	SyncInventory(ctx context.Context, stock map[string]core.StockRecord) (int, error)
	Close() error
}

// productDoc mirrors one document in the products collection.
type productDoc struct {
	Name                string  `firestore:"name"`
	UnitPrice           float64 `firestore:"unit_price"`
	PackSize            int     `firestore:"pack_size"`
	CartonWeight        float64 `firestore:"carton_weight"`
	CartonHeight        float64 `firestore:"carton_height"`
	MaxCartonsPerPallet int     `firestore:"max_cartons_per_pallet"`
}

// inventoryDoc mirrors one document in the inventory collection, one per
// SKU/location pair. Document IDs are "<sku>_<location>".
type inventoryDoc struct {
	SKU      string `firestore:"sku"`
	Location string `firestore:"location"`
	OnHand   int    `firestore:"on_hand"`
}

// FirestoreStore loads and syncs master data against Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to the given GCP project.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("connect firestore: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// FetchSnapshot reads both collections concurrently and assembles a fresh
// catalog snapshot.
func (s *FirestoreStore) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	var (
		products map[string]core.ProductRecord
		stock    map[string]core.StockRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.fetchProducts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stock, err = s.fetchInventory(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewSnapshot(products, stock), nil
}

func (s *FirestoreStore) fetchProducts(ctx context.Context) (map[string]core.ProductRecord, error) {
	products := map[string]core.ProductRecord{}
	iter := s.client.Collection(productsCollection).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate products: %w", err)
		}
		var doc productDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", snap.Ref.ID, err)
		}
		products[snap.Ref.ID] = core.ProductRecord{
			Name:                doc.Name,
			UnitPrice:           decimal.NewFromFloat(doc.UnitPrice),
			PackSize:            doc.PackSize,
			CartonWeight:        doc.CartonWeight,
			CartonHeight:        doc.CartonHeight,
			MaxCartonsPerPallet: doc.MaxCartonsPerPallet,
		}
	}
	return products, nil
}

func (s *FirestoreStore) fetchInventory(ctx context.Context) (map[string]core.StockRecord, error) {
	stock := map[string]core.StockRecord{}
	iter := s.client.Collection(inventoryCollection).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate inventory: %w", err)
		}
		var doc inventoryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode inventory %s: %w", snap.Ref.ID, err)
		}
		sku := strings.TrimSpace(doc.SKU)
		if sku == "" {
			continue
		}
		qty := doc.OnHand
		if qty < 0 {
			qty = 0
		}
		rec := stock[sku]
		if rec.ByLocation == nil {
			rec.ByLocation = map[string]int{}
		}
		rec.ByLocation[strings.ToUpper(doc.Location)] += qty
		rec.Total += qty
		stock[sku] = rec
	}
	return stock, nil
}

// GetProduct fetches one product document directly, bypassing the cached
// snapshot. The second return is false when the SKU has no document.
func (s *FirestoreStore) GetProduct(ctx context.Context, sku string) (core.ProductRecord, bool, error) {
	snap, err := s.client.Collection(productsCollection).Doc(sku).Get(ctx)
	if IsNotFound(err) {
		return core.ProductRecord{}, false, nil
	}
	if err != nil {
		return core.ProductRecord{}, false, fmt.Errorf("get product %s: %w", sku, err)
	}
	var doc productDoc
	if err := snap.DataTo(&doc); err != nil {
		return core.ProductRecord{}, false, fmt.Errorf("decode product %s: %w", sku, err)
	}
	return core.ProductRecord{
		Name:                doc.Name,
		UnitPrice:           decimal.NewFromFloat(doc.UnitPrice),
		PackSize:            doc.PackSize,
		CartonWeight:        doc.CartonWeight,
		CartonHeight:        doc.CartonHeight,
		MaxCartonsPerPallet: doc.MaxCartonsPerPallet,
	}, true, nil
}

// SyncProducts upserts the product master. Returns the number of documents
// written.
func (s *FirestoreStore) SyncProducts(ctx context.Context, products map[string]core.ProductRecord) (int, error) {
	bw := s.client.BulkWriter(ctx)
	n := 0
	for sku, p := range products {
		doc := productDoc{
			Name:                p.Name,
			UnitPrice:           p.UnitPrice.InexactFloat64(),
			PackSize:            p.PackSize,
			CartonWeight:        p.CartonWeight,
			CartonHeight:        p.CartonHeight,
			MaxCartonsPerPallet: p.MaxCartonsPerPallet,
		}
		if _, err := bw.Set(s.client.Collection(productsCollection).Doc(sku), doc); err != nil {
			return n, fmt.Errorf("queue product %s: %w", sku, err)
		}
		n++
	}
	bw.End()
	return n, nil
}

// SyncInventory upserts per-location inventory documents.
func (s *FirestoreStore) SyncInventory(ctx context.Context, stock map[string]core.StockRecord) (int, error) {
	bw := s.client.BulkWriter(ctx)
	n := 0
	for sku, rec := range stock {
		locations := rec.ByLocation
		if len(locations) == 0 {
			locations = map[string]int{core.LocationMain: rec.Total}
		}
		for loc, qty := range locations {
			doc := inventoryDoc{SKU: sku, Location: loc, OnHand: qty}
			id := fmt.Sprintf("%s_%s", sku, loc)
			if _, err := bw.Set(s.client.Collection(inventoryCollection).Doc(id), doc); err != nil {
				return n, fmt.Errorf("queue inventory %s: %w", id, err)
			}
			n++
		}
	}
	bw.End()
	return n, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// IsNotFound reports whether an error is a Firestore not-found response.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
