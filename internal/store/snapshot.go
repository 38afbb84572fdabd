// Package store provides the master-data catalog (products and stock) and
// the review-history persistence used by the application layer.
package store

import (
	"sync/atomic"
	"time"

	"po-review/internal/core"
)

// Snapshot is one immutable view of master data. Review runs read a single
// snapshot throughout, so a reload mid-run cannot mix old and new records.
type Snapshot struct {
	Products map[string]core.ProductRecord
	Stock    map[string]core.StockRecord
	LoadedAt time.Time
}

// NewSnapshot copies nothing; callers hand over ownership of the maps.
func NewSnapshot(products map[string]core.ProductRecord, stock map[string]core.StockRecord) *Snapshot {
	if products == nil {
		products = map[string]core.ProductRecord{}
	}
	if stock == nil {
		stock = map[string]core.StockRecord{}
	}
	return &Snapshot{Products: products, Stock: stock, LoadedAt: time.Now().UTC()}
}

// Catalog publishes the current master-data snapshot. Swaps are atomic;
// readers never observe a partially replaced catalog.
type Catalog struct {
	snap atomic.Pointer[Snapshot]
}

// NewCatalog starts with an empty snapshot so readers never see nil.
func NewCatalog() *Catalog {
	c := &Catalog{}
	c.snap.Store(NewSnapshot(nil, nil))
	return c
}

// Current returns the live snapshot.
func (c *Catalog) Current() *Snapshot {
	return c.snap.Load()
}

// Replace swaps in a new snapshot.
func (c *Catalog) Replace(s *Snapshot) {
	if s == nil {
		s = NewSnapshot(nil, nil)
	}
	c.snap.Store(s)
}
