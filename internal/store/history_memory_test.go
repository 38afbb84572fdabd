package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"po-review/internal/store"
)

func TestMemoryHistoryStore_SaveList(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryHistoryStore()

	older, err := s.Save(ctx, store.ReviewRecord{
		PONumber:  "123456",
		CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if older.ID == "" {
		t.Fatal("Save should assign an ID")
	}
	newer, err := s.Save(ctx, store.ReviewRecord{
		PONumber:  "789012",
		CreatedAt: time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Errorf("records not newest-first: %s then %s", got[0].PONumber, got[1].PONumber)
	}

	limited, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != newer.ID {
		t.Errorf("limit not applied: %+v", limited)
	}
}

func TestMemoryHistoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryHistoryStore()
	rec, err := s.Save(ctx, store.ReviewRecord{PONumber: "123"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, rec.ID); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("deleting a missing record: got %v, want ErrRecordNotFound", err)
	}
	got, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records after delete, want 0", len(got))
	}
}
