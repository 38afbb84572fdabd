package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRecordNotFound is returned by Delete when no record has the given id.
var ErrRecordNotFound = errors.New("review record not found")

// ReviewRecord is one persisted review run: enough to show an audit trail
// without storing the full document payloads.
type ReviewRecord struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	PONumber      string    `json:"po_number"`
	AggregateDoc  string    `json:"aggregate_doc"`
	BreakdownDoc  string    `json:"breakdown_doc"`
	ItemCount     int       `json:"item_count"`
	TotalUnits    int       `json:"total_units"`
	MismatchCount int       `json:"mismatch_count"`
	WarningCount  int       `json:"warning_count"`
	Status        string    `json:"status"`
}

// HistoryStore persists review runs.
type HistoryStore interface {
	Save(ctx context.Context, rec ReviewRecord) (ReviewRecord, error)
	List(ctx context.Context, limit int) ([]ReviewRecord, error)
	Delete(ctx context.Context, id string) error
}

const defaultHistoryLimit = 50

// PGHistoryStore keeps review history in Postgres.
type PGHistoryStore struct {
	pool *pgxpool.Pool
}

func NewPGHistoryStore(pool *pgxpool.Pool) *PGHistoryStore {
	return &PGHistoryStore{pool: pool}
}

func (s *PGHistoryStore) Save(ctx context.Context, rec ReviewRecord) (ReviewRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO review_records
			(id, created_at, po_number, aggregate_doc, breakdown_doc,
			 item_count, total_units, mismatch_count, warning_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.pool.Exec(ctx, q,
		rec.ID, rec.CreatedAt, rec.PONumber, rec.AggregateDoc, rec.BreakdownDoc,
		rec.ItemCount, rec.TotalUnits, rec.MismatchCount, rec.WarningCount, rec.Status)
	if err != nil {
		return ReviewRecord{}, fmt.Errorf("insert review record: %w", err)
	}
	return rec, nil
}

func (s *PGHistoryStore) List(ctx context.Context, limit int) ([]ReviewRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	const q = `
		SELECT id, created_at, po_number, aggregate_doc, breakdown_doc,
		       item_count, total_units, mismatch_count, warning_count, status
		FROM review_records
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query review records: %w", err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ReviewRecord, error) {
		var r ReviewRecord
		err := row.Scan(&r.ID, &r.CreatedAt, &r.PONumber, &r.AggregateDoc, &r.BreakdownDoc,
			&r.ItemCount, &r.TotalUnits, &r.MismatchCount, &r.WarningCount, &r.Status)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan review records: %w", err)
	}
	return records, nil
}

func (s *PGHistoryStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM review_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("review record %s: %w", id, ErrRecordNotFound)
	}
	return nil
}
