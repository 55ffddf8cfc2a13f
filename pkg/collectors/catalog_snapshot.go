package collectors

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/haru/meets-dashboard/pkg/domain"
)

// CatalogSnapshotStore keeps the last successfully fetched catalog so the
// dashboard can keep serving when the upstream is down. The catalog is
// rebuilt wholesale on every fetch, so the store holds exactly one row: the
// wire-encoded payload plus its fetch time.
type CatalogSnapshotStore struct {
	db *sql.DB
}

func NewCatalogSnapshotStore(db *sql.DB) (*CatalogSnapshotStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	store := &CatalogSnapshotStore{db: db}
	if err := store.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *CatalogSnapshotStore) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS catalog_snapshots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		fetched_at TIMESTAMP NOT NULL,
		payload TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(query)
	return err
}

// Save replaces the stored snapshot with the given catalog.
func (s *CatalogSnapshotStore) Save(ctx context.Context, catalog domain.Catalog, fetchedAt time.Time) error {
	payload, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	query := `
	INSERT INTO catalog_snapshots (id, fetched_at, payload) VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at, payload = excluded.payload
	`

	if _, err := s.db.ExecContext(ctx, query, fetchedAt, string(payload)); err != nil {
		return fmt.Errorf("failed to save catalog snapshot: %w", err)
	}

	return nil
}

// Load returns the stored catalog and its fetch time, or
// domain.ErrSnapshotNotFound when nothing has been saved yet.
func (s *CatalogSnapshotStore) Load(ctx context.Context) (domain.Catalog, time.Time, error) {
	var fetchedAt time.Time
	var payload string

	query := `SELECT fetched_at, payload FROM catalog_snapshots WHERE id = 1`
	err := s.db.QueryRowContext(ctx, query).Scan(&fetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal([]byte(payload), &catalog); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}

	return catalog, fetchedAt, nil
}
