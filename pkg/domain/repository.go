package domain

import (
	"context"
	"time"
)

// CatalogFetcher builds a fresh normalized catalog from the upstream events
// API. Every call is independent; no state is carried between calls.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) (Catalog, error)
}

// WaitingRoomFetcher reads the queue-status snapshot for one session.
type WaitingRoomFetcher interface {
	FetchWaitingRooms(ctx context.Context, sessionID int) (*WaitingRoomSnapshot, error)
}

// DashboardService is the surface consumed by the HTTP layer (and, through
// it, the excluded UI).
type DashboardService interface {
	Catalog(ctx context.Context) (Catalog, time.Time, error)
	NearestEvent(ctx context.Context, now time.Time) (*Event, error)
	WaitingRooms(ctx context.Context, sessionID int) (*WaitingRoomSnapshot, error)
}

// SnapshotRepository persists the last successfully fetched catalog so the
// dashboard can keep serving across upstream outages. Load returns
// ErrSnapshotNotFound when nothing has been saved yet.
type SnapshotRepository interface {
	Save(ctx context.Context, catalog Catalog, fetchedAt time.Time) error
	Load(ctx context.Context) (Catalog, time.Time, error)
}
