package interfaces

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/haru/meets-dashboard/pkg/domain"
)

// DashboardService orchestrates the two upstream fetchers and owns the
// caching policy the stateless fetch layer deliberately does not have: the
// last good catalog is kept in memory and mirrored to the snapshot store,
// and is served as a fallback when a refresh fails.
type DashboardService struct {
	catalogFetcher domain.CatalogFetcher
	roomFetcher    domain.WaitingRoomFetcher
	snapshots      domain.SnapshotRepository
	now            func() time.Time

	mu        sync.RWMutex
	catalog   domain.Catalog
	fetchedAt time.Time
}

// NewDashboardService creates the service. snapshots may be nil, in which
// case no durable fallback is kept.
func NewDashboardService(
	catalogFetcher domain.CatalogFetcher,
	roomFetcher domain.WaitingRoomFetcher,
	snapshots domain.SnapshotRepository,
) *DashboardService {
	return &DashboardService{
		catalogFetcher: catalogFetcher,
		roomFetcher:    roomFetcher,
		snapshots:      snapshots,
		now:            time.Now,
	}
}

// RefreshCatalog fetches a fresh catalog. On success it replaces the cached
// copy and the stored snapshot; a snapshot write failure is logged, not
// fatal. On fetch failure the cached copy is served, then the stored
// snapshot; the fetch error propagates only when both fallbacks are empty.
func (s *DashboardService) RefreshCatalog(ctx context.Context) (domain.Catalog, time.Time, error) {
	catalog, err := s.catalogFetcher.FetchCatalog(ctx)
	if err != nil {
		return s.fallbackCatalog(ctx, err)
	}

	fetchedAt := s.now()
	s.mu.Lock()
	s.catalog = catalog
	s.fetchedAt = fetchedAt
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, catalog, fetchedAt); err != nil {
			log.Printf("Warning: failed to save catalog snapshot: %v", err)
		}
	}

	return catalog, fetchedAt, nil
}

func (s *DashboardService) fallbackCatalog(ctx context.Context, fetchErr error) (domain.Catalog, time.Time, error) {
	s.mu.RLock()
	catalog, fetchedAt := s.catalog, s.fetchedAt
	s.mu.RUnlock()
	if catalog != nil {
		return catalog, fetchedAt, nil
	}

	if s.snapshots != nil {
		catalog, fetchedAt, err := s.snapshots.Load(ctx)
		if err == nil {
			s.mu.Lock()
			s.catalog = catalog
			s.fetchedAt = fetchedAt
			s.mu.Unlock()
			return catalog, fetchedAt, nil
		}
	}

	return nil, time.Time{}, fetchErr
}

// Catalog returns the cached catalog, fetching one if none is held yet.
func (s *DashboardService) Catalog(ctx context.Context) (domain.Catalog, time.Time, error) {
	s.mu.RLock()
	catalog, fetchedAt := s.catalog, s.fetchedAt
	s.mu.RUnlock()
	if catalog != nil {
		return catalog, fetchedAt, nil
	}

	return s.RefreshCatalog(ctx)
}

// NearestEvent returns the occurrence closest to now, or
// domain.ErrNoUpcomingEvents when the catalog holds none.
func (s *DashboardService) NearestEvent(ctx context.Context, now time.Time) (*domain.Event, error) {
	catalog, _, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	event := domain.NearestEvent(catalog, now)
	if event == nil {
		return nil, domain.ErrNoUpcomingEvents
	}
	return event, nil
}

// WaitingRooms fetches the queue-status snapshot for one session. Results
// are never cached: every poll supersedes the last wholesale.
func (s *DashboardService) WaitingRooms(ctx context.Context, sessionID int) (*domain.WaitingRoomSnapshot, error) {
	if sessionID <= 0 {
		return nil, domain.ErrInvalidRequest
	}
	return s.roomFetcher.FetchWaitingRooms(ctx, sessionID)
}
