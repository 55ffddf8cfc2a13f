package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/haru/meets-dashboard/pkg/domain"
)

type fakeDashboardService struct {
	catalog   domain.Catalog
	fetchedAt time.Time
	nearest   *domain.Event
	snapshot  *domain.WaitingRoomSnapshot
	err       error
}

func (f *fakeDashboardService) Catalog(ctx context.Context) (domain.Catalog, time.Time, error) {
	if f.err != nil {
		return nil, time.Time{}, f.err
	}
	return f.catalog, f.fetchedAt, nil
}

func (f *fakeDashboardService) NearestEvent(ctx context.Context, now time.Time) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.nearest, nil
}

func (f *fakeDashboardService) WaitingRooms(ctx context.Context, sessionID int) (*domain.WaitingRoomSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func serveRequest(service domain.DashboardService, method, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	NewDashboardHandler(service).RegisterRoutes(router)

	req := httptest.NewRequest(method, path, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestDashboardHandler_GetCatalog(t *testing.T) {
	start := time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)

	t.Run("serves the catalog in wire form", func(t *testing.T) {
		service := &fakeDashboardService{
			catalog:   serviceTestCatalog(10, start),
			fetchedAt: start.Add(-time.Hour),
		}

		recorder := serveRequest(service, "GET", "/api/catalog")
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}

		var body struct {
			FetchedAt time.Time       `json:"fetched_at"`
			Catalog   json.RawMessage `json:"catalog"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
			t.Fatalf("response was not JSON: %v", err)
		}
		// The mapping crosses the boundary as a pair list, not an object.
		if len(body.Catalog) == 0 || body.Catalog[0] != '[' {
			t.Errorf("expected a pair list, got %s", body.Catalog)
		}

		var catalog domain.Catalog
		if err := json.Unmarshal(body.Catalog, &catalog); err != nil {
			t.Fatalf("catalog did not round trip: %v", err)
		}
		if _, ok := catalog[10]; !ok {
			t.Errorf("expected event 10 in catalog, got %v", catalog)
		}
	})

	t.Run("upstream failure maps to 502", func(t *testing.T) {
		service := &fakeDashboardService{err: &domain.UpstreamHTTPError{Status: 500}}
		recorder := serveRequest(service, "GET", "/api/catalog")
		if recorder.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", recorder.Code)
		}
	})

	t.Run("malformed upstream data maps to 502", func(t *testing.T) {
		service := &fakeDashboardService{err: domain.ErrMalformedResponse}
		recorder := serveRequest(service, "GET", "/api/catalog")
		if recorder.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", recorder.Code)
		}
	})

	t.Run("time parse failure maps to 502", func(t *testing.T) {
		service := &fakeDashboardService{err: &domain.TimeParseError{Input: "25:00:00", Reason: "hour out of range"}}
		recorder := serveRequest(service, "GET", "/api/catalog")
		if recorder.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", recorder.Code)
		}
	})
}

func TestDashboardHandler_GetNearestEvent(t *testing.T) {
	t.Run("serves the nearest event", func(t *testing.T) {
		start := time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)
		catalog := serviceTestCatalog(10, start)
		events := catalog[10]
		service := &fakeDashboardService{nearest: &events[0]}

		recorder := serveRequest(service, "GET", "/api/events/nearest")
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		var event domain.Event
		if err := json.Unmarshal(recorder.Body.Bytes(), &event); err != nil {
			t.Fatalf("response was not JSON: %v", err)
		}
		if event.UniqueID != "10-900" {
			t.Errorf("expected unique id 10-900, got %s", event.UniqueID)
		}
	})

	t.Run("no upcoming events maps to 404", func(t *testing.T) {
		service := &fakeDashboardService{err: domain.ErrNoUpcomingEvents}
		recorder := serveRequest(service, "GET", "/api/events/nearest")
		if recorder.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", recorder.Code)
		}
	})
}

func TestDashboardHandler_GetWaitingRooms(t *testing.T) {
	t.Run("serves the snapshot", func(t *testing.T) {
		service := &fakeDashboardService{
			snapshot: &domain.WaitingRoomSnapshot{
				Message: "open",
				Rooms: domain.WaitingRoomMap{
					42: {{TicketCode: "A001", PeopleCount: 5, WaitingTime: 300}},
				},
			},
		}

		recorder := serveRequest(service, "GET", "/api/sessions/42/waiting-rooms")
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		var snapshot domain.WaitingRoomSnapshot
		if err := json.Unmarshal(recorder.Body.Bytes(), &snapshot); err != nil {
			t.Fatalf("response was not JSON: %v", err)
		}
		if snapshot.Rooms[42][0].TicketCode != "A001" {
			t.Errorf("unexpected snapshot %+v", snapshot)
		}
	})

	t.Run("non-numeric session id maps to 400", func(t *testing.T) {
		recorder := serveRequest(&fakeDashboardService{}, "GET", "/api/sessions/abc/waiting-rooms")
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("non-positive session id maps to 400", func(t *testing.T) {
		recorder := serveRequest(&fakeDashboardService{}, "GET", "/api/sessions/0/waiting-rooms")
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("upstream failure maps to 502", func(t *testing.T) {
		service := &fakeDashboardService{err: &domain.UpstreamHTTPError{Status: 503}}
		recorder := serveRequest(service, "GET", "/api/sessions/42/waiting-rooms")
		if recorder.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", recorder.Code)
		}
	})
}
