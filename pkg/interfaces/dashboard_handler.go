package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/haru/meets-dashboard/pkg/domain"
)

// DashboardHandler exposes the normalized catalog and queue stats as JSON
// for the UI. Mappings cross this boundary in the ordered pair-list wire
// form defined in the domain package.
type DashboardHandler struct {
	service domain.DashboardService
}

func NewDashboardHandler(service domain.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		service: service,
	}
}

func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/catalog", h.GetCatalog).Methods("GET")
	router.HandleFunc("/api/events/nearest", h.GetNearestEvent).Methods("GET")
	router.HandleFunc("/api/sessions/{id}/waiting-rooms", h.GetWaitingRooms).Methods("GET")
}

type catalogResponse struct {
	FetchedAt time.Time      `json:"fetched_at"`
	Catalog   domain.Catalog `json:"catalog"`
}

func (h *DashboardHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	catalog, fetchedAt, err := h.service.Catalog(ctx)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, catalogResponse{
		FetchedAt: fetchedAt,
		Catalog:   catalog,
	})
}

func (h *DashboardHandler) GetNearestEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	event, err := h.service.NearestEvent(ctx, time.Now())
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, event)
}

func (h *DashboardHandler) GetWaitingRooms(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	sessionID, err := strconv.Atoi(vars["id"])
	if err != nil || sessionID <= 0 {
		h.respondWithError(w, http.StatusBadRequest, "session id must be a positive integer")
		return
	}

	snapshot, err := h.service.WaitingRooms(ctx, sessionID)
	if err != nil {
		h.respondWithDomainError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, snapshot)
}

func (h *DashboardHandler) respondWithDomainError(w http.ResponseWriter, err error) {
	if _, ok := domain.IsUpstreamHTTPError(err); ok {
		h.respondWithError(w, http.StatusBadGateway, "upstream service unavailable")
		return
	}
	if domain.IsTimeParseError(err) {
		h.respondWithError(w, http.StatusBadGateway, "upstream returned unparseable data")
		return
	}
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		h.respondWithError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, domain.ErrNoUpcomingEvents):
		h.respondWithError(w, http.StatusNotFound, "no upcoming events")
	case errors.Is(err, domain.ErrMalformedResponse):
		h.respondWithError(w, http.StatusBadGateway, "upstream returned malformed data")
	default:
		h.respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *DashboardHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

func (h *DashboardHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
