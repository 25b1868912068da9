package server

import (
	"encoding/json"
	"net/http"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *FixlogServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/products", s.handleCreateProduct)
	mux.HandleFunc("GET /v1/products", s.handleListProducts)
	mux.HandleFunc("GET /v1/products/{id}", s.handleGetProduct)
	mux.HandleFunc("PATCH /v1/products/{id}", s.handleUpdateProduct)
	mux.HandleFunc("DELETE /v1/products/{id}", s.handleDeleteProduct)
	mux.HandleFunc("POST /v1/issues", s.handleCreateIssue)
	mux.HandleFunc("GET /v1/issues", s.handleListIssues)
	mux.HandleFunc("GET /v1/issues/{id}", s.handleGetIssue)
	mux.HandleFunc("PATCH /v1/issues/{id}", s.handleUpdateIssue)
	mux.HandleFunc("POST /v1/issues/{id}/resolve", s.handleResolveIssue)
	mux.HandleFunc("DELETE /v1/issues/{id}", s.handleDeleteIssue)
	mux.HandleFunc("POST /v1/shipments", s.handleCreateShipment)
	mux.HandleFunc("GET /v1/shipments", s.handleListShipments)
	mux.HandleFunc("GET /v1/shipments/{id}", s.handleGetShipment)
	mux.HandleFunc("PATCH /v1/shipments/{id}", s.handleUpdateShipment)
	mux.HandleFunc("DELETE /v1/shipments/{id}", s.handleDeleteShipment)
	mux.HandleFunc("POST /v1/companies", s.handleCreateCompany)
	mux.HandleFunc("GET /v1/companies", s.handleListCompanies)
	mux.HandleFunc("GET /v1/companies/{id}", s.handleGetCompany)
	mux.HandleFunc("PATCH /v1/companies/{id}", s.handleUpdateCompany)
	mux.HandleFunc("DELETE /v1/companies/{id}", s.handleDeleteCompany)
	mux.HandleFunc("GET /v1/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /v1/notifications/{id}/read", s.handleMarkNotificationRead)
	mux.HandleFunc("POST /v1/notifications/read-all", s.handleMarkAllNotificationsRead)
	mux.HandleFunc("GET /v1/entities/{id}/events", s.handleGetEvents)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/stats", s.handleGetStats)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	var h http.Handler = mux
	h = AuthMiddleware(authToken, h)
	h = LoggingMiddleware(h)
	h = RecoveryMiddleware(h)
	return h
}

// handleHealth handles GET /v1/health.
func (s *FixlogServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetStats handles GET /v1/stats.
func (s *FixlogServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleGetEvents handles GET /v1/entities/{id}/events: the audit trail
// for a single product, issue, shipment, or company.
func (s *FixlogServer) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	evts, err := s.store.GetEvents(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get events")
		return
	}
	if evts == nil {
		evts = []*model.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": evts})
}

// listEnvelope is the response shape for all list endpoints.
type listEnvelope struct {
	Data any      `json:"data"`
	Meta listMeta `json:"meta"`
}

type listMeta struct {
	Pagination query.PageMeta `json:"pagination"`
}

// writeList writes a paginated list response. A nil slice must be replaced
// with an empty one by the caller so the data field is never null.
func writeList(w http.ResponseWriter, data any, meta query.PageMeta) {
	writeJSON(w, http.StatusOK, listEnvelope{Data: data, Meta: listMeta{Pagination: meta}})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeValidationError writes a 400 with per-field error details.
func writeValidationError(w http.ResponseWriter, ve *model.ValidationError) {
	fields := make(map[string]string, len(ve.Errors))
	for _, fe := range ve.Errors {
		fields[fe.Field] = fe.Message
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}
