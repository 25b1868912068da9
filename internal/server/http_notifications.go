package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
)

// handleListNotifications handles GET /v1/notifications.
// Supports ?unread=true and ?limit=N.
func (s *FixlogServer) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unreadOnly := q.Get("unread") == "true"
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	notifications, err := s.store.ListNotifications(r.Context(), unreadOnly, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	if notifications == nil {
		notifications = []*model.Notification{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

// handleMarkNotificationRead handles POST /v1/notifications/{id}/read.
func (s *FixlogServer) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.MarkNotificationRead(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleMarkAllNotificationsRead handles POST /v1/notifications/read-all.
func (s *FixlogServer) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := s.store.MarkAllNotificationsRead(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
