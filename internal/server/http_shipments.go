package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/events"
	"github.com/ozgurkzlkaya/fixlog/internal/idgen"
	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

type createShipmentInput struct {
	IssueID   string     `json:"issue_id"`
	Direction string     `json:"direction"`
	Carrier   string     `json:"carrier"`
	Tracking  string     `json:"tracking"`
	Status    string     `json:"status"`
	ShippedAt *time.Time `json:"shipped_at"`
	Actor     string     `json:"actor"`
}

type updateShipmentInput struct {
	Carrier     *string    `json:"carrier"`
	Tracking    *string    `json:"tracking"`
	Status      *string    `json:"status"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	Actor       string     `json:"actor"`
}

// handleCreateShipment handles POST /v1/shipments.
func (s *FixlogServer) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	var in createShipmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// The issue must exist; shipments hang off the repair workflow.
	if _, err := s.store.GetIssue(r.Context(), in.IssueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusBadRequest, "issue not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get issue")
		return
	}

	id, err := idgen.Generate(idgen.PrefixShipment)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	now := time.Now().UTC()
	if in.Status == "" {
		in.Status = string(model.ShipmentPreparing)
	}
	shipment := &model.Shipment{
		ID:        id,
		IssueID:   in.IssueID,
		Direction: model.Direction(in.Direction),
		Carrier:   in.Carrier,
		Tracking:  in.Tracking,
		Status:    model.ShipmentStatus(in.Status),
		ShippedAt: in.ShippedAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := model.ValidateShipment(shipment); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateShipment(r.Context(), shipment); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create shipment")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicShipmentCreated, shipment.ID, in.Actor, events.ShipmentCreated{Shipment: shipment})

	writeJSON(w, http.StatusCreated, shipment)
}

// handleListShipments handles GET /v1/shipments.
func (s *FixlogServer) handleListShipments(w http.ResponseWriter, r *http.Request) {
	opts, err := query.DecodeOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	shipments, meta, err := s.store.ListShipments(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list shipments")
		return
	}

	if shipments == nil {
		shipments = []*model.Shipment{}
	}

	writeList(w, shipments, meta)
}

// handleGetShipment handles GET /v1/shipments/{id}.
func (s *FixlogServer) handleGetShipment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	shipment, err := s.store.GetShipment(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "shipment not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get shipment")
		return
	}

	writeJSON(w, http.StatusOK, shipment)
}

// handleUpdateShipment handles PATCH /v1/shipments/{id}.
func (s *FixlogServer) handleUpdateShipment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateShipmentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	shipment, err := s.store.GetShipment(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "shipment not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get shipment")
		return
	}

	changes := make(map[string]any)
	if in.Carrier != nil {
		shipment.Carrier = *in.Carrier
		changes["carrier"] = *in.Carrier
	}
	if in.Tracking != nil {
		shipment.Tracking = *in.Tracking
		changes["tracking"] = *in.Tracking
	}
	if in.Status != nil {
		shipment.Status = model.ShipmentStatus(*in.Status)
		changes["status"] = *in.Status
	}
	if in.ShippedAt != nil {
		shipment.ShippedAt = in.ShippedAt
		changes["shipped_at"] = in.ShippedAt
	}
	if in.DeliveredAt != nil {
		shipment.DeliveredAt = in.DeliveredAt
		changes["delivered_at"] = in.DeliveredAt
	}

	if len(changes) == 0 {
		writeJSON(w, http.StatusOK, shipment)
		return
	}
	// A shipment marked delivered gets a delivery timestamp if none was given.
	if shipment.Status == model.ShipmentDelivered && shipment.DeliveredAt == nil {
		now := time.Now().UTC()
		shipment.DeliveredAt = &now
		changes["delivered_at"] = now
	}
	shipment.UpdatedAt = time.Now().UTC()

	if err := model.ValidateShipment(shipment); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeValidationError(w, ve)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateShipment(r.Context(), shipment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "shipment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update shipment")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicShipmentUpdated, shipment.ID, in.Actor, events.ShipmentUpdated{Shipment: shipment, Changes: changes})

	// Inbound deliveries mean a unit arrived at the bench.
	if _, ok := changes["status"]; ok && shipment.Status == model.ShipmentDelivered && shipment.Direction == model.DirectionInbound {
		s.notify(r.Context(), &model.Notification{
			Type:     model.NotifyShipmentArrived,
			Title:    "Shipment arrived",
			Message:  "Unit delivered for issue " + shipment.IssueID,
			EntityID: shipment.IssueID,
		})
	}

	writeJSON(w, http.StatusOK, shipment)
}

// handleDeleteShipment handles DELETE /v1/shipments/{id}.
func (s *FixlogServer) handleDeleteShipment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteShipment(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "shipment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete shipment")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicShipmentDeleted, id, "", events.ShipmentDeleted{ShipmentID: id})

	w.WriteHeader(http.StatusNoContent)
}
