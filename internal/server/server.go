package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ozgurkzlkaya/fixlog/internal/events"
	"github.com/ozgurkzlkaya/fixlog/internal/idgen"
	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/store"
)

// FixlogServer holds the HTTP API's dependencies and implements its handlers.
type FixlogServer struct {
	store     store.Store
	publisher events.Publisher
	stream    *sseStream
}

// NewFixlogServer returns a new FixlogServer backed by the given store and publisher.
func NewFixlogServer(s store.Store, p events.Publisher) *FixlogServer {
	return &FixlogServer{
		store:     s,
		publisher: p,
		stream:    newSSEStream(),
	}
}

// recordAndPublish persists an event to the store and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the caller.
func (s *FixlogServer) recordAndPublish(ctx context.Context, topic, entityID, actor string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "entity_id", entityID, "error", err)
		return
	}
	if err := s.store.RecordEvent(ctx, &model.Event{
		Topic:    topic,
		EntityID: entityID,
		Actor:    actor,
		Payload:  payload,
	}); err != nil {
		slog.Warn("failed to record event", "topic", topic, "entity_id", entityID, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "entity_id", entityID, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// notify creates an in-app notification and announces it. Best-effort:
// a notification that cannot be stored is dropped with a warning.
func (s *FixlogServer) notify(ctx context.Context, n *model.Notification) {
	if n.ID == "" {
		id, err := idgen.Generate(idgen.PrefixNotify)
		if err != nil {
			slog.Warn("failed to generate notification id", "error", err)
			return
		}
		n.ID = id
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		slog.Warn("failed to create notification", "type", n.Type, "error", err)
		return
	}
	s.recordAndPublish(ctx, events.TopicNotificationCreated, n.EntityID, "", events.NotificationCreated{Notification: n})
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
