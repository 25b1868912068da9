package events

import "context"

// NoopPublisher discards all events. The server falls back to it when
// FIXLOG_NATS_URL is not configured.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
