package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// natsConnect dials the server with the shared connection options. Callers
// append their own options; later options win.
func natsConnect(url, name string, opts ...nats.Option) (*nats.Conn, error) {
	base := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// NATSPublisher emits fixlog events as JSON messages on NATS subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := natsConnect(url, "fixlog-publisher")
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return p.conn.Publish(topic, data)
}

// Close drains buffered outgoing messages before disconnecting, so events
// published right before shutdown still reach the server.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// NATSSubscriber consumes fixlog events from NATS subjects.
type NATSSubscriber struct {
	conn *nats.Conn
}

// NewNATSSubscriber connects with endless reconnects. Extra nats.Option
// values (disconnect/reconnect handlers and the like) can be appended.
func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	nc, err := natsConnect(url, "fixlog-subscriber", opts...)
	if err != nil {
		return nil, err
	}
	return &NATSSubscriber{conn: nc}, nil
}

// Subscribe delivers raw payloads for the topic (NATS wildcards allowed)
// until the returned cancel function is called, at which point the channel
// is closed. A consumer that stops reading loses messages rather than
// stalling the connection.
func (s *NATSSubscriber) Subscribe(topic string) (<-chan []byte, func(), error) {
	msgs := make(chan *nats.Msg, 64)
	sub, err := s.conn.ChanSubscribe(topic, msgs)
	if err != nil {
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	// Round-trip to the server so the subscription is live before we
	// return; otherwise messages published on other connections race it.
	if err := s.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, nil, fmt.Errorf("flushing subscription: %w", err)
	}

	out := make(chan []byte, 64)
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		defer close(out)
		for {
			select {
			case <-done:
				// Throw away anything still buffered so the consumer's
				// next receive observes the close, not stale payloads.
				for {
					select {
					case <-out:
					default:
						return
					}
				}
			case m := <-msgs:
				select {
				case out <- m.Data:
				default:
					// Slow consumer; drop.
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			close(done)
			<-finished
		})
	}
	return out, cancel, nil
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
