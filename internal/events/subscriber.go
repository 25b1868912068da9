package events

// Subscriber is the consuming side of the event bus, used by watch mode
// and anything else that reacts to fixlog events.
type Subscriber interface {
	// Subscribe delivers raw event payloads for the topic (NATS wildcards
	// allowed) on the returned channel. The cancel function unsubscribes
	// and closes the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
