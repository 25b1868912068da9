package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// streamLogSize bounds the replay log backing Last-Event-ID reconnects.
// A client whose last seen id has already been evicted simply misses
// those events; notifications remain queryable via /v1/notifications.
const streamLogSize = 1000

// streamKeepalive is the interval between comment lines that keep idle
// connections from being reaped by proxies.
const streamKeepalive = 15 * time.Second

// streamEvent is one broadcast entity or notification event. Events are
// value types; the replay log and subscriber channels each hold their own
// copy.
type streamEvent struct {
	id    uint64
	topic string
	data  []byte
}

// streamSub is one connected stream consumer with its topic patterns
// (empty means everything).
type streamSub struct {
	patterns []string
	ch       chan streamEvent
}

// wants reports whether the subscriber's patterns cover the topic.
func (s *streamSub) wants(topic string) bool {
	if len(s.patterns) == 0 {
		return true
	}
	for _, p := range s.patterns {
		if topicMatches(p, topic) {
			return true
		}
	}
	return false
}

// sseStream fans fixlog events out to connected stream clients and keeps a
// bounded, id-ordered replay log for reconnects. Sequence numbers, the log,
// and the subscriber set all share one lock; publish is cheap enough that
// finer-grained locking buys nothing here.
type sseStream struct {
	mu      sync.Mutex
	seq     uint64
	log     []streamEvent
	subs    map[uint64]*streamSub
	nextSub uint64
}

func newSSEStream() *sseStream {
	return &sseStream{subs: make(map[uint64]*streamSub)}
}

// publish assigns the next sequence id, records the event for replay, and
// delivers it to every matching subscriber. A subscriber that cannot keep
// up has the event dropped rather than stalling mutations; it can recover
// through the replay log on reconnect.
func (st *sseStream) publish(topic string, data []byte) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.seq++
	ev := streamEvent{id: st.seq, topic: topic, data: data}

	st.log = append(st.log, ev)
	if excess := len(st.log) - streamLogSize; excess > 0 {
		copy(st.log, st.log[excess:])
		st.log = st.log[:streamLogSize]
	}

	for _, sub := range st.subs {
		if !sub.wants(topic) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// subscribe registers a consumer for the given topic patterns and returns
// it with its detach function.
func (st *sseStream) subscribe(patterns []string) (*streamSub, func()) {
	sub := &streamSub{patterns: patterns, ch: make(chan streamEvent, 64)}

	st.mu.Lock()
	id := st.nextSub
	st.nextSub++
	st.subs[id] = sub
	st.mu.Unlock()

	return sub, func() {
		st.mu.Lock()
		delete(st.subs, id)
		st.mu.Unlock()
	}
}

// since returns a copy of the logged events with id > lastID, oldest
// first. The log is id-ordered, so the cut point is a binary search.
func (st *sseStream) since(lastID uint64) []streamEvent {
	st.mu.Lock()
	defer st.mu.Unlock()

	i := sort.Search(len(st.log), func(i int) bool { return st.log[i].id > lastID })
	if i == len(st.log) {
		return nil
	}
	out := make([]streamEvent, len(st.log)-i)
	copy(out, st.log[i:])
	return out
}

// topicMatches matches a dot-separated topic against a NATS-style pattern:
// "*" matches exactly one segment, ">" matches one or more trailing
// segments. "fixlog.issue.*" covers "fixlog.issue.created" but not
// "fixlog.issue"; "fixlog.>" covers everything under the prefix.
func topicMatches(pattern, topic string) bool {
	pp := strings.Split(pattern, ".")
	tp := strings.Split(topic, ".")
	for len(pp) > 0 {
		if pp[0] == ">" {
			return len(tp) > 0
		}
		if len(tp) == 0 {
			return false
		}
		if pp[0] != "*" && pp[0] != tp[0] {
			return false
		}
		pp, tp = pp[1:], tp[1:]
	}
	return len(tp) == 0
}

// splitTopics parses the comma-separated topics query parameter.
func splitTopics(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// writeStreamEvent emits one event in SSE wire form.
func writeStreamEvent(w io.Writer, ev streamEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", ev.id, ev.topic, ev.data)
}

// handleEventStream handles GET /v1/events/stream: an SSE feed of entity
// and notification events, optionally narrowed by ?topics=, with replay of
// missed events when the client reconnects with Last-Event-ID.
func (s *FixlogServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	sub, detach := s.stream.subscribe(splitTopics(r.URL.Query().Get("topics")))
	defer detach()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // nginx would otherwise buffer the stream
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	if raw := r.Header.Get("Last-Event-ID"); raw != "" {
		if lastID, err := strconv.ParseUint(raw, 10, 64); err == nil {
			for _, ev := range s.stream.since(lastID) {
				if sub.wants(ev.topic) {
					writeStreamEvent(w, ev)
				}
			}
			flusher.Flush()
		}
	}

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-sub.ch:
			writeStreamEvent(w, ev)
			flusher.Flush()
		case <-keepalive.C:
			io.WriteString(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

// broadcastEvent feeds recordAndPublish's events into the SSE stream.
func (s *FixlogServer) broadcastEvent(topic string, event any) {
	if s.stream == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event for SSE broadcast", "topic", topic, "error", err)
		return
	}
	s.stream.publish(topic, data)
}
