package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/events"
)

func recvEvent(t *testing.T, ch <-chan streamEvent) streamEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return streamEvent{}
	}
}

func expectSilent(t *testing.T, ch <-chan streamEvent) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event on topic %q", ev.topic)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStreamPublishAndReceive(t *testing.T) {
	st := newSSEStream()
	sub, detach := st.subscribe(nil) // no patterns = everything
	defer detach()

	st.publish("fixlog.issue.created", []byte(`{"id":"iss-1"}`))

	ev := recvEvent(t, sub.ch)
	if ev.id != 1 {
		t.Errorf("id = %d, want 1", ev.id)
	}
	if ev.topic != "fixlog.issue.created" {
		t.Errorf("topic = %q", ev.topic)
	}
	if string(ev.data) != `{"id":"iss-1"}` {
		t.Errorf("data = %s", ev.data)
	}
}

func TestStreamPatternFilter(t *testing.T) {
	st := newSSEStream()
	sub, detach := st.subscribe([]string{"fixlog.issue.*"})
	defer detach()

	st.publish("fixlog.shipment.created", []byte(`{"id":"shp-1"}`))
	st.publish("fixlog.issue.created", []byte(`{"id":"iss-1"}`))

	if ev := recvEvent(t, sub.ch); ev.topic != "fixlog.issue.created" {
		t.Fatalf("topic = %q, want the issue event only", ev.topic)
	}
	expectSilent(t, sub.ch)
}

func TestStreamDetach(t *testing.T) {
	st := newSSEStream()
	sub, detach := st.subscribe(nil)
	detach()

	st.publish("fixlog.issue.created", []byte(`{}`))
	expectSilent(t, sub.ch)
}

func TestStreamSince(t *testing.T) {
	st := newSSEStream()
	for i := 1; i <= 5; i++ {
		st.publish("fixlog.issue.created", []byte(`{"n":`+strconv.Itoa(i)+`}`))
	}

	got := st.since(2)
	if len(got) != 3 {
		t.Fatalf("since(2) returned %d events, want 3", len(got))
	}
	for i, ev := range got {
		if want := uint64(3 + i); ev.id != want {
			t.Errorf("event %d has id %d, want %d", i, ev.id, want)
		}
	}

	if got := st.since(5); got != nil {
		t.Errorf("since(latest) = %d events, want none", len(got))
	}
	if got := st.since(0); len(got) != 5 {
		t.Errorf("since(0) = %d events, want all 5", len(got))
	}
}

func TestStreamLogEviction(t *testing.T) {
	st := newSSEStream()
	for range streamLogSize + 100 {
		st.publish("fixlog.issue.created", []byte(`{}`))
	}

	got := st.since(0)
	if len(got) != streamLogSize {
		t.Fatalf("log holds %d events, want %d", len(got), streamLogSize)
	}
	// The first 100 events were evicted, so the log now starts at id 101.
	if got[0].id != 101 {
		t.Fatalf("oldest retained id = %d, want 101", got[0].id)
	}
	if last := got[len(got)-1].id; last != streamLogSize+100 {
		t.Fatalf("newest retained id = %d, want %d", last, streamLogSize+100)
	}
}

func TestTopicMatches(t *testing.T) {
	for _, tc := range []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"fixlog.issue.created", "fixlog.issue.created", true},
		{"fixlog.issue.created", "fixlog.issue.updated", false},
		{"fixlog.issue.*", "fixlog.issue.created", true},
		{"fixlog.issue.*", "fixlog.issue.resolved", true},
		{"fixlog.issue.*", "fixlog.shipment.created", false},
		{"fixlog.issue.*", "fixlog.issue", false},
		{"fixlog.>", "fixlog.issue.created", true},
		{"fixlog.>", "fixlog.notification.created", true},
		{"fixlog.>", "other.topic", false},
		{"fixlog.>", "fixlog", false},
		{"*.*.*", "fixlog.issue.created", true},
		{"*.*.*", "fixlog.issue", false},
	} {
		if got := topicMatches(tc.pattern, tc.topic); got != tc.want {
			t.Errorf("topicMatches(%q, %q) = %v, want %v", tc.pattern, tc.topic, got, tc.want)
		}
	}
}

// openStream drives the SSE endpoint in a goroutine and returns the
// recorder plus a stop function that disconnects the client and returns
// the accumulated body.
func openStream(t *testing.T, handler http.Handler, target string, lastEventID string) (*httptest.ResponseRecorder, func() string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", target, nil).WithContext(ctx)
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(rec, req)
	}()
	// Let the handler register its subscription before the test publishes.
	time.Sleep(50 * time.Millisecond)

	return rec, func() string {
		time.Sleep(50 * time.Millisecond)
		cancel()
		<-done
		return rec.Body.String()
	}
}

func TestEventStreamEndpoint(t *testing.T) {
	srv, _, handler := newTestServer()

	rec, stop := openStream(t, handler, "/v1/events/stream", "")
	srv.stream.publish("fixlog.issue.created", []byte(`{"id":"iss-sse1"}`))
	body := stop()

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, "event:fixlog.issue.created") {
		t.Fatalf("missing event line:\n%s", body)
	}
	if !strings.Contains(body, `data:{"id":"iss-sse1"}`) {
		t.Fatalf("missing data line:\n%s", body)
	}
}

func TestEventStreamTopicsParam(t *testing.T) {
	srv, _, handler := newTestServer()

	_, stop := openStream(t, handler, "/v1/events/stream?topics=fixlog.shipment.*", "")
	srv.stream.publish("fixlog.issue.created", []byte(`{"id":"iss-1"}`))
	srv.stream.publish("fixlog.shipment.created", []byte(`{"id":"shp-1"}`))
	body := stop()

	if strings.Contains(body, "fixlog.issue.created") {
		t.Fatalf("issue event leaked through the topic filter:\n%s", body)
	}
	if !strings.Contains(body, "fixlog.shipment.created") {
		t.Fatalf("shipment event missing:\n%s", body)
	}
}

func TestEventStreamReplay(t *testing.T) {
	srv, _, handler := newTestServer()

	srv.stream.publish("fixlog.issue.created", []byte(`{"n":1}`))
	srv.stream.publish("fixlog.issue.updated", []byte(`{"n":2}`))
	srv.stream.publish("fixlog.issue.resolved", []byte(`{"n":3}`))

	// A reconnect with Last-Event-ID: 1 replays events 2 and 3 only.
	_, stop := openStream(t, handler, "/v1/events/stream", "1")
	body := stop()

	if strings.Contains(body, `data:{"n":1}`) {
		t.Fatalf("already-seen event replayed:\n%s", body)
	}
	if !strings.Contains(body, `data:{"n":2}`) || !strings.Contains(body, `data:{"n":3}`) {
		t.Fatalf("missed events not replayed:\n%s", body)
	}
}

func TestEventStreamFromRecordAndPublish(t *testing.T) {
	srv, _, handler := newTestServer()

	_, stop := openStream(t, handler, "/v1/events/stream", "")
	srv.recordAndPublish(context.Background(), events.TopicIssueCreated, "iss-sse-rp",
		"alice", events.IssueCreated{})
	body := stop()

	if !strings.Contains(body, "event:fixlog.issue.created") {
		t.Fatalf("recordAndPublish did not reach the stream:\n%s", body)
	}
}

func TestEventStreamWireFormat(t *testing.T) {
	srv, _, handler := newTestServer()

	_, stop := openStream(t, handler, "/v1/events/stream", "")
	srv.stream.publish("fixlog.issue.created", []byte(`{"id":"iss-fmt"}`))
	body := stop()

	// One event is three prefixed lines followed by a blank separator.
	want := "id:1\nevent:fixlog.issue.created\ndata:{\"id\":\"iss-fmt\"}\n\n"
	if !strings.Contains(body, want) {
		t.Fatalf("wire format mismatch, want %q in:\n%s", want, body)
	}
}
