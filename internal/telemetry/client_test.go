package telemetry

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/posthog/posthog-go"
)

type mockEnqueuer struct {
	mu     sync.Mutex
	events []posthog.Capture
	closed bool
}

func (m *mockEnqueuer) Enqueue(msg posthog.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if capture, ok := msg.(posthog.Capture); ok {
		m.events = append(m.events, capture)
	}
	return nil
}

func (m *mockEnqueuer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockEnqueuer) getEvents() []posthog.Capture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]posthog.Capture(nil), m.events...)
}

func newTestClient(cfg *Config) (*PostHogClient, *mockEnqueuer) {
	mock := &mockEnqueuer{}
	return newPostHogClientWithEnqueuer(mock, cfg, "0.3.0"), mock
}

func TestPostHogClient_TrackWhenEnabled(t *testing.T) {
	cfg := &Config{Enabled: true, ConsentAsked: true, AnonymousID: "anon-1"}
	client, mock := newTestClient(cfg)

	client.Track(EventArtifactGenerated, Properties{"artifact_type": "persona"})

	events := mock.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Event != EventArtifactGenerated || ev.DistinctId != "anon-1" {
		t.Errorf("unexpected event %q for %q", ev.Event, ev.DistinctId)
	}
	if ev.Properties["artifact_type"] != "persona" {
		t.Errorf("artifact_type = %v", ev.Properties["artifact_type"])
	}
	if ev.Properties["os"] != runtime.GOOS || ev.Properties["app_version"] != "0.3.0" {
		t.Errorf("standard properties missing: %v", ev.Properties)
	}
	if ev.Properties["$process_person_profile"] != false {
		t.Error("person profiles must be disabled")
	}
}

func TestPostHogClient_TrackWhenDisabled(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: false, AnonymousID: "anon"})
	client.Track(EventCommandExecuted, nil)
	if n := len(mock.getEvents()); n != 0 {
		t.Fatalf("expected no events, got %d", n)
	}
}

func TestPostHogClient_CloseStopsTracking(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true, AnonymousID: "anon"})
	if err := client.Close(); err != nil {
		t.Fatal(err)
	}
	if !mock.closed {
		t.Error("enqueuer was not closed")
	}
	client.Track(EventCommandExecuted, nil)
	if n := len(mock.getEvents()); n != 0 {
		t.Fatalf("tracked after close: %d", n)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestNewPostHogClient_FallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no api key", Options{Config: &Config{Enabled: true}}},
		{"no config", Options{APIKey: "phc_test"}},
		{"not opted in", Options{APIKey: "phc_test", Config: &Config{Enabled: false}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewPostHogClient(tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := c.(NoopClient); !ok {
				t.Fatalf("got %T, want NoopClient", c)
			}
		})
	}
}

func TestTrackHelpersUseDefault(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true, AnonymousID: "anon"})
	SetDefault(client)
	t.Cleanup(func() { SetDefault(nil) })

	TrackCommand("generate", 1500*time.Millisecond, nil)
	TrackGeneration("jtbd", "gemini", time.Second, fmt.Errorf("generate: %w", errors.New("quota")))

	events := mock.getEvents()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Properties["duration_ms"] != int64(1500) || events[0].Properties["success"] != true {
		t.Errorf("command props = %v", events[0].Properties)
	}
	if events[1].Event != EventGenerationFailed {
		t.Errorf("event = %s", events[1].Event)
	}
	if got := events[1].Properties["error_type"]; got != "*errors.errorString" {
		t.Errorf("error_type = %v, want type name only", got)
	}
}

func TestPostHogClient_TrackConcurrent(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true, AnonymousID: "anon"})
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.Track(EventCommandExecuted, Properties{"n": i})
		}()
	}
	wg.Wait()
	if n := len(mock.getEvents()); n != 20 {
		t.Fatalf("expected 20 events, got %d", n)
	}
}
