package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client sends usage events.
type Client interface {
	// Track enqueues an event and returns immediately. No-op when disabled.
	Track(event string, properties map[string]any)

	// Close flushes pending events.
	Close() error
}

// Properties is a type alias for event properties.
type Properties = map[string]any

// enqueuer is the subset of the PostHog client we use.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient wraps the PostHog SDK.
type PostHogClient struct {
	client  enqueuer
	config  *Config
	version string

	mu     sync.RWMutex
	closed bool
}

// Options configures NewPostHogClient.
type Options struct {
	APIKey   string
	Endpoint string // empty uses PostHog cloud
	Version  string
	Config   *Config
}

// NewPostHogClient returns a PostHog-backed client, or a NoopClient when there is
// no API key, no consent config, or the user has not opted in.
func NewPostHogClient(opts Options) (Client, error) {
	if opts.APIKey == "" || opts.Config == nil || !opts.Config.IsEnabled() {
		return NewNoopClient(), nil
	}

	phConfig := posthog.Config{
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    quietLogger{},
	}
	if opts.Endpoint != "" {
		phConfig.Endpoint = opts.Endpoint
	}

	client, err := posthog.NewWithConfig(opts.APIKey, phConfig)
	if err != nil {
		return nil, err
	}
	return newPostHogClientWithEnqueuer(client, opts.Config, opts.Version), nil
}

func newPostHogClientWithEnqueuer(enq enqueuer, cfg *Config, version string) *PostHogClient {
	return &PostHogClient{client: enq, config: cfg, version: version}
}

// Track enqueues event with the standard properties added.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed || c.config == nil || !c.config.IsEnabled() {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("app_version", c.version)
	// No person profiles: events stay anonymous.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.config.AnonymousID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes the queue. Later Track calls are dropped.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// NoopClient drops every event.
type NoopClient struct{}

func (NoopClient) Track(string, map[string]any) {}
func (NoopClient) Close() error                 { return nil }

// NewNoopClient returns a client that does nothing.
func NewNoopClient() NoopClient {
	return NoopClient{}
}

// quietLogger keeps PostHog transport warnings out of command output.
type quietLogger struct{}

func (quietLogger) Debugf(string, ...any) {}
func (quietLogger) Logf(string, ...any)   {}
func (quietLogger) Warnf(string, ...any)  {}
func (quietLogger) Errorf(string, ...any) {}
