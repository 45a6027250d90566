package telemetry

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Event names.
const (
	EventCommandExecuted   = "command_executed"
	EventArtifactGenerated = "artifact_generated"
	EventGenerationFailed  = "generation_failed"
	EventArtifactSaved     = "artifact_saved"
	EventProjectCreated    = "project_created"
	EventSessionStart      = "session_start"
	EventTelemetryOptedOut = "telemetry_opted_out"
)

var (
	defaultMu     sync.RWMutex
	defaultClient Client = NewNoopClient()
)

// SetDefault installs the process-wide client. Nil installs a no-op client.
func SetDefault(c Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if c == nil {
		c = NewNoopClient()
	}
	defaultClient = c
}

// Default returns the process-wide client.
func Default() Client {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultClient
}

// TrackCommand records a finished command. Only the error's type is sent.
func TrackCommand(command string, elapsed time.Duration, err error) {
	props := Properties{
		"command":     command,
		"duration_ms": elapsed.Milliseconds(),
		"success":     err == nil,
	}
	if err != nil {
		props["error_type"] = errorType(err)
	}
	Default().Track(EventCommandExecuted, props)
}

// TrackGeneration records a generator call by artifact type.
func TrackGeneration(kind, provider string, elapsed time.Duration, err error) {
	props := Properties{
		"artifact_type": kind,
		"provider":      provider,
		"duration_ms":   elapsed.Milliseconds(),
	}
	if err != nil {
		props["error_type"] = errorType(err)
		Default().Track(EventGenerationFailed, props)
		return
	}
	Default().Track(EventArtifactGenerated, props)
}

// errorType reports the Go type of the innermost wrapped error, never its text.
func errorType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	return fmt.Sprintf("%T", err)
}
