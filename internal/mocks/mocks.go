// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
)

// -- Capturer Mock --

// MockCapturer mocks the schemas.Capturer interface.
type MockCapturer struct {
	mock.Mock
}

// Capture honours ctx cancellation before consulting the expectations.
func (m *MockCapturer) Capture(ctx context.Context) (schemas.InspectedSnapshot, error) {
	select {
	case <-ctx.Done():
		return schemas.InspectedSnapshot{}, ctx.Err()
	default:
	}
	args := m.Called(ctx)
	return args.Get(0).(schemas.InspectedSnapshot), args.Error(1)
}

// -- Converter Mock --

// MockConverter mocks the schemas.Converter interface.
type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(snapshot schemas.InspectedSnapshot, loadingText string) (schemas.ConversionResult, error) {
	args := m.Called(snapshot, loadingText)
	return args.Get(0).(schemas.ConversionResult), args.Error(1)
}

// -- Transport Mock --

// MockTransport mocks the schemas.Transport interface.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, msg schemas.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// -- Recorders --

// RecordingTransport keeps every message it is handed. It is safe for
// concurrent use.
type RecordingTransport struct {
	mu       sync.Mutex
	messages []schemas.Message
	// Err, when set, is returned from every Send after recording.
	Err error
}

func (r *RecordingTransport) Send(_ context.Context, msg schemas.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return r.Err
}

// Messages returns a copy of the recorded messages.
func (r *RecordingTransport) Messages() []schemas.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]schemas.Message(nil), r.messages...)
}

// Errors returns only the error notifications.
func (r *RecordingTransport) Errors() []schemas.Message {
	var out []schemas.Message
	for _, m := range r.Messages() {
		if m.IsError() {
			out = append(out, m)
		}
	}
	return out
}

// Posts returns only the playground payloads.
func (r *RecordingTransport) Posts() []schemas.PlaygroundPayload {
	var out []schemas.PlaygroundPayload
	for _, m := range r.Messages() {
		if m.Post != nil {
			out = append(out, *m.Post)
		}
	}
	return out
}

// RecordingEmitter keeps every telemetry event. It is safe for concurrent use.
type RecordingEmitter struct {
	mu     sync.Mutex
	events []schemas.TelemetryEvent
}

func (r *RecordingEmitter) Emit(ev schemas.TelemetryEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *RecordingEmitter) Events() []schemas.TelemetryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]schemas.TelemetryEvent(nil), r.events...)
}

// Count returns how many recorded events have the given kind.
func (r *RecordingEmitter) Count(kind schemas.TelemetryKind) int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
