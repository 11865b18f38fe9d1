// File: internal/mocks/mocks_test.go
package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
)

var (
	_ schemas.Capturer         = (*MockCapturer)(nil)
	_ schemas.Converter        = (*MockConverter)(nil)
	_ schemas.Transport        = (*MockTransport)(nil)
	_ schemas.Transport        = (*RecordingTransport)(nil)
	_ schemas.TelemetryEmitter = (*RecordingEmitter)(nil)
)

func TestMockCapturer_CancelledContext(t *testing.T) {
	m := new(MockCapturer)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Capture(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	m.AssertNotCalled(t, "Capture", ctx)
}

func TestRecordingTransport(t *testing.T) {
	r := &RecordingTransport{Err: errors.New("closed")}
	payload := schemas.PlaygroundPayload{URL: "http://example.com"}

	require.Error(t, r.Send(context.Background(), schemas.Message{Post: &payload}))
	require.Error(t, r.Send(context.Background(), schemas.Message{Type: schemas.MessageTypeError, Message: "boom"}))

	assert.Len(t, r.Messages(), 2)
	assert.Len(t, r.Posts(), 1)
	require.Len(t, r.Errors(), 1)
	assert.Equal(t, "boom", r.Errors()[0].Message)
}

func TestRecordingEmitter(t *testing.T) {
	r := &RecordingEmitter{}
	r.Emit(schemas.ClickEvent("codepen"))
	r.Emit(schemas.ConversionTimingEvent(3))

	assert.Equal(t, 1, r.Count(schemas.TelemetryClick))
	assert.Equal(t, 1, r.Count(schemas.TelemetryTiming))
	assert.Len(t, r.Events(), 2)
}
