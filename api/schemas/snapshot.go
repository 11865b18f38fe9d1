// File: api/schemas/snapshot.go
package schemas

import "context"

// -- Pipeline Data Model --

// InspectedSnapshot is the raw captured state of the inspected element at the
// moment a trigger fires. It is treated as immutable once captured.
type InspectedSnapshot struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// IsEmpty reports whether nothing has been inspected yet.
func (s InspectedSnapshot) IsEmpty() bool {
	return s.HTML == ""
}

// ConversionResult is the output of the React conversion step. HTML is the
// only field the pipeline mutates after creation (bug button, target snippets).
type ConversionResult struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// PlaygroundPayload is a transport-ready description of a form POST to a
// playground service. Data values are strings except where a target's wire
// format calls for a number (JSFiddle's panel_js).
type PlaygroundPayload struct {
	URL  string         `json:"url"`
	Data map[string]any `json:"data"`
}

// MessageTypeError marks a Message as an error notification.
const MessageTypeError = "error"

// Message is what the pipeline hands to the host transport. Exactly one of
// Post or (Type, Message) is populated.
type Message struct {
	Post    *PlaygroundPayload `json:"post,omitempty"`
	Type    string             `json:"type,omitempty"`
	Message string             `json:"message,omitempty"`
}

// IsError reports whether the message is an error notification.
func (m Message) IsError() bool {
	return m.Type == MessageTypeError
}

// -- Telemetry --

// TelemetryKind distinguishes the two event shapes the pipeline emits.
type TelemetryKind string

const (
	TelemetryClick  TelemetryKind = "event"
	TelemetryTiming TelemetryKind = "timing"
)

// TelemetryEvent is a best-effort usage or timing record.
type TelemetryEvent struct {
	Kind           TelemetryKind `json:"kind"`
	Category       string        `json:"category"`
	Action         string        `json:"action,omitempty"`
	Label          string        `json:"label,omitempty"`
	NonInteraction bool          `json:"nonInteraction,omitempty"`
	// Var and ValueMs are only meaningful for timing events.
	Var     string `json:"var,omitempty"`
	ValueMs int64  `json:"valueMs"`
}

// ClickEvent builds the usage event fired when a playground trigger is used.
func ClickEvent(targetName string) TelemetryEvent {
	return TelemetryEvent{
		Kind:           TelemetryClick,
		Category:       "link",
		Action:         "click",
		Label:          targetName,
		NonInteraction: true, // Don't count against bounce rate.
	}
}

// ConversionTimingEvent builds the timing event recorded after conversion.
func ConversionTimingEvent(valueMs int64) TelemetryEvent {
	return TelemetryEvent{
		Kind:     TelemetryTiming,
		Category: "processing",
		Var:      "convert-to-react-complete",
		Label:    "Convert To React Complete",
		ValueMs:  valueMs,
	}
}

// -- Collaborator Interfaces --

// Capturer acquires a snapshot of the inspected element. Implementations may
// block; the orchestrator treats the call as its single suspension point.
type Capturer interface {
	Capture(ctx context.Context) (InspectedSnapshot, error)
}

// Converter turns a snapshot into a React component. loadingText is optional
// and is placed inside the mount point.
type Converter interface {
	Convert(snapshot InspectedSnapshot, loadingText string) (ConversionResult, error)
}

// Transport is the host message channel. Delivery is fire-and-forget from the
// pipeline's point of view; the returned error is only logged and surfaced.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// TelemetryEmitter sends events to an analytics sink. Emit must never block
// the caller and never fail.
type TelemetryEmitter interface {
	Emit(ev TelemetryEvent)
}

// CapturerFunc adapts a function to the Capturer interface.
type CapturerFunc func(ctx context.Context) (InspectedSnapshot, error)

// Capture calls f(ctx).
func (f CapturerFunc) Capture(ctx context.Context) (InspectedSnapshot, error) {
	return f(ctx)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, msg Message) error

// Send calls f(ctx, msg).
func (f TransportFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
