// File: internal/extractor/extractor.go
// Description: Drives one capture -> convert -> dispatch run per trigger. All
// collaborators are injected so every step can be replaced in tests.

package extractor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/config"
	"github.com/xkilldash9x/extractor-cli/internal/playground"
	"github.com/xkilldash9x/extractor-cli/internal/prettyprint"
	"github.com/xkilldash9x/extractor-cli/internal/report"
)

var (
	// ErrCaptureFailed wraps every failure to acquire a snapshot.
	ErrCaptureFailed = errors.New("snapshot capture failed")
	// ErrConversionFailed wraps every failure of the React conversion.
	ErrConversionFailed = errors.New("conversion to react failed")
	// ErrNoSnapshot is returned when a request has neither a snapshot nor a capturer.
	ErrNoSnapshot = errors.New("no inspected snapshot available")
)

// Request describes one trigger invocation.
type Request struct {
	Target playground.Target
	// Snapshot is the already-inspected element. When nil, Capturer is used.
	Snapshot *schemas.InspectedSnapshot
	Capturer schemas.Capturer
	// LoadingText overrides the configured loading text for this run. It is
	// only used when the snapshot is captured by this run.
	LoadingText string
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the time source used for conversion timing.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithBuilder registers or replaces the payload builder for its target.
func WithBuilder(b playground.Builder) Option {
	return func(o *Orchestrator) { o.builders[b.Target()] = b }
}

// Orchestrator wires a trigger to telemetry, capture, conversion, error
// reporting and payload dispatch. It holds no per-run state, so concurrent
// triggers are independent.
type Orchestrator struct {
	cfg       config.ExtractorConfig
	converter schemas.Converter
	transport schemas.Transport
	telemetry schemas.TelemetryEmitter
	builders  map[playground.Target]playground.Builder
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an Orchestrator. Builders for every known target are created
// from playgrounds; use WithBuilder to override one.
func New(
	cfg config.ExtractorConfig,
	playgrounds config.PlaygroundConfig,
	converter schemas.Converter,
	transport schemas.Transport,
	telemetry schemas.TelemetryEmitter,
	logger *zap.Logger,
	opts ...Option,
) (*Orchestrator, error) {
	if converter == nil || transport == nil {
		return nil, fmt.Errorf("cannot initialize orchestrator with nil converter or transport")
	}
	if telemetry == nil {
		telemetry = nopEmitter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReportMaxLength <= 0 {
		cfg.ReportMaxLength = report.DefaultMaxLength
	}

	o := &Orchestrator{
		cfg:       cfg,
		converter: converter,
		transport: transport,
		telemetry: telemetry,
		builders:  make(map[playground.Target]playground.Builder, len(playground.Targets)),
		logger:    logger.Named("extractor"),
		now:       time.Now,
	}
	for _, t := range playground.Targets {
		b, err := playground.New(t, playgrounds)
		if err != nil {
			return nil, err
		}
		o.builders[t] = b
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

type nopEmitter struct{}

func (nopEmitter) Emit(schemas.TelemetryEvent) {}

// Trigger runs the pipeline once. It sends exactly one message to the
// transport: the playground payload on success, an error notification when
// capture or conversion fails. The returned error mirrors the outcome.
func (o *Orchestrator) Trigger(ctx context.Context, req Request) error {
	builder, ok := o.builders[req.Target]
	if !ok {
		return fmt.Errorf("%w: %q", playground.ErrUnknownTarget, string(req.Target))
	}

	// Usage is counted before any work so failures are still recorded.
	o.telemetry.Emit(schemas.ClickEvent(req.Target.String()))

	logger := o.logger.With(zap.String("invocation", uuid.NewString()), zap.Stringer("target", req.Target))
	logger.Debug("Trigger received.")

	snapshot, err := o.acquire(ctx, req)
	if err != nil {
		logger.Error("Snapshot capture failed.", zap.Error(err))
		o.notify(ctx, logger, err)
		return fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	logger = logger.With(zap.String("url", snapshot.URL))

	// An already-inspected element is converted without loading text.
	var loadingText string
	if req.Snapshot == nil {
		loadingText = req.LoadingText
		if loadingText == "" {
			loadingText = o.cfg.LoadingText
		}
	}

	start := o.now()
	result, err := o.converter.Convert(snapshot, loadingText)
	if err != nil {
		logger.Error("Conversion failed.", zap.Error(err))
		o.notify(ctx, logger, err)
		return fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	elapsed := ElapsedMs(start, o.now())
	o.telemetry.Emit(schemas.ConversionTimingEvent(elapsed))
	logger.Info("Converted inspected element to React.", zap.Int64("duration_ms", elapsed))

	// The report is built from the raw capture, never the converted output.
	issue := report.IssueFor(o.cfg, snapshot)
	logger.Debug("Built error report.", zap.Int("length", report.Length(issue.Body)))

	// The bug button goes in first; target builders append their own
	// snippets (JSFiddle's babel trigger) after it.
	result.HTML = result.HTML + "\n\n" + report.BugButton(issue.URL())

	payload, err := builder.Build(result)
	if err != nil {
		logger.Error("Failed to build playground payload.", zap.Error(err))
		o.notify(ctx, logger, err)
		return fmt.Errorf("failed to build %s payload: %w", req.Target, err)
	}

	if err := o.transport.Send(ctx, schemas.Message{Post: &payload}); err != nil {
		logger.Error("Transport rejected playground payload.", zap.Error(err))
		return fmt.Errorf("failed to dispatch %s payload: %w", req.Target, err)
	}
	logger.Info("Dispatched playground payload.", zap.String("endpoint", payload.URL))
	return nil
}

// Inspect captures a snapshot for display and returns it with its
// pretty-printed markup. A capture failure is reported to the transport as
// the bare error message.
func (o *Orchestrator) Inspect(ctx context.Context, capturer schemas.Capturer) (schemas.InspectedSnapshot, []string, error) {
	snapshot, err := o.acquire(ctx, Request{Capturer: capturer})
	if err != nil {
		o.logger.Error("Snapshot capture failed.", zap.Error(err))
		o.send(ctx, o.logger, err.Error())
		return schemas.InspectedSnapshot{}, nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	return snapshot, prettyprint.Lines(snapshot.HTML), nil
}

// acquire returns the request's snapshot or captures one. Capture is the
// pipeline's only suspension point; it runs on its own goroutine so a
// cancelled ctx releases the caller even if the capturer ignores it.
func (o *Orchestrator) acquire(ctx context.Context, req Request) (schemas.InspectedSnapshot, error) {
	if req.Snapshot != nil {
		return *req.Snapshot, nil
	}
	if req.Capturer == nil {
		return schemas.InspectedSnapshot{}, ErrNoSnapshot
	}

	type captured struct {
		snapshot schemas.InspectedSnapshot
		err      error
	}
	done := make(chan captured, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- captured{err: fmt.Errorf("capturer panicked: %v", r)}
			}
		}()
		s, err := req.Capturer.Capture(ctx)
		done <- captured{snapshot: s, err: err}
	}()

	select {
	case c := <-done:
		return c.snapshot, c.err
	case <-ctx.Done():
		return schemas.InspectedSnapshot{}, ctx.Err()
	}
}

// notify sends an error notification. A failing transport is only logged.
func (o *Orchestrator) notify(ctx context.Context, logger *zap.Logger, cause error) {
	o.send(ctx, logger, FormatFailure(cause))
}

func (o *Orchestrator) send(ctx context.Context, logger *zap.Logger, text string) {
	msg := schemas.Message{Type: schemas.MessageTypeError, Message: text}
	if err := o.transport.Send(ctx, msg); err != nil {
		logger.Warn("Failed to deliver error notification.", zap.Error(err))
	}
}

// FormatFailure renders err as "Error: <message>" followed by the stack of
// the goroutine that handled it.
func FormatFailure(err error) string {
	return "Error: " + err.Error() + "\n" + string(debug.Stack())
}

// ElapsedMs returns end-start in whole milliseconds, rounded to nearest and
// never negative.
func ElapsedMs(start, end time.Time) int64 {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int64(math.Round(float64(d) / float64(time.Millisecond)))
}
