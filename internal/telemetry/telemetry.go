// File: internal/telemetry/telemetry.go
package telemetry

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/config"
	"github.com/xkilldash9x/extractor-cli/internal/network"
)

// Nop discards every event.
type Nop struct{}

// Emit implements schemas.TelemetryEmitter.
func (Nop) Emit(schemas.TelemetryEvent) {}

// Analytics ships events to a Google Analytics style measurement endpoint.
// Emit only enqueues; a single background worker performs the HTTP calls, and
// events are dropped when the queue is full or the rate limit is exceeded.
type Analytics struct {
	cfg      config.TelemetryConfig
	client   *http.Client
	logger   *zap.Logger
	clientID string
	limiter  *rate.Limiter

	queue     chan schemas.TelemetryEvent
	wg        sync.WaitGroup
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

var _ schemas.TelemetryEmitter = (*Analytics)(nil)

// NewAnalytics starts the background worker. Call Close to stop it.
func NewAnalytics(cfg config.TelemetryConfig, client *http.Client, logger *zap.Logger) *Analytics {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		clientCfg := network.NewDefaultClientConfig(cfg.Timeout)
		clientCfg.Logger = logger
		client = network.NewClient(clientCfg)
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	a := &Analytics{
		cfg:      cfg,
		client:   client,
		logger:   logger.Named("telemetry"),
		clientID: uuid.NewString(),
		limiter:  rate.NewLimiter(limit, queueSize),
		queue:    make(chan schemas.TelemetryEvent, queueSize),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

// Emit enqueues ev without blocking.
func (a *Analytics) Emit(ev schemas.TelemetryEvent) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}
	if !a.limiter.Allow() {
		a.logger.Debug("Telemetry event dropped by rate limit.", zap.String("category", ev.Category))
		return
	}
	select {
	case a.queue <- ev:
	default:
		a.logger.Debug("Telemetry queue full; event dropped.", zap.String("category", ev.Category))
	}
}

// Close stops accepting events and waits for queued ones to be sent, or for
// ctx to expire.
func (a *Analytics) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.queue)
		a.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Analytics) run() {
	defer a.wg.Done()
	for ev := range a.queue {
		a.send(ev)
	}
}

func (a *Analytics) send(ev schemas.TelemetryEvent) {
	timeout := a.cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	body := Encode(ev, a.cfg.TrackingID, a.clientID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint, strings.NewReader(body.Encode()))
	if err != nil {
		a.logger.Debug("Failed to build telemetry request.", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Debug("Telemetry delivery failed.", zap.Error(err))
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		a.logger.Debug("Telemetry endpoint rejected event.", zap.Int("status", resp.StatusCode))
	}
}

// Encode renders ev as measurement protocol (v1) parameters.
func Encode(ev schemas.TelemetryEvent, trackingID, clientID string) url.Values {
	v := url.Values{}
	v.Set("v", "1")
	v.Set("tid", trackingID)
	v.Set("cid", clientID)

	switch ev.Kind {
	case schemas.TelemetryTiming:
		v.Set("t", "timing")
		v.Set("utc", ev.Category)
		v.Set("utv", ev.Var)
		v.Set("utt", strconv.FormatInt(ev.ValueMs, 10))
		if ev.Label != "" {
			v.Set("utl", ev.Label)
		}
	default:
		v.Set("t", "event")
		v.Set("ec", ev.Category)
		v.Set("ea", ev.Action)
		if ev.Label != "" {
			v.Set("el", ev.Label)
		}
		if ev.NonInteraction {
			v.Set("ni", "1")
		}
	}
	return v
}
