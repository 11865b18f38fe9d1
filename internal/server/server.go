// File: internal/server/server.go
// Description: Local host for the extractor panel. It owns the panel Props,
// recomputes State only when the inspected element changes, and forwards
// triggers to the orchestrator.

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/extractor"
	"github.com/xkilldash9x/extractor-cli/internal/panel"
	"github.com/xkilldash9x/extractor-cli/internal/playground"
	"github.com/xkilldash9x/extractor-cli/internal/prettyprint"
)

// Pipeline is the part of the orchestrator the server drives.
type Pipeline interface {
	Trigger(ctx context.Context, req extractor.Request) error
	Inspect(ctx context.Context, capturer schemas.Capturer) (schemas.InspectedSnapshot, []string, error)
}

// CapturerFactory returns a capturer for one page and selector.
type CapturerFactory func(pageURL, selector string) schemas.Capturer

const shutdownTimeout = 10 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server hosts the panel. The pipeline must deliver its messages through
// ResponseTransport.
type Server struct {
	pipeline Pipeline
	capture  CapturerFactory
	logger   *zap.Logger
	router   chi.Router

	mu    sync.RWMutex
	props panel.Props
	state panel.State
}

// New builds the server and its routes.
func New(pipeline Pipeline, capture CapturerFactory, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		pipeline: pipeline,
		capture:  capture,
		logger:   logger.Named("server"),
	}
	s.state = panel.NewState(s.props)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handlePanel)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/inspected", s.handleInspected)
	r.Post("/inspect", s.handleInspect)
	r.Post("/trigger/{target}", s.handleTrigger)
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Panel host listening.", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("panel host failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down panel host.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("panel host shutdown failed: %w", err)
	}
	<-errCh
	return nil
}

// setProps replaces the props, recomputing state only on a real change.
func (s *Server) setProps(updated panel.Props) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = panel.Update(s.props, s.state, updated)
	s.props = updated
}

func (s *Server) snapshot() (panel.Props, panel.State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.props, s.state
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	props, state := s.snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := panel.Render(w, props, state); err != nil {
		s.logger.Error("Failed to render panel.", zap.Error(err))
	}
}

type inspectedView struct {
	Inspected schemas.InspectedSnapshot `json:"inspected"`
	IsLoading bool                      `json:"isLoading"`
	Pretty    []string                  `json:"pretty"`
}

func (s *Server) handleInspected(w http.ResponseWriter, r *http.Request) {
	props, _ := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	view := inspectedView{
		Inspected: props.Inspected,
		IsLoading: props.IsLoading,
		Pretty:    prettyprint.Lines(props.Inspected.HTML),
	}
	if err := json.NewEncoder(w).Encode(view); err != nil {
		s.logger.Warn("Failed to encode inspected element.", zap.Error(err))
	}
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	pageURL := r.PostForm.Get("url")
	if pageURL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	previous, _ := s.snapshot()
	loading := previous
	loading.IsLoading = true
	s.setProps(loading)

	snap, _, err := s.pipeline.Inspect(withResponse(r.Context(), w), s.capture(pageURL, r.PostForm.Get("selector")))
	if err != nil {
		// The error page has already been written by the transport.
		s.setProps(previous)
		return
	}
	s.setProps(panel.Props{Inspected: snap})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	target, err := playground.ParseTarget(chi.URLParam(r, "target"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	props, state := s.snapshot()
	if !state.HasInspected {
		http.Error(w, "Nothing has been inspected yet", http.StatusConflict)
		return
	}
	snap := props.Inspected

	err = s.pipeline.Trigger(withResponse(r.Context(), w), extractor.Request{Target: target, Snapshot: &snap})
	if err != nil {
		// Capture and conversion failures were rendered as an error page;
		// anything else means the response may be incomplete.
		s.logger.Warn("Trigger failed.", zap.Stringer("target", target), zap.Error(err))
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Handled request.",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}
