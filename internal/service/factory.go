// File: internal/service/factory.go
package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/browser"
	"github.com/xkilldash9x/extractor-cli/internal/config"
	"github.com/xkilldash9x/extractor-cli/internal/convert"
	"github.com/xkilldash9x/extractor-cli/internal/extractor"
	"github.com/xkilldash9x/extractor-cli/internal/telemetry"
)

// ErrNoInput is returned when neither a page nor a markup file was given.
var ErrNoInput = errors.New("either a page url or an html file is required")

// Input says where the inspected element comes from: a live page (PageURL
// and Selector) or files on disk (HTMLFile, optional CSSFile, and PageURL
// for the report).
type Input struct {
	PageURL  string
	Selector string
	HTMLFile string
	CSSFile  string
}

// Validate checks that the input names a source.
func (in Input) Validate() error {
	if in.HTMLFile == "" && in.PageURL == "" {
		return ErrNoInput
	}
	if in.CSSFile != "" && in.HTMLFile == "" {
		return fmt.Errorf("a css file requires an html file")
	}
	return nil
}

// NewComponents wires the pipeline for cfg. Messages are delivered through
// transport. Call Shutdown when done.
func NewComponents(cfg *config.Config, transport schemas.Transport, logger *zap.Logger) (*Components, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cannot create components without a configuration")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Components{
		Browser: browser.NewManager(cfg.Browser, logger),
		logger:  logger.Named("components"),
	}

	var emitter schemas.TelemetryEmitter = telemetry.Nop{}
	if cfg.Telemetry.Enabled {
		c.Analytics = telemetry.NewAnalytics(cfg.Telemetry, nil, logger)
		emitter = c.Analytics
	}

	orch, err := extractor.New(cfg.Extractor, cfg.Playground, convert.New(), transport, emitter, logger)
	if err != nil {
		c.Shutdown()
		return nil, fmt.Errorf("failed to initialize orchestrator: %w", err)
	}
	c.Orchestrator = orch
	return c, nil
}

// Capturer returns the capture collaborator for in.
func (c *Components) Capturer(in Input) (schemas.Capturer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.HTMLFile != "" {
		static, err := browser.LoadStatic(in.HTMLFile, in.CSSFile, in.PageURL)
		if err != nil {
			return nil, err
		}
		return static, nil
	}
	return c.Browser.Capturer(in.PageURL, in.Selector), nil
}
