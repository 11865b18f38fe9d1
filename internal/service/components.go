// File: internal/service/components.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/extractor-cli/internal/browser"
	"github.com/xkilldash9x/extractor-cli/internal/extractor"
	"github.com/xkilldash9x/extractor-cli/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// Components holds everything one command needs to run the pipeline and
// centralizes their lifecycle.
type Components struct {
	Orchestrator *extractor.Orchestrator
	Browser      *browser.Manager
	// Analytics is nil when telemetry is disabled.
	Analytics *telemetry.Analytics

	logger *zap.Logger
}

// Shutdown releases the browser and flushes pending telemetry. It uses its
// own deadline so it completes even after the command context is cancelled.
func (c *Components) Shutdown() {
	c.logger.Debug("Beginning components shutdown sequence.")

	if c.Browser != nil {
		if err := c.Browser.Close(); err != nil {
			c.logger.Warn("Error during browser shutdown.", zap.Error(err))
		}
	}

	if c.Analytics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.Analytics.Close(ctx); err != nil {
			c.logger.Warn("Telemetry did not drain before shutdown.", zap.Error(err))
		}
	}
	c.logger.Debug("Components shut down.")
}
