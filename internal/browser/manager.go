// File: internal/browser/manager.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/extractor-cli/internal/config"
)

// ErrManagerClosed is returned by captures started after Close.
var ErrManagerClosed = errors.New("browser manager is closed")

// Manager owns one Chrome process. Tabs are created per capture, so
// concurrent captures do not share page state.
type Manager struct {
	cfg    config.BrowserConfig
	logger *zap.Logger

	// Initialization is deferred until the first capture.
	initOnce sync.Once
	initErr  error

	mu            sync.Mutex
	closed        bool
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewManager creates a manager. The browser is launched lazily.
func NewManager(cfg config.BrowserConfig, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Selector == "" {
		cfg.Selector = "body"
	}
	return &Manager{cfg: cfg, logger: logger.Named("browser")}
}

// Capturer returns a schemas.Capturer bound to one page and selector.
func (m *Manager) Capturer(pageURL, selector string) *PageCapturer {
	return &PageCapturer{manager: m, pageURL: pageURL, selector: selector}
}

// initialize launches the browser. It is detached from any request context:
// the process lives until Close.
func (m *Manager) initialize() error {
	m.initOnce.Do(func() {
		m.logger.Info("Launching browser.", zap.Bool("headless", m.cfg.Headless))

		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), DefaultAllocatorOptions(m.cfg)...)
		browserCtx, browserCancel := chromedp.NewContext(allocCtx,
			chromedp.WithLogf(m.logger.Sugar().Debugf),
			chromedp.WithErrorf(m.logger.Sugar().Warnf))

		// Running with no actions starts the process and its first target.
		if err := chromedp.Run(browserCtx); err != nil {
			browserCancel()
			allocCancel()
			m.initErr = fmt.Errorf("failed to launch browser: %w", err)
			return
		}

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			browserCancel()
			allocCancel()
			m.initErr = ErrManagerClosed
			return
		}
		m.allocCancel = allocCancel
		m.browserCtx = browserCtx
		m.browserCancel = browserCancel
		m.mu.Unlock()
	})
	return m.initErr
}

func (m *Manager) newTab() (context.Context, context.CancelFunc, error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, nil, ErrManagerClosed
	}
	if err := m.initialize(); err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, nil, ErrManagerClosed
	}
	tabCtx, cancel := chromedp.NewContext(m.browserCtx)
	return tabCtx, cancel, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.browserCancel == nil {
		return nil
	}

	m.logger.Info("Shutting down browser.")
	// Cancelling the browser context closes Chrome gracefully.
	m.browserCancel()
	m.allocCancel()
	return nil
}
