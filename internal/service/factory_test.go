// File: internal/service/factory_test.go
package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/extractor-cli/internal/browser"
	"github.com/xkilldash9x/extractor-cli/internal/config"
	"github.com/xkilldash9x/extractor-cli/internal/mocks"
)

func TestInput_Validate(t *testing.T) {
	assert.ErrorIs(t, Input{}.Validate(), ErrNoInput)
	assert.Error(t, Input{PageURL: "http://a.test", CSSFile: "a.css"}.Validate())
	assert.NoError(t, Input{PageURL: "http://a.test"}.Validate())
	assert.NoError(t, Input{HTMLFile: "a.html", CSSFile: "a.css"}.Validate())
}

func TestNewComponents(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("requires config", func(t *testing.T) {
		_, err := NewComponents(nil, &mocks.RecordingTransport{}, nil)
		assert.Error(t, err)
	})

	t.Run("telemetry disabled", func(t *testing.T) {
		c, err := NewComponents(config.NewDefaultConfig(), &mocks.RecordingTransport{}, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer c.Shutdown()
		assert.NotNil(t, c.Orchestrator)
		assert.Nil(t, c.Analytics)
	})

	t.Run("telemetry enabled", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.TrackingID = "UA-1"
		c, err := NewComponents(cfg, &mocks.RecordingTransport{}, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.NotNil(t, c.Analytics)
		// Shutdown stops the telemetry worker; goleak checks it.
		c.Shutdown()
	})
}

func TestComponents_Capturer(t *testing.T) {
	c, err := NewComponents(config.NewDefaultConfig(), &mocks.RecordingTransport{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer c.Shutdown()

	_, err = c.Capturer(Input{})
	assert.ErrorIs(t, err, ErrNoInput)

	live, err := c.Capturer(Input{PageURL: "http://a.test", Selector: "main"})
	require.NoError(t, err)
	assert.IsType(t, &browser.PageCapturer{}, live)

	htmlPath := filepath.Join(t.TempDir(), "el.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<p>x</p>"), 0o600))
	static, err := c.Capturer(Input{HTMLFile: htmlPath, PageURL: "http://a.test"})
	require.NoError(t, err)
	snap, err := static.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", snap.HTML)
	assert.Equal(t, "http://a.test", snap.URL)
}

func TestComponents_EndToEnd(t *testing.T) {
	transport := &mocks.RecordingTransport{}
	c, err := NewComponents(config.NewDefaultConfig(), transport, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer c.Shutdown()

	htmlPath := filepath.Join(t.TempDir(), "el.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(`<div class="a">hi</div>`), 0o600))
	capturer, err := c.Capturer(Input{HTMLFile: htmlPath, PageURL: "http://a.test"})
	require.NoError(t, err)

	snap, err := capturer.Capture(context.Background())
	require.NoError(t, err)
	_, lines, err := c.Orchestrator.Inspect(context.Background(), capturer)
	require.NoError(t, err)
	assert.Equal(t, []string{`<div class="a">`, "  hi", "</div>"}, lines)
	assert.Equal(t, `<div class="a">hi</div>`, snap.HTML)
}
