// File: internal/server/server_test.go
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/browser"
	"github.com/xkilldash9x/extractor-cli/internal/config"
	"github.com/xkilldash9x/extractor-cli/internal/convert"
	"github.com/xkilldash9x/extractor-cli/internal/extractor"
	"github.com/xkilldash9x/extractor-cli/internal/telemetry"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cfg := config.NewDefaultConfig()
	cfg.Extractor.Version = "1.0.0"

	orch, err := extractor.New(cfg.Extractor, cfg.Playground, convert.New(), ResponseTransport{}, telemetry.Nop{}, logger)
	require.NoError(t, err)

	factory := func(pageURL, selector string) schemas.Capturer {
		if pageURL == "http://denied.test" {
			return schemas.CapturerFunc(func(context.Context) (schemas.InspectedSnapshot, error) {
				return schemas.InspectedSnapshot{}, errors.New("denied")
			})
		}
		return browser.StaticCapturer{Snapshot: schemas.InspectedSnapshot{
			URL:  pageURL,
			HTML: `<div class="card">Hi <b>there</b></div>`,
			CSS:  ".card { color: red; }",
		}}
	}

	ts := httptest.NewServer(New(orch, factory, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func noRedirectClient() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
}

func get(t *testing.T, ts *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, ts *httptest.Server, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := noRedirectClient().PostForm(ts.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	status, body := get(t, ts, "/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestPanel_NothingInspected(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<i>none</i>")

	resp, _ := post(t, ts, "/trigger/codepen", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = post(t, ts, "/trigger/codesandbox", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = post(t, ts, "/inspect", url.Values{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInspectThenTrigger(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := post(t, ts, "/inspect", url.Values{"url": {"http://a.test"}, "selector": {".card"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := get(t, ts, "/")
	assert.Contains(t, body, "&lt;div class=&#34;card&#34;&gt;")
	assert.NotContains(t, body, " disabled>")

	_, body = get(t, ts, "/inspected")
	assert.Contains(t, body, `"url":"http://a.test"`)
	assert.Contains(t, body, `"isLoading":false`)

	resp, body = post(t, ts, "/trigger/jsfiddle", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="`+config.JSFiddlePost+`"`)
	assert.Contains(t, body, `name="panel_js" value="2"`)
	assert.Contains(t, body, "Not working?")

	resp, body = post(t, ts, "/trigger/codepen", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="`+config.CodePenDefine+`"`)
	assert.Contains(t, body, `name="data"`)
}

func TestInspect_CaptureFailure(t *testing.T) {
	ts := newTestServer(t)

	resp, body := post(t, ts, "/inspect", url.Values{"url": {"http://denied.test"}})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.True(t, strings.Contains(body, "denied"), body)
	assert.NotContains(t, body, "goroutine", "inspect failures carry the bare message")

	_, body = get(t, ts, "/")
	assert.Contains(t, body, "<i>none</i>", "failed capture leaves the panel unchanged")
}
