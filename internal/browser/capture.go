// File: internal/browser/capture.go
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
)

// matchedCSSScript collects the text of every stylesheet rule that applies to
// the selected element or one of its descendants. Grouping rules (@media,
// @supports) are descended into; cross-origin sheets that refuse cssRules are
// skipped. Rules keep document order and are deduplicated.
const matchedCSSScript = `(function(selector) {
	var root = document.querySelector(selector);
	if (!root) { return ""; }
	var nodes = [root].concat(Array.prototype.slice.call(root.querySelectorAll("*")));
	var out = [];
	var seen = {};
	var visit = function(rules) {
		for (var i = 0; i < rules.length; i++) {
			var rule = rules[i];
			if (!rule.selectorText) {
				if (rule.cssRules) { visit(rule.cssRules); }
				continue;
			}
			for (var j = 0; j < nodes.length; j++) {
				var hit = false;
				try { hit = nodes[j].matches(rule.selectorText); } catch (e) {}
				if (hit) {
					if (!seen[rule.cssText]) { seen[rule.cssText] = true; out.push(rule.cssText); }
					break;
				}
			}
		}
	};
	for (var s = 0; s < document.styleSheets.length; s++) {
		var rules = null;
		try { rules = document.styleSheets[s].cssRules; } catch (e) {}
		if (rules) { visit(rules); }
	}
	return out.join("\n");
})(%s)`

// PageCapturer captures one element of one page. It implements
// schemas.Capturer and can be reused; each Capture opens a fresh tab.
type PageCapturer struct {
	manager  *Manager
	pageURL  string
	selector string
}

var _ schemas.Capturer = (*PageCapturer)(nil)

// Capture implements schemas.Capturer.
func (c *PageCapturer) Capture(ctx context.Context) (schemas.InspectedSnapshot, error) {
	return c.manager.Capture(ctx, c.pageURL, c.selector)
}

// captureActions navigates, waits for selector and reads the element.
func captureActions(pageURL, selector string, snap *schemas.InspectedSnapshot) ([]chromedp.Action, error) {
	quoted, err := jsoniter.MarshalToString(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to encode selector: %w", err)
	}
	script := fmt.Sprintf(matchedCSSScript, quoted)

	return []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.OuterHTML(selector, &snap.HTML, chromedp.ByQuery),
		chromedp.Evaluate(script, &snap.CSS, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithSilent(true)
		}),
		// The final location, after redirects, is what the report records.
		chromedp.Location(&snap.URL),
	}, nil
}

// Capture opens a tab, loads pageURL and returns the first element matching
// selector with its URL and matched CSS. An empty selector uses the
// configured default.
func (m *Manager) Capture(ctx context.Context, pageURL, selector string) (schemas.InspectedSnapshot, error) {
	if strings.TrimSpace(pageURL) == "" {
		return schemas.InspectedSnapshot{}, fmt.Errorf("page url is required")
	}
	if selector == "" {
		selector = m.cfg.Selector
	}

	tabCtx, tabCancel, err := m.newTab()
	if err != nil {
		return schemas.InspectedSnapshot{}, err
	}
	defer tabCancel()

	opCtx, opCancel := CombineContext(tabCtx, ctx)
	defer opCancel()
	if m.cfg.CaptureTimeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(opCtx, m.cfg.CaptureTimeout)
		defer cancel()
	}

	var snap schemas.InspectedSnapshot
	actions, err := captureActions(pageURL, selector, &snap)
	if err != nil {
		return schemas.InspectedSnapshot{}, err
	}

	m.logger.Debug("Capturing element.", zap.String("url", pageURL), zap.String("selector", selector))
	if err := chromedp.Run(opCtx, actions...); err != nil {
		if ctxErr := opCtx.Err(); ctxErr != nil {
			return schemas.InspectedSnapshot{}, fmt.Errorf("capture of %q on %s interrupted: %w", selector, pageURL, ctxErr)
		}
		return schemas.InspectedSnapshot{}, fmt.Errorf("capture of %q on %s failed: %w", selector, pageURL, err)
	}
	if snap.URL == "" {
		snap.URL = pageURL
	}
	m.logger.Info("Captured element.",
		zap.String("url", snap.URL),
		zap.Int("html_bytes", len(snap.HTML)),
		zap.Int("css_bytes", len(snap.CSS)))
	return snap, nil
}
