// File: internal/playground/jsfiddle.go
package playground

import (
	"strings"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/config"
)

// BabelTrigger flips the fiddle's JS panel script from the JavaScript 1.7
// marker to text/babel so the in-page babel runtime compiles the JSX.
const BabelTrigger = "\n\n<!-- Trigger babel conversion of JSX -->\n" +
	`<script>document.querySelector('script[type="application/javascript;version=1.7"]').setAttribute('type', 'text/babel');</script>`

const (
	// jsfiddleNoWrap places the JS in the head without an onload wrapper.
	jsfiddleNoWrap = "h"
	// jsfiddlePanelJS17 selects the JavaScript 1.7 panel.
	jsfiddlePanelJS17 = 2
)

// JSFiddleBuilder builds fiddle POST bodies.
type JSFiddleBuilder struct {
	endpoint  string
	resources []string
}

// NewJSFiddleBuilder creates a JSFiddle builder. Empty settings fall back to
// the public endpoint, babel 5 and the React 0.14 runtime.
func NewJSFiddleBuilder(cfg config.TargetConfig) *JSFiddleBuilder {
	b := &JSFiddleBuilder{endpoint: cfg.Endpoint, resources: cfg.Resources}
	if b.endpoint == "" {
		b.endpoint = config.JSFiddlePost
	}
	if len(b.resources) == 0 {
		b.resources = []string{config.BabelBrowser, config.ReactCDN, config.ReactDOMCDN}
	}
	return b
}

// Target implements Builder.
func (b *JSFiddleBuilder) Target() Target { return JSFiddle }

// Build appends the babel trigger to the html and assembles the fiddle
// fields. The caller's result is not modified.
func (b *JSFiddleBuilder) Build(result schemas.ConversionResult) (schemas.PlaygroundPayload, error) {
	return schemas.PlaygroundPayload{
		URL: b.endpoint,
		Data: map[string]any{
			"html":      result.HTML + BabelTrigger,
			"css":       result.CSS,
			"js":        result.JS,
			"resources": strings.Join(b.resources, ","),
			"wrap":      jsfiddleNoWrap,
			"panel_js":  jsfiddlePanelJS17,
		},
	}, nil
}
