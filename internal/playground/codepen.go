// File: internal/playground/codepen.go
package playground

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/config"
)

// penJSON matches JSON.stringify output: markup is not \u-escaped.
var penJSON = jsoniter.Config{EscapeHTML: false}.Froze()

// codePenDefinition is the pen definition CodePen's define endpoint reads
// from the "data" form field.
type codePenDefinition struct {
	HTML           string `json:"html"`
	CSS            string `json:"css"`
	JS             string `json:"js"`
	JSExternal     string `json:"js_external"`
	JSPreProcessor string `json:"js_pre_processor"`
}

// CodePenBuilder builds pen definitions.
type CodePenBuilder struct {
	endpoint  string
	resources []string
}

// NewCodePenBuilder creates a CodePen builder. Empty settings fall back to
// the public endpoint and the React 0.14 runtime.
func NewCodePenBuilder(cfg config.TargetConfig) *CodePenBuilder {
	b := &CodePenBuilder{endpoint: cfg.Endpoint, resources: cfg.Resources}
	if b.endpoint == "" {
		b.endpoint = config.CodePenDefine
	}
	if len(b.resources) == 0 {
		b.resources = []string{config.ReactCDN, config.ReactDOMCDN}
	}
	return b
}

// Target implements Builder.
func (b *CodePenBuilder) Target() Target { return CodePen }

// Build encodes the result as a pen definition JSON string.
func (b *CodePenBuilder) Build(result schemas.ConversionResult) (schemas.PlaygroundPayload, error) {
	def := codePenDefinition{
		HTML:           result.HTML,
		CSS:            result.CSS,
		JS:             result.JS,
		JSExternal:     strings.Join(b.resources, ";"),
		JSPreProcessor: "babel",
	}
	data, err := penJSON.MarshalToString(def)
	if err != nil {
		return schemas.PlaygroundPayload{}, fmt.Errorf("failed to encode pen definition: %w", err)
	}
	return schemas.PlaygroundPayload{
		URL:  b.endpoint,
		Data: map[string]any{"data": data},
	}, nil
}
