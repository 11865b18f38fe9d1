// File: internal/playground/playground.go
package playground

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/config"
)

// ErrUnknownTarget is returned when a target name matches no playground.
var ErrUnknownTarget = errors.New("unknown playground target")

// Target identifies a playground service.
type Target string

const (
	CodePen  Target = "codepen"
	JSFiddle Target = "jsfiddle"
)

// Targets lists every supported playground, in display order.
var Targets = []Target{CodePen, JSFiddle}

// ParseTarget maps a trigger name to its Target.
func ParseTarget(name string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(name))); t {
	case CodePen, JSFiddle:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTarget, name)
}

// String returns the trigger name, which is also the telemetry label.
func (t Target) String() string { return string(t) }

// Builder turns a conversion result into the payload a playground expects.
type Builder interface {
	Target() Target
	Build(result schemas.ConversionResult) (schemas.PlaygroundPayload, error)
}

// New returns the Builder for t configured from cfg.
func New(t Target, cfg config.PlaygroundConfig) (Builder, error) {
	switch t {
	case CodePen:
		return NewCodePenBuilder(cfg.CodePen), nil
	case JSFiddle:
		return NewJSFiddleBuilder(cfg.JSFiddle), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, string(t))
}
