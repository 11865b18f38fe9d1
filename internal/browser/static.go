// File: internal/browser/static.go
package browser

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
)

// StaticCapturer returns a fixed snapshot. It backs file input and tests.
type StaticCapturer struct {
	Snapshot schemas.InspectedSnapshot
}

var _ schemas.Capturer = StaticCapturer{}

// Capture implements schemas.Capturer.
func (s StaticCapturer) Capture(ctx context.Context) (schemas.InspectedSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return schemas.InspectedSnapshot{}, err
	}
	return s.Snapshot, nil
}

// LoadStatic reads the markup (and optional stylesheet) from disk. Paths may
// start with ~.
func LoadStatic(htmlPath, cssPath, pageURL string) (StaticCapturer, error) {
	markup, err := readExpanded(htmlPath)
	if err != nil {
		return StaticCapturer{}, fmt.Errorf("failed to read html: %w", err)
	}
	var css string
	if cssPath != "" {
		if css, err = readExpanded(cssPath); err != nil {
			return StaticCapturer{}, fmt.Errorf("failed to read css: %w", err)
		}
	}
	return StaticCapturer{Snapshot: schemas.InspectedSnapshot{URL: pageURL, HTML: markup, CSS: css}}, nil
}

func readExpanded(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
