// File: cmd/input.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/extractor-cli/internal/service"
)

// addInputFlags registers the flags selecting where the inspected element
// comes from.
func addInputFlags(cmd *cobra.Command, in *service.Input) {
	cmd.Flags().StringVarP(&in.PageURL, "url", "u", "", "page to capture (or the page URL recorded with --html-file)")
	cmd.Flags().StringVarP(&in.Selector, "selector", "s", "", "CSS selector of the element to capture (default from browser.selector)")
	cmd.Flags().StringVar(&in.HTMLFile, "html-file", "", "read the element markup from a file instead of a browser")
	cmd.Flags().StringVar(&in.CSSFile, "css-file", "", "stylesheet accompanying --html-file")
}
