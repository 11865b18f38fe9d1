// File: cmd/report.go
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/extractor-cli/internal/observability"
	"github.com/xkilldash9x/extractor-cli/internal/report"
	"github.com/xkilldash9x/extractor-cli/internal/service"
	"github.com/xkilldash9x/extractor-cli/internal/transport"
)

func newReportCmd() *cobra.Command {
	var (
		in        service.Input
		maxLength int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the bug report and issue link for an element",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-length") {
				cfg.Extractor.ReportMaxLength = maxLength
			}
			logger := observability.GetLogger()

			components, err := service.NewComponents(cfg, transport.NewFormSender(io.Discard, cmd.ErrOrStderr(), logger), logger)
			if err != nil {
				return err
			}
			defer components.Shutdown()

			capturer, err := components.Capturer(in)
			if err != nil {
				return err
			}
			snap, err := capturer.Capture(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to capture element: %w", err)
			}

			issue := report.IssueFor(cfg.Extractor, snap)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, issue.Body)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Issue: %s\n", issue.URL())
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().IntVar(&maxLength, "max-length", report.DefaultMaxLength, "report length ceiling in characters")
	return cmd
}
