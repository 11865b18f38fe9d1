// File: cmd/inspect.go
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/extractor-cli/internal/observability"
	"github.com/xkilldash9x/extractor-cli/internal/service"
	"github.com/xkilldash9x/extractor-cli/internal/transport"
)

func newInspectCmd() *cobra.Command {
	var (
		in      service.Input
		showCSS bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Capture the element and print its pretty-printed markup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			// Only error notifications travel through the transport here.
			sender := transport.NewFormSender(io.Discard, cmd.ErrOrStderr(), logger)
			components, err := service.NewComponents(cfg, sender, logger)
			if err != nil {
				return err
			}
			defer components.Shutdown()

			capturer, err := components.Capturer(in)
			if err != nil {
				return err
			}
			snap, lines, err := components.Orchestrator.Inspect(cmd.Context(), capturer)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if snap.IsEmpty() {
				fmt.Fprintln(out, "none")
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if showCSS && snap.CSS != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, snap.CSS)
			}
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().BoolVar(&showCSS, "css", false, "also print the matched CSS")
	return cmd
}
