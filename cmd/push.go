// File: cmd/push.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/extractor-cli/internal/config"
	"github.com/xkilldash9x/extractor-cli/internal/extractor"
	"github.com/xkilldash9x/extractor-cli/internal/observability"
	"github.com/xkilldash9x/extractor-cli/internal/playground"
	"github.com/xkilldash9x/extractor-cli/internal/service"
	"github.com/xkilldash9x/extractor-cli/internal/transport"
)

func newPushCmd() *cobra.Command {
	var (
		in          service.Input
		all         bool
		loadingText string
		mode        string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "push [codepen|jsfiddle]",
		Short: "Convert the element to React and send it to a playground",
		Long: `Captures the element, converts it to a React component and hands the
result to CodePen or JSFiddle. In form mode an auto-submitting HTML form is
written (open it in a browser); in post mode the playground is called directly
and the created pen or fiddle is printed.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			targets := playground.Targets
			if !all {
				target, err := playground.ParseTarget(args[0])
				if err != nil {
					return err
				}
				targets = []playground.Target{target}
			}

			if cmd.Flags().Changed("transport") {
				cfg.Transport.Mode = mode
			}
			if cmd.Flags().Changed("output-dir") {
				cfg.Transport.OutputDir = outputDir
			}
			if cmd.Flags().Changed("loading-text") {
				cfg.Extractor.LoadingText = loadingText
			}

			sender, err := transport.New(cfg.Transport, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
			if err != nil {
				return err
			}
			components, err := service.NewComponents(cfg, sender, logger)
			if err != nil {
				return err
			}
			defer components.Shutdown()

			capturer, err := components.Capturer(in)
			if err != nil {
				return err
			}

			// Each target gets its own capture and conversion; one failing
			// does not cancel the other.
			var g errgroup.Group
			for _, target := range targets {
				g.Go(func() error {
					return components.Orchestrator.Trigger(cmd.Context(), extractor.Request{
						Target:   target,
						Capturer: capturer,
					})
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			// Forms written to stdout are the output; nothing else goes there.
			if cfg.Transport.Mode == config.TransportPost || cfg.Transport.OutputDir != "-" {
				for _, result := range sender.Results() {
					fmt.Fprintln(cmd.OutOrStdout(), result)
				}
			}
			logger.Info("Push complete.", zap.Int("targets", len(targets)))
			return nil
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().BoolVar(&all, "all", false, "push to every playground")
	cmd.Flags().StringVar(&loadingText, "loading-text", "", "text shown in the mount point until React renders")
	cmd.Flags().StringVar(&mode, "transport", "", "delivery mode: form or post (default from transport.mode)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", `directory for generated forms, "-" for stdout`)
	return cmd
}
