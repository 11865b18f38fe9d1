// File: cmd/serve.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/observability"
	"github.com/xkilldash9x/extractor-cli/internal/server"
	"github.com/xkilldash9x/extractor-cli/internal/service"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extractor panel on a local address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			logger := observability.GetLogger()

			components, err := service.NewComponents(cfg, server.ResponseTransport{}, logger)
			if err != nil {
				return err
			}
			defer components.Shutdown()

			capture := func(pageURL, selector string) schemas.Capturer {
				return components.Browser.Capturer(pageURL, selector)
			}
			return server.New(components.Orchestrator, capture, logger).ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}
