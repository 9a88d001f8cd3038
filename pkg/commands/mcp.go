package commands

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/daylog/pkg/config"
	"tableflip.dev/daylog/pkg/observability"
	"tableflip.dev/daylog/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		httpAddr string
		path     string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "serve activities to Model Context Protocol clients",
		Example: `
daylog mcp
daylog mcp --http 127.0.0.1:8080
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			// stdout carries the protocol in stdio mode.
			log, err := newLogger(cfg, os.Stderr, observability.FormatText)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			be, err := openBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer be.Close()

			r := mcp.Runner{
				Backend:   be.Service,
				Version:   version,
				Transport: mcp.TransportStdio,
			}
			if httpAddr != "" {
				r.Transport = mcp.TransportHTTP
				r.HTTPListenAddr = httpAddr
				r.HTTPEndpointPath = path
				r.OnHTTPListening = func(addr net.Addr) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "MCP listening on http://%s%s\n", addr, path)
				}
			}
			return r.Do(ctx)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "Serve the streamable HTTP transport on this address instead of stdio.")
	cmd.Flags().StringVar(&path, "path", "/mcp", "HTTP endpoint path.")
	topLevel.AddCommand(cmd)
}
