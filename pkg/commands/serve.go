package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/daylog/pkg/config"
	"tableflip.dev/daylog/pkg/observability"
	"tableflip.dev/daylog/pkg/server"
)

func addServe(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the activity API server",
		Example: `
daylog serve
daylog serve --listen :9000 --store postgres
DAYLOG_KAFKA_BROKERS=localhost:9092 daylog serve --mock-llm
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := newLogger(cfg, os.Stdout, observability.FormatJSON)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			be, err := openBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := be.Close(); err != nil {
					log.Error("close backend", "err", err)
				}
			}()

			sc := server.DefaultConfig(cfg.Listen)
			sc.CORSOrigin = cfg.CORSOrigin
			log.Info("starting daylog server",
				"store", cfg.Store.Driver,
				"model", cfg.LLM.Model,
				"mock_llm", cfg.LLM.Mock,
			)
			return server.Run(ctx, server.New(sc, be.Service, log), log)
		},
	}

	cmd.Flags().String("listen", "", "Address to listen on (default :8000).")
	topLevel.AddCommand(cmd)
}
