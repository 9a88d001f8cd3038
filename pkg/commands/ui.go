package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/daylog/pkg/config"
	"tableflip.dev/daylog/pkg/observability"
	"tableflip.dev/daylog/pkg/store"
	"tableflip.dev/daylog/pkg/tui/dashboard"
)

func addUI(topLevel *cobra.Command) {
	var logFile string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the activity dashboard",
		Example: `
daylog ui
daylog ui --local --log-file /tmp/daylog.log
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			// The dashboard owns the terminal, so logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			log, err := newLogger(cfg, w, observability.FormatText)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			c, err := openClient(ctx, cmd, log)
			if err != nil {
				return err
			}
			defer c.Close()

			opts := []dashboard.Option{dashboard.WithContext(ctx)}
			if changes := watchStore(ctx, c, log); changes != nil {
				opts = append(opts, dashboard.WithStoreChanges(changes))
			}
			return dashboard.Run(c.Session, opts...)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Append logs to this file.")
	topLevel.AddCommand(cmd)
}

// watchStore follows a local diskv store so writes from other daylog
// processes show up in the dashboard.
func watchStore(ctx context.Context, c *client, log *slog.Logger) <-chan store.Change {
	if c.Backend == nil {
		return nil
	}
	d, ok := c.Backend.Store.(*store.Diskv)
	if !ok {
		return nil
	}
	changes, err := d.Watch(ctx)
	if err != nil {
		log.Warn("store watch disabled", "err", err)
		return nil
	}
	return changes
}
