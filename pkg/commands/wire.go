package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/daylog/pkg/config"
	"tableflip.dev/daylog/pkg/events"
	"tableflip.dev/daylog/pkg/gateway"
	"tableflip.dev/daylog/pkg/insight"
	"tableflip.dev/daylog/pkg/observability"
	"tableflip.dev/daylog/pkg/printers"
	"tableflip.dev/daylog/pkg/server"
	"tableflip.dev/daylog/pkg/session"
	"tableflip.dev/daylog/pkg/store"
)

type rootOptions struct {
	Local bool
}

// addRootArgs declares the flags config.Load knows how to bind.
func addRootArgs(cmd *cobra.Command, o *rootOptions) {
	f := cmd.PersistentFlags()
	f.String("server", "", "Daylog server URL (default http://localhost:8000).")
	f.Duration("timeout", 0, "Per-request timeout when talking to the server.")
	f.String("store", "", "Store driver for --local and serve, diskv or postgres.")
	f.String("store-path", "", "Directory of the diskv store (default ~/.daylog.db).")
	f.String("log-level", "", "Log level, one of debug, info, warn or error.")
	f.Bool("mock-llm", false, "Use the built-in rule based generator instead of a language model.")
	f.BoolVar(&o.Local, "local", false, "Open the store directly instead of calling a daylog server.")
}

func newLogger(cfg *config.Config, w io.Writer, format observability.Format) (*slog.Logger, error) {
	level, err := observability.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return observability.NewLogger(w, format, level), nil
}

// backend is everything behind the HTTP API, assembled in process.
type backend struct {
	Store     store.Store
	Service   *server.Service
	publisher events.Publisher
}

func (b *backend) Close() error {
	return errors.Join(b.publisher.Close(), b.Store.Close())
}

func openBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backend, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		log.Info("publishing activity events", "brokers", cfg.Kafka.Brokers, "topic", kp.Topic())
		pub = kp
	}

	svc := server.NewService(st, newGenerator(cfg),
		server.WithPublisher(pub),
		server.WithLogger(log),
	)
	return &backend{Store: st, Service: svc, publisher: pub}, nil
}

func newGenerator(cfg *config.Config) insight.Generator {
	if cfg.LLM.Mock {
		return insight.NewMock()
	}
	return insight.NewClient(cfg.LLM.BaseURL,
		insight.WithModel(cfg.LLM.Model),
		insight.WithAPIKey(cfg.LLM.APIKey),
		insight.WithHTTPClient(&http.Client{Timeout: cfg.LLM.Timeout}),
	)
}

// client is a session plus whatever has to be released when it is done.
type client struct {
	Session *session.Manager
	// Backend is set in --local mode.
	Backend *backend
}

func (c *client) Close() error {
	if c.Backend == nil {
		return nil
	}
	return c.Backend.Close()
}

func openClient(ctx context.Context, cmd *cobra.Command, log *slog.Logger) (*client, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if log == nil {
		if log, err = newLogger(cfg, os.Stderr, observability.FormatText); err != nil {
			return nil, err
		}
	}

	if !root.Local {
		gw := gateway.NewHTTP(cfg.ServerURL, gateway.WithTimeout(cfg.ServerTimeout))
		log.Debug("using daylog server", "url", gw.BaseURL())
		return &client{Session: session.New(gw, session.WithLogger(log))}, nil
	}

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	gw := &gateway.Local{Backend: be.Service}
	return &client{Session: session.New(gw, session.WithLogger(log)), Backend: be}, nil
}

// newPrinter writes to the command's output, going plain unless that is a
// terminal.
func newPrinter(cmd *cobra.Command) *printers.PrettyPrint {
	w := cmd.OutOrStdout()
	if f, ok := w.(*os.File); ok {
		return printers.New(f)
	}
	return &printers.PrettyPrint{Out: w, Plain: true}
}
