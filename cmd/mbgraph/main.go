// Command mbgraph exposes Meta Box custom fields of a site as GraphQL.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tghp/wpgraphql-mb/internal/eventbus"
	"github.com/tghp/wpgraphql-mb/internal/logging"
	"github.com/tghp/wpgraphql-mb/internal/otel"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	// Post-run hooks are skipped when a command fails, so flush here.
	return multierr.Append(err, a.close(context.Background()))
}

// app holds what every command sets up before it runs.
type app struct {
	sitePath     string
	debug        bool
	otelEndpoint string
	otelService  string

	logger   *zap.Logger
	shutdown func(context.Context) error
	once     sync.Once
	closeErr error
}

func (a *app) setup() error {
	logger, err := logging.New(a.debug)
	if err != nil {
		return err
	}
	a.logger = logger

	eventbus.Use(eventbus.New())
	unsubscribe := logging.Subscribe(logger)

	shutdown, err := otel.Setup(a.otelEndpoint, a.otelService)
	if err != nil {
		unsubscribe()
		return fmt.Errorf("otel setup: %w", err)
	}
	a.shutdown = func(ctx context.Context) error {
		unsubscribe()
		return shutdown(ctx)
	}
	return nil
}

// close flushes telemetry. It is safe to call more than once.
func (a *app) close(ctx context.Context) error {
	a.once.Do(func() {
		if a.shutdown != nil {
			a.closeErr = a.shutdown(ctx)
		}
		if a.logger != nil {
			// Sync fails on terminals; nothing is lost.
			_ = a.logger.Sync()
		}
	})
	return a.closeErr
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "mbgraph <command>",
		Short:        "Meta Box custom fields as a GraphQL schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.sitePath, "site", "site.yaml", "site description file")
	f.BoolVar(&a.debug, "debug", false, "development logging at debug level")
	f.StringVar(&a.otelEndpoint, "otel.endpoint", "", "OTLP collector endpoint")
	f.StringVar(&a.otelService, "otel.service", "mbgraph", "OpenTelemetry service name")

	root.AddCommand(newSDLCmd(a), newQueryCmd(a), newServeCmd(a))
	return root
}

// closeWith combines err with the result of closing a.
func (a *app) closeWith(ctx context.Context, err error) error {
	return multierr.Append(err, a.close(ctx))
}
