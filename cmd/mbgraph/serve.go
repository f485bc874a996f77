package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tghp/wpgraphql-mb/internal/engine"
	"github.com/tghp/wpgraphql-mb/internal/server"
	"github.com/tghp/wpgraphql-mb/internal/site"
	"github.com/tghp/wpgraphql-mb/internal/watch"
)

type serveOptions struct {
	addr    string
	timeout time.Duration
	pretty  bool
	cors    []string
	maxBody int64
	watch   bool

	// ready, when set, receives the bound address once listening.
	ready func(addr string)
}

func newServeCmd(a *app) *cobra.Command {
	var o serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP at /graphql",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.addr, "addr", ":8080", "HTTP listen address")
	f.DurationVar(&o.timeout, "timeout", 10*time.Second, "per-request timeout")
	f.BoolVar(&o.pretty, "pretty", false, "pretty-print JSON responses")
	f.StringSliceVar(&o.cors, "cors", nil, "allowed CORS origins, * for any")
	f.Int64Var(&o.maxBody, "max-body", 1<<20, "maximum request body size in bytes, 0 for unlimited")
	f.BoolVar(&o.watch, "watch", false, "rebuild the schema when the site file changes")
	return cmd
}

func serve(ctx context.Context, a *app, o serveOptions) error {
	s, err := site.Load(a.sitePath)
	if err != nil {
		return fmt.Errorf("load site: %w", err)
	}
	sch, err := engine.Build(ctx, s)
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	e := engine.New(sch)

	var sopts []server.Option
	if o.pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if o.timeout > 0 {
		sopts = append(sopts, server.WithTimeout(o.timeout))
	}
	if o.maxBody > 0 {
		sopts = append(sopts, server.WithMaxBodyBytes(o.maxBody))
	}
	if len(o.cors) > 0 {
		sopts = append(sopts, server.WithCORS(o.cors...))
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", server.New(e, sopts...))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ln, err := net.Listen("tcp", o.addr)
	if err != nil {
		return err
	}

	if o.watch {
		w := watch.New(a.sitePath, watch.EngineReloader(a.sitePath, e), watch.WithLogger(a.logger))
		go func() {
			if err := w.Run(ctx); err != nil {
				a.logger.Error("watch stopped", zap.Error(err))
			}
		}()
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	a.logger.Info("GraphQL server listening", zap.String("addr", ln.Addr().String()))
	if o.ready != nil {
		o.ready(ln.Addr().String())
	}

	select {
	case err := <-errc:
		return a.closeWith(context.Background(), err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return a.closeWith(shutdownCtx, err)
}
