// Package logging builds the zap logger and logs bus events with it.
package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tghp/wpgraphql-mb/internal/eventbus"
	"github.com/tghp/wpgraphql-mb/internal/events"
	"github.com/tghp/wpgraphql-mb/internal/reqid"
)

// New returns a development logger when debug is set and a production
// logger otherwise. Both write to stderr so that command output on stdout
// stays clean.
func New(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Subscribe logs schema builds, skipped fields and finished requests on the
// global bus.
func Subscribe(logger *zap.Logger) (unsubscribe func()) {
	offs := []func(){
		eventbus.Subscribe(func(_ context.Context, e events.SchemaBuildFinish) {
			fields := []zap.Field{
				zap.Int("types", e.Types),
				zap.Int("fields", e.Fields),
				zap.Int("connections", e.Connections),
				zap.Int("skipped", e.Skipped),
				zap.Duration("duration", e.Duration),
			}
			if e.Err != nil {
				logger.Error("schema build failed", append(fields, zap.Error(e.Err))...)
				return
			}
			logger.Info("schema built", fields...)
		}),
		eventbus.Subscribe(func(_ context.Context, e events.FieldSkipped) {
			logger.Debug("field skipped",
				zap.String("owner", e.Owner),
				zap.String("field", e.FieldID),
				zap.String("reason", e.Reason))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
			rid, _ := reqid.FromContext(ctx)
			logger.Debug("graphql operation",
				zap.String("request_id", rid),
				zap.String("operation", e.OperationName),
				zap.String("type", e.OperationType),
				zap.Int("errors", len(e.Errors)),
				zap.Duration("duration", e.Duration))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
			rid, _ := reqid.FromContext(ctx)
			logger.Info("http request",
				zap.String("request_id", rid),
				zap.String("method", e.Request.Method),
				zap.String("path", e.Request.URL.Path),
				zap.Int("status", e.Status),
				zap.Duration("duration", e.Duration))
		}),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}
