package logging

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tghp/wpgraphql-mb/internal/eventbus"
	"github.com/tghp/wpgraphql-mb/internal/events"
	"github.com/tghp/wpgraphql-mb/internal/reqid"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })
	core, logs := observer.New(level)
	off := Subscribe(zap.New(core))
	t.Cleanup(off)
	return logs
}

func TestNew(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := New(debug)
		require.NoError(t, err)
		assert.Equal(t, debug, logger.Core().Enabled(zapcore.DebugLevel))
	}
}

func TestSchemaBuildLogged(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	eventbus.Publish(context.Background(), events.SchemaBuildFinish{Types: 2, Fields: 7})
	eventbus.Publish(context.Background(), events.SchemaBuildFinish{Err: errors.New("site unavailable")})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "schema built", entries[0].Message)
	assert.Equal(t, int64(7), entries[0].ContextMap()["fields"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "site unavailable", entries[1].ContextMap()["error"])
}

func TestSkipsLoggedAtDebug(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)
	eventbus.Publish(context.Background(), events.FieldSkipped{Owner: "Post", FieldID: "x", Reason: "empty id"})
	assert.Zero(t, logs.Len())

	logs = observe(t, zapcore.DebugLevel)
	eventbus.Publish(context.Background(), events.FieldSkipped{Owner: "Post", FieldID: "x", Reason: "empty id"})
	require.Equal(t, 1, logs.FilterMessage("field skipped").Len())
	assert.Equal(t, "Post", logs.All()[0].ContextMap()["owner"])
}

func TestRequestsCarryRequestID(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	ctx, rid := reqid.NewContext(context.Background())
	eventbus.Publish(ctx, events.GraphQLFinish{OperationType: "query"})
	eventbus.Publish(ctx, events.HTTPFinish{Request: httptest.NewRequest("POST", "/graphql", nil), Status: 200})

	entries := logs.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, rid, e.ContextMap()["request_id"])
	}
	assert.Equal(t, "/graphql", entries[1].ContextMap()["path"])
}
