// Package engine serves custom fields through graphql-go.
//
// Registry implements delta.Registry on top of graphql-go object types.
// Engine holds the current executable schema and runs requests against it;
// the schema can be replaced while requests are in flight.
package engine

import (
	"context"
	"sync/atomic"

	"github.com/graphql-go/graphql"

	"github.com/tghp/wpgraphql-mb/internal/bridge"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

// Build computes the full schema of s and materializes it.
func Build(ctx context.Context, s site.Site) (*graphql.Schema, error) {
	d, err := bridge.Compose(ctx, s)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	if err := d.Apply(reg); err != nil {
		return nil, err
	}
	return reg.Schema()
}

// Request is one GraphQL operation.
type Request struct {
	Query         string
	OperationName string
	Variables     map[string]any
}

// Engine executes requests against a swappable schema.
type Engine struct {
	schema atomic.Pointer[graphql.Schema]
}

// New returns an engine serving s.
func New(s *graphql.Schema) *Engine {
	e := &Engine{}
	e.schema.Store(s)
	return e
}

// Swap replaces the served schema. Requests already executing finish on the
// previous one.
func (e *Engine) Swap(s *graphql.Schema) { e.schema.Store(s) }

// Schema returns the served schema.
func (e *Engine) Schema() *graphql.Schema { return e.schema.Load() }

// Execute runs req against the current schema.
func (e *Engine) Execute(ctx context.Context, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         *e.schema.Load(),
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})
}

// Reload rebuilds the schema from s and swaps it in. On error the served
// schema is left untouched.
func (e *Engine) Reload(ctx context.Context, s site.Site) error {
	schema, err := Build(ctx, s)
	if err != nil {
		return err
	}
	e.Swap(schema)
	return nil
}
