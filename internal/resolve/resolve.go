// Package resolve reads stored custom field values and reshapes them into
// GraphQL values.
//
// Resolvers are plain structs holding the field definition and owner metadata
// captured at registration time. They are stateless and may be invoked
// concurrently.
package resolve

import (
	"context"
	"errors"

	"github.com/tghp/wpgraphql-mb/internal/site"
)

// ErrUnsupportedEntity is returned when a resolver receives an entity that
// does not match its owner kind.
var ErrUnsupportedEntity = errors.New("unsupported entity")

// Params carries the per-call inputs of a resolver.
type Params struct {
	// Source is the parent value: a content handle, a group value map, or nil
	// for root fields.
	Source any
	// Args holds the coerced field arguments.
	Args map[string]any
}

// Resolver produces the value of one schema field.
type Resolver interface {
	Resolve(ctx context.Context, p Params) (any, error)
}

// Func adapts a function to the Resolver interface.
type Func func(ctx context.Context, p Params) (any, error)

func (f Func) Resolve(ctx context.Context, p Params) (any, error) { return f(ctx, p) }

// Store is the storage collaborator used by value lookups.
type Store interface {
	site.MetaStore
	site.Files
}
