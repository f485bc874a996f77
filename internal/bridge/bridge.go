// Package bridge turns the custom field definitions of a site into a schema
// delta.
//
// Build is phase one of the two-phase schema build: it walks content types,
// taxonomies, users, block types and settings pages, synthesizes the auxiliary
// object types their fields need and emits one field or connection per field
// definition. Nothing here talks to a GraphQL engine; the resulting Delta is
// applied to one with delta.Apply.
package bridge

import (
	"context"
	"time"

	"github.com/tghp/wpgraphql-mb/internal/delta"
	"github.com/tghp/wpgraphql-mb/internal/eventbus"
	"github.com/tghp/wpgraphql-mb/internal/events"
	"github.com/tghp/wpgraphql-mb/internal/field"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

// Skip reasons reported through events.FieldSkipped.
const (
	ReasonEmptyID            = "empty id"
	ReasonOwnerHidden        = "owner type has no schema name"
	ReasonUnresolvableTarget = "target content type has no schema name"
	ReasonEmptyGroup         = "group has no fields"
	ReasonUnknownPage        = "unknown settings page"
)

// Build computes the custom field delta of s.
func Build(ctx context.Context, s site.Site) (*delta.Delta, error) {
	start := time.Now()
	eventbus.Publish(ctx, events.SchemaBuildStart{})

	b := newBuilder(s)
	err := b.build(ctx)

	st := b.d.Stats()
	eventbus.Publish(ctx, events.SchemaBuildFinish{
		Types:       st.Types,
		Fields:      st.Fields,
		Connections: st.Connections,
		Skipped:     b.skipped,
		Err:         err,
		Duration:    time.Since(start),
	})
	if err != nil {
		return nil, err
	}
	return b.d, nil
}

// Compose returns the host types of s followed by its custom field delta.
// The result is complete: applying it to an empty registry yields a usable
// schema.
func Compose(ctx context.Context, s site.Site) (*delta.Delta, error) {
	host, err := Host(ctx, s)
	if err != nil {
		return nil, err
	}
	fields, err := Build(ctx, s)
	if err != nil {
		return nil, err
	}
	host.Append(fields)
	return host, nil
}

type builder struct {
	site    site.Site
	d       *delta.Delta
	skipped int
	// groupTypes records the group object types seen in this build and
	// whether they were usable.
	groupTypes  map[string]bool
	blockOwners []site.OwnerType
}

func newBuilder(s site.Site) *builder {
	return &builder{site: s, d: &delta.Delta{}, groupTypes: map[string]bool{}}
}

func (b *builder) build(ctx context.Context) error {
	b.d.AddType(termType())
	pages, err := b.settingsPages(ctx)
	if err != nil {
		return err
	}
	for _, p := range pages {
		b.settingsType(ctx, p)
	}
	if err := b.blockTypes(ctx); err != nil {
		return err
	}
	if err := b.contentTypes(ctx); err != nil {
		return err
	}
	if err := b.taxonomies(ctx); err != nil {
		return err
	}
	if err := b.users(ctx); err != nil {
		return err
	}
	if err := b.blocks(ctx); err != nil {
		return err
	}
	for _, p := range pages {
		b.settingsField(p)
	}
	return nil
}

func (b *builder) skip(ctx context.Context, owner string, def *field.Definition, reason string) {
	b.skipped++
	id := ""
	if def != nil {
		id = def.ID
	}
	eventbus.Publish(ctx, events.FieldSkipped{Owner: owner, FieldID: id, Reason: reason})
}
