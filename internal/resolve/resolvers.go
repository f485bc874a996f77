package resolve

import (
	"context"
	"fmt"

	"github.com/tghp/wpgraphql-mb/internal/content"
	"github.com/tghp/wpgraphql-mb/internal/field"
	"github.com/tghp/wpgraphql-mb/internal/label"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

// ScalarResolver resolves a plain field and applies the generic reshape, per
// element for multiple fields.
type ScalarResolver struct {
	Store Store
	Field *field.Definition
	Owner site.OwnerKind
}

func (r *ScalarResolver) Resolve(ctx context.Context, p Params) (any, error) {
	return reshaped(ctx, r.Store, r.Field, p.Source, r.Owner)
}

// TermResolver resolves a taxonomy reference into Term records.
type TermResolver struct {
	Store Store
	Field *field.Definition
	Owner site.OwnerKind
}

func (r *TermResolver) Resolve(ctx context.Context, p Params) (any, error) {
	return reshaped(ctx, r.Store, r.Field, p.Source, r.Owner)
}

func reshaped(ctx context.Context, store Store, def *field.Definition, entity any, owner site.OwnerKind) (any, error) {
	v, err := Value(ctx, store, def, entity, owner)
	if err != nil {
		return nil, err
	}
	if def.IsList() {
		return ReshapeEach(v), nil
	}
	return Reshape(v), nil
}

// GroupResolver resolves a group field into its sub-value map, or a list of
// maps for multiple groups.
type GroupResolver struct {
	Store Store
	Field *field.Definition
	Owner site.OwnerKind
}

func (r *GroupResolver) Resolve(ctx context.Context, p Params) (any, error) {
	return Value(ctx, r.Store, r.Field, p.Source, r.Owner)
}

// ConnectionResolver resolves a media or content reference into a
// content-list connection restricted to the referenced ids.
type ConnectionResolver struct {
	Store       Store
	Connections site.Connections
	Field       *field.Definition
	Owner       site.OwnerKind
	// ContentType scopes the connection, e.g. "attachment".
	ContentType string
	// InGroup reads the reference from the parent group value map instead of
	// the meta store.
	InGroup bool
}

func (r *ConnectionResolver) Resolve(ctx context.Context, p Params) (any, error) {
	var raw any
	if r.InGroup {
		item, ok := p.Source.(map[string]any)
		if !ok {
			return nil, nil
		}
		raw = item[label.ToSchemaLabel(r.Field.ID)]
	} else {
		v, err := Value(ctx, r.Store, r.Field, p.Source, r.Owner)
		if err != nil {
			return nil, err
		}
		raw = v
	}
	ids := GatherIDs(raw, r.Field.Cardinality())
	if len(ids) == 0 {
		return nil, nil
	}
	conn, err := r.Connections.ContentList(ctx, p.Source, site.ConnectionArgsFrom(p.Args), ids, r.ContentType)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", r.Field.ID, err)
	}
	return conn, nil
}

// SettingsResolver aggregates every field of every group assigned to one
// settings page into a single map keyed by label.
type SettingsResolver struct {
	Store      Store
	OptionName string
	Groups     []*field.Group
}

func (r *SettingsResolver) Resolve(ctx context.Context, _ Params) (any, error) {
	out := make(map[string]any)
	for _, g := range r.Groups {
		for _, def := range g.Fields {
			if def.Skipped() {
				continue
			}
			v, err := reshaped(ctx, r.Store, def, r.OptionName, site.OwnerSetting)
			if err != nil {
				return nil, err
			}
			out[label.ToSchemaLabel(def.ID)] = v
		}
	}
	return out, nil
}

// BlockListResolver returns the blocks of one block type contained in a post.
type BlockListResolver struct {
	BlockName string
}

func (r *BlockListResolver) Resolve(_ context.Context, p Params) (any, error) {
	post, ok := p.Source.(*content.Post)
	if !ok {
		return nil, fmt.Errorf("blocks %s: %w %T", r.BlockName, ErrUnsupportedEntity, p.Source)
	}
	return post.BlocksNamed(r.BlockName), nil
}

// BlockNameResolver returns the block type name of a block.
type BlockNameResolver struct{}

func (BlockNameResolver) Resolve(_ context.Context, p Params) (any, error) {
	b, ok := p.Source.(*content.Block)
	if !ok {
		return nil, fmt.Errorf("block name: %w %T", ErrUnsupportedEntity, p.Source)
	}
	return b.Name, nil
}
