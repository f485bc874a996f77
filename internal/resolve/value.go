package resolve

import (
	"context"
	"fmt"

	"github.com/tghp/wpgraphql-mb/internal/content"
	"github.com/tghp/wpgraphql-mb/internal/field"
	"github.com/tghp/wpgraphql-mb/internal/label"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

// OriginalSize is the image size variant used for media inside groups.
const OriginalSize = "original"

// Value fetches the raw stored value of def for entity. The owner kind
// selects the lookup: posts, terms and users by numeric id, settings by option
// name, blocks straight from the block attributes. Group values are reshaped
// into sub-value maps keyed by child label.
func Value(ctx context.Context, store Store, def *field.Definition, entity any, owner site.OwnerKind) (any, error) {
	var (
		raw any
		err error
	)
	switch owner {
	case site.OwnerContentType:
		p, ok := entity.(*content.Post)
		if !ok {
			return nil, unsupported(def, entity, owner)
		}
		raw, err = store.MetaValue(ctx, def.ID, field.ObjectPost, p.ID)
	case site.OwnerTaxonomy:
		t, ok := entity.(*content.Term)
		if !ok {
			return nil, unsupported(def, entity, owner)
		}
		raw, err = store.MetaValue(ctx, def.ID, field.ObjectTerm, t.ID)
	case site.OwnerUser:
		u, ok := entity.(*content.User)
		if !ok {
			return nil, unsupported(def, entity, owner)
		}
		raw, err = store.MetaValue(ctx, def.ID, field.ObjectUser, u.ID)
	case site.OwnerSetting:
		var option string
		switch e := entity.(type) {
		case string:
			option = e
		case site.SettingsPage:
			option = e.OptionName
		default:
			return nil, unsupported(def, entity, owner)
		}
		raw, err = store.MetaValue(ctx, def.ID, field.ObjectSetting, option)
	case site.OwnerBlock:
		b, ok := entity.(*content.Block)
		if !ok {
			return nil, unsupported(def, entity, owner)
		}
		raw = b.Attributes[def.ID]
	default:
		return nil, fmt.Errorf("field %s: unknown owner kind %q", def.ID, owner)
	}
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", def.ID, err)
	}
	if def.Kind == field.KindGroup && !isEmpty(raw) {
		return GroupValues(ctx, store, def, raw)
	}
	return raw, nil
}

func unsupported(def *field.Definition, entity any, owner site.OwnerKind) error {
	return fmt.Errorf("field %s: %w %T for %s owner", def.ID, ErrUnsupportedEntity, entity, owner)
}

// GroupValues reshapes a raw group value. Multiple groups yield one map per
// stored item.
func GroupValues(ctx context.Context, files site.Files, def *field.Definition, raw any) (any, error) {
	if !def.IsList() {
		return groupSubvalues(ctx, files, def, raw)
	}
	items, ok := raw.([]any)
	if !ok {
		items = []any{raw}
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		sub, err := groupSubvalues(ctx, files, def, item)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

// groupSubvalues builds the value map of one group item. Children with an
// empty stored value are left out of the map entirely.
func groupSubvalues(ctx context.Context, files site.Files, def *field.Definition, raw any) (map[string]any, error) {
	item, _ := raw.(map[string]any)
	out := make(map[string]any, len(def.Children))
	for _, child := range def.Children {
		if child.Skipped() {
			continue
		}
		v := item[child.ID]
		if isEmpty(v) {
			continue
		}
		key := label.ToSchemaLabel(child.ID)
		if child.Kind != field.KindMedia {
			out[key] = v
			continue
		}
		info, err := fileInfo(ctx, files, child, v)
		if err != nil {
			return nil, fmt.Errorf("group %s: field %s: %w", def.ID, child.ID, err)
		}
		if !isEmpty(info) {
			out[key] = info
		}
	}
	return out, nil
}

func fileInfo(ctx context.Context, files site.Files, def *field.Definition, v any) (any, error) {
	size := OriginalSize
	if def.FileVariant == field.FileVideo {
		size = ""
	}
	list, ok := v.([]any)
	if !ok {
		return files.FileInfo(ctx, v, def.FileVariant, size)
	}
	out := make([]any, 0, len(list))
	for _, att := range list {
		info, err := files.FileInfo(ctx, att, def.FileVariant, size)
		if err != nil {
			return nil, err
		}
		if info != nil {
			out = append(out, info)
		}
	}
	return out, nil
}

// isEmpty reports nil, empty strings and empty lists or maps.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}
