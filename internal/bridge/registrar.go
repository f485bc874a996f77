package bridge

import (
	"context"

	"github.com/tghp/wpgraphql-mb/internal/content"
	"github.com/tghp/wpgraphql-mb/internal/delta"
	"github.com/tghp/wpgraphql-mb/internal/field"
	"github.com/tghp/wpgraphql-mb/internal/label"
	"github.com/tghp/wpgraphql-mb/internal/resolve"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

func (b *builder) contentTypes(ctx context.Context) error {
	owners, err := b.site.OwnerTypes(ctx, site.OwnerContentType)
	if err != nil {
		return err
	}
	groups, err := b.site.FieldGroups(ctx, field.ObjectPost)
	if err != nil {
		return err
	}
	for _, o := range owners {
		var applied []*field.Group
		for _, g := range groups {
			if g.AppliesToContentType(o.Name) {
				applied = append(applied, g)
			}
		}
		b.addFields(ctx, o, applied)
	}
	return nil
}

func (b *builder) taxonomies(ctx context.Context) error {
	owners, err := b.site.OwnerTypes(ctx, site.OwnerTaxonomy)
	if err != nil {
		return err
	}
	groups, err := b.site.FieldGroups(ctx, field.ObjectTerm)
	if err != nil {
		return err
	}
	for _, o := range owners {
		var applied []*field.Group
		for _, g := range groups {
			if g.AppliesToTaxonomy(o.Name) {
				applied = append(applied, g)
			}
		}
		b.addFields(ctx, o, applied)
	}
	return nil
}

func (b *builder) users(ctx context.Context) error {
	owners, err := b.site.OwnerTypes(ctx, site.OwnerUser)
	if err != nil {
		return err
	}
	groups, err := b.site.FieldGroups(ctx, field.ObjectUser)
	if err != nil {
		return err
	}
	for _, o := range owners {
		b.addFields(ctx, o, groups)
	}
	return nil
}

// blocks attaches block field groups to their block types and installs the
// block list fields on content types with block support.
func (b *builder) blocks(ctx context.Context) error {
	groups, err := b.site.FieldGroups(ctx, field.ObjectBlock)
	if err != nil {
		return err
	}
	for _, o := range b.blockOwners {
		var applied []*field.Group
		for _, g := range groups {
			if g.AppliesToBlockType(o.Name) {
				applied = append(applied, g)
			}
		}
		b.addFields(ctx, o, applied)
	}

	hosts, err := b.site.OwnerTypes(ctx, site.OwnerContentTypeWithBlocks)
	if err != nil {
		return err
	}
	for _, h := range hosts {
		if h.SchemaName == "" {
			continue
		}
		for _, o := range b.blockOwners {
			if o.SchemaName == "" {
				continue
			}
			b.d.AddField(delta.Field{
				Owner:       label.TypeName(h.SchemaName),
				Name:        label.ToSchemaLabel(o.SchemaName) + "Blocks",
				Type:        delta.ListOf(label.TypeName(o.SchemaName)),
				Description: "Blocks of type " + o.Name,
				Resolver:    &resolve.BlockListResolver{BlockName: o.Name},
			})
		}
	}
	return nil
}

// settingsField installs the root query field of a settings page.
func (b *builder) settingsField(p *settingsPage) {
	if p.fields == 0 {
		return
	}
	b.d.AddField(delta.Field{
		Owner:       delta.RootQuery,
		Name:        SettingsFieldName(p.OptionName),
		Type:        delta.Named(SettingsTypeName(p.ID)),
		Description: "Settings for " + p.OptionName,
		Resolver: &resolve.SettingsResolver{
			Store:      b.site,
			OptionName: p.OptionName,
			Groups:     p.groups,
		},
	})
}

func (b *builder) addFields(ctx context.Context, o site.OwnerType, groups []*field.Group) {
	owner := label.TypeName(o.SchemaName)
	for _, g := range groups {
		for _, def := range g.Fields {
			switch {
			case def.Skipped():
				b.skip(ctx, owner, def, ReasonEmptyID)
			case o.SchemaName == "":
				b.skip(ctx, o.Name, def, ReasonOwnerHidden)
			default:
				b.addField(ctx, owner, o.Kind, def)
			}
		}
	}
}

// addField emits the schema element of one field definition.
//
//	kind      single            multiple
//	group     GroupType         [GroupType]
//	media     connection to MediaItem
//	taxonomy  Term              [Term]
//	content   connection to the target content type
//	scalar    String            [String]
func (b *builder) addField(ctx context.Context, owner string, kind site.OwnerKind, def *field.Definition) {
	name := label.ToSchemaLabel(def.ID)
	switch def.Kind {
	case field.KindGroup:
		typeName, ok := b.groupType(ctx, def)
		if !ok {
			b.skip(ctx, owner, def, ReasonEmptyGroup)
			return
		}
		b.d.AddField(delta.Field{
			Owner:       owner,
			Name:        name,
			Type:        typeRef(typeName, def),
			Description: def.Description,
			Resolver:    &resolve.GroupResolver{Store: b.site, Field: def, Owner: kind},
		})
	case field.KindMedia:
		b.d.AddConnection(delta.Connection{
			From:        owner,
			To:          delta.TypeMediaItem,
			Name:        name,
			Description: def.Description,
			Resolver: &resolve.ConnectionResolver{
				Store:       b.site,
				Connections: b.site,
				Field:       def,
				Owner:       kind,
				ContentType: content.AttachmentType,
			},
		})
	case field.KindTaxonomy:
		b.d.AddField(delta.Field{
			Owner:       owner,
			Name:        name,
			Type:        typeRef(delta.TypeTerm, def),
			Description: def.Description,
			Resolver:    &resolve.TermResolver{Store: b.site, Field: def, Owner: kind},
		})
	case field.KindContent:
		target, contentType, ok := b.target(ctx, def)
		if !ok {
			b.skip(ctx, owner, def, ReasonUnresolvableTarget)
			return
		}
		b.d.AddConnection(delta.Connection{
			From:        owner,
			To:          target,
			Name:        name,
			Description: def.Description,
			Resolver: &resolve.ConnectionResolver{
				Store:       b.site,
				Connections: b.site,
				Field:       def,
				Owner:       kind,
				ContentType: contentType,
			},
		})
	default:
		b.d.AddField(delta.Field{
			Owner:       owner,
			Name:        name,
			Type:        typeRef(delta.TypeString, def),
			Description: def.Description,
			Resolver:    &resolve.ScalarResolver{Store: b.site, Field: def, Owner: kind},
		})
	}
}
