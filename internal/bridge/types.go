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

func termType() delta.ObjectType {
	return delta.ObjectType{
		Name:        delta.TypeTerm,
		Description: "Term object",
		Fields: []delta.FieldSpec{
			{Name: "id", Type: delta.Named(delta.TypeID), Description: "The ID of the term object."},
			{Name: "name", Type: delta.Named(delta.TypeString), Description: "The name of the term object."},
			{Name: "slug", Type: delta.Named(delta.TypeString), Description: "The slug of the term object."},
			{Name: "description", Type: delta.Named(delta.TypeString), Description: "The description of the term object."},
			{Name: "taxonomy", Type: delta.Named(delta.TypeString), Description: "The taxonomy of the term object."},
		},
	}
}

// settingsPage is a registered settings page with the field groups assigned
// to it, in group registration order.
type settingsPage struct {
	site.SettingsPage
	groups []*field.Group
	// fields counts the settings fields installed on the page type.
	fields int
}

// SettingsTypeName returns the object type name of a settings page.
func SettingsTypeName(pageID string) string {
	return label.TypeName(pageID) + "MetaboxSettings"
}

// SettingsFieldName returns the root query field name of a settings page.
func SettingsFieldName(optionName string) string {
	return label.ToSchemaLabel(optionName) + "MetaboxSettings"
}

// settingsPages inverts the group to page assignment. A group listing a page
// more than once is assigned once.
func (b *builder) settingsPages(ctx context.Context) ([]*settingsPage, error) {
	registered, err := b.site.SettingsPages(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := b.site.FieldGroups(ctx, field.ObjectSetting)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*settingsPage, len(registered))
	pages := make([]*settingsPage, 0, len(registered))
	for _, p := range registered {
		if _, dup := byID[p.ID]; dup {
			continue
		}
		sp := &settingsPage{SettingsPage: p}
		byID[p.ID] = sp
		pages = append(pages, sp)
	}
	for _, g := range groups {
		seen := make(map[string]bool, len(g.SettingsPages))
		for _, id := range g.SettingsPages {
			if seen[id] {
				continue
			}
			seen[id] = true
			sp, ok := byID[id]
			if !ok {
				for _, def := range g.Fields {
					b.skip(ctx, SettingsTypeName(id), def, ReasonUnknownPage)
				}
				continue
			}
			sp.groups = append(sp.groups, g)
		}
	}
	return pages, nil
}

// settingsType emits the object type of a settings page. Pages without any
// field get no type.
func (b *builder) settingsType(ctx context.Context, p *settingsPage) {
	name := SettingsTypeName(p.ID)
	var fields []delta.FieldSpec
	for _, g := range p.groups {
		for _, def := range g.Fields {
			if def.Skipped() {
				b.skip(ctx, name, def, ReasonEmptyID)
				continue
			}
			fields = append(fields, delta.FieldSpec{
				Name:        label.ToSchemaLabel(def.ID),
				Type:        typeRef(settingsValueType(def), def),
				Description: "Metabox setting - " + def.ID,
			})
		}
	}
	p.fields = len(fields)
	if p.fields == 0 {
		return
	}
	b.d.AddType(delta.ObjectType{
		Name:        name,
		Description: "Metabox settings for settings page: " + label.ToSchemaLabel(p.ID),
		Fields:      fields,
	})
}

func settingsValueType(def *field.Definition) string {
	switch def.Kind {
	case field.KindMedia:
		return delta.TypeMediaItem
	case field.KindTaxonomy:
		return delta.TypeTerm
	default:
		return delta.TypeString
	}
}

// groupType emits the object type of a group field along with the
// connections of its media and content children. It reports false when the
// group ends up with nothing to expose.
func (b *builder) groupType(ctx context.Context, def *field.Definition) (string, bool) {
	name := label.TypeName(def.ID)
	if usable, seen := b.groupTypes[name]; seen {
		return name, usable
	}
	var (
		fields []delta.FieldSpec
		conns  []delta.Connection
	)
	for _, child := range def.Children {
		if child.Skipped() {
			b.skip(ctx, name, child, ReasonEmptyID)
			continue
		}
		childName := label.ToSchemaLabel(child.ID)
		switch child.Kind {
		case field.KindMedia:
			conns = append(conns, delta.Connection{
				From:        name,
				To:          delta.TypeMediaItem,
				Name:        childName,
				Description: child.Description,
				Resolver: &resolve.ConnectionResolver{
					Store:       b.site,
					Connections: b.site,
					Field:       child,
					InGroup:     true,
					ContentType: content.AttachmentType,
				},
			})
		case field.KindContent:
			target, contentType, ok := b.target(ctx, child)
			if !ok {
				b.skip(ctx, name, child, ReasonUnresolvableTarget)
				continue
			}
			conns = append(conns, delta.Connection{
				From:        name,
				To:          target,
				Name:        childName,
				Description: child.Description,
				Resolver: &resolve.ConnectionResolver{
					Store:       b.site,
					Connections: b.site,
					Field:       child,
					InGroup:     true,
					ContentType: contentType,
				},
			})
		default:
			fields = append(fields, delta.FieldSpec{
				Name:        childName,
				Type:        delta.Named(delta.TypeString),
				Description: "Group field - " + child.Name,
			})
		}
	}
	usable := len(fields)+len(conns) > 0
	b.groupTypes[name] = usable
	if !usable {
		return name, false
	}
	b.d.AddType(delta.ObjectType{
		Name:        name,
		Description: "Metabox Group " + name + " object",
		Fields:      fields,
	})
	for _, c := range conns {
		b.d.AddConnection(c)
	}
	return name, true
}

// target resolves the schema type of a content reference. The lookup is late
// bound: content types registered without a schema name are unresolvable.
func (b *builder) target(ctx context.Context, def *field.Definition) (typeName, contentType string, ok bool) {
	contentType = def.TargetContentType()
	if contentType == "" {
		return "", "", false
	}
	schemaName, ok := b.site.SchemaName(ctx, contentType)
	if !ok || schemaName == "" {
		return "", "", false
	}
	return label.TypeName(schemaName), contentType, true
}

// blockTypes emits one base object type per exposed block type. Block
// attribute fields are added to it like to any other owner.
func (b *builder) blockTypes(ctx context.Context) error {
	owners, err := b.site.OwnerTypes(ctx, site.OwnerBlock)
	if err != nil {
		return err
	}
	b.blockOwners = owners
	for _, o := range owners {
		if o.SchemaName == "" {
			continue
		}
		b.d.AddType(delta.ObjectType{
			Name:        label.TypeName(o.SchemaName),
			Description: "Block " + o.Name,
			Fields: []delta.FieldSpec{{
				Name:        "name",
				Type:        delta.Named(delta.TypeString),
				Description: "The block type name.",
				Resolver:    resolve.BlockNameResolver{},
			}},
		})
	}
	return nil
}

func typeRef(name string, def *field.Definition) delta.TypeRef {
	if def.IsList() {
		return delta.ListOf(name)
	}
	return delta.Named(name)
}
