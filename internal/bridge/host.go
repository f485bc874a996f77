package bridge

import (
	"context"
	"errors"

	"github.com/tghp/wpgraphql-mb/internal/content"
	"github.com/tghp/wpgraphql-mb/internal/delta"
	"github.com/tghp/wpgraphql-mb/internal/label"
	"github.com/tghp/wpgraphql-mb/internal/resolve"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

// Host computes the host object types custom fields attach to: one type per
// exposed content type and taxonomy, MediaItem, the user type, and the root
// query with one id lookup per host type.
func Host(ctx context.Context, s site.Site) (*delta.Delta, error) {
	d := &delta.Delta{}
	d.AddType(delta.ObjectType{Name: delta.RootQuery, Description: "The root entry point into the graph"})

	contentTypes, err := s.OwnerTypes(ctx, site.OwnerContentType)
	if err != nil {
		return nil, err
	}
	hasMediaItem := false
	for _, ct := range contentTypes {
		if ct.SchemaName == "" {
			continue
		}
		name := label.TypeName(ct.SchemaName)
		hasMediaItem = hasMediaItem || name == delta.TypeMediaItem
		d.AddType(postType(name, ct.Name))
		d.AddField(lookupField(ct.SchemaName, &lookup{entities: s, kind: site.OwnerContentType, name: ct.Name}))
	}
	if !hasMediaItem {
		d.AddType(postType(delta.TypeMediaItem, content.AttachmentType))
	}

	taxonomies, err := s.OwnerTypes(ctx, site.OwnerTaxonomy)
	if err != nil {
		return nil, err
	}
	for _, tx := range taxonomies {
		if tx.SchemaName == "" {
			continue
		}
		d.AddType(termHostType(label.TypeName(tx.SchemaName)))
		d.AddField(lookupField(tx.SchemaName, &lookup{entities: s, kind: site.OwnerTaxonomy, name: tx.Name}))
	}

	users, err := s.OwnerTypes(ctx, site.OwnerUser)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.SchemaName == "" {
			continue
		}
		d.AddType(userType(label.TypeName(u.SchemaName)))
		d.AddField(lookupField(u.SchemaName, &lookup{entities: s, kind: site.OwnerUser}))
	}
	return d, nil
}

func lookupField(schemaName string, r *lookup) delta.Field {
	return delta.Field{
		Owner:       delta.RootQuery,
		Name:        label.ToSchemaLabel(schemaName),
		Type:        delta.Named(label.TypeName(schemaName)),
		Description: "Look up a " + schemaName + " by database id",
		Args:        []delta.Argument{{Name: "id", Type: delta.Named(delta.TypeInt), Required: true}},
		Resolver:    r,
	}
}

// lookup resolves a root id lookup. Unknown ids and entities of another
// content type or taxonomy resolve to null.
type lookup struct {
	entities site.Entities
	kind     site.OwnerKind
	// name is the content type or taxonomy the entity must belong to.
	name string
}

func (l *lookup) Resolve(ctx context.Context, p resolve.Params) (any, error) {
	id, _ := p.Args["id"].(int)
	switch l.kind {
	case site.OwnerContentType:
		post, err := l.entities.Post(ctx, id)
		if err != nil || post.Type != l.name {
			return nil, notFoundIsNull(err)
		}
		return post, nil
	case site.OwnerTaxonomy:
		term, err := l.entities.Term(ctx, id)
		if err != nil || term.Taxonomy != l.name {
			return nil, notFoundIsNull(err)
		}
		return term, nil
	default:
		user, err := l.entities.User(ctx, id)
		if err != nil {
			return nil, notFoundIsNull(err)
		}
		return user, nil
	}
}

func notFoundIsNull(err error) error {
	if errors.Is(err, site.ErrNotFound) {
		return nil
	}
	return err
}

// postAttr reads an attribute of a post. Media items are also reached
// through reshaped file records, so record names the record key to read
// instead.
type postAttr struct {
	get    func(*content.Post) any
	record string
}

func (a postAttr) Resolve(_ context.Context, p resolve.Params) (any, error) {
	switch src := p.Source.(type) {
	case *content.Post:
		return a.get(src), nil
	case map[string]any:
		if a.record == "" {
			return nil, nil
		}
		return src[a.record], nil
	default:
		return nil, nil
	}
}

func postType(name, contentType string) delta.ObjectType {
	fields := []delta.FieldSpec{
		{Name: "id", Type: delta.Named(delta.TypeID), Resolver: postAttr{get: func(p *content.Post) any { return p.ID }, record: "id"}},
		{Name: "databaseId", Type: delta.Named(delta.TypeInt), Resolver: postAttr{get: func(p *content.Post) any { return p.ID }, record: "id"}},
		{Name: "title", Type: delta.Named(delta.TypeString), Resolver: postAttr{get: func(p *content.Post) any { return p.Title }, record: "title"}},
		{Name: "slug", Type: delta.Named(delta.TypeString), Resolver: postAttr{get: func(p *content.Post) any { return p.Slug }, record: "name"}},
		{Name: "uri", Type: delta.Named(delta.TypeString), Resolver: postAttr{get: func(p *content.Post) any { return p.URL }, record: "url"}},
	}
	if contentType == content.AttachmentType {
		fields = append(fields,
			delta.FieldSpec{Name: "sourceUrl", Type: delta.Named(delta.TypeString), Resolver: postAttr{get: func(p *content.Post) any { return p.URL }, record: "url"}},
			delta.FieldSpec{Name: "mimeType", Type: delta.Named(delta.TypeString), Resolver: postAttr{get: func(p *content.Post) any { return p.MimeType }}},
		)
	}
	return delta.ObjectType{Name: name, Description: "The " + contentType + " content type", Fields: fields}
}

// termAttr reads an attribute of a term handle.
func termAttr(get func(*content.Term) any) resolve.Func {
	return func(_ context.Context, p resolve.Params) (any, error) {
		if t, ok := p.Source.(*content.Term); ok {
			return get(t), nil
		}
		return nil, nil
	}
}

func termHostType(name string) delta.ObjectType {
	return delta.ObjectType{
		Name:        name,
		Description: "The " + name + " taxonomy",
		Fields: []delta.FieldSpec{
			{Name: "id", Type: delta.Named(delta.TypeID), Resolver: termAttr(func(t *content.Term) any { return t.ID })},
			{Name: "databaseId", Type: delta.Named(delta.TypeInt), Resolver: termAttr(func(t *content.Term) any { return t.ID })},
			{Name: "name", Type: delta.Named(delta.TypeString), Resolver: termAttr(func(t *content.Term) any { return t.Name })},
			{Name: "slug", Type: delta.Named(delta.TypeString), Resolver: termAttr(func(t *content.Term) any { return t.Slug })},
			{Name: "description", Type: delta.Named(delta.TypeString), Resolver: termAttr(func(t *content.Term) any { return t.Description })},
			{Name: "taxonomy", Type: delta.Named(delta.TypeString), Resolver: termAttr(func(t *content.Term) any { return t.Taxonomy })},
		},
	}
}

// userAttr reads an attribute of a user handle.
func userAttr(get func(*content.User) any) resolve.Func {
	return func(_ context.Context, p resolve.Params) (any, error) {
		if u, ok := p.Source.(*content.User); ok {
			return get(u), nil
		}
		return nil, nil
	}
}

func userType(name string) delta.ObjectType {
	return delta.ObjectType{
		Name:        name,
		Description: "A registered user",
		Fields: []delta.FieldSpec{
			{Name: "id", Type: delta.Named(delta.TypeID), Resolver: userAttr(func(u *content.User) any { return u.ID })},
			{Name: "databaseId", Type: delta.Named(delta.TypeInt), Resolver: userAttr(func(u *content.User) any { return u.ID })},
			{Name: "name", Type: delta.Named(delta.TypeString), Resolver: userAttr(func(u *content.User) any { return u.Name })},
			{Name: "username", Type: delta.Named(delta.TypeString), Resolver: userAttr(func(u *content.User) any { return u.Login })},
		},
	}
}
