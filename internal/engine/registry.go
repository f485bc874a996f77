package engine

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/tghp/wpgraphql-mb/internal/delta"
	"github.com/tghp/wpgraphql-mb/internal/resolve"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

var scalars = map[string]*graphql.Scalar{
	delta.TypeString:  graphql.String,
	delta.TypeID:      graphql.ID,
	delta.TypeInt:     graphql.Int,
	delta.TypeBoolean: graphql.Boolean,
	"Float":           graphql.Float,
}

// Registry collects schema additions for graphql-go. Registration only
// records specs keyed by name, so a later registration of the same type or
// field replaces the earlier one. Schema materializes the recorded specs into
// graphql-go objects.
type Registry struct {
	types map[string]*objectSpec
	order []string
}

var _ delta.Registry = (*Registry)(nil)

type objectSpec struct {
	name        string
	description string
	fields      map[string]*fieldSpec
	order       []string
}

type fieldSpec struct {
	name        string
	typ         delta.TypeRef
	description string
	args        []delta.Argument
	resolve     graphql.FieldResolveFn
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]*objectSpec{}}
}

func (r *Registry) RegisterObjectType(t delta.ObjectType) error {
	spec := r.object(t.Name)
	spec.description = t.Description
	for _, f := range t.Fields {
		spec.set(&fieldSpec{
			name:        f.Name,
			typ:         f.Type,
			description: f.Description,
			resolve:     resolveFn(f.Resolver),
		})
	}
	return nil
}

func (r *Registry) RegisterField(f delta.Field) error {
	spec, ok := r.types[f.Owner]
	if !ok {
		return fmt.Errorf("%w %s", delta.ErrUnknownType, f.Owner)
	}
	spec.set(&fieldSpec{
		name:        f.Name,
		typ:         f.Type,
		description: f.Description,
		args:        f.Args,
		resolve:     resolveFn(f.Resolver),
	})
	return nil
}

// RegisterConnection adds the connection field to the source type and
// declares the connection, edge and page info types it needs.
func (r *Registry) RegisterConnection(c delta.Connection) error {
	spec, ok := r.types[c.From]
	if !ok {
		return fmt.Errorf("%w %s", delta.ErrUnknownType, c.From)
	}
	r.declareConnection(c.From, c.To)
	spec.set(&fieldSpec{
		name:        c.Name,
		typ:         delta.Named(c.TypeName()),
		description: c.Description,
		args:        connectionArgs,
		resolve:     resolveFn(c.Resolver),
	})
	return nil
}

var connectionArgs = []delta.Argument{
	{Name: "first", Type: delta.Named(delta.TypeInt)},
	{Name: "last", Type: delta.Named(delta.TypeInt)},
	{Name: "after", Type: delta.Named(delta.TypeString)},
	{Name: "before", Type: delta.Named(delta.TypeString)},
}

func (r *Registry) declareConnection(from, to string) {
	connName := delta.ConnectionTypeName(from, to)
	if _, ok := r.types[connName]; ok {
		return
	}
	if _, ok := r.types[delta.TypePageInfo]; !ok {
		info := r.object(delta.TypePageInfo)
		info.description = "Information about pagination in a connection."
		info.set(&fieldSpec{name: "hasNextPage", typ: delta.Named(delta.TypeBoolean), resolve: pageInfo(func(p site.PageInfo) any { return p.HasNextPage })})
		info.set(&fieldSpec{name: "hasPreviousPage", typ: delta.Named(delta.TypeBoolean), resolve: pageInfo(func(p site.PageInfo) any { return p.HasPreviousPage })})
		info.set(&fieldSpec{name: "startCursor", typ: delta.Named(delta.TypeString), resolve: pageInfo(func(p site.PageInfo) any { return p.StartCursor })})
		info.set(&fieldSpec{name: "endCursor", typ: delta.Named(delta.TypeString), resolve: pageInfo(func(p site.PageInfo) any { return p.EndCursor })})
	}

	edgeName := delta.EdgeTypeName(from, to)
	edge := r.object(edgeName)
	edge.description = "An edge in a connection from " + from + " to " + to
	edge.set(&fieldSpec{name: "cursor", typ: delta.Named(delta.TypeString), resolve: edgeCursor})
	edge.set(&fieldSpec{name: "node", typ: delta.Named(to), resolve: edgeNode})

	conn := r.object(connName)
	conn.description = "Connection between the " + from + " type and the " + to + " type"
	conn.set(&fieldSpec{name: "edges", typ: delta.ListOf(edgeName), resolve: connEdges})
	conn.set(&fieldSpec{name: "nodes", typ: delta.ListOf(to), resolve: connNodes})
	conn.set(&fieldSpec{name: "pageInfo", typ: delta.Named(delta.TypePageInfo), resolve: connPageInfo})
}

func (r *Registry) object(name string) *objectSpec {
	if spec, ok := r.types[name]; ok {
		return spec
	}
	spec := &objectSpec{name: name, fields: map[string]*fieldSpec{}}
	r.types[name] = spec
	r.order = append(r.order, name)
	return spec
}

func (o *objectSpec) set(f *fieldSpec) {
	if _, ok := o.fields[f.name]; !ok {
		o.order = append(o.order, f.name)
	}
	o.fields[f.name] = f
}

// Schema materializes the registered types. RootQuery becomes the query
// root. Every field type must name a registered object type or a built-in
// scalar.
func (r *Registry) Schema() (*graphql.Schema, error) {
	if _, ok := r.types[delta.RootQuery]; !ok {
		return nil, fmt.Errorf("%w %s", delta.ErrUnknownType, delta.RootQuery)
	}
	for _, name := range r.order {
		spec := r.types[name]
		if len(spec.fields) == 0 {
			return nil, fmt.Errorf("type %s has no fields", name)
		}
		for _, fname := range spec.order {
			f := spec.fields[fname]
			if err := r.check(f.typ); err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", name, fname, err)
			}
			for _, a := range f.args {
				if _, ok := scalars[a.Type.Name]; !ok {
					return nil, fmt.Errorf("argument %s.%s(%s): %w %s", name, fname, a.Name, delta.ErrUnknownType, a.Type.Name)
				}
			}
		}
	}

	objects := make(map[string]*graphql.Object, len(r.types))
	types := make([]graphql.Type, 0, len(r.types))
	for _, name := range r.order {
		spec := r.types[name]
		obj := graphql.NewObject(graphql.ObjectConfig{
			Name:        spec.name,
			Description: spec.description,
			Fields:      graphql.FieldsThunk(func() graphql.Fields { return spec.materialize(objects) }),
		})
		objects[name] = obj
		types = append(types, obj)
	}

	s, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: objects[delta.RootQuery],
		Types: types,
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Registry) check(t delta.TypeRef) error {
	if _, ok := scalars[t.Name]; ok {
		return nil
	}
	if _, ok := r.types[t.Name]; ok {
		return nil
	}
	return fmt.Errorf("%w %s", delta.ErrUnknownType, t.Name)
}

func (o *objectSpec) materialize(objects map[string]*graphql.Object) graphql.Fields {
	fields := make(graphql.Fields, len(o.fields))
	for _, name := range o.order {
		f := o.fields[name]
		gf := &graphql.Field{
			Name:        f.name,
			Type:        output(f.typ, objects),
			Description: f.description,
			Resolve:     f.resolve,
		}
		if len(f.args) > 0 {
			gf.Args = make(graphql.FieldConfigArgument, len(f.args))
			for _, a := range f.args {
				var in graphql.Input = scalars[a.Type.Name]
				if a.Type.List {
					in = graphql.NewList(in)
				}
				if a.Required {
					in = graphql.NewNonNull(in)
				}
				gf.Args[a.Name] = &graphql.ArgumentConfig{Type: in}
			}
		}
		fields[name] = gf
	}
	return fields
}

func output(t delta.TypeRef, objects map[string]*graphql.Object) graphql.Output {
	var out graphql.Output
	if s, ok := scalars[t.Name]; ok {
		out = s
	} else {
		out = objects[t.Name]
	}
	if t.List {
		return graphql.NewList(out)
	}
	return out
}

func resolveFn(r resolve.Resolver) graphql.FieldResolveFn {
	if r == nil {
		return nil
	}
	return func(p graphql.ResolveParams) (any, error) {
		return r.Resolve(p.Context, resolve.Params{Source: p.Source, Args: p.Args})
	}
}

func connEdges(p graphql.ResolveParams) (any, error) {
	if c, ok := p.Source.(*site.Connection); ok {
		return c.Edges(), nil
	}
	return nil, nil
}

func connNodes(p graphql.ResolveParams) (any, error) {
	if c, ok := p.Source.(*site.Connection); ok {
		return c.Nodes, nil
	}
	return nil, nil
}

func connPageInfo(p graphql.ResolveParams) (any, error) {
	if c, ok := p.Source.(*site.Connection); ok {
		return c.PageInfo, nil
	}
	return nil, nil
}

func edgeCursor(p graphql.ResolveParams) (any, error) {
	if e, ok := p.Source.(site.Edge); ok {
		return e.Cursor, nil
	}
	return nil, nil
}

func edgeNode(p graphql.ResolveParams) (any, error) {
	if e, ok := p.Source.(site.Edge); ok {
		return e.Node, nil
	}
	return nil, nil
}

func pageInfo(get func(site.PageInfo) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		if info, ok := p.Source.(site.PageInfo); ok {
			return get(info), nil
		}
		return nil, nil
	}
}
