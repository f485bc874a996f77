package schema

import (
	"fmt"

	"github.com/tghp/wpgraphql-mb/internal/delta"
)

// Builder implements delta.Registry on a printable Schema. Connection fields
// are expanded into their connection, edge and page info types the same way
// the executable engine does it.
type Builder struct {
	schema *Schema
}

var _ delta.Registry = (*Builder)(nil)

// NewBuilder returns a builder for a schema rooted at delta.RootQuery.
func NewBuilder() *Builder {
	return &Builder{schema: NewSchema(delta.RootQuery)}
}

// Build applies d to a fresh builder and returns the schema.
func Build(d *delta.Delta) (*Schema, error) {
	b := NewBuilder()
	if err := d.Apply(b); err != nil {
		return nil, err
	}
	return b.Schema(), nil
}

// Schema returns the schema built so far.
func (b *Builder) Schema() *Schema { return b.schema }

func (b *Builder) RegisterObjectType(t delta.ObjectType) error {
	typ, ok := b.schema.Types[t.Name]
	if !ok || typ.Kind != TypeKindObject {
		typ = NewType(t.Name, TypeKindObject, t.Description)
		b.schema.AddType(typ)
	}
	typ.Description = t.Description
	for _, f := range t.Fields {
		typ.AddField(NewField(f.Name, f.Description, typeRef(f.Type)))
	}
	return nil
}

func (b *Builder) RegisterField(f delta.Field) error {
	typ, err := b.object(f.Owner)
	if err != nil {
		return err
	}
	field := NewField(f.Name, f.Description, typeRef(f.Type))
	for _, a := range f.Args {
		t := typeRef(a.Type)
		if a.Required {
			t = NonNullType(t)
		}
		field.AddArgument(NewInputValue(a.Name, "", t))
	}
	typ.AddField(field)
	return nil
}

func (b *Builder) RegisterConnection(c delta.Connection) error {
	typ, err := b.object(c.From)
	if err != nil {
		return err
	}
	b.declareConnection(c.From, c.To)
	field := NewField(c.Name, c.Description, NamedType(c.TypeName())).
		AddArgument(NewInputValue("first", "", NamedType(delta.TypeInt))).
		AddArgument(NewInputValue("last", "", NamedType(delta.TypeInt))).
		AddArgument(NewInputValue("after", "", NamedType(delta.TypeString))).
		AddArgument(NewInputValue("before", "", NamedType(delta.TypeString)))
	typ.AddField(field)
	return nil
}

func (b *Builder) declareConnection(from, to string) {
	connName := delta.ConnectionTypeName(from, to)
	if _, ok := b.schema.Types[connName]; ok {
		return
	}
	if _, ok := b.schema.Types[delta.TypePageInfo]; !ok {
		b.schema.AddType(NewType(delta.TypePageInfo, TypeKindObject, "Information about pagination in a connection.").
			AddField(NewField("hasNextPage", "", NamedType(delta.TypeBoolean))).
			AddField(NewField("hasPreviousPage", "", NamedType(delta.TypeBoolean))).
			AddField(NewField("startCursor", "", NamedType(delta.TypeString))).
			AddField(NewField("endCursor", "", NamedType(delta.TypeString))))
	}
	edgeName := delta.EdgeTypeName(from, to)
	b.schema.AddType(NewType(edgeName, TypeKindObject, "An edge in a connection from "+from+" to "+to).
		AddField(NewField("cursor", "", NamedType(delta.TypeString))).
		AddField(NewField("node", "", NamedType(to))))
	b.schema.AddType(NewType(connName, TypeKindObject, "Connection between the "+from+" type and the "+to+" type").
		AddField(NewField("edges", "", ListType(NamedType(edgeName)))).
		AddField(NewField("nodes", "", ListType(NamedType(to)))).
		AddField(NewField("pageInfo", "", NamedType(delta.TypePageInfo))))
}

func (b *Builder) object(name string) (*Type, error) {
	typ, ok := b.schema.Types[name]
	if !ok || typ.Kind != TypeKindObject {
		return nil, fmt.Errorf("%w %s", delta.ErrUnknownType, name)
	}
	return typ, nil
}

func typeRef(t delta.TypeRef) *TypeRef {
	ref := NamedType(t.Name)
	if t.List {
		return ListType(ref)
	}
	return ref
}
