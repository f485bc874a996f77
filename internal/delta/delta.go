// Package delta holds the schema additions computed from field definitions.
//
// Building a schema is split in two phases. Phase one produces a Delta purely
// from field definitions, without any schema engine present. Phase two applies
// the Delta to a Registry: every object type first, then fields, then
// connections, so types always exist before anything references them.
package delta

import (
	"errors"
	"fmt"

	"github.com/tghp/wpgraphql-mb/internal/resolve"
)

// RootQuery is the owner name of root query fields.
const RootQuery = "RootQuery"

// Well-known type names.
const (
	TypeString    = "String"
	TypeID        = "ID"
	TypeInt       = "Int"
	TypeBoolean   = "Boolean"
	TypeTerm      = "Term"
	TypeMediaItem = "MediaItem"
	TypePageInfo  = "PageInfo"
)

// ErrUnknownType is returned by registries asked to reference a type they do
// not know.
var ErrUnknownType = errors.New("unknown type")

// TypeRef references a named type, optionally as a list.
type TypeRef struct {
	Name string
	List bool
}

// Named returns a reference to a single value of the named type.
func Named(name string) TypeRef { return TypeRef{Name: name} }

// ListOf returns a reference to a list of the named type.
func ListOf(name string) TypeRef { return TypeRef{Name: name, List: true} }

func (t TypeRef) String() string {
	if t.List {
		return "[" + t.Name + "]"
	}
	return t.Name
}

// FieldSpec is a field declared inline with an object type.
type FieldSpec struct {
	Name        string
	Type        TypeRef
	Description string
	// Resolver is optional; without one the field reads the same-named entry
	// of a map source.
	Resolver resolve.Resolver
}

// ObjectType is an object type to register.
type ObjectType struct {
	Name        string
	Description string
	Fields      []FieldSpec
}

// Argument is a field argument.
type Argument struct {
	Name     string
	Type     TypeRef
	Required bool
}

// Field is a field to add to an existing type.
type Field struct {
	Owner       string
	Name        string
	Type        TypeRef
	Description string
	Args        []Argument
	Resolver    resolve.Resolver
}

// Connection is a paginated one-to-many field from one object type to
// another.
type Connection struct {
	From        string
	To          string
	Name        string
	Description string
	Resolver    resolve.Resolver
}

// TypeName returns the name of the connection type, e.g.
// "PostToMediaItemConnection".
func (c Connection) TypeName() string { return ConnectionTypeName(c.From, c.To) }

// ConnectionTypeName names the connection type between two object types.
func ConnectionTypeName(from, to string) string { return from + "To" + to + "Connection" }

// EdgeTypeName names the edge type of a connection type.
func EdgeTypeName(from, to string) string { return ConnectionTypeName(from, to) + "Edge" }

// Registry is the schema-facing side of a GraphQL engine.
type Registry interface {
	RegisterObjectType(t ObjectType) error
	RegisterField(f Field) error
	RegisterConnection(c Connection) error
}

// Delta is an ordered set of schema additions.
type Delta struct {
	Types       []ObjectType
	Fields      []Field
	Connections []Connection
}

// AddType appends an object type.
func (d *Delta) AddType(t ObjectType) { d.Types = append(d.Types, t) }

// AddField appends a field.
func (d *Delta) AddField(f Field) { d.Fields = append(d.Fields, f) }

// AddConnection appends a connection.
func (d *Delta) AddConnection(c Connection) { d.Connections = append(d.Connections, c) }

// Append adds every entry of other after the entries of d.
func (d *Delta) Append(other *Delta) {
	d.Types = append(d.Types, other.Types...)
	d.Fields = append(d.Fields, other.Fields...)
	d.Connections = append(d.Connections, other.Connections...)
}

// Apply registers the delta with r: types, then fields, then connections.
func (d *Delta) Apply(r Registry) error {
	for _, t := range d.Types {
		if err := r.RegisterObjectType(t); err != nil {
			return fmt.Errorf("register type %s: %w", t.Name, err)
		}
	}
	for _, f := range d.Fields {
		if err := r.RegisterField(f); err != nil {
			return fmt.Errorf("register field %s.%s: %w", f.Owner, f.Name, err)
		}
	}
	for _, c := range d.Connections {
		if err := r.RegisterConnection(c); err != nil {
			return fmt.Errorf("register connection %s.%s: %w", c.From, c.Name, err)
		}
	}
	return nil
}

// Stats summarizes a delta.
type Stats struct {
	Types       int
	Fields      int
	Connections int
}

// Stats returns the number of entries of each kind.
func (d *Delta) Stats() Stats {
	return Stats{Types: len(d.Types), Fields: len(d.Fields), Connections: len(d.Connections)}
}
