package schema

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Validate renders s and loads the SDL with gqlparser, which reports
// references to undefined types, empty object types and duplicate
// definitions.
func Validate(s *Schema) (*ast.Schema, error) {
	return gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: Render(s)})
}
