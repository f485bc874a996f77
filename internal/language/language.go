// Package language parses GraphQL request documents with gqlparser.
package language

import (
	"errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
)

type (
	QueryDocument       = ast.QueryDocument
	OperationDefinition = ast.OperationDefinition
	Operation           = ast.Operation
	// Error is a GraphQL error carrying source locations.
	Error = gqlerror.Error
)

const (
	Query        Operation = ast.Query
	Mutation     Operation = ast.Mutation
	Subscription Operation = ast.Subscription
)

var (
	ErrNoOperation        = errors.New("document contains no operations")
	ErrOperationNotFound  = errors.New("unknown operation named")
	ErrOperationAmbiguous = errors.New("operation name is required when the document contains multiple operations")
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// SelectOperation picks the operation a request runs: the one called name,
// or the only one in doc when name is empty.
func SelectOperation(doc *QueryDocument, name string) (*OperationDefinition, error) {
	if len(doc.Operations) == 0 {
		return nil, ErrNoOperation
	}
	if name == "" {
		if len(doc.Operations) > 1 {
			return nil, ErrOperationAmbiguous
		}
		return doc.Operations[0], nil
	}
	op := doc.Operations.ForName(name)
	if op == nil {
		return nil, &Error{Message: ErrOperationNotFound.Error() + " \"" + name + "\"", Err: ErrOperationNotFound}
	}
	return op, nil
}

// OperationType parses source and reports the type of the operation a
// request would run ("query", "mutation" or "subscription").
func OperationType(source, name string) (Operation, error) {
	doc, err := ParseQuery(source)
	if err != nil {
		return "", err
	}
	op, err := SelectOperation(doc, name)
	if err != nil {
		return "", err
	}
	return op.Operation, nil
}
