package language

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuerySyntaxError(t *testing.T) {
	_, err := ParseQuery("{ post(id: 1) { title }")
	require.Error(t, err)
	var ge *Error
	require.True(t, errors.As(err, &ge))
	require.NotEmpty(t, ge.Locations)
	assert.Equal(t, 1, ge.Locations[0].Line)
}

func TestOperationType(t *testing.T) {
	op, err := OperationType("{ post(id: 1) { title } }", "")
	require.NoError(t, err)
	assert.Equal(t, Query, op)

	doc := `query A { a } mutation B { b }`
	op, err = OperationType(doc, "B")
	require.NoError(t, err)
	assert.Equal(t, Mutation, op)

	_, err = OperationType(doc, "")
	assert.ErrorIs(t, err, ErrOperationAmbiguous)

	_, err = OperationType(doc, "C")
	assert.ErrorIs(t, err, ErrOperationNotFound)
	assert.Contains(t, err.Error(), `"C"`)
}

func TestSelectOperationEmptyDocument(t *testing.T) {
	doc, err := ParseQuery("fragment F on Post { title }")
	require.NoError(t, err)
	_, err = SelectOperation(doc, "")
	assert.ErrorIs(t, err, ErrNoOperation)
}
