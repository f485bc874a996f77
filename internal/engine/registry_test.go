package engine

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tghp/wpgraphql-mb/internal/delta"
	"github.com/tghp/wpgraphql-mb/internal/resolve"
)

func constant(v any) resolve.Resolver {
	return resolve.Func(func(context.Context, resolve.Params) (any, error) { return v, nil })
}

func TestRegistryUnknownOwner(t *testing.T) {
	r := NewRegistry()
	err := r.RegisterField(delta.Field{Owner: "Nope", Name: "x", Type: delta.Named(delta.TypeString)})
	require.ErrorIs(t, err, delta.ErrUnknownType)
	err = r.RegisterConnection(delta.Connection{From: "Nope", To: delta.TypeMediaItem, Name: "x"})
	require.ErrorIs(t, err, delta.ErrUnknownType)
}

func TestRegistryUnknownFieldType(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterObjectType(delta.ObjectType{Name: delta.RootQuery}))
	require.NoError(t, r.RegisterField(delta.Field{Owner: delta.RootQuery, Name: "x", Type: delta.Named("Missing")}))
	_, err := r.Schema()
	require.ErrorIs(t, err, delta.ErrUnknownType)
}

func TestRegistryRequiresRootQuery(t *testing.T) {
	_, err := NewRegistry().Schema()
	require.ErrorIs(t, err, delta.ErrUnknownType)
}

func TestRegistryLaterFieldWins(t *testing.T) {
	r := NewRegistry()
	var d delta.Delta
	d.AddType(delta.ObjectType{Name: delta.RootQuery})
	d.AddField(delta.Field{Owner: delta.RootQuery, Name: "greeting", Type: delta.Named(delta.TypeString), Resolver: constant("first")})
	d.AddField(delta.Field{Owner: delta.RootQuery, Name: "greeting", Type: delta.Named(delta.TypeString), Resolver: constant("second")})
	require.NoError(t, d.Apply(r))

	s, err := r.Schema()
	require.NoError(t, err)
	res := graphql.Do(graphql.Params{Schema: *s, RequestString: `{ greeting }`})
	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{"greeting": "second"}, res.Data)
}

func TestRegistryMapSourceDefault(t *testing.T) {
	r := NewRegistry()
	var d delta.Delta
	d.AddType(delta.ObjectType{Name: delta.RootQuery})
	d.AddType(delta.ObjectType{Name: "Pair", Fields: []delta.FieldSpec{
		{Name: "left", Type: delta.Named(delta.TypeString)},
		{Name: "right", Type: delta.Named(delta.TypeString)},
	}})
	d.AddField(delta.Field{Owner: delta.RootQuery, Name: "pair", Type: delta.Named("Pair"), Resolver: constant(map[string]any{"left": "L"})})
	require.NoError(t, d.Apply(r))

	s, err := r.Schema()
	require.NoError(t, err)
	res := graphql.Do(graphql.Params{Schema: *s, RequestString: `{ pair { left right } }`})
	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{"pair": map[string]any{"left": "L", "right": nil}}, res.Data)
}

func TestRegistryEmptyType(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterObjectType(delta.ObjectType{Name: delta.RootQuery}))
	_, err := r.Schema()
	require.Error(t, err)
}
