package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tghp/wpgraphql-mb/internal/content"
	"github.com/tghp/wpgraphql-mb/internal/delta"
	"github.com/tghp/wpgraphql-mb/internal/eventbus"
	"github.com/tghp/wpgraphql-mb/internal/events"
	"github.com/tghp/wpgraphql-mb/internal/field"
	"github.com/tghp/wpgraphql-mb/internal/resolve"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

func loadFixture(t *testing.T) *site.Static {
	t.Helper()
	s, err := site.Load("../site/testdata/site.yaml")
	require.NoError(t, err)
	return s
}

func parseSite(t *testing.T, doc string) *site.Static {
	t.Helper()
	s, err := site.Parse([]byte(doc))
	require.NoError(t, err)
	return s
}

// recordSkips installs a fresh bus and collects every FieldSkipped event.
func recordSkips(t *testing.T) *[]events.FieldSkipped {
	t.Helper()
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })
	var skips []events.FieldSkipped
	eventbus.Subscribe(func(_ context.Context, e events.FieldSkipped) {
		skips = append(skips, e)
	})
	return &skips
}

// fieldTypes maps field name to type for every field added to owner.
func fieldTypes(d *delta.Delta, owner string) map[string]string {
	out := map[string]string{}
	for _, f := range fieldsOf(d, owner) {
		out[f.Name] = f.Type.String()
	}
	return out
}

func connectionTargets(d *delta.Delta, from string) map[string]string {
	out := map[string]string{}
	for _, c := range connectionsFrom(d, from) {
		out[c.Name] = c.To
	}
	return out
}

func specTypes(t *testing.T, d *delta.Delta, name string) map[string]string {
	t.Helper()
	typ, ok := typeOf(d, name)
	require.True(t, ok, "type %s not emitted", name)
	out := map[string]string{}
	for _, f := range typ.Fields {
		out[f.Name] = f.Type.String()
	}
	return out
}

func TestBuildContentTypeFields(t *testing.T) {
	d, err := Build(context.Background(), loadFixture(t))
	require.NoError(t, err)

	want := map[string]string{
		"subtitle":         "String",
		"readingTime":      "String",
		"highlights":       "[String]",
		"topic":            "Term",
		"topics":           "[Term]",
		"hero":             "Hero",
		"faq":              "[Faq]",
		"heroBannerBlocks": "[HeroBanner]",
	}
	if diff := cmp.Diff(want, fieldTypes(d, "Post")); diff != "" {
		t.Fatalf("Post fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]string{
		"coverImage":   delta.TypeMediaItem,
		"gallery":      delta.TypeMediaItem,
		"relatedPages": "Page",
	}, connectionTargets(d, "Post"))

	assert.Empty(t, fieldTypes(d, "Page"))
	assert.Empty(t, fieldTypes(d, "Product"))
}

func TestBuildResolverKinds(t *testing.T) {
	d, err := Build(context.Background(), loadFixture(t))
	require.NoError(t, err)

	byName := map[string]resolve.Resolver{}
	for _, f := range fieldsOf(d, "Post") {
		byName[f.Name] = f.Resolver
	}
	assert.IsType(t, &resolve.ScalarResolver{}, byName["subtitle"])
	assert.IsType(t, &resolve.TermResolver{}, byName["topics"])
	assert.IsType(t, &resolve.GroupResolver{}, byName["faq"])
	assert.IsType(t, &resolve.BlockListResolver{}, byName["heroBannerBlocks"])

	for _, c := range connectionsFrom(d, "Post") {
		r, ok := c.Resolver.(*resolve.ConnectionResolver)
		require.True(t, ok, c.Name)
		switch c.Name {
		case "relatedPages":
			assert.Equal(t, "page", r.ContentType)
		default:
			assert.Equal(t, content.AttachmentType, r.ContentType)
		}
		assert.Equal(t, site.OwnerContentType, r.Owner)
	}
}

func TestBuildGroupTypes(t *testing.T) {
	d, err := Build(context.Background(), loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"heading": "String", "tagline": "String"}, specTypes(t, d, "Hero"))
	assert.Equal(t, map[string]string{"heroPhoto": delta.TypeMediaItem}, connectionTargets(d, "Hero"))
	assert.Equal(t, map[string]string{"question": "String", "answer": "String"}, specTypes(t, d, "Faq"))

	hero, _ := typeOf(d, "Hero")
	assert.Equal(t, "Metabox Group Hero object", hero.Description)
	assert.Equal(t, "Group field - Heading", hero.Fields[0].Description)

	conn := connectionsFrom(d, "Hero")[0]
	r := conn.Resolver.(*resolve.ConnectionResolver)
	assert.True(t, r.InGroup)
}

func TestBuildMediaConnectionIDs(t *testing.T) {
	s := loadFixture(t)
	d, err := Build(context.Background(), s)
	require.NoError(t, err)
	post, err := s.Post(context.Background(), 1)
	require.NoError(t, err)

	ids := func(name string) []int {
		for _, c := range connectionsFrom(d, "Post") {
			if c.Name != name {
				continue
			}
			v, err := c.Resolver.Resolve(context.Background(), resolve.Params{Source: post})
			require.NoError(t, err)
			conn := v.(*site.Connection)
			var out []int
			for _, n := range conn.Nodes {
				out = append(out, n.(*content.Post).ID)
			}
			return out
		}
		t.Fatalf("connection %s not found", name)
		return nil
	}
	assert.Equal(t, []int{100}, ids("coverImage"))
	assert.Equal(t, []int{102, 100, 101}, ids("gallery"))
	assert.Equal(t, []int{21, 20}, ids("relatedPages"))
}

func TestBuildMediaConnectionKeyedByID(t *testing.T) {
	s := parseSite(t, `
contentTypes:
  - {name: post, graphqlSingleName: post}
  - {name: attachment, graphqlSingleName: mediaItem}
fieldGroups:
  - id: details
    post_types: [post]
    fields:
      - {id: gallery, name: Gallery, type: image_advanced, multiple: true}
      - {id: cover, name: Cover, type: single_image}
posts:
  - {id: 1, type: post, title: Hello}
  - {id: 100, type: attachment, title: Logo}
  - {id: 101, type: attachment, title: Photo}
meta:
  post:
    "1":
      gallery:
        101: {ID: 101, url: https://example.com/photo.jpg}
        100: {ID: 100, url: https://example.com/logo.png}
      cover:
        101: {ID: 101, url: https://example.com/photo.jpg}
`)
	d, err := Build(context.Background(), s)
	require.NoError(t, err)
	post, err := s.Post(context.Background(), 1)
	require.NoError(t, err)

	got := map[string][]int{}
	for _, c := range connectionsFrom(d, "Post") {
		v, err := c.Resolver.Resolve(context.Background(), resolve.Params{Source: post})
		require.NoError(t, err)
		require.NotNil(t, v, c.Name)
		for _, n := range v.(*site.Connection).Nodes {
			got[c.Name] = append(got[c.Name], n.(*content.Post).ID)
		}
	}
	assert.Equal(t, map[string][]int{"gallery": {100, 101}, "cover": {101}}, got)
}

func TestBuildTaxonomyMismatchNotRegistered(t *testing.T) {
	s := parseSite(t, `
taxonomies:
  - {name: category, graphqlSingleName: category}
  - {name: post_tag, graphqlSingleName: tag}
fieldGroups:
  - id: details
    object_type: term
    taxonomies: [category]
    fields:
      - {id: topic, type: taxonomy}
`)
	d, err := Build(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"topic": "Term"}, fieldTypes(d, "Category"))
	assert.Empty(t, fieldTypes(d, "Tag"))
}

func TestBuildOtherOwners(t *testing.T) {
	d, err := Build(context.Background(), loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"colour": "String", "parentTopic": "Term"}, fieldTypes(d, "Category"))
	assert.Empty(t, fieldTypes(d, "Tag"))
	assert.Equal(t, map[string]string{"twitterHandle": "String"}, fieldTypes(d, "User"))

	assert.Equal(t, map[string]string{"name": "String"}, specTypes(t, d, "HeroBanner"))
	assert.Equal(t, map[string]string{"headline": "String"}, fieldTypes(d, "HeroBanner"))
	assert.Equal(t, map[string]string{"background": delta.TypeMediaItem}, connectionTargets(d, "HeroBanner"))
}

func TestBuildSettingsGrouping(t *testing.T) {
	d, err := Build(context.Background(), loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"footerText":      "String",
		"logo":            delta.TypeMediaItem,
		"phoneNumbers":    "[String]",
		"apiKey":          "String",
		"defaultCategory": "Term",
	}, specTypes(t, d, "GeneralMetaboxSettings"))
	assert.Equal(t, map[string]string{
		"apiKey":          "String",
		"defaultCategory": "Term",
	}, specTypes(t, d, "AdvancedMetaboxSettings"))
	_, ok := typeOf(d, "MissingMetaboxSettings")
	assert.False(t, ok)

	root := map[string]delta.Field{}
	for _, f := range fieldsOf(d, delta.RootQuery) {
		root[f.Name] = f
	}
	require.Len(t, root, 2)

	general := root["siteOptionsMetaboxSettings"]
	assert.Equal(t, "GeneralMetaboxSettings", general.Type.Name)
	assert.Equal(t, "Settings for site_options", general.Description)
	gr := general.Resolver.(*resolve.SettingsResolver)
	assert.Equal(t, "site_options", gr.OptionName)
	assert.Len(t, gr.Groups, 3)

	advanced := root["advancedOptionsMetaboxSettings"]
	assert.Equal(t, "AdvancedMetaboxSettings", advanced.Type.Name)
	ar := advanced.Resolver.(*resolve.SettingsResolver)
	require.Len(t, ar.Groups, 1)
	assert.Equal(t, "integrations", ar.Groups[0].ID)
}

func TestBuildSettingsPageWithoutFields(t *testing.T) {
	s := parseSite(t, `
settingsPages:
  - {id: empty, option_name: empty_options}
fieldGroups:
  - id: blank
    object_type: setting
    settings_pages: empty
    fields:
      - {id: "", type: text}
`)
	d, err := Build(context.Background(), s)
	require.NoError(t, err)
	_, ok := typeOf(d, "EmptyMetaboxSettings")
	assert.False(t, ok)
	assert.Empty(t, fieldsOf(d, delta.RootQuery))
}

func TestBuildSkips(t *testing.T) {
	skips := recordSkips(t)
	d, err := Build(context.Background(), loadFixture(t))
	require.NoError(t, err)

	want := []events.FieldSkipped{
		{Owner: "MissingMetaboxSettings", FieldID: "lost", Reason: ReasonUnknownPage},
		{Owner: "GeneralMetaboxSettings", FieldID: "", Reason: ReasonEmptyID},
		{Owner: "Post", FieldID: "", Reason: ReasonEmptyID},
		{Owner: "Post", FieldID: "related_product", Reason: ReasonUnresolvableTarget},
		{Owner: "Hero", FieldID: "", Reason: ReasonEmptyID},
		{Owner: "product", FieldID: "sku", Reason: ReasonOwnerHidden},
	}
	if diff := cmp.Diff(want, *skips); diff != "" {
		t.Fatalf("skips mismatch (-want +got):\n%s", diff)
	}

	for _, typ := range d.Types {
		for _, f := range typ.Fields {
			assert.NotEmpty(t, f.Name, "type %s", typ.Name)
		}
	}
	for _, f := range d.Fields {
		assert.NotEmpty(t, f.Name, "owner %s", f.Owner)
	}
	for _, c := range d.Connections {
		assert.NotEmpty(t, c.Name, "from %s", c.From)
	}
}

func TestBuildPublishesFinish(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })
	var finish []events.SchemaBuildFinish
	eventbus.Subscribe(func(_ context.Context, e events.SchemaBuildFinish) { finish = append(finish, e) })

	d, err := Build(context.Background(), loadFixture(t))
	require.NoError(t, err)
	require.Len(t, finish, 1)
	st := d.Stats()
	assert.Equal(t, st.Types, finish[0].Types)
	assert.Equal(t, st.Fields, finish[0].Fields)
	assert.Equal(t, st.Connections, finish[0].Connections)
	assert.Equal(t, 6, finish[0].Skipped)
	assert.NoError(t, finish[0].Err)
}

func TestBuildGroupTypeEmittedOnce(t *testing.T) {
	s := parseSite(t, `
contentTypes:
  - {name: post, graphqlSingleName: post}
  - {name: page, graphqlSingleName: page}
fieldGroups:
  - id: shared
    post_types: [post, page]
    fields:
      - id: hero
        type: group
        fields:
          - {id: photo, type: image}
          - {id: heading, type: text}
  - id: hollow
    post_types: post
    fields:
      - id: nothing
        type: group
        fields:
          - {id: "", type: text}
`)
	skips := recordSkips(t)
	d, err := Build(context.Background(), s)
	require.NoError(t, err)

	count := 0
	for _, typ := range d.Types {
		if typ.Name == "Hero" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, connectionsFrom(d, "Hero"), 1)
	assert.Equal(t, "Hero", fieldTypes(d, "Post")["hero"])
	assert.Equal(t, "Hero", fieldTypes(d, "Page")["hero"])
	assert.NotContains(t, fieldTypes(d, "Post"), "nothing")
	assert.Contains(t, *skips, events.FieldSkipped{Owner: "Post", FieldID: "nothing", Reason: ReasonEmptyGroup})
}

type failingSite struct {
	*site.Static
	err error
}

func (f failingSite) FieldGroups(context.Context, field.ObjectKind) ([]*field.Group, error) {
	return nil, f.err
}

func TestBuildPropagatesErrors(t *testing.T) {
	boom := errors.New("registry unavailable")
	_, err := Build(context.Background(), failingSite{Static: loadFixture(t), err: boom})
	require.ErrorIs(t, err, boom)
}
