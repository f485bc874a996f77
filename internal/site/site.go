// Package site declares the collaborators the bridge consumes: the custom
// fields registry and meta storage, the content-type registry, the settings
// page registry, file info and content-list connections.
//
// Static is an in-memory implementation backed by a YAML document.
package site

import (
	"context"
	"errors"

	"github.com/tghp/wpgraphql-mb/internal/content"
	"github.com/tghp/wpgraphql-mb/internal/field"
)

// ErrNotFound is returned by entity lookups for unknown ids.
var ErrNotFound = errors.New("not found")

// OwnerKind is the kind of schema type custom fields are attached to.
type OwnerKind string

const (
	OwnerContentType OwnerKind = "content-type"
	OwnerTaxonomy    OwnerKind = "taxonomy"
	OwnerUser        OwnerKind = "user"
	OwnerBlock       OwnerKind = "block"
	// OwnerSetting is used for value lookups only; settings pages are
	// enumerated through SettingsPages.
	OwnerSetting OwnerKind = "setting"
	// OwnerContentTypeWithBlocks enumerates content types with block support.
	OwnerContentTypeWithBlocks OwnerKind = "content-type-with-block-support"
)

// OwnerType is a content type, taxonomy, user type or block type.
type OwnerType struct {
	Kind OwnerKind
	// Name is the storage name, e.g. "post", "category", "mb/hero".
	Name string
	// SchemaName is the public GraphQL single name. Empty means the type is
	// not exposed in the schema.
	SchemaName   string
	BlockSupport bool
}

// SettingsPage is a settings page registered with the settings page
// registry. Its fields are stored under OptionName.
type SettingsPage struct {
	ID         string `yaml:"id"`
	OptionName string `yaml:"option_name"`
}

// OwnerTypes enumerates schema owner types.
type OwnerTypes interface {
	OwnerTypes(ctx context.Context, kind OwnerKind) ([]OwnerType, error)
	// SchemaName returns the public GraphQL single name of a content type.
	SchemaName(ctx context.Context, contentType string) (string, bool)
}

// FieldGroups enumerates registered field groups of one object kind.
type FieldGroups interface {
	FieldGroups(ctx context.Context, kind field.ObjectKind) ([]*field.Group, error)
}

// MetaStore fetches stored field values. id is the numeric entity id for
// posts, terms and users, and the option name for settings. A nil value with
// a nil error means nothing is stored.
type MetaStore interface {
	MetaValue(ctx context.Context, fieldID string, kind field.ObjectKind, id any) (any, error)
}

// Files builds file info records for attachments.
type Files interface {
	FileInfo(ctx context.Context, attachment any, variant field.FileVariant, size string) (any, error)
}

// SettingsPages is the settings page registry.
type SettingsPages interface {
	SettingsPages(ctx context.Context) ([]SettingsPage, error)
}

// Connections resolves content-list connections restricted to an explicit
// id set. The caller's id order is preserved.
type Connections interface {
	ContentList(ctx context.Context, source any, args ConnectionArgs, ids []int, contentType string) (*Connection, error)
}

// Entities looks up content handles by id.
type Entities interface {
	Post(ctx context.Context, id int) (*content.Post, error)
	Term(ctx context.Context, id int) (*content.Term, error)
	User(ctx context.Context, id int) (*content.User, error)
}

// Site bundles every collaborator.
type Site interface {
	OwnerTypes
	FieldGroups
	MetaStore
	Files
	SettingsPages
	Connections
	Entities
}
