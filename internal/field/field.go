// Package field models Meta Box field definitions and field groups.
//
// Raw Meta Box type strings are classified exactly once, when a Definition is
// loaded, into the closed Kind enumeration. Everything downstream dispatches on
// Kind and Cardinality only.
package field

// Kind is the closed classification of a field definition.
type Kind int

const (
	KindScalar Kind = iota
	KindMedia
	KindTaxonomy
	KindContent
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindMedia:
		return "media"
	case KindTaxonomy:
		return "taxonomy"
	case KindContent:
		return "content"
	case KindGroup:
		return "group"
	default:
		return "scalar"
	}
}

// Cardinality tells whether a field stores one value or a list of values.
type Cardinality int

const (
	Single Cardinality = iota
	Multiple
)

func (c Cardinality) String() string {
	if c == Multiple {
		return "multiple"
	}
	return "single"
}

// FileVariant selects the file-info transform applied to media values.
type FileVariant string

const (
	FileImage FileVariant = "image"
	FileVideo FileVariant = "video"
)

// ObjectKind is the storage object type a field group is attached to. It
// selects the meta lookup variant.
type ObjectKind string

const (
	ObjectPost    ObjectKind = "post"
	ObjectTerm    ObjectKind = "term"
	ObjectUser    ObjectKind = "user"
	ObjectSetting ObjectKind = "setting"
	ObjectBlock   ObjectKind = "block"
)

var mediaTypes = map[string]bool{
	"media":          true,
	"file":           true,
	"file_upload":    true,
	"file_advanced":  true,
	"file_input":     true,
	"single_image":   true,
	"image":          true,
	"image_upload":   true,
	"image_advanced": true,
	"plupload_image": true,
	"thickbox_image": true,
	"video":          true,
}

var taxonomyTypes = map[string]bool{
	"taxonomy":          true,
	"taxonomy_advanced": true,
}

// Classify maps a raw Meta Box field type to its Kind.
func Classify(rawType string) Kind {
	switch {
	case rawType == "group":
		return KindGroup
	case rawType == "post":
		return KindContent
	case mediaTypes[rawType]:
		return KindMedia
	case taxonomyTypes[rawType]:
		return KindTaxonomy
	default:
		return KindScalar
	}
}

// Definition is one admin-configured custom field. It is immutable for the
// duration of a schema build.
type Definition struct {
	ID          string
	Name        string
	Type        string
	Description string
	Kind        Kind
	FileVariant FileVariant
	Clone       bool
	Multiple    bool

	// Children is set for KindGroup only.
	Children []*Definition
	// TargetContentTypes is set for KindContent only.
	TargetContentTypes []string
}

// New builds a classified definition from a raw type string.
func New(id, rawType string) *Definition {
	d := &Definition{ID: id, Type: rawType}
	d.classify()
	return d
}

func (d *Definition) classify() {
	d.Kind = Classify(d.Type)
	d.FileVariant = ""
	if d.Kind == KindMedia {
		d.FileVariant = FileImage
		if d.Type == "video" {
			d.FileVariant = FileVideo
		}
	}
}

// Cardinality reports Multiple when either the clone or the multiple flag is
// set.
func (d *Definition) Cardinality() Cardinality {
	if d.Clone || d.Multiple {
		return Multiple
	}
	return Single
}

// IsList is shorthand for Cardinality() == Multiple.
func (d *Definition) IsList() bool { return d.Cardinality() == Multiple }

// Skipped reports whether the definition must be ignored at every
// enumeration point.
func (d *Definition) Skipped() bool { return d == nil || d.ID == "" }

// TargetContentType returns the first target content type of a content
// reference, or "" when none is configured.
func (d *Definition) TargetContentType() string {
	if len(d.TargetContentTypes) == 0 {
		return ""
	}
	return d.TargetContentTypes[0]
}

// Group is a Meta Box field group ("meta box").
type Group struct {
	ID            string
	Title         string
	ObjectKind    ObjectKind
	Fields        []*Definition
	ContentTypes  []string
	Taxonomies    []string
	SettingsPages []string
	BlockTypes    []string
}

// AppliesToContentType reports whether the group lists the content type.
func (g *Group) AppliesToContentType(name string) bool { return contains(g.ContentTypes, name) }

// AppliesToTaxonomy reports whether the group lists the taxonomy.
func (g *Group) AppliesToTaxonomy(name string) bool { return contains(g.Taxonomies, name) }

// AppliesToBlockType reports whether the group lists the block type.
func (g *Group) AppliesToBlockType(name string) bool { return contains(g.BlockTypes, name) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
