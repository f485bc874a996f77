// Package content holds the typed handles of the content-object model: posts
// (attachments included), terms, users and blocks.
package content

// AttachmentType is the content type of media items.
const AttachmentType = "attachment"

// Entity is implemented by every handle that has a numeric identity.
type Entity interface {
	DatabaseID() int
}

// Post is a content entry of any content type.
type Post struct {
	ID       int      `yaml:"id"`
	Type     string   `yaml:"type"`
	Title    string   `yaml:"title"`
	Slug     string   `yaml:"slug"`
	URL      string   `yaml:"url"`
	MimeType string   `yaml:"mimeType"`
	Blocks   []*Block `yaml:"blocks"`
}

func (p *Post) DatabaseID() int { return p.ID }

// BlocksNamed returns the post's blocks of the given block type, in document
// order.
func (p *Post) BlocksNamed(name string) []*Block {
	var out []*Block
	for _, b := range p.Blocks {
		if b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

// Term is a taxonomy term.
type Term struct {
	ID          int    `yaml:"id"`
	Taxonomy    string `yaml:"taxonomy"`
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

func (t *Term) DatabaseID() int { return t.ID }

// TermRecord is the GraphQL Term shape of the term.
func (t *Term) TermRecord() map[string]any {
	return map[string]any{
		"id":          t.ID,
		"name":        t.Name,
		"slug":        t.Slug,
		"description": t.Description,
		"taxonomy":    t.Taxonomy,
	}
}

// User is a registered user.
type User struct {
	ID    int    `yaml:"id"`
	Login string `yaml:"login"`
	Name  string `yaml:"name"`
}

func (u *User) DatabaseID() int { return u.ID }

// Block is one parsed content block. Block field values live in Attributes
// keyed by raw field id.
type Block struct {
	Name       string         `yaml:"name"`
	Attributes map[string]any `yaml:"attributes"`
}
