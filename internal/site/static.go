package site

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tghp/wpgraphql-mb/internal/content"
	"github.com/tghp/wpgraphql-mb/internal/field"
)

// TypeConfig registers a content type, taxonomy or block type.
type TypeConfig struct {
	Name              string `yaml:"name"`
	GraphQLSingleName string `yaml:"graphqlSingleName"`
	BlockSupport      bool   `yaml:"blockSupport"`
}

// Static is a Site held entirely in memory.
type Static struct {
	ContentTypes []TypeConfig                                   `yaml:"contentTypes"`
	Taxonomies   []TypeConfig                                   `yaml:"taxonomies"`
	BlockTypes   []TypeConfig                                   `yaml:"blockTypes"`
	Users        []*content.User                                `yaml:"users"`
	Pages        []SettingsPage                                 `yaml:"settingsPages"`
	Groups       []*field.Group                                 `yaml:"fieldGroups"`
	Posts        []*content.Post                                `yaml:"posts"`
	Terms        []*content.Term                                `yaml:"terms"`
	Meta         map[field.ObjectKind]map[string]map[string]any `yaml:"meta"`
	UserTypeName string                                         `yaml:"userSchemaName"`

	posts map[int]*content.Post
	terms map[int]*content.Term
	users map[int]*content.User
}

var _ Site = (*Static)(nil)

// Load reads a Static site from a YAML file.
func Load(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a Static site from YAML.
func Parse(data []byte) (*Static, error) {
	s := &Static{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	s.index()
	for kind, entities := range s.Meta {
		for key, values := range entities {
			for fieldID, v := range values {
				resolved, err := s.resolveRefs(v)
				if err != nil {
					return nil, fmt.Errorf("meta %s/%s/%s: %w", kind, key, fieldID, err)
				}
				values[fieldID] = resolved
			}
		}
	}
	for _, p := range s.Posts {
		for _, b := range p.Blocks {
			for k, v := range b.Attributes {
				resolved, err := s.resolveRefs(v)
				if err != nil {
					return nil, fmt.Errorf("post %d block %s/%s: %w", p.ID, b.Name, k, err)
				}
				b.Attributes[k] = resolved
			}
		}
	}
	return s, nil
}

func (s *Static) index() {
	s.posts = make(map[int]*content.Post, len(s.Posts))
	for _, p := range s.Posts {
		s.posts[p.ID] = p
	}
	s.terms = make(map[int]*content.Term, len(s.Terms))
	for _, t := range s.Terms {
		s.terms[t.ID] = t
	}
	s.users = make(map[int]*content.User, len(s.Users))
	for _, u := range s.Users {
		s.users[u.ID] = u
	}
}

// resolveRefs replaces {term: <id>} records with term handles, recursively.
// Mappings decoded with non-string keys, such as records keyed by an
// unquoted id, are rekeyed to strings.
func (s *Static) resolveRefs(v any) (any, error) {
	switch x := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = e
		}
		return s.resolveRefs(m)
	case map[string]any:
		if id, ok := x["term"]; ok && len(x) == 1 {
			n, ok := toInt(id)
			if !ok {
				return nil, fmt.Errorf("invalid term reference %v", id)
			}
			t, found := s.terms[n]
			if !found {
				return nil, fmt.Errorf("term %d: %w", n, ErrNotFound)
			}
			return t, nil
		}
		for k, e := range x {
			r, err := s.resolveRefs(e)
			if err != nil {
				return nil, err
			}
			x[k] = r
		}
		return x, nil
	case []any:
		for i, e := range x {
			r, err := s.resolveRefs(e)
			if err != nil {
				return nil, err
			}
			x[i] = r
		}
		return x, nil
	default:
		return v, nil
	}
}

func (s *Static) OwnerTypes(_ context.Context, kind OwnerKind) ([]OwnerType, error) {
	var out []OwnerType
	switch kind {
	case OwnerContentType, OwnerContentTypeWithBlocks:
		for _, c := range s.ContentTypes {
			if kind == OwnerContentTypeWithBlocks && !c.BlockSupport {
				continue
			}
			out = append(out, OwnerType{Kind: OwnerContentType, Name: c.Name, SchemaName: c.GraphQLSingleName, BlockSupport: c.BlockSupport})
		}
	case OwnerTaxonomy:
		for _, c := range s.Taxonomies {
			out = append(out, OwnerType{Kind: OwnerTaxonomy, Name: c.Name, SchemaName: c.GraphQLSingleName})
		}
	case OwnerBlock:
		for _, c := range s.BlockTypes {
			out = append(out, OwnerType{Kind: OwnerBlock, Name: c.Name, SchemaName: c.GraphQLSingleName})
		}
	case OwnerUser:
		name := s.UserTypeName
		if name == "" {
			name = "user"
		}
		out = append(out, OwnerType{Kind: OwnerUser, Name: "user", SchemaName: name})
	default:
		return nil, fmt.Errorf("unknown owner kind %q", kind)
	}
	return out, nil
}

func (s *Static) SchemaName(_ context.Context, contentType string) (string, bool) {
	for _, c := range s.ContentTypes {
		if c.Name == contentType {
			return c.GraphQLSingleName, c.GraphQLSingleName != ""
		}
	}
	return "", false
}

func (s *Static) FieldGroups(_ context.Context, kind field.ObjectKind) ([]*field.Group, error) {
	var out []*field.Group
	for _, g := range s.Groups {
		if g.ObjectKind == kind {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Static) MetaValue(_ context.Context, fieldID string, kind field.ObjectKind, id any) (any, error) {
	entities, ok := s.Meta[kind]
	if !ok {
		return nil, nil
	}
	values, ok := entities[fmt.Sprint(id)]
	if !ok {
		return nil, nil
	}
	return values[fieldID], nil
}

func (s *Static) SettingsPages(context.Context) ([]SettingsPage, error) {
	return s.Pages, nil
}

// FileInfo returns a Meta Box style file record. Unknown attachments yield a
// nil record.
func (s *Static) FileInfo(_ context.Context, attachment any, variant field.FileVariant, size string) (any, error) {
	id, ok := attachmentID(attachment)
	if !ok {
		return nil, fmt.Errorf("invalid attachment reference %v", attachment)
	}
	p, found := s.posts[id]
	if !found || p.Type != content.AttachmentType {
		return nil, nil
	}
	if variant == field.FileVideo {
		return map[string]any{
			"ID":    p.ID,
			"src":   p.URL,
			"type":  p.MimeType,
			"title": p.Title,
		}, nil
	}
	return map[string]any{
		"ID":       p.ID,
		"name":     p.Slug,
		"url":      p.URL,
		"full_url": p.URL,
		"title":    p.Title,
		"size":     size,
	}, nil
}

func (s *Static) ContentList(_ context.Context, _ any, args ConnectionArgs, ids []int, contentType string) (*Connection, error) {
	nodes := make([]any, 0, len(ids))
	for _, id := range ids {
		p, ok := s.posts[id]
		if !ok || p.Type != contentType {
			continue
		}
		nodes = append(nodes, p)
	}
	return Paginate(nodes, args)
}

func (s *Static) Post(_ context.Context, id int) (*content.Post, error) {
	if p, ok := s.posts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
}

func (s *Static) Term(_ context.Context, id int) (*content.Term, error) {
	if t, ok := s.terms[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("term %d: %w", id, ErrNotFound)
}

func (s *Static) User(_ context.Context, id int) (*content.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
}

func attachmentID(v any) (int, bool) {
	switch x := v.(type) {
	case *content.Post:
		return x.ID, true
	case map[string]any:
		return toInt(x["ID"])
	default:
		return toInt(v)
	}
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), x == float64(int(x))
	case string:
		n, err := strconv.Atoi(x)
		return n, err == nil
	default:
		return 0, false
	}
}
