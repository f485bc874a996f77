package field

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// rawDefinition mirrors the Meta Box field array.
type rawDefinition struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Type     string        `yaml:"type"`
	Desc     string        `yaml:"desc"`
	Clone    bool          `yaml:"clone"`
	Multiple bool          `yaml:"multiple"`
	Fields   []*Definition `yaml:"fields"`
	PostType stringOrList  `yaml:"post_type"`
}

// UnmarshalYAML decodes a Meta Box field array and classifies it.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	var raw rawDefinition
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*d = Definition{
		ID:          raw.ID,
		Name:        raw.Name,
		Type:        raw.Type,
		Description: raw.Desc,
		Clone:       raw.Clone,
		Multiple:    raw.Multiple,
	}
	d.classify()
	switch d.Kind {
	case KindGroup:
		d.Children = raw.Fields
	case KindContent:
		d.TargetContentTypes = raw.PostType
	}
	return nil
}

type rawGroup struct {
	ID            string        `yaml:"id"`
	Title         string        `yaml:"title"`
	ObjectType    string        `yaml:"object_type"`
	Fields        []*Definition `yaml:"fields"`
	PostTypes     stringOrList  `yaml:"post_types"`
	Taxonomies    stringOrList  `yaml:"taxonomies"`
	SettingsPages stringOrList  `yaml:"settings_pages"`
	BlockTypes    stringOrList  `yaml:"block_types"`
}

// UnmarshalYAML decodes a Meta Box meta box registration.
func (g *Group) UnmarshalYAML(node *yaml.Node) error {
	var raw rawGroup
	if err := node.Decode(&raw); err != nil {
		return err
	}
	kind := ObjectKind(raw.ObjectType)
	switch kind {
	case "":
		kind = ObjectPost
	case ObjectPost, ObjectTerm, ObjectUser, ObjectSetting, ObjectBlock:
	default:
		return fmt.Errorf("field group %q: unknown object_type %q", raw.ID, raw.ObjectType)
	}
	*g = Group{
		ID:            raw.ID,
		Title:         raw.Title,
		ObjectKind:    kind,
		Fields:        raw.Fields,
		ContentTypes:  raw.PostTypes,
		Taxonomies:    raw.Taxonomies,
		SettingsPages: raw.SettingsPages,
		BlockTypes:    raw.BlockTypes,
	}
	return nil
}

// stringOrList accepts either a YAML scalar or a sequence of scalars.
type stringOrList []string

func (s *stringOrList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		*s = stringOrList{v}
		return nil
	case yaml.SequenceNode:
		var v []string
		if err := node.Decode(&v); err != nil {
			return err
		}
		*s = v
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}
