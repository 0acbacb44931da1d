// Package catalog holds the document templates users can generate and the
// form engine that collects their field values.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"nonprofit-assistant/locale"
)

//go:embed catalog.yaml
var builtin []byte

// FieldKind selects the input widget of a field
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindDate     FieldKind = "date"
)

// LocalizedText has one string per locale
type LocalizedText map[locale.Locale]string

// Get returns the text for l, falling back to the default locale
func (t LocalizedText) Get(l locale.Locale) string {
	if s, ok := t[l]; ok && s != "" {
		return s
	}
	return t[locale.Default]
}

// Field is one input of a template
type Field struct {
	ID    string        `yaml:"id"`
	Kind  FieldKind     `yaml:"kind"`
	Label LocalizedText `yaml:"label"`
}

// Template describes a generatable document
type Template struct {
	ID          string        `yaml:"id"`
	Name        LocalizedText `yaml:"name"`
	Description LocalizedText `yaml:"description"`
	Fields      []Field       `yaml:"fields"`
}

// Category groups templates
type Category struct {
	ID        string        `yaml:"id"`
	Name      LocalizedText `yaml:"name"`
	Templates []Template    `yaml:"templates"`
}

// Catalog is the static Category -> Template -> Field hierarchy
type Catalog struct {
	Categories []Category `yaml:"categories"`

	categoryIndex map[string]int
	templateIndex map[string][2]int
}

var ErrInvalidCatalog = errors.New("invalid catalog")

// Builtin returns the catalog shipped with the application
func Builtin() (*Catalog, error) {
	return Parse(builtin)
}

// Parse decodes and validates a YAML catalog. Category and template ids must
// be globally unique, field ids unique within their template.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.categoryIndex = make(map[string]int, len(c.Categories))
	c.templateIndex = make(map[string][2]int)

	for ci, cat := range c.Categories {
		if cat.ID == "" {
			return fmt.Errorf("%w: category %d has no id", ErrInvalidCatalog, ci)
		}
		if _, dup := c.categoryIndex[cat.ID]; dup {
			return fmt.Errorf("%w: duplicate category id %q", ErrInvalidCatalog, cat.ID)
		}
		c.categoryIndex[cat.ID] = ci

		for ti, tpl := range cat.Templates {
			if tpl.ID == "" {
				return fmt.Errorf("%w: template %d of %q has no id", ErrInvalidCatalog, ti, cat.ID)
			}
			if _, dup := c.templateIndex[tpl.ID]; dup {
				return fmt.Errorf("%w: duplicate template id %q", ErrInvalidCatalog, tpl.ID)
			}
			c.templateIndex[tpl.ID] = [2]int{ci, ti}

			seen := make(map[string]bool, len(tpl.Fields))
			for _, f := range tpl.Fields {
				if f.ID == "" || seen[f.ID] {
					return fmt.Errorf("%w: missing or duplicate field id %q in %q", ErrInvalidCatalog, f.ID, tpl.ID)
				}
				seen[f.ID] = true
				switch f.Kind {
				case KindText, KindTextarea, KindDate:
				default:
					return fmt.Errorf("%w: field %q of %q has unknown kind %q", ErrInvalidCatalog, f.ID, tpl.ID, f.Kind)
				}
			}
		}
	}
	return nil
}

// Category looks up a category by id
func (c *Catalog) Category(id string) (*Category, bool) {
	i, ok := c.categoryIndex[id]
	if !ok {
		return nil, false
	}
	return &c.Categories[i], true
}

// Template looks up a template by id and reports the category holding it
func (c *Catalog) Template(id string) (*Template, string, bool) {
	pos, ok := c.templateIndex[id]
	if !ok {
		return nil, "", false
	}
	cat := &c.Categories[pos[0]]
	return &cat.Templates[pos[1]], cat.ID, true
}
