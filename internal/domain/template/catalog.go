package template

import (
	"errors"
	"fmt"
)

// ErrUnknownTemplate is returned when a template id is not in the catalog.
var ErrUnknownTemplate = errors.New("unknown template")

// Catalog is an ordered, read-only set of templates keyed by id.
type Catalog struct {
	templates []Template
	byID      map[string]int
}

// NewCatalog builds a catalog. Later duplicates of an id are ignored.
func NewCatalog(templates ...Template) *Catalog {
	c := &Catalog{
		templates: make([]Template, 0, len(templates)),
		byID:      make(map[string]int, len(templates)),
	}
	for _, t := range templates {
		if _, exists := c.byID[t.ID]; exists {
			continue
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return c
}

// Lookup returns the template with the given id.
func (c *Catalog) Lookup(id string) (Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return c.templates[i], nil
}

// List returns the templates in catalog order.
func (c *Catalog) List() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Built-in template ids.
const (
	BlackWhiteID   = "black-white"
	ModernID       = "modern"
	ProfessionalID = "professional"
	MinimalID      = "minimal"
	ClassicID      = "classic"
)

// Builtin returns the catalog shipped with the application.
func Builtin() *Catalog {
	return NewCatalog(
		Template{
			ID:   BlackWhiteID,
			Name: "Black & White",
			Colors: Colors{
				Primary:    "#000000",
				Secondary:  "#4b5563",
				Background: "#ffffff",
				Text:       "#000000",
			},
			Config: Options{
				Layout:           LayoutMinimal,
				ShowLogo:         true,
				ShowSignature:    true,
				ShowTaxBreakdown: true,
				BorderRadius:     "0",
				Spacing:          "compact",
			},
		},
		Template{
			ID:   ModernID,
			Name: "Modern",
			Colors: Colors{
				Primary:   "#7c3aed",
				Secondary: "#db2777",
				Accent:    "#f59e0b",
			},
			Config: Options{
				Layout:           LayoutModern,
				ShowLogo:         true,
				ShowSignature:    true,
				ShowTaxBreakdown: true,
				BorderRadius:     "1rem",
				Spacing:          "relaxed",
			},
		},
		Template{
			ID:   ProfessionalID,
			Name: "Professional",
			Colors: Colors{
				Primary:    "#1e40af",
				Secondary:  "#3b82f6",
				Accent:     "#0f172a",
				Background: "#f8fafc",
			},
			Config: Options{
				Layout:           LayoutCorporate,
				ShowLogo:         true,
				ShowSignature:    true,
				ShowTaxBreakdown: true,
				BorderRadius:     "0.25rem",
				Spacing:          "normal",
			},
		},
		Template{
			ID:   MinimalID,
			Name: "Minimal Green",
			Colors: Colors{
				Primary:   "#059669",
				Secondary: "#6b7280",
			},
			Config: Options{
				Layout:           LayoutMinimal,
				ShowLogo:         false,
				ShowSignature:    false,
				ShowTaxBreakdown: true,
				BorderRadius:     "0.375rem",
				Spacing:          "compact",
			},
		},
		Template{
			ID:   ClassicID,
			Name: "Classic",
			Colors: Colors{
				Primary:   "#374151",
				Secondary: "#6b7280",
				Accent:    "#b45309",
				Text:      "#1f2937",
			},
			Config: Options{
				Layout:           LayoutClassic,
				ShowLogo:         true,
				ShowSignature:    true,
				ShowTaxBreakdown: false,
				BorderRadius:     "0",
				Spacing:          "normal",
			},
		},
	)
}
