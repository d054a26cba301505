// Package presets serves the catalogue of common event locations offered by the poster form.
package presets

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/campus-poster/backend/pkg/response"
)

//go:embed locations.yaml
var defaultCatalogue []byte

// Location is one selectable place.
type Location struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Section groups locations. Affiliated sections are inside the organization's campus.
type Section struct {
	Name       string     `yaml:"name" json:"name"`
	Affiliated bool       `yaml:"affiliated" json:"affiliated"`
	Locations  []Location `yaml:"locations" json:"locations"`
}

// Catalogue is the full preset list.
type Catalogue struct {
	Sections []Section `yaml:"sections" json:"sections"`
}

// Parse decodes a YAML catalogue and rejects entries without a value.
func Parse(raw []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse location presets: %w", err)
	}
	for i, s := range c.Sections {
		for j, l := range s.Locations {
			if strings.TrimSpace(l.Value) == "" {
				return nil, fmt.Errorf("section %q entry %d: empty value", s.Name, j)
			}
			if l.Label == "" {
				c.Sections[i].Locations[j].Label = l.Value
			}
		}
	}
	return &c, nil
}

// Default returns the embedded catalogue.
func Default() (*Catalogue, error) {
	return Parse(defaultCatalogue)
}

// IsAffiliated reports whether value belongs to an affiliated section.
func (c *Catalogue) IsAffiliated(value string) bool {
	for _, s := range c.Sections {
		if !s.Affiliated {
			continue
		}
		for _, l := range s.Locations {
			if l.Value == value {
				return true
			}
		}
	}
	return false
}

// Handler handles GET /locations.
func (c *Catalogue) Handler(ctx *gin.Context) {
	response.OK(ctx, c)
}
