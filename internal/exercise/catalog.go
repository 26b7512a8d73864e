package exercise

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Exercise is one canonical catalog entry
type Exercise struct {
	Name    string   `yaml:"name" json:"name"`
	Muscle  string   `yaml:"muscle" json:"muscle"`
	Aliases []string `yaml:"aliases" json:"aliases,omitempty"`
}

// Catalog is the YAML document the matcher is built from
type Catalog struct {
	Abbreviations map[string]string `yaml:"abbreviations"`
	Exercises     []Exercise        `yaml:"exercises"`
}

// ParseCatalog decodes a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse exercise catalog: %w", err)
	}
	if len(c.Exercises) == 0 {
		return nil, fmt.Errorf("parse exercise catalog: no exercises")
	}
	return &c, nil
}

// DefaultCatalog returns the catalog compiled into the binary
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}
