package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var defaultOptions []byte

// FilterOptions lists the values the filter inputs offer.
type FilterOptions struct {
	Roles      []string `yaml:"roles" json:"roles"`
	Locations  []string `yaml:"locations" json:"locations"`
	Experience []string `yaml:"experience" json:"experience"`
	BasePay    []string `yaml:"basePay" json:"basePay"`
}

// LoadFilterOptions reads the YAML at path, or the embedded defaults when
// path is empty.
func LoadFilterOptions(path string) (*FilterOptions, error) {
	data := defaultOptions
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read filter options: %w", err)
		}
		data = b
	}

	opts := &FilterOptions{}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parse filter options: %w", err)
	}
	if len(opts.Roles) == 0 || len(opts.Locations) == 0 {
		return nil, fmt.Errorf("filter options must list roles and locations")
	}
	return opts, nil
}
