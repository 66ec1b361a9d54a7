package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"covidash/internal/errors"

	"gopkg.in/yaml.v3"
)

// Catalog is the optional YAML file listing dataset sources
//
//	datasets:
//	  - name: global
//	    path: data/worldometer_data.csv
//	regions:
//	  path: data/india_state.geojson
//	  name_property: NAME_1
//	missing_states: [Odisha, Uttarakhand, Mizoram]
type Catalog struct {
	Datasets      []CatalogEntry `yaml:"datasets" validate:"dive"`
	Regions       *RegionsEntry  `yaml:"regions"`
	MissingStates []string       `yaml:"missing_states"`
}

// CatalogEntry points one dataset at a file
type CatalogEntry struct {
	Name string `yaml:"name" validate:"required,oneof=professionals global regional"`
	Path string `yaml:"path" validate:"required"`
}

// RegionsEntry points at the GeoJSON region file
type RegionsEntry struct {
	Path         string `yaml:"path" validate:"required"`
	NameProperty string `yaml:"name_property"`
}

// LoadCatalog reads and validates a catalog file
func LoadCatalog(path string) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return ParseCatalog(content)
}

// ParseCatalog decodes catalog YAML; unknown keys are rejected
func ParseCatalog(content []byte) (*Catalog, error) {
	var catalog Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil && err != io.EOF {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("invalid catalog: %w", err))
	}
	if err := validate.Struct(&catalog); err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("invalid catalog: %v", err))
	}
	return &catalog, nil
}

// Apply overrides the data paths the catalog names
func (c *Catalog) Apply(data *DataConfig) {
	for _, entry := range c.Datasets {
		switch entry.Name {
		case "professionals":
			data.ProfessionalsFile = entry.Path
		case "global":
			data.GlobalFile = entry.Path
		case "regional":
			data.RegionalFile = entry.Path
		}
	}
	if c.Regions != nil {
		data.RegionsGeoJSON = c.Regions.Path
		if c.Regions.NameProperty != "" {
			data.GeoJSONNameProperty = c.Regions.NameProperty
		}
	}
	if c.MissingStates != nil {
		data.MissingStates = c.MissingStates
	}
}
