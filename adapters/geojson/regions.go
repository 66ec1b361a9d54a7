package geojson

import (
	"context"
	"fmt"
	"os"
	"strings"

	"covidash/domain/core"
	"covidash/domain/dataset"

	"github.com/tidwall/gjson"
)

// DefaultNameProperty is the feature property holding the region name
const DefaultNameProperty = "NAME_1"

// ReadFile loads region names from a GeoJSON file
func ReadFile(ctx context.Context, path, nameProperty string) (*dataset.Regions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoJSON file: %w", err)
	}
	return Parse(content, nameProperty)
}

// Parse extracts features.#.properties.<nameProperty> from a FeatureCollection
func Parse(content []byte, nameProperty string) (*dataset.Regions, error) {
	if !gjson.ValidBytes(content) {
		return nil, fmt.Errorf("invalid GeoJSON document")
	}
	if nameProperty == "" {
		nameProperty = DefaultNameProperty
	}

	doc := gjson.ParseBytes(content)
	if doc.Get("type").String() != "FeatureCollection" {
		return nil, fmt.Errorf("GeoJSON document is not a FeatureCollection")
	}

	var names []string
	for _, name := range doc.Get("features.#.properties." + escapePath(nameProperty)).Array() {
		names = append(names, name.String())
	}

	regions := dataset.NewRegions(names, core.NewHash(content))
	if regions.Len() == 0 {
		return nil, fmt.Errorf("no features carry property %q", nameProperty)
	}
	return regions, nil
}

func escapePath(property string) string {
	replacer := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "#", `\#`)
	return replacer.Replace(property)
}
