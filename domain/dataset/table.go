package dataset

import (
	"strings"

	"covidash/domain/core"
)

// Table is the raw content of one tabular file
type Table struct {
	Headers     []string
	Rows        []RawRecord
	Fingerprint core.Hash
}

// Regions is the set of map region names used by the choropleth join
type Regions struct {
	Names       []string
	Fingerprint core.Hash

	byKey map[string]string
}

// NewRegions builds a region set, dropping blanks and case-insensitive duplicates
func NewRegions(names []string, fingerprint core.Hash) *Regions {
	r := &Regions{Fingerprint: fingerprint, byKey: make(map[string]string, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := regionKey(name)
		if _, seen := r.byKey[key]; seen {
			continue
		}
		r.byKey[key] = name
		r.Names = append(r.Names, name)
	}
	return r
}

// Lookup finds the region matching name case-insensitively
func (r *Regions) Lookup(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	region, ok := r.byKey[regionKey(name)]
	return region, ok
}

// Len returns the number of distinct regions
func (r *Regions) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Names)
}

func regionKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
