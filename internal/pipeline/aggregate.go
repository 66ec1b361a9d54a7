package pipeline

import (
	"strings"

	"covidash/domain/dataset"

	"github.com/montanaflynn/stats"
)

// UnknownKey labels records whose key field is missing
const UnknownKey = "Unknown"

// KeySpec selects one grouping level. Levels, when set, fixes the leading
// order of the level's domain; observed values outside Levels follow in
// first-seen order.
type KeySpec struct {
	Field  string
	Levels []string
}

// Key is shorthand for a KeySpec
func Key(field string, levels ...string) KeySpec {
	return KeySpec{Field: field, Levels: levels}
}

type measureKind int

const (
	measureCount measureKind = iota
	measureSum
	measureMean
)

// Measure is one reduction computed per group
type Measure struct {
	Name  string
	Field string
	kind  measureKind
}

// Count counts the records in a group
func Count() Measure { return Measure{Name: "count", kind: measureCount} }

// Sum adds the present values of a numeric field
func Sum(field string) Measure { return Measure{Name: "sum", Field: field, kind: measureSum} }

// Mean averages the present values of a numeric field; an empty group yields 0
func Mean(field string) Measure { return Measure{Name: "mean", Field: field, kind: measureMean} }

// GroupKey is a tuple of categorical values compared by value
type GroupKey []string

// String joins the key parts for display
func (k GroupKey) String() string { return strings.Join(k, " / ") }

// Equal reports value equality
func (k GroupKey) Equal(other GroupKey) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// Group is one aggregated bucket with one value per requested measure
type Group struct {
	Key    GroupKey  `json:"key"`
	Count  int       `json:"count"`
	Values []float64 `json:"values"`
}

// Value returns the i-th measure, 0 when out of range
func (g Group) Value(i int) float64 {
	if i < 0 || i >= len(g.Values) {
		return 0
	}
	return g.Values[i]
}

// KeyValue returns the text of a record's key field
func KeyValue(r dataset.Record, field string) string {
	v := r.Get(field)
	if v.IsMissing() {
		return UnknownKey
	}
	return v.String()
}

// Aggregate groups records by the given key levels and reduces each group.
// The result is the cartesian product of every level's domain with the outer
// level varying slowest; absent combinations carry Count 0 and zero measures.
func Aggregate(records []dataset.Record, keys []KeySpec, measures ...Measure) []Group {
	if len(keys) == 0 {
		return nil
	}

	domains := make([]*levelDomain, len(keys))
	for i, spec := range keys {
		domains[i] = newLevelDomain(spec.Levels)
	}
	for _, r := range records {
		for i, spec := range keys {
			domains[i].observe(KeyValue(r, spec.Field))
		}
	}

	size := 1
	for _, d := range domains {
		size *= len(d.values)
	}
	if size == 0 {
		return []Group{}
	}

	samples := make([][][]float64, size)
	counts := make([]int, size)
	for _, r := range records {
		idx := 0
		for i, spec := range keys {
			idx = idx*len(domains[i].values) + domains[i].index[KeyValue(r, spec.Field)]
		}
		counts[idx]++
		if samples[idx] == nil {
			samples[idx] = make([][]float64, len(measures))
		}
		for m, measure := range measures {
			if measure.kind == measureCount {
				continue
			}
			if n, ok := r.Number(measure.Field); ok {
				samples[idx][m] = append(samples[idx][m], n)
			}
		}
	}

	groups := make([]Group, size)
	for idx := range groups {
		key := make(GroupKey, len(keys))
		rest := idx
		for i := len(keys) - 1; i >= 0; i-- {
			n := len(domains[i].values)
			key[i] = domains[i].values[rest%n]
			rest /= n
		}

		values := make([]float64, len(measures))
		for m, measure := range measures {
			var data []float64
			if samples[idx] != nil {
				data = samples[idx][m]
			}
			values[m] = reduce(measure, counts[idx], data)
		}
		groups[idx] = Group{Key: key, Count: counts[idx], Values: values}
	}
	return groups
}

// AggregateBy is Aggregate over a single key field
func AggregateBy(records []dataset.Record, field string, measures ...Measure) []Group {
	return Aggregate(records, []KeySpec{{Field: field}}, measures...)
}

// Reduce applies the measures to all records as a single unkeyed group
func Reduce(records []dataset.Record, measures ...Measure) Group {
	values := make([]float64, len(measures))
	for m, measure := range measures {
		var data []float64
		if measure.kind != measureCount {
			for _, r := range records {
				if n, ok := r.Number(measure.Field); ok {
					data = append(data, n)
				}
			}
		}
		values[m] = reduce(measure, len(records), data)
	}
	return Group{Key: GroupKey{}, Count: len(records), Values: values}
}

func reduce(m Measure, count int, data []float64) float64 {
	switch m.kind {
	case measureCount:
		return float64(count)
	case measureSum:
		if len(data) == 0 {
			return 0
		}
		sum, err := stats.Sum(data)
		if err != nil {
			return 0
		}
		return sum
	case measureMean:
		if len(data) == 0 {
			return 0
		}
		mean, err := stats.Mean(data)
		if err != nil {
			return 0
		}
		return mean
	}
	return 0
}

type levelDomain struct {
	values []string
	index  map[string]int
}

func newLevelDomain(levels []string) *levelDomain {
	d := &levelDomain{index: make(map[string]int, len(levels))}
	for _, level := range levels {
		d.observe(level)
	}
	return d
}

func (d *levelDomain) observe(value string) {
	if _, ok := d.index[value]; ok {
		return
	}
	d.index[value] = len(d.values)
	d.values = append(d.values, value)
}
