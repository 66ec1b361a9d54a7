package charts

import (
	"fmt"
	"sort"
	"strings"

	"covidash/domain/core"
	"covidash/domain/dataset"
	"covidash/internal/datasets"
)

// Chart identifiers
const (
	StressPie            core.ChartID = "stress-pie"
	SectorStress         core.ChartID = "sector-stress"
	SectorHours          core.ChartID = "sector-hours"
	HoursStressHeatmap   core.ChartID = "hours-stress-heatmap"
	MeetingsProductivity core.ChartID = "meetings-productivity"
	HoursBoxPlot         core.ChartID = "hours-boxplot"
	Correlation          core.ChartID = "correlation"

	ContinentPie      core.ChartID = "continent-pie"
	WHORegionBar      core.ChartID = "who-region-bar"
	TestsPerMillion   core.ChartID = "tests-per-million"
	TestsVsCases      core.ChartID = "tests-vs-cases"
	MortalityRecovery core.ChartID = "mortality-recovery"
	PopulationCases   core.ChartID = "population-cases"

	StateChoropleth core.ChartID = "state-choropleth"
)

// BuildFunc turns a loaded dataset into chart data and an insight line.
// It must not modify ds.
type BuildFunc func(ds *dataset.Dataset, regions *dataset.Regions, filter Filter) (interface{}, string, error)

// Definition describes one chart and how to build it
type Definition struct {
	ID      core.ChartID     `json:"id"`
	Title   string           `json:"title"`
	Kind    string           `json:"kind"`
	Dataset core.DatasetName `json:"dataset"`
	// Metrics lists the selectable metrics; the first is the default
	Metrics []string `json:"metrics,omitempty"`
	// Filterable marks charts that honour the continent filter
	Filterable bool      `json:"filterable,omitempty"`
	Build      BuildFunc `json:"-"`
}

// ResolveMetric validates a requested metric against the definition
func (d Definition) ResolveMetric(metric string) (string, error) {
	if len(d.Metrics) == 0 {
		if metric != "" {
			return "", fmt.Errorf("%w: chart %s takes no metric, got %q", core.ErrUnknownMetric, d.ID, metric)
		}
		return "", nil
	}
	if metric == "" {
		return d.Metrics[0], nil
	}
	for _, m := range d.Metrics {
		if strings.EqualFold(m, metric) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q for chart %s (want one of %s)",
		core.ErrUnknownMetric, metric, d.ID, strings.Join(d.Metrics, ", "))
}

// Registry maps chart IDs to their definitions
type Registry struct {
	defs map[core.ChartID]Definition
}

// NewRegistry returns a registry holding the given definitions
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[core.ChartID]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.ID] = d
	}
	return r
}

// DefaultRegistry returns every built-in chart
func DefaultRegistry() *Registry {
	var defs []Definition
	defs = append(defs, professionalCharts()...)
	defs = append(defs, globalCharts()...)
	defs = append(defs, regionalCharts()...)
	return NewRegistry(defs...)
}

// Get returns the definition of a chart
func (r *Registry) Get(id core.ChartID) (Definition, error) {
	def, ok := r.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", core.ErrUnknownChart, id)
	}
	return def, nil
}

// List returns all definitions grouped by dataset, then by ID
func (r *Registry) List() []Definition {
	order := map[core.DatasetName]int{
		datasets.Professionals: 0,
		datasets.Global:        1,
		datasets.Regional:      2,
	}
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := rank(order, out[i].Dataset), rank(order, out[j].Dataset)
		if oi != oj {
			return oi < oj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func rank(order map[core.DatasetName]int, name core.DatasetName) int {
	if r, ok := order[name]; ok {
		return r
	}
	return len(order)
}
