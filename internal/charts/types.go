package charts

import (
	"strings"

	"covidash/domain/core"
	"covidash/internal/analysis/summary"
	"covidash/internal/pipeline"
)

// Chart kinds tell the renderer which encoding the data expects
const (
	KindPie        = "pie"
	KindBar        = "bar"
	KindGroupedBar = "grouped-bar"
	KindHeatmap    = "heatmap"
	KindBoxPlot    = "boxplot"
	KindMatrix     = "matrix"
	KindScatter    = "scatter"
	KindSpike      = "spike"
	KindChoropleth = "choropleth"
)

// Filter is the caller-owned selection applied to a chart
type Filter struct {
	Continent string `json:"continent,omitempty"`
	Metric    string `json:"metric,omitempty"`
}

// Normalize trims the filter and folds "All" to the empty selection
func (f Filter) Normalize() Filter {
	out := Filter{
		Continent: strings.TrimSpace(f.Continent),
		Metric:    strings.TrimSpace(f.Metric),
	}
	if pipeline.IsAll(out.Continent) {
		out.Continent = ""
	}
	return out
}

// Chart is the renderer-facing result of one builder
type Chart struct {
	ID             core.ChartID     `json:"id"`
	Title          string           `json:"title"`
	Kind           string           `json:"kind"`
	Dataset        core.DatasetName `json:"dataset"`
	DatasetVersion core.ID          `json:"dataset_version"`
	Filter         Filter           `json:"filter"`
	Data           interface{}      `json:"data"`
	Insight        string           `json:"insight,omitempty"`
}

// Slice is one pie wedge
type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// Bar is one labelled value
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// SectorStressCell is one bar of the sector by stress chart
type SectorStressCell struct {
	Sector           string  `json:"sector"`
	Stress           string  `json:"stress"`
	Count            int     `json:"count"`
	MeanProductivity float64 `json:"mean_productivity"`
	MeanHours        float64 `json:"mean_hours"`
	HealthIssueRate  float64 `json:"health_issue_rate"`
}

// HeatCell is one cell of a heatmap
type HeatCell struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Count int    `json:"count"`
}

// Heatmap holds the axes and cells of a count heatmap
type Heatmap struct {
	X     []string   `json:"x"`
	Y     []string   `json:"y"`
	Cells []HeatCell `json:"cells"`
}

// BoxGroup is the box plot summary of one group
type BoxGroup struct {
	Group string `json:"group"`
	summary.BoxStats
}

// Matrix is a correlation matrix over named fields
type Matrix struct {
	Fields []string                  `json:"fields"`
	Rows   int                       `json:"rows"`
	Cells  []summary.CorrelationCell `json:"cells"`
}

// RegionTotals is one WHO region bar group
type RegionTotals struct {
	Region    string  `json:"region"`
	Cases     float64 `json:"cases"`
	Deaths    float64 `json:"deaths"`
	Recovered float64 `json:"recovered"`
}

// CountryValue is one spike of a per-country chart
type CountryValue struct {
	Country   string  `json:"country"`
	Continent string  `json:"continent"`
	Value     float64 `json:"value"`
}

// ScatterPoint is one labelled point
type ScatterPoint struct {
	Label     string  `json:"label"`
	Continent string  `json:"continent,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// Scatter holds points with an optional fitted trend
type Scatter struct {
	XField     string              `json:"x_field"`
	YField     string              `json:"y_field"`
	Points     []ScatterPoint      `json:"points"`
	Regression *summary.Regression `json:"regression,omitempty"`
	Trend      []summary.Point     `json:"trend,omitempty"`
	// Omitted explains a missing regression
	Omitted string `json:"omitted,omitempty"`
}

// RateCell is one country of the mortality vs recovery scatter
type RateCell struct {
	Country       string  `json:"country"`
	Continent     string  `json:"continent"`
	MortalityRate float64 `json:"mortality_rate"`
	RecoveryRate  float64 `json:"recovery_rate"`
}

// ChoroplethRegion is one state joined to its map feature
type ChoroplethRegion struct {
	State   string  `json:"state"`
	Feature string  `json:"feature,omitempty"`
	Value   float64 `json:"value"`
	Share   float64 `json:"share"`
	Bucket  string  `json:"bucket"`
}

// Choropleth holds per-state shares of a metric
type Choropleth struct {
	Metric    string             `json:"metric"`
	Total     float64            `json:"total"`
	Min       float64            `json:"min"`
	Max       float64            `json:"max"`
	Regions   []ChoroplethRegion `json:"regions"`
	Unmatched []string           `json:"unmatched,omitempty"`
}
