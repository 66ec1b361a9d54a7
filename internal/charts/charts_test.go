package charts

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"covidash/domain/core"
	"covidash/domain/dataset"
	"covidash/internal/analysis/summary"
	"covidash/internal/datasets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(kv ...interface{}) dataset.Record {
	r := make(dataset.Record)
	for i := 0; i+1 < len(kv); i += 2 {
		field := kv[i].(string)
		switch v := kv[i+1].(type) {
		case string:
			r[field] = dataset.NewStringValue(v)
		case float64:
			r[field] = dataset.NewNumericValue(v)
		case int:
			r[field] = dataset.NewNumericValue(float64(v))
		case nil:
			r[field] = dataset.NewMissingValue()
		}
	}
	return r
}

func ds(name core.DatasetName, records ...dataset.Record) *dataset.Dataset {
	return &dataset.Dataset{Name: name, Version: core.NewID(), Records: records}
}

type fakeSource struct {
	mu       sync.Mutex
	datasets map[core.DatasetName]*dataset.Dataset
	regions  *dataset.Regions
}

func newFakeSource(sets ...*dataset.Dataset) *fakeSource {
	f := &fakeSource{datasets: make(map[core.DatasetName]*dataset.Dataset)}
	for _, d := range sets {
		f.datasets[d.Name] = d
	}
	return f
}

func (f *fakeSource) set(d *dataset.Dataset) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.datasets[d.Name] = d
}

func (f *fakeSource) Dataset(name core.DatasetName) (*dataset.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrDatasetNotReady, name)
	}
	return d, nil
}

func (f *fakeSource) Regions() *dataset.Regions { return f.regions }

type chartCall struct {
	chart  core.ChartID
	cached bool
	err    error
}

type chartRecorder struct {
	mu    sync.Mutex
	calls []chartCall
}

func (r *chartRecorder) RecordChart(chart core.ChartID, cached bool, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, chartCall{chart: chart, cached: cached, err: err})
}

func build(t *testing.T, id core.ChartID, d *dataset.Dataset, regions *dataset.Regions, filter Filter) (interface{}, string) {
	t.Helper()
	def, err := DefaultRegistry().Get(id)
	require.NoError(t, err)
	filter.Metric, err = def.ResolveMetric(filter.Metric)
	require.NoError(t, err)
	data, insight, err := def.Build(d, regions, filter)
	require.NoError(t, err)
	return data, insight
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()
	defs := reg.List()
	require.Len(t, defs, 14)
	assert.Equal(t, datasets.Professionals, defs[0].Dataset)
	assert.Equal(t, datasets.Regional, defs[len(defs)-1].Dataset)

	_, err := reg.Get("nope")
	assert.ErrorIs(t, err, core.ErrUnknownChart)
	assert.True(t, core.IsNotFoundError(err))
}

func TestResolveMetric(t *testing.T) {
	pie, err := DefaultRegistry().Get(ContinentPie)
	require.NoError(t, err)
	stress, err := DefaultRegistry().Get(StressPie)
	require.NoError(t, err)

	tests := []struct {
		name    string
		def     Definition
		metric  string
		want    string
		wantErr bool
	}{
		{"default is first", pie, "", datasets.FieldTotalDeaths, false},
		{"case insensitive", pie, "totalcases", datasets.FieldTotalCases, false},
		{"unknown", pie, "Vaccinations", "", true},
		{"no metrics, none given", stress, "", "", false},
		{"no metrics, one given", stress, "TotalCases", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.def.ResolveMetric(tt.metric)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrUnknownMetric)
				assert.True(t, core.IsInputError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStressPie(t *testing.T) {
	d := ds(datasets.Professionals,
		rec(datasets.FieldStress, "Low"),
		rec(datasets.FieldStress, "High"),
		rec(datasets.FieldStress, "High"),
		rec(datasets.FieldStress, "High"),
	)
	data, insight := build(t, StressPie, d, nil, Filter{})

	slices := data.([]Slice)
	require.Len(t, slices, 3)
	assert.Equal(t, Slice{Label: "Low", Value: 1, Percent: 25}, slices[0])
	assert.Equal(t, Slice{Label: "Medium", Value: 0, Percent: 0}, slices[1])
	assert.Equal(t, Slice{Label: "High", Value: 3, Percent: 75}, slices[2])
	assert.Contains(t, insight, "High")
}

func TestSectorStress_CompleteGrid(t *testing.T) {
	d := ds(datasets.Professionals,
		rec(datasets.FieldSector, "IT", datasets.FieldStress, "Low", datasets.FieldProductivity, 10, datasets.FieldHours, 8, datasets.FieldHealthIssue, 1),
		rec(datasets.FieldSector, "IT", datasets.FieldStress, "Low", datasets.FieldProductivity, 20, datasets.FieldHours, 6, datasets.FieldHealthIssue, 0),
		rec(datasets.FieldSector, "IT", datasets.FieldStress, "High", datasets.FieldProductivity, -5, datasets.FieldHours, 11, datasets.FieldHealthIssue, 1),
		rec(datasets.FieldSector, "HR", datasets.FieldStress, "Low", datasets.FieldProductivity, 0, datasets.FieldHours, 7, datasets.FieldHealthIssue, 0),
	)
	data, insight := build(t, SectorStress, d, nil, Filter{})

	cells := data.([]SectorStressCell)
	require.Len(t, cells, 6)
	assert.Equal(t, SectorStressCell{Sector: "IT", Stress: "Low", Count: 2, MeanProductivity: 15, MeanHours: 7, HealthIssueRate: 0.5}, cells[0])
	assert.Equal(t, SectorStressCell{Sector: "HR", Stress: "High"}, cells[5])
	assert.Equal(t, "IT has the most high-stress professionals (1).", insight)
}

func TestSectorHours_SortedDescending(t *testing.T) {
	d := ds(datasets.Professionals,
		rec(datasets.FieldSector, "HR", datasets.FieldHours, 6),
		rec(datasets.FieldSector, "IT", datasets.FieldHours, 9),
		rec(datasets.FieldSector, "IT", datasets.FieldHours, 11),
	)
	data, _ := build(t, SectorHours, d, nil, Filter{})

	bars := data.([]Bar)
	require.Len(t, bars, 2)
	assert.Equal(t, Bar{Label: "IT", Value: 10, Count: 2}, bars[0])
	assert.Equal(t, Bar{Label: "HR", Value: 6, Count: 1}, bars[1])
}

func TestHoursStressHeatmap(t *testing.T) {
	d := ds(datasets.Professionals,
		rec(datasets.FieldHours, 3, datasets.FieldStress, "Low"),
		rec(datasets.FieldHours, 5, datasets.FieldStress, "Low"),
		rec(datasets.FieldHours, 7, datasets.FieldStress, "High"),
		rec(datasets.FieldHours, 13, datasets.FieldStress, "High"),
		rec(datasets.FieldHours, 9, datasets.FieldStress, "Other"),
	)
	data, insight := build(t, HoursStressHeatmap, d, nil, Filter{})

	heat := data.(Heatmap)
	assert.Equal(t, []string{"4-6", "6-8", "8-10", "10-12", "12+"}, heat.X)
	assert.Equal(t, datasets.StressLevels, heat.Y)
	require.Len(t, heat.Cells, 15)

	counts := make(map[string]int)
	for _, c := range heat.Cells {
		counts[c.X+"/"+c.Y] = c.Count
	}
	assert.Equal(t, 2, counts["4-6/Low"], "values below the first edge clamp into the first bin")
	assert.Equal(t, 1, counts["6-8/High"])
	assert.Equal(t, 1, counts["12+/High"], "values above the last edge land in the open top bin")
	assert.Equal(t, 0, counts["10-12/High"])
	assert.Equal(t, 0, counts["8-10/Medium"])

	// Low and High tie at 2; the later level wins
	assert.Contains(t, insight, "High stress dominates")
}

func TestMeetingsProductivity(t *testing.T) {
	d := ds(datasets.Professionals,
		rec(datasets.FieldMeetings, 0.5, datasets.FieldProductivity, 1),
		rec(datasets.FieldMeetings, 0.7, datasets.FieldProductivity, 3),
		rec(datasets.FieldMeetings, 1.2, datasets.FieldProductivity, nil),
		rec(datasets.FieldMeetings, 2.5, datasets.FieldProductivity, -1),
		rec(datasets.FieldMeetings, nil, datasets.FieldProductivity, 5),
	)
	data, insight := build(t, MeetingsProductivity, d, nil, Filter{})

	bars := data.([]Bar)
	require.Len(t, bars, 2)
	assert.Equal(t, Bar{Label: "0-1", Value: 2, Count: 2}, bars[0])
	assert.Equal(t, Bar{Label: "2-3", Value: -1, Count: 1}, bars[1])
	assert.Contains(t, insight, "falls")
}

func TestMeetingsProductivity_Outliers(t *testing.T) {
	d := ds(datasets.Professionals,
		rec(datasets.FieldMeetings, 0.5, datasets.FieldProductivity, 2),
		rec(datasets.FieldMeetings, 1e16, datasets.FieldProductivity, 4),
		rec(datasets.FieldMeetings, 5e7, datasets.FieldProductivity, -2),
	)

	def, err := DefaultRegistry().Get(MeetingsProductivity)
	require.NoError(t, err)

	type result struct {
		data interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, _, err := def.Build(d, nil, Filter{})
		done <- result{data, err}
	}()

	select {
	case res := <-done:
		require.NoError(t, res.err)
		bars := res.data.([]Bar)
		require.Len(t, bars, 3)
		assert.Equal(t, Bar{Label: "0-1", Value: 2, Count: 1}, bars[0])
		assert.Equal(t, Bar{Label: "50000000-50000001", Value: -2, Count: 1}, bars[1])
		assert.Equal(t, 4.0, bars[2].Value)
	case <-time.After(5 * time.Second):
		t.Fatal("meetings chart did not finish with outlier rows")
	}
}

func TestHoursBoxPlot(t *testing.T) {
	var records []dataset.Record
	for h := 1; h <= 8; h++ {
		records = append(records, rec(datasets.FieldSector, "IT", datasets.FieldHours, h))
	}
	records = append(records, rec(datasets.FieldSector, "HR", datasets.FieldHours, 7))
	data, insight := build(t, HoursBoxPlot, ds(datasets.Professionals, records...), nil, Filter{})

	boxes := data.([]BoxGroup)
	require.Len(t, boxes, 2)
	assert.Equal(t, "IT", boxes[0].Group)
	assert.Equal(t, summary.BoxStats{N: 8, Min: 1, Q1: 2.75, Median: 4.5, Q3: 6.25, Max: 8}, boxes[0].BoxStats)
	assert.Equal(t, summary.BoxStats{N: 1, Min: 7, Q1: 7, Median: 7, Q3: 7, Max: 7}, boxes[1].BoxStats)
	assert.Contains(t, insight, "IT")
}

func TestCorrelation_ListwiseDeletion(t *testing.T) {
	d := ds(datasets.Professionals,
		rec("A", 1, "B", 2),
		rec("A", 2, "B", 4),
		rec("A", 3, "B", 6),
		rec("A", 4, "B", nil),
	)
	d.NumericColumns = []string{"A", "B"}
	data, insight := build(t, Correlation, d, nil, Filter{})

	matrix := data.(Matrix)
	assert.Equal(t, []string{"A", "B"}, matrix.Fields)
	assert.Equal(t, 3, matrix.Rows)
	require.Len(t, matrix.Cells, 4)
	require.NotNil(t, matrix.Cells[1].Value)
	assert.InDelta(t, 1.0, *matrix.Cells[1].Value, 1e-9)
	assert.Contains(t, insight, "A vs B")
}

func TestCorrelation_NoCompleteRows(t *testing.T) {
	d := ds(datasets.Professionals, rec("A", 1, "B", nil))
	d.NumericColumns = []string{"A", "B"}
	data, insight := build(t, Correlation, d, nil, Filter{})

	matrix := data.(Matrix)
	assert.Equal(t, 0, matrix.Rows)
	for _, c := range matrix.Cells {
		assert.Nil(t, c.Value)
	}
	assert.Empty(t, insight)
}

func TestContinentPie_ExcludesOceaniaAndOther(t *testing.T) {
	d := ds(datasets.Global,
		rec(datasets.FieldContinent, "Asia", datasets.FieldTotalCases, 10),
		rec(datasets.FieldContinent, "Asia", datasets.FieldTotalCases, 30),
		rec(datasets.FieldContinent, "Europe", datasets.FieldTotalCases, 60),
		rec(datasets.FieldContinent, "Australia/Oceania", datasets.FieldTotalCases, 100),
		rec(datasets.FieldContinent, "Other", datasets.FieldTotalCases, 5),
	)
	data, insight := build(t, ContinentPie, d, nil, Filter{Metric: datasets.FieldTotalCases})

	slices := data.([]Slice)
	require.Len(t, slices, 2)
	assert.Equal(t, Slice{Label: "Asia", Value: 40, Percent: 40}, slices[0])
	assert.Equal(t, Slice{Label: "Europe", Value: 60, Percent: 60}, slices[1])
	assert.Equal(t, "Europe accounts for 60.0% of TotalCases.", insight)
}

func TestWHORegionBar(t *testing.T) {
	d := ds(datasets.Global,
		rec(datasets.FieldWHORegion, "Europe", datasets.FieldTotalCases, 10, datasets.FieldTotalDeaths, 1, datasets.FieldTotalRecovered, 5),
		rec(datasets.FieldWHORegion, "Americas", datasets.FieldTotalCases, 50, datasets.FieldTotalDeaths, 2, datasets.FieldTotalRecovered, nil),
		rec(datasets.FieldWHORegion, "Other", datasets.FieldTotalCases, 500),
	)
	data, _ := build(t, WHORegionBar, d, nil, Filter{})

	regions := data.([]RegionTotals)
	assert.Equal(t, []RegionTotals{
		{Region: "Americas", Cases: 50, Deaths: 2, Recovered: 0},
		{Region: "Europe", Cases: 10, Deaths: 1, Recovered: 5},
	}, regions)
}

func globalRows() *dataset.Dataset {
	row := func(country, continent string, tests, cases float64) dataset.Record {
		return rec(datasets.FieldCountry, country, datasets.FieldContinent, continent,
			datasets.FieldTotalTests, tests, datasets.FieldTotalCases, cases,
			datasets.FieldTestsPerMillion, tests/10)
	}
	return ds(datasets.Global,
		row("India", "Asia", 10, 20),
		row("Japan", "Asia", 100, 200),
		row("China", "Asia", 1000, 2000),
		row("France", "Europe", 50, 10),
		row("Nowhere", "Europe", 0, 10),
	)
}

func TestTestsPerMillion_ContinentFilter(t *testing.T) {
	data, insight := build(t, TestsPerMillion, globalRows(), nil, Filter{Continent: "Asia"})

	spikes := data.([]CountryValue)
	require.Len(t, spikes, 3)
	assert.Equal(t, CountryValue{Country: "China", Continent: "Asia", Value: 100}, spikes[0])
	assert.Contains(t, insight, "China")

	data, _ = build(t, TestsPerMillion, globalRows(), nil, Filter{})
	assert.Len(t, data.([]CountryValue), 5)
}

func TestTestsVsCases_Regression(t *testing.T) {
	data, insight := build(t, TestsVsCases, globalRows(), nil, Filter{Continent: "Asia"})

	scatter := data.(Scatter)
	require.Len(t, scatter.Points, 3)
	require.NotNil(t, scatter.Regression)
	assert.InDelta(t, 1.0, scatter.Regression.Slope, 1e-9)
	assert.InDelta(t, math.Log(2), scatter.Regression.Intercept, 1e-9)
	require.Len(t, scatter.Trend, TrendSteps)
	assert.InDelta(t, 10.0, scatter.Trend[0].X, 1e-9)
	assert.InDelta(t, 2000.0, scatter.Trend[TrendSteps-1].Y, 1e-6)
	assert.Empty(t, scatter.Omitted)
	assert.Contains(t, insight, "tests^1.00")
}

func TestTestsVsCases_DegenerateOmitsRegression(t *testing.T) {
	// France is the only European country with tests
	data, insight := build(t, TestsVsCases, globalRows(), nil, Filter{Continent: "Europe"})

	scatter := data.(Scatter)
	assert.Len(t, scatter.Points, 1)
	assert.Nil(t, scatter.Regression)
	assert.Nil(t, scatter.Trend)
	assert.NotEmpty(t, scatter.Omitted)
	assert.Empty(t, insight)

	data, _ = build(t, TestsVsCases, globalRows(), nil, Filter{Continent: "Antarctica"})
	assert.NotEmpty(t, data.(Scatter).Omitted)
}

func TestMortalityRecovery(t *testing.T) {
	d := ds(datasets.Global,
		rec(datasets.FieldCountry, "A", datasets.FieldTotalCases, 100, datasets.FieldTotalDeaths, 5, datasets.FieldTotalRecovered, 80),
		rec(datasets.FieldCountry, "B", datasets.FieldTotalCases, 0, datasets.FieldTotalDeaths, 0, datasets.FieldTotalRecovered, 0),
		rec(datasets.FieldCountry, "C", datasets.FieldTotalCases, 10, datasets.FieldTotalDeaths, nil, datasets.FieldTotalRecovered, 1),
	)
	data, insight := build(t, MortalityRecovery, d, nil, Filter{})

	cells := data.([]RateCell)
	require.Len(t, cells, 1)
	assert.InDelta(t, 0.05, cells[0].MortalityRate, 1e-12)
	assert.InDelta(t, 0.8, cells[0].RecoveryRate, 1e-12)
	assert.Equal(t, "Average mortality rate is 5.00% across 1 countries.", insight)
}

func TestPopulationCases(t *testing.T) {
	d := ds(datasets.Global,
		rec(datasets.FieldCountry, "A", datasets.FieldPopulation, 1000, datasets.FieldTotalCases, 10),
		rec(datasets.FieldCountry, "B", datasets.FieldPopulation, nil, datasets.FieldTotalCases, 10),
	)
	data, _ := build(t, PopulationCases, d, nil, Filter{})
	scatter := data.(Scatter)
	require.Len(t, scatter.Points, 1)
	assert.Equal(t, ScatterPoint{Label: "A", X: 1000, Y: 10}, scatter.Points[0])
}

func TestShareBucket(t *testing.T) {
	tests := []struct {
		share float64
		want  string
	}{
		{60, ">=10%"},
		{10, ">=10%"},
		{9.99, ">=4%"},
		{4, ">=4%"},
		{2, ">=2%"},
		{1.5, ">0%"},
		{0.001, ">0%"},
		{0, NoShareBucket},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.share), func(t *testing.T) {
			assert.Equal(t, tt.want, ShareBucket(tt.share))
		})
	}
}

func TestStateChoropleth(t *testing.T) {
	row := func(state string, confirmed, active float64) dataset.Record {
		return rec(datasets.FieldState, state, datasets.FieldConfirmed, confirmed, datasets.FieldActive, active)
	}
	d := ds(datasets.Regional,
		row("Kerala", 30, 3),
		row("Maharashtra", 60, 6),
		row("Goa", 9, 1),
		row("Sikkim", 1, 0),
		row("Ladakh", 0, 0),
	)
	regions := dataset.NewRegions([]string{"maharashtra", "KERALA", "Goa", "Sikkim"}, "fp")

	data, insight := build(t, StateChoropleth, d, regions, Filter{})
	out := data.(Choropleth)
	assert.Equal(t, datasets.FieldConfirmed, out.Metric)
	assert.Equal(t, 100.0, out.Total)
	assert.Equal(t, 0.0, out.Min)
	assert.Equal(t, 60.0, out.Max)
	assert.Equal(t, []string{"Ladakh"}, out.Unmatched)

	require.Len(t, out.Regions, 5)
	assert.Equal(t, ChoroplethRegion{State: "Maharashtra", Feature: "maharashtra", Value: 60, Share: 60, Bucket: ">=10%"}, out.Regions[0])
	assert.Equal(t, "KERALA", out.Regions[1].Feature)
	assert.Equal(t, ">=4%", out.Regions[2].Bucket)
	assert.Equal(t, ">0%", out.Regions[3].Bucket)
	assert.Equal(t, NoShareBucket, out.Regions[4].Bucket)
	assert.Equal(t, "Maharashtra holds 60.0% of national Confirmed.", insight)

	data, _ = build(t, StateChoropleth, d, nil, Filter{Metric: "active"})
	out = data.(Choropleth)
	assert.Equal(t, datasets.FieldActive, out.Metric)
	assert.Equal(t, 10.0, out.Total)
	assert.Empty(t, out.Unmatched)
}

func TestService_Memoization(t *testing.T) {
	source := newFakeSource(ds(datasets.Professionals, rec(datasets.FieldStress, "Low")))
	recorder := &chartRecorder{}
	cache := NewCache(0)
	svc := NewService(source, WithCache(cache), WithRecorder(recorder))

	first, err := svc.Build(StressPie, Filter{})
	require.NoError(t, err)
	second, err := svc.Build(StressPie, Filter{Continent: "All"})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())

	// a new dataset version is a cache miss
	source.set(ds(datasets.Professionals, rec(datasets.FieldStress, "High")))
	third, err := svc.Build(StressPie, Filter{})
	require.NoError(t, err)
	assert.NotEqual(t, first.DatasetVersion, third.DatasetVersion)
	assert.Equal(t, 2, cache.Len())

	require.Len(t, recorder.calls, 3)
	assert.False(t, recorder.calls[0].cached)
	assert.True(t, recorder.calls[1].cached)
	assert.False(t, recorder.calls[2].cached)
}

func TestService_WithoutCacheRebuilds(t *testing.T) {
	svc := NewService(newFakeSource(ds(datasets.Professionals, rec(datasets.FieldStress, "Low"))))

	first, err := svc.Build(StressPie, Filter{})
	require.NoError(t, err)
	second, err := svc.Build(StressPie, Filter{})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Data, second.Data)
}

func TestCache_ClearsWhenFull(t *testing.T) {
	cache := NewCache(2)
	for i := 0; i < 3; i++ {
		cache.put(cacheKey{chart: core.ChartID(fmt.Sprint(i))}, &Chart{})
	}
	assert.Equal(t, 1, cache.Len())
	_, ok := cache.get(cacheKey{chart: "2"})
	assert.True(t, ok)
}

func TestService_FilterNormalization(t *testing.T) {
	source := newFakeSource(
		ds(datasets.Professionals, rec(datasets.FieldStress, "Low")),
		globalRows(),
	)
	svc := NewService(source)

	chart, err := svc.Build(StressPie, Filter{Continent: "Asia"})
	require.NoError(t, err)
	assert.Equal(t, Filter{}, chart.Filter, "continent is ignored by charts that do not filter")

	chart, err = svc.Build(TestsPerMillion, Filter{Continent: " Asia "})
	require.NoError(t, err)
	assert.Equal(t, Filter{Continent: "Asia"}, chart.Filter)

	chart, err = svc.Build(ContinentPie, Filter{})
	require.NoError(t, err)
	assert.Equal(t, datasets.FieldTotalDeaths, chart.Filter.Metric)
	assert.Equal(t, KindPie, chart.Kind)
	assert.Equal(t, datasets.Global, chart.Dataset)
}

func TestService_Errors(t *testing.T) {
	recorder := &chartRecorder{}
	svc := NewService(newFakeSource(globalRows()), WithRecorder(recorder))

	_, err := svc.Build("missing-chart", Filter{})
	assert.ErrorIs(t, err, core.ErrUnknownChart)

	_, err = svc.Build(ContinentPie, Filter{Metric: "Vaccinations"})
	assert.ErrorIs(t, err, core.ErrUnknownMetric)

	_, err = svc.Build(StressPie, Filter{})
	assert.ErrorIs(t, err, core.ErrDatasetNotReady)

	// unknown IDs are not recorded
	require.Len(t, recorder.calls, 2)
	for _, call := range recorder.calls {
		assert.Error(t, call.err)
	}
}

func TestService_BuildAll(t *testing.T) {
	svc := NewService(newFakeSource(globalRows()))

	charts, failures := svc.BuildAll(Filter{Continent: "Asia"})
	assert.Len(t, charts, 6)
	assert.Len(t, failures, 8)
	for id, err := range failures {
		assert.ErrorIs(t, err, core.ErrDatasetNotReady, id)
	}
}
