package charts

import (
	"fmt"
	"math"
	"sort"

	"covidash/domain/core"
	"covidash/domain/dataset"
	"covidash/internal/analysis/summary"
	"covidash/internal/datasets"
	"covidash/internal/pipeline"
)

// TrendSteps is the number of points sampled along a fitted trend line
const TrendSteps = 50

// excludedContinents never appear as their own pie slice
var excludedContinents = []string{"", "Other", "Oceania", "Australia/Oceania"}

func globalCharts() []Definition {
	g := datasets.Global
	return []Definition{
		{
			ID: ContinentPie, Title: "Share by continent", Kind: KindPie, Dataset: g,
			Metrics: []string{datasets.FieldTotalDeaths, datasets.FieldTotalCases, datasets.FieldTotalRecovered, datasets.FieldPopulation},
			Build:   buildContinentPie,
		},
		{ID: WHORegionBar, Title: "Cases, deaths and recoveries by WHO region", Kind: KindGroupedBar, Dataset: g, Build: buildWHORegionBar},
		{ID: TestsPerMillion, Title: "Tests per million by country", Kind: KindSpike, Dataset: g, Filterable: true, Build: buildTestsPerMillion},
		{ID: TestsVsCases, Title: "Total tests vs total cases", Kind: KindScatter, Dataset: g, Filterable: true, Build: buildTestsVsCases},
		{ID: MortalityRecovery, Title: "Mortality vs recovery rate", Kind: KindScatter, Dataset: g, Filterable: true, Build: buildMortalityRecovery},
		{ID: PopulationCases, Title: "Population vs total cases", Kind: KindScatter, Dataset: g, Build: buildPopulationCases},
	}
}

func buildContinentPie(ds *dataset.Dataset, _ *dataset.Regions, filter Filter) (interface{}, string, error) {
	metric := filter.Metric
	records := pipeline.Filter(ds.Records, func(r dataset.Record) bool {
		return !contains(excludedContinents, r.Text(datasets.FieldContinent))
	})
	groups := pipeline.AggregateBy(records, datasets.FieldContinent, pipeline.Sum(metric))
	slices := toSlices(groups)

	insight := ""
	if top, ok := largestSlice(slices); ok {
		insight = fmt.Sprintf("%s accounts for %.1f%% of %s.", top.Label, top.Percent, metric)
	}
	return slices, insight, nil
}

func buildWHORegionBar(ds *dataset.Dataset, _ *dataset.Regions, _ Filter) (interface{}, string, error) {
	records := pipeline.Filter(ds.Records,
		pipeline.Present(datasets.FieldWHORegion),
		pipeline.Not(pipeline.Equals(datasets.FieldWHORegion, "Other")))
	groups := pipeline.AggregateBy(records, datasets.FieldWHORegion,
		pipeline.Sum(datasets.FieldTotalCases),
		pipeline.Sum(datasets.FieldTotalDeaths),
		pipeline.Sum(datasets.FieldTotalRecovered),
	)

	regions := make([]RegionTotals, len(groups))
	for i, g := range groups {
		regions[i] = RegionTotals{Region: g.Key[0], Cases: g.Value(0), Deaths: g.Value(1), Recovered: g.Value(2)}
	}
	sort.SliceStable(regions, func(i, j int) bool { return regions[i].Cases > regions[j].Cases })

	insight := ""
	if len(regions) > 0 {
		insight = fmt.Sprintf("%s reports the most cases (%.0f).", regions[0].Region, regions[0].Cases)
	}
	return regions, insight, nil
}

func buildTestsPerMillion(ds *dataset.Dataset, _ *dataset.Regions, filter Filter) (interface{}, string, error) {
	records := pipeline.Filter(ds.Records,
		pipeline.Present(datasets.FieldCountry),
		pipeline.Finite(datasets.FieldTestsPerMillion),
		pipeline.Selected(datasets.FieldContinent, filter.Continent))

	spikes := make([]CountryValue, len(records))
	for i, r := range records {
		v, _ := r.Number(datasets.FieldTestsPerMillion)
		spikes[i] = CountryValue{
			Country:   r.Text(datasets.FieldCountry),
			Continent: r.Text(datasets.FieldContinent),
			Value:     v,
		}
	}
	sort.SliceStable(spikes, func(i, j int) bool { return spikes[i].Value > spikes[j].Value })

	insight := ""
	if len(spikes) > 0 {
		insight = fmt.Sprintf("%s tests the most, with %.0f tests per million.", spikes[0].Country, spikes[0].Value)
	}
	return spikes, insight, nil
}

func buildTestsVsCases(ds *dataset.Dataset, _ *dataset.Regions, filter Filter) (interface{}, string, error) {
	records := pipeline.Filter(ds.Records,
		pipeline.Positive(datasets.FieldTotalTests),
		pipeline.Positive(datasets.FieldTotalCases),
		pipeline.Selected(datasets.FieldContinent, filter.Continent))

	scatter := Scatter{XField: datasets.FieldTotalTests, YField: datasets.FieldTotalCases}
	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i, r := range records {
		xs[i], _ = r.Number(datasets.FieldTotalTests)
		ys[i], _ = r.Number(datasets.FieldTotalCases)
		scatter.Points = append(scatter.Points, ScatterPoint{
			Label:     r.Text(datasets.FieldCountry),
			Continent: r.Text(datasets.FieldContinent),
			X:         xs[i],
			Y:         ys[i],
		})
	}

	reg, err := summary.LogLogFit(xs, ys)
	switch {
	case err == nil:
		lo, hi := minMax(xs)
		trend, trendErr := summary.TrendLine(reg, lo, hi, TrendSteps)
		if trendErr != nil {
			return nil, "", trendErr
		}
		scatter.Regression = &reg
		scatter.Trend = trend
	case core.IsStatisticalError(err):
		scatter.Omitted = err.Error()
	default:
		return nil, "", err
	}

	insight := ""
	if scatter.Regression != nil {
		insight = fmt.Sprintf("Cases grow as tests^%.2f across %d countries (R² %.2f).",
			reg.Slope, reg.N, reg.RSquared)
	}
	return scatter, insight, nil
}

func buildMortalityRecovery(ds *dataset.Dataset, _ *dataset.Regions, filter Filter) (interface{}, string, error) {
	records := pipeline.Filter(ds.Records,
		pipeline.Positive(datasets.FieldTotalCases),
		pipeline.NonNegative(datasets.FieldTotalDeaths),
		pipeline.NonNegative(datasets.FieldTotalRecovered),
		pipeline.Selected(datasets.FieldContinent, filter.Continent))

	cells := make([]RateCell, len(records))
	var mortality float64
	for i, r := range records {
		cases, _ := r.Number(datasets.FieldTotalCases)
		deaths, _ := r.Number(datasets.FieldTotalDeaths)
		recovered, _ := r.Number(datasets.FieldTotalRecovered)
		cells[i] = RateCell{
			Country:       r.Text(datasets.FieldCountry),
			Continent:     r.Text(datasets.FieldContinent),
			MortalityRate: deaths / cases,
			RecoveryRate:  recovered / cases,
		}
		mortality += cells[i].MortalityRate
	}

	insight := ""
	if len(cells) > 0 {
		insight = fmt.Sprintf("Average mortality rate is %.2f%% across %d countries.",
			mortality/float64(len(cells))*100, len(cells))
	}
	return cells, insight, nil
}

func buildPopulationCases(ds *dataset.Dataset, _ *dataset.Regions, _ Filter) (interface{}, string, error) {
	records := pipeline.Filter(ds.Records,
		pipeline.Present(datasets.FieldCountry),
		pipeline.Finite(datasets.FieldPopulation),
		pipeline.Finite(datasets.FieldTotalCases))

	scatter := Scatter{XField: datasets.FieldPopulation, YField: datasets.FieldTotalCases}
	for _, r := range records {
		pop, _ := r.Number(datasets.FieldPopulation)
		cases, _ := r.Number(datasets.FieldTotalCases)
		scatter.Points = append(scatter.Points, ScatterPoint{
			Label:     r.Text(datasets.FieldCountry),
			Continent: r.Text(datasets.FieldContinent),
			X:         pop,
			Y:         cases,
		})
	}
	return scatter, fmt.Sprintf("%d countries plotted.", len(scatter.Points)), nil
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
