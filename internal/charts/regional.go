package charts

import (
	"fmt"
	"sort"

	"covidash/domain/dataset"
	"covidash/internal/datasets"
	"covidash/internal/pipeline"
)

// NoShareBucket labels states with no share of the metric
const NoShareBucket = "none"

// shareBuckets are checked in order; the first lower bound met wins
var shareBuckets = []struct {
	min   float64
	label string
}{
	{10, ">=10%"},
	{4, ">=4%"},
	{2, ">=2%"},
}

func regionalCharts() []Definition {
	return []Definition{
		{
			ID: StateChoropleth, Title: "Share by Indian state", Kind: KindChoropleth, Dataset: datasets.Regional,
			Metrics: []string{datasets.FieldConfirmed, datasets.FieldActive, datasets.FieldDeaths},
			Build:   buildStateChoropleth,
		},
	}
}

// ShareBucket classifies a percentage share
func ShareBucket(share float64) string {
	for _, b := range shareBuckets {
		if share >= b.min {
			return b.label
		}
	}
	if share > 0 {
		return ">0%"
	}
	return NoShareBucket
}

func buildStateChoropleth(ds *dataset.Dataset, regions *dataset.Regions, filter Filter) (interface{}, string, error) {
	metric := filter.Metric
	records := pipeline.Filter(ds.Records,
		pipeline.Present(datasets.FieldState),
		pipeline.Finite(metric))

	out := Choropleth{Metric: metric}
	for i, r := range records {
		v, _ := r.Number(metric)
		out.Total += v
		if i == 0 || v < out.Min {
			out.Min = v
		}
		if i == 0 || v > out.Max {
			out.Max = v
		}
	}

	out.Regions = make([]ChoroplethRegion, 0, len(records))
	for _, r := range records {
		state := r.Text(datasets.FieldState)
		v, _ := r.Number(metric)
		region := ChoroplethRegion{State: state, Value: v}
		if out.Total > 0 {
			region.Share = v * 100 / out.Total
		}
		region.Bucket = ShareBucket(region.Share)
		if regions != nil {
			if feature, ok := regions.Lookup(state); ok {
				region.Feature = feature
			} else {
				out.Unmatched = append(out.Unmatched, state)
			}
		}
		out.Regions = append(out.Regions, region)
	}
	sort.SliceStable(out.Regions, func(i, j int) bool { return out.Regions[i].Value > out.Regions[j].Value })

	insight := ""
	if len(out.Regions) > 0 && out.Total > 0 {
		top := out.Regions[0]
		insight = fmt.Sprintf("%s holds %.1f%% of national %s.", top.State, top.Share, metric)
	}
	return out, insight, nil
}
