package charts

import (
	"fmt"
	"math"
	"sort"

	"covidash/domain/dataset"
	"covidash/internal/analysis/summary"
	"covidash/internal/datasets"
	"covidash/internal/pipeline"
)

// HoursThresholds are the workday-length bucket edges of the heatmap
var HoursThresholds = []float64{4, 6, 8, 10, 12}

func professionalCharts() []Definition {
	p := datasets.Professionals
	return []Definition{
		{ID: StressPie, Title: "Stress level distribution", Kind: KindPie, Dataset: p, Build: buildStressPie},
		{ID: SectorStress, Title: "Stress level by sector", Kind: KindGroupedBar, Dataset: p, Build: buildSectorStress},
		{ID: SectorHours, Title: "Average hours worked by sector", Kind: KindBar, Dataset: p, Build: buildSectorHours},
		{ID: HoursStressHeatmap, Title: "Hours worked vs stress level", Kind: KindHeatmap, Dataset: p, Build: buildHoursStressHeatmap},
		{ID: MeetingsProductivity, Title: "Meetings per day vs productivity change", Kind: KindBar, Dataset: p, Build: buildMeetingsProductivity},
		{ID: HoursBoxPlot, Title: "Hours worked per day by sector", Kind: KindBoxPlot, Dataset: p, Build: buildHoursBoxPlot},
		{ID: Correlation, Title: "Correlation of numeric survey fields", Kind: KindMatrix, Dataset: p, Build: buildCorrelation},
	}
}

func buildStressPie(ds *dataset.Dataset, _ *dataset.Regions, _ Filter) (interface{}, string, error) {
	groups := pipeline.Aggregate(ds.Records, []pipeline.KeySpec{pipeline.Key(datasets.FieldStress, datasets.StressLevels...)}, pipeline.Count())
	slices := toSlices(groups)

	insight := ""
	if top, ok := largestSlice(slices); ok {
		insight = fmt.Sprintf("%s stress is the most common level at %.1f%% of %d professionals.",
			top.Label, top.Percent, len(ds.Records))
	}
	return slices, insight, nil
}

func buildSectorStress(ds *dataset.Dataset, _ *dataset.Regions, _ Filter) (interface{}, string, error) {
	groups := pipeline.Aggregate(ds.Records,
		[]pipeline.KeySpec{
			pipeline.Key(datasets.FieldSector),
			pipeline.Key(datasets.FieldStress, datasets.StressLevels...),
		},
		pipeline.Mean(datasets.FieldProductivity),
		pipeline.Mean(datasets.FieldHours),
		pipeline.Mean(datasets.FieldHealthIssue),
	)

	cells := make([]SectorStressCell, len(groups))
	var worst SectorStressCell
	for i, g := range groups {
		cells[i] = SectorStressCell{
			Sector:           g.Key[0],
			Stress:           g.Key[1],
			Count:            g.Count,
			MeanProductivity: g.Value(0),
			MeanHours:        g.Value(1),
			HealthIssueRate:  g.Value(2),
		}
		if g.Key[1] == "High" && g.Count > worst.Count {
			worst = cells[i]
		}
	}

	insight := ""
	if worst.Count > 0 {
		insight = fmt.Sprintf("%s has the most high-stress professionals (%d).", worst.Sector, worst.Count)
	}
	return cells, insight, nil
}

func buildSectorHours(ds *dataset.Dataset, _ *dataset.Regions, _ Filter) (interface{}, string, error) {
	groups := pipeline.AggregateBy(ds.Records, datasets.FieldSector, pipeline.Mean(datasets.FieldHours))
	bars := make([]Bar, len(groups))
	for i, g := range groups {
		bars[i] = Bar{Label: g.Key[0], Value: g.Value(0), Count: g.Count}
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })

	insight := ""
	if len(bars) > 0 {
		insight = fmt.Sprintf("%s works the longest days, averaging %.2f hours.", bars[0].Label, bars[0].Value)
	}
	return bars, insight, nil
}

func buildHoursStressHeatmap(ds *dataset.Dataset, _ *dataset.Regions, _ Filter) (interface{}, string, error) {
	binner, err := pipeline.NewThresholdBinner(HoursThresholds, true)
	if err != nil {
		return nil, "", err
	}
	binned := binner.Bin(ds.Records, datasets.FieldHours)

	heat := Heatmap{Y: datasets.StressLevels}
	totals := make(map[string]int, len(datasets.StressLevels))
	for i, bin := range binned.Bins {
		heat.X = append(heat.X, bin.Label)
		groups := pipeline.Aggregate(binned.Members[i],
			[]pipeline.KeySpec{pipeline.Key(datasets.FieldStress, datasets.StressLevels...)},
			pipeline.Count())
		for _, g := range groups {
			if !contains(datasets.StressLevels, g.Key[0]) {
				continue
			}
			heat.Cells = append(heat.Cells, HeatCell{X: bin.Label, Y: g.Key[0], Count: g.Count})
			totals[g.Key[0]] += g.Count
		}
	}

	// ties go to the later level
	dominant, best := "", -1
	for _, level := range datasets.StressLevels {
		if totals[level] >= best {
			dominant, best = level, totals[level]
		}
	}
	insight := ""
	if best > 0 {
		insight = fmt.Sprintf("%s stress dominates across workday lengths (%d professionals).", dominant, best)
	}
	return heat, insight, nil
}

func buildMeetingsProductivity(ds *dataset.Dataset, _ *dataset.Regions, _ Filter) (interface{}, string, error) {
	binner, err := pipeline.NewWidthBinner(1)
	if err != nil {
		return nil, "", err
	}
	binned := binner.WithUnknown(pipeline.UnknownKey).Bin(ds.Records, datasets.FieldMeetings)

	var bars []Bar
	for i, bin := range binned.Bins {
		members := pipeline.Filter(binned.Members[i], pipeline.Finite(datasets.FieldProductivity))
		if len(members) == 0 {
			continue
		}
		g := pipeline.Reduce(members, pipeline.Mean(datasets.FieldProductivity))
		bars = append(bars, Bar{Label: bin.Label, Value: g.Value(0), Count: g.Count})
	}

	insight := ""
	if len(bars) >= 2 {
		first, last := bars[0], bars[len(bars)-1]
		direction := "rises"
		if last.Value < first.Value {
			direction = "falls"
		}
		insight = fmt.Sprintf("Mean productivity change %s from %.2f at %s meetings to %.2f at %s meetings.",
			direction, first.Value, first.Label, last.Value, last.Label)
	}
	return bars, insight, nil
}

func buildHoursBoxPlot(ds *dataset.Dataset, _ *dataset.Regions, _ Filter) (interface{}, string, error) {
	var order []string
	values := make(map[string][]float64)
	for _, r := range ds.Records {
		hours, ok := r.Number(datasets.FieldHours)
		if !ok {
			continue
		}
		sector := pipeline.KeyValue(r, datasets.FieldSector)
		if _, seen := values[sector]; !seen {
			order = append(order, sector)
		}
		values[sector] = append(values[sector], hours)
	}

	boxes := make([]BoxGroup, 0, len(order))
	widest := BoxGroup{}
	for _, sector := range order {
		box, err := summary.Box(values[sector])
		if err != nil {
			continue
		}
		group := BoxGroup{Group: sector, BoxStats: box}
		boxes = append(boxes, group)
		if group.IQR() > widest.IQR() || widest.Group == "" {
			widest = group
		}
	}

	insight := ""
	if widest.Group != "" {
		insight = fmt.Sprintf("%s has the widest spread of hours (IQR %.2f, median %.2f).",
			widest.Group, widest.IQR(), widest.Median)
	}
	return boxes, insight, nil
}

func buildCorrelation(ds *dataset.Dataset, _ *dataset.Regions, _ Filter) (interface{}, string, error) {
	fields := ds.NumericColumns
	if len(fields) == 0 {
		fields = ds.Schema.NumericFields()
	}
	matrix := Matrix{Fields: fields}
	if len(fields) == 0 {
		return matrix, "", nil
	}

	// listwise deletion: only rows with every field present
	columns := make([][]float64, len(fields))
	for _, r := range ds.Records {
		row := make([]float64, len(fields))
		complete := true
		for i, f := range fields {
			v, ok := r.Number(f)
			if !ok {
				complete = false
				break
			}
			row[i] = v
		}
		if !complete {
			continue
		}
		for i, v := range row {
			columns[i] = append(columns[i], v)
		}
	}
	for i := range columns {
		if columns[i] == nil {
			columns[i] = []float64{}
		}
	}

	cells, err := summary.CorrelationMatrix(fields, columns)
	if err != nil {
		return nil, "", err
	}
	matrix.Rows = len(columns[0])
	matrix.Cells = cells

	insight := ""
	var strongest *summary.CorrelationCell
	for i := range cells {
		c := &cells[i]
		if c.X >= c.Y || c.Value == nil {
			continue
		}
		if strongest == nil || math.Abs(*c.Value) > math.Abs(*strongest.Value) {
			strongest = c
		}
	}
	if strongest != nil {
		insight = fmt.Sprintf("The strongest relationship is %s vs %s (r = %.2f).",
			strongest.X, strongest.Y, *strongest.Value)
	}
	return matrix, insight, nil
}

func toSlices(groups []pipeline.Group) []Slice {
	var total float64
	for _, g := range groups {
		total += g.Value(0)
	}
	slices := make([]Slice, len(groups))
	for i, g := range groups {
		slices[i] = Slice{Label: g.Key[0], Value: g.Value(0)}
		if total > 0 {
			slices[i].Percent = g.Value(0) * 100 / total
		}
	}
	return slices
}

func largestSlice(slices []Slice) (Slice, bool) {
	var top Slice
	found := false
	for _, s := range slices {
		if s.Value > 0 && (!found || s.Value > top.Value) {
			top, found = s, true
		}
	}
	return top, found
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
