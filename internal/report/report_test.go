package report

import (
	"errors"
	"testing"
	"time"

	"covidash/domain/core"
	"covidash/domain/dataset"
	"covidash/internal/charts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func sampleReport() *Report {
	return &Report{
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Datasets: []dataset.Summary{
			{
				Name: "professionals", Status: dataset.StatusReady, Records: 12345,
				Stats: dataset.IngestionStats{RowsRead: 12400, RowsKept: 12345, RowsDropped: 55},
			},
			{Name: "regional", Status: dataset.StatusFailed, Error: "open a|b: no such file"},
		},
		Charts: []*charts.Chart{
			{ID: charts.StressPie, Title: "Stress level distribution", Dataset: "professionals", Insight: "High stress is the most common level at 40.0% of 12345 professionals."},
			{ID: charts.SectorHours, Title: "Average hours worked by sector", Dataset: "professionals"},
			{ID: charts.TestsPerMillion, Title: "Tests per million by country", Dataset: "global", Insight: "China tests the most, with 123456 tests per million."},
		},
		Failures: map[core.ChartID]error{
			charts.StateChoropleth: errors.New("dataset not loaded"),
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := NewRenderer(language.English).Markdown(sampleReport())

	assert.Contains(t, md, "# "+Title)
	assert.Contains(t, md, "2026-03-01T12:00:00Z")
	assert.Contains(t, md, "| professionals | ready | 12,345 | 12,400 | 55 | 0 |")
	assert.Contains(t, md, `failed (open a\|b: no such file)`)
	assert.Contains(t, md, "## Professionals\n\n### Stress level distribution")
	assert.Contains(t, md, "40.0% of 12,345 professionals.")
	assert.Contains(t, md, "No insight available")
	assert.Contains(t, md, "## Global")
	assert.Contains(t, md, "with 123,456 tests per million.")
	assert.Contains(t, md, "- `state-choropleth`: dataset not loaded")
}

func TestGroupNumbers(t *testing.T) {
	r := NewRenderer(language.English)
	tests := []struct {
		in   string
		want string
	}{
		{"short 1234 stays", "short 1234 stays"},
		{"total (1234567).", "total (1,234,567)."},
		{"rate 12.50% holds", "rate 12.50% holds"},
		{"mixed a1234567 skipped", "mixed a1234567 skipped"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			md := r.Markdown(&Report{Charts: []*charts.Chart{{Title: "x", Dataset: "d", Insight: tt.in}}})
			assert.Contains(t, md, tt.want)
		})
	}
}

func TestHTML(t *testing.T) {
	page, err := NewRenderer(language.English).HTML(sampleReport())
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "<title>"+Title+"</title>")
	assert.Contains(t, html, Title+"</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<code>state-choropleth</code>")
	assert.Contains(t, html, "</html>")
}
