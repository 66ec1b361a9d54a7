package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestEnv(t *testing.T) {
	testdata := filepath.Join("..", "..", "app", "testdata")
	t.Setenv("COVIDASH_PROFESSIONALS_FILE", filepath.Join(testdata, "professionals.csv"))
	t.Setenv("COVIDASH_GLOBAL_FILE", filepath.Join(testdata, "worldometer_data.csv"))
	t.Setenv("COVIDASH_REGIONAL_FILE", filepath.Join(testdata, "state_data.csv"))
	t.Setenv("COVIDASH_REGIONS_GEOJSON", filepath.Join(testdata, "india_state.geojson"))
	t.Setenv("COVIDASH_LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDatasetsCmd(t *testing.T) {
	setTestEnv(t)

	out, err := run(t, "datasets", "--json")
	require.NoError(t, err)

	var summaries []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 3)
	for _, s := range summaries {
		assert.Equal(t, "ready", s["status"])
	}

	out, err = run(t, "datasets")
	require.NoError(t, err)
	assert.Contains(t, out, "DATASET")
	assert.Contains(t, out, "professionals")
}

func TestChartCmd(t *testing.T) {
	setTestEnv(t)

	out, err := run(t, "chart", "state-choropleth", "--metric", "Active")
	require.NoError(t, err)

	var chart map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &chart))
	assert.Equal(t, "state-choropleth", chart["id"])
	assert.Equal(t, "Active", chart["filter"].(map[string]interface{})["metric"])

	_, err = run(t, "chart", "no-such-chart")
	assert.Error(t, err)

	_, err = run(t, "chart")
	assert.Error(t, err)
}

func TestChartsCmd(t *testing.T) {
	out, err := run(t, "charts")
	require.NoError(t, err)
	assert.Contains(t, out, "tests-vs-cases")
	assert.Contains(t, out, "state-choropleth")
}

func TestReportCmd(t *testing.T) {
	setTestEnv(t)

	out, err := run(t, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "# COVID-19 Dashboard Insights")

	out, err = run(t, "report", "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "</html>")
}
