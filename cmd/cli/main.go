package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"covidash/internal"
	"covidash/internal/charts"
	"covidash/internal/config"
	"covidash/internal/container"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "covidash",
		Short: "COVID-19 dashboard ingestion and chart CLI",
		Long: `Load the configured COVID-19 datasets and print dataset status, chart
records or the insights report.

Dataset paths come from the environment (COVIDASH_PROFESSIONALS_FILE,
COVIDASH_GLOBAL_FILE, COVIDASH_REGIONAL_FILE, COVIDASH_REGIONS_GEOJSON) or a
YAML catalog named by COVIDASH_CATALOG_FILE.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newDatasetsCmd(),
		newChartsCmd(),
		newChartCmd(),
		newReportCmd(),
	)
	return rootCmd
}

// loadContainer builds the application and loads every dataset
func loadContainer(cmd *cobra.Command) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// logs go to stderr so stdout stays machine-readable
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	c, err := container.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if _, err := c.Dashboard.Reload(cmd.Context()); err != nil {
		return nil, err
	}
	return c, nil
}

func newDatasetsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Load every dataset and print its status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd)
			if err != nil {
				return err
			}
			summaries := c.Dashboard.Datasets()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATASET\tSTATUS\tRECORDS\tREAD\tDROPPED\tIMPUTED\tSOURCE\tERROR")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
					s.Name, s.Status, s.Records, s.Stats.RowsRead, s.Stats.RowsDropped, s.Stats.RowsImputed, s.Source, s.Error)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print summaries as JSON")
	return cmd
}

func newChartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "List the available charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATASET\tKIND\tMETRICS\tTITLE")
			for _, d := range charts.DefaultRegistry().List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n", d.ID, d.Dataset, d.Kind, d.Metrics, d.Title)
			}
			return w.Flush()
		},
	}
}

func newChartCmd() *cobra.Command {
	var filter charts.Filter

	cmd := &cobra.Command{
		Use:   "chart [chart-id]",
		Short: "Build one chart and print its records as JSON",
		Long: `Build one chart from the freshly loaded datasets.

Example: covidash chart tests-vs-cases --continent Asia
         covidash chart state-choropleth --metric Deaths`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd)
			if err != nil {
				return err
			}
			chart, err := c.Dashboard.Chart(args[0], filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), chart)
		},
	}

	cmd.Flags().StringVar(&filter.Continent, "continent", "", "Continent filter (All for no restriction)")
	cmd.Flags().StringVar(&filter.Metric, "metric", "", "Metric for charts that offer a choice")
	return cmd
}

func newReportCmd() *cobra.Command {
	var asHTML bool
	var continent string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the insights report as Markdown or HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd)
			if err != nil {
				return err
			}
			filter := charts.Filter{Continent: continent}
			if !asHTML {
				_, err := io.WriteString(cmd.OutOrStdout(), c.Dashboard.ReportMarkdown(filter))
				return err
			}
			page, err := c.Dashboard.ReportHTML(filter)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(page)
			return err
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render HTML instead of Markdown")
	cmd.Flags().StringVar(&continent, "continent", "", "Continent filter for filterable charts")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
