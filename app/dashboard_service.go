package app

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"covidash/adapters/geojson"
	"covidash/domain/core"
	"covidash/domain/dataset"
	"covidash/internal"
	"covidash/internal/charts"
	"covidash/internal/config"
	"covidash/internal/datasets"
	"covidash/internal/errors"
	"covidash/internal/report"
	"covidash/ports"

	"golang.org/x/text/language"
)

// RegionSource names the GeoJSON file backing the choropleth join
type RegionSource struct {
	Path         string
	NameProperty string
}

// DashboardService coordinates dataset loading, chart building and reports
type DashboardService struct {
	loader      *datasets.Loader
	store       *datasets.Store
	charts      *charts.Service
	renderer    *report.Renderer
	readRegions ports.RegionReader
	sources     []datasets.Source
	regions     RegionSource
	logger      *internal.Logger

	// reloads are serialized; readers keep using the store meanwhile
	reloadMu sync.Mutex
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithRegionReader replaces the GeoJSON reader
func WithRegionReader(read ports.RegionReader) DashboardOption {
	return func(s *DashboardService) { s.readRegions = read }
}

// WithRegions sets the GeoJSON source; an empty path disables the join
func WithRegions(src RegionSource) DashboardOption {
	return func(s *DashboardService) { s.regions = src }
}

// WithDashboardLogger sets the service logger
func WithDashboardLogger(logger *internal.Logger) DashboardOption {
	return func(s *DashboardService) { s.logger = logger }
}

// WithRenderer sets the report renderer
func WithRenderer(renderer *report.Renderer) DashboardOption {
	return func(s *DashboardService) { s.renderer = renderer }
}

// NewDashboardService wires the service over an existing loader, store and chart service
func NewDashboardService(loader *datasets.Loader, store *datasets.Store, chartService *charts.Service, sources []datasets.Source, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		loader:      loader,
		store:       store,
		charts:      chartService,
		renderer:    report.NewRenderer(language.English),
		readRegions: geojson.ReadFile,
		sources:     sources,
		logger:      internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SourcesFromConfig lists the dataset files named by the configuration
func SourcesFromConfig(cfg *config.Config) []datasets.Source {
	return []datasets.Source{
		{Name: datasets.Professionals, Path: cfg.ProfessionalsFile},
		{Name: datasets.Global, Path: cfg.GlobalFile},
		{Name: datasets.Regional, Path: cfg.RegionalFile},
	}
}

// RegionsFromConfig returns the configured GeoJSON source
func RegionsFromConfig(cfg *config.Config) RegionSource {
	return RegionSource{Path: cfg.RegionsGeoJSON, NameProperty: cfg.GeoJSONNameProperty}
}

// Reload reads every source and publishes the results. Per-dataset failures
// are reported in the summaries; the error is non-nil only when ctx ends
// before the load completes.
func (s *DashboardService) Reload(ctx context.Context) ([]dataset.Summary, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	s.store.MarkLoading(s.sources)
	results := s.loader.Load(ctx, s.sources)
	s.store.Publish(results)
	s.reloadRegions(ctx)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.Info("[Dashboard] reload finished in %s: %d of %d datasets loaded",
		time.Since(start).Round(time.Millisecond), len(results)-failed, len(results))

	if err := ctx.Err(); err != nil {
		return s.store.Summaries(), errors.Wrap(err, "reload interrupted")
	}
	return s.store.Summaries(), nil
}

func (s *DashboardService) reloadRegions(ctx context.Context) {
	if s.regions.Path == "" {
		return
	}
	regions, err := s.readRegions(ctx, s.regions.Path, s.regions.NameProperty)
	if err != nil {
		s.logger.Warn("[Dashboard] region file %s unavailable, keeping previous regions: %v", s.regions.Path, err)
		return
	}
	s.logger.Debug("[Dashboard] loaded %d regions from %s", regions.Len(), s.regions.Path)
	s.store.SetRegions(regions)
}

// Datasets describes every dataset and its load status
func (s *DashboardService) Datasets() []dataset.Summary {
	return s.store.Summaries()
}

// Charts lists the chart catalogue
func (s *DashboardService) Charts() []charts.Definition {
	return s.charts.Definitions()
}

// Chart builds one chart; errors carry an application error code
func (s *DashboardService) Chart(id string, filter charts.Filter) (*charts.Chart, error) {
	chartID, err := core.ParseChartID(id)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	chart, err := s.charts.Build(chartID, filter)
	if err != nil {
		return nil, Classify(err)
	}
	return chart, nil
}

// Report gathers every buildable chart's insight
func (s *DashboardService) Report(filter charts.Filter) *report.Report {
	built, failures := s.charts.BuildAll(filter)
	return &report.Report{
		GeneratedAt: time.Now().UTC(),
		Datasets:    s.store.Summaries(),
		Charts:      built,
		Failures:    failures,
	}
}

// ReportMarkdown renders the insights report as Markdown
func (s *DashboardService) ReportMarkdown(filter charts.Filter) string {
	return s.renderer.Markdown(s.Report(filter))
}

// ReportHTML renders the insights report as an HTML page
func (s *DashboardService) ReportHTML(filter charts.Filter) ([]byte, error) {
	page, err := s.renderer.HTML(s.Report(filter))
	if err != nil {
		return nil, errors.Wrap(err, "failed to render report")
	}
	return page, nil
}

// Classify attaches an application error code to a domain error
func Classify(err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}
	switch {
	case core.IsNotFoundError(err):
		return errors.WithCode(errors.CodeNotFound, err)
	case stderrors.Is(err, core.ErrDatasetNotReady):
		return errors.WithCode(errors.CodeNotReady, err)
	case core.IsInputError(err):
		return errors.WithCode(errors.CodeInvalidInput, err)
	case core.IsStatisticalError(err):
		return errors.WithCode(errors.CodeDegenerateInput, err)
	case stderrors.Is(err, core.ErrIngestion):
		return errors.WithCode(errors.CodeIngestionFailed, err)
	}
	return errors.WithCode(errors.CodeInternalError, err)
}
