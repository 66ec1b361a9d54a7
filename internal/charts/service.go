package charts

import (
	"fmt"
	"time"

	"covidash/domain/core"
	"covidash/domain/dataset"
	"covidash/internal"
	"covidash/ports"
)

// Service builds charts from the datasets currently loaded
type Service struct {
	source   ports.DatasetSource
	registry *Registry
	cache    *Cache
	recorder ports.ChartRecorder
	logger   *internal.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithRegistry replaces the built-in chart registry
func WithRegistry(registry *Registry) ServiceOption {
	return func(s *Service) { s.registry = registry }
}

// WithCache enables memoization; a nil cache disables it
func WithCache(cache *Cache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

// WithRecorder reports build durations and outcomes
func WithRecorder(recorder ports.ChartRecorder) ServiceOption {
	return func(s *Service) { s.recorder = recorder }
}

// WithLogger sets the service logger
func WithLogger(logger *internal.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a chart service over a dataset source
func NewService(source ports.DatasetSource, opts ...ServiceOption) *Service {
	s := &Service{
		source:   source,
		registry: DefaultRegistry(),
		logger:   internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Definitions lists every chart the service can build
func (s *Service) Definitions() []Definition {
	return s.registry.List()
}

// Build returns the chart for id under filter
func (s *Service) Build(id core.ChartID, filter Filter) (chart *Chart, err error) {
	def, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}

	// recorded only for registered IDs
	start := time.Now()
	cached := false
	defer func() {
		if s.recorder != nil {
			s.recorder.RecordChart(id, cached, time.Since(start), err)
		}
	}()

	filter = filter.Normalize()
	if !def.Filterable {
		filter.Continent = ""
	}
	if filter.Metric, err = def.ResolveMetric(filter.Metric); err != nil {
		return nil, err
	}

	ds, err := s.source.Dataset(def.Dataset)
	if err != nil {
		return nil, err
	}
	regions := s.source.Regions()

	key := cacheKey{version: ds.Version, chart: id, filter: filter, regions: regionsFingerprint(regions)}
	if hit, ok := s.cache.get(key); ok {
		cached = true
		return hit, nil
	}

	data, insight, err := def.Build(ds, regions, filter)
	if err != nil {
		s.logger.Warn("[Charts] building %s failed: %v", id, err)
		return nil, fmt.Errorf("building chart %s: %w", id, err)
	}

	chart = &Chart{
		ID:             def.ID,
		Title:          def.Title,
		Kind:           def.Kind,
		Dataset:        def.Dataset,
		DatasetVersion: ds.Version,
		Filter:         filter,
		Data:           data,
		Insight:        insight,
	}
	s.cache.put(key, chart)
	s.logger.Debug("[Charts] built %s for %s version %s", id, def.Dataset, ds.Version)
	return chart, nil
}

// BuildAll builds every chart whose dataset is loaded. Charts that fail are
// reported in the returned map and skipped.
func (s *Service) BuildAll(filter Filter) ([]*Chart, map[core.ChartID]error) {
	var charts []*Chart
	failures := make(map[core.ChartID]error)
	for _, def := range s.registry.List() {
		chart, err := s.Build(def.ID, Filter{Continent: filter.Continent})
		if err != nil {
			failures[def.ID] = err
			continue
		}
		charts = append(charts, chart)
	}
	return charts, failures
}

func regionsFingerprint(regions *dataset.Regions) core.Hash {
	if regions == nil {
		return ""
	}
	return regions.Fingerprint
}
