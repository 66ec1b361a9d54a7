package container

import (
	"context"
	"fmt"

	"covidash/adapters/datareadiness/coercer"
	"covidash/app"
	"covidash/internal"
	"covidash/internal/charts"
	"covidash/internal/config"
	"covidash/internal/datasets"
	"covidash/internal/metrics"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Metrics *metrics.Manager

	// Data layer
	Store  *datasets.Store
	Loader *datasets.Loader

	// Services
	Charts    *charts.Service
	Dashboard *app.DashboardService
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewManager(),
	}
	c.initData()
	c.initServices()
	return c, nil
}

func (c *Container) initData() {
	coercion := coercer.DefaultCoercionConfig()
	coercion.RepairPrecision = c.Config.RepairPrecision

	c.Store = datasets.NewStore(datasets.Professionals, datasets.Global, datasets.Regional)
	c.Loader = datasets.NewLoader(
		datasets.DefaultSpecs(c.Config.MissingStates),
		coercer.NewTypeCoercer(coercion),
		datasets.WithConcurrency(c.Config.LoadConcurrency),
		datasets.WithRecorder(c.Metrics),
		datasets.WithLogger(c.Logger),
	)
}

func (c *Container) initServices() {
	opts := []charts.ServiceOption{
		charts.WithRecorder(c.Metrics),
		charts.WithLogger(c.Logger),
	}
	if c.Config.ChartCache {
		opts = append(opts, charts.WithCache(charts.NewCache(charts.DefaultCacheSize)))
	}
	c.Charts = charts.NewService(c.Store, opts...)

	c.Dashboard = app.NewDashboardService(c.Loader, c.Store, c.Charts,
		app.SourcesFromConfig(c.Config),
		app.WithRegions(app.RegionsFromConfig(c.Config)),
		app.WithDashboardLogger(c.Logger),
	)
}

// Shutdown flushes buffered log entries
func (c *Container) Shutdown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// stderr syncs fail on some platforms; nothing useful to report
	_ = c.Logger.Sync()
	return nil
}
