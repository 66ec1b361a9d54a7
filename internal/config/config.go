package config

import (
	"covidash/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every variable (COVIDASH_PORT); bare names (PORT) are accepted too
const EnvPrefix = "COVIDASH"

// Config represents the complete application configuration
type Config struct {
	ServerConfig
	DataConfig
	PipelineConfig
	ProfilingConfig
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"omitempty,oneof=error warn info debug trace ERROR WARN INFO DEBUG TRACE"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	GinMode string `envconfig:"GIN_MODE" default:"release" validate:"oneof=debug release test"`
}

// DataConfig holds dataset source paths
type DataConfig struct {
	ProfessionalsFile   string   `envconfig:"PROFESSIONALS_FILE" default:"data/professionals.csv"`
	GlobalFile          string   `envconfig:"GLOBAL_FILE" default:"data/worldometer_data.csv"`
	RegionalFile        string   `envconfig:"REGIONAL_FILE" default:"data/state_data.csv"`
	RegionsGeoJSON      string   `envconfig:"REGIONS_GEOJSON" default:"data/india_state.geojson"`
	GeoJSONNameProperty string   `envconfig:"GEOJSON_NAME_PROPERTY" default:"NAME_1" validate:"required"`
	CatalogFile         string   `envconfig:"CATALOG_FILE"`
	MissingStates       []string `envconfig:"MISSING_STATES" default:"Odisha,Uttarakhand,Mizoram"`
}

// PipelineConfig holds ingestion and chart settings
type PipelineConfig struct {
	LoadConcurrency int  `envconfig:"LOAD_CONCURRENCY" default:"4" validate:"min=1,max=64"`
	RepairPrecision int  `envconfig:"REPAIR_PRECISION" default:"2" validate:"min=0,max=10"`
	ChartCache      bool `envconfig:"CHART_CACHE" default:"true"`
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	PprofPort    string `envconfig:"PPROF_PORT" default:"6060"`
	PprofEnabled bool   `envconfig:"PPROF_ENABLED" default:"false"`
}

var validate = validator.New()

// Load reads .env (when present) and the environment, applies the dataset
// catalog if one is configured, and validates the result
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv reads configuration from environment variables only
func LoadFromEnv() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	if config.CatalogFile != "" {
		catalog, err := LoadCatalog(config.CatalogFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load dataset catalog")
		}
		catalog.Apply(&config.DataConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrapf(errors.ConfigInvalid(err.Error()), "configuration validation failed")
	}
	return nil
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}
