package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Sources  SourcesConfig  `yaml:"sources" mapstructure:"sources"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SourcesConfig locates the raw input files. Each file entry may be a name
// relative to DataDir, an absolute path, a URL, or an "archive.zip#member".
type SourcesConfig struct {
	DataDir         string `yaml:"data_dir" mapstructure:"data_dir"`
	Historic        string `yaml:"historic" mapstructure:"historic"`
	WC2014          string `yaml:"wc2014" mapstructure:"wc2014"`
	WC2022          string `yaml:"wc2022" mapstructure:"wc2022"`
	WC2018          string `yaml:"wc2018" mapstructure:"wc2018"`
	HistoricalDates string `yaml:"historical_dates" mapstructure:"historical_dates"`
	Cities2022      string `yaml:"cities_2022" mapstructure:"cities_2022"`
	Encoding        string `yaml:"encoding" mapstructure:"encoding"`
}

// Location resolves a configured file entry against DataDir.
func (s SourcesConfig) Location(file string) string {
	file = strings.TrimSpace(file)
	if file == "" {
		return ""
	}
	if u, err := url.Parse(file); err == nil && len(u.Scheme) > 1 {
		return file
	}
	if filepath.IsAbs(file) || s.DataDir == "" {
		return file
	}
	return filepath.Join(s.DataDir, file)
}

// PipelineConfig configures transform behavior.
type PipelineConfig struct {
	HistoryCutoffYear   int    `yaml:"history_cutoff_year" mapstructure:"history_cutoff_year"`
	HistoricExcludeYear int    `yaml:"historic_exclude_year" mapstructure:"historic_exclude_year"`
	StrictValidation    bool   `yaml:"strict_validation" mapstructure:"strict_validation"`
	ParallelTransforms  bool   `yaml:"parallel_transforms" mapstructure:"parallel_transforms"`
	ReferenceOverrides  string `yaml:"reference_overrides" mapstructure:"reference_overrides"`
}

// ExportConfig configures the processed-file export.
type ExportConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// FetchConfig configures remote source downloads.
type FetchConfig struct {
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BackoffMillis     int     `yaml:"backoff_millis" mapstructure:"backoff_millis"`
	TempDir           string  `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// Timeout returns the per-request timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// ServerConfig configures the read API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. An empty path looks
// for an optional config.yaml in the working directory; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("WORLDCUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "data/worldcup.db")
	v.SetDefault("sources.data_dir", "data/raw")
	v.SetDefault("sources.historic", "matches_1930-2010.csv")
	v.SetDefault("sources.wc2014", "WorldCupMatches2014.csv")
	v.SetDefault("sources.wc2022", "Fifa_world_cup_matches.csv")
	v.SetDefault("sources.wc2018", "data_2018.json")
	v.SetDefault("sources.historical_dates", "dates_1930_2010.txt")
	v.SetDefault("sources.cities_2022", "cities_2022.csv")
	v.SetDefault("sources.encoding", "")
	v.SetDefault("pipeline.history_cutoff_year", 2010)
	v.SetDefault("pipeline.historic_exclude_year", 2014)
	v.SetDefault("pipeline.strict_validation", false)
	v.SetDefault("pipeline.parallel_transforms", true)
	v.SetDefault("pipeline.reference_overrides", "")
	v.SetDefault("export.dir", "data/processed")
	v.SetDefault("export.format", "csv")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "worldcup-etl/1.0")
	v.SetDefault("fetch.requests_per_second", 5.0)
	v.SetDefault("fetch.backoff_millis", 1000)
	v.SetDefault("fetch.temp_dir", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes: "run",
// "migrate", "status", "export", "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	storeChecks := func() {
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			errs = append(errs, fmt.Sprintf("store.driver must be sqlite or postgres, got %q", c.Store.Driver))
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	}
	exportChecks := func() {
		switch c.Export.Format {
		case "csv", "xlsx":
		default:
			errs = append(errs, fmt.Sprintf("export.format must be csv or xlsx, got %q", c.Export.Format))
		}
	}

	switch mode {
	case "run":
		storeChecks()
		exportChecks()
		if c.Pipeline.HistoryCutoffYear <= 0 {
			errs = append(errs, "pipeline.history_cutoff_year must be > 0")
		}
		if c.Fetch.MaxRetries < 1 {
			errs = append(errs, "fetch.max_retries must be >= 1")
		}
		if c.Fetch.RequestsPerSecond <= 0 {
			errs = append(errs, "fetch.requests_per_second must be > 0")
		}
	case "migrate", "status":
		storeChecks()
	case "export":
		storeChecks()
		exportChecks()
	case "serve":
		storeChecks()
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
