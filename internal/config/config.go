package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when BBCHARTS_CONFIG is not set.
const DefaultPath = "config/bbcharts.yaml"

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration shared by the chart tools.
type Config struct {
	Provider Provider `yaml:"provider"`
	Walk     Walk     `yaml:"walk"`
	Export   Export   `yaml:"export"`
	Storage  Storage  `yaml:"storage"`
	Logging  Logging  `yaml:"logging"`
}

// Provider selects and configures the chart data source.
type Provider struct {
	Source        string  `yaml:"source"` // "billboard" or "mirror"
	BaseURL       string  `yaml:"base_url"`
	MirrorURL     string  `yaml:"mirror_url"`
	ValidDatesURL string  `yaml:"valid_dates_url"`
	UserAgent     string  `yaml:"user_agent"`
	Timeout       float64 `yaml:"timeout"` // seconds
}

// Walk holds pacing and range defaults for the history walker.
type Walk struct {
	Sleep      float64 `yaml:"sleep"`       // seconds between weekly fetches
	ProbeSleep float64 `yaml:"probe_sleep"` // seconds between year-end probes
	MinYear    int     `yaml:"min_year"`
}

// Export holds defaults for the exporter.
type Export struct {
	OutRoot string  `yaml:"out_root"`
	Sleep   float64 `yaml:"sleep"` // seconds between weeks in --since mode
}

// Storage holds optional persistence targets. Empty paths disable them.
type Storage struct {
	ArchiveDir   string `yaml:"archive_dir"`
	ManifestPath string `yaml:"manifest_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: Provider{
			Source:        "billboard",
			BaseURL:       "https://www.billboard.com",
			MirrorURL:     "https://raw.githubusercontent.com/mhollingshead/billboard-hot-100/main",
			ValidDatesURL: "https://raw.githubusercontent.com/mhollingshead/billboard-hot-100/main/valid_dates.json",
			UserAgent:     "billboard-trivia/1.0",
			Timeout:       25,
		},
		Walk: Walk{
			Sleep:      0.2,
			ProbeSleep: 0.1,
			MinYear:    1958,
		},
		Export: Export{
			OutRoot: "public/charts",
			Sleep:   0.2,
		},
		Logging: Logging{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Path returns the config path from BBCHARTS_CONFIG, or DefaultPath.
func Path() string {
	if p := os.Getenv("BBCHARTS_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the YAML configuration file at the given path on top of the
// defaults, and then applies environment variable overrides. A missing file
// at DefaultPath is not an error; a missing explicitly configured file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
	default:
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BILLBOARD_SOURCE"); v != "" {
		cfg.Provider.Source = v
	}
	if v := os.Getenv("BILLBOARD_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("BILLBOARD_MIRROR_URL"); v != "" {
		cfg.Provider.MirrorURL = v
	}
	if v := os.Getenv("BILLBOARD_VALID_DATES_URL"); v != "" {
		cfg.Provider.ValidDatesURL = v
	}
	if v := os.Getenv("BILLBOARD_USER_AGENT"); v != "" {
		cfg.Provider.UserAgent = v
	}
	if v := os.Getenv("BILLBOARD_TIMEOUT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Provider.Timeout = f
		}
	}

	if v := os.Getenv("CHARTS_OUT_ROOT"); v != "" {
		cfg.Export.OutRoot = v
	}
	if v := os.Getenv("CHARTS_ARCHIVE_DIR"); v != "" {
		cfg.Storage.ArchiveDir = v
	}
	if v := os.Getenv("CHARTS_MANIFEST"); v != "" {
		cfg.Storage.ManifestPath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
