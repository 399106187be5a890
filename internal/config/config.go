package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"lotogrid/domain/core"
	"lotogrid/domain/features"
	"lotogrid/domain/grid"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Analysis AnalysisConfig `toml:"analysis"`
	Paths    PathConfig     `toml:"paths"`
}

// DatabaseConfig holds database connection settings. An empty URL disables
// persistence; the pipeline then runs file-in, report-out.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

// AnalysisConfig holds the statistical run parameters.
type AnalysisConfig struct {
	Shape               string  `toml:"shape"`
	NSimulations        int     `toml:"n_simulations"`
	NDrawsPerSimulation int     `toml:"n_draws_per_simulation"` // 0 means match the history length
	Seed                int64   `toml:"seed"`
	Shards              int     `toml:"shards"`
	RawSampleSize       int     `toml:"raw_sample_size"`
	Alpha               float64 `toml:"alpha"`
	Correction          string  `toml:"correction"`
	EffectSizeThreshold float64 `toml:"effect_size_threshold"`
}

// PathConfig holds file system paths
type PathConfig struct {
	HistoryFile string `toml:"history_file"`
	ReportDir   string `toml:"report_dir"`
}

// Load builds the configuration in three layers: defaults, then the TOML
// file (LOTOGRID_CONFIG or ./lotogrid.toml when present), then LOTOGRID_*
// environment variables. A .env file in the working directory is folded
// into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := defaults()

	path := os.Getenv("LOTOGRID_CONFIG")
	if path == "" {
		path = "lotogrid.toml"
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, core.WrapCode(err, core.CodeConfigInvalid, "failed to parse "+path)
		}
	} else if os.Getenv("LOTOGRID_CONFIG") != "" {
		return nil, core.ConfigInvalid("config file not found: " + path)
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
		Analysis: AnalysisConfig{
			Shape:               grid.MegaSena().Slug,
			NSimulations:        10000,
			Seed:                42,
			Shards:              4,
			Alpha:               0.05,
			Correction:          string(features.CorrectionFDR),
			EffectSizeThreshold: 0.5,
		},
		Paths: PathConfig{
			ReportDir: "reports",
		},
	}
}

func applyEnvOverrides(config *Config) {
	config.Database.URL = getEnvOrDefault("LOTOGRID_DATABASE_URL", config.Database.URL)
	config.Server.Port = getEnvOrDefault("LOTOGRID_PORT", config.Server.Port)
	config.Server.GinMode = getEnvOrDefault("LOTOGRID_GIN_MODE", config.Server.GinMode)

	config.Analysis.Shape = getEnvOrDefault("LOTOGRID_SHAPE", config.Analysis.Shape)
	config.Analysis.NSimulations = getEnvIntOrDefault("LOTOGRID_N_SIMULATIONS", config.Analysis.NSimulations)
	config.Analysis.NDrawsPerSimulation = getEnvIntOrDefault("LOTOGRID_N_DRAWS_PER_SIMULATION", config.Analysis.NDrawsPerSimulation)
	config.Analysis.Seed = getEnvInt64OrDefault("LOTOGRID_SEED", config.Analysis.Seed)
	config.Analysis.Shards = getEnvIntOrDefault("LOTOGRID_SHARDS", config.Analysis.Shards)
	config.Analysis.RawSampleSize = getEnvIntOrDefault("LOTOGRID_RAW_SAMPLE_SIZE", config.Analysis.RawSampleSize)
	config.Analysis.Alpha = getEnvFloatOrDefault("LOTOGRID_ALPHA", config.Analysis.Alpha)
	config.Analysis.Correction = getEnvOrDefault("LOTOGRID_CORRECTION", config.Analysis.Correction)
	config.Analysis.EffectSizeThreshold = getEnvFloatOrDefault("LOTOGRID_EFFECT_SIZE_THRESHOLD", config.Analysis.EffectSizeThreshold)

	config.Paths.HistoryFile = getEnvOrDefault("LOTOGRID_HISTORY_FILE", config.Paths.HistoryFile)
	config.Paths.ReportDir = getEnvOrDefault("LOTOGRID_REPORT_DIR", config.Paths.ReportDir)
}

// Validate checks cross-field consistency of the loaded configuration.
func (c *Config) Validate() error {
	if _, err := grid.ShapeBySlug(c.Analysis.Shape); err != nil {
		return core.ConfigInvalid("unknown shape: " + c.Analysis.Shape)
	}
	if c.Analysis.NSimulations < 2 {
		return core.ConfigInvalid("n_simulations must be at least 2")
	}
	if c.Analysis.NDrawsPerSimulation < 0 {
		return core.ConfigInvalid("n_draws_per_simulation must be non-negative")
	}
	if c.Analysis.Shards < 1 {
		return core.ConfigInvalid("shards must be positive")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return core.ConfigInvalid("alpha must be in (0, 1)")
	}
	if _, err := features.ParseCorrectionMethod(c.Analysis.Correction); err != nil {
		return err
	}
	if c.Analysis.EffectSizeThreshold < 0 {
		return core.ConfigInvalid("effect_size_threshold must be non-negative")
	}
	if c.Server.Port == "" {
		return core.ConfigInvalid("server port is required")
	}
	return nil
}

// Shape resolves the configured card shape. Only valid after Validate.
func (c *Config) Shape() grid.Shape {
	shape, _ := grid.ShapeBySlug(c.Analysis.Shape)
	return shape
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64OrDefault(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
