// Package config provides configuration management for the hit-leiden solver.
package config

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/spf13/viper"

	"github.com/hit-leiden/pkg/model"
)

// Fallback and release-gate reason strings reported in run metadata.
const (
	ReasonAccelUnavailable = "ACCEL_UNAVAILABLE"
	ReasonLiveQuerySource  = "LIVE_QUERY_SOURCE_INELIGIBLE_FOR_RELEASE_GATE"
	ReasonUnpinnedProfile  = "UNPINNED_HARDWARE_PROFILE"
)

// RunConfig holds the per-run solver configuration.
type RunConfig struct {
	ConfigID         string  `mapstructure:"config_id"`
	Mode             string  `mapstructure:"mode"`          // deterministic or throughput
	GraphSource      string  `mapstructure:"graph_source"`  // file, neo4j_snapshot, live_neo4j
	GraphBackend     string  `mapstructure:"graph_backend"` // in_memory or mmap
	Acceleration     string  `mapstructure:"acceleration"`  // pure_go, native, cuda, rocm
	QualityTolerance float64 `mapstructure:"quality_tolerance"`
	MaxIterations    int     `mapstructure:"max_iterations"`
	Resolution       float64 `mapstructure:"resolution"`
	Workers          int     `mapstructure:"workers"`
	PinnedProfile    string  `mapstructure:"pinned_profile"`
}

// Config holds all configuration for the solver and its collaborators.
type Config struct {
	Run      RunConfig      `mapstructure:"run"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds database connection configuration for run records.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // sqlite, postgres or mysql
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Path     string `mapstructure:"path"` // for sqlite
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds snapshot storage configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Scheme    string `mapstructure:"scheme"`
	Domain    string `mapstructure:"domain"`
	LocalPath string `mapstructure:"local_path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
}

// DefaultRunConfig returns the default run configuration.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		ConfigID:         "default",
		Mode:             model.ModeDeterministic.String(),
		GraphSource:      model.SourceFile.String(),
		GraphBackend:     model.BackendInMemory.String(),
		Acceleration:     model.AccelPureGo.String(),
		QualityTolerance: 0.001,
		MaxIterations:    10,
		Resolution:       1.0,
		Workers:          runtime.NumCPU(),
	}
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/hit-leiden")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	d := DefaultRunConfig()
	v.SetDefault("run.config_id", d.ConfigID)
	v.SetDefault("run.mode", d.Mode)
	v.SetDefault("run.graph_source", d.GraphSource)
	v.SetDefault("run.graph_backend", d.GraphBackend)
	v.SetDefault("run.acceleration", d.Acceleration)
	v.SetDefault("run.quality_tolerance", d.QualityTolerance)
	v.SetDefault("run.max_iterations", d.MaxIterations)
	v.SetDefault("run.resolution", d.Resolution)
	v.SetDefault("run.workers", d.Workers)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "./hit-leiden.db")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "./logs")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Run.Validate(); err != nil {
		return err
	}
	switch c.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	return nil
}

// Validate validates the run configuration.
func (c *RunConfig) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be > 0")
	}
	if c.QualityTolerance < 0 {
		return fmt.Errorf("quality_tolerance must be >= 0")
	}
	if _, err := c.ParsedMode(); err != nil {
		return err
	}
	if _, err := c.ParsedSource(); err != nil {
		return err
	}
	if _, err := c.ParsedBackend(); err != nil {
		return err
	}
	if _, err := c.ParsedAcceleration(); err != nil {
		return err
	}
	return nil
}

// ParsedMode returns the run mode enum for the configured string.
func (c *RunConfig) ParsedMode() (model.RunMode, error) {
	switch c.Mode {
	case "", "deterministic":
		return model.ModeDeterministic, nil
	case "throughput":
		return model.ModeThroughput, nil
	default:
		return 0, fmt.Errorf("unknown run mode: %s", c.Mode)
	}
}

// ParsedSource returns the graph source enum for the configured string.
func (c *RunConfig) ParsedSource() (model.GraphSource, error) {
	switch c.GraphSource {
	case "", "file":
		return model.SourceFile, nil
	case "neo4j_snapshot":
		return model.SourceNeo4jSnapshot, nil
	case "live_neo4j":
		return model.SourceLiveNeo4j, nil
	default:
		return 0, fmt.Errorf("unknown graph source: %s", c.GraphSource)
	}
}

// ParsedBackend returns the graph backend enum for the configured string.
func (c *RunConfig) ParsedBackend() (model.GraphBackend, error) {
	switch c.GraphBackend {
	case "", "in_memory":
		return model.BackendInMemory, nil
	case "mmap":
		return model.BackendMmap, nil
	default:
		return 0, fmt.Errorf("unknown graph backend: %s", c.GraphBackend)
	}
}

// ParsedAcceleration returns the acceleration target enum for the configured string.
func (c *RunConfig) ParsedAcceleration() (model.AccelTarget, error) {
	switch c.Acceleration {
	case "", "pure_go":
		return model.AccelPureGo, nil
	case "native":
		return model.AccelNative, nil
	case "cuda":
		return model.AccelCuda, nil
	case "rocm":
		return model.AccelRocm, nil
	default:
		return 0, fmt.Errorf("unknown acceleration target: %s", c.Acceleration)
	}
}
