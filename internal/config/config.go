// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: environment variables > config file > embedded config > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "5s", "30s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds configuration for both simulators. Each binary reads the
// sections it needs and ignores the rest.
type Config struct {
	Cloud   CloudConfig   `yaml:"cloud"`
	Export  ExportConfig  `yaml:"export"`
	Devices DevicesConfig `yaml:"devices"`
	Demo    DemoConfig    `yaml:"demo"`
	Logging LoggingConfig `yaml:"logging"`
}

// CloudConfig holds resource registry and poller settings.
type CloudConfig struct {
	PollInterval   Duration       `yaml:"poll_interval"`
	RefreshTimeout Duration       `yaml:"refresh_timeout"`
	UsageSource    string         `yaml:"usage_source" validate:"oneof=random host"`
	DiskPath       string         `yaml:"disk_path"`
	MetricsAddr    string         `yaml:"metrics_addr"`
	Autostart      bool           `yaml:"autostart"`
	Resources      []SeedResource `yaml:"resources" validate:"dive"`
}

// SeedResource describes a resource launched at startup.
type SeedResource struct {
	Name string `yaml:"name" validate:"required,resource_name"`
	Kind string `yaml:"kind" validate:"required,oneof=compute storage network"`
}

// ExportConfig holds usage exporter settings. An empty URL disables export.
type ExportConfig struct {
	URL           string   `yaml:"url" validate:"omitempty,url"`
	Token         string   `yaml:"token"`
	BatchInterval Duration `yaml:"batch_interval"`
}

// DevicesConfig holds IoT device simulator settings.
type DevicesConfig struct {
	HTTPAddr  string   `yaml:"http_addr" validate:"required"`
	MotionMin Duration `yaml:"motion_min"`
	MotionMax Duration `yaml:"motion_max"`
}

// DemoConfig holds settings for the scripted cloudsim run.
type DemoConfig struct {
	Duration Duration `yaml:"duration"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Cloud: CloudConfig{
			PollInterval:   Duration{5 * time.Second},
			RefreshTimeout: Duration{10 * time.Second},
			UsageSource:    "random",
			DiskPath:       "/",
			MetricsAddr:    ":9102",
			Autostart:      true,
			Resources: []SeedResource{
				{Name: "web-server-1", Kind: "compute"},
				{Name: "user-data", Kind: "storage"},
				{Name: "vpc-1", Kind: "network"},
			},
		},
		Export: ExportConfig{
			BatchInterval: Duration{30 * time.Second},
		},
		Devices: DevicesConfig{
			HTTPAddr:  ":5000",
			MotionMin: Duration{5 * time.Second},
			MotionMax: Duration{15 * time.Second},
		},
		Demo: DemoConfig{
			Duration: Duration{20 * time.Second},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Load reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadLayered loads configuration with the full precedence chain:
// env vars > external YAML file > embedded bytes > defaults.
//
// An optional configPath argument controls external-file discovery:
//   - omitted        → auto-discover via Locate()
//   - explicit value  → use that path ("" means no external file)
//
// Unlike Load, an explicit path that cannot be read is an error.
func LoadLayered(embedded []byte, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	if len(embedded) > 0 {
		if err := yaml.Unmarshal(embedded, cfg); err != nil {
			return nil, fmt.Errorf("parsing embedded config: %w", err)
		}
	}

	var filePath string
	explicit := len(configPath) > 0
	if explicit {
		filePath = configPath[0]
	} else {
		filePath = Locate()
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
			}
		case explicit:
			return nil, fmt.Errorf("reading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("SIMHUB_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if addr := os.Getenv("SIMHUB_HTTP_ADDR"); addr != "" {
		cfg.Devices.HTTPAddr = addr
	}
	if url := os.Getenv("SIMHUB_EXPORT_URL"); url != "" {
		cfg.Export.URL = url
	}
	if token := os.Getenv("SIMHUB_EXPORT_TOKEN"); token != "" {
		cfg.Export.Token = token
	}
	if src := os.Getenv("SIMHUB_USAGE_SOURCE"); src != "" {
		cfg.Cloud.UsageSource = src
	}
}
