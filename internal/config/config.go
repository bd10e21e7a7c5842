package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Delimiter string       `yaml:"delimiter,omitempty"`  // Field separator for input and outputs (default ";")
	Input     string       `yaml:"input,omitempty"`      // Input snapshot location
	OutputDir string       `yaml:"output_dir,omitempty"` // Directory the three outputs are published into
	Outputs   OutputConfig `yaml:"outputs,omitempty"`
	MQTT      MQTTConfig   `yaml:"mqtt,omitempty"`
}

// OutputConfig holds the file names of the three output datasets
type OutputConfig struct {
	Cleaned string `yaml:"cleaned,omitempty"`
	Hourly  string `yaml:"hourly,omitempty"`
	Devices string `yaml:"devices,omitempty"`
}

// MQTTConfig holds MQTT broker connection settings for publishing
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // e.g., "localhost:1883"
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default "gridbatch"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetDelimiter returns the configured field separator with a default of ';'.
// The separator must be exactly one rune.
func (c *Config) GetDelimiter() (rune, error) {
	if c.Delimiter == "" {
		return ';', nil
	}
	r, size := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError || size != len(c.Delimiter) {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	return r, nil
}

// GetInput returns the input location with a default of measurements.csv
func (c *Config) GetInput() string {
	if c.Input == "" {
		return "measurements.csv"
	}
	return c.Input
}

// GetOutputDir returns the output directory with a default of the current directory
func (c *Config) GetOutputDir() string {
	if c.OutputDir == "" {
		return "."
	}
	return c.OutputDir
}

// CleanedPath returns the full path of the cleaned-records output
func (c *Config) CleanedPath() string {
	name := c.Outputs.Cleaned
	if name == "" {
		name = "cleaned_measurements.csv"
	}
	return filepath.Join(c.GetOutputDir(), name)
}

// HourlyPath returns the full path of the hourly-aggregation output
func (c *Config) HourlyPath() string {
	name := c.Outputs.Hourly
	if name == "" {
		name = "hourly_grid_totals.csv"
	}
	return filepath.Join(c.GetOutputDir(), name)
}

// DevicesPath returns the full path of the device-summary output
func (c *Config) DevicesPath() string {
	name := c.Outputs.Devices
	if name == "" {
		name = "summary_by_serial.csv"
	}
	return filepath.Join(c.GetOutputDir(), name)
}

// GetTopicPrefix returns the MQTT topic prefix with a default of "gridbatch"
func (c *MQTTConfig) GetTopicPrefix() string {
	if c.TopicPrefix == "" {
		return "gridbatch"
	}
	return c.TopicPrefix
}
