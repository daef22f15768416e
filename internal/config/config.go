// Package config loads the runwrap configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration. Every field has a flag equivalent
// on the generate command; flags win over file values.
type Config struct {
	// Year is the report's target calendar year (UTC). Required: the
	// engine never consults the clock, so there is no "current year"
	// default.
	Year int `yaml:"year"`

	// Snapshot is the path to the sqlite workspace snapshot. Export is
	// the path to a JSON workspace export. Exactly one input is used;
	// Snapshot wins when both are set.
	Snapshot string `yaml:"snapshot"`
	Export   string `yaml:"export"`

	// Output is where the report JSON is written.
	Output string `yaml:"output"`

	// ExcludeProjects lists project ids dropped entirely before
	// normalization.
	ExcludeProjects []string `yaml:"exclude_projects"`

	// AnonymizeSalt is mixed into the codename seed so workspaces with
	// identical name sets do not share mappings.
	AnonymizeSalt string `yaml:"anonymize_salt"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Load reads and parses the configuration file. Environment variables
// in the file are expanded before parsing, so paths and the salt can
// come from the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns a configuration with only defaults applied, used
// when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = "data/metrics.json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// ExcludeSet returns the exclusion list as a lookup set.
func (c *Config) ExcludeSet() map[string]bool {
	if len(c.ExcludeProjects) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.ExcludeProjects))
	for _, id := range c.ExcludeProjects {
		set[id] = true
	}
	return set
}
