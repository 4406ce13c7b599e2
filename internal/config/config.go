// Package config loads the dashboard configuration from a YAML file with
// DASHBOARD_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"utility_dashboard/internal/cost"
	"utility_dashboard/internal/generator"
	"utility_dashboard/internal/logging"
)

// DefaultConfigPath is used when no path is given on the command line.
const DefaultConfigPath = "config.yaml"

type Config struct {
	Server      ServerConfig          `yaml:"server"`
	Tariff      cost.Tariff           `yaml:"tariff"`
	Adjustments generator.Adjustments `yaml:"adjustments"`
	Generator   GeneratorConfig       `yaml:"generator"`
	MQTT        MQTTConfig            `yaml:"mqtt"`
	LogFormat   string                `yaml:"log_format"`
	Debug       bool                  `yaml:"debug"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	FrontendDir string `yaml:"frontend_dir"`
}

type GeneratorConfig struct {
	Seed      uint64 `yaml:"seed"`
	Normalize string `yaml:"normalize"`
}

// MQTTConfig holds the broker settings for the monthly cost publisher.
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			FrontendDir: "frontend/build",
		},
		Tariff:      cost.DefaultTariff(),
		Adjustments: generator.DefaultAdjustments(),
		Generator: GeneratorConfig{
			Seed:      generator.DefaultSeed,
			Normalize: string(generator.NormalizeGlobal),
		},
		MQTT: MQTTConfig{
			ClientID:    "utility-dashboard",
			TopicPrefix: "utility_dashboard",
		},
		LogFormat: string(logging.FormatText),
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnvironmentVariables(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnvironmentVariables() error {
	if val := os.Getenv("DASHBOARD_ADDR"); val != "" {
		c.Server.Addr = val
	}
	if val := os.Getenv("DASHBOARD_FRONTEND_DIR"); val != "" {
		c.Server.FrontendDir = val
	}
	if val := os.Getenv("DASHBOARD_SEED"); val != "" {
		seed, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing DASHBOARD_SEED: %w", err)
		}
		c.Generator.Seed = seed
	}
	if val := os.Getenv("DASHBOARD_NORMALIZE"); val != "" {
		c.Generator.Normalize = val
	}
	if val := os.Getenv("DASHBOARD_LOG_FORMAT"); val != "" {
		c.LogFormat = val
	}
	if val := os.Getenv("DASHBOARD_DEBUG"); val == "true" || val == "1" {
		c.Debug = true
	}
	if val := os.Getenv("DASHBOARD_MQTT_BROKER"); val != "" {
		c.MQTT.Broker = val
		c.MQTT.Enabled = true
	}
	if val := os.Getenv("DASHBOARD_MQTT_USERNAME"); val != "" {
		c.MQTT.Username = val
	}
	if val := os.Getenv("DASHBOARD_MQTT_PASSWORD"); val != "" {
		c.MQTT.Password = val
	}
	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is required")
	}
	if err := c.Tariff.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := generator.ParseNormalizeMode(c.Generator.Normalize); err != nil {
		problems = append(problems, "generator.normalize: "+err.Error())
	}
	switch logging.Format(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("log_format must be %q or %q", logging.FormatText, logging.FormatJSON))
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			problems = append(problems, "mqtt.broker is required when mqtt is enabled")
		}
		if c.MQTT.TopicPrefix == "" {
			problems = append(problems, "mqtt.topic_prefix is required when mqtt is enabled")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// NormalizeMode returns the parsed generator normalization mode.
func (c *Config) NormalizeMode() generator.NormalizeMode {
	m, err := generator.ParseNormalizeMode(c.Generator.Normalize)
	if err != nil {
		return generator.NormalizeGlobal
	}
	return m
}

// Logger builds the logger described by the configuration.
func (c *Config) Logger() *logging.Logger {
	return logging.New(os.Stderr, logging.Format(c.LogFormat), c.Debug)
}

// GeneratorOptions returns the generator options implied by the configuration.
func (c *Config) GeneratorOptions() []generator.Option {
	return []generator.Option{
		generator.WithTariff(c.Tariff),
		generator.WithAdjustments(c.Adjustments),
		generator.WithNormalizeMode(c.NormalizeMode()),
	}
}
