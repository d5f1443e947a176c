package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file accepted by -config,
// letting the websocket/metrics endpoints be fixed in a deployment
// without repeating flags on every invocation.
type Config struct {
	Websocket WebsocketConfig `yaml:"websocket"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WebsocketConfig controls the optional live-row streaming server.
type WebsocketConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// MetricsConfig controls the optional Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoggingConfig controls how verbosely the decoder logs.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

func defaultConfig() Config {
	return Config{
		Websocket: WebsocketConfig{Listen: ":8098"},
		Metrics:   MetricsConfig{Listen: ":9098"},
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
