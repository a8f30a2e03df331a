package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		ID  string `yaml:"id" env:"NUDGEKIT_APP_ID"`
		Key string `yaml:"key" env:"NUDGEKIT_APP_KEY"`
	} `yaml:"app"`
	Analytics struct {
		BaseURL       string        `yaml:"base_url" env:"NUDGEKIT_ANALYTICS_URL"`
		FlushInterval time.Duration `yaml:"flush_interval" env:"NUDGEKIT_FLUSH_INTERVAL"`
		BatchSize     int           `yaml:"batch_size" env:"NUDGEKIT_BATCH_SIZE"`
	} `yaml:"analytics"`
	Inspector struct {
		Enabled bool   `yaml:"enabled" env:"NUDGEKIT_INSPECTOR"`
		Bind    string `yaml:"bind"`
		Port    int    `yaml:"port" env:"NUDGEKIT_INSPECTOR_PORT"`
	} `yaml:"inspector"`
	Logging struct {
		Level string `yaml:"level" env:"NUDGEKIT_LOG_LEVEL"`
		JSON  bool   `yaml:"json"`
	} `yaml:"logging"`
}

// Load reads the YAML config at path, applies NUDGEKIT_* environment
// overrides on top, and fills defaults. An empty path skips the file and
// uses environment plus defaults only.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if c.Analytics.FlushInterval == 0 {
		c.Analytics.FlushInterval = 10 * time.Second
	}
	if c.Analytics.BatchSize == 0 {
		c.Analytics.BatchSize = 20
	}
	if c.Inspector.Bind == "" {
		c.Inspector.Bind = "127.0.0.1"
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = 8765
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return &c, nil
}
