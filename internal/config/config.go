// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bus   BusConfig   `yaml:"bus"`
	Flash FlashConfig `yaml:"flash"`
	Poll  PollConfig  `yaml:"poll"`
	Log   LogConfig   `yaml:"log"`
}

// ---- BUS ----

type BusConfig struct {
	// Adapter is "ftdi" (FT2232H MPSSE) or "port" (periph registry names).
	Adapter string `yaml:"adapter"`
	Port    string `yaml:"port"`     // adapter=port only, e.g. /dev/spidev0.0
	CSPin   string `yaml:"cs_pin"`   // adapter=port only, e.g. GPIO8
	ClockHz int64  `yaml:"clock_hz"` // 0 => driver default
}

// ---- FLASH ----

type FlashConfig struct {
	PageOverflow   bool   `yaml:"page_overflow"`
	HighSpeed      bool   `yaml:"high_speed"`
	CustomCapacity uint32 `yaml:"custom_capacity"` // bytes; 0 => device table
}

// ---- POLL ----

type PollConfig struct {
	IntervalUs         int `yaml:"interval_us"`
	ReadyTimeoutMs     int `yaml:"ready_timeout_ms"`
	WriteEnableTimeout int `yaml:"write_enable_timeout_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// Load reads and decodes a YAML file. It does not validate.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
