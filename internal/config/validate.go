// internal/config/validate.go
package config

import (
	"fmt"
)

const maxCapacity = 1 << 24 // 3-byte addressing

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	switch cfg.Bus.Adapter {
	case "", "ftdi":
	case "port":
		if cfg.Bus.Port == "" {
			return fmt.Errorf("bus: adapter %q requires port", cfg.Bus.Adapter)
		}
		if cfg.Bus.CSPin == "" {
			return fmt.Errorf("bus: adapter %q requires cs_pin", cfg.Bus.Adapter)
		}
	default:
		return fmt.Errorf("bus: unknown adapter %q", cfg.Bus.Adapter)
	}

	if cfg.Bus.ClockHz < 0 {
		return fmt.Errorf("bus: clock_hz must not be negative")
	}

	// custom capacity must be page aligned and reachable with 24-bit addresses
	if c := cfg.Flash.CustomCapacity; c != 0 {
		if c%256 != 0 {
			return fmt.Errorf("flash: custom_capacity %d is not a multiple of the 256 byte page", c)
		}
		if c > maxCapacity {
			return fmt.Errorf("flash: custom_capacity %d exceeds 24-bit address space", c)
		}
	}

	if cfg.Poll.IntervalUs < 0 || cfg.Poll.ReadyTimeoutMs < 0 || cfg.Poll.WriteEnableTimeout < 0 {
		return fmt.Errorf("poll: durations must not be negative")
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log: unknown format %q", cfg.Log.Format)
	}

	return nil
}
