// internal/config/driver.go
package config

import (
	"io"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/physic"

	spimemory "github.com/zanderdk/SPIMemory"
)

// Driver builds the driver options. Call after Normalize.
func (cfg *Config) Driver(w io.Writer) spimemory.Config {
	return spimemory.Config{
		PageOverflow:       cfg.Flash.PageOverflow,
		HighSpeed:          cfg.Flash.HighSpeed,
		CustomCapacity:     cfg.Flash.CustomCapacity,
		PollInterval:       time.Duration(cfg.Poll.IntervalUs) * time.Microsecond,
		ReadyTimeout:       time.Duration(cfg.Poll.ReadyTimeoutMs) * time.Millisecond,
		WriteEnableTimeout: time.Duration(cfg.Poll.WriteEnableTimeout) * time.Millisecond,
		Logger:             cfg.Logger(w),
	}
}

// Clock returns the SPI clock, zero meaning driver default.
func (cfg *Config) Clock() physic.Frequency {
	return physic.Frequency(cfg.Bus.ClockHz) * physic.Hertz
}

func (cfg *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
