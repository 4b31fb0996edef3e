package spimemory

import (
	"log/slog"
	"time"
)

// Config carries the operator options of a Flash. The zero value is usable.
type Config struct {
	// PageOverflow lets a range that runs past the end of the chip continue
	// at address 0. The tail wraps; it is never truncated.
	PageOverflow bool

	// HighSpeed skips the erased-range check before programming.
	HighSpeed bool

	// CustomCapacity declares the size in bytes of a chip missing from the
	// device table. Zero means look the capacity up.
	CustomCapacity uint32

	PollInterval       time.Duration // delay between status polls
	ReadyTimeout       time.Duration // busy budget for reads and identification
	WriteEnableTimeout time.Duration

	Logger *slog.Logger
	Clock  Clock
}

const (
	defaultPollInterval       = 100 * time.Microsecond
	defaultReadyTimeout       = 10 * time.Millisecond
	defaultWriteEnableTimeout = 10 * time.Millisecond
)

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = defaultReadyTimeout
	}
	if c.WriteEnableTimeout <= 0 {
		c.WriteEnableTimeout = defaultWriteEnableTimeout
	}
	if c.Logger == nil {
		c.Logger = DefaultLogger()
	}
	if c.Clock == nil {
		c.Clock = wallClock{}
	}
	return c
}

// Clock is the time source used for poll deadlines and chip delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time        { return time.Now() }
func (wallClock) Sleep(d time.Duration) { time.Sleep(d) }
