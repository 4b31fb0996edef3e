package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"periph.io/x/conn/v3/gpio"

	spimemory "github.com/zanderdk/SPIMemory"
	"github.com/zanderdk/SPIMemory/internal/config"
)

var (
	errorf = color.New(color.FgRed, color.Bold).FprintfFunc()
	warnf  = color.New(color.FgYellow).FprintfFunc()
	labelf = color.New(color.FgCyan).SprintfFunc()
)

func fatalf(format string, a ...any) {
	errorf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

type cli struct {
	Config string `short:"c" type:"existingfile" help:"YAML configuration file."`

	Info    infoCmd    `cmd:"" help:"Identify the flash chip."`
	Status  statusCmd  `cmd:"" help:"Print the status registers."`
	Read    readCmd    `cmd:"" help:"Read flash memory."`
	Write   writeCmd   `cmd:"" help:"Write flash memory."`
	Erase   eraseCmd   `cmd:"" help:"Erase sectors or the whole chip."`
	Suspend suspendCmd `cmd:"" help:"Suspend a running program or erase."`
	Resume  resumeCmd  `cmd:"" help:"Resume a suspended program or erase."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("spimemory"),
		kong.Description("Read, write and erase SPI NOR flash."),
		kong.UsageOnError(),
	)

	cfg, err := loadConfig(c.Config)
	if err != nil {
		fatalf("%v", err)
	}
	if err := ctx.Run(cfg); err != nil {
		fatalf("%v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, fmt.Errorf("config load failed: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

// openFlash opens the configured adapter, wakes the chip and identifies it.
// The returned func powers the chip down and releases the adapter.
func openFlash(cfg *config.Config) (*spimemory.Device, func(), error) {
	drv := cfg.Driver(os.Stderr)

	var (
		d   *spimemory.Device
		err error
	)
	switch cfg.Bus.Adapter {
	case "port":
		d, err = spimemory.OpenPort(cfg.Bus.Port, cfg.Bus.CSPin, cfg.Clock(), drv)
	default:
		d, err = spimemory.OpenFTDI(cfg.Clock(), drv)
	}
	if err != nil {
		return nil, nil, err
	}

	d.Hold(gpio.Low) // prevent another master from driving the flash
	release := func() {
		d.Flash.PowerDown()
		d.Hold(gpio.High)
		d.Close()
	}

	if err := d.Flash.PowerUp(); err != nil {
		release()
		return nil, nil, fmt.Errorf("flash power up failed: %w", err)
	}
	desc, err := d.Flash.Identify()
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("flash identification failed: %w", err)
	}
	if !desc.Supported {
		warnf(os.Stderr, "unknown flash ID (%X), using custom capacity %d\n", desc.JEDECID(), desc.Capacity)
	}
	return d, release, nil
}

// parseAddr accepts decimal, 0x hex and 0o octal.
func parseAddr(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint32(v), nil
}
