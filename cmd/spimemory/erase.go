package main

import (
	"fmt"
	"os"

	"github.com/zanderdk/SPIMemory/internal/config"
)

type eraseCmd struct {
	Addr string `short:"a" default:"0" help:"Start address, rounded down to a 4KB sector."`
	Size uint32 `short:"n" default:"4096" help:"Number of bytes to cover."`
	Chip bool   `help:"Bulk erase the entire chip."`
}

func (c *eraseCmd) Run(cfg *config.Config) error {
	addr, err := parseAddr(c.Addr)
	if err != nil {
		return err
	}

	d, release, err := openFlash(cfg)
	if err != nil {
		return err
	}
	defer release()

	if c.Chip {
		if err := d.Flash.EraseChip(); err != nil {
			return fmt.Errorf("bulk erase flash failed: %w", err)
		}
		fmt.Fprintln(os.Stderr, labelf("chip erased"))
		return nil
	}
	if err := d.Flash.Erase(addr, c.Size); err != nil {
		return fmt.Errorf("erase flash failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%s 0x%06X+%d\n", labelf("erased"), addr, c.Size)
	return nil
}

type suspendCmd struct{}

func (suspendCmd) Run(cfg *config.Config) error {
	d, release, err := openFlash(cfg)
	if err != nil {
		return err
	}
	defer release()
	return d.Flash.Suspend()
}

type resumeCmd struct{}

func (resumeCmd) Run(cfg *config.Config) error {
	d, release, err := openFlash(cfg)
	if err != nil {
		return err
	}
	defer release()
	return d.Flash.Resume()
}
