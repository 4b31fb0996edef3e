package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/snksoft/crc"

	"github.com/zanderdk/SPIMemory/internal/config"
)

type readCmd struct {
	Addr string `short:"a" default:"0" help:"Start address."`
	N    uint32 `short:"n" default:"256" help:"Number of bytes to read."`
	Out  string `short:"o" help:"Output file (default: hexdump)."`
	Fast bool   `help:"Use the fast read command."`
	All  bool   `help:"Read the whole chip."`
}

func (c *readCmd) Run(cfg *config.Config) error {
	addr, err := parseAddr(c.Addr)
	if err != nil {
		return err
	}

	d, release, err := openFlash(cfg)
	if err != nil {
		return err
	}
	defer release()

	n := c.N
	if c.All {
		addr, n = 0, d.Flash.Capacity()
	}
	data := make([]byte, n)
	if c.Fast {
		err = d.Flash.FastRead(addr, data)
	} else {
		err = d.Flash.Read(addr, data)
	}
	if err != nil {
		return fmt.Errorf("read flash failed: %w", err)
	}

	if c.Out == "" {
		fmt.Println(hex.Dump(data))
	} else if err := os.WriteFile(c.Out, data, 0644); err != nil {
		return fmt.Errorf("write file failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%s %08X\n", labelf("CRC-32:"), crc.CalculateCRC(crc.CRC32, data))
	return nil
}
