package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/snksoft/crc"

	"github.com/zanderdk/SPIMemory/internal/config"
)

type writeCmd struct {
	File      string `arg:"" type:"existingfile" help:"Input file."`
	Addr      string `short:"a" default:"0" help:"Start address."`
	Erase     bool   `short:"e" help:"Erase the covered sectors first."`
	BulkErase bool   `help:"Bulk erase the entire chip first."`
	Verify    bool   `help:"Read back and compare after writing."`
}

func (c *writeCmd) Run(cfg *config.Config) error {
	addr, err := parseAddr(c.Addr)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	d, release, err := openFlash(cfg)
	if err != nil {
		return err
	}
	defer release()

	switch {
	case c.BulkErase:
		if err := d.Flash.EraseChip(); err != nil {
			return fmt.Errorf("bulk erase flash failed: %w", err)
		}
	case c.Erase:
		if err := d.Flash.Erase(addr, uint32(len(data))); err != nil {
			return fmt.Errorf("erase flash failed: %w", err)
		}
	}

	if err := d.Flash.Program(addr, data); err != nil {
		return fmt.Errorf("write flash failed: %w", err)
	}
	sum := crc.CalculateCRC(crc.CRC32, data)
	fmt.Fprintf(os.Stderr, "%s %d bytes at 0x%06X, CRC-32 %08X\n", labelf("wrote"), len(data), addr, sum)

	if !c.Verify {
		return nil
	}
	rb := make([]byte, len(data))
	if err := d.Flash.Read(addr, rb); err != nil {
		return fmt.Errorf("read back failed: %w", err)
	}
	if got := crc.CalculateCRC(crc.CRC32, rb); got != sum || !bytes.Equal(rb, data) {
		return fmt.Errorf("verify failed: CRC-32 %08X, want %08X", got, sum)
	}
	fmt.Fprintln(os.Stderr, labelf("verified"))
	return nil
}
