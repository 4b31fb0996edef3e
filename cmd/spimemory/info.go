package main

import (
	"errors"
	"fmt"

	spimemory "github.com/zanderdk/SPIMemory"
	"github.com/zanderdk/SPIMemory/internal/config"
)

type infoCmd struct{}

func (infoCmd) Run(cfg *config.Config) error {
	d, release, err := openFlash(cfg)
	if err != nil {
		return err
	}
	defer release()

	desc := d.Flash.Descriptor()
	man, dev, err := d.Flash.ReadManufacturerID()
	if err != nil {
		return fmt.Errorf("read manufacturer ID failed: %w", err)
	}

	fmt.Printf("%s %X\n", labelf("JEDEC ID:      "), desc.JEDECID())
	fmt.Printf("%s %02X/%02X\n", labelf("Man/Dev ID:    "), man, dev)
	fmt.Printf("%s %s\n", labelf("Name:          "), desc.Name)
	fmt.Printf("%s %s\n", labelf("Family:        "), desc.Family)
	fmt.Printf("%s %d bytes (%d pages)\n", labelf("Capacity:      "), desc.Capacity, desc.Pages())
	fmt.Printf("%s %s\n", labelf("Erase budget:  "), desc.EraseTime)
	fmt.Printf("%s %t\n", labelf("Supported:     "), desc.Supported)
	return nil
}

type statusCmd struct{}

func (statusCmd) Run(cfg *config.Config) error {
	d, release, err := openFlash(cfg)
	if err != nil {
		return err
	}
	defer release()

	sr, err := d.Flash.ReadStatus1()
	if err != nil {
		return fmt.Errorf("read flash status register failed: %w", err)
	}
	fmt.Printf("%s %s\n", labelf("SR1:"), sr)

	if d.Flash.Descriptor().Family == spimemory.FamilyWinbond {
		sr2, err := d.Flash.ReadStatus2()
		if err != nil {
			return fmt.Errorf("read flash status register 2 failed: %w", err)
		}
		fmt.Printf("%s %s\n", labelf("SR2:"), sr2)
	}

	suspended, err := d.Flash.IsSuspended()
	switch {
	case errors.Is(err, spimemory.ErrSuspendUnknown):
		fmt.Printf("%s unknown\n", labelf("Suspended:"))
	case err != nil:
		return err
	default:
		fmt.Printf("%s %t\n", labelf("Suspended:"), suspended)
	}
	return nil
}
