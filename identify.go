package spimemory

import (
	"fmt"
	"time"
)

// Descriptor describes the identified chip. Capacity and EraseTime are both
// zero until Identify succeeds.
type Descriptor struct {
	ManufacturerID byte
	MemoryTypeID   byte
	CapacityID     byte

	Family ChipFamily
	Name   string

	Capacity  uint32 // bytes
	EraseTime time.Duration
	Supported bool // false for chips accepted through Config.CustomCapacity
}

func (d Descriptor) JEDECID() [3]byte {
	return [3]byte{d.ManufacturerID, d.MemoryTypeID, d.CapacityID}
}

// Pages returns the number of 256 byte pages.
func (d Descriptor) Pages() uint32 { return d.Capacity >> pageShift }

func (d Descriptor) String() string {
	name := d.Name
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("%X %s (%s, %d bytes)", d.JEDECID(), name, d.Family, d.Capacity)
}

// Identify reads the JEDEC ID and configures capacity and erase time from
// the device table, or from Config.CustomCapacity when set. It must succeed
// before any read, program or erase.
//
// A custom capacity is accepted with Supported=false; LastError then reports
// ErrUnknownChip but Identify returns nil.
func (f *Flash) Identify() (Descriptor, error) {
	d, err := f.identify()
	if err != nil {
		return d, f.track(&OpError{Op: "identify", Err: err})
	}
	return d, nil
}

func (f *Flash) identify() (Descriptor, error) {
	f.desc = Descriptor{}

	if _, err := f.waitReady(f.cfg.ReadyTimeout); err != nil {
		return Descriptor{}, err
	}

	var id [3]byte
	if err := f.session(cmdJEDECID, 0, func() error {
		return f.bus.TransferBuffer(DirRead, id[:])
	}); err != nil {
		return Descriptor{}, err
	}
	f.logDebug(ComponentIdentity, "jedec id", "id", fmt.Sprintf("%X", id))

	// A floating or absent chip reads back zeros.
	if id[0] == 0 || id[1] == 0 || id[2] == 0 {
		return Descriptor{}, ErrNoResponse
	}

	d := Descriptor{
		ManufacturerID: id[0],
		MemoryTypeID:   id[1],
		CapacityID:     id[2],
		Family:         familyOf(id[0]),
	}

	if unlock := familyStrategies[d.Family].unlock; unlock != nil {
		if err := unlock(f); err != nil {
			return d, fmt.Errorf("unlock status register: %w", err)
		}
	}

	custom := f.cfg.CustomCapacity
	if custom == 0 {
		p, ok := lookupChip(d.Family, d.CapacityID)
		if !ok {
			return d, ErrUnknownCapacity
		}
		d.Name = p.name
		d.Capacity = p.capacity
		d.EraseTime = p.eraseTime
		d.Supported = true
		f.desc = d
		return d, nil
	}

	if custom > maxAddressable {
		return d, ErrOutOfBounds
	}
	d.Capacity = custom
	d.EraseTime = customEraseTime(custom)
	f.desc = d
	f.lastErr = &OpError{Op: "identify", Err: ErrUnknownChip}
	f.logWarn(ComponentIdentity, "chip not in device table, using custom capacity",
		"id", fmt.Sprintf("%X", id), "capacity", custom, "eraseTime", d.EraseTime)
	return d, nil
}

// ReadManufacturerID issues the legacy Manufacturer/Device ID command.
func (f *Flash) ReadManufacturerID() (manufacturer, device byte, err error) {
	if _, err = f.waitReady(f.cfg.ReadyTimeout); err != nil {
		return 0, 0, f.track(err)
	}
	var buf [2]byte
	err = f.session(cmdManufacturerID, 0, func() error {
		return f.bus.TransferBuffer(DirRead, buf[:])
	})
	return buf[0], buf[1], f.track(err)
}
