package spimemory

import (
	"log/slog"
	"time"
)

// Flash sequences commands to one SPI NOR chip. It is not safe for
// concurrent use; a Transport Lock serializes Flashes sharing one bus.
type Flash struct {
	bus   Transport
	cfg   Config
	log   *slog.Logger
	clock Clock

	open    bool // bus session open
	desc    Descriptor
	lastErr error
}

func New(bus Transport, cfg Config) *Flash {
	cfg = cfg.withDefaults()
	return &Flash{
		bus:   bus,
		cfg:   cfg,
		log:   cfg.Logger,
		clock: cfg.Clock,
	}
}

// Flash commands:
//   - [W25Q128|8.1.2 Instruction Set Table 1]
//   - [SST26VF|Table 5-5 Device Operation Instructions]
const (
	cmdWriteStatus       = 0x01
	cmdPageProgram       = 0x02
	cmdRead              = 0x03
	cmdWriteDisable      = 0x04
	cmdReadStatus1       = 0x05
	cmdWriteEnable       = 0x06
	cmdFastRead          = 0x0B
	cmdSectorErase       = 0x20 // 4KB
	cmdReadStatus2       = 0x35
	cmdWriteStatusEnable = 0x50 // volatile status register write enable
	cmdBlock32Erase      = 0x52
	cmdSuspend           = 0x75
	cmdResume            = 0x7A
	cmdManufacturerID    = 0x90
	cmdJEDECID           = 0x9F
	cmdPowerUp           = 0xAB // Release Power Down
	cmdPowerDown         = 0xB9
	cmdChipErase         = 0xC7
	cmdBlock64Erase      = 0xD8
)

const (
	erasedByte = 0xFF
	dummyByte  = 0x00
	nullByte   = 0x00 // shifted out while clocking data in
)

// Descriptor returns the identified chip. It is the zero value before a
// successful Identify.
func (f *Flash) Descriptor() Descriptor { return f.desc }

func (f *Flash) Capacity() uint32 { return f.desc.Capacity }

// LastError returns the error of the most recent failing operation, or the
// ErrUnknownChip advisory left by Identify. Successful calls do not clear it.
func (f *Flash) LastError() error { return f.lastErr }

// SessionOpen reports whether a bus session is held. It is false between
// calls.
func (f *Flash) SessionOpen() bool { return f.open }

func (f *Flash) track(err error) error {
	if err != nil {
		f.lastErr = err
		f.logDebug(ComponentSequencer, "operation failed", "err", err)
	}
	return err
}

// begin opens a bus session and emits op with the framing of its class.
func (f *Flash) begin(op byte, addr uint32) error {
	if f.open {
		return errSessionOpen
	}
	if err := f.bus.Open(); err != nil {
		return err
	}
	f.open = true
	if err := f.frame(op, addr); err != nil {
		f.end()
		return err
	}
	return nil
}

func (f *Flash) frame(op byte, addr uint32) error {
	if _, err := f.bus.Transfer(op); err != nil {
		return err
	}
	switch op {
	case cmdRead, cmdPageProgram, cmdSectorErase, cmdBlock32Erase, cmdBlock64Erase, cmdManufacturerID:
		return f.transferAddress(addr)
	case cmdFastRead:
		// [W25Q128|8.2.7 Fast Read (0Bh)] address first, then 8 dummy clocks
		if err := f.transferAddress(addr); err != nil {
			return err
		}
		_, err := f.bus.Transfer(dummyByte)
		return err
	}
	return nil
}

// transferAddress sends the 24-bit address, most significant byte first.
func (f *Flash) transferAddress(addr uint32) error {
	for _, b := range [3]byte{byte(addr >> 16), byte(addr >> 8), byte(addr)} {
		if _, err := f.bus.Transfer(b); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flash) end() error {
	if !f.open {
		return nil
	}
	f.open = false
	return f.bus.Close()
}

// session wraps fn in one bus session started with op. The session is
// closed on every return path.
func (f *Flash) session(op byte, addr uint32, fn func() error) (err error) {
	if err = f.begin(op, addr); err != nil {
		return err
	}
	defer func() {
		if endErr := f.end(); endErr != nil && err == nil {
			err = endErr
		}
	}()
	if fn != nil {
		err = fn()
	}
	return
}

// command sends a bare opcode.
func (f *Flash) command(op byte) error {
	f.logDebug(ComponentSequencer, "command", "op", op)
	return f.session(op, 0, nil)
}

// waitReady polls status register 1 until BUSY clears or timeout elapses,
// and returns the last value read.
func (f *Flash) waitReady(timeout time.Duration) (StatusRegister, error) {
	deadline := f.clock.Now().Add(timeout)
	for {
		sr, err := f.readStatus1()
		if err != nil {
			return sr, err
		}
		if !sr.Busy() {
			return sr, nil
		}
		if f.clock.Now().After(deadline) {
			f.end()
			f.logWarn(ComponentStatus, "chip busy past deadline", "timeout", timeout, "status", sr)
			return sr, ErrChipBusyTimeout
		}
		f.clock.Sleep(f.cfg.PollInterval)
	}
}

// enableWrite sets the write enable latch, starting from the status value
// sr already read, and polls until the chip reports it.
func (f *Flash) enableWrite(sr StatusRegister) error {
	deadline := f.clock.Now().Add(f.cfg.WriteEnableTimeout)
	for attempt := 0; !sr.WriteEnabled(); attempt++ {
		if f.clock.Now().After(deadline) {
			f.end()
			f.logWarn(ComponentStatus, "write enable latch not set", "status", sr)
			return ErrWriteEnableTimeout
		}
		if attempt > 0 {
			f.clock.Sleep(f.cfg.PollInterval)
		}
		if err := f.command(cmdWriteEnable); err != nil {
			return err
		}
		var err error
		if sr, err = f.readStatus1(); err != nil {
			return err
		}
	}
	return nil
}

type opKind uint8

const (
	opRead opKind = iota
	opProgram
	opErase
)

// prepare is the gate every data operation passes before touching the bus
// for its own command: bounds, busy, write enable, erased check.
func (f *Flash) prepare(kind opKind, addr, size uint32) (AddressCursor, error) {
	cur, err := f.checkBounds(addr, size)
	if err != nil {
		return cur, err
	}

	budget := f.cfg.ReadyTimeout
	if kind != opRead {
		budget = f.desc.EraseTime
	}
	sr, err := f.waitReady(budget)
	if err != nil || kind == opRead {
		return cur, err
	}

	if err := f.enableWrite(sr); err != nil {
		return cur, err
	}

	if kind == opProgram && !f.cfg.HighSpeed {
		erased, err := f.isErased(cur)
		if err != nil {
			return cur, err
		}
		if !erased {
			// Leave the latch cleared; nothing was programmed.
			if err := f.command(cmdWriteDisable); err != nil {
				return cur, err
			}
			return cur, ErrNotErased
		}
	}
	return cur, nil
}

// isErased reads back the cursor range and reports whether every byte is
// still erased. Program can only clear bits.
func (f *Flash) isErased(cur AddressCursor) (bool, error) {
	var buf [PageSize]byte
	for _, ext := range cur.Extents() {
		erased := true
		err := f.session(cmdRead, ext.Addr, func() error {
			for remaining := int(ext.Len); remaining > 0; {
				chunk := buf[:min(remaining, len(buf))]
				if err := f.bus.TransferBuffer(DirRead, chunk); err != nil {
					return err
				}
				for _, b := range chunk {
					if b != erasedByte {
						erased = false
						return nil
					}
				}
				remaining -= len(chunk)
			}
			return nil
		})
		if err != nil || !erased {
			return false, err
		}
	}
	return true, nil
}

// Read reads len(buf) bytes starting at addr.
func (f *Flash) Read(addr uint32, buf []byte) error {
	return f.track(f.read("read", cmdRead, addr, buf))
}

// FastRead reads like Read using the fast read command, which inserts one
// dummy byte after the address.
func (f *Flash) FastRead(addr uint32, buf []byte) error {
	return f.track(f.read("fast read", cmdFastRead, addr, buf))
}

// ReadPage reads starting at offset within page.
func (f *Flash) ReadPage(page uint32, offset uint8, buf []byte) error {
	return f.Read(LinearAddress(page, offset), buf)
}

func (f *Flash) read(name string, op byte, addr uint32, buf []byte) error {
	cur, err := f.prepare(opRead, addr, uint32(len(buf)))
	if err != nil {
		return &OpError{Op: name, Addr: addr, Err: err}
	}
	for _, ext := range cur.Extents() {
		part := buf[:ext.Len]
		buf = buf[ext.Len:]
		if err := f.session(op, ext.Addr, func() error {
			return f.bus.TransferBuffer(DirRead, part)
		}); err != nil {
			return &OpError{Op: name, Addr: ext.Addr, Err: err}
		}
	}
	return nil
}

// Program writes data starting at addr, splitting it on page boundaries.
// Unless HighSpeed is set, the whole range must read back erased first or
// the call fails with ErrNotErased and nothing is programmed.
func (f *Flash) Program(addr uint32, data []byte) error {
	return f.track(f.program(addr, data))
}

// ProgramPage programs data starting at offset within page.
func (f *Flash) ProgramPage(page uint32, offset uint8, data []byte) error {
	return f.Program(LinearAddress(page, offset), data)
}

func (f *Flash) program(addr uint32, data []byte) error {
	if len(data) == 0 {
		if _, err := f.checkBounds(addr, 0); err != nil {
			return &OpError{Op: "program", Addr: addr, Err: err}
		}
		return nil
	}

	cur, err := f.prepare(opProgram, addr, uint32(len(data)))
	if err != nil {
		return &OpError{Op: "program", Addr: addr, Err: err}
	}

	first := true
	for _, ext := range cur.Extents() {
		chunk := data[:ext.Len]
		data = data[ext.Len:]
		for a := ext.Addr; len(chunk) > 0; {
			n := min(len(chunk), PageSize-int(a%PageSize))
			if !first {
				if err := f.readyForWrite(); err != nil {
					return &OpError{Op: "program", Addr: a, Err: err}
				}
			}
			first = false

			page := chunk[:n]
			if err := f.session(cmdPageProgram, a, func() error {
				return f.bus.TransferBuffer(DirWrite, page)
			}); err != nil {
				return &OpError{Op: "program", Addr: a, Err: err}
			}
			a += uint32(n)
			chunk = chunk[n:]
		}
	}

	if _, err := f.waitReady(f.desc.EraseTime); err != nil {
		return &OpError{Op: "program", Addr: addr, Err: err}
	}
	return nil
}

// readyForWrite waits out the previous program and re-arms the write
// enable latch, which the chip clears after every program.
func (f *Flash) readyForWrite() error {
	sr, err := f.waitReady(f.desc.EraseTime)
	if err != nil {
		return err
	}
	return f.enableWrite(sr)
}

// EraseSector erases the 4KB sector containing addr.
func (f *Flash) EraseSector(addr uint32) error {
	return f.track(f.erase("erase sector", cmdSectorErase, addr, SectorSize))
}

// EraseBlock32K erases the 32KB block containing addr.
func (f *Flash) EraseBlock32K(addr uint32) error {
	return f.track(f.erase("erase block32", cmdBlock32Erase, addr, Block32Size))
}

// EraseBlock64K erases the 64KB block containing addr.
func (f *Flash) EraseBlock64K(addr uint32) error {
	return f.track(f.erase("erase block64", cmdBlock64Erase, addr, Block64Size))
}

// EraseChip bulk erases the entire chip.
func (f *Flash) EraseChip() error {
	return f.track(f.erase("erase chip", cmdChipErase, 0, f.desc.Capacity))
}

func (f *Flash) erase(name string, op byte, addr, size uint32) error {
	if op != cmdChipErase {
		addr &^= size - 1
	}
	cur, err := f.prepare(opErase, addr, size)
	if err != nil {
		return &OpError{Op: name, Addr: addr, Err: err}
	}
	// with page overflow an address past the end was resolved to 0
	addr = cur.Addr
	f.logDebug(ComponentSequencer, "erase", "op", op, "addr", addr)
	if err := f.session(op, addr, nil); err != nil {
		return &OpError{Op: name, Addr: addr, Err: err}
	}
	if _, err := f.waitReady(f.desc.EraseTime); err != nil {
		return &OpError{Op: name, Addr: addr, Err: err}
	}
	return nil
}

// Erase erases at least size bytes starting from the sector containing
// baseAddr, using 64KB blocks where aligned and 4KB sectors elsewhere. The
// range is bounds checked once up front; with page overflow the part past
// the end continues at address 0.
func (f *Flash) Erase(baseAddr, size uint32) error {
	cur, err := f.checkBounds(baseAddr, size)
	if err != nil {
		return f.track(&OpError{Op: "erase", Addr: baseAddr, Err: err})
	}
	for _, ext := range cur.Extents() {
		if err := f.eraseExtent(ext); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flash) eraseExtent(ext Extent) error {
	addr := ext.Addr &^ (SectorSize - 1)
	end := uint64(ext.Addr) + uint64(ext.Len)

	for uint64(addr) < end {
		if addr%Block64Size == 0 && uint64(addr)+Block64Size <= end {
			if err := f.EraseBlock64K(addr); err != nil {
				return err
			}
			addr += Block64Size
			continue
		}
		if err := f.EraseSector(addr); err != nil {
			return err
		}
		addr += SectorSize
	}
	return nil
}

// WriteDisable clears the write enable latch.
func (f *Flash) WriteDisable() error {
	return f.track(f.command(cmdWriteDisable))
}

func (f *Flash) PowerUp() error {
	if err := f.command(cmdPowerUp); err != nil {
		return f.track(err)
	}
	f.clock.Sleep(tRES1)
	return nil
}

func (f *Flash) PowerDown() error {
	if err := f.command(cmdPowerDown); err != nil {
		return f.track(err)
	}
	f.clock.Sleep(tDP)
	return nil
}

// Suspend pauses a running program or erase. It is a no-op when the chip is
// idle and fails with ErrSystemSuspended when already suspended.
func (f *Flash) Suspend() error {
	suspended, err := f.isSuspended()
	if err != nil {
		return f.track(&OpError{Op: "suspend", Err: err})
	}
	if suspended {
		return f.track(&OpError{Op: "suspend", Err: ErrSystemSuspended})
	}
	sr, err := f.readStatus1()
	if err != nil {
		return f.track(&OpError{Op: "suspend", Err: err})
	}
	if !sr.Busy() {
		return nil
	}
	if err := f.command(cmdSuspend); err != nil {
		return f.track(&OpError{Op: "suspend", Err: err})
	}
	f.clock.Sleep(tSUS)
	return nil
}

// Resume continues a suspended program or erase. It is a no-op when nothing
// is suspended.
func (f *Flash) Resume() error {
	suspended, err := f.isSuspended()
	if err != nil {
		return f.track(&OpError{Op: "resume", Err: err})
	}
	if !suspended {
		return nil
	}
	if err := f.command(cmdResume); err != nil {
		return f.track(&OpError{Op: "resume", Err: err})
	}
	return nil
}
