package spimemory

import (
	"bytes"
	"testing"
	"time"
)

// fakeChip is a Transport that decodes the byte stream of each session like
// a W25Q/SST26 part and keeps a memory image.
type fakeChip struct {
	t *testing.T

	id      [3]byte
	mem     []byte
	sr1     byte
	sr2     byte
	busyFor int  // status reads that still report BUSY
	stuckWE bool // ignore write enable
	sus     bool

	open, opens, closes int
	sessions            [][]byte // bytes shifted out per session
	cur                 []byte
	in                  []byte // bytes the chip expects to have shifted in
}

func newFakeChip(t *testing.T, id [3]byte, size int) *fakeChip {
	return &fakeChip{t: t, id: id, mem: bytes.Repeat([]byte{erasedByte}, size)}
}

func (c *fakeChip) Open() error {
	if c.open != 0 {
		c.t.Fatalf("Open with session already open")
	}
	c.open++
	c.opens++
	c.cur = nil
	return nil
}

func (c *fakeChip) Close() error {
	if c.open != 1 {
		c.t.Fatalf("Close without open session")
	}
	c.open--
	c.closes++
	c.sessions = append(c.sessions, c.cur)
	c.commit()
	return nil
}

func (c *fakeChip) Transfer(out byte) (byte, error) {
	if c.open != 1 {
		c.t.Fatalf("Transfer outside session")
	}
	pos := len(c.cur)
	c.cur = append(c.cur, out)
	return c.respond(pos), nil
}

func (c *fakeChip) TransferBuffer(dir Direction, buf []byte) error {
	for i := range buf {
		out := byte(nullByte)
		if dir == DirWrite {
			out = buf[i]
		}
		in, err := c.Transfer(out)
		if err != nil {
			return err
		}
		if dir == DirRead {
			buf[i] = in
		}
	}
	return nil
}

func (c *fakeChip) addr() int {
	return int(c.cur[1])<<16 | int(c.cur[2])<<8 | int(c.cur[3])
}

// respond returns the byte the chip drives while byte pos is shifted out.
func (c *fakeChip) respond(pos int) byte {
	if pos == 0 {
		return 0
	}
	switch c.cur[0] {
	case cmdJEDECID:
		if pos <= 3 {
			return c.id[pos-1]
		}
	case cmdManufacturerID:
		switch pos {
		case 4:
			return c.id[0]
		case 5:
			return c.id[2] - 1
		}
	case cmdReadStatus1:
		sr := c.sr1
		if c.busyFor != 0 {
			if c.busyFor > 0 {
				c.busyFor--
			}
			sr |= 0x01
		}
		return sr
	case cmdReadStatus2:
		return c.sr2
	case cmdRead:
		if pos >= 4 {
			return c.mem[(c.addr()+pos-4)%len(c.mem)]
		}
	case cmdFastRead:
		if pos >= 5 {
			return c.mem[(c.addr()+pos-5)%len(c.mem)]
		}
	}
	return 0
}

// commit applies the command of the session just closed.
func (c *fakeChip) commit() {
	s := c.cur
	if len(s) == 0 {
		return
	}
	wel := c.sr1&0x02 != 0
	switch s[0] {
	case cmdWriteEnable:
		if !c.stuckWE {
			c.sr1 |= 0x02
		}
	case cmdWriteDisable:
		c.sr1 &^= 0x02
	case cmdWriteStatus:
		c.sr1 = s[1]
	case cmdPageProgram:
		if wel {
			base := c.addr()
			page := base &^ (PageSize - 1)
			for i, b := range s[4:] {
				a := page + (base+i)%PageSize
				c.mem[a] &= b
			}
		}
		c.sr1 &^= 0x02
	case cmdSectorErase, cmdBlock32Erase, cmdBlock64Erase:
		if wel {
			size := map[byte]int{cmdSectorErase: SectorSize, cmdBlock32Erase: Block32Size, cmdBlock64Erase: Block64Size}[s[0]]
			a := c.addr() &^ (size - 1)
			copy(c.mem[a:a+size], bytes.Repeat([]byte{erasedByte}, size))
		}
		c.sr1 &^= 0x02
	case cmdChipErase:
		if wel {
			copy(c.mem, bytes.Repeat([]byte{erasedByte}, len(c.mem)))
		}
		c.sr1 &^= 0x02
	case cmdSuspend:
		c.sus = true
		c.sr2 |= 0x80
	case cmdResume:
		c.sus = false
		c.sr2 &^= 0x80
	}
}

// opcodes lists the first byte of every session.
func (c *fakeChip) opcodes() []byte {
	ops := make([]byte, 0, len(c.sessions))
	for _, s := range c.sessions {
		if len(s) > 0 {
			ops = append(ops, s[0])
		}
	}
	return ops
}

func (c *fakeChip) sawOpcode(op byte) bool {
	return bytes.IndexByte(c.opcodes(), op) >= 0
}

func (c *fakeChip) reset() {
	c.sessions = nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

var (
	idW25Q32   = [3]byte{0xEF, 0x40, 0x16}
	idSST26064 = [3]byte{0xBF, 0x26, 0x43}
)

func newTestFlash(t *testing.T, chip *fakeChip, cfg Config) *Flash {
	t.Helper()
	cfg.Clock = &fakeClock{now: time.Unix(0, 0)}
	return New(chip, cfg)
}

// identified returns a Flash with a W25Q32 already identified.
func identified(t *testing.T, cfg Config) (*Flash, *fakeChip) {
	t.Helper()
	chip := newFakeChip(t, idW25Q32, 4*mib)
	f := newTestFlash(t, chip, cfg)
	if _, err := f.Identify(); err != nil {
		t.Fatalf("Identify() = %v", err)
	}
	chip.reset()
	return f, chip
}

func checkBalanced(t *testing.T, f *Flash, chip *fakeChip) {
	t.Helper()
	if chip.opens != chip.closes {
		t.Errorf("opens = %d, closes = %d", chip.opens, chip.closes)
	}
	if f.SessionOpen() {
		t.Error("session still open")
	}
}
