package spimemory

import (
	"fmt"
	"strings"
)

// StatusRegister represents status register 1 of the flash chip.
//
//	Bits| [W25Q128|7.1 Status Registers]      | [SST26VF|Table 5-1]
//	----+-------------------------------------+------------------------------
//	7   | SRP: Status Register Protect        | BUSY (mirror)
//	6   | SEC: Sector protect                 | RES
//	5   | TB: Top/Bottom protect              | SEC: Security ID locked
//	4:2 | BP2-0: Block Protect bit 2-0        | WPLD, WSP, WSE
//	1   | WEL: Write Enable Latch             | WEL: Write Enable Latch
//	0   | BUSY: Erase/Write in progress       | BUSY: Write in progress
type StatusRegister byte

func (sr StatusRegister) StatusRegisterProtect() bool { return sr&(1<<7) != 0 }
func (sr StatusRegister) SectorProtect() bool         { return sr&(1<<6) != 0 }
func (sr StatusRegister) TopBottom() bool             { return sr&(1<<5) != 0 }
func (sr StatusRegister) BlockProtect2() bool         { return sr&(1<<4) != 0 }
func (sr StatusRegister) BlockProtect1() bool         { return sr&(1<<3) != 0 }
func (sr StatusRegister) BlockProtect0() bool         { return sr&(1<<2) != 0 }
func (sr StatusRegister) WriteEnabled() bool          { return sr&(1<<1) != 0 }
func (sr StatusRegister) Busy() bool                  { return sr&(1<<0) != 0 }

// ProgramSuspended and EraseSuspended decode the SST26 layout only.
func (sr StatusRegister) ProgramSuspended() bool { return sr&(1<<3) != 0 }
func (sr StatusRegister) EraseSuspended() bool   { return sr&(1<<2) != 0 }

var statusFlags = [8]string{"BUSY", "WEL", "BP0", "BP1", "BP2", "TB", "SEC", "SRP"}

func (sr StatusRegister) String() string { return formatFlags(byte(sr), &statusFlags) }

// StatusRegister2 represents status register 2 of Winbond chips.
//
//	Bits| [W25Q128|7.1 Status Registers]
//	----+-------------------------------------
//	7   | SUS: Erase/Program Suspend Status
//	6   | CMP: Complement Protect
//	5:3 | LB3-1: Security Register Lock Bits
//	1   | QE: Quad Enable
//	0   | SRL: Status Register Lock
type StatusRegister2 byte

func (sr StatusRegister2) Suspended() bool      { return sr&(1<<7) != 0 }
func (sr StatusRegister2) ComplementProt() bool { return sr&(1<<6) != 0 }
func (sr StatusRegister2) QuadEnabled() bool    { return sr&(1<<1) != 0 }
func (sr StatusRegister2) Locked() bool         { return sr&(1<<0) != 0 }

var status2Flags = [8]string{0: "SRL", 1: "QE", 6: "CMP", 7: "SUS"}

func (sr StatusRegister2) String() string { return formatFlags(byte(sr), &status2Flags) }

// formatFlags prints v in binary followed by the names of its set bits, most
// significant first.
func formatFlags(v byte, names *[8]string) string {
	b := fmt.Sprintf("%08b", v)
	var s []string
	for i := 7; i >= 0; i-- {
		if v&(1<<i) != 0 && names[i] != "" {
			s = append(s, names[i])
		}
	}
	if len(s) == 0 {
		return b
	}
	return b + " " + strings.Join(s, ",")
}

// ReadStatus1 reads status register 1 in a session of its own.
func (f *Flash) ReadStatus1() (StatusRegister, error) {
	sr, err := f.readStatus1()
	return sr, f.track(err)
}

// ReadStatus2 reads status register 2. The chip answers the first payload
// byte with a stale value; the second one is kept.
func (f *Flash) ReadStatus2() (StatusRegister2, error) {
	sr, err := f.readStatus2()
	return sr, f.track(err)
}

func (f *Flash) IsBusy() (bool, error) {
	sr, err := f.ReadStatus1()
	return sr.Busy(), err
}

func (f *Flash) IsWriteEnabled() (bool, error) {
	sr, err := f.ReadStatus1()
	return sr.WriteEnabled(), err
}

// IsSuspended reports whether a program or erase is suspended. The decode
// depends on the chip family; unknown families fail with ErrSuspendUnknown.
func (f *Flash) IsSuspended() (bool, error) {
	sus, err := f.isSuspended()
	return sus, f.track(err)
}

func (f *Flash) isSuspended() (bool, error) {
	return familyStrategies[f.desc.Family].suspended(f)
}

func (f *Flash) readStatus1() (StatusRegister, error) {
	var sr byte
	err := f.session(cmdReadStatus1, 0, func() (err error) {
		sr, err = f.bus.Transfer(nullByte)
		return err
	})
	return StatusRegister(sr), err
}

func (f *Flash) readStatus2() (StatusRegister2, error) {
	var sr byte
	err := f.session(cmdReadStatus2, 0, func() error {
		if _, err := f.bus.Transfer(nullByte); err != nil {
			return err
		}
		var err error
		sr, err = f.bus.Transfer(nullByte)
		return err
	})
	return StatusRegister2(sr), err
}
