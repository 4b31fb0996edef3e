package spimemory

// ChipFamily groups chips whose status layout and quirks are shared. It is
// resolved once from the JEDEC manufacturer ID.
type ChipFamily uint8

const (
	FamilyCustom ChipFamily = iota
	FamilyWinbond
	FamilyMicrochip
)

// JEDEC manufacturer IDs.
const (
	manufacturerWinbond   = 0xEF
	manufacturerMicrochip = 0xBF // SST
)

func familyOf(manufacturerID byte) ChipFamily {
	switch manufacturerID {
	case manufacturerWinbond:
		return FamilyWinbond
	case manufacturerMicrochip:
		return FamilyMicrochip
	}
	return FamilyCustom
}

func (c ChipFamily) String() string {
	switch c {
	case FamilyWinbond:
		return "Winbond"
	case FamilyMicrochip:
		return "Microchip"
	}
	return "Custom"
}

// familyOps holds the per-family behaviour. A nil unlock means the family
// needs no status register unlock after power up.
type familyOps struct {
	suspended func(f *Flash) (bool, error)
	unlock    func(f *Flash) error
}

var familyStrategies = map[ChipFamily]familyOps{
	FamilyWinbond: {
		suspended: func(f *Flash) (bool, error) {
			sr2, err := f.readStatus2()
			if err != nil {
				return false, err
			}
			return sr2.Suspended(), nil
		},
	},
	FamilyMicrochip: {
		suspended: func(f *Flash) (bool, error) {
			sr, err := f.readStatus1()
			if err != nil {
				return false, err
			}
			return sr.EraseSuspended() || sr.ProgramSuspended(), nil
		},
		unlock: unlockMicrochip,
	},
	FamilyCustom: {
		suspended: func(*Flash) (bool, error) {
			return false, ErrSuspendUnknown
		},
	},
}

// unlockMicrochip clears the protection bits the SST26 family sets at power
// up, keeping BUSY/WEL and the two top bits as read.
//
// [SST26VF|5.0 Status Register]
func unlockMicrochip(f *Flash) error {
	const keepMask = 0xC3

	sr, err := f.readStatus1()
	if err != nil {
		return err
	}
	if err := f.command(cmdWriteStatusEnable); err != nil {
		return err
	}
	return f.session(cmdWriteStatus, 0, func() error {
		_, err := f.bus.Transfer(byte(sr) & keepMask)
		return err
	})
}
