package spimemory

import "time"

type chipParams struct {
	family     ChipFamily
	capacityID byte
	name       string

	capacity  uint32
	eraseTime time.Duration // tCE: chip erase, also the budget for program/erase polls
}

const (
	kib = 1 << 10
	mib = 1 << 20
)

// knownChips is the device table. Capacity codes are only meaningful within
// a family, so lookups match both.
var knownChips = []chipParams{
	// [W25Q80|W25Q128|9.6 AC Electrical Characteristics] tCE max
	{family: FamilyWinbond, capacityID: 0x14, name: "Winbond W25Q80", capacity: 1 * mib, eraseTime: 6 * time.Second},
	{family: FamilyWinbond, capacityID: 0x15, name: "Winbond W25Q16", capacity: 2 * mib, eraseTime: 25 * time.Second},
	{family: FamilyWinbond, capacityID: 0x16, name: "Winbond W25Q32", capacity: 4 * mib, eraseTime: 50 * time.Second},
	{family: FamilyWinbond, capacityID: 0x17, name: "Winbond W25Q64", capacity: 8 * mib, eraseTime: 100 * time.Second},
	{family: FamilyWinbond, capacityID: 0x18, name: "Winbond W25Q128", capacity: 16 * mib, eraseTime: 200 * time.Second},

	// [SST26VF|Table 8-x AC Characteristics] tSCE is 50ms across the family
	{family: FamilyMicrochip, capacityID: 0x41, name: "Microchip SST26VF016B", capacity: 2 * mib, eraseTime: 50 * time.Millisecond},
	{family: FamilyMicrochip, capacityID: 0x42, name: "Microchip SST26VF032B", capacity: 4 * mib, eraseTime: 50 * time.Millisecond},
	{family: FamilyMicrochip, capacityID: 0x43, name: "Microchip SST26VF064B", capacity: 8 * mib, eraseTime: 50 * time.Millisecond},
	{family: FamilyMicrochip, capacityID: 0x4B, name: "Microchip SST25VF064C", capacity: 8 * mib, eraseTime: 50 * time.Millisecond},
}

func lookupChip(family ChipFamily, capacityID byte) (chipParams, bool) {
	for _, p := range knownChips {
		if p.family == family && p.capacityID == capacityID {
			return p, true
		}
	}
	return chipParams{}, false
}

// customEraseTime estimates the chip erase budget of an unlisted chip.
func customEraseTime(capacity uint32) time.Duration {
	const bytesPerMillisecond = 8 * kib
	return max(time.Duration(capacity/bytesPerMillisecond), 1) * time.Millisecond
}

// Power mode transition times.
//
// [W25Q128|9.6 AC Electrical Characteristics]
const (
	tRES1 = 3 * time.Microsecond // /CS High to Standby Mode without ID Read
	tDP   = 3 * time.Microsecond // /CS High to Power-down Mode
	tSUS  = 20 * time.Microsecond
)
