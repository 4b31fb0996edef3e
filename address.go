package spimemory

const (
	pageShift = 8
	PageSize  = 1 << pageShift // bytes programmable by one page program

	SectorSize  = 4 << 10  // smallest erasable unit
	Block32Size = 32 << 10 // 32KB block
	Block64Size = 64 << 10 // 64KB block

	maxAddressable = 1 << 24 // 3-byte addressing
)

// LinearAddress converts a page number and an offset within that page to a
// byte address.
func LinearAddress(page uint32, offset uint8) uint32 {
	return page<<pageShift + uint32(offset)
}

// Extent is a contiguous byte range on the chip.
type Extent struct {
	Addr uint32
	Len  uint32
}

// AddressCursor is the range a request resolves to. Head bytes start at
// Addr; when the request overflows the chip with PageOverflow enabled, the
// remaining Tail bytes continue from address 0.
type AddressCursor struct {
	Addr uint32
	Head uint32
	Tail uint32
}

// Extents lists the ranges of the cursor in transfer order.
func (c AddressCursor) Extents() []Extent {
	ext := make([]Extent, 0, 2)
	if c.Head > 0 {
		ext = append(ext, Extent{Addr: c.Addr, Len: c.Head})
	}
	if c.Tail > 0 {
		ext = append(ext, Extent{Addr: 0, Len: c.Tail})
	}
	return ext
}

// Wrapped reports whether part of the range continues at address 0.
func (c AddressCursor) Wrapped() bool { return c.Tail > 0 }

// checkBounds resolves [addr, addr+size) against the identified capacity.
// With wrap enabled the overflowing tail restarts at address 0; a start
// beyond the end wraps the whole range. A range longer than the chip never
// fits.
func checkBounds(d Descriptor, wrap bool, addr, size uint32) (AddressCursor, error) {
	capacity := d.Capacity
	if capacity == 0 || d.EraseTime == 0 {
		return AddressCursor{}, ErrIdentityMissing
	}
	if size > capacity {
		return AddressCursor{}, ErrOutOfBounds
	}
	if uint64(addr)+uint64(size) <= uint64(capacity) {
		return AddressCursor{Addr: addr, Head: size}, nil
	}
	if !wrap {
		return AddressCursor{}, ErrOutOfBounds
	}
	if addr >= capacity {
		return AddressCursor{Addr: 0, Head: size}, nil
	}
	head := capacity - addr
	return AddressCursor{Addr: addr, Head: head, Tail: size - head}, nil
}

func (f *Flash) checkBounds(addr, size uint32) (AddressCursor, error) {
	return checkBounds(f.desc, f.cfg.PageOverflow, addr, size)
}
