package spimemory

import (
	"errors"
	"testing"
	"time"
)

func TestLinearAddress(t *testing.T) {
	for _, page := range []uint32{0, 1, 255, 256, 0xFFFF} {
		seen := map[uint32]bool{}
		for off := 0; off < PageSize; off++ {
			got := LinearAddress(page, uint8(off))
			if want := page<<8 + uint32(off); got != want {
				t.Fatalf("LinearAddress(%d, %d) = %#x, want %#x", page, off, got, want)
			}
			if seen[got] {
				t.Fatalf("LinearAddress(%d, %d) = %#x repeated within page", page, off, got)
			}
			seen[got] = true
		}
	}
}

func TestCheckBounds(t *testing.T) {
	d := Descriptor{Capacity: 1 << 20, EraseTime: time.Second}
	const capacity = 1 << 20

	tests := []struct {
		name       string
		desc       Descriptor
		wrap       bool
		addr, size uint32
		want       AddressCursor
		wantErr    error
	}{
		{"unidentified", Descriptor{}, false, 0, 1, AddressCursor{}, ErrIdentityMissing},
		{"capacity only", Descriptor{Capacity: capacity}, false, 0, 1, AddressCursor{}, ErrIdentityMissing},
		{"inside", d, false, 0x100, 0x200, AddressCursor{Addr: 0x100, Head: 0x200}, nil},
		{"ends at capacity", d, false, capacity - 16, 16, AddressCursor{Addr: capacity - 16, Head: 16}, nil},
		{"empty", d, false, 0x10, 0, AddressCursor{Addr: 0x10}, nil},
		{"overflow", d, false, capacity - 16, 17, AddressCursor{}, ErrOutOfBounds},
		{"start past end", d, false, capacity, 1, AddressCursor{}, ErrOutOfBounds},
		{"address overflow", d, false, 0xFFFFFFFF, 2, AddressCursor{}, ErrOutOfBounds},
		{"wrap tail", d, true, capacity - 16, 48, AddressCursor{Addr: capacity - 16, Head: 16, Tail: 32}, nil},
		{"wrap from past end", d, true, capacity + 5, 8, AddressCursor{Addr: 0, Head: 8}, nil},
		{"wrap larger than chip", d, true, 0, capacity + 1, AddressCursor{}, ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkBounds(tt.desc, tt.wrap, tt.addr, tt.size)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("checkBounds() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("checkBounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAddressCursorExtents(t *testing.T) {
	c := AddressCursor{Addr: 0xFFF0, Head: 0x10, Tail: 0x20}
	ext := c.Extents()
	if len(ext) != 2 || ext[0] != (Extent{0xFFF0, 0x10}) || ext[1] != (Extent{0, 0x20}) {
		t.Errorf("Extents() = %v", ext)
	}
	if !c.Wrapped() {
		t.Error("Wrapped() = false")
	}
	if ext := (AddressCursor{Addr: 4}).Extents(); len(ext) != 0 {
		t.Errorf("empty cursor Extents() = %v", ext)
	}
}
