package spimemory

import (
	"bytes"
	"errors"
	"testing"
)

func TestStatusRegister_String(t *testing.T) {
	tests := []struct {
		sr   StatusRegister
		want string
	}{
		{0x00, "00000000"},
		{0x01, "00000001 BUSY"},
		{0x03, "00000011 WEL,BUSY"},
		{0x9C, "10011100 SRP,BP2,BP1,BP0"},
	}
	for _, tt := range tests {
		if got := tt.sr.String(); got != tt.want {
			t.Errorf("StatusRegister(%#02x).String() = %q, want %q", byte(tt.sr), got, tt.want)
		}
	}
	if got := StatusRegister2(0x82).String(); got != "10000010 SUS,QE" {
		t.Errorf("StatusRegister2(0x82).String() = %q", got)
	}
}

func TestReadStatus(t *testing.T) {
	chip := newFakeChip(t, idW25Q32, 4*mib)
	chip.sr1 = 0x02
	chip.sr2 = 0x80
	f := newTestFlash(t, chip, Config{})

	sr, err := f.ReadStatus1()
	if err != nil || !sr.WriteEnabled() || sr.Busy() {
		t.Fatalf("ReadStatus1() = %v, %v", sr, err)
	}
	sr2, err := f.ReadStatus2()
	if err != nil || !sr2.Suspended() {
		t.Fatalf("ReadStatus2() = %v, %v", sr2, err)
	}

	// one session per register; SR2 clocks two payload bytes
	want := [][]byte{{cmdReadStatus1, 0}, {cmdReadStatus2, 0, 0}}
	if len(chip.sessions) != len(want) {
		t.Fatalf("sessions = %X", chip.sessions)
	}
	for i := range want {
		if !bytes.Equal(chip.sessions[i], want[i]) {
			t.Errorf("session %d = %X, want %X", i, chip.sessions[i], want[i])
		}
	}
	checkBalanced(t, f, chip)
}

func TestIsBusy(t *testing.T) {
	chip := newFakeChip(t, idW25Q32, 4*mib)
	chip.busyFor = 1
	f := newTestFlash(t, chip, Config{})

	if busy, err := f.IsBusy(); err != nil || !busy {
		t.Errorf("IsBusy() = %v, %v, want true", busy, err)
	}
	if busy, err := f.IsBusy(); err != nil || busy {
		t.Errorf("IsBusy() = %v, %v, want false", busy, err)
	}
	if we, err := f.IsWriteEnabled(); err != nil || we {
		t.Errorf("IsWriteEnabled() = %v, %v, want false", we, err)
	}
}

func TestIsSuspended(t *testing.T) {
	t.Run("winbond", func(t *testing.T) {
		f, chip := identified(t, Config{})
		chip.sr2 = 0x80
		if sus, err := f.IsSuspended(); err != nil || !sus {
			t.Errorf("IsSuspended() = %v, %v", sus, err)
		}
		if op := chip.opcodes(); !bytes.Equal(op, []byte{cmdReadStatus2}) {
			t.Errorf("opcodes = %X, want 35", op)
		}
	})

	t.Run("microchip", func(t *testing.T) {
		for _, sr := range []byte{0x04, 0x08} {
			chip := newFakeChip(t, idSST26064, 8*mib)
			f := newTestFlash(t, chip, Config{})
			if _, err := f.Identify(); err != nil {
				t.Fatal(err)
			}
			chip.sr1 = sr
			chip.reset()
			if sus, err := f.IsSuspended(); err != nil || !sus {
				t.Errorf("sr1=%#02x: IsSuspended() = %v, %v", sr, sus, err)
			}
			if op := chip.opcodes(); !bytes.Equal(op, []byte{cmdReadStatus1}) {
				t.Errorf("opcodes = %X, want 05", op)
			}
		}
	})

	t.Run("custom", func(t *testing.T) {
		chip := newFakeChip(t, [3]byte{0xC2, 0x20, 0x16}, 4*mib)
		f := newTestFlash(t, chip, Config{CustomCapacity: 4 * mib})
		if _, err := f.Identify(); err != nil {
			t.Fatal(err)
		}
		if _, err := f.IsSuspended(); !errors.Is(err, ErrSuspendUnknown) {
			t.Errorf("IsSuspended() error = %v, want %v", err, ErrSuspendUnknown)
		}
		if !errors.Is(f.LastError(), ErrSuspendUnknown) {
			t.Errorf("LastError() = %v", f.LastError())
		}
	})
}
