package spimemory

import (
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// SPITransport shifts bytes over a periph.io SPI connection and drives the
// chip select line by hand, so one session can span many Tx calls.
type SPITransport struct {
	conn spi.Conn
	cs   gpio.PinOut

	// Lock, when set, is held from Open to Close. Share one Locker between
	// all transports on the same physical bus.
	Lock sync.Locker
}

func NewSPITransport(conn spi.Conn, cs gpio.PinOut) *SPITransport {
	return &SPITransport{conn: conn, cs: cs}
}

func (t *SPITransport) Open() error {
	if t.Lock != nil {
		t.Lock.Lock()
	}
	if err := t.cs.Out(gpio.Low); err != nil {
		if t.Lock != nil {
			t.Lock.Unlock()
		}
		return err
	}
	return nil
}

func (t *SPITransport) Close() error {
	err := t.cs.Out(gpio.High)
	if t.Lock != nil {
		t.Lock.Unlock()
	}
	return err
}

func (t *SPITransport) Transfer(out byte) (byte, error) {
	w := [1]byte{out}
	r := [1]byte{}
	if err := t.conn.Tx(w[:], r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// TransferBuffer splits buf into transactions the port can carry. Chip
// select stays asserted across them.
func (t *SPITransport) TransferBuffer(dir Direction, buf []byte) error {
	const maxTx = 65536 // [FTDI-AN_108]

	for len(buf) > 0 {
		chunk := buf[:min(len(buf), maxTx)]
		var err error
		if dir == DirWrite {
			err = t.conn.Tx(chunk, nil)
		} else {
			clear(chunk)
			err = t.conn.Tx(chunk, chunk)
		}
		if err != nil {
			return err
		}
		buf = buf[len(chunk):]
	}
	return nil
}
