package spimemory

import (
	"errors"
	"fmt"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

// DefaultClock is the SPI clock used when none is given.
const DefaultClock = 30 * physic.MegaHertz // [AN_135 3.2.1 Divisors]

// Device is an SPI port with a flash chip behind a manually driven chip
// select line.
type Device struct {
	FTDI  *ftdi.FT232H // nil unless opened with OpenFTDI
	Flash *Flash

	port  spi.PortCloser
	cs    gpio.PinIO
	hold  gpio.PinIO // optional: keeps another bus master off the flash
	clock physic.Frequency
	conn  spi.Conn
}

var hostInitialized atomic.Bool

func initHost() error {
	if hostInitialized.CompareAndSwap(false, true) {
		if _, err := host.Init(); err != nil {
			hostInitialized.Store(false)
			return fmt.Errorf("host initialization failed: %w", err)
		}
	}
	return nil
}

// OpenFTDI finds an FT2232H and opens its MPSSE SPI port.
//
//	ADBUS0 | SCK
//	ADBUS1 | MOSI
//	ADBUS2 | MISO
//	ADBUS4 | flash /CS
//	ADBUS7 | hold line of a board whose own master shares the flash (iCE40 CRESET)
func OpenFTDI(clock physic.Frequency, cfg Config) (*Device, error) {
	if err := initHost(); err != nil {
		return nil, err
	}

	d := &Device{clock: clock}
	if d.clock == 0 {
		d.clock = DefaultClock
	}
	if err := d.findFT2232H(); err != nil {
		return nil, err
	}
	d.cs = d.FTDI.D4
	d.hold = d.FTDI.D7

	port, err := d.FTDI.SPI()
	if err != nil {
		return nil, fmt.Errorf("failed to get SPI port: %w", err)
	}
	if err := d.connect(port, cfg); err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

// OpenPort opens an SPI port and a chip select pin by their periph registry
// names, e.g. "/dev/spidev0.0" and "GPIO8".
func OpenPort(portName, csName string, clock physic.Frequency, cfg Config) (*Device, error) {
	if err := initHost(); err != nil {
		return nil, err
	}

	cs := gpioreg.ByName(csName)
	if cs == nil {
		return nil, fmt.Errorf("chip select pin %q not found", csName)
	}
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", portName, err)
	}

	d := &Device{cs: cs, clock: clock}
	if d.clock == 0 {
		d.clock = DefaultClock
	}
	if err := d.connect(port, cfg); err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) connect(port spi.PortCloser, cfg Config) (err error) {
	// [FTDI AN_114|1.2]> FTDI device can only support mode 0 and mode 2 due to the limitation of MPSSE engine
	// [W25Q128|6.1.1] mode 0 and mode 3 are supported
	d.conn, err = port.Connect(d.clock, spi.Mode0|spi.NoCS, 8)
	if err != nil {
		return fmt.Errorf("SPI connection failed: %w", err)
	}
	if err := d.cs.Out(gpio.High); err != nil {
		return err
	}
	d.port = port
	d.Flash = New(NewSPITransport(d.conn, d.cs), cfg)
	return nil
}

// Hold asserts (low) or releases (high) the hold line, if the board has one.
func (d *Device) Hold(l gpio.Level) error {
	if d.hold == nil {
		return nil
	}
	return d.hold.Out(l)
}

func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}

func (d *Device) findFT2232H() error {
	const (
		vendorID  = 0x0403 // FTDI
		productID = 0x6010 // FT2232H
	)

	info := ftdi.Info{}
	for _, dev := range ftdi.All() {
		dev.Info(&info)
		if info.VenID != vendorID || info.DevID != productID {
			continue
		}
		if ft, ok := dev.(*ftdi.FT232H); ok {
			d.FTDI = ft
			return nil
		}
	}

	return errors.New("FT2232H not found")
}
