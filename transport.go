package spimemory

// Direction selects which way TransferBuffer moves the payload.
type Direction uint8

const (
	DirRead  Direction = iota // shift out filler, store what comes back
	DirWrite                  // shift out buf, discard what comes back
)

// Transport is the byte shifter underneath a Flash. Open asserts chip select
// and takes ownership of the bus; Close releases both. Flash guarantees one
// Close per Open and never calls Open twice without a Close in between.
type Transport interface {
	Open() error
	Close() error
	Transfer(out byte) (byte, error)
	TransferBuffer(dir Direction, buf []byte) error
}
