package spimemory

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of driver failures. Every value except ErrNone
// is an error and can be matched with errors.Is.
type ErrorKind uint8

const (
	ErrNone ErrorKind = iota
	ErrIdentityMissing
	ErrNoResponse
	ErrUnknownCapacity
	ErrUnknownChip // advisory: custom capacity accepted
	ErrOutOfBounds
	ErrChipBusyTimeout
	ErrWriteEnableTimeout
	ErrNotErased
	ErrSuspendUnknown
	ErrSystemSuspended
)

var errorKindText = [...]string{
	ErrNone:               "no error",
	ErrIdentityMissing:    "chip not identified",
	ErrNoResponse:         "no response from chip",
	ErrUnknownCapacity:    "unknown chip capacity",
	ErrUnknownChip:        "unknown chip, custom capacity in use",
	ErrOutOfBounds:        "address out of bounds",
	ErrChipBusyTimeout:    "chip busy timeout",
	ErrWriteEnableTimeout: "write enable timeout",
	ErrNotErased:          "target range not erased",
	ErrSuspendUnknown:     "suspend status unknown for chip family",
	ErrSystemSuspended:    "program/erase suspended",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindText) {
		return errorKindText[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

func (k ErrorKind) Error() string { return "spimemory: " + k.String() }

// errSessionOpen is returned when a bus session is requested while one is
// still open. It indicates a sequencing bug, not a chip condition.
var errSessionOpen = errors.New("spimemory: bus session already open")

// OpError records the operation and address that failed.
type OpError struct {
	Op   string
	Addr uint32
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s 0x%06X: %v", e.Op, e.Addr, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind carried by err, or ErrNone if err does not
// wrap one (nil, transport failures).
func KindOf(err error) ErrorKind {
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return ErrNone
}
