package emulator

import (
	"github.com/ezrec/y86/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int    // Source line, or 0 if there is no listing.
	Ip     uint32 // Address of the failing instruction.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("0x%04x: %v", err.Ip, err.Err)
	}
	return f("line %v (0x%04x): %v", err.LineNo, err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
