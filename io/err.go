package io

import (
	"errors"

	"github.com/ezrec/y86/translate"
)

var f = translate.From

var (
	// Image errors
	ErrImageFull = errors.New(f("image full"))
	ErrHexOdd    = errors.New(f("hex image has an odd number of digits"))
)

// ErrHexDigit is a character in a hex image that is neither a hex digit
// nor whitespace.
type ErrHexDigit struct {
	Offset int64 // Offset of the character in the input.
	Char   byte
}

func (err ErrHexDigit) Error() string {
	return f("invalid hex digit %q at offset %d", rune(err.Char), err.Offset)
}
