package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const (
	// IMAGE_LINE_BYTES is the number of bytes per line written by WriteTo.
	IMAGE_LINE_BYTES = 16
)

// Image is a memory image stored as ASCII hex digit pairs, loaded at
// address 0.
type Image struct {
	Capacity int // Maximum size of the image in bytes. 0 is unlimited.
	Data     []byte
}

var _ io.ReaderFrom = (*Image)(nil)
var _ io.WriterTo = (*Image)(nil)

// nibble returns the value of a hex digit.
func nibble(c byte) (value byte, ok bool) {
	switch {
	case c >= '0' && c <= '9':
		value, ok = c-'0', true
	case c >= 'a' && c <= 'f':
		value, ok = c-'a'+10, true
	case c >= 'A' && c <= 'F':
		value, ok = c-'A'+10, true
	}
	return
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// ReadFrom replaces the image with the bytes decoded from a hex text stream.
// Whitespace may appear between digit pairs.
func (img *Image) ReadFrom(r io.Reader) (n int64, err error) {
	img.Data = img.Data[:0]

	reader := bufio.NewReader(r)

	var value byte
	var pending bool

	for {
		var c byte
		c, err = reader.ReadByte()
		if errors.Is(err, io.EOF) {
			err = nil
			break
		}
		if err != nil {
			return
		}
		n++

		if isSpace(c) {
			if pending {
				err = ErrHexDigit{Offset: n - 1, Char: c}
				return
			}
			continue
		}

		digit, ok := nibble(c)
		if !ok {
			err = ErrHexDigit{Offset: n - 1, Char: c}
			return
		}

		if !pending {
			value = digit << 4
			pending = true
			continue
		}

		if img.Capacity > 0 && len(img.Data) >= img.Capacity {
			err = ErrImageFull
			return
		}

		img.Data = append(img.Data, value|digit)
		pending = false
	}

	if pending {
		err = ErrHexOdd
	}

	return
}

// WriteTo writes the image as hex digit pairs, IMAGE_LINE_BYTES per line.
func (img *Image) WriteTo(w io.Writer) (n int64, err error) {
	writer := bufio.NewWriter(w)

	for index, b := range img.Data {
		sep := " "
		if index%IMAGE_LINE_BYTES == IMAGE_LINE_BYTES-1 || index == len(img.Data)-1 {
			sep = "\n"
		}

		var count int
		count, err = fmt.Fprintf(writer, "%02x%s", b, sep)
		n += int64(count)
		if err != nil {
			return
		}
	}

	err = writer.Flush()
	return
}
