package cpu

import (
	"fmt"
	"iter"
)

// RegisterId is a register index, as encoded in an instruction nibble.
type RegisterId int

//go:generate go tool stringer -linecomment -type=RegisterId
const (
	REG_EAX  = RegisterId(0)   // eax
	REG_ECX  = RegisterId(1)   // ecx
	REG_EDX  = RegisterId(2)   // edx
	REG_EBX  = RegisterId(3)   // ebx
	REG_ESP  = RegisterId(4)   // esp
	REG_EBP  = RegisterId(5)   // ebp
	REG_ESI  = RegisterId(6)   // esi
	REG_EDI  = RegisterId(7)   // edi
	REG_NONE = RegisterId(0xf) // none
)

const (
	REGISTER_COUNT = 8       // Number of general purpose registers.
	REG_SP         = REG_ESP // Stack pointer.
)

// Valid returns true if the id names one of the eight registers.
func (id RegisterId) Valid() bool {
	return id >= 0 && id < REGISTER_COUNT
}

// Byte and register views. Byte 0 is the least significant byte, which is
// also the first byte in memory transfer order.

// UpperNibble returns the upper 4 bits of b.
func UpperNibble(b byte) byte {
	return b >> 4
}

// LowerNibble returns the lower 4 bits of b.
func LowerNibble(b byte) byte {
	return b & 0xf
}

// MakeByte builds a byte from two nibbles.
func MakeByte(upper, lower byte) byte {
	return (upper&0xf)<<4 | (lower & 0xf)
}

// ByteAt returns byte k (0-3) of reg.
func ByteAt(reg uint32, k int) byte {
	k &= 3 // clamp to the 4 bytes of a register
	return byte(reg >> (8 * k))
}

// WithByteAt returns reg with byte k (0-3) replaced by value.
func WithByteAt(reg uint32, k int, value byte) uint32 {
	k &= 3
	shift := 8 * k
	return (reg &^ (0xff << shift)) | (uint32(value) << shift)
}

// HalfAt returns the lower (k=0) or upper (k=1) 16 bits of reg.
func HalfAt(reg uint32, k int) uint16 {
	k &= 1
	return uint16(reg >> (16 * k))
}

// WithHalfAt returns reg with half k replaced by value.
func WithHalfAt(reg uint32, k int, value uint16) uint32 {
	k &= 1
	shift := 16 * k
	return (reg &^ (0xffff << shift)) | (uint32(value) << shift)
}

// Bytes returns an iterator over the four bytes of reg, in memory order.
func Bytes(reg uint32) iter.Seq2[int, byte] {
	return func(yield func(k int, b byte) bool) {
		for k := range 4 {
			if !yield(k, ByteAt(reg, k)) {
				return
			}
		}
	}
}

// RegisterFile is the bank of eight 32-bit registers.
type RegisterFile [REGISTER_COUNT]uint32

// Get returns the value of register id.
func (rf *RegisterFile) Get(id RegisterId) (value uint32, err error) {
	if !id.Valid() {
		err = ErrRegister(id)
		return
	}

	value = rf[id]
	return
}

// Set sets the value of register id.
func (rf *RegisterFile) Set(id RegisterId, value uint32) (err error) {
	if !id.Valid() {
		err = ErrRegister(id)
		return
	}

	rf[id] = value
	return
}

// GetByte returns byte k of register id.
func (rf *RegisterFile) GetByte(id RegisterId, k int) (value byte, err error) {
	reg, err := rf.Get(id)
	if err != nil {
		return
	}
	if k < 0 || k > 3 {
		err = fmt.Errorf("%w: byte %d", ErrOperandInvalid, k)
		return
	}

	value = ByteAt(reg, k)
	return
}

// SetByte replaces byte k of register id.
func (rf *RegisterFile) SetByte(id RegisterId, k int, value byte) (err error) {
	reg, err := rf.Get(id)
	if err != nil {
		return
	}
	if k < 0 || k > 3 {
		err = fmt.Errorf("%w: byte %d", ErrOperandInvalid, k)
		return
	}

	rf[id] = WithByteAt(reg, k, value)
	return
}

// String returns the register bank, one register per line.
func (rf *RegisterFile) String() (text string) {
	for n, val := range rf {
		text += fmt.Sprintf("% 5s: %04X_%04X\n", RegisterId(n), HalfAt(val, 1), HalfAt(val, 0))
	}
	return
}
