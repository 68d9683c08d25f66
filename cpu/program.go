package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated bytes.
type Opcode struct {
	LineNo     int
	Ip         uint32
	Words      []string
	Bytes      []byte
	LinkLabel  string // Label to patch into Bytes, if any.
	LinkOffset int    // Offset in Bytes of the 4-byte patched value.
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode covering ip, and the offset of ip into it.
func (prog *Program) Debug(ip uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if ip >= op.Ip && ip < op.Ip+uint32(len(op.Bytes)) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip - op.Ip),
			}
			break
		}
	}

	return
}

// Size returns the size of the memory image of the program.
func (prog *Program) Size() (size uint32) {
	for _, op := range prog.Opcodes {
		end := op.Ip + uint32(len(op.Bytes))
		if end > size {
			size = end
		}
	}

	return
}

// Binary returns the memory image of the program, starting at address 0.
func (prog *Program) Binary() (image []byte) {
	image = make([]byte, prog.Size())
	for ip, data := range prog.Codes() {
		copy(image[ip:], data)
	}

	return
}

// Codes iterates over the address and bytes of each opcode.
func (prog *Program) Codes() iter.Seq2[uint32, []byte] {
	return func(yield func(ip uint32, data []byte) bool) {
		for _, op := range prog.Opcodes {
			if len(op.Bytes) == 0 {
				continue
			}
			if !yield(op.Ip, op.Bytes) {
				return
			}
		}
	}
}
