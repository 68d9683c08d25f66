package cpu

import (
	"fmt"
	"strings"
)

// Icode is an instruction opcode byte.
type Icode byte

//go:generate go tool stringer -linecomment -type=Icode
const (
	ICODE_HALT   = Icode(0x00) // halt
	ICODE_NOP    = Icode(0x10) // nop
	ICODE_RRMOVL = Icode(0x20) // rrmovl
	ICODE_CMOVLE = Icode(0x21) // cmovle
	ICODE_CMOVL  = Icode(0x22) // cmovl
	ICODE_CMOVE  = Icode(0x23) // cmove
	ICODE_CMOVNE = Icode(0x24) // cmovne
	ICODE_CMOVGE = Icode(0x25) // cmovge
	ICODE_CMOVG  = Icode(0x26) // cmovg
	ICODE_IRMOVL = Icode(0x30) // irmovl
	ICODE_RMMOVL = Icode(0x40) // rmmovl
	ICODE_MRMOVL = Icode(0x50) // mrmovl
	ICODE_ADDL   = Icode(0x60) // addl
	ICODE_SUBL   = Icode(0x61) // subl
	ICODE_ANDL   = Icode(0x62) // andl
	ICODE_XORL   = Icode(0x63) // xorl
	ICODE_JMP    = Icode(0x70) // jmp
	ICODE_JLE    = Icode(0x71) // jle
	ICODE_JL     = Icode(0x72) // jl
	ICODE_JE     = Icode(0x73) // je
	ICODE_JNE    = Icode(0x74) // jne
	ICODE_JGE    = Icode(0x75) // jge
	ICODE_JG     = Icode(0x76) // jg
	ICODE_CALL   = Icode(0x80) // call
	ICODE_RET    = Icode(0x90) // ret
	ICODE_PUSHL  = Icode(0xa0) // pushl
	ICODE_POPL   = Icode(0xb0) // popl
)

// Family returns the upper nibble of the opcode.
func (ic Icode) Family() byte {
	return UpperNibble(byte(ic))
}

// Function returns the lower nibble of the opcode.
func (ic Icode) Function() byte {
	return LowerNibble(byte(ic))
}

// CodeCond is the condition selected by the function nibble of the
// conditional move and jump families.
type CodeCond int

//go:generate go tool stringer -linecomment -type=CodeCond
const (
	COND_ALWAYS = CodeCond(0) // always
	COND_LE     = CodeCond(1) // le
	COND_L      = CodeCond(2) // l
	COND_E      = CodeCond(3) // e
	COND_NE     = CodeCond(4) // ne
	COND_GE     = CodeCond(5) // ge
	COND_G      = CodeCond(6) // g
)

// CodeAluOp is the operation selected by the function nibble of the
// arithmetic/logical family.
type CodeAluOp int

//go:generate go tool stringer -linecomment -type=CodeAluOp
const (
	ALU_OP_ADD = CodeAluOp(0) // add
	ALU_OP_SUB = CodeAluOp(1) // sub
	ALU_OP_AND = CodeAluOp(2) // and
	ALU_OP_XOR = CodeAluOp(3) // xor
)

// Sentinel upper nibble of the irmovl register byte.
const IRMOVL_SENTINEL = 0x8

// Encoded sizes, in bytes.
const (
	SIZE_BYTE  = 1 // halt, nop, ret
	SIZE_REGS  = 2 // register pair instructions
	SIZE_DEST  = 5 // jump and call
	SIZE_VALUE = 6 // irmovl, rmmovl, mrmovl
)

// Instruction is a decoded instruction.
type Instruction struct {
	Ip     uint32     // Address of the opcode byte.
	Opcode byte       // Opcode byte as fetched.
	Icode  Icode      // Canonical opcode.
	RegA   RegisterId // Upper nibble of the register byte.
	RegB   RegisterId // Lower nibble of the register byte.
	Value  uint32     // Immediate, displacement or destination.
	Size   int        // Encoded size in bytes.
}

// Cond returns the condition of a cmovXX or jXX instruction.
func (ins Instruction) Cond() CodeCond {
	return CodeCond(ins.Icode.Function())
}

// AluOp returns the operation of an OPl instruction.
func (ins Instruction) AluOp() CodeAluOp {
	return CodeAluOp(ins.Icode.Function())
}

// makeIns creates a canonically encoded instruction.
func makeIns(icode Icode, size int, a, b RegisterId, value uint32) Instruction {
	return Instruction{
		Opcode: byte(icode),
		Icode:  icode,
		RegA:   a,
		RegB:   b,
		Value:  value,
		Size:   size,
	}
}

// MakeHalt creates a halt instruction.
func MakeHalt() Instruction {
	return makeIns(ICODE_HALT, SIZE_BYTE, REG_NONE, REG_NONE, 0)
}

// MakeNop creates a nop instruction.
func MakeNop() Instruction {
	return makeIns(ICODE_NOP, SIZE_BYTE, REG_NONE, REG_NONE, 0)
}

// MakeMove creates rrmovl (COND_ALWAYS) or a cmovXX instruction.
func MakeMove(cond CodeCond, src, dst RegisterId) Instruction {
	return makeIns(ICODE_RRMOVL|Icode(cond), SIZE_REGS, src, dst, 0)
}

// MakeIrmovl creates an immediate to register move.
func MakeIrmovl(dst RegisterId, value uint32) Instruction {
	return makeIns(ICODE_IRMOVL, SIZE_VALUE, IRMOVL_SENTINEL, dst, value)
}

// MakeRmmovl creates a register to memory move to offset(base).
func MakeRmmovl(src, base RegisterId, offset uint32) Instruction {
	return makeIns(ICODE_RMMOVL, SIZE_VALUE, src, base, offset)
}

// MakeMrmovl creates a memory to register move from offset(base).
func MakeMrmovl(dst, base RegisterId, offset uint32) Instruction {
	return makeIns(ICODE_MRMOVL, SIZE_VALUE, dst, base, offset)
}

// MakeOp creates an arithmetic/logical instruction: b = a op b.
func MakeOp(op CodeAluOp, a, b RegisterId) Instruction {
	return makeIns(ICODE_ADDL|Icode(op), SIZE_REGS, a, b, 0)
}

// MakeJump creates jmp (COND_ALWAYS) or a jXX instruction.
func MakeJump(cond CodeCond, dest uint32) Instruction {
	return makeIns(ICODE_JMP|Icode(cond), SIZE_DEST, REG_NONE, REG_NONE, dest)
}

// MakeCall creates a call instruction.
func MakeCall(dest uint32) Instruction {
	return makeIns(ICODE_CALL, SIZE_DEST, REG_NONE, REG_NONE, dest)
}

// MakeRet creates a ret instruction.
func MakeRet() Instruction {
	return makeIns(ICODE_RET, SIZE_BYTE, REG_NONE, REG_NONE, 0)
}

// MakePushl creates a pushl instruction.
func MakePushl(reg RegisterId) Instruction {
	return makeIns(ICODE_PUSHL, SIZE_REGS, reg, REG_NONE, 0)
}

// MakePopl creates a popl instruction.
func MakePopl(reg RegisterId) Instruction {
	return makeIns(ICODE_POPL, SIZE_REGS, reg, REG_NONE, 0)
}

// Bytes returns the encoding of the instruction.
func (ins Instruction) Bytes() (data []byte) {
	data = append(data, ins.Opcode)

	switch ins.Size {
	case SIZE_REGS:
		data = append(data, MakeByte(byte(ins.RegA), byte(ins.RegB)))
	case SIZE_DEST:
		for _, b := range Bytes(ins.Value) {
			data = append(data, b)
		}
	case SIZE_VALUE:
		data = append(data, MakeByte(byte(ins.RegA), byte(ins.RegB)))
		for _, b := range Bytes(ins.Value) {
			data = append(data, b)
		}
	}

	return
}

// String returns the assembly language representation of this instruction.
func (ins Instruction) String() (out string) {
	name := ins.Icode.String()

	switch ins.Icode {
	case ICODE_HALT, ICODE_NOP, ICODE_RET:
		out = name
	case ICODE_RRMOVL, ICODE_CMOVLE, ICODE_CMOVL, ICODE_CMOVE, ICODE_CMOVNE, ICODE_CMOVGE, ICODE_CMOVG,
		ICODE_ADDL, ICODE_SUBL, ICODE_ANDL, ICODE_XORL:
		out = fmt.Sprintf("%v %%%v, %%%v", name, ins.RegA, ins.RegB)
	case ICODE_IRMOVL:
		out = fmt.Sprintf("%v $%#x, %%%v", name, ins.Value, ins.RegB)
	case ICODE_RMMOVL:
		out = fmt.Sprintf("%v %%%v, %v(%%%v)", name, ins.RegA, int32(ins.Value), ins.RegB)
	case ICODE_MRMOVL:
		out = fmt.Sprintf("%v %v(%%%v), %%%v", name, int32(ins.Value), ins.RegB, ins.RegA)
	case ICODE_JMP, ICODE_JLE, ICODE_JL, ICODE_JE, ICODE_JNE, ICODE_JGE, ICODE_JG, ICODE_CALL:
		out = fmt.Sprintf("%v %#x", name, ins.Value)
	case ICODE_PUSHL, ICODE_POPL:
		out = fmt.Sprintf("%v %%%v", name, ins.RegA)
	default:
		out = fmt.Sprintf(".byte %#02x", ins.Opcode)
	}

	return
}

// Hex returns the encoded bytes as space separated hex pairs.
func (ins Instruction) Hex() string {
	var words []string
	for _, b := range ins.Bytes() {
		words = append(words, fmt.Sprintf("%02x", b))
	}
	return strings.Join(words, " ")
}
