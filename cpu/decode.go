package cpu

import (
	"errors"
)

// operandLayout is the shape of the bytes following the opcode.
type operandLayout int

const (
	LAYOUT_NONE      = operandLayout(iota) // [op]
	LAYOUT_REGS                            // [op][rA:rB]
	LAYOUT_REG_A                           // [op][rA:-]
	LAYOUT_IMMEDIATE                       // [op][8:rB][value x4]
	LAYOUT_MEMORY                          // [op][rA:rB][offset x4]
	LAYOUT_DEST                            // [op][dest x4]
)

// opcodeEntry describes how to decode and execute one opcode family.
type opcodeEntry struct {
	icode   Icode         // Canonical opcode.
	size    int           // Encoded size.
	layout  operandLayout // Operand decode.
	control bool          // Handler sets the Ip itself.
	execute func(cpu *Cpu, ins *Instruction) error
}

// familyTable dispatches on the upper nibble alone.
var familyTable = map[byte]*opcodeEntry{
	0x8: {ICODE_CALL, SIZE_DEST, LAYOUT_DEST, true, (*Cpu).execCall},
	0x9: {ICODE_RET, SIZE_BYTE, LAYOUT_NONE, true, (*Cpu).execRet},
	0xa: {ICODE_PUSHL, SIZE_REGS, LAYOUT_REG_A, false, (*Cpu).execPushl},
	0xb: {ICODE_POPL, SIZE_REGS, LAYOUT_REG_A, false, (*Cpu).execPopl},
}

// opcodeTable dispatches on the full opcode byte.
var opcodeTable = map[Icode]*opcodeEntry{}

func init() {
	add := func(icode Icode, size int, layout operandLayout, control bool, execute func(*Cpu, *Instruction) error) {
		opcodeTable[icode] = &opcodeEntry{icode, size, layout, control, execute}
	}

	add(ICODE_HALT, SIZE_BYTE, LAYOUT_NONE, false, (*Cpu).execHalt)
	add(ICODE_NOP, SIZE_BYTE, LAYOUT_NONE, false, (*Cpu).execNop)
	for cond := COND_ALWAYS; cond <= COND_G; cond++ {
		add(ICODE_RRMOVL|Icode(cond), SIZE_REGS, LAYOUT_REGS, false, (*Cpu).execMove)
		add(ICODE_JMP|Icode(cond), SIZE_DEST, LAYOUT_DEST, true, (*Cpu).execJump)
	}
	add(ICODE_IRMOVL, SIZE_VALUE, LAYOUT_IMMEDIATE, false, (*Cpu).execIrmovl)
	add(ICODE_RMMOVL, SIZE_VALUE, LAYOUT_MEMORY, false, (*Cpu).execRmmovl)
	add(ICODE_MRMOVL, SIZE_VALUE, LAYOUT_MEMORY, false, (*Cpu).execMrmovl)
	for op := ALU_OP_ADD; op <= ALU_OP_XOR; op++ {
		add(ICODE_ADDL|Icode(op), SIZE_REGS, LAYOUT_REGS, false, (*Cpu).execOp)
	}
}

// lookup finds the table entry for an opcode byte.
func lookup(opcode byte) (entry *opcodeEntry, err error) {
	entry, ok := familyTable[UpperNibble(opcode)]
	if ok {
		return
	}

	entry, ok = opcodeTable[Icode(opcode)]
	if !ok {
		err = ErrIllegalOpcode
	}
	return
}

// littleLong assembles a little-endian 32-bit value.
func littleLong(data []byte) (value uint32) {
	for k, b := range data[:4] {
		value = WithByteAt(value, k, b)
	}
	return
}

// register validates a register nibble.
func register(nibble byte) (id RegisterId, err error) {
	id = RegisterId(nibble)
	if !id.Valid() {
		err = errors.Join(ErrMalformedOperand, ErrRegister(id))
	}
	return
}

func decode(mem *Memory, ip uint32) (ins Instruction, entry *opcodeEntry, err error) {
	opcode, err := mem.Read(ip)
	if err != nil {
		return
	}

	entry, err = lookup(opcode)
	if err != nil {
		return
	}

	data, err := mem.Slice(ip, entry.size)
	if err != nil {
		return
	}

	ins = Instruction{
		Ip:     ip,
		Opcode: opcode,
		Icode:  entry.icode,
		RegA:   REG_NONE,
		RegB:   REG_NONE,
		Size:   entry.size,
	}

	switch entry.layout {
	case LAYOUT_NONE:
		// pass
	case LAYOUT_REGS, LAYOUT_MEMORY:
		ins.RegA, err = register(UpperNibble(data[1]))
		if err != nil {
			return
		}
		ins.RegB, err = register(LowerNibble(data[1]))
		if err != nil {
			return
		}
		if entry.layout == LAYOUT_MEMORY {
			ins.Value = littleLong(data[2:])
		}
	case LAYOUT_REG_A:
		ins.RegA, err = register(UpperNibble(data[1]))
		if err != nil {
			return
		}
		// The lower nibble is unused, but kept for re-encoding.
		ins.RegB = RegisterId(LowerNibble(data[1]))
	case LAYOUT_IMMEDIATE:
		if UpperNibble(data[1]) != IRMOVL_SENTINEL {
			err = errors.Join(ErrMalformedOperand, ErrSentinel(UpperNibble(data[1])))
			return
		}
		ins.RegA = IRMOVL_SENTINEL
		ins.RegB, err = register(LowerNibble(data[1]))
		if err != nil {
			return
		}
		ins.Value = littleLong(data[2:])
	case LAYOUT_DEST:
		ins.Value = littleLong(data[1:])
	}

	return
}

// Decode decodes the instruction at ip without executing it.
func Decode(mem *Memory, ip uint32) (ins Instruction, err error) {
	ins, _, err = decode(mem, ip)
	return
}

// Disassemble decodes the instructions in [start, end), stopping at the first
// undecodable byte.
func Disassemble(mem *Memory, start, end uint32) (list []Instruction, err error) {
	for ip := start; ip < end; {
		var ins Instruction
		ins, err = Decode(mem, ip)
		if err != nil {
			return
		}
		list = append(list, ins)
		ip += uint32(ins.Size)
	}

	return
}
