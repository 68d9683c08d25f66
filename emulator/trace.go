package emulator

import (
	"io"

	"github.com/ezrec/y86/cpu"
	"github.com/ezrec/y86/translate"
)

// Tracer prints each executed instruction as its opcode, register byte and
// operand bytes, followed by the mnemonic.
type Tracer struct {
	Output io.Writer // Destination of the trace.
	State  bool      // If set, print the machine state after each instruction.

	Err error // First error writing to Output.
}

var _ cpu.Observer = (*Tracer)(nil)

// Observe implements cpu.Observer
func (tr *Tracer) Observe(rec cpu.Record) {
	if tr.Err != nil {
		return
	}

	ins := rec.Instruction
	data := ins.Bytes()

	var regs byte
	if ins.Size == cpu.SIZE_REGS || ins.Size == cpu.SIZE_VALUE {
		regs = data[1]
	}

	var value [4]byte
	for k, b := range cpu.Bytes(ins.Value) {
		value[k] = b
	}

	_, tr.Err = translate.Fprint(tr.Output, "%02x %02x %02x %02x %02x %02x :%v\n",
		ins.Opcode, regs, value[0], value[1], value[2], value[3], ins)
	if tr.Err != nil {
		return
	}

	if tr.State {
		tr.Err = PrintState(tr.Output, rec.Register, rec.Cond, rec.Ip)
	}
}

// PrintState prints the registers, condition codes and program counter.
func PrintState(out io.Writer, regs cpu.RegisterFile, cc cpu.ConditionCodes, ip uint32) (err error) {
	bit := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}

	_, err = translate.Fprint(out, "===Contents of Registers in HEX===\n")
	if err != nil {
		return
	}

	for id, reg := range regs {
		_, err = translate.Fprint(out, "register %v: %02x %02x %02x %02x\n",
			cpu.RegisterId(id),
			cpu.ByteAt(reg, 3), cpu.ByteAt(reg, 2), cpu.ByteAt(reg, 1), cpu.ByteAt(reg, 0))
		if err != nil {
			return
		}
	}

	_, err = translate.Fprint(out, "condition codes: of = %v, zf = %v, sf = %v\n",
		bit(cc.Overflow), bit(cc.Zero), bit(cc.Sign))
	if err != nil {
		return
	}

	_, err = translate.Fprint(out, "program counter = 0x%04x\n", ip)
	if err != nil {
		return
	}

	_, err = translate.Fprint(out, "===End Contents===\n\n")
	return
}

// PrintFinal prints the final state of a run.
func PrintFinal(out io.Writer, final cpu.FinalState) (err error) {
	err = PrintState(out, final.Register, final.Cond, final.Ip)
	if err != nil {
		return
	}

	switch {
	case final.Halted:
		_, err = translate.Fprint(out, "halted normally\n")
	case final.Fault != nil:
		_, err = translate.Fprint(out, "faulted: %v\n", final.Fault)
	default:
		_, err = translate.Fprint(out, "stopped\n")
	}

	return
}
