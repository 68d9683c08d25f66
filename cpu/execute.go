package cpu

// Instruction handlers. Register ids have been validated by the decoder.

func (cpu *Cpu) execHalt(ins *Instruction) (err error) {
	cpu.State = STATE_HALTED
	return
}

func (cpu *Cpu) execNop(ins *Instruction) (err error) {
	return
}

// execMove is rrmovl and cmovXX.
func (cpu *Cpu) execMove(ins *Instruction) (err error) {
	if cpu.Cond.Test(ins.Cond()) {
		cpu.Register[ins.RegB] = cpu.Register[ins.RegA]
	}
	return
}

func (cpu *Cpu) execIrmovl(ins *Instruction) (err error) {
	cpu.Register[ins.RegB] = ins.Value
	return
}

// effective returns offset(base) for the memory move instructions.
func (cpu *Cpu) effective(ins *Instruction) uint32 {
	return cpu.Register[ins.RegB] + ins.Value
}

func (cpu *Cpu) execRmmovl(ins *Instruction) (err error) {
	err = cpu.Memory.WriteLong(cpu.effective(ins), cpu.Register[ins.RegA])
	return
}

func (cpu *Cpu) execMrmovl(ins *Instruction) (err error) {
	value, err := cpu.Memory.ReadLong(cpu.effective(ins))
	if err != nil {
		return
	}

	cpu.Register[ins.RegA] = value
	return
}

// addOverflow is the signed overflow test for result = a + b.
func addOverflow(a, b, result uint32) bool {
	return int32((a^result)&(b^result)) < 0
}

// doAlu performs the requested ALU action: a op b.
func doAlu(op CodeAluOp, a uint32, b uint32) (result uint32, overflow bool) {
	switch op {
	case ALU_OP_ADD:
		result = a + b
		overflow = addOverflow(a, b, result)
	case ALU_OP_SUB:
		b = (^b) + 1
		result = a + b
		overflow = addOverflow(a, b, result)
	case ALU_OP_AND:
		result = a & b
	case ALU_OP_XOR:
		result = a ^ b
	}

	return
}

// execOp is addl, subl, andl and xorl. The result goes to rB.
func (cpu *Cpu) execOp(ins *Instruction) (err error) {
	result, overflow := doAlu(ins.AluOp(), cpu.Register[ins.RegA], cpu.Register[ins.RegB])
	cpu.Register[ins.RegB] = result
	cpu.Cond.Update(result, overflow)
	return
}

// transfer sets the Ip to a control transfer destination.
func (cpu *Cpu) transfer(dest uint32) (err error) {
	err = cpu.Memory.Check(dest, 1)
	if err != nil {
		return
	}

	cpu.Ip = dest
	return
}

// execJump is jmp and jXX. Not taken jumps skip the whole encoding.
func (cpu *Cpu) execJump(ins *Instruction) (err error) {
	if !cpu.Cond.Test(ins.Cond()) {
		cpu.Ip = ins.Ip + uint32(ins.Size)
		return
	}

	err = cpu.transfer(ins.Value)
	return
}

func (cpu *Cpu) execCall(ins *Instruction) (err error) {
	err = cpu.Memory.Check(ins.Value, 1)
	if err != nil {
		return
	}

	err = cpu.Stack().Push(ins.Ip + uint32(ins.Size))
	if err != nil {
		return
	}

	err = cpu.transfer(ins.Value)
	return
}

func (cpu *Cpu) execRet(ins *Instruction) (err error) {
	stack := cpu.Stack()

	// Validate the return address before the stack pointer moves.
	dest, ok := stack.Peek()
	if !ok {
		err = ErrStackUnderflow
		return
	}
	err = cpu.Memory.Check(dest, 1)
	if err != nil {
		return
	}

	_, err = stack.Pop()
	if err != nil {
		return
	}

	cpu.Ip = dest
	return
}

func (cpu *Cpu) execPushl(ins *Instruction) (err error) {
	err = cpu.Stack().Push(cpu.Register[ins.RegA])
	return
}

func (cpu *Cpu) execPopl(ins *Instruction) (err error) {
	value, err := cpu.Stack().Pop()
	if err != nil {
		return
	}

	cpu.Register[ins.RegA] = value
	return
}
