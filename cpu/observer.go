package cpu

// Record is the per-instruction report given to an Observer.
type Record struct {
	Instruction Instruction    // Decoded instruction.
	Register    RegisterFile   // Registers after execution.
	Cond        ConditionCodes // Condition codes after execution.
	Ip          uint32         // Program counter after execution.
}

// Observer is called synchronously once per executed instruction.
// It receives copies and cannot alter the cpu.
type Observer interface {
	Observe(rec Record)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(rec Record)

func (fn ObserverFunc) Observe(rec Record) {
	fn(rec)
}
