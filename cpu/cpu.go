package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

// State is the execution state of the cpu.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_FAULTED = State(2) // faulted
)

var _cpu_defines = map[string]string{
	"REGISTER_COUNT":  fmt.Sprintf("%v", REGISTER_COUNT),
	"IRMOVL_SENTINEL": fmt.Sprintf("%#x", IRMOVL_SENTINEL),
}

// Cpu is the fetch-decode-execute engine. It exclusively owns its memory,
// registers and condition codes.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   *Memory        // Main memory.
	Register RegisterFile   // Register bank.
	Cond     ConditionCodes // Condition codes.
	Ip       uint32         // Program counter.

	State State // Current execution state.
	Fault error // The *ErrFault that stopped the cpu, if any.
	Ticks int   // Instructions executed since reset.

	Observer Observer // Optional per-instruction observer.
}

// StepResult is the outcome of a single Step.
type StepResult struct {
	Instruction Instruction // Executed instruction.
	State       State       // State after execution.
}

// FinalState is the machine state at the end of a run.
type FinalState struct {
	Register RegisterFile
	Cond     ConditionCodes
	Ip       uint32
	Halted   bool  // True only if the run ended on a halt instruction.
	Fault    error // Set if the run ended on a fault.
}

// NewCpu creates a new CPU with capacity bytes of memory.
func NewCpu(capacity uint32) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: NewMemory(capacity),
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	defines := maps.Clone(_cpu_defines)
	defines["MEMORY_SIZE"] = fmt.Sprintf("%v", cpu.Memory.Capacity())
	defines["STACK_TOP"] = fmt.Sprintf("%#x", cpu.Memory.Capacity())
	return maps.All(defines)
}

// Reset the CPU state.
// - Zeros memory, registers and condition codes.
// - Sets the stack pointer to the top of memory.
// - Sets the Ip to 0 and the state to running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	clear(cpu.Register[:])
	cpu.Register[REG_SP] = cpu.Memory.Capacity()
	cpu.Cond = ConditionCodes{}
	cpu.Ip = 0
	cpu.State = STATE_RUNNING
	cpu.Fault = nil
	cpu.Ticks = 0
}

// Load resets the CPU and copies image to address 0.
func (cpu *Cpu) Load(image []byte) (err error) {
	cpu.Reset()

	err = cpu.Memory.Load(image)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// Stack returns the view of the stack at the stack pointer.
func (cpu *Cpu) Stack() Stack {
	return Stack{
		Memory: cpu.Memory,
		Sp:     &cpu.Register[REG_SP],
	}
}

// Step fetches, decodes and executes a single instruction.
// Any error is a fault, and moves the cpu to STATE_FAULTED.
func (cpu *Cpu) Step() (result StepResult, err error) {
	switch cpu.State {
	case STATE_HALTED:
		err = ErrHalted
		return
	case STATE_FAULTED:
		err = cpu.Fault
		return
	}

	ip := cpu.Ip

	defer func() {
		if err != nil {
			opcode, _ := cpu.Memory.Read(ip)
			err = &ErrFault{Ip: ip, Opcode: opcode, Err: err}
			cpu.State = STATE_FAULTED
			cpu.Fault = err
			if cpu.Verbose {
				log.Printf("cpu: %v", err)
			}
		}
	}()

	ins, entry, err := decode(cpu.Memory, ip)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", ip, ins)
	}

	err = entry.execute(cpu, &ins)
	if err != nil {
		return
	}

	if !entry.control {
		cpu.Ip = ip + uint32(ins.Size)
	}

	cpu.Ticks++

	result = StepResult{
		Instruction: ins,
		State:       cpu.State,
	}

	if cpu.Observer != nil {
		cpu.Observer.Observe(Record{
			Instruction: ins,
			Register:    cpu.Register,
			Cond:        cpu.Cond,
			Ip:          cpu.Ip,
		})
	}

	return
}

// Run executes until halt or fault.
func (cpu *Cpu) Run() (final FinalState, err error) {
	return cpu.RunLimit(0)
}

// RunLimit executes until halt, fault, or limit instructions have been
// executed. A limit of 0 is unlimited.
func (cpu *Cpu) RunLimit(limit int) (final FinalState, err error) {
	for steps := 0; cpu.State == STATE_RUNNING; steps++ {
		if limit > 0 && steps >= limit {
			err = ErrStepLimit
			break
		}
		_, err = cpu.Step()
		if err != nil {
			break
		}
	}

	final = cpu.Final()
	return
}

// Final returns a snapshot of the current state.
func (cpu *Cpu) Final() FinalState {
	return FinalState{
		Register: cpu.Register,
		Cond:     cpu.Cond,
		Ip:       cpu.Ip,
		Halted:   cpu.State == STATE_HALTED,
		Fault:    cpu.Fault,
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %04x\n", "ip", cpu.Ip)
	text += fmt.Sprintf("% 5s: %v\n", "cc", cpu.Cond)
	text += fmt.Sprintf("% 5s: %v\n", "state", cpu.State)
	text += cpu.Register.String()

	stack := cpu.Stack()
	if val, ok := stack.Peek(); ok {
		text += fmt.Sprintf("% 5s: %04X_%04X (%d)\n", "stack", HalfAt(val, 1), HalfAt(val, 0), stack.Depth())
	} else {
		text += fmt.Sprintf("% 5s: ----_----\n", "stack")
	}

	return
}
