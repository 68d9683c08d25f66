// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/y86/cpu"
	"github.com/ezrec/y86/internal"
)

const (
	MEMORY_SIZE = 5000 // Default memory capacity in bytes.
)

var _emulator_defines = map[string]string{
	"DEFAULT_MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
}

// Emulator state. CPU + program listing + boot image.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Limit    int          // Maximum instructions per run, 0 for unlimited.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	image []byte // Image loaded at address 0 on reset.
}

// NewEmulator creates a new emulator with MEMORY_SIZE bytes of memory.
func NewEmulator() (emu *Emulator) {
	return NewEmulatorSize(MEMORY_SIZE)
}

// NewEmulatorSize creates a new emulator with capacity bytes of memory.
func NewEmulatorSize(capacity uint32) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(capacity),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble parses source text into the program listing, and loads its image.
func (emu *Emulator) Assemble(source io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err := asm.Parse(source)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.image = prog.Binary()

	err = emu.Reset()
	return
}

// LoadImage loads a raw memory image. There is no program listing.
func (emu *Emulator) LoadImage(image []byte) (err error) {
	emu.Program = &cpu.Program{}
	emu.image = slices.Clone(image)

	err = emu.Reset()
	return
}

// Image returns the image loaded on reset.
func (emu *Emulator) Image() []byte {
	return emu.image
}

// Reset the cpu and reload the image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Load(emu.image)
	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// Tick performs a single instruction of the emulator.
// done is set once the cpu has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	ip := emu.Cpu.Ip
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	if emu.Limit > 0 && emu.Cpu.Ticks >= emu.Limit {
		err = cpu.ErrStepLimit
		return
	}

	result, err := emu.Cpu.Step()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = result.State == cpu.STATE_HALTED
	return
}

// Run ticks the emulator until halt or error.
func (emu *Emulator) Run() (final cpu.FinalState, err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			break
		}
	}

	if emu.Verbose {
		log.Printf("emulator: %d instructions", emu.Cpu.Ticks)
	}

	final = emu.Cpu.Final()
	return
}
