package emulator

import (
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/y86/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.Equal(uint32(MEMORY_SIZE), emu.Cpu.Memory.Capacity())
	assert.Equal(uint32(MEMORY_SIZE), emu.Cpu.Register[cpu.REG_ESP])
	assert.NotNil(emu.Program)
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulatorSize(0x100)
	defines := maps.Collect(emu.Defines())

	assert.Equal("5000", defines["DEFAULT_MEMORY_SIZE"])
	assert.Equal("256", defines["MEMORY_SIZE"])
	assert.Equal("0x100", defines["STACK_TOP"])
}

func TestEmulator_Assemble(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"irmovl STACK_TOP, %esp", // 0x00
		"irmovl $3, %eax",        // 0x06
		"call double",            // 0x0c
		"halt",                   // 0x11
		"double:",
		"addl %eax, %eax", // 0x12
		"ret",             // 0x14
	}

	emu := NewEmulatorSize(0x100)
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.Equal(1, emu.LineNo())

	var lines []int
	for {
		lines = append(lines, emu.LineNo())
		done, err := emu.Tick()
		if !assert.NoError(err) || done {
			break
		}
	}
	assert.Equal([]int{1, 2, 3, 6, 7, 4}, lines)
	assert.Equal(uint32(6), emu.Cpu.Register[cpu.REG_EAX])
	assert.Equal(uint32(0x12), emu.Cpu.Ip)

	// Halted emulators stay done.
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)

	// Reset reloads the program.
	assert.NoError(emu.Reset())
	assert.Equal(uint32(0), emu.Cpu.Ip)
	final, err := emu.Run()
	assert.NoError(err)
	assert.True(final.Halted)
	assert.Equal(uint32(6), final.Register[cpu.REG_EAX])
}

func TestEmulator_Assemble_Error(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader("nop\nbogus\n"))
	var syntax *cpu.ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(2, syntax.LineNo)
}

func TestEmulator_RuntimeError(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"nop",
		"irmovl $0x1000, %ecx",
		"mrmovl 0(%ecx), %eax",
		"halt",
	}

	emu := NewEmulatorSize(0x100)
	assert.NoError(emu.Assemble(strings.NewReader(strings.Join(program, "\n"))))

	final, err := emu.Run()
	assert.ErrorIs(err, cpu.ErrOutOfBounds)
	assert.False(final.Halted)
	assert.NotNil(final.Fault)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(3, runtime.LineNo)
		assert.Equal(uint32(7), runtime.Ip)
	}

	var fault *cpu.ErrFault
	assert.True(errors.As(err, &fault))
}

func TestEmulator_LoadImage(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	image := []byte{0x30, 0x80, 0x05, 0x00, 0x00, 0x00, 0x00}
	assert.NoError(emu.LoadImage(image))
	assert.Equal(image, emu.Image())
	assert.Equal(0, emu.LineNo())

	final, err := emu.Run()
	assert.NoError(err)
	assert.True(final.Halted)
	assert.Equal(uint32(5), final.Register[cpu.REG_EAX])
	assert.Equal(uint32(7), final.Ip)

	emu = NewEmulatorSize(4)
	assert.ErrorIs(emu.LoadImage(image), cpu.ErrImageSize)
}

func TestEmulator_Limit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.NoError(emu.Assemble(strings.NewReader("loop: jmp loop\n")))
	emu.Limit = 100

	final, err := emu.Run()
	assert.ErrorIs(err, cpu.ErrStepLimit)
	assert.False(final.Halted)
	assert.Nil(final.Fault)
	assert.Equal(100, emu.Cpu.Ticks)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(1, runtime.LineNo)
	}
}
