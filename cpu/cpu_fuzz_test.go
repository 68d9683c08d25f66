package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	f.Add([]byte{0x30, 0x80, 0x05, 0x00, 0x00, 0x00, 0x00})
	f.Add([]byte{0x80, 0x06, 0x00, 0x00, 0x00, 0x00, 0x90})
	f.Add([]byte{0xa0, 0x4f, 0xb0, 0x4f, 0x70, 0x00, 0x00, 0x00, 0x00})
	f.Add([]byte{0xff})

	f.Fuzz(func(t *testing.T, image []byte) {
		assert := assert.New(t)

		cpu := NewCpu(128)
		err := cpu.Load(image)
		if len(image) > 128 {
			assert.ErrorIs(err, ErrImageSize)
			return
		}
		assert.NoError(err)

		final, err := cpu.RunLimit(1000)
		switch {
		case err == nil:
			assert.True(final.Halted)
			assert.Equal(STATE_HALTED, cpu.State)
		case errors.Is(err, ErrStepLimit):
			assert.Equal(STATE_RUNNING, cpu.State)
		default:
			var fault *ErrFault
			assert.True(errors.As(err, &fault))
			assert.Equal(STATE_FAULTED, cpu.State)
			assert.Equal(fault.Ip, final.Ip)
			assert.False(final.Halted)
		}

		assert.LessOrEqual(cpu.Ticks, 1000)
		assert.Len(cpu.Memory.Data, 128)
	})
}

func FuzzAlu(f *testing.F) {
	f.Add(uint32(0), uint32(0))
	f.Add(uint32(0x7fff_ffff), uint32(1))
	f.Add(uint32(0x8000_0000), uint32(0xffff_ffff))

	f.Fuzz(func(t *testing.T, a uint32, b uint32) {
		assert := assert.New(t)

		sameSign := func(x, y uint32) bool { return (int32(x) < 0) == (int32(y) < 0) }

		for op := ALU_OP_ADD; op <= ALU_OP_XOR; op++ {
			cpu := NewCpu(32)
			cpu.Register[REG_ECX] = a
			cpu.Register[REG_EDX] = b
			copy(cpu.Memory.Data, MakeOp(op, REG_ECX, REG_EDX).Bytes())

			_, err := cpu.Step()
			assert.NoError(err)

			var expected uint32
			var overflow bool
			switch op {
			case ALU_OP_ADD:
				expected = a + b
				overflow = sameSign(a, b) && !sameSign(a, expected)
			case ALU_OP_SUB:
				nb := -b
				expected = a + nb
				overflow = sameSign(a, nb) && !sameSign(a, expected)
			case ALU_OP_AND:
				expected = a & b
			case ALU_OP_XOR:
				expected = a ^ b
			}

			assert.Equal(expected, cpu.Register[REG_EDX], op.String())
			assert.Equal(a, cpu.Register[REG_ECX], op.String())
			assert.Equal(expected == 0, cpu.Cond.Zero, op.String())
			assert.Equal(int32(expected) < 0, cpu.Cond.Sign, op.String())
			assert.Equal(overflow, cpu.Cond.Overflow, op.String())
			assert.Equal(uint32(2), cpu.Ip)
		}
	})
}

func FuzzMove(f *testing.F) {
	f.Add(uint8(0), uint8(3), uint32(0x1234))

	f.Fuzz(func(t *testing.T, src uint8, dst uint8, value uint32) {
		assert := assert.New(t)

		regA := RegisterId(src % REGISTER_COUNT)
		regB := RegisterId(dst % REGISTER_COUNT)

		cpu := NewCpu(32)
		copy(cpu.Memory.Data, MakeMove(COND_ALWAYS, regA, regB).Bytes())
		cpu.Register[regA] = value
		before := cpu.Register

		_, err := cpu.Step()
		assert.NoError(err)

		expected := before
		expected[regB] = value
		assert.Equal(expected, cpu.Register)
		assert.Equal(ConditionCodes{}, cpu.Cond)
	})
}
