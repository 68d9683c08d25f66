package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func memoryOf(code ...byte) (mem *Memory) {
	mem = NewMemory(64)
	copy(mem.Data, code)
	return
}

func TestDecode_Encoding(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		ins   Instruction
		bytes []byte
		text  string
	}{
		{MakeHalt(), []byte{0x00}, "halt"},
		{MakeNop(), []byte{0x10}, "nop"},
		{MakeMove(COND_ALWAYS, REG_EAX, REG_EBX), []byte{0x20, 0x03}, "rrmovl %eax, %ebx"},
		{MakeMove(COND_LE, REG_ECX, REG_EDX), []byte{0x21, 0x12}, "cmovle %ecx, %edx"},
		{MakeMove(COND_G, REG_ESI, REG_EDI), []byte{0x26, 0x67}, "cmovg %esi, %edi"},
		{MakeIrmovl(REG_EAX, 5), []byte{0x30, 0x80, 0x05, 0x00, 0x00, 0x00}, "irmovl $0x5, %eax"},
		{MakeRmmovl(REG_EAX, REG_ECX, 8), []byte{0x40, 0x01, 0x08, 0x00, 0x00, 0x00}, "rmmovl %eax, 8(%ecx)"},
		{MakeMrmovl(REG_ESI, REG_EBP, 0xffff_fffc), []byte{0x50, 0x65, 0xfc, 0xff, 0xff, 0xff}, "mrmovl -4(%ebp), %esi"},
		{MakeOp(ALU_OP_ADD, REG_EAX, REG_EBX), []byte{0x60, 0x03}, "addl %eax, %ebx"},
		{MakeOp(ALU_OP_XOR, REG_EDX, REG_EDX), []byte{0x63, 0x22}, "xorl %edx, %edx"},
		{MakeJump(COND_ALWAYS, 0x20), []byte{0x70, 0x20, 0x00, 0x00, 0x00}, "jmp 0x20"},
		{MakeJump(COND_NE, 0x1234), []byte{0x74, 0x34, 0x12, 0x00, 0x00}, "jne 0x1234"},
		{MakeCall(0x30), []byte{0x80, 0x30, 0x00, 0x00, 0x00}, "call 0x30"},
		{MakeRet(), []byte{0x90}, "ret"},
		{MakePushl(REG_EBX), []byte{0xa0, 0x3f}, "pushl %ebx"},
		{MakePopl(REG_ESP), []byte{0xb0, 0x4f}, "popl %esp"},
	}

	for _, entry := range table {
		assert.Equal(entry.bytes, entry.ins.Bytes(), entry.text)
		assert.Equal(entry.text, entry.ins.String())
		assert.Equal(len(entry.bytes), entry.ins.Size, entry.text)

		mem := memoryOf(entry.bytes...)
		ins, err := Decode(mem, 0)
		if !assert.NoError(err, entry.text) {
			continue
		}
		assert.Equal(entry.ins, ins, entry.text)
	}
}

func TestDecode_Hex(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("30 80 05 00 00 00", MakeIrmovl(REG_EAX, 5).Hex())
	assert.Equal("90", MakeRet().Hex())
}

func TestDecode_Family(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		code  []byte
		icode Icode
		size  int
	}{
		{[]byte{0x85, 0x10, 0x00, 0x00, 0x00}, ICODE_CALL, 5},
		{[]byte{0x9f}, ICODE_RET, 1},
		{[]byte{0xa5, 0x0f}, ICODE_PUSHL, 2},
		{[]byte{0xb3, 0x6f}, ICODE_POPL, 2},
	}

	for _, entry := range table {
		ins, err := Decode(memoryOf(entry.code...), 0)
		if !assert.NoError(err, entry.icode.String()) {
			continue
		}
		assert.Equal(entry.icode, ins.Icode)
		assert.Equal(entry.code[0], ins.Opcode)
		assert.Equal(entry.size, ins.Size)
		// The fetched opcode byte is preserved on re-encoding.
		assert.Equal(entry.code, ins.Bytes())
	}
}

func TestDecode_Illegal(t *testing.T) {
	assert := assert.New(t)

	for _, opcode := range []byte{0x01, 0x11, 0x27, 0x31, 0x64, 0x77, 0xc0, 0xff} {
		_, err := Decode(memoryOf(opcode, 0x00), 0)
		assert.ErrorIs(err, ErrIllegalOpcode, "%#02x", opcode)
	}
}

func TestDecode_Malformed(t *testing.T) {
	assert := assert.New(t)

	// irmovl without the 8 sentinel.
	_, err := Decode(memoryOf(0x30, 0x00, 0x05, 0, 0, 0), 0)
	assert.ErrorIs(err, ErrMalformedOperand)
	var sentinel ErrSentinel
	assert.True(errors.As(err, &sentinel))
	assert.Equal(ErrSentinel(0), sentinel)

	// Register id 8 in rrmovl.
	_, err = Decode(memoryOf(0x20, 0x80), 0)
	assert.ErrorIs(err, ErrMalformedOperand)
	assert.ErrorIs(err, ErrRegisterInvalid)

	// No register in the irmovl destination.
	_, err = Decode(memoryOf(0x30, 0x8f, 0, 0, 0, 0), 0)
	assert.ErrorIs(err, ErrMalformedOperand)

	// pushl of the 'none' register.
	_, err = Decode(memoryOf(0xa0, 0xff), 0)
	assert.ErrorIs(err, ErrMalformedOperand)
}

func TestDecode_OutOfBounds(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8)
	_, err := Decode(mem, 8)
	assert.ErrorIs(err, ErrOutOfBounds)

	// Truncated irmovl at the end of memory.
	mem.Data[4] = 0x30
	mem.Data[5] = 0x80
	_, err = Decode(mem, 4)
	assert.ErrorIs(err, ErrOutOfBounds)
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	var code []byte
	for _, ins := range []Instruction{
		MakeIrmovl(REG_EAX, 5),
		MakeIrmovl(REG_EBX, 7),
		MakeOp(ALU_OP_ADD, REG_EAX, REG_EBX),
		MakeHalt(),
	} {
		code = append(code, ins.Bytes()...)
	}

	list, err := Disassemble(memoryOf(code...), 0, uint32(len(code)))
	assert.NoError(err)
	assert.Len(list, 4)

	var text []string
	for _, ins := range list {
		text = append(text, ins.String())
	}
	assert.Equal([]string{
		"irmovl $0x5, %eax",
		"irmovl $0x7, %ebx",
		"addl %eax, %ebx",
		"halt",
	}, text)
	assert.Equal(uint32(14), list[3].Ip)

	_, err = Disassemble(memoryOf(0xff), 0, 1)
	assert.ErrorIs(err, ErrIllegalOpcode)
}
