package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)
	assert.Equal(uint32(16), mem.Capacity())

	assert.NoError(mem.Write(0, 0x12))
	assert.NoError(mem.Write(15, 0x34))

	val, err := mem.Read(15)
	assert.NoError(err)
	assert.Equal(byte(0x34), val)

	err = mem.Write(16, 0x56)
	assert.True(errors.Is(err, ErrOutOfBounds))

	_, err = mem.Read(16)
	assert.True(errors.Is(err, ErrOutOfBounds))

	var addr ErrAddress
	assert.True(errors.As(err, &addr))
	assert.Equal(ErrAddress{Addr: 16, Width: 1, Capacity: 16}, addr)
}

func TestMemory_Long(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	err := mem.WriteLong(12, 0x1122_3344)
	assert.NoError(err)
	assert.Equal([]byte{0x44, 0x33, 0x22, 0x11}, mem.Data[12:16])

	val, err := mem.ReadLong(12)
	assert.NoError(err)
	assert.Equal(uint32(0x1122_3344), val)

	// No partial writes.
	err = mem.WriteLong(13, 0xaabb_ccdd)
	assert.True(errors.Is(err, ErrOutOfBounds))
	assert.Equal([]byte{0x44, 0x33, 0x22, 0x11}, mem.Data[12:16])

	_, err = mem.ReadLong(13)
	assert.True(errors.Is(err, ErrOutOfBounds))

	// Address wraparound is not a way around the check.
	_, err = mem.ReadLong(0xffff_fffe)
	assert.True(errors.Is(err, ErrOutOfBounds))
}

func TestMemory_Check(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8)

	table := []struct {
		addr  uint32
		width int
		ok    bool
	}{
		{0, 1, true},
		{0, 8, true},
		{4, 4, true},
		{5, 4, false},
		{7, 1, true},
		{8, 1, false},
		{0, 0, false},
		{0xffff_ffff, 1, false},
	}

	for _, entry := range table {
		err := mem.Check(entry.addr, entry.width)
		if entry.ok {
			assert.NoError(err, "%#x/%d", entry.addr, entry.width)
		} else {
			assert.True(errors.Is(err, ErrOutOfBounds), "%#x/%d", entry.addr, entry.width)
		}
	}
}

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(4)
	assert.NoError(mem.Load([]byte{1, 2, 3}))
	assert.Equal([]byte{1, 2, 3, 0}, mem.Data)

	err := mem.Load([]byte{1, 2, 3, 4, 5})
	assert.ErrorIs(err, ErrImageSize)

	mem.Reset()
	assert.Equal([]byte{0, 0, 0, 0}, mem.Data)
}

func TestMemory_Slice(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8)
	data, err := mem.Slice(2, 3)
	assert.NoError(err)
	assert.Len(data, 3)

	data[0] = 0xee
	assert.Equal(byte(0xee), mem.Data[2])

	_, err = mem.Slice(6, 3)
	assert.ErrorIs(err, ErrOutOfBounds)
}
