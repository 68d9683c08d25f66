package cpu

// Memory is the flat, zero-initialised, byte addressed memory of the machine.
// Every access is bounds checked over its full width.
type Memory struct {
	Data []byte
}

// NewMemory creates a memory of capacity bytes.
func NewMemory(capacity uint32) (mem *Memory) {
	mem = &Memory{
		Data: make([]byte, capacity),
	}

	return
}

// Capacity returns the size of memory in bytes.
func (mem *Memory) Capacity() uint32 {
	return uint32(len(mem.Data))
}

// Reset zeros all of memory.
func (mem *Memory) Reset() {
	clear(mem.Data)
}

// Load copies image to address 0. The image must fit in memory.
func (mem *Memory) Load(image []byte) (err error) {
	if len(image) > len(mem.Data) {
		err = ErrImageSize
		return
	}

	copy(mem.Data, image)
	return
}

// Check verifies that [addr, addr+width) lies within memory.
func (mem *Memory) Check(addr uint32, width int) (err error) {
	if width < 1 || uint64(addr)+uint64(width) > uint64(len(mem.Data)) {
		err = ErrAddress{Addr: addr, Width: width, Capacity: mem.Capacity()}
	}
	return
}

// Read returns the byte at addr.
func (mem *Memory) Read(addr uint32) (value byte, err error) {
	err = mem.Check(addr, 1)
	if err != nil {
		return
	}

	value = mem.Data[addr]
	return
}

// Write sets the byte at addr.
func (mem *Memory) Write(addr uint32, value byte) (err error) {
	err = mem.Check(addr, 1)
	if err != nil {
		return
	}

	mem.Data[addr] = value
	return
}

// Slice returns width bytes of memory starting at addr.
// The returned slice aliases memory.
func (mem *Memory) Slice(addr uint32, width int) (data []byte, err error) {
	err = mem.Check(addr, width)
	if err != nil {
		return
	}

	data = mem.Data[addr : addr+uint32(width)]
	return
}

// ReadLong reads a little-endian 32-bit value at addr.
func (mem *Memory) ReadLong(addr uint32) (value uint32, err error) {
	data, err := mem.Slice(addr, 4)
	if err != nil {
		return
	}

	for k, b := range data {
		value = WithByteAt(value, k, b)
	}
	return
}

// WriteLong writes value as little-endian 32 bits at addr.
// Nothing is written if any byte would be out of bounds.
func (mem *Memory) WriteLong(addr uint32, value uint32) (err error) {
	data, err := mem.Slice(addr, 4)
	if err != nil {
		return
	}

	for k, b := range Bytes(value) {
		data[k] = b
	}
	return
}
