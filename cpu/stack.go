package cpu

// Stack is a view of the memory stack addressed by the stack pointer.
// The stack grows down from the top of memory in 4-byte slots.
type Stack struct {
	Memory *Memory
	Sp     *uint32
}

// Push decrements the stack pointer by 4 and stores value at it.
func (s Stack) Push(value uint32) (err error) {
	sp := *s.Sp
	if sp < 4 {
		err = ErrStackOverflow
		return
	}

	err = s.Memory.WriteLong(sp-4, value)
	if err != nil {
		return
	}

	*s.Sp = sp - 4
	return
}

// Pop loads the value at the stack pointer and increments it by 4.
func (s Stack) Pop() (value uint32, err error) {
	value, ok := s.Peek()
	if !ok {
		err = ErrStackUnderflow
		return
	}

	*s.Sp += 4
	return
}

// Peek returns the value at the stack pointer.
func (s Stack) Peek() (value uint32, ok bool) {
	value, err := s.Memory.ReadLong(*s.Sp)
	ok = err == nil
	return
}

// Empty returns true if the stack pointer is at or above the top of memory.
func (s Stack) Empty() bool {
	return *s.Sp >= s.Memory.Capacity()
}

// Depth returns the number of 4-byte slots between the stack pointer and the
// top of memory.
func (s Stack) Depth() int {
	if s.Empty() {
		return 0
	}
	return int(s.Memory.Capacity()-*s.Sp) / 4
}
