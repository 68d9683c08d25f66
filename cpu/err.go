package cpu

import (
	"errors"

	"github.com/ezrec/y86/translate"
)

var f = translate.From

var (
	// Fault kinds
	ErrIllegalOpcode    = errors.New(f("illegal instruction"))
	ErrMalformedOperand = errors.New(f("malformed operand"))
	ErrOutOfBounds      = errors.New(f("out of bounds access"))
	ErrStackUnderflow   = errors.New(f("stack underflow"))
	ErrStackOverflow    = errors.New(f("stack overflow"))

	// Engine errors
	ErrHalted    = errors.New(f("cpu halted"))
	ErrImageSize = errors.New(f("image exceeds memory"))
	ErrStepLimit = errors.New(f("step limit reached"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrDirectiveSyntax    = errors.New(f("directive syntax"))
	ErrPositionBackwards  = errors.New(f(".pos moves backwards"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOperandInvalid     = errors.New(f("operand invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrFault is the fatal error that moves the cpu to STATE_FAULTED.
type ErrFault struct {
	Ip     uint32 // Address of the faulting instruction.
	Opcode byte   // Opcode byte at Ip, if it could be fetched.
	Err    error
}

func (err *ErrFault) Error() string {
	return f("fault at 0x%04x (opcode 0x%02x): %v", err.Ip, err.Opcode, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrAddress describes a memory access outside of [0, Capacity).
type ErrAddress struct {
	Addr     uint32
	Width    int
	Capacity uint32
}

func (err ErrAddress) Error() string {
	return f("address 0x%x width %d outside memory of %d bytes", err.Addr, err.Width, err.Capacity)
}

func (err ErrAddress) Is(target error) bool {
	return target == ErrOutOfBounds
}

// ErrRegister describes a register id that is not in 0-7.
type ErrRegister RegisterId

func (err ErrRegister) Error() string {
	return f("register id %d invalid", int(err))
}

func (err ErrRegister) Is(target error) bool {
	return target == ErrRegisterInvalid
}

// ErrSentinel is a fixed operand nibble that does not hold its required value.
type ErrSentinel byte

func (err ErrSentinel) Error() string {
	return f("sentinel nibble 0x%x, expected 0x%x", byte(err), IRMOVL_SENTINEL)
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
