// Package cpu implements the Y86 virtual machine and its assembler.
//
// The machine has a flat, bounds checked byte memory, eight 32-bit registers
// (register 4, %esp, is the stack pointer and starts at the top of memory),
// and three condition codes (zero, sign, overflow) set only by the
// arithmetic and logical instructions.
//
// Instructions are decoded in two tiers: the call, ret, pushl and popl
// families are matched on the upper nibble of the opcode alone, and every
// other instruction on the full opcode byte. Any error during fetch, decode
// or execute is a fault, which stops the machine in STATE_FAULTED.
package cpu
