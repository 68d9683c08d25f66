// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":          "0",
	"IRMOVL_SENTINEL": fmt.Sprintf("%#x", IRMOVL_SENTINEL),
}

// Assembler is a single pass macro assembler for Y86 source text.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]uint32   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	ip uint32 // Address of the next opcode.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to ids.
var regMap = map[string]RegisterId{}

func init() {
	for id := REG_EAX; id < REGISTER_COUNT; id++ {
		regMap[id.String()] = id
	}
}

var (
	reLabel  = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
	reMemory = regexp.MustCompile(`^([^(]*)\((%?[a-z]+)\)$`)
	reChar   = regexp.MustCompile(`'\\?[^']'`)
	reParen  = regexp.MustCompile(`\$\([^\$]*\)`)
)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	word = strings.TrimPrefix(word, "$")
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}

	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}
	value = uint32(v64)

	if invert {
		value = ^value
	}

	return
}

// valueOrLabel returns a value, or the name of a label to link later.
func (asm *Assembler) valueOrLabel(word string) (value uint32, label string, err error) {
	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	name := strings.TrimPrefix(word, "$")
	if !reLabel.MatchString(name) {
		return
	}

	err = nil
	if ip, ok := asm.Label[name]; ok {
		value = ip
		return
	}

	label = name
	return
}

// registerOf returns the register named by word.
func (asm *Assembler) registerOf(word string) (id RegisterId, err error) {
	id, ok := regMap[strings.TrimPrefix(word, "%")]
	if !ok {
		err = errors.Join(ErrRegisterInvalid, ErrParseNumber(word))
	}
	return
}

// memoryOf parses a D(%reg) operand.
func (asm *Assembler) memoryOf(word string) (offset uint32, base RegisterId, label string, err error) {
	match := reMemory.FindStringSubmatch(word)
	if match == nil {
		err = ErrOperandInvalid
		return
	}

	if len(match[1]) != 0 {
		offset, label, err = asm.valueOrLabel(match[1])
		if err != nil {
			return
		}
	}

	base, err = asm.registerOf(match[2])
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	for key, ip := range asm.Label {
		if reLabel.MatchString(key) && !strings.Contains(key, ".") {
			pred[key] = starlark.MakeInt(int(ip))
		}
	}
	err = nil
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reChar.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")
	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next, with or without an immediate marker.
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		} else if equate, ok = asm.Equate[strings.TrimPrefix(word, "$")]; ok {
			words[n] = "$" + equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint32, 16)
		}
		asm.Label[label] = asm.ip
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, asm.ip))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// stripComment removes '#' and ';' comments.
func stripComment(text string) string {
	if n := strings.IndexAny(text, "#;"); n >= 0 {
		text = text[:n]
	}
	return strings.TrimSpace(text)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.ip = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = stripComment(text)
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		ip, ok := asm.Label[label]
		if !ok {
			line = strings.Join(op.Words, " ")
			lineno = op.LineNo
			err = ErrLabelMissing(label)
			return
		}
		if op.LinkOffset+4 > len(op.Bytes) {
			log.Fatalf("Unable to link label '%s' at line %d: %v", label, op.LineNo, op.Words)
		}
		for k, b := range Bytes(ip) {
			op.Bytes[op.LinkOffset+k] = b
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// moveMap maps register to register move names to conditions.
var moveMap = map[string]CodeCond{
	"rrmovl": COND_ALWAYS,
	"cmovle": COND_LE,
	"cmovl":  COND_L,
	"cmove":  COND_E,
	"cmovne": COND_NE,
	"cmovge": COND_GE,
	"cmovg":  COND_G,
}

// jumpMap maps jump names to conditions.
var jumpMap = map[string]CodeCond{
	"jmp": COND_ALWAYS,
	"jle": COND_LE,
	"jl":  COND_L,
	"je":  COND_E,
	"jne": COND_NE,
	"jge": COND_GE,
	"jg":  COND_G,
}

// aluMap maps arithmetic/logical names.
var aluMap = map[string]CodeAluOp{
	"addl": ALU_OP_ADD,
	"subl": ALU_OP_SUB,
	"andl": ALU_OP_AND,
	"xorl": ALU_OP_XOR,
}

// argCount checks the number of arguments after the mnemonic.
func argCount(words []string, count int) (err error) {
	switch {
	case len(words)-1 < count:
		err = ErrOpcodeValueMissing
	case len(words)-1 > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseDirective handles .pos, .align and .long
func (asm *Assembler) parseDirective(words []string) (data []byte, label string, err error) {
	err = argCount(words, 1)
	if err != nil {
		return
	}

	switch words[0] {
	case ".pos":
		var pos uint32
		pos, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if pos < asm.ip {
			err = ErrPositionBackwards
			return
		}
		asm.ip = pos
	case ".align":
		var align uint32
		align, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if align == 0 {
			err = ErrDirectiveSyntax
			return
		}
		if rem := asm.ip % align; rem != 0 {
			asm.ip += align - rem
		}
	case ".long":
		var value uint32
		value, label, err = asm.valueOrLabel(words[1])
		if err != nil {
			return
		}
		for _, b := range Bytes(value) {
			data = append(data, b)
		}
	default:
		err = ErrDirectiveSyntax
	}

	return
}

// parseInstruction encodes a single instruction.
func (asm *Assembler) parseInstruction(words []string) (ins Instruction, label string, offset int, err error) {
	mnemonic := words[0]

	if cond, ok := moveMap[mnemonic]; ok {
		var src, dst RegisterId
		err = argCount(words, 2)
		if err != nil {
			return
		}
		src, err = asm.registerOf(words[1])
		if err != nil {
			return
		}
		dst, err = asm.registerOf(words[2])
		if err != nil {
			return
		}
		ins = MakeMove(cond, src, dst)
		return
	}

	if cond, ok := jumpMap[mnemonic]; ok {
		var dest uint32
		err = argCount(words, 1)
		if err != nil {
			return
		}
		dest, label, err = asm.valueOrLabel(words[1])
		if err != nil {
			return
		}
		ins = MakeJump(cond, dest)
		offset = 1
		return
	}

	if op, ok := aluMap[mnemonic]; ok {
		var a, b RegisterId
		err = argCount(words, 2)
		if err != nil {
			return
		}
		a, err = asm.registerOf(words[1])
		if err != nil {
			return
		}
		b, err = asm.registerOf(words[2])
		if err != nil {
			return
		}
		ins = MakeOp(op, a, b)
		return
	}

	switch mnemonic {
	case "halt", "nop", "ret":
		err = argCount(words, 0)
		if err != nil {
			return
		}
		switch mnemonic {
		case "halt":
			ins = MakeHalt()
		case "nop":
			ins = MakeNop()
		case "ret":
			ins = MakeRet()
		}
	case "irmovl":
		var value uint32
		var dst RegisterId
		err = argCount(words, 2)
		if err != nil {
			return
		}
		value, label, err = asm.valueOrLabel(words[1])
		if err != nil {
			return
		}
		dst, err = asm.registerOf(words[2])
		if err != nil {
			return
		}
		ins = MakeIrmovl(dst, value)
		offset = 2
	case "rmmovl":
		var src, base RegisterId
		var disp uint32
		err = argCount(words, 2)
		if err != nil {
			return
		}
		src, err = asm.registerOf(words[1])
		if err != nil {
			return
		}
		disp, base, label, err = asm.memoryOf(words[2])
		if err != nil {
			return
		}
		ins = MakeRmmovl(src, base, disp)
		offset = 2
	case "mrmovl":
		var dst, base RegisterId
		var disp uint32
		err = argCount(words, 2)
		if err != nil {
			return
		}
		disp, base, label, err = asm.memoryOf(words[1])
		if err != nil {
			return
		}
		dst, err = asm.registerOf(words[2])
		if err != nil {
			return
		}
		ins = MakeMrmovl(dst, base, disp)
		offset = 2
	case "call":
		var dest uint32
		err = argCount(words, 1)
		if err != nil {
			return
		}
		dest, label, err = asm.valueOrLabel(words[1])
		if err != nil {
			return
		}
		ins = MakeCall(dest)
		offset = 1
	case "pushl", "popl":
		var reg RegisterId
		err = argCount(words, 1)
		if err != nil {
			return
		}
		reg, err = asm.registerOf(words[1])
		if err != nil {
			return
		}
		if mnemonic == "pushl" {
			ins = MakePushl(reg)
		} else {
			ins = MakePopl(reg)
		}
	default:
		err = ErrInstructionInvalid
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []byte
	var label string
	var offset int

	// no-op
	if len(words) == 0 {
		return
	}

	ip := asm.ip

	if strings.HasPrefix(words[0], ".") {
		data, label, err = asm.parseDirective(words)
		ip = asm.ip
	} else {
		var ins Instruction
		ins, label, offset, err = asm.parseInstruction(words)
		data = ins.Bytes()
	}
	if err != nil {
		return
	}

	if len(data) == 0 {
		return
	}

	if len(label) == 0 {
		offset = 0
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo:     lineno,
		Ip:         ip,
		Words:      words,
		Bytes:      data,
		LinkLabel:  label,
		LinkOffset: offset,
	})
	asm.ip = ip + uint32(len(data))

	return
}
