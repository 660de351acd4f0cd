package bytecode

import (
	"bytes"
	"fmt"
)

// Instruction is a decoded Word together with the code address it was
// read from, the unit returned by Image.Instr and walked by Disassemble.
type Instruction struct {
	PC   uint32
	Word Word
}

// Opcode returns the instruction's opcode.
func (ins Instruction) Opcode() Opcode { return ins.Word.Opcode() }

// String renders a disassembler-friendly form, e.g. "CHOICE<12>" or
// "RANGE<48,57>".
func (ins Instruction) String() string {
	op := ins.Opcode()
	meta := op.Meta()

	var buf bytes.Buffer
	buf.WriteString(meta.Name)

	switch meta.Shape {
	case ShapeNone:
	case ShapeU:
		fmt.Fprintf(&buf, "<%d>", ins.Word.U())
	case ShapeAddr:
		fmt.Fprintf(&buf, "<%d>", ins.Word.Addr())
	case ShapeU1U2:
		fmt.Fprintf(&buf, "<%d,%d>", ins.Word.U1(), ins.Word.U2())
	}
	return buf.String()
}
