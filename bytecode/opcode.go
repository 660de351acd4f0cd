package bytecode

import "fmt"

// Opcode identifies which instruction a Word encodes.
type Opcode uint8

const (
	OpHalt Opcode = iota
	OpAny
	OpChar
	OpRange
	OpFail
	OpFailTwice
	OpChoice
	OpChoicePred
	OpCapCommit
	OpCapPartialCommit
	OpCapBackCommit
	OpCall
	OpCapReturn
	OpJump
	OpThrow
	OpCapBegin
	OpCapEnd
	OpSet
	OpSpan
	OpCapTerm
	OpCapNonTerm
	OpCommit
	OpBackCommit
	OpPartialCommit
	OpReturn
	OpCapTermBeginOffset
	OpCapNonTermBeginOffset
	OpCapEndOffset
	OpAtom
	OpOpen
	OpClose

	numOpcodes
)

// OperandShape describes how an instruction's 27-bit payload is carved up.
type OperandShape uint8

const (
	// ShapeNone means the operand bits are unused.
	ShapeNone OperandShape = iota

	// ShapeU means the operand is a single 27-bit unsigned value.
	ShapeU

	// ShapeU1U2 means the operand splits into an 11-bit and a 16-bit
	// field (RANGE's two code points, CAP_NON_TERM's id+offset).
	ShapeU1U2

	// ShapeAddr means the operand is a 16-bit absolute code address.
	ShapeAddr
)

// OpMeta carries the static metadata for an opcode: its display mnemonic
// and the shape of the operand bits a well-formed instruction must carry.
type OpMeta struct {
	Code   Opcode
	Name   string
	Shape  OperandShape
	ListOp bool
}

var opMeta = [numOpcodes]OpMeta{
	OpHalt:                  {OpHalt, "HALT", ShapeNone, false},
	OpAny:                   {OpAny, "ANY", ShapeNone, false},
	OpChar:                  {OpChar, "CHAR", ShapeU, false},
	OpRange:                 {OpRange, "RANGE", ShapeU1U2, false},
	OpFail:                  {OpFail, "FAIL", ShapeNone, false},
	OpFailTwice:             {OpFailTwice, "FAIL_TWICE", ShapeNone, false},
	OpChoice:                {OpChoice, "CHOICE", ShapeAddr, false},
	OpChoicePred:            {OpChoicePred, "CHOICE_PRED", ShapeAddr, false},
	OpCapCommit:             {OpCapCommit, "CAP_COMMIT", ShapeAddr, false},
	OpCapPartialCommit:      {OpCapPartialCommit, "CAP_PARTIAL_COMMIT", ShapeAddr, false},
	OpCapBackCommit:         {OpCapBackCommit, "CAP_BACK_COMMIT", ShapeAddr, false},
	OpCall:                  {OpCall, "CALL", ShapeAddr, false},
	OpCapReturn:             {OpCapReturn, "CAP_RETURN", ShapeNone, false},
	OpJump:                  {OpJump, "JUMP", ShapeAddr, false},
	OpThrow:                 {OpThrow, "THROW", ShapeU, false},
	OpCapBegin:              {OpCapBegin, "CAP_BEGIN", ShapeU, false},
	OpCapEnd:                {OpCapEnd, "CAP_END", ShapeNone, false},
	OpSet:                   {OpSet, "SET", ShapeU, false},
	OpSpan:                  {OpSpan, "SPAN", ShapeU, false},
	OpCapTerm:               {OpCapTerm, "CAP_TERM", ShapeU, false},
	OpCapNonTerm:            {OpCapNonTerm, "CAP_NON_TERM", ShapeU1U2, false},
	OpCommit:                {OpCommit, "COMMIT", ShapeAddr, false},
	OpBackCommit:            {OpBackCommit, "BACK_COMMIT", ShapeAddr, false},
	OpPartialCommit:         {OpPartialCommit, "PARTIAL_COMMIT", ShapeAddr, false},
	OpReturn:                {OpReturn, "RETURN", ShapeNone, false},
	OpCapTermBeginOffset:    {OpCapTermBeginOffset, "CAP_TERM_BEGIN_OFFSET", ShapeU, false},
	OpCapNonTermBeginOffset: {OpCapNonTermBeginOffset, "CAP_NON_TERM_BEGIN_OFFSET", ShapeU, false},
	OpCapEndOffset:          {OpCapEndOffset, "CAP_END_OFFSET", ShapeNone, false},
	OpAtom:                  {OpAtom, "ATOM", ShapeU, true},
	OpOpen:                  {OpOpen, "OPEN", ShapeNone, true},
	OpClose:                 {OpClose, "CLOSE", ShapeNone, true},
}

// Meta returns c's static metadata, or a synthetic "illegal" entry if c is
// outside the known opcode range.
func (c Opcode) Meta() OpMeta {
	if int(c) < len(opMeta) {
		return opMeta[c]
	}
	return OpMeta{Code: c, Name: fmt.Sprintf("ILLEGAL#%02x", uint8(c)), Shape: ShapeNone}
}

// IsDefined reports whether c names a real instruction.
func (c Opcode) IsDefined() bool { return c < numOpcodes }

func (c Opcode) String() string { return c.Meta().Name }

// Jumps reports whether the opcode carries a code-address operand,
// i.e. participates in the label-relocation pass a compiler would run.
func (c Opcode) Jumps() bool { return c.Meta().Shape == ShapeAddr }
