package vm

import (
	"errors"
	"fmt"

	"github.com/clarete/langlang/bytecode"
)

var (
	// ErrEmptyStack is returned when a control instruction (COMMIT,
	// BACK_COMMIT, RETURN, ...) expects a frame on the stack but finds
	// none. This means the compiler emitted unbalanced bytecode.
	ErrEmptyStack = errors.New("vm: empty frame stack")

	// ErrFrameKind is returned when a control instruction pops a frame
	// of the wrong kind, e.g. RETURN popping a backtrack frame.
	ErrFrameKind = errors.New("vm: unexpected frame kind")

	// ErrUnknownOpcode is returned when dispatch reaches an opcode that
	// neither evaluator defines, i.e. an image that bypassed
	// bytecode.Load's validation.
	ErrUnknownOpcode = errors.New("vm: unknown opcode")

	// ErrListOpcodeUnsupported is returned when the list matcher
	// encounters an opcode that has no meaning over a cons-list
	// subject (CHAR, RANGE, SET).
	ErrListOpcodeUnsupported = errors.New("vm: opcode has no meaning in list-matcher mode")
)

// RuntimeError wraps a panic-grade failure recovered from a Match call:
// a bug in the VM, or bytecode too corrupt for Image.Load's validation
// to have caught. A library should never let such a failure escape as a
// bare panic across its public API, so Vm.Match recovers and reports
// this instead.
type RuntimeError struct {
	Err    error
	PC     uint32
	Cursor int
	Op     bytecode.Opcode
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("vm: runtime error at pc %d cursor %d (%s): %v", e.PC, e.Cursor, e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// ParsingError reports an unlabeled or labeled match failure: the
// grammar could not consume the input, or an unhandled THROW terminated
// the match. Label is "" for an unlabeled failure.
type ParsingError struct {
	Message string
	Label   string
	Start   int
	End     int
}

func (e *ParsingError) Error() string { return e.Message }
