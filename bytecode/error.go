package bytecode

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedImage is returned when the blob ends in the middle of
	// a length-prefixed string or a 4-byte instruction word.
	ErrTruncatedImage = errors.New("bytecode: truncated image")

	// ErrBadReference is returned when an instruction's operand names a
	// string, charset, or code address outside the bounds of the image
	// that contains it.
	ErrBadReference = errors.New("bytecode: operand references out of range")

	// ErrUnknownOpcode is returned when a decoded 5-bit opcode field
	// does not name a defined instruction.
	ErrUnknownOpcode = errors.New("bytecode: unknown opcode")
)

// LoadError wraps a failure encountered while parsing or validating an
// image's binary layout. This typically means the blob is corrupt, was
// produced by an incompatible compiler, or is hostile input.
type LoadError struct {
	Err    error
	Offset int
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("bytecode: load error at offset %d: %v", e.Offset, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ValidationError wraps a failure found while checking an already-decoded
// instruction's operand against the image it belongs to.
type ValidationError struct {
	Err error
	PC  uint32
	Op  Opcode
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bytecode: validation error at pc %d (%s): %v", e.PC, e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
