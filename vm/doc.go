// Package vm implements the two PEG bytecode evaluators: a byte-stream
// matcher whose cursor is an offset into the input, and a list matcher
// whose cursor is a pointer into a cons-list subject. Both share the
// same control-flow opcodes and failure model. The list matcher keeps
// its own backtrack, call and sentinel stacks, interprets ANY/ATOM/
// OPEN/CLOSE over list elements, treats SPAN as a no-op, rejects
// CHAR/RANGE/SET, and ignores the capture opcodes, so it builds no
// capture tree.
package vm
