package vm

import (
	"fmt"

	"github.com/clarete/langlang/bytecode"
)

// ListValue is one cell of the list-matcher's subject: a cons-list whose
// elements are atoms or nested sublists. A nil *ListValue denotes the
// empty list. This type and ListMatcher have no direct analogue in the
// ported C sources; the list-matcher mode is described only in prose, so
// the representation below is this package's own design, built in the
// same idiom as the byte-stream evaluator in engine.go.
type ListValue struct {
	IsAtom bool
	Atom   string
	Sub    *ListValue // only meaningful when !IsAtom: the sublist's head, nil if empty
	Next   *ListValue // the rest of the enclosing list, nil at its end
}

// NewAtom builds a leaf list value.
func NewAtom(name string) *ListValue { return &ListValue{IsAtom: true, Atom: name} }

// NewList builds a cons cell: a sublist headed by sub (nil for an empty
// sublist), followed by the rest of the enclosing list.
func NewList(sub, next *ListValue) *ListValue { return &ListValue{Sub: sub, Next: next} }

type listBacktrack struct {
	pc        uint32
	cur       *ListValue
	sentinels int
	predicate bool
}

// listSentinel records where OPEN descended from, so CLOSE can resume
// matching the enclosing list's remaining siblings.
type listSentinel struct {
	resume *ListValue
}

// ListMatcher runs the list-matcher evaluation mode: the same bytecode
// image and control-flow opcodes as Vm, but over a cons-list subject
// instead of a byte stream, and without building a capture tree.
type ListMatcher struct {
	image    *bytecode.Image
	warnings []string
}

// NewListMatcher returns a ListMatcher bound to image.
func NewListMatcher(image *bytecode.Image) *ListMatcher {
	return &ListMatcher{image: image}
}

// Warnings returns the non-fatal warnings accumulated by the most recent
// MatchList call, e.g. a SPAN encountered in list mode.
func (m *ListMatcher) Warnings() []string { return m.warnings }

// MatchList runs the image starting at ruleAddress against subject,
// returning the unconsumed tail of the subject on success.
func (m *ListMatcher) MatchList(subject *ListValue, ruleAddress uint32) (tail *ListValue, err error) {
	m.warnings = nil

	defer func() {
		if r := recover(); r != nil {
			tail, err = nil, m.recoverPanic(r)
		}
	}()

	var backtracks []listBacktrack
	var sentinels []listSentinel
	var calls []uint32

	cur := subject
	predicate := false
	pc := ruleAddress

	fail := func() bool {
		for len(backtracks) > 0 {
			n := len(backtracks) - 1
			top := backtracks[n]
			backtracks = backtracks[:n]
			cur = top.cur
			predicate = top.predicate
			if top.sentinels <= len(sentinels) {
				sentinels = sentinels[:top.sentinels]
			}
			pc = top.pc
			return true
		}
		return false
	}

	for {
		ins := m.image.Instr(pc)
		op := ins.Opcode()
		w := ins.Word

		switch op {
		case bytecode.OpHalt:
			return cur, nil

		case bytecode.OpAny:
			if cur == nil {
				if !fail() {
					return nil, m.unconsumedFailure()
				}
				continue
			}
			cur = cur.Next
			pc++

		case bytecode.OpAtom:
			name := m.image.String(w.U())
			if cur == nil || !cur.IsAtom || cur.Atom != name {
				if !fail() {
					return nil, m.unconsumedFailure()
				}
				continue
			}
			cur = cur.Next
			pc++

		case bytecode.OpOpen:
			if cur == nil || cur.IsAtom {
				if !fail() {
					return nil, m.unconsumedFailure()
				}
				continue
			}
			sentinels = append(sentinels, listSentinel{resume: cur.Next})
			cur = cur.Sub
			pc++

		case bytecode.OpClose:
			if cur != nil {
				if !fail() {
					return nil, m.unconsumedFailure()
				}
				continue
			}
			if len(sentinels) == 0 {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Op: op})
			}
			n := len(sentinels) - 1
			cur = sentinels[n].resume
			sentinels = sentinels[:n]
			pc++

		case bytecode.OpSpan:
			m.warnings = append(m.warnings, fmt.Sprintf("pc %d: SPAN is a no-op in list-matcher mode", pc))
			pc++

		case bytecode.OpChar, bytecode.OpRange, bytecode.OpSet:
			panic(&RuntimeError{Err: ErrListOpcodeUnsupported, PC: pc, Op: op})

		case bytecode.OpChoice:
			backtracks = append(backtracks, listBacktrack{pc: w.Addr(), cur: cur, sentinels: len(sentinels), predicate: predicate})
			pc++

		case bytecode.OpChoicePred:
			backtracks = append(backtracks, listBacktrack{pc: w.Addr(), cur: cur, sentinels: len(sentinels), predicate: predicate})
			predicate = true
			pc++

		case bytecode.OpCommit, bytecode.OpCapCommit:
			if len(backtracks) == 0 {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Op: op})
			}
			backtracks = backtracks[:len(backtracks)-1]
			pc = w.Addr()

		case bytecode.OpBackCommit, bytecode.OpCapBackCommit:
			if len(backtracks) == 0 {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Op: op})
			}
			n := len(backtracks) - 1
			top := backtracks[n]
			backtracks = backtracks[:n]
			cur = top.cur
			predicate = top.predicate
			if top.sentinels <= len(sentinels) {
				sentinels = sentinels[:top.sentinels]
			}
			pc = w.Addr()

		case bytecode.OpPartialCommit, bytecode.OpCapPartialCommit:
			if len(backtracks) == 0 {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Op: op})
			}
			backtracks[len(backtracks)-1].cur = cur
			pc = w.Addr()

		case bytecode.OpFail:
			if !fail() {
				return nil, m.unconsumedFailure()
			}

		case bytecode.OpFailTwice:
			if len(backtracks) == 0 {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Op: op})
			}
			backtracks = backtracks[:len(backtracks)-1]
			if !fail() {
				return nil, m.unconsumedFailure()
			}

		case bytecode.OpJump:
			pc = w.Addr()

		case bytecode.OpCall:
			calls = append(calls, pc+1)
			pc = w.Addr()

		case bytecode.OpReturn, bytecode.OpCapReturn:
			if len(calls) == 0 {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Op: op})
			}
			pc = calls[len(calls)-1]
			calls = calls[:len(calls)-1]

		case bytecode.OpThrow:
			label := w.U()
			if predicate {
				if !fail() {
					return nil, m.unconsumedFailure()
				}
				continue
			}
			if addr, ok := m.image.Handlers[label]; ok {
				calls = append(calls, pc+1)
				pc = addr
				continue
			}
			return nil, &ParsingError{Message: m.labelName(label), Label: m.labelName(label)}

		case bytecode.OpCapBegin, bytecode.OpCapEnd, bytecode.OpCapTerm, bytecode.OpCapNonTerm,
			bytecode.OpCapTermBeginOffset, bytecode.OpCapNonTermBeginOffset, bytecode.OpCapEndOffset:
			// The list matcher does not build a capture tree; these
			// opcodes are accepted and ignored rather than rejected,
			// since a grammar shared between both evaluators may still
			// carry them.
			pc++

		default:
			panic(&RuntimeError{Err: ErrUnknownOpcode, PC: pc, Op: op})
		}
	}
}

func (m *ListMatcher) unconsumedFailure() error {
	return &ParsingError{Message: "list matcher failed to consume subject"}
}

func (m *ListMatcher) labelName(labelID uint32) string {
	if labelID == 0 || int(labelID) >= len(m.image.Strings) {
		return ""
	}
	return m.image.Strings[labelID]
}

func (m *ListMatcher) recoverPanic(r interface{}) error {
	if re, ok := r.(*RuntimeError); ok {
		return re
	}
	return &RuntimeError{Err: fmt.Errorf("%v", r)}
}
