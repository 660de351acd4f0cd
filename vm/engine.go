package vm

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/clarete/langlang/bytecode"
)

// Match runs the image from address 0 against input.
func (vm *Vm) Match(input []byte) (NodeID, error) {
	return vm.MatchRule(input, 0)
}

// MatchRule runs the image starting at ruleAddress against input.
// Dispatch starts with an empty frame stack: no Call frame is pushed for
// the entry rule, so a RETURN reached at the top level fails with a
// RuntimeError (ErrFrameKind) instead of ending the match. The match
// ends at HALT. The frame stack is empty again when MatchRule returns.
func (vm *Vm) MatchRule(input []byte, ruleAddress uint32) (result NodeID, err error) {
	vm.reset()
	vm.tree.BindInput(input)

	defer func() {
		vm.frames = vm.frames[:0]
		if r := recover(); r != nil {
			result, err = 0, vm.recoverPanic(r)
		}
	}()

	pc := ruleAddress
	cursor := 0
	vm.ffp = 0

	for {
		ins := vm.image.Instr(pc)
		op := ins.Opcode()
		w := ins.Word

		switch op {
		case bytecode.OpHalt:
			return vm.finish(cursor), nil

		case bytecode.OpAny:
			_, size := decodeRune(input, cursor)
			if size == 0 {
				var ok bool
				cursor, pc, ok = vm.fail(cursor)
				if !ok {
					return 0, vm.unlabeledError(cursor, input)
				}
				continue
			}
			cursor += size
			pc++

		case bytecode.OpChar:
			want := rune(w.U())
			r, size := decodeRune(input, cursor)
			if size == 0 || r != want {
				if vm.showFails {
					vm.expected.update(cursor, vm.ffp, expectedEntry{Lo: w.U()})
				}
				var ok bool
				cursor, pc, ok = vm.fail(cursor)
				if !ok {
					return 0, vm.unlabeledError(cursor, input)
				}
				continue
			}
			cursor += size
			pc++

		case bytecode.OpRange:
			lo, hi := rune(w.U1()), rune(w.U2())
			r, size := decodeRune(input, cursor)
			if size == 0 || r < lo || r > hi {
				if vm.showFails {
					vm.expected.update(cursor, vm.ffp, expectedEntry{Lo: w.U1(), Hi: w.U2()})
				}
				var ok bool
				cursor, pc, ok = vm.fail(cursor)
				if !ok {
					return 0, vm.unlabeledError(cursor, input)
				}
				continue
			}
			cursor += size
			pc++

		case bytecode.OpSet:
			cs := vm.image.Charsets[w.U()]
			if cursor >= len(input) || !cs.Contains(input[cursor]) {
				if vm.showFails {
					vm.expected.updateSet(cursor, vm.ffp, cs.PrecomputeExpected())
				}
				var ok bool
				cursor, pc, ok = vm.fail(cursor)
				if !ok {
					return 0, vm.unlabeledError(cursor, input)
				}
				continue
			}
			cursor++
			pc++

		case bytecode.OpSpan:
			cs := vm.image.Charsets[w.U()]
			for cursor < len(input) && cs.Contains(input[cursor]) {
				cursor++
			}
			pc++

		case bytecode.OpChoice:
			vm.frames = pushFrame(vm.frames, &vm.arena, frame{
				kind: backtrackFrame, pc: w.Addr(), cursor: cursor, predicate: vm.predicate,
			})
			pc++

		case bytecode.OpChoicePred:
			vm.frames = pushFrame(vm.frames, &vm.arena, frame{
				kind: backtrackFrame, pc: w.Addr(), cursor: cursor, predicate: vm.predicate,
			})
			vm.predicate = true
			pc++

		case bytecode.OpCommit:
			if _, ok := vm.popBacktrack(); !ok {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Cursor: cursor, Op: op})
			}
			pc = w.Addr()

		case bytecode.OpCapCommit:
			f, ok := vm.popBacktrack()
			if !ok {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Cursor: cursor, Op: op})
			}
			vm.arena.commitToParent(vm.frames, f.nodesStart, f.nodesEnd)
			pc = w.Addr()

		case bytecode.OpBackCommit:
			f, ok := vm.popBacktrack()
			if !ok {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Cursor: cursor, Op: op})
			}
			cursor = f.cursor
			vm.predicate = f.predicate
			pc = w.Addr()

		case bytecode.OpCapBackCommit:
			f, ok := vm.popBacktrack()
			if !ok {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Cursor: cursor, Op: op})
			}
			cursor = f.cursor
			vm.predicate = f.predicate
			vm.arena.commitToParent(vm.frames, f.nodesStart, f.nodesEnd)
			pc = w.Addr()

		case bytecode.OpPartialCommit:
			n := len(vm.frames)
			if n == 0 || vm.frames[n-1].kind != backtrackFrame {
				panic(&RuntimeError{Err: ErrFrameKind, PC: pc, Cursor: cursor, Op: op})
			}
			vm.frames[n-1].cursor = cursor
			pc = w.Addr()

		case bytecode.OpCapPartialCommit:
			n := len(vm.frames)
			if n == 0 || vm.frames[n-1].kind != backtrackFrame {
				panic(&RuntimeError{Err: ErrFrameKind, PC: pc, Cursor: cursor, Op: op})
			}
			vm.frames[n-1].cursor = cursor
			vm.arena.collectIntoParent(vm.frames)
			pc = w.Addr()

		case bytecode.OpFail:
			var ok bool
			cursor, pc, ok = vm.fail(cursor)
			if !ok {
				return 0, vm.unlabeledError(cursor, input)
			}

		case bytecode.OpFailTwice:
			n := len(vm.frames)
			if n == 0 {
				panic(&RuntimeError{Err: ErrEmptyStack, PC: pc, Cursor: cursor, Op: op})
			}
			vm.frames = vm.frames[:n-1]
			var ok bool
			cursor, pc, ok = vm.fail(cursor)
			if !ok {
				return 0, vm.unlabeledError(cursor, input)
			}

		case bytecode.OpJump:
			pc = w.Addr()

		case bytecode.OpCall:
			vm.frames = pushFrame(vm.frames, &vm.arena, frame{kind: callFrame, pc: pc + 1})
			pc = w.Addr()

		case bytecode.OpReturn:
			n := len(vm.frames)
			if n == 0 || vm.frames[n-1].kind != callFrame {
				panic(&RuntimeError{Err: ErrFrameKind, PC: pc, Cursor: cursor, Op: op})
			}
			pc = vm.frames[n-1].pc
			vm.frames = vm.frames[:n-1]

		case bytecode.OpCapReturn:
			n := len(vm.frames)
			if n == 0 || vm.frames[n-1].kind != callFrame {
				panic(&RuntimeError{Err: ErrFrameKind, PC: pc, Cursor: cursor, Op: op})
			}
			f := vm.frames[n-1]
			vm.frames = vm.frames[:n-1]
			vm.arena.commitToParent(vm.frames, f.nodesStart, f.nodesEnd)
			pc = f.pc

		case bytecode.OpThrow:
			label := w.U()
			if vm.predicate {
				var ok bool
				cursor, pc, ok = vm.fail(cursor)
				if !ok {
					return 0, vm.unlabeledError(cursor, input)
				}
				continue
			}
			if addr, ok := vm.image.Handlers[label]; ok {
				vm.frames = pushFrame(vm.frames, &vm.arena, frame{kind: callFrame, pc: pc + 1})
				pc = addr
				continue
			}
			return 0, vm.labeledError(label, cursor, input)

		case bytecode.OpCapBegin:
			vm.frames = pushFrame(vm.frames, &vm.arena, frame{
				kind: captureFrame, cursor: cursor, capID: w.U(),
			})
			pc++

		case bytecode.OpCapEnd:
			n := len(vm.frames)
			if n == 0 || vm.frames[n-1].kind != captureFrame {
				panic(&RuntimeError{Err: ErrFrameKind, PC: pc, Cursor: cursor, Op: op})
			}
			f := vm.frames[n-1]
			vm.frames = vm.frames[:n-1]
			id, ok := vm.emitCapture(f, cursor)
			vm.arena.truncate(f.nodesStart)
			if ok {
				vm.frames = vm.arena.capture(vm.frames, id)
			}
			pc++

		case bytecode.OpCapTerm:
			off := int(w.U())
			start := cursor - off
			id := vm.tree.AddString(start, cursor)
			vm.frames = vm.arena.capture(vm.frames, id)
			pc++

		case bytecode.OpCapNonTerm:
			nameID, off := int32(w.U1()), int(w.U2())
			start := cursor - off
			child := vm.tree.AddString(start, cursor)
			id := vm.tree.AddNode(nameID, child, start, cursor)
			vm.frames = vm.arena.capture(vm.frames, id)
			pc++

		case bytecode.OpCapTermBeginOffset:
			vm.capOffsetID = -1
			vm.capOffsetStart = cursor
			pc++

		case bytecode.OpCapNonTermBeginOffset:
			vm.capOffsetID = int32(w.U())
			vm.capOffsetStart = cursor
			pc++

		case bytecode.OpCapEndOffset:
			child := vm.tree.AddString(vm.capOffsetStart, cursor)
			id := child
			if vm.capOffsetID >= 0 {
				id = vm.tree.AddNode(vm.capOffsetID, child, vm.capOffsetStart, cursor)
			}
			vm.frames = vm.arena.capture(vm.frames, id)
			pc++

		case bytecode.OpAtom, bytecode.OpOpen, bytecode.OpClose:
			panic(&RuntimeError{Err: ErrFrameKind, PC: pc, Cursor: cursor, Op: op})

		default:
			panic(&RuntimeError{Err: ErrUnknownOpcode, PC: pc, Cursor: cursor, Op: op})
		}
	}
}

func (vm *Vm) finish(cursor int) NodeID {
	if cursor > vm.ffp {
		vm.ffp = cursor
	}
	if len(vm.arena.top) == 0 {
		return 0
	}
	root := vm.arena.top[len(vm.arena.top)-1]
	vm.tree.SetRoot(root)
	return root
}

// popBacktrack pops the top frame, which must be a backtrack frame (the
// contract for COMMIT-family opcodes).
func (vm *Vm) popBacktrack() (frame, bool) {
	n := len(vm.frames)
	if n == 0 || vm.frames[n-1].kind != backtrackFrame {
		return frame{}, false
	}
	f := vm.frames[n-1]
	vm.frames = vm.frames[:n-1]
	return f, true
}

// emitCapture implements the CAP_BEGIN/CAP_END node-construction rules.
func (vm *Vm) emitCapture(f frame, end int) (NodeID, bool) {
	children := vm.arena.frameNodes(f)
	start := f.cursor

	var inner NodeID
	hasInner := false
	switch {
	case len(children) == 0 && end > start:
		inner, hasInner = vm.tree.AddString(start, end), true
	case len(children) == 0:
		// nothing emitted
	case len(children) == 1:
		inner, hasInner = children[0], true
	default:
		cs := make([]NodeID, len(children))
		copy(cs, children)
		inner, hasInner = vm.tree.AddSequence(cs, start, end), true
	}

	id := f.capID
	if vm.image.ErrorLabels[id] {
		messageID := int32(-1)
		if msgIdx, ok := vm.labelMessages[id]; ok && int(msgIdx) < len(vm.image.Strings) {
			messageID = int32(msgIdx)
		}
		if hasInner {
			return vm.tree.AddErrorWithChild(int32(id), messageID, inner, start, end), true
		}
		return vm.tree.AddError(int32(id), messageID, start, end), true
	}
	if id != 0 {
		if !hasInner {
			return 0, false
		}
		return vm.tree.AddNode(int32(id), inner, start, end), true
	}
	return inner, hasInner
}

// fail runs the failure routine: unwind frames until a backtrack frame
// is found (truncating the node arena along the way), and resume there.
// The second return value is false if no backtrack frame remained, i.e.
// the match halts with an unlabeled failure.
func (vm *Vm) fail(cursor int) (int, uint32, bool) {
	if cursor > vm.ffp {
		vm.ffp = cursor
	}
	for len(vm.frames) > 0 {
		n := len(vm.frames) - 1
		top := vm.frames[n]
		vm.frames = vm.frames[:n]
		if top.kind == backtrackFrame {
			vm.arena.truncate(top.nodesStart)
			vm.predicate = top.predicate
			return top.cursor, top.pc, true
		}
	}
	return cursor, 0, false
}

func decodeRune(input []byte, cursor int) (rune, int) {
	if cursor >= len(input) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(input[cursor:])
}

func (vm *Vm) recoverPanic(r interface{}) error {
	if re, ok := r.(*RuntimeError); ok {
		return re
	}
	return &RuntimeError{Err: fmt.Errorf("%v", r)}
}

func (vm *Vm) unlabeledError(cursor int, input []byte) error {
	return &ParsingError{
		Message: vm.describeFailure(cursor, input),
		Label:   "",
		Start:   cursor,
		End:     cursor,
	}
}

func (vm *Vm) labeledError(labelID uint32, cursor int, input []byte) error {
	label := vm.labelName(labelID)
	if msgIdx, ok := vm.labelMessages[labelID]; ok && int(msgIdx) < len(vm.image.Strings) {
		return &ParsingError{Message: vm.image.Strings[msgIdx], Label: label, Start: cursor, End: cursor}
	}
	msg := vm.describeFailure(cursor, input)
	if label != "" {
		msg = "[" + label + "] " + msg
	}
	return &ParsingError{Message: msg, Label: label, Start: cursor, End: cursor}
}

func (vm *Vm) labelName(labelID uint32) string {
	if labelID == 0 || int(labelID) >= len(vm.image.Strings) {
		return ""
	}
	return vm.image.Strings[labelID]
}

func (vm *Vm) describeFailure(cursor int, input []byte) string {
	got := describeByte(cursor, input)
	if vm.showFails && len(vm.expected.entries) > 0 {
		return "Expected " + vm.expected.describe() + " but got " + got
	}
	return "Unexpected " + got
}

func describeByte(cursor int, input []byte) string {
	if cursor >= len(input) {
		return "EOF"
	}
	r, _ := decodeRune(input, cursor)
	return strconv.QuoteRune(r)
}
