package vm

import "github.com/clarete/langlang/tree"

// frameKind discriminates the three roles a stack frame can play.
type frameKind uint8

const (
	// backtrackFrame resumes dispatch at pc with cursor restored, on
	// failure. Produced by CHOICE/CHOICE_PRED.
	backtrackFrame frameKind = iota

	// callFrame resumes dispatch at pc (the return address) on RETURN.
	// Produced by CALL and, for recoverable THROWs, by THROW itself.
	callFrame

	// captureFrame accumulates child node ids between CAP_BEGIN and
	// CAP_END (or one of the CAP_* commit variants).
	captureFrame
)

// frame is one entry in the VM's control/capture stack. Which fields are
// meaningful depends on kind: a backtrackFrame uses pc/cursor/predicate,
// a callFrame uses pc, a captureFrame uses capID/cursor. Every kind also
// carries the [nodesStart, nodesEnd) slice of the node arena (see
// pushFrame).
type frame struct {
	kind       frameKind
	pc         uint32
	cursor     int
	capID      uint32
	predicate  bool
	nodesStart int
	nodesEnd   int
}

// nodeArena is the per-match scratch buffer of accumulated child node
// ids, the thing truncated on backtrack — distinct from the Tree arena
// itself, which is append-only for the whole match. frames carve out
// [nodesStart, nodesEnd) ranges into this buffer.
type nodeArena struct {
	arena []tree.NodeID // per-frame scratch, truncated on backtrack
	top   []tree.NodeID // top-level (no open capture frame) accumulator
}

func (a *nodeArena) reset() {
	a.arena = a.arena[:0]
	a.top = a.top[:0]
}

// pushFrame appends f to frames, stamping its nodesStart/nodesEnd to the
// arena's current length — every frame, not just capture frames, must
// record this so a later FAIL knows how far to truncate the arena back.
func pushFrame(frames []frame, a *nodeArena, f frame) []frame {
	f.nodesStart = len(a.arena)
	f.nodesEnd = f.nodesStart
	return append(frames, f)
}

// capture appends nodes to the innermost open frame's slice (growing
// the arena), or to the top-level accumulator if frames is empty.
func (a *nodeArena) capture(frames []frame, nodes ...tree.NodeID) []frame {
	if len(nodes) == 0 {
		return frames
	}
	if len(frames) == 0 {
		a.top = append(a.top, nodes...)
		return frames
	}
	a.arena = append(a.arena, nodes...)
	frames[len(frames)-1].nodesEnd = len(a.arena)
	return frames
}

// frameNodes returns the slice of node ids a frame accumulated.
func (a *nodeArena) frameNodes(f frame) []tree.NodeID {
	if f.nodesEnd <= f.nodesStart {
		return nil
	}
	return a.arena[f.nodesStart:f.nodesEnd]
}

// truncate discards arena entries at or past pos, the effect of
// abandoning a capture frame on backtrack.
func (a *nodeArena) truncate(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(a.arena) {
		pos = len(a.arena)
	}
	a.arena = a.arena[:pos]
}

// commitToParent transfers the arena range [start, end) to the new top
// frame (or to the top-level accumulator if none remains), the effect
// of CAP_COMMIT/CAP_BACK_COMMIT/CAP_RETURN.
func (a *nodeArena) commitToParent(frames []frame, start, end int) {
	if start == end {
		return
	}
	if len(frames) == 0 {
		a.top = append(a.top, a.arena[start:end]...)
		return
	}
	frames[len(frames)-1].nodesEnd = end
}

// collectIntoParent folds the current top frame's accumulated range into
// whichever frame (or the top-level accumulator) is beneath it, the
// effect of CAP_PARTIAL_COMMIT refreshing a repetition loop's frame.
func (a *nodeArena) collectIntoParent(frames []frame) {
	n := len(frames)
	if n == 0 {
		return
	}
	f := &frames[n-1]
	if f.nodesEnd <= f.nodesStart {
		return
	}
	if n == 1 {
		a.top = append(a.top, a.arena[f.nodesStart:f.nodesEnd]...)
	} else {
		frames[n-2].nodesEnd = f.nodesEnd
	}
	f.nodesStart = f.nodesEnd
}
