package tree

import "fmt"

// Tree is an append-only arena of captured parse-tree nodes, plus the
// input bytes and string table the nodes reference by offset/index.
type Tree struct {
	nodes       []node
	children    []NodeID
	childRanges []childRange

	strs  []string
	input []byte

	root    NodeID
	hasRoot bool
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{}
}

// Reset clears the arena so the Tree can be reused for a new match,
// without reallocating its backing slices.
func (t *Tree) Reset() {
	t.nodes = t.nodes[:0]
	t.children = t.children[:0]
	t.childRanges = t.childRanges[:0]
	t.hasRoot = false
	t.root = 0
}

// BindInput attaches the input bytes String nodes' spans are taken from.
func (t *Tree) BindInput(input []byte) { t.input = input }

// BindStrings attaches the string table Name and error-message lookups
// resolve against.
func (t *Tree) BindStrings(strs []string) { t.strs = strs }

// SetRoot records id as the tree's root, e.g. the last node captured at
// the top level when a match HALTs successfully.
func (t *Tree) SetRoot(id NodeID) {
	t.root = id
	t.hasRoot = true
}

// Root returns the tree's root id, if one has been set and the arena is
// non-empty.
func (t *Tree) Root() (NodeID, bool) {
	if !t.hasRoot || len(t.nodes) == 0 {
		return 0, false
	}
	return t.root, true
}

// Len returns the number of nodes currently in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) at(id NodeID) *node {
	if int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("tree: node id %d out of range [0,%d)", id, len(t.nodes)))
	}
	return &t.nodes[id]
}

// Type returns id's node kind.
func (t *Tree) Type(id NodeID) Kind { return t.at(id).kind }

// Name returns the name associated with id: the capture name for a Node,
// or the label for an Error. Returns "" if id carries no name or the name
// index is out of range.
func (t *Tree) Name(id NodeID) string {
	nid := t.at(id).nameID
	if nid < 0 || int(nid) >= len(t.strs) {
		return ""
	}
	return t.strs[nid]
}

// Message returns the diagnostic message associated with an Error node,
// or "" if none was set.
func (t *Tree) Message(id NodeID) string {
	n := t.at(id)
	if n.kind != Error || n.messageID < 0 || int(n.messageID) >= len(t.strs) {
		return ""
	}
	return t.strs[n.messageID]
}

// Range returns id's [start, end) byte span.
func (t *Tree) Range(id NodeID) (start, end int) {
	n := t.at(id)
	return n.start, n.end
}

// Child returns id's sole child, for a Node or Error. Returns false if id
// is not one of those kinds, or carries no child.
func (t *Tree) Child(id NodeID) (NodeID, bool) {
	n := t.at(id)
	if n.kind != Node && n.kind != Error {
		return 0, false
	}
	if n.childID < 0 {
		return 0, false
	}
	return NodeID(n.childID), true
}

// ChildrenLen returns the number of children id has: the sibling count
// for a Sequence, 0 or 1 for a Node/Error, always 0 for a String.
func (t *Tree) ChildrenLen(id NodeID) int {
	n := t.at(id)
	switch n.kind {
	case Sequence:
		if n.childID < 0 {
			return 0
		}
		cr := t.childRanges[n.childID]
		return cr.end - cr.start
	case Node, Error:
		if n.childID < 0 {
			return 0
		}
		return 1
	default:
		return 0
	}
}

// ChildAt returns id's idx'th child (0-based).
func (t *Tree) ChildAt(id NodeID, idx int) (NodeID, bool) {
	if idx < 0 {
		return 0, false
	}
	n := t.at(id)
	switch n.kind {
	case Sequence:
		if n.childID < 0 {
			return 0, false
		}
		cr := t.childRanges[n.childID]
		if idx >= cr.end-cr.start {
			return 0, false
		}
		return t.children[cr.start+idx], true
	case Node, Error:
		if n.childID < 0 || idx != 0 {
			return 0, false
		}
		return NodeID(n.childID), true
	default:
		return 0, false
	}
}

// Children returns all of id's children, in order.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.ChildrenLen(id)
	out := make([]NodeID, 0, n)
	for i := 0; i < n; i++ {
		child, ok := t.ChildAt(id, i)
		if !ok {
			break
		}
		out = append(out, child)
	}
	return out
}

// AddString appends a terminal String node spanning [start, end) and
// returns its id.
func (t *Tree) AddString(start, end int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{kind: String, start: start, end: end, nameID: -1, childID: -1, messageID: -1})
	return id
}

// AddSequence appends a Sequence node wrapping the given children, in
// order, spanning [start, end), and returns its id.
func (t *Tree) AddSequence(children []NodeID, start, end int) NodeID {
	childID := int32(-1)
	if len(children) > 0 {
		crStart := len(t.children)
		t.children = append(t.children, children...)
		crEnd := len(t.children)
		childID = int32(len(t.childRanges))
		t.childRanges = append(t.childRanges, childRange{start: crStart, end: crEnd})
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{kind: Sequence, start: start, end: end, nameID: -1, childID: childID, messageID: -1})
	return id
}

// AddNode appends a Node named by nameID wrapping child, spanning
// [start, end), and returns its id.
func (t *Tree) AddNode(nameID int32, child NodeID, start, end int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{kind: Node, start: start, end: end, nameID: nameID, childID: int32(child), messageID: -1})
	return id
}

// AddError appends a childless Error node labeled by labelID, with an
// optional diagnostic messageID, spanning [start, end), and returns its
// id.
func (t *Tree) AddError(labelID, messageID int32, start, end int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{kind: Error, start: start, end: end, nameID: labelID, childID: -1, messageID: messageID})
	return id
}

// AddErrorWithChild is AddError but wraps child as the Error node's sole
// child (the recovered content, if the recovery rule produced one).
func (t *Tree) AddErrorWithChild(labelID, messageID int32, child NodeID, start, end int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{kind: Error, start: start, end: end, nameID: labelID, childID: int32(child), messageID: messageID})
	return id
}

// Text reconstructs the substring id covers: the raw input slice for a
// String, concatenation of children for a Sequence, the child's text for
// a Node/Error. A childless Error yields "error[label]"; a childless Node
// yields "".
func (t *Tree) Text(id NodeID) string {
	n := t.at(id)
	switch n.kind {
	case String:
		start, end := clampRange(n.start, n.end, len(t.input))
		return string(t.input[start:end])
	case Sequence:
		if n.childID < 0 {
			return ""
		}
		cr := t.childRanges[n.childID]
		var buf []byte
		for i := cr.start; i < cr.end; i++ {
			buf = append(buf, t.Text(t.children[i])...)
		}
		return string(buf)
	case Node, Error:
		if n.childID < 0 {
			if n.kind == Error {
				return fmt.Sprintf("error[%s]", t.Name(id))
			}
			return ""
		}
		return t.Text(NodeID(n.childID))
	default:
		return ""
	}
}

func clampRange(start, end, limit int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > limit {
		end = limit
	}
	if end < start {
		end = start
	}
	return start, end
}
