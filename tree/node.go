package tree

// NodeID indexes a node within a Tree's arena. Ids are stable for the
// lifetime of a match and are only ever invalidated by Reset.
type NodeID uint32

// Kind discriminates the four shapes a captured node can take.
type Kind uint8

const (
	// String is a terminal node: a span of the input, no children.
	String Kind = iota

	// Sequence wraps two or more sibling nodes captured inside the
	// same frame, in order, with no name.
	Sequence

	// Node wraps exactly one child node under a capture id's name.
	Node

	// Error wraps zero or one child node produced when closing a
	// capture whose id names a registered error label.
	Error
)

func (k Kind) String() string {
	switch k {
	case String:
		return "String"
	case Sequence:
		return "Sequence"
	case Node:
		return "Node"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

type node struct {
	kind      Kind
	start     int
	end       int
	nameID    int32 // index into Tree.strs, or -1
	childID   int32 // Node/Error: the sole child NodeID; Sequence: index into childRanges; -1 if absent
	messageID int32 // Error only: index into Tree.strs naming the diagnostic message, or -1
}

type childRange struct {
	start int
	end   int
}
