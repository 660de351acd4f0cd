package tree

import (
	"bytes"
	"fmt"
)

// Pretty renders id and its descendants as a Unicode box-drawing tree,
// one line per node, in the style of `tree(1)`.
func (t *Tree) Pretty(id NodeID) string {
	var buf bytes.Buffer
	t.prettyRec(&buf, id, "", true, true, nil)
	return buf.String()
}

// color, when non-nil, is applied to a node's label text before the
// newline is appended; used by Highlight to layer ANSI codes onto the
// same recursive walk Pretty uses.
func (t *Tree) prettyRec(buf *bytes.Buffer, id NodeID, prefix string, isLast, isRoot bool, color func(Kind, string) string) {
	n := t.at(id)

	if prefix != "" {
		buf.WriteString(prefix)
	}
	if !isRoot {
		if isLast {
			buf.WriteString("└── ")
		} else {
			buf.WriteString("├── ")
		}
	}

	var label string
	switch n.kind {
	case String:
		start, end := clampRange(n.start, n.end, len(t.input))
		label = quoteSlice(t.input[start:end])
	case Sequence:
		label = fmt.Sprintf("Sequence (%d..%d)", n.start, n.end)
	case Node:
		label = fmt.Sprintf("%s (%d..%d)", t.Name(id), n.start, n.end)
	case Error:
		label = fmt.Sprintf("Error<%s> (%d..%d)", t.Name(id), n.start, n.end)
	default:
		buf.WriteString("(unknown)\n")
		return
	}
	if color != nil {
		label = color(n.kind, label)
	}
	buf.WriteString(label)
	buf.WriteByte('\n')

	pad := ""
	if !isRoot {
		if isLast {
			pad = "    "
		} else {
			pad = "│   "
		}
	}
	nextPrefix := prefix + pad

	switch n.kind {
	case Sequence:
		if n.childID >= 0 {
			cr := t.childRanges[n.childID]
			for i := cr.start; i < cr.end; i++ {
				t.prettyRec(buf, t.children[i], nextPrefix, i == cr.end-1, false, color)
			}
		}
	case Node, Error:
		if n.childID >= 0 {
			t.prettyRec(buf, NodeID(n.childID), nextPrefix, true, false, color)
		}
	}
}

func quoteSlice(b []byte) string {
	var buf bytes.Buffer
	buf.WriteByte('"')
	for _, c := range b {
		switch c {
		case '\\', '"':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteByte(c)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
