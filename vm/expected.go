package vm

import (
	"strconv"
	"strings"

	"github.com/clarete/langlang/charset"
)

// expectedLimit bounds the diagnostic buffer; once full, further
// appends are silently dropped rather than growing without bound.
const expectedLimit = 20

// expectedEntry is either a single expected code point (Hi left at its
// zero value for a CHAR-derived entry, or Hi == Lo for a SET-derived one
// via charset.ExpectedRange) or an inclusive range [Lo, Hi]. See
// isSingleton.
type expectedEntry struct {
	Lo uint32
	Hi uint32
}

// expectedSet accumulates the set of "what the grammar wanted here"
// entries used to render "Expected X, Y, Z but got ..." diagnostics.
type expectedSet struct {
	entries []expectedEntry
}

func (e *expectedSet) clear() { e.entries = e.entries[:0] }

func (e *expectedSet) add(s expectedEntry) {
	if len(e.entries) >= expectedLimit {
		return
	}
	if isSingleton(s) {
		switch s.Lo {
		case 0, ' ', '\n', '\r', '\t':
			return
		}
	}
	for _, existing := range e.entries {
		if existing == s {
			return
		}
	}
	e.entries = append(e.entries, s)
}

// update applies the FFP-relative clear/add rule: a failure at a cursor
// strictly ahead of the current furthest-failure-position clears the
// older entries; a failure at or ahead of it is added; a failure behind
// it is dropped.
func (e *expectedSet) update(cursor, ffp int, s expectedEntry) {
	if cursor > ffp {
		e.clear()
	}
	if cursor >= ffp {
		e.add(s)
	}
}

// updateSet folds every precomputed range of a charset into the buffer,
// under the same FFP-relative clear/add rule.
func (e *expectedSet) updateSet(cursor, ffp int, ranges []charset.ExpectedRange) {
	if cursor > ffp {
		e.clear()
	}
	if cursor < ffp {
		return
	}
	for _, r := range ranges {
		if len(e.entries) >= expectedLimit {
			return
		}
		e.add(expectedEntry{Lo: uint32(r.Lo), Hi: uint32(r.Hi)})
	}
}

// describe renders the accumulated entries as the clause of an "Expected
// X, Y, Z" diagnostic.
func (e *expectedSet) describe() string {
	parts := make([]string, 0, len(e.entries))
	for _, entry := range e.entries {
		if isSingleton(entry) {
			parts = append(parts, quoteCodePoint(entry.Lo))
		} else {
			parts = append(parts, quoteCodePoint(entry.Lo)+"-"+quoteCodePoint(entry.Hi))
		}
	}
	return strings.Join(parts, ", ")
}

// isSingleton reports whether s names one code point rather than a range:
// Hi == 0 for a CHAR-style entry that never set Hi, or Hi == Lo for a
// SET-style entry (charset.ExpectedRange always sets both fields).
func isSingleton(s expectedEntry) bool {
	return s.Hi == 0 || s.Hi == s.Lo
}

func quoteCodePoint(c uint32) string {
	return strconv.QuoteRune(rune(c))
}
