package charset

import "math/bits"

// maxExpectedPopcount bounds how wide a charset can be before its
// precomputed expected-range list is considered too wide to be useful in
// diagnostics. Ported from the original implementation's
// ll_charset_precompute_expected_set cutoff.
const maxExpectedPopcount = 100

// Set is a 256-bit bitset over all possible byte values. It is the
// concrete representation referenced by SET and SPAN instructions via the
// bytecode image's charset table.
type Set struct {
	words [4]uint64
}

var _ Matcher = (*Set)(nil)

// New returns an empty Set.
func New() *Set {
	return &Set{}
}

func index(b byte) (word int, mask uint64) {
	return int(b >> 6), uint64(1) << (b & 0x3f)
}

// AddByte adds a single byte to the set.
func (s *Set) AddByte(b byte) {
	w, m := index(b)
	s.words[w] |= m
}

// AddRange adds every byte in [lo, hi] (inclusive) to the set. A range
// with lo > hi adds nothing.
func (s *Set) AddRange(lo, hi byte) {
	if lo > hi {
		return
	}
	for r := int(lo); r <= int(hi); r++ {
		s.AddByte(byte(r))
	}
}

// Contains reports whether b is a member of the set.
func (s *Set) Contains(b byte) bool {
	w, m := index(b)
	return s.words[w]&m != 0
}

// Match implements Matcher.
func (s *Set) Match(b byte) bool { return s.Contains(b) }

// ForEach implements Matcher, visiting set members in ascending order.
func (s *Set) ForEach(f func(b byte)) {
	for w := 0; w < 4; w++ {
		word := s.words[w]
		if word == 0 {
			continue
		}
		for bit := 0; bit < 64; bit++ {
			if word&(uint64(1)<<uint(bit)) != 0 {
				f(byte(w<<6 | bit))
			}
		}
	}
}

func (s *Set) asDense() *Set { return s }

// String implements Matcher.
func (s *Set) String() string { return genericString(s) }

// Popcount returns the number of bytes currently in the set.
func (s *Set) Popcount() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// ExpectedRange is either a single expected byte value (Hi == Lo) or an
// inclusive range [Lo, Hi].
type ExpectedRange struct {
	Lo byte
	Hi byte
}

// PrecomputeExpected walks the set and coalesces consecutive members into
// ranges, for use in "Expected X, Y, Z" diagnostics. Singletons and
// adjacent pairs are reported as individual points rather than a range of
// two. If the set has more than maxExpectedPopcount members, the result
// is nil: too wide to be useful in an error message.
func (s *Set) PrecomputeExpected() []ExpectedRange {
	if s.Popcount() > maxExpectedPopcount {
		return nil
	}

	var out []ExpectedRange
	inRange := false
	var start, prev int

	flush := func() {
		switch {
		case start == prev:
			out = append(out, ExpectedRange{Lo: byte(start), Hi: byte(start)})
		case prev == start+1:
			out = append(out, ExpectedRange{Lo: byte(start), Hi: byte(start)})
			out = append(out, ExpectedRange{Lo: byte(prev), Hi: byte(prev)})
		default:
			out = append(out, ExpectedRange{Lo: byte(start), Hi: byte(prev)})
		}
	}

	for r := 0; r < 256; r++ {
		if s.Contains(byte(r)) {
			if !inRange {
				inRange = true
				start = r
			}
			prev = r
		} else if inRange {
			inRange = false
			flush()
		}
	}
	if inRange {
		flush()
	}
	return out
}
