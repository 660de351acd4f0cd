// Package charset implements 256-bit byte sets used by the bytecode's
// SET and SPAN instructions, plus the expected-range precomputation used
// to build human-readable "Expected X, Y, Z" diagnostics.
package charset

// Matcher is a predicate that returns true for certain bytes.
//
// For the sake of all that is good and holy, implementations of Matcher
// must *not* change their state on a call to Match.
type Matcher interface {
	// Match returns true iff byte b is in the set.
	Match(b byte) bool

	// ForEach calls f exactly once for each byte in the set. The arguments
	// for successive calls are guaranteed to be in ascending order.
	ForEach(f func(b byte))

	// String returns a string representation of the set.
	String() string
}

type asDenser interface {
	asDense() *Set
}

// Bytes appends each byte matched by m to out, then returns the updated slice.
func Bytes(m Matcher, out []byte) []byte {
	m.ForEach(func(b byte) { out = append(out, b) })
	return out
}

// ToSet materializes any Matcher into a concrete dense Set, the
// representation the bytecode table actually stores.
func ToSet(m Matcher) *Set {
	if s, ok := m.(*Set); ok {
		return s
	}
	if d, ok := m.(asDenser); ok {
		return d.asDense()
	}
	s := New()
	m.ForEach(func(b byte) { s.AddByte(b) })
	return s
}

func genericForEach(m Matcher, f func(b byte)) {
	for i := 0; i < 256; i++ {
		if m.Match(byte(i)) {
			f(byte(i))
		}
	}
}

func genericString(m Matcher) string {
	var out []byte
	out = append(out, '[')
	m.ForEach(func(b byte) {
		out = append(out, '\\', 'x', hexDigit(b>>4), hexDigit(b&0xf))
	})
	out = append(out, ']')
	return string(out)
}

func hexDigit(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'a' + (b - 10)
}
