package charset

// Not returns a Matcher that inverts the given Matcher.
func Not(m Matcher) Matcher {
	return notMatcher{inner: m}
}

type notMatcher struct {
	inner Matcher
}

var _ Matcher = notMatcher{}

func (m notMatcher) Match(b byte) bool { return !m.inner.Match(b) }

func (m notMatcher) ForEach(f func(b byte)) { genericForEach(m, f) }

func (m notMatcher) String() string { return "!" + m.inner.String() }

func (m notMatcher) asDense() *Set {
	s := ToSet(m.inner)
	out := New()
	for b := 0; b < 256; b++ {
		if !s.Contains(byte(b)) {
			out.AddByte(byte(b))
		}
	}
	return out
}
