package charset

// Exactly returns a Matcher that matches exactly one byte value.
func Exactly(b byte) Matcher {
	return exactMatcher{b: b}
}

type exactMatcher struct{ b byte }

var _ Matcher = exactMatcher{}

func (m exactMatcher) Match(b byte) bool { return b == m.b }

func (m exactMatcher) ForEach(f func(b byte)) { f(m.b) }

func (m exactMatcher) String() string { return genericString(m) }

func (m exactMatcher) asDense() *Set {
	s := New()
	s.AddByte(m.b)
	return s
}
