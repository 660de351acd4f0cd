package charset

// None returns a Matcher that never matches any byte.
func None() Matcher { return noneMatcher{} }

type noneMatcher struct{}

var _ Matcher = noneMatcher{}

func (noneMatcher) Match(b byte) bool      { return false }
func (noneMatcher) ForEach(f func(b byte)) {}
func (noneMatcher) String() string         { return "!." }
