package charset

// All returns a Matcher that matches every possible byte.
func All() Matcher { return allMatcher{} }

type allMatcher struct{}

var _ Matcher = allMatcher{}

func (allMatcher) Match(b byte) bool      { return true }
func (allMatcher) ForEach(f func(b byte)) { genericForEach(allMatcher{}, f) }
func (allMatcher) String() string         { return "." }
