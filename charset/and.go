package charset

// And returns a Matcher that matches iff every one of the given Matchers
// matches.
func And(ms ...Matcher) Matcher {
	l := make([]Matcher, len(ms))
	copy(l, ms)
	return andMatcher{list: l}
}

type andMatcher struct {
	list []Matcher
}

var _ Matcher = andMatcher{}

func (m andMatcher) Match(b byte) bool {
	for _, sub := range m.list {
		if !sub.Match(b) {
			return false
		}
	}
	return true
}

func (m andMatcher) ForEach(f func(b byte)) {
	if len(m.list) == 0 {
		genericForEach(allMatcher{}, f)
		return
	}
	first, rest := m.list[0], m.list[1:]
	first.ForEach(func(b byte) {
		for _, sub := range rest {
			if !sub.Match(b) {
				return
			}
		}
		f(b)
	})
}

func (m andMatcher) String() string { return genericString(m) }
