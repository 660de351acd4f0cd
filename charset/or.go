package charset

// Or returns a Matcher that matches iff any of the given Matchers match.
func Or(ms ...Matcher) Matcher {
	l := make([]Matcher, len(ms))
	copy(l, ms)
	return orMatcher{list: l}
}

type orMatcher struct {
	list []Matcher
}

var _ Matcher = orMatcher{}

func (m orMatcher) Match(b byte) bool {
	for _, sub := range m.list {
		if sub.Match(b) {
			return true
		}
	}
	return false
}

func (m orMatcher) ForEach(f func(b byte)) {
	seen := make(map[byte]bool, 256)
	for _, sub := range m.list {
		sub.ForEach(func(b byte) {
			if !seen[b] {
				seen[b] = true
			}
		})
	}
	for b := 0; b < 256; b++ {
		if seen[byte(b)] {
			f(byte(b))
		}
	}
}

func (m orMatcher) String() string { return genericString(m) }
