package charset

import (
	"regexp"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchRow struct {
	Input    byte
	Expected bool
}

func bytesAsRunes(in []byte) []rune {
	out := make([]rune, len(in))
	for i, b := range in {
		out[i] = rune(b)
	}
	return out
}

var allBytes []byte

func init() {
	allBytes = make([]byte, 256)
	for i := 0; i < 256; i++ {
		allBytes[i] = byte(i)
	}
}

func runByteMatchTests(t *testing.T, m Matcher, data []matchRow) {
	t.Helper()
	for i, row := range data {
		actual := m.Match(row.Input)
		if row.Expected != actual {
			t.Errorf("%s/%03d: %q: expected %v, got %v", t.Name(), i, row.Input, row.Expected, actual)
		}
	}
}

func runForEachTests(t *testing.T, m Matcher, expected []byte) {
	t.Helper()
	actual := make([]byte, 0, len(expected))
	m.ForEach(func(b byte) {
		actual = append(actual, b)
	})
	if string(actual) == string(expected) {
		return
	}
	actualRunes := bytesAsRunes(actual)
	expectedRunes := bytesAsRunes(expected)
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(expectedRunes, actualRunes, false)
	pretty := dmp.DiffPrettyText(diffs)
	nl := regexp.MustCompile(`(?m)^`)
	pretty = nl.ReplaceAllLiteralString(pretty, "\t")
	t.Errorf("%s: wrong output:\n%s", t.Name(), pretty)
}

func TestAll_Match(t *testing.T) {
	m := All()
	runByteMatchTests(t, m, []matchRow{
		{'0', true},
		{'A', true},
		{'z', true},
		{' ', true},
		{0xff, true},
		{0x00, true},
	})
}

func TestAll_ForEach(t *testing.T) {
	runForEachTests(t, All(), allBytes)
}

func TestNone_Match(t *testing.T) {
	m := None()
	runByteMatchTests(t, m, []matchRow{
		{'0', false},
		{0xff, false},
		{0x00, false},
	})
}

func TestNone_ForEach(t *testing.T) {
	runForEachTests(t, None(), nil)
}

func TestExactly_Match(t *testing.T) {
	m := Exactly('a')
	runByteMatchTests(t, m, []matchRow{
		{'a', true},
		{'b', false},
		{0x00, false},
	})
}

func TestExactly_ForEach(t *testing.T) {
	runForEachTests(t, Exactly('Q'), []byte{'Q'})
}

func TestRanges_Match(t *testing.T) {
	m := Ranges(Range{'0', '9'}, Range{'a', 'f'})
	runByteMatchTests(t, m, []matchRow{
		{'0', true},
		{'5', true},
		{'9', true},
		{'a', true},
		{'f', true},
		{'g', false},
		{':', false},
		{'A', false},
	})
}

func TestRanges_CoalescesOverlapsAndAdjacency(t *testing.T) {
	m := Ranges(Range{'d', 'f'}, Range{'a', 'c'}, Range{'c', 'd'}, Range{'z', 'a'})
	s := ToSet(m)
	require.Equal(t, 6, s.Popcount())
	for _, b := range []byte("abcdef") {
		assert.True(t, s.Contains(b), "expected %q to be a member", b)
	}
	assert.False(t, s.Contains('z'))
}

func TestAnd_Match(t *testing.T) {
	m := And()
	runByteMatchTests(t, m, []matchRow{
		{0x00, true},
		{0xff, true},
	})
	m = And(All(), None())
	runByteMatchTests(t, m, []matchRow{
		{0x00, false},
		{0xff, false},
	})
	m = And(Ranges(Range{'0', '9'}), Ranges(Range{'5', 'z'}))
	runByteMatchTests(t, m, []matchRow{
		{'5', true},
		{'9', true},
		{'4', false},
		{'a', false},
	})
}

func TestAnd_ForEach(t *testing.T) {
	m := And(Ranges(Range{'0', '9'}), Ranges(Range{'5', 'z'}))
	runForEachTests(t, m, []byte("56789"))
}

func TestOr_Match(t *testing.T) {
	m := Or()
	runByteMatchTests(t, m, []matchRow{
		{0x00, false},
		{0xff, false},
	})
	m = Or(None(), All())
	runByteMatchTests(t, m, []matchRow{
		{0x00, true},
		{0xff, true},
	})
}

func TestOr_ForEach(t *testing.T) {
	m := Or(Exactly('a'), Exactly('c'), Exactly('b'))
	runForEachTests(t, m, []byte("abc"))
}

func TestNot_Match(t *testing.T) {
	m := Not(Ranges(Range{'a', 'z'}))
	runByteMatchTests(t, m, []matchRow{
		{'a', false},
		{'m', false},
		{'z', false},
		{'A', true},
		{'0', true},
	})
}

func TestNot_ForEach(t *testing.T) {
	m0 := Not(All())
	runForEachTests(t, m0, nil)

	m1 := Not(None())
	runForEachTests(t, m1, allBytes)
}

func TestNot_String(t *testing.T) {
	assert.Equal(t, "!.", Not(All()).String())
}

func TestSet_AddByteAndContains(t *testing.T) {
	s := New()
	assert.False(t, s.Contains('x'))
	s.AddByte('x')
	assert.True(t, s.Contains('x'))
	assert.False(t, s.Contains('y'))
}

func TestSet_AddRange(t *testing.T) {
	s := New()
	s.AddRange('a', 'e')
	for _, b := range []byte("abcde") {
		assert.True(t, s.Contains(b))
	}
	assert.False(t, s.Contains('f'))

	// An inverted range adds nothing.
	before := s.Popcount()
	s.AddRange('z', 'a')
	assert.Equal(t, before, s.Popcount())
}

func TestSet_Popcount(t *testing.T) {
	s := New()
	require.Equal(t, 0, s.Popcount())
	s.AddRange(0, 255)
	require.Equal(t, 256, s.Popcount())
}

func TestSet_PrecomputeExpected_Singletons(t *testing.T) {
	s := New()
	s.AddByte('a')
	s.AddByte('c')
	got := s.PrecomputeExpected()
	assert.Equal(t, []ExpectedRange{
		{Lo: 'a', Hi: 'a'},
		{Lo: 'c', Hi: 'c'},
	}, got)
}

func TestSet_PrecomputeExpected_AdjacentPairReportedAsTwoPoints(t *testing.T) {
	s := New()
	s.AddByte('x')
	s.AddByte('y')
	got := s.PrecomputeExpected()
	assert.Equal(t, []ExpectedRange{
		{Lo: 'x', Hi: 'x'},
		{Lo: 'y', Hi: 'y'},
	}, got)
}

func TestSet_PrecomputeExpected_RunCollapsesToRange(t *testing.T) {
	s := New()
	s.AddRange('0', '9')
	got := s.PrecomputeExpected()
	assert.Equal(t, []ExpectedRange{{Lo: '0', Hi: '9'}}, got)
}

func TestSet_PrecomputeExpected_TooWideReturnsNil(t *testing.T) {
	s := New()
	s.AddRange(0, 200)
	require.Greater(t, s.Popcount(), maxExpectedPopcount)
	assert.Nil(t, s.PrecomputeExpected())
}

func TestToSet_PreservesDenseSetIdentity(t *testing.T) {
	s := New()
	s.AddByte('q')
	assert.Same(t, s, ToSet(s))
}

func TestToSet_MaterializesComposedMatcher(t *testing.T) {
	m := Or(Ranges(Range{'0', '9'}), Exactly('x'))
	s := ToSet(m)
	assert.True(t, s.Contains('5'))
	assert.True(t, s.Contains('x'))
	assert.False(t, s.Contains('y'))
}

func TestBytes_AppendsMatchedBytes(t *testing.T) {
	out := Bytes(Exactly('Q'), []byte("prefix-"))
	assert.Equal(t, "prefix-Q", string(out))
}
