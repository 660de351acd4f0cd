package tree

import (
	"regexp"
	"testing"

	"github.com/renstrom/dedent"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reIndent = regexp.MustCompile(`(?m)^`)

func diff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	pretty := dmp.DiffPrettyText(diffs)
	return reIndent.ReplaceAllLiteralString(pretty, "\t")
}

func newFixture() *Tree {
	t := New()
	t.BindInput([]byte("abc123"))
	t.BindStrings([]string{"digits", "letters", "expected digit"})
	return t
}

func TestTree_AddStringAndText(t *testing.T) {
	tr := newFixture()
	id := tr.AddString(0, 3)
	assert.Equal(t, String, tr.Type(id))
	start, end := tr.Range(id)
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
	assert.Equal(t, "abc", tr.Text(id))
}

func TestTree_AddNodeWrapsChild(t *testing.T) {
	tr := newFixture()
	str := tr.AddString(3, 6)
	n := tr.AddNode(0, str, 3, 6)
	assert.Equal(t, Node, tr.Type(n))
	assert.Equal(t, "digits", tr.Name(n))
	child, ok := tr.Child(n)
	require.True(t, ok)
	assert.Equal(t, str, child)
	assert.Equal(t, "123", tr.Text(n))
}

func TestTree_AddSequenceOrdersChildren(t *testing.T) {
	tr := newFixture()
	a := tr.AddString(0, 1)
	b := tr.AddString(1, 2)
	c := tr.AddString(2, 3)
	seq := tr.AddSequence([]NodeID{a, b, c}, 0, 3)
	assert.Equal(t, Sequence, tr.Type(seq))
	assert.Equal(t, 3, tr.ChildrenLen(seq))
	assert.Equal(t, []NodeID{a, b, c}, tr.Children(seq))
	assert.Equal(t, "abc", tr.Text(seq))
}

func TestTree_AddErrorWithAndWithoutChild(t *testing.T) {
	tr := newFixture()
	bare := tr.AddError(1, 2, 3, 3)
	assert.Equal(t, Error, tr.Type(bare))
	assert.Equal(t, "letters", tr.Name(bare))
	assert.Equal(t, "expected digit", tr.Message(bare))
	_, ok := tr.Child(bare)
	assert.False(t, ok)
	assert.Equal(t, "error[letters]", tr.Text(bare))

	str := tr.AddString(3, 6)
	withChild := tr.AddErrorWithChild(1, 2, str, 3, 6)
	child, ok := tr.Child(withChild)
	require.True(t, ok)
	assert.Equal(t, str, child)
	assert.Equal(t, "123", tr.Text(withChild))
}

func TestTree_RootUnsetBeforeFirstNode(t *testing.T) {
	tr := New()
	_, ok := tr.Root()
	assert.False(t, ok)
}

func TestTree_SetRootAndRoot(t *testing.T) {
	tr := newFixture()
	id := tr.AddString(0, 3)
	tr.SetRoot(id)
	root, ok := tr.Root()
	require.True(t, ok)
	assert.Equal(t, id, root)
}

func TestTree_Reset(t *testing.T) {
	tr := newFixture()
	tr.AddString(0, 3)
	tr.SetRoot(0)
	tr.Reset()
	assert.Equal(t, 0, tr.Len())
	_, ok := tr.Root()
	assert.False(t, ok)
}

func TestTree_Pretty(t *testing.T) {
	tr := newFixture()
	letters := tr.AddString(0, 3)
	digits := tr.AddString(3, 6)
	digitsNode := tr.AddNode(0, digits, 3, 6)
	root := tr.AddSequence([]NodeID{letters, digitsNode}, 0, 6)

	out := tr.Pretty(root)
	assert.Contains(t, out, "Sequence (0..6)")
	assert.Contains(t, out, `"abc"`)
	assert.Contains(t, out, "digits (3..6)")
	assert.Contains(t, out, "└── ")
}

// TestTree_PrettyFixture checks Pretty's exact rendering against a
// dedented multi-line fixture, in the same style peggyvm_test.go checks
// Disassemble's output.
func TestTree_PrettyFixture(t *testing.T) {
	tr := newFixture()
	letters := tr.AddString(0, 3)
	digits := tr.AddString(3, 6)
	digitsNode := tr.AddNode(0, digits, 3, 6)
	root := tr.AddSequence([]NodeID{letters, digitsNode}, 0, 6)

	actual := tr.Pretty(root)
	expected := dedent.Dedent(`
		Sequence (0..6)
		├── "abc"
		└── digits (3..6)
		    └── "123"
		`)[1:]
	if actual != expected {
		t.Errorf("%s: wrong output:\n%s", t.Name(), diff(expected, actual))
	}
}

func TestTree_PrettyEscapesSpecialBytes(t *testing.T) {
	tr := New()
	tr.BindInput([]byte("a\"b\\c\n"))
	id := tr.AddString(0, 6)
	out := tr.Pretty(id)
	assert.Contains(t, out, `"a\"b\\c\n"`)
}

func TestTree_Highlight_WrapsAnsiByKind(t *testing.T) {
	tr := newFixture()
	str := tr.AddString(0, 3)
	node := tr.AddNode(0, str, 0, 3)

	out := tr.Highlight(node)
	assert.Contains(t, out, ansiCyan)
	assert.Contains(t, out, ansiDim)
	assert.Contains(t, out, ansiReset)
}

func TestTree_Highlight_ErrorIsRed(t *testing.T) {
	tr := newFixture()
	errID := tr.AddError(1, -1, 0, 0)
	out := tr.Highlight(errID)
	assert.Contains(t, out, ansiRed)
}

func TestTree_Name_OutOfRangeIndexReturnsEmpty(t *testing.T) {
	tr := New()
	tr.BindStrings([]string{"only"})
	id := tr.AddNode(5, tr.AddString(0, 0), 0, 0)
	assert.Equal(t, "", tr.Name(id))
}
