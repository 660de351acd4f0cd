package vm

import (
	"github.com/clarete/langlang/bytecode"
	"github.com/clarete/langlang/tree"
)

// Image is the loaded, validated program a Vm executes. Re-exported so
// callers need only import this package for the common case.
type Image = bytecode.Image

// NodeID identifies a node in a Vm's result tree.
type NodeID = tree.NodeID

// Vm runs a single Image, one match at a time. An Image is immutable
// and safe to share across any number of Vm instances; a Vm itself owns
// its tree and internal buffers exclusively and must not be used
// concurrently from multiple goroutines.
type Vm struct {
	image *bytecode.Image
	tree  *tree.Tree

	labelMessages map[uint32]uint32
	showFails     bool

	ffp       int
	predicate bool
	expected  expectedSet

	capOffsetID    int32
	capOffsetStart int

	frames []frame
	arena  nodeArena
}

// New returns a Vm ready to run matches against image.
func New(image *bytecode.Image) *Vm {
	t := tree.New()
	t.BindStrings(image.Strings)
	return &Vm{image: image, tree: t}
}

// SetLabelMessages installs the label-id-to-message-string-index map
// used when formatting a labeled ParsingError: if a label's id has an
// entry here, that string table entry is used verbatim as the error
// message instead of the synthesized "Expected/Unexpected" text.
func (vm *Vm) SetLabelMessages(messages map[uint32]uint32) {
	vm.labelMessages = messages
}

// SetShowFails toggles expected-set accumulation. When enabled, a
// ParsingError's message includes the "Expected X, Y, Z but got ..."
// clause built from every character-class check that failed at the
// furthest-failure-position.
func (vm *Vm) SetShowFails(show bool) {
	vm.showFails = show
	if show {
		vm.expected.clear()
	}
}

func (vm *Vm) reset() {
	vm.frames = vm.frames[:0]
	vm.arena.reset()
	vm.tree.Reset()
	vm.ffp = -1
	vm.predicate = false
	vm.capOffsetID = -1
	vm.capOffsetStart = 0
	if vm.showFails {
		vm.expected.clear()
	}
}

// Root returns the id of the tree's root node, if the last match
// succeeded and captured anything.
func (vm *Vm) Root() (NodeID, bool) { return vm.tree.Root() }

// Type returns id's node kind.
func (vm *Vm) Type(id NodeID) tree.Kind { return vm.tree.Type(id) }

// Name returns id's capture or error-label name.
func (vm *Vm) Name(id NodeID) string { return vm.tree.Name(id) }

// Range returns id's [start, end) byte span.
func (vm *Vm) Range(id NodeID) (int, int) { return vm.tree.Range(id) }

// Text reconstructs the substring id covers.
func (vm *Vm) Text(id NodeID) string { return vm.tree.Text(id) }

// Children returns id's child node ids, in order.
func (vm *Vm) Children(id NodeID) []NodeID { return vm.tree.Children(id) }

// Pretty renders id and its descendants as a box-drawing tree.
func (vm *Vm) Pretty(id NodeID) string { return vm.tree.Pretty(id) }

// Highlight is Pretty with ANSI color applied per node kind.
func (vm *Vm) Highlight(id NodeID) string { return vm.tree.Highlight(id) }
