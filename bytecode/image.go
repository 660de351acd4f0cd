package bytecode

import (
	"bytes"
	"fmt"

	"github.com/clarete/langlang/charset"
)

// Image is a loaded, validated PEG program: its string table, its
// instruction stream, and (once attached) its charset table. Image is
// immutable once fully loaded and may be shared across any number of
// concurrently running Vm instances.
type Image struct {
	// Strings is the string table, indexed by the operand of ATOM and
	// any other instruction that names a literal.
	Strings []string

	// Code is the instruction stream, one Word per instruction.
	Code []Word

	// Charsets is the charset table referenced by SET and SPAN
	// operands. It is not part of the primary binary layout; it is
	// attached separately via SetCharsets once the primary blob has
	// been loaded.
	Charsets []*charset.Set

	// Handlers maps a THROW label id to the code address of its
	// registered recovery rule, attached via SetHandlers. A label with
	// no entry here terminates the match instead of recovering.
	Handlers map[uint32]uint32

	// ErrorLabels records which capture ids, when closed by CAP_END,
	// should be wrapped as an Error node rather than a plain Node.
	// Attached via SetErrorLabels.
	ErrorLabels map[uint32]bool
}

// Len returns the number of instructions in the image.
func (img *Image) Len() int { return len(img.Code) }

// Instr returns the decoded instruction at pc. It panics if pc is out of
// range: an out-of-range pc can only be reached by a bug in the caller
// (e.g. the compiler emitting a bad jump target), since Load already
// validated every operand that Code itself carries.
func (img *Image) Instr(pc uint32) Instruction {
	if int(pc) >= len(img.Code) {
		panic(fmt.Sprintf("bytecode: instr: pc %d out of range [0,%d)", pc, len(img.Code)))
	}
	return Instruction{PC: pc, Word: img.Code[pc]}
}

// String returns the string-table entry at index i. It panics on an
// out-of-range index, for the same reason as Instr.
func (img *Image) String(i uint32) string {
	if int(i) >= len(img.Strings) {
		panic(fmt.Sprintf("bytecode: string: index %d out of range [0,%d)", i, len(img.Strings)))
	}
	return img.Strings[i]
}

// Load decodes and validates the primary binary layout: the string table
// followed by the instruction stream. It checks that every instruction's
// code-address operand lands inside the instruction stream, and that
// every ATOM operand lands inside the string table. Charset references
// are validated separately, by SetCharsets, since the charset table is
// not part of the primary blob.
func Load(blob []byte) (*Image, error) {
	r := &reader{buf: blob}

	n, err := r.u16()
	if err != nil {
		return nil, &LoadError{Err: err, Offset: r.pos}
	}
	strs := make([]string, 0, n)
	for i := uint16(0); i < n; i++ {
		s, err := r.lengthPrefixedString()
		if err != nil {
			return nil, &LoadError{Err: err, Offset: r.pos}
		}
		strs = append(strs, s)
	}

	m, err := r.u16()
	if err != nil {
		return nil, &LoadError{Err: err, Offset: r.pos}
	}
	code := make([]Word, 0, m)
	for i := uint16(0); i < m; i++ {
		w, err := r.word()
		if err != nil {
			return nil, &LoadError{Err: err, Offset: r.pos}
		}
		code = append(code, w)
	}

	img := &Image{Strings: strs, Code: code}
	if err := img.validateCode(); err != nil {
		return nil, err
	}
	return img, nil
}

func (img *Image) validateCode() error {
	m := uint32(len(img.Code))
	n := uint32(len(img.Strings))
	for pc, w := range img.Code {
		op := w.Opcode()
		if !op.IsDefined() {
			return &ValidationError{Err: ErrUnknownOpcode, PC: uint32(pc), Op: op}
		}
		if op.Jumps() && w.Addr() >= m {
			return &ValidationError{Err: ErrBadReference, PC: uint32(pc), Op: op}
		}
		if op == OpAtom && w.U() >= n {
			return &ValidationError{Err: ErrBadReference, PC: uint32(pc), Op: op}
		}
	}
	return nil
}

// SetCharsets attaches the charset table produced by the compiler
// alongside the primary blob, validating that every SET and SPAN
// operand in the image lands inside it.
func (img *Image) SetCharsets(sets []*charset.Set) error {
	n := uint32(len(sets))
	for pc, w := range img.Code {
		op := w.Opcode()
		if (op == OpSet || op == OpSpan) && w.U() >= n {
			return &ValidationError{Err: ErrBadReference, PC: uint32(pc), Op: op}
		}
	}
	img.Charsets = sets
	return nil
}

// SetHandlers attaches the compiler-produced label-to-handler-address
// map used by THROW, validating every address lands inside the image.
func (img *Image) SetHandlers(handlers map[uint32]uint32) error {
	m := uint32(len(img.Code))
	for label, addr := range handlers {
		if addr >= m {
			return &ValidationError{Err: ErrBadReference, PC: addr, Op: OpThrow}
		}
		_ = label
	}
	img.Handlers = handlers
	return nil
}

// SetErrorLabels attaches the compiler-produced set of capture ids that
// CAP_END should render as Error nodes.
func (img *Image) SetErrorLabels(labels map[uint32]bool) {
	img.ErrorLabels = labels
}

// reader is a small cursor over the raw image bytes, used only during
// Load.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) u16() (uint16, error) {
	if r.pos+2 > len(r.buf) {
		return 0, ErrTruncatedImage
	}
	// Counts are little-endian; instruction words (read by word, below)
	// are big-endian. The formats differ because they come from
	// different layers of the original toolchain.
	v := uint16(r.buf[r.pos]) | uint16(r.buf[r.pos+1])<<8
	r.pos += 2
	return v, nil
}

func (r *reader) lengthPrefixedString() (string, error) {
	if r.pos+1 > len(r.buf) {
		return "", ErrTruncatedImage
	}
	l := int(r.buf[r.pos])
	r.pos++
	if r.pos+l > len(r.buf) {
		return "", ErrTruncatedImage
	}
	s := string(r.buf[r.pos : r.pos+l])
	r.pos += l
	return s, nil
}

func (r *reader) word() (Word, error) {
	if r.pos+4 > len(r.buf) {
		return 0, ErrTruncatedImage
	}
	b := r.buf[r.pos : r.pos+4]
	w := Word(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
	r.pos += 4
	return w, nil
}

// Disassemble returns a human-readable listing of the image's string
// table, charset table, and instruction stream.
func (img *Image) Disassemble() string {
	var buf bytes.Buffer
	for i, s := range img.Strings {
		fmt.Fprintf(&buf, "%%string %d %q\n", i, s)
	}
	for i, cs := range img.Charsets {
		fmt.Fprintf(&buf, "%%charset %d %s\n", i, cs)
	}
	buf.WriteByte('\n')
	for pc, w := range img.Code {
		ins := Instruction{PC: uint32(pc), Word: w}
		fmt.Fprintf(&buf, "%04d  %s\n", pc, ins)
	}
	return buf.String()
}
