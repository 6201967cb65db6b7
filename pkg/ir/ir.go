// Package ir is the intermediate representation consumed by the layout
// engine and emitter: a tagged tree of program elements built by a
// parser (external to this module) or by the parameterized builder after
// placeholder substitution.
//
// Element is a marker interface rather than a closed enum, following the
// pack's AST convention (see e.g. a compiler's Expr/Stmt node types) of
// one exported struct per variant plus a private marker method, instead
// of a single discriminated-union struct.
package ir

import "fmt"

// Element is satisfied by every node that can appear in a program.
type Element interface {
	element()
	String() string
}

// Program is the root container passed to Assemble/BuildTemplate. It is
// just a named []Element; the wrapper exists so the root has somewhere
// to hang a String() without forcing callers to wrap their program in a
// synthetic top-level Scope.
type Program []Element

func (p Program) String() string {
	return fmt.Sprintf("Program(%d elements)", len(p))
}

// Literal emits PUSH{len(Data)} followed by Data verbatim. Data must be
// 1-32 bytes; layout.Run enforces the ceiling.
type Literal struct {
	Data []byte
}

func (*Literal) element()         {}
func (l *Literal) String() string { return fmt.Sprintf("Literal(% x)", l.Data) }

// Lit constructs a Literal element.
func Lit(data []byte) *Literal {
	return &Literal{Data: append([]byte(nil), data...)}
}

// Opcode emits the one-byte opcode the opcode table resolves Name to.
type Opcode struct {
	Name string
}

func (*Opcode) element()         {}
func (o *Opcode) String() string { return o.Name }

// Op constructs an Opcode element.
func Op(name string) *Opcode {
	return &Opcode{Name: name}
}

// LabelRef emits PUSH{w} of the named Scope's JUMPDEST address, where w
// is chosen by the layout engine.
type LabelRef struct {
	Name string
}

func (*LabelRef) element()         {}
func (r *LabelRef) String() string { return fmt.Sprintf("LabelRef(%s)", r.Name) }

// Ref constructs a LabelRef element.
func Ref(name string) *LabelRef {
	return &LabelRef{Name: name}
}

// Scope is a jump target: it emits JUMPDEST at its address, then its
// children in order. A reference to a Scope resolves to this JUMPDEST's
// address. Scope and BytesScope names share one flat namespace.
type Scope struct {
	Name     string
	Children Program
}

func (*Scope) element() {}
func (s *Scope) String() string {
	return fmt.Sprintf("Scope(%s, %d children)", s.Name, len(s.Children))
}

// NewScope constructs a Scope element.
func NewScope(name string, children ...Element) *Scope {
	return &Scope{Name: name, Children: Program(children)}
}

// BytesScope is a data region: children are never executed, so it has
// none. Its blob is emitted verbatim at its address. A reference to a
// BytesScope's pointer yields the address of the first blob byte, not a
// JUMPDEST.
type BytesScope struct {
	Name string
	Blob []byte
}

func (*BytesScope) element() {}
func (b *BytesScope) String() string {
	return fmt.Sprintf("BytesScope(%s, %d bytes)", b.Name, len(b.Blob))
}

// NewBytesScope constructs a BytesScope element.
func NewBytesScope(name string, blob []byte) *BytesScope {
	return &BytesScope{Name: name, Blob: append([]byte(nil), blob...)}
}

// BytesPtr emits PUSH{w} of the named BytesScope's starting address.
type BytesPtr struct {
	Name string
}

func (*BytesPtr) element()         {}
func (p *BytesPtr) String() string { return fmt.Sprintf("BytesPtr(%s)", p.Name) }

// Ptr constructs a BytesPtr element.
func Ptr(name string) *BytesPtr {
	return &BytesPtr{Name: name}
}

// BytesSize emits PUSH{w} of the named BytesScope's byte length.
type BytesSize struct {
	Name string
}

func (*BytesSize) element()         {}
func (s *BytesSize) String() string { return fmt.Sprintf("BytesSize(%s)", s.Name) }

// Size constructs a BytesSize element.
func Size(name string) *BytesSize {
	return &BytesSize{Name: name}
}

// Placeholder is a deferred literal slot, resolved by the parameterized
// builder before layout ever runs. It exists only in the parameterized
// path; a Placeholder reaching layout.Run directly (never substituted)
// is a caller bug, not a spec'd error case, since §4.6 says substitution
// always happens first.
type Placeholder struct {
	Index int
}

func (*Placeholder) element()         {}
func (p *Placeholder) String() string { return fmt.Sprintf("Placeholder(%d)", p.Index) }

// Arg constructs a Placeholder element.
func Arg(index int) *Placeholder {
	return &Placeholder{Index: index}
}
