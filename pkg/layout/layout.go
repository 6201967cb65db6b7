// Package layout is the fixed-point solver at the core of the assembler:
// it flattens an ir.Program into a linear instruction list, then assigns
// an address to every Scope and BytesScope while simultaneously choosing
// the narrowest PUSH width that can still encode every LabelRef, BytesPtr,
// and BytesSize target, iterating until both stabilize.
package layout

import (
	"math/big"
	"strconv"

	"evmasm/internal/diag"
	"evmasm/pkg/asmerr"
	"evmasm/pkg/ir"
	"evmasm/pkg/opcode"
	"evmasm/pkg/value"
)

// AtomKind tags how an atom's final byte length is determined. It mirrors
// spec.md §4.4 Step 1 exactly, minus the bookkeeping-only scope-exit
// marker, which is kept in the internal list and dropped before Run
// returns, so it never reaches a caller.
type AtomKind int

const (
	AtomOpcode AtomKind = iota
	AtomLiteral
	AtomScopeEntry
	AtomBytesScope
	AtomRef
)

// RefKind distinguishes the three reference-carrying element variants,
// which all share the same "PUSH{w} of a resolved value" shape but look
// up a different value.
type RefKind int

const (
	RefLabel RefKind = iota
	RefPtr
	RefSize
)

// Atom is one entry of the stable flattened instruction list, ready for
// the emitter to consume. Offset and, for AtomRef, Width are only
// meaningful once the fixed-point loop below has converged.
type Atom struct {
	Kind    AtomKind
	Opcode  byte   // AtomOpcode
	Data    []byte // AtomLiteral (PUSH immediate), AtomBytesScope (blob)
	Name    string // AtomScopeEntry, AtomBytesScope, AtomRef
	RefKind RefKind
	Width   int // AtomRef only
	Offset  int
}

// Result is the output of Run: the stable flattened atom list plus the
// name->address and name->size maps the emitter resolves references
// against.
type Result struct {
	Atoms  []Atom
	Addr   map[string]int
	Size   map[string]int
	Length int
}

// internal working atom kept mutable across fixed-point iterations; a
// scopeExit entry is kept here for fidelity with spec.md's flatten step
// but carries zero length and never becomes an exported Atom.
type workAtom struct {
	kind    AtomKind
	isExit  bool
	opcode  byte
	data    []byte
	name    string
	refKind RefKind
	width   int
	offset  int
}

// Run flattens root and solves for stable addresses and reference widths.
func Run(root ir.Program) (*Result, error) {
	log := diag.New()

	atoms, names, err := flatten(root, log)
	if err != nil {
		return nil, err
	}
	if err := checkReferences(atoms, names); err != nil {
		return nil, err
	}

	refCount := 0
	for _, a := range atoms {
		if a.kind == AtomRef {
			refCount++
		}
	}
	maxIterations := 32*refCount + 1

	addr := make(map[string]int)
	size := make(map[string]int)
	var finalOffset int

	for iteration := 0; iteration < maxIterations; iteration++ {
		offset := 0
		addr = make(map[string]int)
		size = make(map[string]int)

		for _, a := range atoms {
			a.offset = offset
			if a.isExit {
				continue // bookkeeping only, zero length
			}
			switch a.kind {
			case AtomOpcode:
				offset += 1
			case AtomLiteral:
				offset += 1 + len(a.data)
			case AtomScopeEntry:
				addr[a.name] = offset
				offset += 1
			case AtomBytesScope:
				addr[a.name] = offset
				size[a.name] = len(a.data)
				offset += len(a.data)
			case AtomRef:
				offset += 1 + a.width
			}
		}
		if offset < 0 {
			return nil, asmerr.NewAddressOverflow(offset)
		}

		changed := false
		for _, a := range atoms {
			if a.kind != AtomRef {
				continue
			}
			var target int
			switch a.refKind {
			case RefLabel, RefPtr:
				target = addr[a.name]
			case RefSize:
				target = size[a.name]
			}
			w := value.MinWidth(big.NewInt(int64(target)))
			if w > 32 {
				return nil, asmerr.NewAddressOverflow(target)
			}
			if w != a.width {
				log.WithField("ref", a.name).Debugf("layout: widening reference from %d to %d bytes (target %d)", a.width, w, target)
				a.width = w
				changed = true
			}
		}

		if !changed {
			finalOffset = offset
			break
		}
		if iteration == maxIterations-1 {
			return nil, asmerr.NewLayoutDidNotConverge(maxIterations)
		}
	}

	if finalOffset < 0 {
		return nil, asmerr.NewAddressOverflow(finalOffset)
	}

	out := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		if a.isExit {
			continue
		}
		out = append(out, Atom{
			Kind:    a.kind,
			Opcode:  a.opcode,
			Data:    a.data,
			Name:    a.name,
			RefKind: a.refKind,
			Width:   a.width,
			Offset:  a.offset,
		})
	}

	return &Result{Atoms: out, Addr: addr, Size: size, Length: finalOffset}, nil
}

// flatten walks root depth-first, producing the linear atom list and the
// set of all Scope/BytesScope names encountered (duplicates rejected
// immediately, per the flat shared namespace spec.md §3 requires).
func flatten(root ir.Program, log diag.Logger) ([]*workAtom, map[string]bool, error) {
	var atoms []*workAtom
	names := make(map[string]bool)

	var walk func(ir.Program) error
	walk = func(elems ir.Program) error {
		for _, el := range elems {
			switch e := el.(type) {
			case *ir.Literal:
				if len(e.Data) < 1 || len(e.Data) > 32 {
					return asmerr.NewInvalidLiteral(len(e.Data))
				}
				atoms = append(atoms, &workAtom{kind: AtomLiteral, data: e.Data})

			case *ir.Opcode:
				op, err := opcode.Lookup(e.Name)
				if err != nil {
					return err
				}
				if opcode.IsJump(e.Name) {
					log.Debugf("layout: jump-family opcode %s at flatten-time offset %d", e.Name, len(atoms))
				} else if opcode.IsPush(e.Name) {
					log.Debugf("layout: raw PUSH opcode %s emitted via Op rather than Literal/LabelRef", e.Name)
				}
				atoms = append(atoms, &workAtom{kind: AtomOpcode, opcode: op})

			case *ir.LabelRef:
				atoms = append(atoms, &workAtom{kind: AtomRef, refKind: RefLabel, name: e.Name, width: 1})

			case *ir.BytesPtr:
				atoms = append(atoms, &workAtom{kind: AtomRef, refKind: RefPtr, name: e.Name, width: 1})

			case *ir.BytesSize:
				atoms = append(atoms, &workAtom{kind: AtomRef, refKind: RefSize, name: e.Name, width: 1})

			case *ir.Scope:
				if names[e.Name] {
					return asmerr.NewDuplicateScope(e.Name)
				}
				names[e.Name] = true
				atoms = append(atoms, &workAtom{kind: AtomScopeEntry, name: e.Name})
				if err := walk(e.Children); err != nil {
					return err
				}
				atoms = append(atoms, &workAtom{isExit: true})

			case *ir.BytesScope:
				if names[e.Name] {
					return asmerr.NewDuplicateScope(e.Name)
				}
				names[e.Name] = true
				atoms = append(atoms, &workAtom{kind: AtomBytesScope, name: e.Name, data: e.Blob})

			case *ir.Placeholder:
				return asmerr.NewUndefinedReference("placeholder(" + strconv.Itoa(e.Index) + ") reached layout unsubstituted")

			default:
				return asmerr.NewUndefinedReference(e.String())
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, nil, err
	}
	return atoms, names, nil
}

func checkReferences(atoms []*workAtom, names map[string]bool) error {
	for _, a := range atoms {
		if a.kind == AtomRef && !names[a.name] {
			return asmerr.NewUndefinedReference(a.name)
		}
	}
	return nil
}
