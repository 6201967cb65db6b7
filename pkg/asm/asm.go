// Package asm exposes the assembler's two public entry points, Assemble
// and BuildTemplate, and owns the Emitter: the final sequential walk that
// turns a stable layout.Result into bytes.
package asm

import (
	"github.com/google/uuid"

	"evmasm/internal/diag"
	"evmasm/pkg/asmerr"
	"evmasm/pkg/ir"
	"evmasm/pkg/layout"
	"evmasm/pkg/value"
)

// Assemble runs the full pipeline — layout, then emit — on a static
// program and returns the finished bytecode.
func Assemble(root ir.Program) ([]byte, error) {
	result, err := layout.Run(root)
	if err != nil {
		return nil, err
	}
	return emit(result)
}

// emit performs the one sequential walk spec.md §4.5 describes: no
// further address or width computation happens here, only byte writing
// against the stable result Run produced.
func emit(result *layout.Result) ([]byte, error) {
	out := make([]byte, 0, estimateCapacity(result))

	for _, a := range result.Atoms {
		switch a.Kind {
		case layout.AtomOpcode:
			out = append(out, a.Opcode)

		case layout.AtomLiteral:
			out = append(out, pushOpcode(len(a.Data)))
			out = append(out, a.Data...)

		case layout.AtomScopeEntry:
			out = append(out, 0x5B) // JUMPDEST

		case layout.AtomBytesScope:
			out = append(out, a.Data...)

		case layout.AtomRef:
			target, err := refTarget(result, a)
			if err != nil {
				return nil, err
			}
			immediate, err := leftPad(target, a.Width)
			if err != nil {
				return nil, err
			}
			out = append(out, pushOpcode(a.Width))
			out = append(out, immediate...)
		}
	}

	return out, nil
}

func refTarget(result *layout.Result, a layout.Atom) (int, error) {
	switch a.RefKind {
	case layout.RefLabel, layout.RefPtr:
		addr, ok := result.Addr[a.Name]
		if !ok {
			return 0, asmerr.NewUndefinedReference(a.Name)
		}
		return addr, nil
	case layout.RefSize:
		size, ok := result.Size[a.Name]
		if !ok {
			return 0, asmerr.NewUndefinedReference(a.Name)
		}
		return size, nil
	default:
		return 0, asmerr.NewUndefinedReference(a.Name)
	}
}

// leftPad encodes n as exactly width big-endian bytes, left-padding with
// zeros — required so the emitted immediate length always matches the
// PUSH opcode it follows. After layout converges each reference's width
// already equals n's own minimal encoding (property 5/6 in spec.md §8),
// so the padding only matters if a caller passes a wider width.
func leftPad(n int, width int) ([]byte, error) {
	b, err := value.Uint64(uint64(n)).ToEVMBytes()
	if err != nil {
		return nil, err
	}
	if len(b) > width {
		return nil, asmerr.NewAddressOverflow(n)
	}
	out := make([]byte, width)
	copy(out[width-len(b):], b)
	return out, nil
}

func pushOpcode(width int) byte {
	return byte(0x60 + width - 1)
}

func estimateCapacity(result *layout.Result) int {
	if result.Length > 0 {
		return result.Length
	}
	return len(result.Atoms)
}

// Template wraps an IR tree containing Placeholder nodes, letting callers
// re-assemble it for different runtime arguments without re-walking the
// IR by hand each time. ID tags every Instantiate call for log
// correlation (see internal/diag) — it never influences assembled bytes.
type Template struct {
	root  ir.Program
	arity int
	id    uuid.UUID
	log   diag.Logger
}

// BuildTemplate scans root for Placeholder nodes and returns a Template
// ready to Instantiate. Arity is max(i)+1 over every Placeholder(i) found;
// a template with no placeholders has arity 0 and Instantiate(nil) simply
// assembles root unchanged.
func BuildTemplate(root ir.Program) (*Template, error) {
	arity := 0
	walkPlaceholders(root, func(idx int) {
		if idx+1 > arity {
			arity = idx + 1
		}
	})
	return &Template{root: root, arity: arity, id: uuid.New(), log: diag.New()}, nil
}

// Arity returns the number of positional arguments Instantiate expects.
func (t *Template) Arity() int { return t.arity }

// ID returns the template's build identifier, attached to every log line
// emitted during its instantiations.
func (t *Template) ID() uuid.UUID { return t.id }

// Instantiate substitutes each Placeholder(i) in the template with
// Literal(encode(args[i])), then runs the full pipeline. Fewer arguments
// than the template's arity fails with asmerr.MissingArgument; more fails
// with asmerr.ExtraArguments (see DESIGN.md for why extras are rejected
// rather than silently dropped).
func (t *Template) Instantiate(args []value.Value) ([]byte, error) {
	log := t.log.WithField("template", t.id.String())

	if len(args) < t.arity {
		return nil, asmerr.NewMissingArgument(len(args))
	}
	if len(args) > t.arity {
		return nil, asmerr.NewExtraArguments(len(args), t.arity)
	}

	log.Debugf("asm: instantiating template with %d argument(s)", len(args))

	substituted, err := substitute(t.root, args)
	if err != nil {
		return nil, err
	}
	return Assemble(substituted)
}

// substitute rewrites every Placeholder(i) into a Literal carrying
// args[i]'s encoded bytes. It runs to completion before layout.Run ever
// sees the tree, so layout has zero placeholder-aware code paths
// (spec.md §9 "Placeholder position within scopes").
func substitute(elems ir.Program, args []value.Value) (ir.Program, error) {
	out := make(ir.Program, len(elems))
	for i, el := range elems {
		rewritten, err := substituteOne(el, args)
		if err != nil {
			return nil, err
		}
		out[i] = rewritten
	}
	return out, nil
}

func substituteOne(el ir.Element, args []value.Value) (ir.Element, error) {
	switch e := el.(type) {
	case *ir.Placeholder:
		if e.Index < 0 || e.Index >= len(args) {
			return nil, asmerr.NewMissingArgument(e.Index)
		}
		encoded, err := args[e.Index].ToEVMBytes()
		if err != nil {
			return nil, err
		}
		return ir.Lit(encoded), nil

	case *ir.Scope:
		children, err := substitute(e.Children, args)
		if err != nil {
			return nil, err
		}
		return &ir.Scope{Name: e.Name, Children: children}, nil

	default:
		return el, nil
	}
}

func walkPlaceholders(elems ir.Program, visit func(idx int)) {
	for _, el := range elems {
		switch e := el.(type) {
		case *ir.Placeholder:
			visit(e.Index)
		case *ir.Scope:
			walkPlaceholders(e.Children, visit)
		}
	}
}
