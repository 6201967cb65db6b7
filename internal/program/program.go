// Package program is a minimal YAML program description consumed only by
// cmd/evmasm. It is a demo front end, not the spec's external parser
// collaborator: it understands a small, fixed vocabulary (mnemonic
// lines, literal, label/scope, bytes, push_label/push_ptr/push_size, and
// arg placeholders) sufficient to express spec.md's worked examples, and
// nothing more. A real surface-syntax front end remains out of scope.
package program

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"

	"evmasm/pkg/ir"
	"evmasm/pkg/value"
)

// Document is the top-level YAML shape: a flat "program" list of steps.
type Document struct {
	Program []Step `yaml:"program"`
}

// Step is one line of the demo vocabulary. Exactly one of its fields
// should be set; the first non-empty field wins if more than one is
// present, rather than erroring, to keep the demo format forgiving.
type Step struct {
	Op        string `yaml:"op,omitempty"`
	Literal   string `yaml:"literal,omitempty"`
	Label     string `yaml:"label,omitempty"`
	Body      []Step `yaml:"body,omitempty"`
	Bytes     string `yaml:"bytes,omitempty"`
	Data      string `yaml:"data,omitempty"`
	PushLabel string `yaml:"push_label,omitempty"`
	PushPtr   string `yaml:"push_ptr,omitempty"`
	PushSize  string `yaml:"push_size,omitempty"`
	Arg       *int   `yaml:"arg,omitempty"`
}

// Parse reads a YAML document from r and returns the equivalent
// ir.Program, built entirely from pkg/ir's public constructors.
func Parse(r io.Reader) (ir.Program, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("program: reading input: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("program: parsing yaml: %w", err)
	}

	return stepsToProgram(doc.Program)
}

func stepsToProgram(steps []Step) (ir.Program, error) {
	out := make(ir.Program, 0, len(steps))
	for i, s := range steps {
		el, err := stepToElement(s)
		if err != nil {
			return nil, fmt.Errorf("program: step %d: %w", i, err)
		}
		out = append(out, el)
	}
	return out, nil
}

func stepToElement(s Step) (ir.Element, error) {
	switch {
	case s.Op != "":
		return ir.Op(s.Op), nil

	case s.Literal != "":
		b, err := parseLiteral(s.Literal)
		if err != nil {
			return nil, err
		}
		return ir.Lit(b), nil

	case s.Label != "":
		children, err := stepsToProgram(s.Body)
		if err != nil {
			return nil, err
		}
		return ir.NewScope(s.Label, children...), nil

	case s.Bytes != "":
		blob, err := parseHex(s.Data)
		if err != nil {
			return nil, err
		}
		return ir.NewBytesScope(s.Bytes, blob), nil

	case s.PushLabel != "":
		return ir.Ref(s.PushLabel), nil

	case s.PushPtr != "":
		return ir.Ptr(s.PushPtr), nil

	case s.PushSize != "":
		return ir.Size(s.PushSize), nil

	case s.Arg != nil:
		return ir.Arg(*s.Arg), nil

	default:
		return nil, fmt.Errorf("step has no recognized field")
	}
}

// parseLiteral accepts either a "0x..."-prefixed hex string or a plain
// decimal integer. A decimal integer is encoded via pkg/value (leading
// zero bytes stripped, zero as a single 0x00 byte). A hex string is
// taken verbatim: an odd digit count gets one leading zero nibble,
// leading zero bytes are kept, and a bare "0x" becomes a single 0x00.
func parseLiteral(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := s[2:]
		if len(digits)%2 != 0 {
			digits = "0" + digits
		}
		b, err := hex.DecodeString(digits)
		if err != nil {
			return nil, fmt.Errorf("invalid hex literal %q: %w", s, err)
		}
		if len(b) == 0 {
			b = []byte{0x00}
		}
		return b, nil
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid literal %q", s)
	}
	return value.UintFromBig(n).ToEVMBytes()
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data %q: %w", s, err)
	}
	return b, nil
}
