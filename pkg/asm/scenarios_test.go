package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evmasm/pkg/ir"
	"evmasm/pkg/layout"
	"evmasm/pkg/value"
)

// S1 — Constant folding of a tiny program (spec.md §8).
func TestScenarioS1ConstantFolding(t *testing.T) {
	root := ir.Program{
		ir.Lit([]byte{0x01}),
		ir.Lit([]byte{0x02}),
		ir.Op("add"),
		ir.Lit([]byte{0x00}),
		ir.Op("mstore"),
		ir.Lit([]byte{0x20}),
		ir.Lit([]byte{0x00}),
		ir.Op("return"),
	}
	out, err := Assemble(root)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xF3}, out)
}

// S2 — Forward label, single iteration suffices.
func TestScenarioS2ForwardLabel(t *testing.T) {
	root := ir.Program{
		ir.Ref("end"),
		ir.Op("jump"),
		ir.NewScope("end", ir.Op("stop")),
	}
	out, err := Assemble(root)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x04, 0x56, 0x5B, 0x00}, out)
}

// S3 — Label whose address forces width growth.
func TestScenarioS3WidthGrowth(t *testing.T) {
	var root ir.Program
	root = append(root, ir.Ref("end"))
	for i := 0; i < 254; i++ {
		root = append(root, ir.Op("stop"))
	}
	root = append(root, ir.NewScope("end", ir.Op("stop")))

	out, err := Assemble(root)
	require.NoError(t, err)

	// The ref itself widened to 2 bytes once it pushed "end" past 0xFF;
	// assert its emitted opcode is PUSH2 and its immediate matches the
	// scope's recorded address.
	require.GreaterOrEqual(t, len(out), 3)
	assert.Equal(t, byte(0x61), out[0]) // PUSH2
	addr := int(out[1])<<8 | int(out[2])
	assert.Greater(t, addr, 0xFF)
	assert.Equal(t, byte(0x5B), out[addr])
}

// S4 — BytesScope pointer and size.
func TestScenarioS4BytesScopePtrAndSize(t *testing.T) {
	root := ir.Program{
		ir.Size("d"),
		ir.Ptr("d"),
		ir.Lit([]byte{0x00}),
		ir.Op("codecopy"),
		ir.NewBytesScope("d", []byte{0xDE, 0xAD, 0xBE, 0xEF}),
	}
	out, err := Assemble(root)
	require.NoError(t, err)

	// PUSH1 04 (size) PUSH1 addr(d) (ptr) PUSH1 00 CODECOPY <blob>
	assert.Equal(t, byte(0x60), out[0])
	assert.Equal(t, byte(0x04), out[1])
	ptr := int(out[3])
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, out[ptr:ptr+4])
}

// S5 — Parameterized builder.
func TestScenarioS5ParameterizedBuilder(t *testing.T) {
	root := ir.Program{
		ir.Arg(0),
		ir.Arg(1),
		ir.Op("add"),
		ir.Lit([]byte{0x00}),
		ir.Op("mstore"),
		ir.Lit([]byte{0x20}),
		ir.Lit([]byte{0x00}),
		ir.Op("return"),
	}
	tmpl, err := BuildTemplate(root)
	require.NoError(t, err)
	assert.Equal(t, 2, tmpl.Arity())

	out, err := tmpl.Instantiate([]value.Value{value.Uint64(10), value.Uint64(20)})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x0A, 0x60, 0x14, 0x01, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xF3}, out)

	out, err = tmpl.Instantiate([]value.Value{value.Uint64(0), value.Uint64(0)})
	require.NoError(t, err)
	assert.Equal(t, byte(0x60), out[0])
	assert.Equal(t, byte(0x00), out[1])
	assert.Equal(t, byte(0x60), out[2])
	assert.Equal(t, byte(0x00), out[3])
}

// S6 — Nested scopes with cross-reference.
func TestScenarioS6NestedScopes(t *testing.T) {
	root := ir.Program{
		ir.NewScope("main",
			ir.Ref("done"),
			ir.Op("jump"),
			ir.NewScope("done", ir.Op("stop")),
		),
	}
	out, err := Assemble(root)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	result, err := layout.Run(root)
	require.NoError(t, err)
	main := result.Addr["main"]
	done := result.Addr["done"]
	assert.Less(t, main, done)
}
