// Package value implements the EVM immediate encoding contract: turning a
// supported runtime value into the canonical byte form used as a PUSH
// immediate.
//
// Value is a capability interface rather than a closed sum type so the
// parameterized builder can accept heterogeneous argument lists at a
// single call site (see asm.Template.Instantiate).
package value

import (
	"math/big"

	"evmasm/pkg/asmerr"
)

// Value is satisfied by anything that can produce its canonical EVM
// immediate byte form.
type Value interface {
	// ToEVMBytes returns the canonical encoding, or an error if the
	// value does not fit in the 32-byte PUSH ceiling.
	ToEVMBytes() ([]byte, error)
}

// Uint is an arbitrary-width unsigned integer. It encodes as big-endian
// with leading zero bytes stripped; the integer 0 is the single
// exception and always encodes to one byte, 0x00.
//
// big.Int backs this instead of a fixed Go integer type so one Value
// implementation covers everything from a uint8 literal to a full
// 256-bit EVM word.
type Uint struct {
	N *big.Int
}

// Uint64 is a convenience constructor for the common case of a native
// uint64 literal.
func Uint64(n uint64) Uint {
	return Uint{N: new(big.Int).SetUint64(n)}
}

// UintFromBig wraps an existing big.Int.
func UintFromBig(n *big.Int) Uint {
	return Uint{N: n}
}

func (u Uint) ToEVMBytes() ([]byte, error) {
	if u.N == nil || u.N.Sign() == 0 {
		return []byte{0x00}, nil
	}
	if u.N.Sign() < 0 {
		return nil, asmerr.NewValueTooLarge(-1)
	}
	b := u.N.Bytes() // big.Int.Bytes is already big-endian, no leading zeros
	if len(b) > 32 {
		return nil, asmerr.NewValueTooLarge(len(b))
	}
	return b, nil
}

// Address is a 20-byte EVM address. It encodes verbatim: fixed-width
// values never have their leading zeros stripped, since callers depend
// on their positional width.
type Address [20]byte

func (a Address) ToEVMBytes() ([]byte, error) {
	out := make([]byte, 20)
	copy(out, a[:])
	return out, nil
}

// FixedBytes is an N-byte fixed-width array, encoded verbatim.
type FixedBytes struct {
	Data []byte
}

// NewFixedBytes validates that data is exactly width bytes long.
func NewFixedBytes(data []byte, width int) (FixedBytes, error) {
	if len(data) != width {
		return FixedBytes{}, asmerr.NewValueTooLarge(len(data))
	}
	return FixedBytes{Data: data}, nil
}

func (f FixedBytes) ToEVMBytes() ([]byte, error) {
	if len(f.Data) > 32 {
		return nil, asmerr.NewValueTooLarge(len(f.Data))
	}
	out := make([]byte, len(f.Data))
	copy(out, f.Data)
	return out, nil
}

// Bytes is a variable-length byte string, encoded verbatim (no
// stripping).
type Bytes struct {
	Data []byte
}

func (b Bytes) ToEVMBytes() ([]byte, error) {
	if len(b.Data) > 32 {
		return nil, asmerr.NewValueTooLarge(len(b.Data))
	}
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out, nil
}

// MinWidth returns the minimum number of bytes needed to represent n as
// a big-endian unsigned integer, with the zero-case special (minimum 1).
// This is the width formula invariants §8 property 5 and 6 describe, and
// is shared by both the value encoder's round-trip property and the
// layout engine's per-reference width computation.
func MinWidth(n *big.Int) int {
	if n == nil || n.Sign() == 0 {
		return 1
	}
	bitLen := n.BitLen()
	w := (bitLen + 7) / 8
	if w < 1 {
		w = 1
	}
	return w
}
