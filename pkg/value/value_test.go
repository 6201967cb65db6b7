package value

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evmasm/pkg/asmerr"
)

func TestUintToEVMBytes(t *testing.T) {
	tests := []struct {
		name string
		n    *big.Int
		want []byte
	}{
		{"zero", big.NewInt(0), []byte{0x00}},
		{"one", big.NewInt(1), []byte{0x01}},
		{"two_fifty_five", big.NewInt(255), []byte{0xFF}},
		{"two_fifty_six", big.NewInt(256), []byte{0x01, 0x00}},
		{"ten", big.NewInt(10), []byte{0x0A}},
		{"twenty", big.NewInt(20), []byte{0x14}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Uint{N: tc.n}.ToEVMBytes()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUintZeroIsNeverEmpty(t *testing.T) {
	got, err := Uint64(0).ToEVMBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, got, "zero must still encode to a single 0x00 byte, never the empty slice")
}

func TestUintTooLarge(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 257) // 2^257, needs 33 bytes
	_, err := Uint{N: huge}.ToEVMBytes()
	require.Error(t, err)
	assert.IsType(t, asmerr.ValueTooLarge{}, err)
}

func TestAddressVerbatimNoStripping(t *testing.T) {
	var addr Address
	addr[19] = 0x01 // only the last byte set; stripping would collapse this to one byte
	got, err := addr.ToEVMBytes()
	require.NoError(t, err)
	assert.Len(t, got, 20)
	assert.Equal(t, byte(0x01), got[19])
	assert.Equal(t, byte(0x00), got[0])
}

func TestFixedBytesWidthMismatch(t *testing.T) {
	_, err := NewFixedBytes([]byte{0x01, 0x02}, 4)
	require.Error(t, err)
}

func TestBytesVerbatim(t *testing.T) {
	b := Bytes{Data: []byte{0x00, 0x00, 0xAB}}
	got, err := b.ToEVMBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0xAB}, got, "variable-length byte strings are never stripped")
}

func TestMinWidth(t *testing.T) {
	tests := []struct {
		n    int64
		want int
	}{
		{0, 1},
		{1, 1},
		{255, 1},
		{256, 2},
		{65535, 2},
		{65536, 3},
	}
	for _, tc := range tests {
		got := MinWidth(big.NewInt(tc.n))
		assert.Equal(t, tc.want, got, "MinWidth(%d)", tc.n)
	}
}
