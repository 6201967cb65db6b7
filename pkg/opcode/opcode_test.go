package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCaseInsensitive(t *testing.T) {
	for _, name := range []string{"ADD", "add", "Add", "aDd"} {
		got, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, byte(0x01), got)
	}
}

func TestLookupPushDupSwapLog(t *testing.T) {
	tests := []struct {
		name string
		want byte
	}{
		{"push1", 0x60},
		{"push32", 0x7F},
		{"dup1", 0x80},
		{"dup16", 0x8F},
		{"swap1", 0x90},
		{"swap16", 0x9F},
		{"log0", 0xA0},
		{"log4", 0xA4},
		{"push0", 0x5F},
		{"jumpdest", 0x5B},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Lookup(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("nonsense")
	require.Error(t, err)
}

func TestIsPush(t *testing.T) {
	assert.True(t, IsPush("PUSH1"))
	assert.True(t, IsPush("push32"))
	assert.True(t, IsPush("push0"))
	assert.False(t, IsPush("add"))
}

func TestIsJump(t *testing.T) {
	assert.True(t, IsJump("jump"))
	assert.True(t, IsJump("JUMPI"))
	assert.False(t, IsJump("jumpdest"))
}
