package asmerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesByKindNotPayload(t *testing.T) {
	err := NewUndefinedReference("alpha")

	assert.True(t, errors.Is(err, KindUndefinedReference))
	assert.False(t, errors.Is(err, KindDuplicateScope))

	// A different Name still matches the same Kind: callers care about
	// the category of failure, not which label triggered it.
	other := NewUndefinedReference("beta")
	assert.True(t, errors.Is(other, KindUndefinedReference))
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("assembling program: %w", NewMissingArgument(2))
	assert.True(t, errors.Is(err, KindMissingArgument))
	assert.False(t, errors.Is(err, KindExtraArguments))
}

func TestEveryKindIsDistinct(t *testing.T) {
	kinds := []Kind{
		KindUnknownOpcode,
		KindUndefinedReference,
		KindDuplicateScope,
		KindInvalidLiteral,
		KindValueTooLarge,
		KindAddressOverflow,
		KindMissingArgument,
		KindExtraArguments,
		KindLayoutDidNotConverge,
	}
	seen := make(map[Kind]bool)
	for _, k := range kinds {
		assert.False(t, seen[k], "duplicate Kind sentinel %v", k)
		seen[k] = true
	}
}
