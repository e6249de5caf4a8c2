package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndCodeOf(t *testing.T) {
	err := New(CodeNotListed, "asset is not listed")
	require.Error(t, err)
	assert.Equal(t, CodeNotListed, CodeOf(err))
	assert.True(t, HasCode(err, CodeNotListed))
	assert.False(t, HasCode(err, CodeNotFound))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "store unavailable")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeInternal, CodeOf(err))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestHasCodeThroughChain(t *testing.T) {
	inner := New(CodeStaleListing, "seller no longer owns asset")
	outer := fmt.Errorf("buy rejected: %w", inner)
	assert.True(t, HasCode(outer, CodeStaleListing))

	rewrapped := Wrap(inner, CodeInternal, "unexpected")
	assert.True(t, HasCode(rewrapped, CodeInternal))
	assert.True(t, HasCode(rewrapped, CodeStaleListing))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
