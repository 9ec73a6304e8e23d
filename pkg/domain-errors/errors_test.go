package dErrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCode(t *testing.T) {
	err := New(CodeInsufficientBalance, "balance too low")
	require.Error(t, err)
	assert.True(t, Is(err, CodeInsufficientBalance))
	assert.False(t, Is(err, CodeUnauthorized))
	assert.Equal(t, CodeInsufficientBalance, CodeOf(err))
	assert.Contains(t, err.Error(), "balance too low")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeExternalCallFailed, "vault transfer failed")
	require.Error(t, err)
	assert.True(t, Is(err, CodeExternalCallFailed))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestIsSeesThroughFmtWrapping(t *testing.T) {
	inner := New(CodeSystemStopped, "stopped")
	outer := fmt.Errorf("register: %w", inner)
	assert.True(t, Is(outer, CodeSystemStopped))
	assert.Equal(t, CodeSystemStopped, CodeOf(outer))
}

func TestIsWalksNestedDomainErrors(t *testing.T) {
	inner := New(CodeArithmeticOverflow, "overflow")
	outer := Wrap(inner, CodeInternal, "credit failed")
	assert.True(t, Is(outer, CodeInternal))
	assert.True(t, Is(outer, CodeArithmeticOverflow))
	assert.Equal(t, CodeInternal, CodeOf(outer))
}

func TestCodeOfUntagged(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
