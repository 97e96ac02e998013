package errclass_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versync-project/versync/pkg/errclass"
)

func TestVersionError_Error(t *testing.T) {
	err := errclass.ErrVersionConflict.WithMessage("packages disagree on current version")
	assert.Equal(t, "E_VERSION_CONFLICT: packages disagree on current version", err.Error())
}

func TestVersionError_Is(t *testing.T) {
	err := errclass.ErrParse.WithMessage("missing colon in header")
	require.True(t, errors.Is(err, errclass.ErrParse))
	require.False(t, errors.Is(err, errclass.ErrEmptyCommit))
}

func TestVersionError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("open packages/core/package.json: permission denied")
	err := errclass.ErrFileRead.WithCause(cause)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Message)
}

func TestVersionError_WithDetails(t *testing.T) {
	err := errclass.ErrCascade.WithDetails(map[string]any{"package": "@repo/core", "dependency": "@repo/utils"})
	assert.Equal(t, "@repo/core", err.Details["package"])

	// The sentinel must not be mutated.
	assert.Nil(t, errclass.ErrCascade.Details)
}

func TestVersionError_ImmutableSentinels(t *testing.T) {
	a := errclass.ErrParse.WithMessage("first")
	b := errclass.ErrParse.WithMessage("second")
	assert.Equal(t, "first", a.Message)
	assert.Equal(t, "second", b.Message)
	assert.Empty(t, errclass.ErrParse.Message)
}

func TestVersionError_Timestamp(t *testing.T) {
	err := errclass.ErrUnknown.WithMessage("boom")
	assert.False(t, err.Timestamp.IsZero())
}

func TestAllErrorsDefined(t *testing.T) {
	all := errclass.All()
	assert.Len(t, all, 11)

	seen := map[string]bool{}
	for _, e := range all {
		require.NotEmpty(t, e.Code)
		require.NotEmpty(t, e.Recovery, "code %s has no recovery instruction", e.Code)
		require.False(t, seen[e.Code], "duplicate code %s", e.Code)
		seen[e.Code] = true
	}
}
