package pathutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/pathutil"
)

func TestValidatePackageName(t *testing.T) {
	valid := []string{"core", "my-pkg", "pkg_2", "a.b.c", "UPPER"}
	for _, name := range valid {
		assert.NoError(t, pathutil.ValidatePackageName(name), name)
	}

	invalid := []string{"", "..", "a/..", "a/b", `a\b`, "pkg name", "pkg\x00"}
	for _, name := range invalid {
		err := pathutil.ValidatePackageName(name)
		assert.Error(t, err, "%q", name)
		assert.True(t, errors.Is(err, errclass.ErrFileRead), "%q", name)
	}
}

func TestWithinRoot(t *testing.T) {
	assert.True(t, pathutil.WithinRoot("/repo", "/repo/packages/core"))
	assert.False(t, pathutil.WithinRoot("/repo", "/repo/../etc/passwd"))
	assert.False(t, pathutil.WithinRoot("/repo", "/etc/passwd"))
}
