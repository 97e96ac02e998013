package color_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/versync-project/versync/pkg/color"
)

func TestDisabledPassthrough(t *testing.T) {
	color.Disable()
	defer color.Enable()

	assert.Equal(t, "E_PARSE_ERROR", color.Error("E_PARSE_ERROR"))
	assert.Equal(t, "done", color.Success("done"))
	assert.Equal(t, "versync bump", color.Code("versync bump"))
}

func TestEnabledWraps(t *testing.T) {
	color.Enable()
	defer color.Disable()

	out := color.Error("x")
	assert.Contains(t, out, "\033[31m")
	assert.Contains(t, out, "\033[0m")
}
