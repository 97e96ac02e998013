// Package format infers a manifest file's serialization style so the
// version rewrite can reproduce it.
package format

import (
	"bytes"

	"github.com/versync-project/versync/pkg/model"
)

// Detect inspects file bytes and returns the indent unit and
// trailing-newline convention. It never fails: an empty file or one
// without indented structure falls back to 2-space indent.
func Detect(data []byte) model.Format {
	if len(data) == 0 {
		return model.DefaultFormat()
	}

	f := model.Format{
		Indent:          "  ",
		TrailingNewline: data[len(data)-1] == '\n',
	}

	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if line[0] == '\t' {
			f.Indent = "\t"
			return f
		}
		if line[0] == ' ' {
			n := 0
			for n < len(line) && line[n] == ' ' {
				n++
			}
			if n == len(line) {
				continue // whitespace-only line, nothing to infer
			}
			f.Indent = string(bytes.Repeat([]byte(" "), n))
			return f
		}
	}
	return f
}

// Apply enforces the trailing-newline convention on rewritten bytes.
// Indentation needs no enforcement: rewrites splice the version value
// in place, so every other byte keeps its original indentation.
func Apply(data []byte, f model.Format) []byte {
	hasNewline := len(data) > 0 && data[len(data)-1] == '\n'
	switch {
	case f.TrailingNewline && !hasNewline:
		return append(data, '\n')
	case !f.TrailingNewline && hasNewline:
		return data[:len(data)-1]
	}
	return data
}
