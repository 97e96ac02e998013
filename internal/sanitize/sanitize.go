// Package sanitize validates and cleans raw commit text before parsing.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/versync-project/versync/pkg/errclass"
)

// MaxRawLen is the hard ceiling on raw commit text, in bytes.
const MaxRawLen = 8192

// allowedPunct are the non-alphanumeric characters the allowlist admits.
// Angle brackets and @ are needed for attribution trailers such as
// "Co-Authored-By: Name <email>". Backtick, pipe, ampersand and dollar
// are deliberately absent.
const allowedPunct = " \t\n.,:;!?'\"()[]{}<>@#%*+=/\\-_~^"

// scriptSeq matches angle-bracket-wrapped script-like sequences that the
// attribution exception does not cover.
var scriptSeq = regexp.MustCompile(`(?i)<\s*/?\s*script\b`)

// Sanitize validates raw commit text and returns the cleaned form.
// It is a pure function: sanitize(sanitize(x)) == sanitize(x) for any
// input that does not fail.
func Sanitize(raw string) (string, error) {
	if len(raw) > MaxRawLen {
		return "", errclass.ErrSanitization.
			WithMessagef("commit message exceeds %d bytes", MaxRawLen).
			WithDetails(map[string]any{"length": len(raw), "limit": MaxRawLen})
	}

	// NUL bytes are stripped rather than rejected; everything else
	// outside the allowlist is an error.
	s := strings.ReplaceAll(raw, "\x00", "")

	// Normalize CRLF and lone CR to LF before any other check.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	if loc := scriptSeq.FindStringIndex(s); loc != nil {
		return "", errclass.ErrSanitization.
			WithMessage("script-like sequence in commit message").
			WithDetails(map[string]any{"offset": loc[0]})
	}

	for i, r := range s {
		if !allowedRune(r) {
			return "", errclass.ErrSanitization.
				WithMessagef("disallowed character %q in commit message", r).
				WithDetails(map[string]any{"offset": i, "char": fmt.Sprintf("%q", r)})
		}
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", errclass.ErrEmptyCommit.WithMessage("commit message is empty after normalization")
	}
	return s, nil
}

func allowedRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return strings.ContainsRune(allowedPunct, r)
}
