// Package pathutil provides path and name validation for discovered packages.
package pathutil

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/versync-project/versync/pkg/errclass"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidatePackageName checks that a package directory name is safe to
// treat as a manifest target.
func ValidatePackageName(name string) error {
	if name == "" {
		return errclass.ErrFileRead.WithMessage("package name must not be empty")
	}

	// NFC normalize
	name = norm.NFC.String(name)

	if name == ".." || strings.Contains(name, "..") {
		return errclass.ErrFileRead.WithMessagef("package name must not contain '..': %s", name)
	}
	if strings.ContainsAny(name, "/\\") {
		return errclass.ErrFileRead.WithMessagef("package name must not contain separators: %s", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return errclass.ErrFileRead.WithMessagef("package name must not contain control characters: %q", name)
		}
	}
	if !nameRegex.MatchString(name) {
		return errclass.ErrFileRead.WithMessagef("package name must match [a-zA-Z0-9._-]+: %s", name)
	}
	return nil
}

// WithinRoot verifies that target does not escape root after cleaning.
func WithinRoot(root, target string) bool {
	rel, err := filepath.Rel(root, filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
