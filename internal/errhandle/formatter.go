// Package errhandle is the chokepoint every failure funnels into: it
// classifies, logs, and formats errors, and never lets a caller
// silently continue past one.
package errhandle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/versync-project/versync/pkg/color"
	"github.com/versync-project/versync/pkg/errclass"
)

// descriptions gives each error class a one-line human summary for the
// formatted header.
var descriptions = map[string]string{
	"E_PARSE_ERROR":         "commit message does not follow the conventional commit grammar",
	"E_SANITIZATION_FAILED": "commit message contains disallowed characters",
	"E_FILE_READ":           "a required manifest could not be read",
	"E_FILE_WRITE":          "a manifest could not be written",
	"E_VERSION_CONFLICT":    "package versions are inconsistent",
	"E_ROLLBACK_FAILED":     "rollback after a failed write did not complete",
	"E_INVALID_VERSION":     "version string is not a valid semantic version",
	"E_CASCADE":             "a dependent package could not be updated in lockstep",
	"E_GIT_STATE":           "git repository state could not be read",
	"E_EMPTY_COMMIT":        "commit message is empty",
	"E_UNKNOWN":             "unexpected internal error",
}

// examples holds concrete corrected commands for the two most common
// operator mistakes.
var examples = map[string][]string{
	"E_PARSE_ERROR": {
		"feat(core): add retry logic",
		"fix!: drop legacy output format",
	},
	"E_EMPTY_COMMIT": {
		"fix(parser): handle empty scope",
	},
}

// Format renders a VersionError for a human operator.
func Format(e *errclass.VersionError) string {
	var b strings.Builder

	desc := descriptions[e.Code]
	if desc == "" {
		desc = descriptions["E_UNKNOWN"]
	}
	fmt.Fprintf(&b, "%s: %s\n", color.Error(e.Code), desc)

	if e.Message != "" {
		fmt.Fprintf(&b, "\n  %s\n", e.Message)
	}
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %v\n", color.Dim(k), e.Details[k])
		}
	}

	fmt.Fprintf(&b, "\n%s %s\n", color.Warning("Recovery:"), e.Recovery)

	if ex := examples[e.Code]; len(ex) > 0 {
		b.WriteString("\nFor example:\n")
		for _, line := range ex {
			fmt.Fprintf(&b, "  %s\n", color.Code(line))
		}
	}
	return b.String()
}
