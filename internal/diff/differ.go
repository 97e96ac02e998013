// Package diff reports the exact line changes a version bump would
// make, without writing anything.
package diff

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/versync-project/versync/internal/engine"
	"github.com/versync-project/versync/pkg/color"
	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/model"
)

// noNewlineMarker labels the side of a diff that is missing a trailing
// newline, in the style git uses for the same condition.
const noNewlineMarker = `\ No newline at end of file`

// Change is a single replaced line.
type Change struct {
	Line int    `json:"line"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// FileDiff collects the changes to one manifest.
type FileDiff struct {
	Path    string    `json:"path"`
	Changes []*Change `json:"changes"`
}

// Result is the full set of pending rewrites for a target version.
type Result struct {
	Version string      `json:"version"`
	Files   []*FileDiff `json:"files"`
}

// Compute rewrites every manifest in memory and records the lines that
// differ from what is on disk. Conflicts and cascade failures surface
// here exactly as they would during an apply.
func Compute(manifests []*model.Manifest, version string) (*Result, error) {
	result := &Result{Version: version}
	for _, m := range manifests {
		raw, err := os.ReadFile(m.Path)
		if err != nil {
			return nil, errclass.ErrFileRead.
				WithMessagef("read %s", m.Path).WithCause(err)
		}
		rewritten, err := engine.Rewrite(raw, m, version)
		if err != nil {
			return nil, err
		}

		fd := &FileDiff{Path: m.Path}
		oldLines := strings.Split(string(raw), "\n")
		newLines := strings.Split(string(rewritten), "\n")
		for i := 0; i < len(oldLines) && i < len(newLines); i++ {
			if oldLines[i] != newLines[i] {
				fd.Changes = append(fd.Changes, &Change{
					Line: i + 1,
					Old:  oldLines[i],
					New:  newLines[i],
				})
			}
		}
		// Rewrites splice values in place, so a length change can only
		// come from the trailing-newline fixup. Surface it as a labeled
		// change on the last line, marking whichever side lacks the
		// newline.
		if len(oldLines) != len(newLines) {
			ch := &Change{Line: len(oldLines)}
			if len(newLines) > len(oldLines) {
				ch.Old = noNewlineMarker
			} else {
				ch.New = noNewlineMarker
			}
			fd.Changes = append(fd.Changes, ch)
		}
		if len(fd.Changes) > 0 {
			result.Files = append(result.Files, fd)
		}
	}
	return result, nil
}

// Render writes the result in a compact textual form.
func (r *Result) Render(w io.Writer) {
	if len(r.Files) == 0 {
		fmt.Fprintln(w, "No changes.")
		return
	}
	for _, fd := range r.Files {
		fmt.Fprintln(w, color.Header(fd.Path))
		for _, ch := range fd.Changes {
			if ch.Old != "" {
				fmt.Fprintf(w, "  %d: %s\n", ch.Line, color.Error("- "+strings.TrimLeft(ch.Old, " \t")))
			}
			if ch.New != "" {
				fmt.Fprintf(w, "  %d: %s\n", ch.Line, color.Success("+ "+strings.TrimLeft(ch.New, " \t")))
			}
		}
	}
}
