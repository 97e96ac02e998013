package engine

import (
	"regexp"

	"github.com/versync-project/versync/internal/format"
	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/model"
)

var versionField = regexp.MustCompile(`("version"\s*:\s*")([^"]+)(")`)

// Rewrite splices the new version into raw manifest bytes. Only the
// version value and declared sibling dependency ranges change; every
// other byte survives verbatim, so the original indentation is
// preserved without re-serialization.
func Rewrite(raw []byte, m *model.Manifest, newVersion string) ([]byte, error) {
	loc := versionField.FindSubmatchIndex(raw)
	if loc == nil {
		return nil, errclass.ErrVersionConflict.
			WithMessagef("no version field in %s", m.Path)
	}
	current := string(raw[loc[4]:loc[5]])
	if current != m.Version {
		return nil, errclass.ErrVersionConflict.
			WithMessagef("%s changed since scan: expected version %s, found %s", m.Path, m.Version, current).
			WithDetails(map[string]any{"path": m.Path, "expected": m.Version, "actual": current})
	}

	out := splice(raw, loc[4], loc[5], newVersion)

	for _, dep := range m.SiblingDeps {
		depField := regexp.MustCompile(
			`("` + regexp.QuoteMeta(dep) + `"\s*:\s*")([\^~]?)([^"]+)(")`)
		dloc := depField.FindSubmatchIndex(out)
		if dloc == nil {
			return nil, errclass.ErrCascade.
				WithMessagef("dependency range for sibling %q not found in %s", dep, m.Path).
				WithDetails(map[string]any{"path": m.Path, "dependency": dep})
		}
		out = splice(out, dloc[6], dloc[7], newVersion)
	}

	return format.Apply(out, m.Format), nil
}

func splice(data []byte, start, end int, replacement string) []byte {
	out := make([]byte, 0, len(data)-(end-start)+len(replacement))
	out = append(out, data[:start]...)
	out = append(out, replacement...)
	out = append(out, data[end:]...)
	return out
}
