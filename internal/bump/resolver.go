// Package bump reduces parsed commits to a version-bump decision and
// computes the successor version.
package bump

import "github.com/versync-project/versync/pkg/model"

// ForCommit returns the bump a single commit implies.
func ForCommit(c *model.Commit) model.Bump {
	switch {
	case c.Breaking:
		return model.BumpMajor
	case c.Type == "feat":
		return model.BumpMinor
	case c.Type == "fix":
		return model.BumpPatch
	default:
		return model.BumpNone
	}
}

// Resolve reduces a batch of commits to a single bump: the maximum of
// the per-commit bumps under major > minor > patch > none. It is a
// total function; an empty batch resolves to none.
func Resolve(commits []*model.Commit) model.Bump {
	result := model.BumpNone
	for _, c := range commits {
		result = model.MaxBump(result, ForCommit(c))
	}
	return result
}
