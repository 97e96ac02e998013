package bump

import (
	"github.com/blang/semver/v4"

	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/model"
)

// ParseVersion parses a MAJOR.MINOR.PATCH version string. Pre-release
// and build suffixes are rejected; this engine handles plain releases.
func ParseVersion(s string) (semver.Version, error) {
	v, err := semver.Parse(s)
	if err != nil {
		return semver.Version{}, errclass.ErrInvalidVersion.
			WithMessagef("not a semantic version: %q", s).
			WithCause(err)
	}
	if len(v.Pre) > 0 || len(v.Build) > 0 {
		return semver.Version{}, errclass.ErrInvalidVersion.
			WithMessagef("pre-release and build suffixes are not supported: %q", s)
	}
	return v, nil
}

// Next returns the version that follows v under the given bump.
func Next(v semver.Version, b model.Bump) semver.Version {
	next := semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
	switch b {
	case model.BumpMajor:
		next.Major++
		next.Minor = 0
		next.Patch = 0
	case model.BumpMinor:
		next.Minor++
		next.Patch = 0
	case model.BumpPatch:
		next.Patch++
	}
	return next
}
