package model

// Bump is the magnitude of a version increment. The zero value is BumpNone.
// Values are ordered: BumpMajor > BumpMinor > BumpPatch > BumpNone.
type Bump int

const (
	BumpNone Bump = iota
	BumpPatch
	BumpMinor
	BumpMajor
)

func (b Bump) String() string {
	switch b {
	case BumpPatch:
		return "patch"
	case BumpMinor:
		return "minor"
	case BumpMajor:
		return "major"
	default:
		return "none"
	}
}

// MarshalText renders the bump for JSON/YAML output.
func (b Bump) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// MaxBump returns the larger of two bumps under the bump ordering.
func MaxBump(a, b Bump) Bump {
	if a > b {
		return a
	}
	return b
}
