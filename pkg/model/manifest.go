package model

// ManifestKind distinguishes a package's primary manifest from a
// secondary plugin descriptor it declares.
type ManifestKind string

const (
	ManifestPackage ManifestKind = "package"
	ManifestPlugin  ManifestKind = "plugin"
)

// Format is the serialization style of a manifest file: the indent unit
// used for nested lines and whether the file ends with a newline. It is
// reapplied verbatim when the version field is rewritten.
type Format struct {
	Indent          string `json:"indent"`
	TrailingNewline bool   `json:"trailing_newline"`
}

// DefaultFormat is used when a file is empty or has no structure to infer from.
func DefaultFormat() Format {
	return Format{Indent: "  ", TrailingNewline: true}
}

// Manifest is one discovered version-bearing file. A Manifest is read
// once per invocation and is exclusively held by a single transaction
// while that transaction is in flight.
type Manifest struct {
	Path    string       `json:"path"`
	Dir     string       `json:"dir"`
	Name    string       `json:"name"`
	Kind    ManifestKind `json:"kind"`
	Version string       `json:"version"`
	Format  Format       `json:"format"`

	// SiblingDeps lists dependency names that resolve to other packages
	// in the same repository; their ranges are rewritten in lockstep
	// with the version field.
	SiblingDeps []string `json:"sibling_deps,omitempty"`
}
