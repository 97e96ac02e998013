package model

import "strings"

// Footer is a single `Key: value` trailer line of a commit message.
type Footer struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Commit is a structured conventional-commit record.
// Type and Subject are always non-empty; a message that does not match
// the grammar never produces a Commit.
type Commit struct {
	Type     string   `json:"type"`
	Scope    string   `json:"scope,omitempty"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body,omitempty"`
	Footers  []Footer `json:"footers,omitempty"`
	Breaking bool     `json:"breaking"`
}

// Header returns the rendered `type(scope)!: subject` header line.
func (c *Commit) Header() string {
	h := c.Type
	if c.Scope != "" {
		h += "(" + c.Scope + ")"
	}
	if c.Breaking && !c.breakingFooter() {
		h += "!"
	}
	return h + ": " + c.Subject
}

func (c *Commit) breakingFooter() bool {
	for _, f := range c.Footers {
		if NormalizeFooterKey(f.Key) == BreakingFooterKey {
			return true
		}
	}
	return false
}

// BreakingFooterKey is the normalized footer key that marks a breaking change.
const BreakingFooterKey = "BREAKING CHANGE"

// NormalizeFooterKey uppercases a footer key and folds hyphens to spaces so
// that "BREAKING-CHANGE" and "breaking change" compare equal.
func NormalizeFooterKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(key), "-", " "))
}
