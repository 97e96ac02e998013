// Package commit parses sanitized conventional-commit messages into
// structured records.
package commit

import (
	"regexp"
	"strings"

	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/model"
)

var (
	typeRegex   = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
	footerRegex = regexp.MustCompile(`^((?i:BREAKING[- ]CHANGE)|[A-Za-z][A-Za-z0-9-]*): ?(.*)$`)
)

// Parse turns sanitized commit text into a structured record. The input
// must already have passed sanitization; Parse assumes LF line endings
// and no surrounding whitespace.
func Parse(text string) (*model.Commit, error) {
	lines := strings.Split(text, "\n")

	c, err := parseHeader(lines[0])
	if err != nil {
		return nil, err
	}

	if len(lines) > 1 {
		if lines[1] != "" {
			return nil, errclass.ErrParse.
				WithMessage("header must be followed by a blank line").
				WithDetails(map[string]any{"line": 2})
		}
		body, footers := splitBodyFooters(lines[2:])
		c.Body = body
		c.Footers = footers
	}

	for _, f := range c.Footers {
		if model.NormalizeFooterKey(f.Key) == model.BreakingFooterKey {
			c.Breaking = true
		}
	}
	return c, nil
}

func parseHeader(header string) (*model.Commit, error) {
	colon := strings.Index(header, ":")
	if colon < 0 {
		return nil, errclass.ErrParse.
			WithMessage("missing ':' in commit header").
			WithDetails(map[string]any{"header": header})
	}

	left := header[:colon]
	subject := strings.TrimSpace(header[colon+1:])
	if subject == "" {
		return nil, errclass.ErrParse.WithMessage("commit subject must not be empty")
	}

	breaking := false
	if strings.HasSuffix(left, "!") {
		breaking = true
		left = strings.TrimSuffix(left, "!")
	}

	typ := left
	scope := ""
	if open := strings.Index(left, "("); open >= 0 {
		typ = left[:open]
		rest := left[open:]
		closing := strings.Index(rest, ")")
		if closing < 0 {
			return nil, errclass.ErrParse.WithMessage("unterminated scope in commit header")
		}
		if rest[closing+1:] != "" {
			return nil, errclass.ErrParse.
				WithMessage("scope must be immediately followed by ':'").
				WithDetails(map[string]any{"trailing": rest[closing+1:]})
		}
		scope = rest[1:closing]
		if strings.TrimSpace(scope) == "" {
			return nil, errclass.ErrParse.WithMessage("scope must not be empty")
		}
	}

	if typ == "" {
		return nil, errclass.ErrParse.WithMessage("missing commit type before ':'")
	}
	if !typeRegex.MatchString(typ) {
		if typeRegex.MatchString(strings.ToLower(typ)) {
			return nil, errclass.ErrParse.
				WithMessagef("commit type must be lowercase: %q", typ)
		}
		return nil, errclass.ErrParse.WithMessagef("invalid commit type token: %q", typ)
	}

	return &model.Commit{
		Type:     typ,
		Scope:    scope,
		Subject:  subject,
		Breaking: breaking,
	}, nil
}

// splitBodyFooters separates the lines after the header blank line into
// body paragraphs and a trailing footer block. Only the last paragraph
// is considered for footers; a `Key: value` paragraph earlier in the
// message stays part of the body.
func splitBodyFooters(lines []string) (string, []model.Footer) {
	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		return "", nil
	}

	paragraphs := splitParagraphs(text)
	last := paragraphs[len(paragraphs)-1]

	footers, ok := parseFooters(last)
	if !ok {
		return text, nil
	}

	body := strings.Join(paragraphs[:len(paragraphs)-1], "\n\n")
	return body, footers
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range regexp.MustCompile(`\n{2,}`).Split(text, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseFooters parses a paragraph as a footer block. Lines that do not
// match the `Key: value` shape are treated as continuations of the
// previous footer's value; if the first line does not match, the
// paragraph is not a footer block at all.
func parseFooters(paragraph string) ([]model.Footer, bool) {
	var footers []model.Footer
	for i, line := range strings.Split(paragraph, "\n") {
		m := footerRegex.FindStringSubmatch(line)
		if m == nil {
			if i == 0 {
				return nil, false
			}
			footers[len(footers)-1].Value += "\n" + strings.TrimSpace(line)
			continue
		}
		footers = append(footers, model.Footer{Key: m[1], Value: m[2]})
	}
	return footers, true
}
