package commit

import (
	"strings"

	"github.com/versync-project/versync/pkg/model"
)

// Render turns a structured commit record back into message text.
// Parsing the rendered text yields an equivalent record.
func Render(c *model.Commit) string {
	var b strings.Builder
	b.WriteString(c.Header())
	if c.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(c.Body)
	}
	if len(c.Footers) > 0 {
		b.WriteString("\n\n")
		for i, f := range c.Footers {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(f.Key)
			b.WriteString(": ")
			b.WriteString(f.Value)
		}
	}
	return b.String()
}
