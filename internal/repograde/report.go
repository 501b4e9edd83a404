package repograde

import (
	"fmt"
	"strings"
)

// Markdown renders the report document written when the caller asks for a
// file copy of the evaluation.
func (r *Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# Evaluation Report\n\n")
	fmt.Fprintf(&b, "- Repository: [%s](%s)\n", r.Repo.FullName, r.Repo.URL)
	fmt.Fprintf(&b, "- Language: %s\n", orUnknown(r.Repo.Language))
	fmt.Fprintf(&b, "- Files analyzed: %d\n", r.Repo.Files)
	fmt.Fprintf(&b, "- Acquired via: %s\n", r.Repo.Source)
	fmt.Fprintf(&b, "- Description length: %d characters\n", r.DescriptionChars)
	fmt.Fprintf(&b, "\n## Score: %d/100\n\n", r.Result.Score)
	b.WriteString("## Explanation\n\n")
	b.WriteString(r.Result.Explanation)
	b.WriteString("\n")

	return b.String()
}
