package repograde

import (
	"fmt"
	"strings"
)

var contextRule = strings.Repeat("=", 60)

// composeContext renders a snapshot into the bounded text corpus embedded
// in the evaluation prompt: a short header followed by one delimited block
// per file, at most limits.MaxPromptFiles of them, each hard-capped at
// limits.MaxPromptChars. Deterministic, no I/O.
func composeContext(snap *RepoSnapshot, limits Limits) string {
	if len(snap.Files) == 0 {
		return "No code files found in repository."
	}

	parts := []string{
		fmt.Sprintf("Repository: %s", orUnknown(snap.Name)),
		fmt.Sprintf("Language: %s", orUnknown(snap.Language)),
		fmt.Sprintf("\nCode Files (%d files):\n", len(snap.Files)),
	}

	files := snap.Files
	if len(files) > limits.MaxPromptFiles {
		files = files[:limits.MaxPromptFiles]
	}
	for _, f := range files {
		parts = append(parts,
			"\n"+contextRule,
			fmt.Sprintf("File: %s", f.Path),
			contextRule,
			capContent(f.Content, limits.MaxPromptChars),
		)
	}

	return strings.Join(parts, "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}

	return s
}
