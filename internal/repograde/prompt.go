package repograde

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func loadPrompt(fsys fs.FS, diskPath, embedPath string) (string, string, error) {
	if diskPath != "" {
		if b, err := os.ReadFile(filepath.Clean(diskPath)); err == nil {
			return string(b), fmt.Sprintf("file:%s", diskPath), nil
		}
	}

	if fsys != nil {
		b, err := fs.ReadFile(fsys, embedPath)
		if err != nil {
			return "", "", err
		}
		return string(b), fmt.Sprintf("embed:%s", embedPath), nil
	}

	return "", "", fmt.Errorf("no prompt source available")
}

// buildPrompt fills the evaluation template with the project description
// and the composed code context.
func buildPrompt(tmpl string, snap *RepoSnapshot, description, codeContext string) string {
	r := strings.NewReplacer(
		"{{.Description}}", description,
		"{{.RepoName}}", orUnknown(snap.Name),
		"{{.Language}}", orUnknown(snap.Language),
		"{{.RepoURL}}", orUnknown(snap.URL),
		"{{.CodeContext}}", codeContext,
	)

	return r.Replace(tmpl)
}
