package repograde

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Directories never worth scanning: VCS metadata, dependency trees, build
// output and editor state.
var ignoreDirs = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	"node_modules": true,
	".venv":        true,
	"venv":         true,
	"env":          true,
	".env":         true,
	"dist":         true,
	"build":        true,
	".idea":        true,
	".vscode":      true,
	"target":       true,
}

// Extensions counted as source, markup or config worth sending to the
// model. Shared by the local scanner and the remote walker.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".jsx": true, ".tsx": true,
	".java": true, ".cpp": true, ".c": true, ".h": true, ".cs": true,
	".go": true, ".rs": true, ".rb": true, ".php": true, ".swift": true,
	".kt": true, ".scala": true, ".html": true, ".css": true, ".vue": true,
	".svelte": true, ".json": true, ".yaml": true, ".yml": true, ".md": true,
	".sh": true, ".sql": true, ".r": true, ".m": true, ".ml": true, ".fs": true,
}

var langByExt = map[string]string{
	".py": "Python", ".js": "JavaScript", ".ts": "TypeScript",
	".java": "Java", ".cpp": "C++", ".c": "C", ".cs": "C#",
	".go": "Go", ".rs": "Rust", ".rb": "Ruby", ".php": "PHP",
	".swift": "Swift", ".kt": "Kotlin", ".scala": "Scala",
	".html": "HTML", ".css": "CSS", ".vue": "Vue", ".r": "R",
}

// scanRepo walks a working copy and collects up to limits.MaxFiles records
// for recognized source files, in traversal order. Collection stops the
// moment the budget is reached. Unreadable entries are skipped; the scan
// itself never fails.
func scanRepo(root string, limits Limits) []FileRecord {
	var files []FileRecord

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && ignoreDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if len(files) >= limits.MaxFiles {
			return fs.SkipAll
		}
		if !codeExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}

		files = append(files, FileRecord{
			Path:    filepath.ToSlash(rel),
			Name:    d.Name(),
			Content: capContent(decodeText(b), limits.MaxFileBytes),
			Size:    size,
		})

		return nil
	})

	return files
}

// decodeText converts raw bytes to a string, replacing invalid UTF-8
// sequences instead of failing on them.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}

// detectLanguage names the language of the most frequent file extension.
// Ties go to the extension encountered first, so the result is stable for
// a given record order.
func detectLanguage(files []FileRecord) string {
	if len(files) == 0 {
		return "Unknown"
	}

	counts := make(map[string]int)
	var order []string
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if _, seen := counts[ext]; !seen {
			order = append(order, ext)
		}
		counts[ext]++
	}

	best := order[0]
	for _, ext := range order[1:] {
		if counts[ext] > counts[best] {
			best = ext
		}
	}

	if lang, ok := langByExt[best]; ok {
		return lang
	}
	if best == "" {
		return "Unknown"
	}

	return strings.ToUpper(strings.TrimPrefix(best, "."))
}
