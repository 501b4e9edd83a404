package repograde

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}
}

func TestScanRepoCollectsCodeFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":               "# widget",
		"main.go":                 "package main",
		"util.py":                 "pass",
		"src/app.js":              "console.log('hi')",
		"src/node_modules/dep.js": "ignored",
		"assets/logo.png":         "not code",
		"node_modules/dep.js":     "ignored",
		".git/config":             "ignored",
		".venv/site.py":           "ignored",
	})

	files := scanRepo(root, DefaultLimits())

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}

	want := []string{"README.md", "main.go", "src/app.js", "util.py"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d: expected %q, got %q", i, want[i], paths[i])
		}
	}
}

func TestScanRepoStopsAtBudget(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go": "1",
		"b.go": "2",
		"c.go": "3",
		"d.go": "4",
	})

	limits := DefaultLimits()
	limits.MaxFiles = 2
	files := scanRepo(root, limits)

	if len(files) != 2 {
		t.Errorf("expected 2 files, got %d", len(files))
	}
}

func TestScanRepoCapsContent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"big.go": strings.Repeat("x", 100),
	})

	limits := DefaultLimits()
	limits.MaxFileBytes = 10
	files := scanRepo(root, limits)

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].Content != strings.Repeat("x", 10)+truncationMarker {
		t.Errorf("expected capped content with marker, got %q", files[0].Content)
	}
	if files[0].Size != 100 {
		t.Errorf("expected recorded size 100, got %d", files[0].Size)
	}
}

func TestScanRepoUppercaseExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"LEGACY.PY": "pass",
	})

	files := scanRepo(root, DefaultLimits())
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].Name != "LEGACY.PY" {
		t.Errorf("expected name LEGACY.PY, got %q", files[0].Name)
	}
}

func TestScanRepoMissingRoot(t *testing.T) {
	files := scanRepo(filepath.Join(t.TempDir(), "absent"), DefaultLimits())
	if len(files) != 0 {
		t.Errorf("expected no files for missing root, got %d", len(files))
	}
}

func TestDecodeText(t *testing.T) {
	if got := decodeText([]byte("plain")); got != "plain" {
		t.Errorf("expected %q, got %q", "plain", got)
	}

	got := decodeText([]byte{'h', 0xff, 'i'})
	if got != "h�i" {
		t.Errorf("expected replacement rune, got %q", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	rec := func(names ...string) []FileRecord {
		var files []FileRecord
		for _, n := range names {
			files = append(files, FileRecord{Name: n})
		}
		return files
	}

	tests := []struct {
		name  string
		files []FileRecord
		want  string
	}{
		{
			name:  "majority wins",
			files: rec("a.py", "b.py", "c.go"),
			want:  "Python",
		},
		{
			name:  "tie goes to first seen",
			files: rec("a.go", "b.py"),
			want:  "Go",
		},
		{
			name:  "unmapped extension uppercased",
			files: rec("run.sh", "deploy.sh"),
			want:  "SH",
		},
		{
			name:  "no files",
			files: nil,
			want:  "Unknown",
		},
		{
			name:  "extensionless files",
			files: rec("Makefile", "Dockerfile"),
			want:  "Unknown",
		},
		{
			name:  "case insensitive",
			files: rec("A.PY", "b.py"),
			want:  "Python",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectLanguage(tt.files); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
