package repograde

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DescriptionParser extracts the plain-text project description from a
// file. Implementations own the set of formats they accept.
type DescriptionParser interface {
	Parse(path string) (string, error)
}

var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

var documentExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
}

// textParser handles plain-text description formats. Rich-document
// formats are recognized but refused with an error naming the extension,
// so a converter can be plugged in front of it.
type textParser struct{}

func NewDescriptionParser() DescriptionParser {
	return &textParser{}
}

func (p *textParser) Parse(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case textExtensions[ext]:
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read description: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	case documentExtensions[ext]:
		return "", fmt.Errorf("%s descriptions must be converted to plain text first", ext)
	default:
		return "", fmt.Errorf("unsupported description file type %q (supported: .txt, .md, .markdown)", ext)
	}
}
