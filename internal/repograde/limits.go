package repograde

import "time"

const truncationMarker = "\n... (truncated)"

// Limits gathers every size and time budget applied while building and
// consuming a snapshot. The same values govern the remote walk, the local
// scan, and context composition so the three stages cannot drift apart.
type Limits struct {
	MaxFiles            int `yaml:"max_files"`
	MaxFileBytes        int `yaml:"max_file_bytes"`
	MaxPromptFiles      int `yaml:"max_prompt_files"`
	MaxPromptChars      int `yaml:"max_prompt_chars"`
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	CloneTimeoutSeconds int `yaml:"clone_timeout_seconds"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxFiles:            50,
		MaxFileBytes:        50000,
		MaxPromptFiles:      20,
		MaxPromptChars:      10000,
		FetchTimeoutSeconds: 5,
		CloneTimeoutSeconds: 60,
	}
}

func (l Limits) FetchTimeout() time.Duration {
	return time.Duration(l.FetchTimeoutSeconds) * time.Second
}

func (l Limits) CloneTimeout() time.Duration {
	return time.Duration(l.CloneTimeoutSeconds) * time.Second
}

// capContent cuts s at max and appends the truncation marker so downstream
// readers can tell the content is partial. max <= 0 disables the cap.
func capContent(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}

	return s[:max] + truncationMarker
}
