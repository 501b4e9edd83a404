package repograde

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrBadRepoURL marks an identifier the resolver could not understand.
// There is no recovery path for it.
var ErrBadRepoURL = errors.New("invalid GitHub repository URL")

var repoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?/?$`),
	regexp.MustCompile(`github\.com[:/]([^/]+)/([^/]+?)(?:/.*)?$`),
}

// ResolveRepoURL extracts the owner/repo pair from a loosely formatted
// GitHub URL. HTTPS and SSH forms are accepted, with or without a .git
// suffix, a trailing slash or extra path segments such as /tree/main.
func ResolveRepoURL(raw string) (RepoRef, error) {
	trimmed := strings.TrimSpace(raw)

	for _, re := range repoURLPatterns {
		m := re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		owner := m[1]
		repo := strings.TrimSuffix(strings.TrimSuffix(m[2], "/"), ".git")
		if owner == "" || repo == "" {
			continue
		}

		return RepoRef{
			Owner:    owner,
			Repo:     repo,
			URL:      fmt.Sprintf("https://github.com/%s/%s", owner, repo),
			CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", owner, repo),
		}, nil
	}

	return RepoRef{}, fmt.Errorf("%w: %q", ErrBadRepoURL, raw)
}
