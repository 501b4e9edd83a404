package repograde

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const binGit = "git"

// ErrRepoUnavailable means both acquisition strategies were exhausted and
// the repository is inaccessible for this request.
var ErrRepoUnavailable = errors.New("repository inaccessible")

// Acquirer produces one snapshot per request. It tries the hosted API
// first when a credential is configured, then falls back to a shallow
// clone, and owns the temporary clone directory for the request lifetime.
type Acquirer struct {
	cfg     *Config
	host    repoHost
	tempDir string
}

func NewAcquirer(cfg *Config, host repoHost) *Acquirer {
	return &Acquirer{cfg: cfg, host: host}
}

// Acquire runs the acquisition chain for ref. The API path is skipped
// outright without a GitHub token; any failure on it falls through to the
// clone path. A clone failure is final and yields ErrRepoUnavailable.
// Call Cleanup when done with the snapshot, on every path.
func (a *Acquirer) Acquire(ctx context.Context, ref RepoRef) (*RepoSnapshot, error) {
	if a.cfg.Auth.GithubToken != "" && a.host != nil {
		if snap := a.tryAPI(ctx, ref); snap != nil {
			return snap, nil
		}
	}

	snap, err := a.tryClone(ctx, ref)
	if err != nil {
		fmt.Printf("clone failed for %s: %v\n", ref.FullName(), err)
		return nil, fmt.Errorf("%w: %s", ErrRepoUnavailable, ref.FullName())
	}

	return snap, nil
}

// tryAPI returns nil on any failure so the caller falls back to cloning.
func (a *Acquirer) tryAPI(ctx context.Context, ref RepoRef) *RepoSnapshot {
	snap, err := a.host.Metadata(ctx, ref)
	if err != nil {
		fmt.Printf("warn: API metadata for %s: %v\n", ref.FullName(), err)
		return nil
	}

	files, err := a.host.Walk(ctx, ref, a.cfg.App.Limits)
	if err != nil {
		fmt.Printf("warn: API walk for %s: %v\n", ref.FullName(), err)
		return nil
	}

	snap.Files = files
	snap.Source = SourceAPI

	return &snap
}

func (a *Acquirer) tryClone(ctx context.Context, ref RepoRef) (*RepoSnapshot, error) {
	dir, err := os.MkdirTemp("", "repograde-")
	if err != nil {
		return nil, err
	}
	a.tempDir = dir

	target := filepath.Join(dir, "repo")
	cctx, cancel := context.WithTimeout(ctx, a.cfg.App.Limits.CloneTimeout())
	defer cancel()

	cmd := exec.CommandContext(cctx, binGit, "clone", "--depth", "1", ref.CloneURL, target)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if cctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("git clone timed out after %s", a.cfg.App.Limits.CloneTimeout())
		}
		return nil, fmt.Errorf("git clone: %v: %s", err, strings.TrimSpace(string(out)))
	}

	files := scanRepo(target, a.cfg.App.Limits)

	return &RepoSnapshot{
		Name:      ref.Repo,
		FullName:  ref.FullName(),
		Language:  detectLanguage(files),
		URL:       ref.URL,
		Files:     files,
		Source:    SourceClone,
		LocalPath: target,
	}, nil
}

// Cleanup releases the clone directory. It is idempotent and safe to call
// whether or not a clone ever happened, including after a failed attempt.
func (a *Acquirer) Cleanup() {
	if a.tempDir == "" {
		return
	}
	if err := os.RemoveAll(a.tempDir); err != nil {
		fmt.Printf("warn: cleanup %s: %v\n", a.tempDir, err)
	}
	a.tempDir = ""
}
