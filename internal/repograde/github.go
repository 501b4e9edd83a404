package repograde

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-github/v61/github"
	"github.com/shurcooL/graphql"
	"golang.org/x/oauth2"
)

// repoHost is the hosted-API side of acquisition: repository metadata and
// a budgeted walk over the content tree. Every method is allowed to fail;
// the Acquirer treats any error here as a soft failure and falls back to
// cloning.
type repoHost interface {
	Metadata(ctx context.Context, ref RepoRef) (RepoSnapshot, error)
	Walk(ctx context.Context, ref RepoRef, limits Limits) ([]FileRecord, error)
}

type githubHost struct {
	rest     *github.Client
	gql      *graphql.Client
	cacheDir string
	cacheTTL time.Duration
}

func newGitHubHost(cfg *Config) (*githubHost, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Auth.GithubToken})
	httpClient := oauth2.NewClient(context.Background(), src)

	return &githubHost{
		rest:     github.NewClient(httpClient),
		gql:      graphql.NewClient("https://api.github.com/graphql", httpClient),
		cacheDir: cfg.App.CacheDir,
		cacheTTL: time.Duration(cfg.App.CacheTTLMinutes) * time.Minute,
	}, nil
}

type repoMetaQuery struct {
	Repository struct {
		Name            string
		NameWithOwner   string
		Description     string
		URL             string `graphql:"url"`
		PrimaryLanguage struct {
			Name string
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// Metadata fetches name, description, primary language and canonical URL.
// Resolver-derived values stay in place for anything the host leaves empty.
func (g *githubHost) Metadata(ctx context.Context, ref RepoRef) (RepoSnapshot, error) {
	snap := RepoSnapshot{
		Name:     ref.Repo,
		FullName: ref.FullName(),
		Language: "Unknown",
		URL:      ref.URL,
		Source:   SourceAPI,
	}

	metaPath, cacheErr := cachePath(g.cacheDir, ref.Owner, ref.Repo, "meta.json")
	if cacheErr == nil && g.cacheTTL > 0 {
		var cached RepoSnapshot
		hit, err := readCache(metaPath, &cached, g.cacheTTL)
		if err != nil {
			fmt.Printf("warn: cache read error: %v\n", err)
		}
		if hit {
			return cached, nil
		}
	}

	var query repoMetaQuery
	variables := map[string]interface{}{
		"owner": graphql.String(ref.Owner),
		"name":  graphql.String(ref.Repo),
	}
	if err := g.gql.Query(ctx, &query, variables); err != nil {
		return snap, fmt.Errorf("graphql query: %w", err)
	}

	if query.Repository.Name != "" {
		snap.Name = query.Repository.Name
	}
	if query.Repository.NameWithOwner != "" {
		snap.FullName = query.Repository.NameWithOwner
	}
	if query.Repository.PrimaryLanguage.Name != "" {
		snap.Language = query.Repository.PrimaryLanguage.Name
	}
	if query.Repository.URL != "" {
		snap.URL = query.Repository.URL
	}
	snap.Description = query.Repository.Description

	if cacheErr == nil && g.cacheTTL > 0 {
		if err := writeCache(metaPath, snap); err != nil {
			fmt.Printf("warn: cache write error: %v\n", err)
		}
	}

	return snap, nil
}

// Walk collects up to limits.MaxFiles records through the contents API.
// Pending directories sit in an explicit worklist so budget accounting
// stays visible; enumeration stops the moment the budget is reached. A
// failing entry is dropped and the walk goes on. Only a failure to list
// the repository root is reported.
func (g *githubHost) Walk(ctx context.Context, ref RepoRef, limits Limits) ([]FileRecord, error) {
	var files []FileRecord
	queue := []string{""}

	for len(queue) > 0 && len(files) < limits.MaxFiles {
		dir := queue[0]
		queue = queue[1:]

		entries, err := g.listDir(ctx, ref, dir, limits.FetchTimeout())
		if err != nil {
			if dir == "" {
				return nil, fmt.Errorf("list repository contents: %w", err)
			}
			fmt.Printf("warn: skipping %s: %v\n", dir, err)
			continue
		}

		for _, entry := range entries {
			if len(files) >= limits.MaxFiles {
				break
			}
			switch entry.GetType() {
			case "file":
				if !codeExtensions[strings.ToLower(filepath.Ext(entry.GetName()))] {
					continue
				}
				rec, err := g.fetchFile(ctx, ref, entry, limits)
				if err != nil {
					continue
				}
				files = append(files, rec)
			case "dir":
				queue = append(queue, entry.GetPath())
			}
		}
	}

	return files, nil
}

func (g *githubHost) listDir(ctx context.Context, ref RepoRef, dir string, timeout time.Duration) ([]*github.RepositoryContent, error) {
	lctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	file, entries, _, err := g.rest.Repositories.GetContents(lctx, ref.Owner, ref.Repo, dir, nil)
	if err != nil {
		return nil, err
	}
	if file != nil {
		return []*github.RepositoryContent{file}, nil
	}

	return entries, nil
}

func (g *githubHost) fetchFile(ctx context.Context, ref RepoRef, entry *github.RepositoryContent, limits Limits) (FileRecord, error) {
	path := entry.GetPath()

	safePath := strings.ReplaceAll(path, "/", "_")
	filePath, cacheErr := cachePath(g.cacheDir, ref.Owner, ref.Repo, "files", safePath+".json")
	if cacheErr == nil && g.cacheTTL > 0 {
		var cached FileRecord
		hit, err := readCache(filePath, &cached, g.cacheTTL)
		if err != nil {
			fmt.Printf("warn: cache read error: %v\n", err)
		}
		if hit {
			return cached, nil
		}
	}

	fctx, cancel := context.WithTimeout(ctx, limits.FetchTimeout())
	defer cancel()

	file, _, _, err := g.rest.Repositories.GetContents(fctx, ref.Owner, ref.Repo, path, nil)
	if err != nil {
		return FileRecord{}, err
	}
	if file == nil {
		return FileRecord{}, errors.New("not a file")
	}

	content, err := file.GetContent()
	if err != nil {
		return FileRecord{}, err
	}
	if len(content) > limits.MaxFileBytes {
		content = content[:limits.MaxFileBytes]
	}

	rec := FileRecord{
		Path:    path,
		Name:    entry.GetName(),
		Content: content,
		Size:    int64(entry.GetSize()),
	}

	if cacheErr == nil && g.cacheTTL > 0 {
		if err := writeCache(filePath, rec); err != nil {
			fmt.Printf("warn: cache write error: %v\n", err)
		}
	}

	return rec, nil
}
