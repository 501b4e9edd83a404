package repograde

import (
	"context"
	"embed"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeClient struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (c *fakeClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	c.lastSystem = system
	c.lastUser = user
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func newTestService(host repoHost, client Client) *service {
	cfg := DefaultConfig()
	cfg.Auth.GithubToken = "tok"

	return &service{
		cfg:          cfg,
		llm:          client,
		host:         host,
		systemPrompt: "grade strictly",
		evalPrompt:   "DESC={{.Description}}\nREPO={{.RepoName}}\nCTX={{.CodeContext}}",
	}
}

func TestServiceEvaluate(t *testing.T) {
	host := &fakeHost{
		snap: RepoSnapshot{
			Name:     "widget",
			FullName: "acme/widget",
			Language: "Go",
			URL:      "https://github.com/acme/widget",
			Source:   SourceAPI,
		},
		files: []FileRecord{
			{Path: "login.go", Name: "login.go", Content: "package login"},
			{Path: "form.go", Name: "form.go", Content: "package form"},
			{Path: "auth.go", Name: "auth.go", Content: "package auth"},
		},
	}
	client := &fakeClient{
		reply: `{"score": 80, "explanation": "Login present", "strengths": ["login"], "weaknesses": []}`,
	}
	svc := newTestService(host, client)

	rep, err := svc.Evaluate(context.Background(), "https://github.com/acme/widget", "needs a login page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.Result.Score != 80 {
		t.Errorf("expected score 80, got %d", rep.Result.Score)
	}
	want := "Login present\n\nStrengths:\n- login"
	if rep.Result.Explanation != want {
		t.Errorf("expected explanation %q, got %q", want, rep.Result.Explanation)
	}

	if rep.Repo.FullName != "acme/widget" {
		t.Errorf("expected full name acme/widget, got %q", rep.Repo.FullName)
	}
	if rep.Repo.Files != 3 {
		t.Errorf("expected 3 files, got %d", rep.Repo.Files)
	}
	if rep.Repo.Source != SourceAPI {
		t.Errorf("expected source %q, got %q", SourceAPI, rep.Repo.Source)
	}
	if rep.DescriptionChars != len("needs a login page") {
		t.Errorf("expected description length %d, got %d", len("needs a login page"), rep.DescriptionChars)
	}

	if client.lastSystem != "grade strictly" {
		t.Errorf("expected system prompt to pass through, got %q", client.lastSystem)
	}
	if !strings.Contains(client.lastUser, "DESC=needs a login page") {
		t.Errorf("expected description in prompt, got %q", client.lastUser)
	}
	if !strings.Contains(client.lastUser, "REPO=widget") {
		t.Errorf("expected repo name in prompt, got %q", client.lastUser)
	}
	if !strings.Contains(client.lastUser, "File: login.go") || !strings.Contains(client.lastUser, "package login") {
		t.Errorf("expected code context in prompt, got %q", client.lastUser)
	}
}

func TestServiceEvaluateEmptyRepo(t *testing.T) {
	host := &fakeHost{
		snap: RepoSnapshot{Name: "widget", FullName: "acme/widget", Source: SourceAPI},
	}
	client := &fakeClient{reply: `{"score": 5, "explanation": "Nothing to grade."}`}
	svc := newTestService(host, client)

	rep, err := svc.Evaluate(context.Background(), "https://github.com/acme/widget", "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.Repo.Files != 0 {
		t.Errorf("expected 0 files, got %d", rep.Repo.Files)
	}
	if !strings.Contains(client.lastUser, "No code files found in repository.") {
		t.Errorf("expected empty-repository context, got %q", client.lastUser)
	}
}

func TestServiceEvaluateBadURL(t *testing.T) {
	svc := newTestService(&fakeHost{}, &fakeClient{})

	_, err := svc.Evaluate(context.Background(), "not-a-repo", "desc")
	if err == nil {
		t.Fatal("expected error for unresolvable url")
	}
	if !errors.Is(err, ErrBadRepoURL) {
		t.Errorf("expected ErrBadRepoURL, got %v", err)
	}
}

func TestServiceEvaluateClientError(t *testing.T) {
	host := &fakeHost{
		snap:  RepoSnapshot{Name: "widget", FullName: "acme/widget", Source: SourceAPI},
		files: []FileRecord{{Path: "main.go", Content: "package main"}},
	}
	svc := newTestService(host, &fakeClient{err: errors.New("model offline")})

	_, err := svc.Evaluate(context.Background(), "https://github.com/acme/widget", "desc")
	if err == nil {
		t.Fatal("expected error from failing client")
	}
	if !strings.Contains(err.Error(), "text generation") {
		t.Errorf("expected text generation error, got %v", err)
	}
}

func TestNewServiceLoadsPromptsFromDisk(t *testing.T) {
	dir := t.TempDir()
	sysPath := filepath.Join(dir, "system.txt")
	evalPath := filepath.Join(dir, "evaluate.txt")
	if err := os.WriteFile(sysPath, []byte("system"), 0644); err != nil {
		t.Fatalf("failed to write prompt: %v", err)
	}
	if err := os.WriteFile(evalPath, []byte("evaluate {{.Description}}"), 0644); err != nil {
		t.Fatalf("failed to write prompt: %v", err)
	}

	cfg := DefaultConfig()
	cfg.App.SystemPromptPath = sysPath
	cfg.App.PromptPath = evalPath

	svc, err := NewService(cfg, &fakeClient{}, embed.FS{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected service")
	}
}

func TestNewServiceMissingPrompts(t *testing.T) {
	cfg := DefaultConfig()

	_, err := NewService(cfg, &fakeClient{}, embed.FS{})
	if err == nil {
		t.Fatal("expected error without any prompt source")
	}
	if !strings.Contains(err.Error(), "system prompt") {
		t.Errorf("expected system prompt error, got %v", err)
	}
}
