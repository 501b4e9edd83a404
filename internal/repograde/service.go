package repograde

import (
	"context"
	"embed"
	"fmt"
)

// Service runs one full evaluation: acquire the repository, compose the
// prompt, call the model, normalize the reply.
type Service interface {
	Evaluate(ctx context.Context, repoURL, description string) (*Report, error)
}

type service struct {
	cfg          *Config
	llm          Client
	host         repoHost
	systemPrompt string
	evalPrompt   string
}

func NewService(cfg *Config, client Client, fsys embed.FS) (Service, error) {
	systemPrompt, _, err := loadPrompt(fsys, cfg.App.SystemPromptPath, "prompts/system.txt")
	if err != nil {
		return nil, fmt.Errorf("system prompt: %w", err)
	}

	evalPrompt, _, err := loadPrompt(fsys, cfg.App.PromptPath, "prompts/evaluate.txt")
	if err != nil {
		return nil, fmt.Errorf("evaluation prompt: %w", err)
	}

	host, err := newGitHubHost(cfg)
	if err != nil {
		return nil, err
	}

	return &service{
		cfg:          cfg,
		llm:          client,
		host:         host,
		systemPrompt: systemPrompt,
		evalPrompt:   evalPrompt,
	}, nil
}

func (s *service) Evaluate(ctx context.Context, repoURL, description string) (*Report, error) {
	ref, err := ResolveRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Accessing repository %s...\n", ref.FullName())

	acq := NewAcquirer(s.cfg, s.host)
	defer acq.Cleanup()

	snap, err := acq.Acquire(ctx, ref)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Repository accessed: %s (%d files, via %s)\n", snap.Name, len(snap.Files), snap.Source)

	codeContext := composeContext(snap, s.cfg.App.Limits)
	prompt := buildPrompt(s.evalPrompt, snap, description, codeContext)

	fmt.Println("Evaluating project...")

	rawReply, err := s.llm.GenerateText(ctx, s.systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("text generation: %w", err)
	}

	result := NormalizeReply(rawReply)

	return &Report{
		Repo:             summarize(snap),
		Result:           result,
		DescriptionChars: len(description),
	}, nil
}
