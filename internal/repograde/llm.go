package repograde

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	genai "google.golang.org/genai"
)

const (
	defaultOpenAIModel = "gpt-4o"
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOllamaModel = "llama3.2"
)

// Client is the text-generation capability: one system/user prompt pair
// in, the raw reply text out. Normalizing the reply is the caller's job.
type Client interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}

type openAIClient struct {
	sdk   openai.Client
	model string
}

func (c *openAIClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model: c.model,
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := c.sdk.Chat.Completions.New(ctx, req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(300*(attempt+1)) * time.Millisecond)
			continue
		}

		if len(resp.Choices) == 0 {
			return "", errors.New("empty completion")
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", lastErr
}

type geminiClient struct {
	cli   *genai.Client
	model string
}

func (g *geminiClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	full := system + "\n\n" + user

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
		)
		if err != nil {
			lastErr = err
		} else if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = errors.New("no candidates from gemini")
		} else {
			return resp.Candidates[0].Content.Parts[0].Text, nil
		}
		time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
	}

	return "", lastErr
}

type ollamaClient struct {
	api   *ollama.Client
	model string
}

func (o *ollamaClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	stream := false
	req := &ollama.GenerateRequest{
		Model:  o.model,
		Prompt: user,
		System: system,
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
	}

	var b strings.Builder
	err := o.api.Generate(ctx, req, func(resp ollama.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if b.Len() == 0 {
		return "", errors.New("empty ollama response")
	}

	return b.String(), nil
}

// NewClient selects the text-generation backend from config. A missing
// credential for the chosen provider is a constructor error; nothing here
// degrades silently.
func NewClient(cfg *Config) (Client, error) {
	switch cfg.LLM.Provider {
	case "", "openai":
		apiKey := cfg.LLM.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("missing OpenAI API key")
		}
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if cfg.LLM.Endpoint != "" {
			opts = append(opts, option.WithBaseURL(cfg.LLM.Endpoint))
		}
		return &openAIClient{
			sdk:   openai.NewClient(opts...),
			model: firstNonEmpty(cfg.LLM.Model, defaultOpenAIModel),
		}, nil
	case "gemini":
		apiKey := cfg.LLM.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("missing Gemini API key")
		}
		cli, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return &geminiClient{
			cli:   cli,
			model: firstNonEmpty(cfg.LLM.Model, defaultGeminiModel),
		}, nil
	case "ollama":
		cli, err := newOllamaAPI(cfg.LLM.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
		return &ollamaClient{
			api:   cli,
			model: firstNonEmpty(cfg.LLM.Model, defaultOllamaModel),
		}, nil
	default:
		return nil, errors.New("unsupported LLM provider: " + cfg.LLM.Provider)
	}
}

func newOllamaAPI(endpoint string) (*ollama.Client, error) {
	if endpoint == "" {
		return ollama.ClientFromEnvironment()
	}
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}

	return ollama.NewClient(base, http.DefaultClient), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}
