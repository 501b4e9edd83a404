package repograde

import (
	"os"

	"gopkg.in/yaml.v3"
)

type App struct {
	PromptPath       string `yaml:"prompt_path"`
	SystemPromptPath string `yaml:"system_prompt_path"`
	CacheDir         string `yaml:"cache_dir"`
	CacheTTLMinutes  int    `yaml:"cache_ttl_minutes"`
	Limits           Limits `yaml:"limits"`
}

type Auth struct {
	GithubToken string `yaml:"github_token"`
}

type LLM struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
}

type Config struct {
	App  App  `yaml:"app"`
	Auth Auth `yaml:"auth"`
	LLM  LLM  `yaml:"llm"`
}

// DefaultConfig returns a config usable without any file on disk.
func DefaultConfig() *Config {
	var c Config
	c.applyDefaults()

	return &c
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	return &c, nil
}

func (c *Config) applyDefaults() {
	def := DefaultLimits()
	if c.App.Limits.MaxFiles <= 0 {
		c.App.Limits.MaxFiles = def.MaxFiles
	}
	if c.App.Limits.MaxFileBytes <= 0 {
		c.App.Limits.MaxFileBytes = def.MaxFileBytes
	}
	if c.App.Limits.MaxPromptFiles <= 0 {
		c.App.Limits.MaxPromptFiles = def.MaxPromptFiles
	}
	if c.App.Limits.MaxPromptChars <= 0 {
		c.App.Limits.MaxPromptChars = def.MaxPromptChars
	}
	if c.App.Limits.FetchTimeoutSeconds <= 0 {
		c.App.Limits.FetchTimeoutSeconds = def.FetchTimeoutSeconds
	}
	if c.App.Limits.CloneTimeoutSeconds <= 0 {
		c.App.Limits.CloneTimeoutSeconds = def.CloneTimeoutSeconds
	}

	if c.App.CacheTTLMinutes < 0 {
		c.App.CacheTTLMinutes = 0
	}

	if c.Auth.GithubToken == "" {
		c.Auth.GithubToken = os.Getenv("GITHUB_TOKEN")
	}
}
