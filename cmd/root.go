package cmd

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gradeworks/repograde/internal/repograde"
)

const defaultConfigFile = "repograde.yml"

var promptFS embed.FS

var (
	cfgFile         string
	provider        string
	model           string
	apiKey          string
	outputPath      string
	descriptionText string
)

var rootCmd = &cobra.Command{
	Use:   "repograde <repo-url> [description-file]",
	Short: "Score a GitHub repository against a project description",
	Long: `repograde acquires a snapshot of a GitHub repository, through the
hosted API when a token is available or a shallow clone otherwise, then asks
a text-generation model how well the code fulfills a free-text project
description. The reply is normalized into a 0-100 score and a markdown
explanation regardless of what shape the model sends back.`,
	Args:          cobra.RangeArgs(1, 2),
	RunE:          runEvaluate,
	SilenceErrors: true,
}

// Execute wires the embedded prompt files in and runs the root command.
func Execute(fsys embed.FS) {
	promptFS = fsys
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config (default "+defaultConfigFile+" when present)")
	rootCmd.Flags().StringVar(&provider, "provider", "", "model provider: openai, gemini or ollama")
	rootCmd.Flags().StringVar(&model, "model", "", "model to use for evaluation")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "provider API key (or set OPENAI_API_KEY / GEMINI_API_KEY)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the evaluation report to this file")
	rootCmd.Flags().StringVar(&descriptionText, "description-text", "", "project description as raw text instead of a file")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if provider != "" {
		cfg.LLM.Provider = provider
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}

	description, err := resolveDescription(args)
	if err != nil {
		return err
	}
	fmt.Printf("Project description loaded (%d characters)\n", len(description))

	client, err := repograde.NewClient(cfg)
	if err != nil {
		return err
	}

	svc, err := repograde.NewService(cfg, client, promptFS)
	if err != nil {
		return err
	}

	rep, err := svc.Evaluate(context.Background(), args[0], description)
	if err != nil {
		return err
	}

	printResult(rep)

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(rep.Markdown()), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("\nReport saved to: %s\n", outputPath)
	}

	return nil
}

func loadConfig() (*repograde.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return repograde.DefaultConfig(), nil
		}
		path = defaultConfigFile
	}

	cfg, err := repograde.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func resolveDescription(args []string) (string, error) {
	if descriptionText != "" {
		return strings.TrimSpace(descriptionText), nil
	}
	if len(args) < 2 {
		return "", errors.New("provide a description file or --description-text")
	}

	fmt.Println("Parsing project description...")
	description, err := repograde.NewDescriptionParser().Parse(args[1])
	if err != nil {
		return "", err
	}
	if description == "" {
		return "", fmt.Errorf("description file %s is empty", args[1])
	}

	return description, nil
}

func printResult(rep *repograde.Report) {
	rule := strings.Repeat("=", 60)
	fmt.Println("\n" + rule)
	fmt.Println("EVALUATION RESULTS")
	fmt.Println(rule)
	fmt.Printf("\nScore: %d/100\n", rep.Result.Score)
	fmt.Printf("\nExplanation:\n%s\n", rep.Result.Explanation)
	fmt.Println("\n" + rule)
}
