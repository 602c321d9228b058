package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MoAI-tw/introscript/internal/api"
	"github.com/MoAI-tw/introscript/internal/config"
	"github.com/MoAI-tw/introscript/internal/generate"
	"github.com/MoAI-tw/introscript/internal/history"
	"github.com/MoAI-tw/introscript/internal/home"
	"github.com/MoAI-tw/introscript/internal/kv"
	"github.com/MoAI-tw/introscript/internal/prompt"
	"github.com/MoAI-tw/introscript/internal/resultcache"
	"github.com/MoAI-tw/introscript/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "introscript",
	Short: "Self-introduction script generator with multi-provider LLM dispatch",
	Long: `Introscript turns a structured profile (education, work experience,
skills, industry targeting) into a spoken self-introduction script using
OpenAI or Gemini.

Features:
  - Prompt templates with placeholder substitution and a protected default
  - Single-flight generation with an ephemeral result cache
  - Append-only generation history with token and cost accounting`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.introscript/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "introscript home directory (default: ~/.introscript)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json, or text",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(profileCmd)
}

// app wires the stores and the facade for one command invocation.
type app struct {
	home    *home.Dir
	cfg     *config.Manager
	prompts *prompt.Store
	history *history.Store
	cache   *resultcache.Cache
	facade  *generate.Facade
	logger  *slog.Logger
}

func newApp() (*app, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}

	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.Default()

	device, err := kv.NewFileStore(h.Path())
	if err != nil {
		return nil, err
	}
	session, err := kv.NewFileStore(h.SessionPath())
	if err != nil {
		return nil, err
	}

	prompts, err := prompt.NewStore(device, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open template store: %w", err)
	}
	hist, err := history.NewStore(device, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	return &app{
		home:    h,
		cfg:     cm,
		prompts: prompts,
		history: hist,
		cache:   resultcache.New(session, logger),
		facade:  generate.NewFacade(logger),
		logger:  logger,
	}, nil
}
