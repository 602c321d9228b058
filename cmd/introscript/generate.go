package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MoAI-tw/introscript/internal/api"
	"github.com/MoAI-tw/introscript/internal/history"
	"github.com/MoAI-tw/introscript/internal/orchestrator"
	"github.com/MoAI-tw/introscript/internal/profile"
	"github.com/MoAI-tw/introscript/internal/prompt"
)

var (
	genProfileName  string
	genProfileFile  string
	genProvider     string
	genModel        string
	genProjectID    string
	genProjectTitle string
	genRegenerate   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a self-introduction script from a profile",
	Long: `Generate renders the active prompt template against the profile's
form data and dispatches one generation request to the configured provider.
The result is archived to history and printed.

A pending result left in the cache by an interrupted run is consumed first
instead of dispatching again; pass --regenerate to force a fresh call.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		form, err := loadProfile(a, genProfileName, genProfileFile)
		if err != nil {
			return err
		}
		applyPromptStore(a.prompts, form)

		providerName := genProvider
		if providerName == "" {
			providerName = a.cfg.Get().Defaults.Provider
		}
		opts, ok := a.cfg.Get().GenerateOptions(providerName)
		if !ok {
			return fmt.Errorf("provider %q is not configured or not enabled", providerName)
		}
		if genModel != "" {
			opts.Model = genModel
		}
		opts.ProjectID = genProjectID
		opts.ProjectTitle = genProjectTitle

		orch := orchestrator.New(a.facade, a.cache, a.history, a.logger)
		params := orchestrator.EntryParams{Form: form, Options: opts}

		var rec *history.Record
		if genRegenerate {
			rec, err = orch.Regenerate(cmd.Context(), params)
		} else {
			rec, err = orch.Run(cmd.Context(), params)
		}
		if err != nil {
			return err
		}
		return outputRecord(rec)
	},
}

func init() {
	generateCmd.Flags().StringVar(&genProfileName, "profile", "", "named profile from the profiles directory")
	generateCmd.Flags().StringVarP(&genProfileFile, "file", "f", "", "profile YAML file path")
	generateCmd.Flags().StringVarP(&genProvider, "provider", "p", "", "provider name (default from config)")
	generateCmd.Flags().StringVarP(&genModel, "model", "m", "", "model override")
	generateCmd.Flags().StringVar(&genProjectID, "project-id", "", "project id recorded with the result")
	generateCmd.Flags().StringVar(&genProjectTitle, "project-title", "", "project title recorded with the result")
	generateCmd.Flags().BoolVar(&genRegenerate, "regenerate", false, "skip any pending cached result and dispatch fresh")
}

// loadProfile resolves --profile / --file into form data.
func loadProfile(a *app, name, file string) (*profile.FormData, error) {
	switch {
	case name != "" && file != "":
		return nil, fmt.Errorf("--profile and --file are mutually exclusive")
	case name != "":
		return profile.LoadFile(a.home.ProfilePath(name))
	case file != "":
		return profile.LoadFile(file)
	default:
		return nil, fmt.Errorf("a profile is required: pass --profile <name> or --file <path>")
	}
}

// applyPromptStore copies the persisted template state into the form, so the
// facade sees the active template body and any custom system prompt.
func applyPromptStore(store *prompt.Store, form *profile.FormData) {
	form.Generation.UseCustomPrompt = store.UseCustomPrompt()
	form.Generation.PromptTemplate = store.Body()
	form.Generation.ActivePromptID = store.ActiveID()

	templates := make(map[string]prompt.Template)
	for _, t := range store.List() {
		templates[t.ID] = t
	}
	form.Generation.PromptTemplates = templates
}

func outputRecord(rec *history.Record) error {
	if api.GetOutputFormat() == api.OutputFormatText {
		return api.Output(rec.Content)
	}
	return api.Output(rec)
}

// resultCmd mirrors the result page: replay a history record by id, or
// consume the pending cached result if one is waiting.
var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Show the pending result or replay an archived one",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		orch := orchestrator.New(a.facade, a.cache, a.history, a.logger)
		rec, err := orch.Run(cmd.Context(), orchestrator.EntryParams{HistoryID: resultID})
		if err != nil {
			return err
		}
		return outputRecord(rec)
	},
}

var resultID string

func init() {
	resultCmd.Flags().StringVar(&resultID, "id", "", "history record id to replay")
}
