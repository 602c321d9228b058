package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MoAI-tw/introscript/internal/api"
	"github.com/MoAI-tw/introscript/internal/home"
	"github.com/MoAI-tw/introscript/internal/kv"
	"github.com/MoAI-tw/introscript/internal/prompt"
)

var (
	promptName        string
	promptDescription string
	promptContent     string
	promptContentFile string
	promptSystem      string
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage prompt templates",
	Long: `Prompt templates control the text sent to the provider. Placeholders
like {name} and {skills} are substituted from the profile at generation time.

The built-in "default" template cannot be deleted. Adding a template makes it
active; "prompts use" switches between templates.`,
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		type row struct {
			ID     string `json:"id" yaml:"id"`
			Name   string `json:"name" yaml:"name"`
			Active bool   `json:"active" yaml:"active"`
		}
		activeID := a.prompts.ActiveID()
		rows := make([]row, 0)
		for _, t := range a.prompts.List() {
			rows = append(rows, row{ID: t.ID, Name: t.Name, Active: t.ID == activeID})
		}
		return api.Output(rows)
	},
}

var promptsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		t, ok := a.prompts.Get(args[0])
		if !ok {
			return fmt.Errorf("template %q not found", args[0])
		}
		return api.Output(t)
	},
}

var promptsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a template and make it active",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		content, err := resolveContent()
		if err != nil {
			return err
		}
		if content == "" {
			return fmt.Errorf("template content is required: pass --content or --content-file")
		}

		id, err := a.prompts.Add(prompt.Template{
			Name:         promptName,
			Description:  promptDescription,
			Content:      content,
			SystemPrompt: promptSystem,
		})
		if err != nil {
			return err
		}
		if !api.IsStructuredOutput() {
			fmt.Printf("Added and activated %s\n", id)
			return nil
		}
		return api.Output(map[string]string{"id": id})
	},
}

var promptsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		var upd prompt.Update
		if cmd.Flags().Changed("name") {
			upd.Name = &promptName
		}
		if cmd.Flags().Changed("description") {
			upd.Description = &promptDescription
		}
		if cmd.Flags().Changed("content") || cmd.Flags().Changed("content-file") {
			content, err := resolveContent()
			if err != nil {
				return err
			}
			upd.Content = &content
		}
		if cmd.Flags().Changed("system-prompt") {
			upd.SystemPrompt = &promptSystem
		}

		return a.prompts.Update(args[0], upd)
	},
}

var promptsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a template (the default is protected)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.prompts.Delete(args[0])
	},
}

var promptsUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a template active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.prompts.SetActive(args[0])
	},
}

var promptsCustomCmd = &cobra.Command{
	Use:   "custom <on|off>",
	Short: "Toggle custom prompting for generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		switch args[0] {
		case "on":
			return a.prompts.SetUseCustomPrompt(true)
		case "off":
			return a.prompts.SetUseCustomPrompt(false)
		default:
			return fmt.Errorf("expected on or off, got %q", args[0])
		}
	},
}

var promptsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export templates as a JSON backup",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		data, err := a.prompts.Export()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			return os.WriteFile(args[0], data, 0o644)
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	},
}

var promptsRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore a JSON backup into empty template storage",
	Long: `Restore refuses to overwrite template storage that is already
populated (first-writer-wins). It only succeeds in a freshly initialized
home directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		// Bootstrap must see raw storage before the store seeds its default.
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		device, err := kv.NewFileStore(h.Path())
		if err != nil {
			return err
		}
		return prompt.Bootstrap(device, data)
	},
}

func resolveContent() (string, error) {
	if promptContent != "" && promptContentFile != "" {
		return "", fmt.Errorf("--content and --content-file are mutually exclusive")
	}
	if promptContentFile != "" {
		data, err := os.ReadFile(promptContentFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return promptContent, nil
}

func init() {
	for _, c := range []*cobra.Command{promptsAddCmd, promptsEditCmd} {
		c.Flags().StringVar(&promptName, "name", "", "template name")
		c.Flags().StringVar(&promptDescription, "description", "", "template description")
		c.Flags().StringVar(&promptContent, "content", "", "template body with {placeholder} variables")
		c.Flags().StringVar(&promptContentFile, "content-file", "", "read the template body from a file")
		c.Flags().StringVar(&promptSystem, "system-prompt", "", "system prompt override")
	}

	promptsCmd.AddCommand(promptsListCmd)
	promptsCmd.AddCommand(promptsShowCmd)
	promptsCmd.AddCommand(promptsAddCmd)
	promptsCmd.AddCommand(promptsEditCmd)
	promptsCmd.AddCommand(promptsDeleteCmd)
	promptsCmd.AddCommand(promptsUseCmd)
	promptsCmd.AddCommand(promptsCustomCmd)
	promptsCmd.AddCommand(promptsExportCmd)
	promptsCmd.AddCommand(promptsRestoreCmd)
}
