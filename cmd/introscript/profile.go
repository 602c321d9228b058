package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MoAI-tw/introscript/internal/api"
	"github.com/MoAI-tw/introscript/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved profiles",
}

var profileNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a skeleton profile to fill in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		path := a.home.ProfilePath(args[0])
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("profile %q already exists at %s", args[0], path)
		}

		form := &profile.FormData{}
		form.Personal.Education = []profile.Education{{}}
		form.Personal.WorkExperience = []profile.WorkExperience{{}}
		form.Personal.Skills = []profile.Skill{{}}
		form.Generation.Duration = "60"
		form.Generation.Language = a.cfg.Get().Defaults.Language
		form.Generation.Style = "professional"

		if err := profile.SaveFile(path, form); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", path)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		entries, err := os.ReadDir(a.home.ProfilesPath())
		if err != nil {
			return err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
				continue
			}
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
		return api.Output(names)
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		form, err := profile.LoadFile(a.home.ProfilePath(args[0]))
		if err != nil {
			return err
		}
		return api.Output(form)
	},
}

func init() {
	profileCmd.AddCommand(profileNewCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
}
