package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MoAI-tw/introscript/internal/api"
	"github.com/MoAI-tw/introscript/internal/history"
)

var (
	historySort string
	historyAsc  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the generation history archive",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		records := a.history.List()
		switch historySort {
		case "timestamp":
			history.SortByTimestamp(records, !historyAsc)
		case "title":
			history.SortByTitle(records)
		case "cost":
			history.SortByCost(records)
		case "tokens":
			history.SortByTokens(records)
		case "":
			// insertion order
		default:
			return fmt.Errorf("unknown sort field %q (timestamp, title, cost, tokens)", historySort)
		}

		// Summary rows; use `history show` for the full record.
		type row struct {
			ID        string  `json:"id" yaml:"id"`
			Timestamp string  `json:"timestamp" yaml:"timestamp"`
			Title     string  `json:"title,omitempty" yaml:"title,omitempty"`
			Provider  string  `json:"provider" yaml:"provider"`
			Model     string  `json:"model" yaml:"model"`
			Tokens    int     `json:"tokens" yaml:"tokens"`
			CostUSD   float64 `json:"costUsd" yaml:"cost_usd"`
		}
		rows := make([]row, 0, len(records))
		for _, r := range records {
			rows = append(rows, row{
				ID:        r.ID,
				Timestamp: r.Timestamp.Format("2006-01-02 15:04:05"),
				Title:     r.ProjectTitle,
				Provider:  r.Provider,
				Model:     r.Model,
				Tokens:    r.TotalTokens,
				CostUSD:   r.EstimatedCost,
			})
		}
		return api.Output(rows)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one archived generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		rec, ok := a.history.GetByID(args[0])
		if !ok {
			return fmt.Errorf("history record %q not found", args[0])
		}
		return outputRecord(&rec)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one archived generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.history.DeleteByID(args[0]); err != nil {
			return err
		}
		if !api.IsStructuredOutput() {
			fmt.Printf("Deleted %s\n", args[0])
		}
		return nil
	},
}

func init() {
	historyListCmd.Flags().StringVar(&historySort, "sort", "", "sort by: timestamp, title, cost, tokens")
	historyListCmd.Flags().BoolVar(&historyAsc, "asc", false, "sort timestamps oldest-first")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}
