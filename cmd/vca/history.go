package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/usharma123/ShellHacks2025/internal/report"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := report.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening run history: %w", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No saved runs.")
			return nil
		}
		for _, r := range runs {
			query := r.Query
			if len(query) > 60 {
				query = query[:60] + "..."
			}
			fmt.Printf("%s  %s  %s  %s\n",
				color.CyanString(r.ID),
				r.CreatedAt.Local().Format(time.DateTime),
				r.Mode, query)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print one saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := report.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening run history: %w", err)
		}
		defer store.Close()

		run, err := store.GetRun(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(run.Report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to list")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
