package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/usharma123/ShellHacks2025/internal/report"
	"github.com/usharma123/ShellHacks2025/pkg/models"
)

var (
	analyzeFormat  string
	analyzeIngest  bool
	analyzeNatural bool
	analyzeNoSave  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [startup text or company name]",
	Short: "Analyze a startup and print the report",
	Long: `Analyze evaluates a startup from freeform text and prints the full
report: market, product, and founder analyses, the integrated
assessment, and the quantitative decision.

With --ingest the argument is treated as a company name and researched
on the web first; the composed findings feed the analysis. Reading
from stdin is supported by passing "-".

Examples:
  vca analyze "Acme: sells API-first rocket telemetry to launch providers"
  vca analyze --ingest "Acme Aerospace"
  cat pitch.txt | vca analyze -`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "json", "Output format: json or yaml")
	analyzeCmd.Flags().BoolVar(&analyzeIngest, "ingest", false, "Research the company on the web before analyzing")
	analyzeCmd.Flags().BoolVar(&analyzeNatural, "natural", false, "Prose-leaning analysis output")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "Skip recording the run in history")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	query := args[0]
	if query == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		query = strings.TrimSpace(string(data))
	}
	if query == "" {
		return fmt.Errorf("empty startup text")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	framework, ingestor, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	startupText := query

	if analyzeIngest {
		color.Cyan("Researching %q...", query)
		bundle, err := ingestor.IngestCompany(ctx, query)
		if err != nil {
			return fmt.Errorf("ingestion: %w", err)
		}
		if info, ok := bundle["startup_info_str"].(string); ok && info != "" {
			startupText = info
		}
	}

	color.Cyan("Analyzing...")
	var result models.StructuredResult
	mode := "advanced"
	if analyzeNatural {
		mode = "natural_language_advanced"
		result, err = framework.AnalyzeNatural(ctx, startupText)
	} else {
		result, err = framework.Analyze(ctx, startupText)
	}
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	if !analyzeNoSave {
		if store, err := report.Open(cfg.DBPath); err == nil {
			if id, err := store.SaveRun(query, mode, result); err == nil {
				color.Green("Saved run %s", id)
			}
			store.Close()
		}
	}

	return printResult(result, analyzeFormat)
}

func printResult(result models.StructuredResult, format string) error {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(map[string]any(result))
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		fmt.Print(string(data))
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		fmt.Println(string(data))
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	return nil
}
