package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/usharma123/ShellHacks2025/internal/report"
	"github.com/usharma123/ShellHacks2025/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the analysis pipeline over HTTP:

  GET  /health      liveness check
  POST /analyze     {"query": ..., "ingest": bool, "natural": bool}
  GET  /runs        recent run history
  GET  /runs/:id    one saved report`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	framework, ingestor, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	store, err := report.Open(cfg.DBPath)
	if err != nil {
		log.Printf("[serve] run history unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Listen
	}

	srv := server.New(framework, ingestor, store, server.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	if err := srv.Listen(addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
