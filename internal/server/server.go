// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/usharma123/ShellHacks2025/internal/analysis"
	"github.com/usharma123/ShellHacks2025/internal/ingest"
	"github.com/usharma123/ShellHacks2025/internal/report"
)

// Server wires the ingestion and analysis pipeline into a fiber app.
type Server struct {
	app       *fiber.App
	framework *analysis.Framework
	ingestor  *ingest.Ingestor
	store     *report.Store
}

// Options configures the HTTP surface.
type Options struct {
	// CORSOrigins is a comma-separated allowlist; "*" allows all.
	CORSOrigins string
}

// New builds the app and registers routes. store may be nil; run
// history is then skipped.
func New(framework *analysis.Framework, ingestor *ingest.Ingestor, store *report.Store, opts Options) *Server {
	app := fiber.New(fiber.Config{
		AppName:     "vca",
		ReadTimeout: 2 * time.Minute,
		// Analysis fans out many model calls; give slow models room.
		WriteTimeout: 10 * time.Minute,
	})

	app.Use(recover.New())
	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	s := &Server{app: app, framework: framework, ingestor: ingestor, store: store}

	app.Get("/health", s.health)
	app.Post("/analyze", s.analyze)
	app.Get("/runs", s.listRuns)
	app.Get("/runs/:id", s.getRun)

	return s
}

// Listen starts serving on addr and blocks.
func (s *Server) Listen(addr string) error {
	log.Printf("[server] listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type analyzeRequest struct {
	// Query is either a company name (with ingest) or the freeform
	// startup text itself.
	Query string `json:"query"`
	// Ingest researches the company on the web before analysis.
	Ingest bool `json:"ingest"`
	// Natural switches the evaluation prompts to prose-leaning output.
	Natural bool `json:"natural"`
}

func (s *Server) analyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query is required")
	}

	ctx := c.Context()
	response := fiber.Map{}

	startupText := req.Query
	mode := "advanced"
	if req.Natural {
		mode = "natural_language_advanced"
	}

	if req.Ingest {
		bundle, err := s.ingestor.IngestCompany(ctx, req.Query)
		if err != nil {
			log.Printf("[server] ingestion failed: %v", err)
			return fiber.NewError(fiber.StatusBadGateway, "ingestion failed")
		}
		if info, ok := bundle["startup_info_str"].(string); ok && info != "" {
			startupText = info
		}
		response["ingestion"] = bundle
	}

	var (
		result map[string]any
		err    error
	)
	if req.Natural {
		result, err = s.framework.AnalyzeNatural(ctx, startupText)
	} else {
		result, err = s.framework.Analyze(ctx, startupText)
	}
	if err != nil {
		log.Printf("[server] analysis failed: %v", err)
		return fiber.NewError(fiber.StatusBadGateway, "analysis failed")
	}
	response["analysis"] = result

	if s.store != nil {
		id, err := s.store.SaveRun(req.Query, mode, result)
		if err != nil {
			log.Printf("[server] saving run: %v", err)
		} else {
			response["run_id"] = id
		}
	}

	return c.JSON(response)
}

func (s *Server) listRuns(c *fiber.Ctx) error {
	if s.store == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "run history disabled")
	}
	runs, err := s.store.ListRuns(c.QueryInt("limit", 20))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "listing runs failed")
	}
	items := make([]fiber.Map, 0, len(runs))
	for _, r := range runs {
		items = append(items, fiber.Map{
			"id":         r.ID,
			"query":      r.Query,
			"mode":       r.Mode,
			"created_at": r.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(fiber.Map{"runs": items})
}

func (s *Server) getRun(c *fiber.Ctx) error {
	if s.store == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "run history disabled")
	}
	run, err := s.store.GetRun(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "run not found")
	}
	return c.JSON(fiber.Map{
		"id":         run.ID,
		"query":      run.Query,
		"mode":       run.Mode,
		"created_at": run.CreatedAt.Format(time.RFC3339),
		"report":     run.Report,
	})
}
