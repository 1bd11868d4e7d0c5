// Package analysis holds the domain collaborators of the core: the
// startup-evaluation prompts and the framework that composes them into
// a task graph and aggregates the results into a report.
package analysis

import (
	"context"
	"log"

	"github.com/usharma123/ShellHacks2025/internal/graph"
	"github.com/usharma123/ShellHacks2025/internal/llm"
	"github.com/usharma123/ShellHacks2025/internal/orchestrator"
	"github.com/usharma123/ShellHacks2025/pkg/models"
)

// Task names inside the analysis graph.
const (
	taskParseRecord  = "parse_record"
	taskQuickScreen  = "quick_screen"
	taskFullEval     = "full_evaluation"
	taskMarket       = "market_analysis"
	taskProduct      = "product_analysis"
	taskFounders     = "founder_analysis"
	taskSegmentation = "founder_segmentation"
	taskIdeaFit      = "founder_idea_fit"
	taskIntegrated   = "integrated_analysis"
	taskDecision     = "quantitative_decision"
)

// Framework runs the full startup analysis: parse, fan out the
// independent analyses, then fan in the integrated assessment and the
// quantitative decision.
type Framework struct {
	caller  *llm.Caller
	workers int
}

// New creates a Framework. workers bounds task concurrency; zero picks
// the orchestrator default.
func New(caller *llm.Caller, workers int) *Framework {
	return &Framework{caller: caller, workers: workers}
}

// Analyze evaluates freeform startup text in advanced mode and returns
// the aggregate report.
func (f *Framework) Analyze(ctx context.Context, startupText string) (models.StructuredResult, error) {
	return f.analyze(ctx, startupText, "advanced")
}

// AnalyzeNatural evaluates in natural-language mode: the evaluation,
// market, and product prompts ask for prose-leaning output while the
// founder assessment stays in advanced mode.
func (f *Framework) AnalyzeNatural(ctx context.Context, startupText string) (models.StructuredResult, error) {
	return f.analyze(ctx, startupText, "natural_language_advanced")
}

func (f *Framework) analyze(ctx context.Context, startupText, mode string) (models.StructuredResult, error) {
	log.Printf("[analysis] starting startup analysis (mode=%s)", mode)

	g := graph.New()

	call := func(p prompt) (models.StructuredResult, error) {
		return f.caller.Call(ctx, p.system, p.user)
	}

	g.Add(taskParseRecord, nil, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return call(parseRecordPrompt(startupText))
	})

	g.Add(taskQuickScreen, []string{taskParseRecord}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return call(quickScreenPrompt(deps[taskParseRecord]))
	})
	g.Add(taskFullEval, []string{taskParseRecord}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return call(evaluatePrompt(deps[taskParseRecord], mode))
	})
	g.Add(taskMarket, []string{taskParseRecord}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return call(marketPrompt(deps[taskParseRecord], mode))
	})
	g.Add(taskProduct, []string{taskParseRecord}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return call(productPrompt(deps[taskParseRecord], mode))
	})
	g.Add(taskFounders, []string{taskParseRecord}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		// Founder assessment always runs in advanced mode.
		return call(foundersPrompt(deps[taskParseRecord], "advanced"))
	})
	g.Add(taskSegmentation, []string{taskParseRecord}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return call(segmentationPrompt(founderInfo(deps[taskParseRecord])))
	})
	g.Add(taskIdeaFit, []string{taskParseRecord}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		info := deps[taskParseRecord]
		fit, err := call(ideaFitPrompt(info, founderInfo(info)))
		if err != nil {
			return nil, err
		}
		if _, ok := fit["cosine_similarity"]; !ok {
			if ideaFit, ok := fit["idea_fit"]; ok {
				fit["cosine_similarity"] = ideaFit
			} else {
				fit["cosine_similarity"] = 0.5
			}
		}
		return fit, nil
	})

	g.Add(taskIntegrated,
		[]string{taskMarket, taskProduct, taskFounders, taskIdeaFit, taskSegmentation, taskQuickScreen},
		func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
			return call(integratedPrompt(
				deps[taskMarket], deps[taskProduct], deps[taskFounders],
				deps[taskIdeaFit], deps[taskSegmentation], deps[taskQuickScreen]["prediction"],
			))
		})
	g.Add(taskDecision,
		[]string{taskQuickScreen, taskIdeaFit, taskSegmentation},
		func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
			return call(decisionPrompt(
				deps[taskQuickScreen]["prediction"], deps[taskIdeaFit], deps[taskSegmentation],
			))
		})

	results, err := orchestrator.Run(ctx, g, f.workers)
	if err != nil {
		return nil, err
	}

	screen := results[taskQuickScreen]
	fit := results[taskIdeaFit]

	report := models.StructuredResult{
		"Final Analysis":        results[taskIntegrated],
		"Market Analysis":       results[taskMarket],
		"Product Analysis":      results[taskProduct],
		"Founder Analysis":      results[taskFounders],
		"Founder Segmentation":  results[taskSegmentation],
		"Founder Idea Fit":      fit["idea_fit"],
		"Categorical Prediction": screen["prediction"],
		"Categorization":        screen,
		"Quantitative Decision": results[taskDecision],
		"Startup Info":          results[taskParseRecord],
		"Full Evaluation":       results[taskFullEval],
	}
	log.Printf("[analysis] analysis complete (%d tasks)", g.Size())
	return report, nil
}

// founderInfo extracts the founder_backgrounds portion of a parsed
// record as a mapping, tolerating records where the field is a bare
// string or missing entirely.
func founderInfo(info models.StructuredResult) models.StructuredResult {
	switch v := info["founder_backgrounds"].(type) {
	case map[string]any:
		return models.StructuredResult(v)
	case nil:
		return models.StructuredResult{}
	default:
		return models.StructuredResult{"founder_backgrounds": v}
	}
}
