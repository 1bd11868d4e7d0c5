package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/usharma123/ShellHacks2025/internal/llm"
	"github.com/usharma123/ShellHacks2025/pkg/models"
)

// attributeOrder drives both the research passes and the composed
// startup text.
var attributeOrder = []string{
	"name",
	"description",
	"market_size",
	"growth_rate",
	"competition",
	"market_trends",
	"product_details",
	"technology_stack",
	"product_fit",
	"founders",
}

// Ingestor researches a company by name and produces the structured
// record plus the freeform text the analysis pipeline consumes.
type Ingestor struct {
	exa    *ExaClient
	caller *llm.Caller
}

// New creates an Ingestor. exa may be nil; ingestion then degrades to
// a passthrough that hands the raw query to the pipeline.
func New(exa *ExaClient, caller *llm.Caller) *Ingestor {
	return &Ingestor{exa: exa, caller: caller}
}

// IngestCompany researches the query and returns a bundle with the
// structured attributes, the composed startup_info_str, and source
// citations. Without a search client it returns a passthrough bundle
// so the caller can still analyze the raw text.
func (ing *Ingestor) IngestCompany(ctx context.Context, query string) (models.StructuredResult, error) {
	if ing.exa == nil {
		return models.StructuredResult{
			"query":            query,
			"structured":       models.StructuredResult{},
			"startup_info_str": query,
			"sources":          []map[string]string{},
		}, nil
	}

	log.Printf("[ingest] researching %q", query)
	structured := models.StructuredResult{}

	for _, attr := range attributeOrder {
		value, err := ing.lookupAttribute(ctx, query, attr)
		if err != nil {
			log.Printf("[ingest] attribute %s: %v", attr, err)
			structured[attr] = "N/A"
			continue
		}
		structured[attr] = value
	}

	if names := founderNames(structured["founders"]); len(names) > 0 {
		structured["founder_details"] = ing.founderDetails(ctx, names)
	} else {
		structured["founder_details"] = []models.StructuredResult{}
	}

	snippets, err := ing.exa.Search(ctx, query, exaNumResults, "Overview")
	if err != nil {
		log.Printf("[ingest] citation pass: %v", err)
	}

	return models.StructuredResult{
		"query":            query,
		"structured":       structured,
		"startup_info_str": composeInfo(structured),
		"sources":          citations(snippets),
	}, nil
}

// lookupAttribute resolves one attribute, either by asking the search
// API directly or by extracting from snippets with the LLM.
func (ing *Ingestor) lookupAttribute(ctx context.Context, query, attr string) (any, error) {
	switch attr {
	case "market_size":
		return ing.exa.Answer(ctx, fmt.Sprintf(
			"Estimate the market size (TAM/SAM/SOM) for %s? Answer in <= 20 words with currency and timeframe if known.", query))
	case "growth_rate":
		return ing.exa.Answer(ctx, fmt.Sprintf(
			"What is the typical CAGR/growth rate for %s? Answer in <= 15 words including timeframe if available.", query))
	case "technology_stack":
		return ing.exa.Answer(ctx, fmt.Sprintf(
			"What public technologies/stack does %s use? Answer in <= 20 words, comma-separated key components.", query))
	case "founders":
		return ing.lookupFounders(ctx, query)
	}

	lookup := snippetAttributes[attr]
	snippets, err := ing.exa.Search(ctx, lookup.searchQuery(query), exaNumResults, lookup.summary)
	if err != nil {
		return nil, err
	}
	obj, err := ing.caller.Call(ctx,
		fmt.Sprintf("Return JSON { %q: string }. If unknown, 'N/A'.", attr),
		renderSnippets(query, snippets)+"\n\nFocus: "+lookup.focus)
	if err != nil {
		return nil, err
	}
	if v, ok := obj[attr]; ok {
		return v, nil
	}
	return "N/A", nil
}

// snippetAttribute describes how an attribute is researched from
// search snippets.
type snippetAttribute struct {
	suffix  string
	summary string
	focus   string
}

func (s snippetAttribute) searchQuery(query string) string {
	if s.suffix == "" {
		return query
	}
	return query + " " + s.suffix
}

var snippetAttributes = map[string]snippetAttribute{
	"name": {
		summary: "One-line company name and identity.",
		focus:   "Company legal/brand name only.",
	},
	"description": {
		summary: "One-sentence product/company description.",
		focus:   "One concise what-they-do sentence.",
	},
	"competition": {
		suffix:  "competitors alternatives",
		summary: "Competitor list.",
		focus:   "Primary competitors/substitutes in one line.",
	},
	"market_trends": {
		suffix:  "industry trends",
		summary: "Key trends affecting the space.",
		focus:   "1-2 concise trends most relevant.",
	},
	"product_details": {
		suffix:  "features product capabilities",
		summary: "Core features/workflows.",
		focus:   "Key features and workflows in one line.",
	},
	"product_fit": {
		suffix:  "ICP customers use cases",
		summary: "ICP/JTBD.",
		focus:   "Target customer and primary job-to-be-done.",
	},
}

// lookupFounders extracts founder names from snippet-grounded JSON.
func (ing *Ingestor) lookupFounders(ctx context.Context, query string) ([]string, error) {
	snippets, err := ing.exa.Search(ctx, query+" founders leadership team CEO CTO", exaNumResults, "Founder names.")
	if err != nil {
		return nil, err
	}
	obj, err := ing.caller.Call(ctx,
		`Return JSON { "founders": array|string }. If unknown, return empty array.`,
		renderSnippets(query, snippets)+"\n\nFocus: Founder names only (array or comma-separated).")
	if err != nil {
		return nil, err
	}
	return founderNames(obj["founders"]), nil
}

// founderDetails researches each founder's background concurrently.
func (ing *Ingestor) founderDetails(ctx context.Context, names []string) []models.StructuredResult {
	details := make([]models.StructuredResult, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			details[i] = ing.founderDetail(ctx, name)
		}(i, name)
	}
	wg.Wait()
	return details
}

func (ing *Ingestor) founderDetail(ctx context.Context, name string) models.StructuredResult {
	snippets, err := ing.exa.Search(ctx,
		name+" founder biography achievements education", 5,
		fmt.Sprintf("Summarize notable roles, companies, achievements, education for %s.", name))
	if err != nil {
		log.Printf("[ingest] founder %s: %v", name, err)
	}
	sources := make([]map[string]string, 0, len(snippets))
	for _, sn := range snippets {
		if sn.URL == "" {
			continue
		}
		title := sn.Title
		if title == "" {
			title = "Source"
		}
		summary := sn.Summary
		if summary == "" {
			summary = sn.Text
		}
		sources = append(sources, map[string]string{"title": title, "url": sn.URL, "summary": strings.TrimSpace(summary)})
	}

	background := "N/A"
	if answer, err := ing.exa.Answer(ctx, fmt.Sprintf(
		"In one sentence (<= 25 words), summarize %s's professional background and notable roles.", name)); err == nil && answer != "" {
		background = answer
	}
	return models.StructuredResult{"name": name, "background": background, "sources": sources}
}

// founderNames normalizes the LLM's founders value into a clean list.
func founderNames(value any) []string {
	var raw []string
	switch v := value.(type) {
	case string:
		raw = strings.Split(strings.ReplaceAll(v, ";", ","), ",")
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			switch e := item.(type) {
			case string:
				raw = append(raw, e)
			case map[string]any:
				if n, ok := e["name"].(string); ok {
					raw = append(raw, n)
				}
			}
		}
	}
	var names []string
	for _, n := range raw {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		switch strings.ToLower(n) {
		case "unknown", "n/a", "none":
			continue
		}
		names = append(names, n)
	}
	return names
}

// renderSnippets formats search results for prompt embedding.
func renderSnippets(query string, snippets []Snippet) string {
	var b strings.Builder
	b.WriteString("Research target (query):\n")
	b.WriteString(query)
	b.WriteString("\n\nWeb snippets (title, url, excerpt):\n")
	for i, sn := range snippets {
		title := sn.Title
		if title == "" {
			title = "Untitled"
		}
		content := sn.Summary
		if content == "" {
			content = sn.Text
		}
		excerpt := strings.ReplaceAll(strings.TrimSpace(content), "\n", " ")
		if len(excerpt) > 1500 {
			excerpt = excerpt[:1500] + "..."
		}
		fmt.Fprintf(&b, "[%d] %s | %s\n%s\n\n", i+1, title, sn.URL, excerpt)
	}
	b.WriteString("\nExtract the JSON now.")
	return b.String()
}

// composeInfo renders the structured attributes into the freeform
// startup text the pipeline expects.
func composeInfo(structured models.StructuredResult) string {
	name, _ := structured["name"].(string)
	if name == "" || name == "N/A" {
		name = "Unknown Startup"
	}
	desc, _ := structured["description"].(string)
	if desc == "" {
		desc = "N/A"
	}
	parts := []string{name + ": " + desc}
	for _, attr := range attributeOrder {
		if attr == "name" || attr == "description" {
			continue
		}
		value := structured[attr]
		text := strings.TrimSpace(fmt.Sprintf("%v", value))
		if value == nil || text == "" || text == "N/A" || text == "[]" {
			continue
		}
		parts = append(parts, attrLabel(attr)+": "+text)
	}
	return strings.Join(parts, "\n")
}

func attrLabel(attr string) string {
	words := strings.Split(attr, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// citations keeps the title/url pairs from a snippet pass.
func citations(snippets []Snippet) []map[string]string {
	cites := []map[string]string{}
	for _, sn := range snippets {
		if sn.URL == "" {
			continue
		}
		title := strings.TrimSpace(sn.Title)
		if title == "" {
			title = "Source"
		}
		cites = append(cites, map[string]string{"title": title, "url": sn.URL})
	}
	return cites
}
