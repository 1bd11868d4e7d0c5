package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/usharma123/ShellHacks2025/internal/cache"
	"github.com/usharma123/ShellHacks2025/internal/llm"
	"github.com/usharma123/ShellHacks2025/pkg/models"
)

func newTestCaller(t *testing.T, response string) *llm.Caller {
	t.Helper()
	stub := &llm.StubClient{Response: response}
	return llm.NewCaller(stub, cache.New(t.TempDir(), cache.DefaultTTL, true), llm.CallerConfig{Model: "m1"})
}

func exaStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") == "" {
			t.Error("request missing x-api-key header")
		}
		switch r.URL.Path {
		case "/search":
			json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]string{
					{"title": "Acme Corp", "url": "https://example.com/acme", "summary": "Acme builds rockets."},
				},
			})
		case "/answer":
			json.NewEncoder(w).Encode(map[string]string{"answer": "$10B by 2030"})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestIngestCompany(t *testing.T) {
	srv := exaStub(t)
	defer srv.Close()

	ing := New(NewExaClient("test-key", srv.URL), newTestCaller(t, `{"name": "Acme", "description": "rockets", "competition": "SpaceX", "market_trends": "up", "product_details": "boosters", "product_fit": "agencies", "founders": ["Jane Roe"]}`))

	bundle, err := ing.IngestCompany(context.Background(), "Acme")
	if err != nil {
		t.Fatal(err)
	}
	if bundle["query"] != "Acme" {
		t.Errorf("query = %v", bundle["query"])
	}
	structured, ok := bundle["structured"].(models.StructuredResult)
	if !ok {
		t.Fatalf("structured = %T", bundle["structured"])
	}
	if structured["name"] != "Acme" {
		t.Errorf("name = %v", structured["name"])
	}
	if structured["market_size"] != "$10B by 2030" {
		t.Errorf("market_size = %v", structured["market_size"])
	}
	info, _ := bundle["startup_info_str"].(string)
	if !strings.HasPrefix(info, "Acme: rockets") {
		t.Errorf("startup_info_str = %q", info)
	}
	if !strings.Contains(info, "Market Size: $10B by 2030") {
		t.Errorf("startup_info_str missing market size: %q", info)
	}
	details, _ := structured["founder_details"].([]models.StructuredResult)
	if len(details) != 1 || details[0]["name"] != "Jane Roe" {
		t.Errorf("founder_details = %v", details)
	}
	sources, _ := bundle["sources"].([]map[string]string)
	if len(sources) != 1 || sources[0]["url"] != "https://example.com/acme" {
		t.Errorf("sources = %v", sources)
	}
}

func TestIngestPassthroughWithoutSearch(t *testing.T) {
	ing := New(nil, newTestCaller(t, "{}"))
	bundle, err := ing.IngestCompany(context.Background(), "Acme builds rockets")
	if err != nil {
		t.Fatal(err)
	}
	if bundle["startup_info_str"] != "Acme builds rockets" {
		t.Errorf("startup_info_str = %v", bundle["startup_info_str"])
	}
}

func TestExaRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "ok"})
	}))
	defer srv.Close()

	client := NewExaClient("k", srv.URL)
	answer, err := client.Answer(context.Background(), "question")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "ok" {
		t.Errorf("answer = %q", answer)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want one retry after 429", calls.Load())
	}
}

func TestExaClientErrorsArePermanent(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewExaClient("bad", srv.URL)
	if _, err := client.Answer(context.Background(), "question"); err == nil {
		t.Fatal("401 should surface as an error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, 4xx must not be retried", calls.Load())
	}
}

func TestFounderNames(t *testing.T) {
	names := founderNames("Jane Roe; John Doe, unknown")
	if len(names) != 2 || names[0] != "Jane Roe" || names[1] != "John Doe" {
		t.Errorf("names = %v", names)
	}
	mixed := founderNames([]any{"A", map[string]any{"name": "B"}, ""})
	if len(mixed) != 2 || mixed[1] != "B" {
		t.Errorf("mixed = %v", mixed)
	}
	if got := founderNames(nil); len(got) != 0 {
		t.Errorf("nil value = %v", got)
	}
}

func TestComposeInfoSkipsEmpty(t *testing.T) {
	info := composeInfo(models.StructuredResult{
		"name":        "Acme",
		"description": "rockets",
		"market_size": "N/A",
		"competition": "SpaceX",
	})
	if strings.Contains(info, "Market Size") {
		t.Errorf("N/A attributes must be skipped: %q", info)
	}
	if !strings.Contains(info, "Competition: SpaceX") {
		t.Errorf("info = %q", info)
	}
}
