package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/usharma123/ShellHacks2025/internal/graph"
	"github.com/usharma123/ShellHacks2025/pkg/models"
)

func TestFanOutFanIn(t *testing.T) {
	g := graph.New()
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("leaf%d", i)
		value := float64(i)
		g.Add(name, nil, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
			time.Sleep(20 * time.Millisecond)
			return models.StructuredResult{"value": value}, nil
		})
	}

	var seen atomic.Int64
	g.Add("join", []string{"leaf0", "leaf1", "leaf2", "leaf3", "leaf4"},
		func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
			seen.Store(int64(len(deps)))
			total := 0.0
			for _, dep := range deps {
				total += dep["value"].(float64)
			}
			return models.StructuredResult{"total": total}, nil
		})

	results, err := Run(context.Background(), g, 5)
	if err != nil {
		t.Fatal(err)
	}
	if seen.Load() != 5 {
		t.Errorf("join saw %d dependency results, want 5", seen.Load())
	}
	if results["join"]["total"] != 10.0 {
		t.Errorf("total = %v, want 10", results["join"]["total"])
	}
	if len(results) != 6 {
		t.Errorf("results = %d entries, want 6", len(results))
	}
}

func TestParallelismApproachesSlowestTask(t *testing.T) {
	g := graph.New()
	const sleep = 100 * time.Millisecond
	for i := 0; i < 5; i++ {
		g.Add(fmt.Sprintf("leaf%d", i), nil, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
			time.Sleep(sleep)
			return models.StructuredResult{}, nil
		})
	}

	start := time.Now()
	if _, err := Run(context.Background(), g, 5); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)
	// Five parallel 100ms tasks should finish far sooner than their
	// 500ms serial sum. A loose bound keeps CI noise out.
	if elapsed > 4*sleep {
		t.Errorf("run took %v, expected parallel execution near %v", elapsed, sleep)
	}
}

func TestWorkerBoundRespected(t *testing.T) {
	g := graph.New()
	var running, peak atomic.Int64
	for i := 0; i < 8; i++ {
		g.Add(fmt.Sprintf("task%d", i), nil, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
			now := running.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
			return models.StructuredResult{}, nil
		})
	}

	if _, err := Run(context.Background(), g, 2); err != nil {
		t.Fatal(err)
	}
	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
}

func TestFailurePropagation(t *testing.T) {
	boom := errors.New("boom")
	g := graph.New()
	g.Add("ok", nil, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return models.StructuredResult{}, nil
	})
	g.Add("bad", nil, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return nil, boom
	})
	g.Add("dependent", []string{"bad"}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		t.Error("dependent of a failed task must not run")
		return models.StructuredResult{}, nil
	})

	results, err := Run(context.Background(), g, 4)
	if err == nil {
		t.Fatal("a failed task must fail the run")
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
	if results != nil {
		t.Error("a failed run must not return partial results")
	}
}

func TestDependencyOrdering(t *testing.T) {
	g := graph.New()
	var mu sync.Mutex
	var order []string
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	g.Add("first", nil, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		record("first")
		return models.StructuredResult{"n": 1.0}, nil
	})
	g.Add("second", []string{"first"}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		if deps["first"]["n"] != 1.0 {
			t.Errorf("second received deps %v", deps)
		}
		record("second")
		return models.StructuredResult{"n": 2.0}, nil
	})
	g.Add("third", []string{"second"}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		record("third")
		return models.StructuredResult{"n": 3.0}, nil
	})

	if _, err := Run(context.Background(), g, 4); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Errorf("execution order = %v", order)
	}
}

func TestInvalidGraphRejected(t *testing.T) {
	g := graph.New()
	g.Add("a", []string{"b"}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return models.StructuredResult{}, nil
	})
	g.Add("b", []string{"a"}, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return models.StructuredResult{}, nil
	})

	if _, err := Run(context.Background(), g, 4); !errors.Is(err, graph.ErrCycleDetected) {
		t.Errorf("err = %v, want cycle detection", err)
	}
}

func TestEmptyGraph(t *testing.T) {
	results, err := Run(context.Background(), graph.New(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want empty", results)
	}
}

func TestDefaultWorkerCount(t *testing.T) {
	g := graph.New()
	g.Add("only", nil, func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error) {
		return models.StructuredResult{"ok": true}, nil
	})
	results, err := Run(context.Background(), g, 0)
	if err != nil {
		t.Fatal(err)
	}
	if results["only"]["ok"] != true {
		t.Errorf("results = %v", results)
	}
}
