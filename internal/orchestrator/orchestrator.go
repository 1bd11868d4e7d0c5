// Package orchestrator executes a dependency graph of analysis tasks
// under a bounded worker pool. Independent tasks run concurrently; a
// task starts only once every dependency is done.
package orchestrator

import (
	"context"
	"fmt"
	"log"

	"github.com/usharma123/ShellHacks2025/internal/graph"
	"github.com/usharma123/ShellHacks2025/pkg/models"
)

// DefaultMaxWorkers bounds concurrent task execution unless overridden.
const DefaultMaxWorkers = 4

// completion carries one finished task back to the run loop.
type completion struct {
	name    string
	payload models.StructuredResult
	err     error
}

// Run executes every task in g and returns the full result set keyed
// by task name. Eligible tasks are submitted to at most maxWorkers
// concurrent workers; each completion re-scans for newly eligible
// tasks. Completion order between independent tasks is unspecified;
// any data dependency must be a graph edge.
//
// Any task failure aborts the whole run: the first error is returned
// and in-flight workers are drained before Run returns. A started task
// is not cancelled beyond whatever deadline its own body carries.
func Run(ctx context.Context, g *graph.Graph, maxWorkers int) (map[string]models.StructuredResult, error) {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task graph: %w", err)
	}

	completions := make(chan completion, g.Size())
	inflight := 0

	submit := func() {
		for _, task := range g.Ready() {
			if inflight >= maxWorkers {
				return
			}
			g.MarkRunning(task.Name)
			inflight++
			go func(task *graph.Task) {
				deps := g.DepResults(task.Name)
				payload, err := task.Run(ctx, deps)
				completions <- completion{name: task.Name, payload: payload, err: err}
			}(task)
		}
	}

	submit()
	for inflight > 0 {
		done := <-completions
		inflight--

		if done.err != nil {
			g.MarkFailed(done.name)
			log.Printf("[orchestrator] task %s failed: %v", done.name, done.err)
			// Drain workers already running; their results are
			// discarded because the run is aborting.
			for inflight > 0 {
				<-completions
				inflight--
			}
			return nil, fmt.Errorf("task %s: %w", done.name, done.err)
		}

		g.MarkDone(done.name, done.payload)
		submit()
	}

	if !g.AllDone() {
		// Unreachable for a validated acyclic graph; kept as a guard
		// against scheduling bugs.
		return nil, fmt.Errorf("run stalled with unfinished tasks")
	}
	return g.Results(), nil
}
