// Package graph provides the dependency graph of named analysis tasks.
// Tasks are nodes; edges are "depends on" relationships. A graph is
// owned by a single orchestrator run and discarded after aggregation.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/usharma123/ShellHacks2025/pkg/models"
)

// ErrCycleDetected indicates a circular dependency in the task graph.
var ErrCycleDetected = errors.New("circular dependency detected")

// RunFunc is the body of a task. It receives the resolved results of
// every declared dependency, keyed by task name.
type RunFunc func(ctx context.Context, deps map[string]models.StructuredResult) (models.StructuredResult, error)

// Task is one named unit of work.
type Task struct {
	// Name uniquely identifies the task within its graph.
	Name string
	// DependsOn lists task names that must be done before this runs.
	DependsOn []string
	// Run produces the task's result from its dependencies' results.
	Run RunFunc
	// Status is the task's current state.
	Status models.TaskStatus
}

// Graph is a directed acyclic graph of tasks plus their results.
// All methods are safe for concurrent use.
type Graph struct {
	mu      sync.RWMutex
	nodes   map[string]*Task
	order   []string // insertion order, for deterministic iteration
	results map[string]models.StructuredResult
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]*Task),
		results: make(map[string]models.StructuredResult),
	}
}

// Add registers a task. Duplicate names overwrite nothing and return an
// error so graph construction bugs surface immediately.
func (g *Graph) Add(name string, dependsOn []string, run RunFunc) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("task %s already registered", name)
	}
	g.nodes[name] = &Task{
		Name:      name,
		DependsOn: append([]string(nil), dependsOn...),
		Run:       run,
		Status:    models.TaskStatusPending,
	}
	g.order = append(g.order, name)
	return nil
}

// Validate checks that every dependency references a known task and
// that the graph is acyclic.
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for name, task := range g.nodes {
		for _, dep := range task.DependsOn {
			if _, exists := g.nodes[dep]; !exists {
				return fmt.Errorf("task %s depends on unknown task %s", name, dep)
			}
		}
	}
	if g.hasCycleLocked() {
		return ErrCycleDetected
	}
	return nil
}

// hasCycleLocked runs DFS with coloring to detect back edges.
// Color states: 0 = unvisited, 1 = in progress, 2 = done.
func (g *Graph) hasCycleLocked() bool {
	colors := make(map[string]int, len(g.nodes))

	var visit func(name string) bool
	visit = func(name string) bool {
		colors[name] = 1
		for _, dep := range g.nodes[name].DependsOn {
			switch colors[dep] {
			case 1:
				return true
			case 0:
				if visit(dep) {
					return true
				}
			}
		}
		colors[name] = 2
		return false
	}

	for name := range g.nodes {
		if colors[name] == 0 && visit(name) {
			return true
		}
	}
	return false
}

// Ready returns pending tasks whose dependencies are all done, in
// insertion order.
func (g *Graph) Ready() []*Task {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var ready []*Task
	for _, name := range g.order {
		task := g.nodes[name]
		if task.Status != models.TaskStatusPending {
			continue
		}
		eligible := true
		for _, dep := range task.DependsOn {
			if g.nodes[dep].Status != models.TaskStatusDone {
				eligible = false
				break
			}
		}
		if eligible {
			ready = append(ready, task)
		}
	}
	return ready
}

// MarkRunning transitions a task to running.
func (g *Graph) MarkRunning(name string) {
	g.setStatus(name, models.TaskStatusRunning)
}

// MarkDone records a task's result and transitions it to done,
// unblocking its dependents.
func (g *Graph) MarkDone(name string, result models.StructuredResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if task, ok := g.nodes[name]; ok {
		task.Status = models.TaskStatusDone
		g.results[name] = result
	}
}

// MarkFailed transitions a task to failed.
func (g *Graph) MarkFailed(name string) {
	g.setStatus(name, models.TaskStatusFailed)
}

func (g *Graph) setStatus(name string, status models.TaskStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if task, ok := g.nodes[name]; ok {
		task.Status = status
	}
}

// Status returns the current status of a named task.
func (g *Graph) Status(name string) models.TaskStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if task, ok := g.nodes[name]; ok {
		return task.Status
	}
	return ""
}

// Result returns the stored result of a done task.
func (g *Graph) Result(name string) (models.StructuredResult, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	result, ok := g.results[name]
	return result, ok
}

// DepResults collects the results of a task's dependencies, keyed by
// dependency name. It must only be called once the task is eligible.
func (g *Graph) DepResults(name string) map[string]models.StructuredResult {
	g.mu.RLock()
	defer g.mu.RUnlock()

	task, ok := g.nodes[name]
	if !ok {
		return nil
	}
	deps := make(map[string]models.StructuredResult, len(task.DependsOn))
	for _, dep := range task.DependsOn {
		deps[dep] = g.results[dep]
	}
	return deps
}

// Results returns a copy of all stored results.
func (g *Graph) Results() map[string]models.StructuredResult {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]models.StructuredResult, len(g.results))
	for name, result := range g.results {
		out[name] = result
	}
	return out
}

// Size returns the number of tasks.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// AllDone reports whether every task finished successfully.
func (g *Graph) AllDone() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, task := range g.nodes {
		if task.Status != models.TaskStatusDone {
			return false
		}
	}
	return true
}
