// Package search implements a best-first tree search over terrain states.
//
// The order in which nodes are expanded is given by a Strategy (breadth
// first, depth first, uniform cost, greedy or A*). Nodes are kept in a
// frontier ordered by (value, id), so equal values are expanded in creation
// order. States are marked visited when they are expanded, not when they are
// generated, so a state may be in the frontier more than once.
//
// A search either finds the goal or reports that no solution exists. It does
// not tell an unreachable goal from a goal behind the depth limit; Stats
// carries the counters needed to diagnose that. Memory is not bounded: every
// generated node is kept until the search returns.
package search

import (
	"context"

	"github.com/natevvv/terrain-routing/internal/logging"
	"github.com/natevvv/terrain-routing/pkg/queue"
)

// Stats counts what happened during a search.
type Stats struct {
	Pops         int // nodes removed from the frontier
	Expansions   int // nodes whose successors were generated
	Generated    int // child nodes created
	Duplicates   int // popped nodes discarded because the state was visited
	DepthCutoffs int // popped nodes discarded at the depth limit
	PeakFrontier int // largest frontier size
}

// Result of a search. Goal is nil when no solution was found.
type Result struct {
	Found bool
	Goal  *Node
	Stats Stats
	tree  *Tree
}

// Path returns the nodes from the root to the goal, or nil without a solution.
func (r Result) Path() []*Node {
	if !r.Found {
		return nil
	}
	return r.tree.Path(r.Goal.ID)
}

// Nodes returns the number of nodes created, including the root.
func (r Result) Nodes() int {
	if r.tree == nil {
		return 0
	}
	return r.tree.Len()
}

type options struct {
	trace  func(*Node)
	logger logging.Logger
}

type Option func(*options)

// WithTrace calls fn for every node removed from the frontier.
func WithTrace(fn func(*Node)) Option {
	return func(o *options) { o.trace = fn }
}

// WithLogger logs a summary once the search terminates.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func byValue(n *Node) float64 { return n.Value }
func byID(n *Node) float64    { return float64(n.ID) }

// Search runs the strategy on the problem. Only an invalid problem is an
// error; a missing route is reported through Result.Found.
func Search(p Problem, s Strategy, opts ...Option) (Result, error) {
	o := options{logger: logging.Noop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	tree := NewTree(s, p.InitialState())
	frontier := queue.NewFrontier[*Node](byValue, byID)
	frontier.Insert(tree.Root())
	visited := make(map[Coord]bool)
	stats := Stats{PeakFrontier: 1}

	result := Result{tree: tree}
	for !frontier.IsEmpty() {
		node, _ := frontier.RemoveMin()
		stats.Pops++
		if o.trace != nil {
			o.trace(node)
		}

		if p.IsGoal(node.State) {
			result.Found, result.Goal = true, node
			break
		}
		if node.Depth == p.MaxDepth {
			stats.DepthCutoffs++
			continue
		}
		if visited[node.State.Coord] {
			stats.Duplicates++
			continue
		}
		visited[node.State.Coord] = true

		stats.Expansions++
		for _, tr := range node.State.Successors(p.Factor, p.MaxSlope) {
			frontier.Insert(tree.Expand(node, tr))
			stats.Generated++
		}
		stats.PeakFrontier = max(stats.PeakFrontier, frontier.Len())
	}
	result.Stats = stats

	fields := []logging.Field{
		logging.String("strategy", s.Name()),
		logging.Bool("found", result.Found),
		logging.Int("pops", stats.Pops),
		logging.Int("expansions", stats.Expansions),
		logging.Int("generated", stats.Generated),
		logging.Int("duplicates", stats.Duplicates),
		logging.Int("depth_cutoffs", stats.DepthCutoffs),
		logging.Int("peak_frontier", stats.PeakFrontier),
	}
	if result.Found {
		fields = append(fields, logging.Int("depth", result.Goal.Depth), logging.Float("distance", result.Goal.DistanceCost))
	}
	o.logger.Debug(context.Background(), "search finished", fields...)
	return result, nil
}
