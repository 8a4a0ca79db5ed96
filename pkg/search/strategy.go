package search

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownStrategy = errors.New("search: unknown strategy")
	ErrInvalidProblem  = errors.New("search: invalid problem")
)

type strategyKind int

const (
	breadthFirst strategyKind = iota
	depthFirst
	uniformCost
	greedy
	aStar
)

// Strategy computes the ordering value of a node. Smaller values are expanded first.
type Strategy struct {
	kind      strategyKind
	heuristic Heuristic
}

func BreadthFirst() Strategy            { return Strategy{kind: breadthFirst} }
func DepthFirst() Strategy              { return Strategy{kind: depthFirst} }
func UniformCost() Strategy             { return Strategy{kind: uniformCost} }
func Greedy(h Heuristic) Strategy       { return Strategy{kind: greedy, heuristic: h} }
func AStar(h Heuristic) Strategy        { return Strategy{kind: aStar, heuristic: h} }
func (s Strategy) Informed() bool       { return s.kind == greedy || s.kind == aStar }
func (s Strategy) Heuristic() Heuristic { return s.heuristic }

// Value returns the ordering value of n. Informed strategies store the
// heuristic estimate on n the first time they see it.
func (s Strategy) Value(n *Node) float64 {
	switch s.kind {
	case breadthFirst:
		return float64(n.Depth)
	case depthFirst:
		return 1 / float64(n.Depth+1)
	case uniformCost:
		return n.DistanceCost
	case greedy:
		return s.estimate(n)
	case aStar:
		return n.DistanceCost + s.estimate(n)
	default:
		panic(fmt.Sprintf("search: strategy kind %d", s.kind))
	}
}

func (s Strategy) estimate(n *Node) float64 {
	if h, ok := n.Heuristic(); ok {
		return h
	}
	h := s.heuristic.Estimate(n.State.Coord)
	n.heuristic, n.hasHeuristic = h, true
	return h
}

// Name is the identifier accepted by ParseStrategy.
func (s Strategy) Name() string {
	switch s.kind {
	case breadthFirst:
		return "bfs"
	case depthFirst:
		return "dfs"
	case uniformCost:
		return "ucs"
	case greedy:
		return "greedy-" + s.heuristic.String()
	case aStar:
		return "astar-" + s.heuristic.String()
	default:
		return "unknown"
	}
}

// Label is a human readable description.
func (s Strategy) Label() string {
	switch s.kind {
	case breadthFirst:
		return "BFS"
	case depthFirst:
		return "DFS"
	case uniformCost:
		return "UCS"
	case greedy:
		return "Greedy with " + title(s.heuristic.String()) + " heuristic"
	case aStar:
		return "A* with " + title(s.heuristic.String()) + " heuristic"
	default:
		return "unknown"
	}
}

func (s Strategy) String() string { return s.Name() }

func title(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

// ParseStrategy resolves a strategy name (dfs, bfs, ucs, astar-<h>, greedy-<h>
// with h one of euclidean, manhattan, zero) for the given goal.
func ParseStrategy(name string, goal Coord) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dfs":
		return DepthFirst(), nil
	case "bfs":
		return BreadthFirst(), nil
	case "ucs":
		return UniformCost(), nil
	case "astar-euclidean":
		return AStar(Euclidean(goal)), nil
	case "astar-manhattan":
		return AStar(Manhattan(goal)), nil
	case "astar-zero":
		return AStar(Zero(goal)), nil
	case "greedy-euclidean":
		return Greedy(Euclidean(goal)), nil
	case "greedy-manhattan":
		return Greedy(Manhattan(goal)), nil
	case "greedy-zero":
		return Greedy(Zero(goal)), nil
	default:
		return Strategy{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
