package search

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

type heuristicKind int

const (
	zeroKind heuristicKind = iota
	manhattanKind
	euclideanKind
)

// Heuristic estimates the remaining distance to a fixed goal.
// The zero value estimates 0 everywhere.
type Heuristic struct {
	kind heuristicKind
	goal Coord
}

func Manhattan(goal Coord) Heuristic { return Heuristic{kind: manhattanKind, goal: goal} }
func Euclidean(goal Coord) Heuristic { return Heuristic{kind: euclideanKind, goal: goal} }
func Zero(goal Coord) Heuristic      { return Heuristic{kind: zeroKind, goal: goal} }

func (h Heuristic) Goal() Coord { return h.goal }

// Estimate is pure: the result only depends on c and the goal.
func (h Heuristic) Estimate(c Coord) float64 {
	switch h.kind {
	case manhattanKind:
		return math.Abs(h.goal.Y-c.Y) + math.Abs(h.goal.X-c.X)
	case euclideanKind:
		return planar.Distance(orb.Point{h.goal.X, h.goal.Y}, orb.Point{c.X, c.Y})
	default:
		return 0
	}
}

func (h Heuristic) String() string {
	switch h.kind {
	case manhattanKind:
		return "manhattan"
	case euclideanKind:
		return "euclidean"
	default:
		return "zero"
	}
}
