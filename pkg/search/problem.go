package search

import (
	"fmt"

	"github.com/natevvv/terrain-routing/pkg/terrain"
)

// Problem describes one route search on a terrain.
type Problem struct {
	Initial  Coord
	Goal     Coord
	Terrain  terrain.Terrain
	Factor   float64 // step = terrain cell size * Factor
	MaxSlope float64 // moves need an elevation difference strictly below this
	MaxDepth int     // nodes at this depth are not expanded
}

func (p Problem) Validate() error {
	switch {
	case p.Terrain == nil:
		return fmt.Errorf("%w: no terrain", ErrInvalidProblem)
	case p.Factor <= 0:
		return fmt.Errorf("%w: factor %v must be positive", ErrInvalidProblem, p.Factor)
	case p.MaxSlope <= 0:
		return fmt.Errorf("%w: max slope %v must be positive", ErrInvalidProblem, p.MaxSlope)
	case p.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %v must not be negative", ErrInvalidProblem, p.MaxDepth)
	}
	return nil
}

// IsGoal compares both coordinates with the goal.
func (p Problem) IsGoal(s State) bool {
	return s.Coord == p.Goal
}

func (p Problem) InitialState() State {
	return NewState(p.Initial, p.Terrain)
}
