package search

import (
	"fmt"
	"math"
	"strconv"

	"github.com/natevvv/terrain-routing/pkg/terrain"
)

// Coord is a planar position. Y is the row / northing, X the column / easting.
type Coord struct {
	Y, X float64
}

func (c Coord) String() string {
	return "(" + formatFloat(c.Y) + "," + formatFloat(c.X) + ")"
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

type Direction int

const (
	NoAction Direction = iota
	North
	East
	South
	West
)

// Order in which successors are generated
var directions = [...]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "None"
	}
}

// delta returns the unit offset (dy, dx) of one step in direction d.
// North and south move along Y, east and west along X.
func (d Direction) delta() (dy, dx float64) {
	switch d {
	case North:
		return 1, 0
	case South:
		return -1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	default:
		return 0, 0
	}
}

// State is a position on a terrain. The terrain is shared, never owned.
type State struct {
	Coord
	Terrain terrain.Terrain
}

func NewState(c Coord, t terrain.Terrain) State {
	return State{Coord: c, Terrain: t}
}

// Transition is a feasible move from one state to a neighbour.
type Transition struct {
	Action   Direction
	State    State
	Distance float64
	Slope    float64 // absolute elevation difference
}

func (t Transition) String() string {
	return fmt.Sprintf("(%v,%v,(%s,%s))", t.Action, t.State.Coord, formatFloat(t.Distance), formatFloat(t.Slope))
}

// Successors returns the feasible moves of one step (cell size * factor) in
// the order N, E, S, W. A move is feasible when both ends have data and the
// elevation difference is strictly below maxSlope.
func (s State) Successors(factor, maxSlope float64) []Transition {
	noData := s.Terrain.NoData()
	elevation := s.Terrain.ElevationAt(s.Y, s.X)
	if elevation == noData {
		return nil
	}
	step := s.Terrain.CellSize() * factor

	successors := make([]Transition, 0, len(directions))
	for _, d := range directions {
		dy, dx := d.delta()
		next := Coord{Y: s.Y + dy*step, X: s.X + dx*step}
		nextElevation := s.Terrain.ElevationAt(next.Y, next.X)
		if nextElevation == noData {
			continue
		}
		slope := math.Abs(elevation - nextElevation)
		if slope >= maxSlope {
			continue
		}
		successors = append(successors, Transition{
			Action:   d,
			State:    NewState(next, s.Terrain),
			Distance: step,
			Slope:    slope,
		})
	}
	return successors
}
