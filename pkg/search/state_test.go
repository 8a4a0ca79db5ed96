package search

import (
	"errors"
	"math"
	"testing"
)

// gridTerrain places rows[i][j] at (Y=i*cell, X=j*cell). Cells holding noData
// and everything outside the rows has no data.
type gridTerrain struct {
	cell   float64
	noData float64
	values map[Coord]float64
}

func newGridTerrain(cell float64, rows [][]float64) *gridTerrain {
	t := &gridTerrain{cell: cell, noData: -9999, values: make(map[Coord]float64)}
	for i, row := range rows {
		for j, v := range row {
			t.values[Coord{Y: float64(i) * cell, X: float64(j) * cell}] = v
		}
	}
	return t
}

func (t *gridTerrain) ElevationAt(y, x float64) float64 {
	if v, ok := t.values[Coord{Y: y, X: x}]; ok {
		return v
	}
	return t.noData
}
func (t *gridTerrain) CellSize() float64 { return t.cell }
func (t *gridTerrain) NoData() float64   { return t.noData }

func TestSuccessorsOrderAndMapping(t *testing.T) {
	terr := newGridTerrain(10, [][]float64{
		{5, 6, 7},
		{8, 9, 10},
		{11, 12, 13},
	})
	s := NewState(Coord{Y: 10, X: 10}, terr)
	successors := s.Successors(1, 100)

	expected := []struct {
		action Direction
		coord  Coord
		slope  float64
	}{
		{North, Coord{Y: 20, X: 10}, 3},
		{East, Coord{Y: 10, X: 20}, 1},
		{South, Coord{Y: 0, X: 10}, 3},
		{West, Coord{Y: 10, X: 0}, 1},
	}
	if len(successors) != len(expected) {
		t.Fatalf("got %v successors, expected %v", len(successors), len(expected))
	}
	for i, e := range expected {
		tr := successors[i]
		if tr.Action != e.action || tr.State.Coord != e.coord || tr.Slope != e.slope || tr.Distance != 10 {
			t.Errorf("successor %v is %v, expected (%v,%v,(10,%v))", i, tr, e.action, e.coord, e.slope)
		}
		if tr.State.Terrain != terr {
			t.Errorf("successor %v does not share the terrain", i)
		}
	}
}

func TestSuccessorsFactor(t *testing.T) {
	terr := newGridTerrain(1, [][]float64{{1, 1, 1}})
	successors := NewState(Coord{}, terr).Successors(2, 100)
	if len(successors) != 1 {
		t.Fatalf("got %v successors, expected 1", len(successors))
	}
	if successors[0].State.Coord != (Coord{Y: 0, X: 2}) || successors[0].Distance != 2 {
		t.Errorf("unexpected successor %v", successors[0])
	}
}

func TestSuccessorsFeasibility(t *testing.T) {
	nd := -9999.0
	terr := newGridTerrain(1, [][]float64{
		{nd, 3, nd},
		{0, 1, 2},
		{nd, nd, nd},
	})
	// N: nodata, E: slope 1, S: slope 2 (not < 2), W: slope 1
	successors := NewState(Coord{Y: 1, X: 1}, terr).Successors(1, 2)
	if len(successors) != 2 || successors[0].Action != East || successors[1].Action != West {
		t.Errorf("unexpected successors %v", successors)
	}

	if got := NewState(Coord{Y: 2, X: 2}, terr).Successors(1, 100); len(got) != 0 {
		t.Errorf("state without data has successors %v", got)
	}
}

func TestHeuristics(t *testing.T) {
	goal := Coord{Y: 4, X: 0}
	c := Coord{Y: 0, X: 3}
	if v := Manhattan(goal).Estimate(c); v != 7 {
		t.Errorf("manhattan is %v, expected 7", v)
	}
	if v := Euclidean(goal).Estimate(c); math.Abs(v-5) > 1e-12 {
		t.Errorf("euclidean is %v, expected 5", v)
	}
	if v := Zero(goal).Estimate(c); v != 0 {
		t.Errorf("zero is %v", v)
	}
	if v := Euclidean(goal).Estimate(goal); v != 0 {
		t.Errorf("estimate at the goal is %v", v)
	}
}

func TestStrategyValues(t *testing.T) {
	goal := Coord{Y: 3, X: 4}
	newNode := func() *Node {
		return &Node{State: State{Coord: Coord{}}, Depth: 3, DistanceCost: 12}
	}

	cases := []struct {
		strategy  Strategy
		value     float64
		heuristic bool
	}{
		{BreadthFirst(), 3, false},
		{DepthFirst(), 0.25, false},
		{UniformCost(), 12, false},
		{Greedy(Euclidean(goal)), 5, true},
		{AStar(Euclidean(goal)), 17, true},
		{Greedy(Manhattan(goal)), 7, true},
		{AStar(Manhattan(goal)), 19, true},
	}
	for _, c := range cases {
		n := newNode()
		if v := c.strategy.Value(n); v != c.value {
			t.Errorf("%v: value is %v, expected %v", c.strategy, v, c.value)
		}
		if _, ok := n.Heuristic(); ok != c.heuristic {
			t.Errorf("%v: heuristic cached %v, expected %v", c.strategy, ok, c.heuristic)
		}
	}
}

func TestHeuristicCachedOnce(t *testing.T) {
	n := &Node{State: State{Coord: Coord{Y: 1}}}
	n.heuristic, n.hasHeuristic = 42, true
	if v := Greedy(Manhattan(Coord{})).Value(n); v != 42 {
		t.Errorf("value is %v, cached estimate was not used", v)
	}
}

func TestParseStrategy(t *testing.T) {
	goal := Coord{Y: 1, X: 2}
	for _, name := range []string{"dfs", "bfs", "ucs", "astar-euclidean", "astar-manhattan", "astar-zero",
		"greedy-euclidean", "greedy-manhattan", "greedy-zero"} {
		s, err := ParseStrategy(name, goal)
		if err != nil {
			t.Errorf("%v: %v", name, err)
			continue
		}
		if s.Name() != name {
			t.Errorf("parsed %v has name %v", name, s.Name())
		}
		if s.Informed() && s.Heuristic().Goal() != goal {
			t.Errorf("%v: heuristic goal is %v", name, s.Heuristic().Goal())
		}
	}
	if s, err := ParseStrategy(" A*", goal); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("parsed %v without error", s)
	}
	if s, _ := ParseStrategy("ASTAR-Euclidean", goal); s.Label() != "A* with Euclidean heuristic" {
		t.Errorf("unexpected label %q", s.Label())
	}
}

func TestNodeString(t *testing.T) {
	root := &Node{Parent: -1, State: State{Coord: Coord{Y: 3105001, X: 279133}}, Value: 0}
	if s := root.String(); s != "[0][(0.000,0.000),(3105001,279133),None,None,0,0.0,0.0000]" {
		t.Errorf("unexpected root string %v", s)
	}

	child := &Node{ID: 4, Parent: 1, State: State{Coord: Coord{Y: 1, X: 2.5}}, Action: East,
		DistanceCost: 600, MaxSlopeCost: 12.25, Depth: 2, Value: 612.5}
	child.heuristic, child.hasHeuristic = 12.5, true
	if s := child.String(); s != "[4][(600.000,12.250),(1,2.5),1,E,2,12.500,612.5000]" {
		t.Errorf("unexpected child string %v", s)
	}
}
