package search

import (
	"fmt"
	"strconv"
)

// Node is one entry of the search tree. Nodes are created by a Tree and are
// not modified afterwards, apart from the heuristic estimate an informed
// strategy stores while computing Value.
type Node struct {
	ID           int
	Parent       int // -1 for the root
	State        State
	Action       Direction // NoAction for the root
	DistanceCost float64   // sum of the step distances from the root
	MaxSlopeCost float64   // largest single step slope from the root
	Depth        int
	Value        float64 // ordering value, computed on creation

	heuristic    float64
	hasHeuristic bool
}

func (n *Node) IsRoot() bool { return n.Parent < 0 }

// Heuristic returns the cached estimate, if an informed strategy computed one.
func (n *Node) Heuristic() (float64, bool) { return n.heuristic, n.hasHeuristic }

// String formats the node as
// [id][(distance,slope),(y,x),parent,action,depth,heuristic,value]
func (n *Node) String() string {
	parent := "None"
	if !n.IsRoot() {
		parent = strconv.Itoa(n.Parent)
	}
	heuristic := "0.0"
	if h, ok := n.Heuristic(); ok {
		heuristic = fmt.Sprintf("%.3f", h)
	}
	return fmt.Sprintf("[%d][(%.3f,%.3f),%v,%s,%v,%d,%s,%.4f]",
		n.ID, n.DistanceCost, n.MaxSlopeCost, n.State.Coord, parent, n.Action, n.Depth, heuristic, n.Value)
}
