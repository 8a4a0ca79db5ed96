package search

import "github.com/natevvv/terrain-routing/pkg/slice"

// Tree is the arena of all nodes created during one search. Node ids are the
// indices into the arena: the root has id 0, children get 1, 2, ... in
// creation order.
type Tree struct {
	strategy Strategy
	nodes    []*Node
}

// NewTree creates a tree holding only the root for the given state.
func NewTree(strategy Strategy, root State) *Tree {
	t := &Tree{strategy: strategy}
	t.add(&Node{Parent: -1, State: root, Action: NoAction})
	return t
}

func (t *Tree) add(n *Node) *Node {
	n.ID = len(t.nodes)
	n.Value = t.strategy.Value(n)
	t.nodes = append(t.nodes, n)
	return n
}

func (t *Tree) Strategy() Strategy { return t.strategy }
func (t *Tree) Root() *Node        { return t.nodes[0] }
func (t *Tree) Node(id int) *Node  { return t.nodes[id] }
func (t *Tree) Len() int           { return len(t.nodes) }

// Expand creates the child reached from parent by the transition.
func (t *Tree) Expand(parent *Node, tr Transition) *Node {
	return t.add(&Node{
		Parent:       parent.ID,
		State:        tr.State,
		Action:       tr.Action,
		DistanceCost: parent.DistanceCost + tr.Distance,
		MaxSlopeCost: max(parent.MaxSlopeCost, tr.Slope),
		Depth:        parent.Depth + 1,
	})
}

// Path returns the nodes from the root to the node with the given id.
func (t *Tree) Path(id int) []*Node {
	path := make([]*Node, 0, t.nodes[id].Depth+1)
	for current := id; current != -1; current = t.nodes[current].Parent {
		path = append(path, t.nodes[current])
	}
	slice.ReverseInPlace(path)
	return path
}
