package forest

import (
	"errors"
	"fmt"
)

// Node is one decision tree node. Leaves have Feature == -1 and carry the
// class distribution observed at training time in Value.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// IsLeaf reports whether the node terminates a path.
func (n Node) IsLeaf() bool { return n.Feature < 0 }

// Tree is a binary decision tree stored as a flat node list; index 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

var errEmptyTree = errors.New("tree has no nodes")

// leaf walks x from the root and returns the reached leaf's distribution.
func (t Tree) leaf(x []float64) ([]float64, error) {
	if len(t.Nodes) == 0 {
		return nil, errEmptyTree
	}
	idx := 0
	// A valid tree never needs more steps than it has nodes.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := t.Nodes[idx]
		if node.IsLeaf() {
			return node.Value, nil
		}
		if node.Feature >= len(x) {
			return nil, fmt.Errorf("node %d: feature index %d out of range", idx, node.Feature)
		}
		next := node.Right
		if x[node.Feature] <= node.Threshold {
			next = node.Left
		}
		if next < 0 || next >= len(t.Nodes) {
			return nil, fmt.Errorf("node %d: child index %d out of range", idx, next)
		}
		idx = next
	}
	return nil, errors.New("tree contains a cycle")
}

func (t Tree) validate(nFeatures, nClasses int) error {
	if len(t.Nodes) == 0 {
		return errEmptyTree
	}
	for i, n := range t.Nodes {
		if n.IsLeaf() {
			if len(n.Value) != nClasses {
				return fmt.Errorf("leaf %d: %d class weights, want %d", i, len(n.Value), nClasses)
			}
			continue
		}
		if n.Feature >= nFeatures {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		// Children are always stored after their parent.
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}
