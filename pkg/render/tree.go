package render

import (
	"fmt"
	"iter"
)

// Node places one rendered line in the section forest.
type Node struct {
	Line Line

	// Index is the position of Line in Result.Lines.
	Index int

	// Level is the nesting depth: 0 for top-level lines, parent level + 1
	// for lines inside a region.
	Level int

	Parent   *Node
	Children []*Node

	leaf bool
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// IsLeaf reports whether n sits directly inside a region whose body holds
// no nested heading.
func (n *Node) IsLeaf() bool { return n.leaf }

// HasChildren reports whether any lines are nested under n.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

func (n *Node) add(c *Node) {
	c.Parent = n
	c.Level = n.Level + 1
	n.Children = append(n.Children, c)
}

// All yields n and its descendants in pre-order.
func (n *Node) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// Descendants returns every node below n in pre-order, excluding n.
func (n *Node) Descendants() []*Node {
	var out []*Node
	first := true
	for d := range n.All() {
		if first {
			first = false
			continue
		}
		out = append(out, d)
	}
	return out
}

// HierarchyClass returns the level classes of n: level_<n>_Parent when it
// has children, level_<n>_Child when it is not a root.
func (n *Node) HierarchyClass() string {
	parent := n.HasChildren()
	child := !n.IsRoot()
	switch {
	case parent && child:
		return fmt.Sprintf("level_%d_Parent level_%d_Child", n.Level, n.Level)
	case parent:
		return fmt.Sprintf("level_%d_Parent", n.Level)
	case child:
		return fmt.Sprintf("level_%d_Child", n.Level)
	}
	return ""
}
