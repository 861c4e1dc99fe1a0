package sexp

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"math/big"
)

// Sym is a symbol atom, e.g. a method name or a variable name.
type Sym string

// Node is a node of the canonical AST.
//
// Children are of type *Node, Sym, string, int64, *big.Int, float64,
// *big.Rat, complex128, bool, or nil.
type Node struct {
	Tag      string
	Children []interface{}
	Line     int    // source line, 0 if unknown
	Comments string // comment text preceding a commentable construct
}

// S creates a new node with a tag and children.
func S(tag string, children ...interface{}) *Node {
	n := &Node{Tag: tag}
	if len(children) > 0 {
		n.Children = make([]interface{}, 0, len(children))
		for _, c := range children {
			n.Children = append(n.Children, normalize(c))
		}
	}
	return n
}

// normalize maps convenience atom types to the canonical ones, so that
// tests may write S("int", 1) instead of S("int", int64(1)).
func normalize(c interface{}) interface{} {
	switch x := c.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case *Node:
		if x == nil {
			return nil
		}
	}
	return c
}

// WithLine sets the line of a node and returns it (for chaining).
func (n *Node) WithLine(line int) *Node {
	n.Line = line
	return n
}

// Push appends children to a node and returns it (for chaining).
func (n *Node) Push(children ...interface{}) *Node {
	for _, c := range children {
		n.Children = append(n.Children, normalize(c))
	}
	return n
}

// Is is a nil-safe predicate: does n have one of the given tags?
func (n *Node) Is(tags ...string) bool {
	if n == nil {
		return false
	}
	for _, t := range tags {
		if n.Tag == t {
			return true
		}
	}
	return false
}

// Len returns the number of children.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// Child returns the i-th child, or nil if out of range.
func (n *Node) Child(i int) interface{} {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// NodeAt returns the i-th child if it is a node, nil otherwise.
func (n *Node) NodeAt(i int) *Node {
	if c, ok := n.Child(i).(*Node); ok {
		return c
	}
	return nil
}

// SymAt returns the i-th child if it is a symbol, "" otherwise.
func (n *Node) SymAt(i int) Sym {
	if s, ok := n.Child(i).(Sym); ok {
		return s
	}
	return ""
}

// Last returns the last child, or nil.
func (n *Node) Last() interface{} {
	return n.Child(n.Len() - 1)
}

// Copy creates a shallow copy of a node, with a fresh children slice.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Children = append([]interface{}(nil), n.Children...)
	return &c
}

// Nodes returns all children which are nodes.
func (n *Node) Nodes() []*Node {
	if n == nil {
		return nil
	}
	var nodes []*Node
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok && cn != nil {
			nodes = append(nodes, cn)
		}
	}
	return nodes
}

// --- Equality --------------------------------------------------------------

// Equal compares two trees (or atoms) structurally. Line numbers and comments
// are not considered.
func Equal(a, b interface{}) bool {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case nil:
		return b == nil
	case *Node:
		y, ok := b.(*Node)
		if !ok || x.Tag != y.Tag || len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !Equal(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	case *big.Rat:
		y, ok := b.(*big.Rat)
		return ok && x.Cmp(y) == 0
	}
	return a == b
}
