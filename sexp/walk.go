package sexp

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

// TreeNode is a node of a tree walk. Its parent node is available with a
// call to Parent().
type TreeNode struct {
	Node   *Node
	parent *Node
	index  int // position within parent's children
}

// Parent returns the parent of a tree node, or nil for the root.
func (tn TreeNode) Parent() *Node {
	return tn.parent
}

// ReplaceWith replaces a node with a new node, altering the parent node (if present).
func (tn TreeNode) ReplaceWith(n *Node) TreeNode {
	if tn.parent != nil {
		tn.parent.Children[tn.index] = n
	}
	return TreeNode{Node: n, parent: tn.parent, index: tn.index}
}

func (tn TreeNode) String() string {
	if tn.Node == nil {
		return "<nil>"
	}
	return tn.Node.ListString()
}

// Flags for tree traversal, either bottom-up or top-down.
const (
	DepthFirstDir int = iota
	TopDownDir
)

// TreeSeq is a type which represents a tree walk as a sequence.
type TreeSeq struct {
	nodes []TreeNode
	pos   int
}

// Traverse creates a sequence from a tree. With DepthFirstDir the sequence
// traverses the tree in depth-first post-order, with TopDownDir in pre-order.
// Only node children are visited, atoms are skipped.
func Traverse(n *Node, dir int) *TreeSeq {
	seq := &TreeSeq{}
	if n == nil {
		return seq
	}
	if dir == TopDownDir {
		seq.nodes = topDown(n, seq.nodes)
	} else {
		seq.nodes = depthFirst(n, seq.nodes)
	}
	return seq
}

// depthFirst walks iteratively with an explicit stack; deeply nested
// expressions (long chains of binary operators) are common.
func depthFirst(root *Node, out []TreeNode) []TreeNode {
	type frame struct {
		tn   TreeNode
		next int
	}
	stack := []frame{{tn: TreeNode{Node: root}}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := top.tn.Node
		advanced := false
		for top.next < len(n.Children) {
			i := top.next
			top.next++
			if c, ok := n.Children[i].(*Node); ok && c != nil {
				stack = append(stack, frame{tn: TreeNode{Node: c, parent: n, index: i}})
				advanced = true
				break
			}
		}
		if !advanced {
			out = append(out, top.tn)
			stack = stack[:len(stack)-1]
		}
	}
	return out
}

func topDown(root *Node, out []TreeNode) []TreeNode {
	stack := []TreeNode{{Node: root}}
	for len(stack) > 0 {
		tn := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, tn)
		for i := len(tn.Node.Children) - 1; i >= 0; i-- {
			if c, ok := tn.Node.Children[i].(*Node); ok && c != nil {
				stack = append(stack, TreeNode{Node: c, parent: tn.Node, index: i})
			}
		}
	}
	return out
}

// Break stops a traversing sequence.
func (seq *TreeSeq) Break() {
	seq.pos = len(seq.nodes)
}

// Done returns true if a traversing sequence is exhausted or stopped.
func (seq *TreeSeq) Done() bool {
	return seq.pos >= len(seq.nodes)
}

// Next returns the next node of a tree traversal.
func (seq *TreeSeq) Next() TreeNode {
	if seq.Done() {
		return TreeNode{}
	}
	tn := seq.nodes[seq.pos]
	seq.pos++
	return tn
}

// A Predicate selects tree nodes.
type Predicate func(TreeNode) bool

// Where filters the remaining nodes of a sequence.
func (seq *TreeSeq) Where(pred Predicate) *TreeSeq {
	filtered := &TreeSeq{}
	for _, tn := range seq.nodes[seq.pos:] {
		if pred(tn) {
			filtered.nodes = append(filtered.nodes, tn)
		}
	}
	return filtered
}

// List returns the remaining nodes of a sequence.
func (seq *TreeSeq) List() []TreeNode {
	return append([]TreeNode(nil), seq.nodes[seq.pos:]...)
}

// HasTag is a predicate selecting nodes by tag.
func HasTag(tags ...string) Predicate {
	return func(tn TreeNode) bool {
		return tn.Node.Is(tags...)
	}
}

// Walk calls visit for every node of a tree in pre-order. If visit returns
// false, the children of the node are skipped.
func Walk(n *Node, visit func(n *Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok && cn != nil {
			Walk(cn, visit)
		}
	}
}

// Find returns all nodes with a given tag, in pre-order.
func Find(n *Node, tag string) []*Node {
	var found []*Node
	seq := Traverse(n, TopDownDir).Where(HasTag(tag))
	for !seq.Done() {
		found = append(found, seq.Next().Node)
	}
	return found
}
