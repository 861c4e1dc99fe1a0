package sexp

// PropagateLines fills in missing line numbers of a tree: first every node
// without a line takes the line of its first child which has one (bottom-up),
// then every node still without a line takes its parent's line (top-down).
func PropagateLines(n *Node) *Node {
	TrickleUp(n)
	TrickleDown(n)
	return n
}

// TrickleUp assigns a node without a line the line of its first child node
// having one. Children are processed before their parents.
func TrickleUp(n *Node) {
	seq := Traverse(n, DepthFirstDir)
	for !seq.Done() {
		node := seq.Next().Node
		if node.Line != 0 {
			continue
		}
		for _, c := range node.Nodes() {
			if c.Line != 0 {
				node.Line = c.Line
				break
			}
		}
	}
}

// TrickleDown assigns a node without a line the line of its parent.
// Parents are processed before their children.
func TrickleDown(n *Node) {
	seq := Traverse(n, TopDownDir)
	for !seq.Done() {
		tn := seq.Next()
		if tn.Node.Line == 0 && tn.Parent() != nil {
			tn.Node.Line = tn.Parent().Line
		}
	}
}
