package sexp

import (
	"github.com/cnf/structhash"
)

// shape is the hashable structure of a tree. Lines and comments are not
// part of it, so trees which are Equal have equal digests.
type shape struct {
	Tag      string  `hash:"name:t"`
	Atom     string  `hash:"name:a"`
	Children []shape `hash:"name:c"`
}

func shapeOf(c interface{}) shape {
	n, ok := c.(*Node)
	if !ok || n == nil {
		return shape{Atom: AtomString(c)}
	}
	s := shape{Tag: n.Tag}
	for _, ch := range n.Children {
		s.Children = append(s.Children, shapeOf(ch))
	}
	return s
}

// Digest returns a hash value for the structure of a tree. It is used to
// compare large trees cheaply and to detect duplicates in test corpora.
func Digest(n *Node) (string, error) {
	return structhash.Hash(shapeOf(n), 1)
}
