package main

import (
	"fmt"
	"io"

	"github.com/mvz/ripper-parser-sub000/sexp"
	"github.com/pterm/pterm"
)

// render writes an AST in one of the output formats. A nil AST stands for
// an empty program.
func render(w io.Writer, ast *sexp.Node, format string) error {
	if ast == nil {
		_, err := fmt.Fprintln(w, "nil")
		return err
	}
	switch format {
	case formatLines:
		_, err := io.WriteString(w, ast.IndentedString())
		return err
	case formatTree:
		// pterm prints to stdout
		root := pterm.NewTreeFromLeveledList(leveled(ast, pterm.LeveledList{}, 0))
		pterm.DefaultTree.WithRoot(root).Render()
		return nil
	case formatDigest:
		d, err := sexp.Digest(ast)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, d)
		return err
	}
	_, err := fmt.Fprintln(w, ast.ListString())
	return err
}

// leveled flattens a tree for pterm's tree printer: a node is labelled
// with its tag and line, its children follow one level deeper.
func leveled(n *sexp.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	if n == nil {
		return append(ll, pterm.LeveledListItem{Level: level, Text: "nil"})
	}
	label := n.Tag
	if n.Line > 0 {
		label = fmt.Sprintf("%s @%d", n.Tag, n.Line)
	}
	ll = append(ll, pterm.LeveledListItem{Level: level, Text: label})
	for _, c := range n.Children {
		if cn, ok := c.(*sexp.Node); ok {
			ll = leveled(cn, ll, level+1)
			continue
		}
		ll = append(ll, pterm.LeveledListItem{Level: level + 1, Text: sexp.AtomString(c)})
	}
	return ll
}
