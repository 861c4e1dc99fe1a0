package rewrite

import (
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

var conditionalHandlers = map[string]handler{
	"if":         conditional(false),
	"elsif":      conditional(false),
	"unless":     conditional(true),
	"if_mod":     modifier(false),
	"unless_mod": modifier(true),
	"else":       elseClause,
	"case":       caseStmt,
}

// condition rewrites the condition of a conditional or loop. A regexp
// literal matches against the last line read, a range is a flip-flop.
func (p *Processor) condition(v raw.Value) (*sexp.Node, error) {
	n, err := p.Process(v)
	if err != nil {
		return nil, err
	}
	return cond(n), nil
}

func cond(n *sexp.Node) *sexp.Node {
	switch {
	case n.Is("regexp"):
		return sexp.S("match_current_line", n).WithLine(n.Line)
	case n.Is("irange"):
		n.Tag = "iflipflop"
	case n.Is("erange"):
		n.Tag = "eflipflop"
	case n.Is("and", "or"):
		n.Children[0] = cond(n.NodeAt(0))
		n.Children[1] = cond(n.NodeAt(1))
	case n.Is("send") && n.Len() == 2 && n.SymAt(1) == "!":
		n.Children[0] = cond(n.NodeAt(0))
	case n.Is("begin") && n.Len() == 1:
		n.Children[0] = cond(n.NodeAt(0))
	}
	return n
}

// conditional returns the handler for if, elsif and unless. Unless swaps
// the branches.
func conditional(negated bool) handler {
	return func(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
		test, err := p.condition(c.Shift())
		if err != nil {
			return nil, err
		}
		then, err := p.stmts(c.Shift())
		if err != nil {
			return nil, err
		}
		els, err := p.Process(c.Shift())
		if err != nil {
			return nil, err
		}
		if negated {
			then, els = els, then
		}
		return sexp.S("if", test, then, els), nil
	}
}

// modifier returns the handler for `stmt if cond` and `stmt unless cond`.
func modifier(negated bool) handler {
	return func(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
		test, err := p.condition(c.Shift())
		if err != nil {
			return nil, err
		}
		stmt, err := p.Process(c.Shift())
		if err != nil {
			return nil, err
		}
		if negated {
			return sexp.S("if", test, nil, stmt), nil
		}
		return sexp.S("if", test, stmt, nil), nil
	}
}

func elseClause(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.stmts(c.Shift())
}

// caseStmt rewrites case/when. Clauses with `in` are pattern matches.
func caseStmt(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	subject, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	clause := c.Shift()
	if raw.Is(clause, "in", "rassign") {
		return p.patternMatch(subject, clause.(*raw.Node))
	}
	n := sexp.S("case", subject)
	for raw.Is(clause, "when") {
		wc := raw.NewCursor(clause.(*raw.Node))
		values, err := p.callArgs(wc.Shift())
		if err != nil {
			return nil, err
		}
		body, err := p.stmts(wc.Shift())
		if err != nil {
			return nil, err
		}
		n.Push(atLine(sexp.S("when", values...).Push(body), clause))
		clause = wc.Shift()
	}
	els, err := p.Process(clause)
	if err != nil {
		return nil, err
	}
	return n.Push(els), nil
}
