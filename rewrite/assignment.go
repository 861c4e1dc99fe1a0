package rewrite

import (
	"strings"

	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

var assignmentHandlers = map[string]handler{
	"assign":             assign,
	"massign":            massign,
	"opassign":           opassign,
	"mrhs_new_from_args": mrhs,
	"mrhs_add_star":      mrhs,
	"mlhs":               mlhs,
	"var_field":          targetHandler,
	"field":              targetHandler,
	"aref_field":         targetHandler,
	"const_path_field":   targetHandler,
	"top_const_field":    targetHandler,
	"rest_param":         targetHandler,
}

// assign rewrites single assignment. The target is rewritten to a
// value-less assignment node, then the value is appended.
func assign(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	lhs := c.Shift()
	target, err := p.target(lhs)
	if err != nil {
		return nil, err
	}
	value, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	return atLine(target.Push(value), lhs), nil
}

// targetHandler rewrites targets occurring outside of assignments, e.g. in
// `for` loops or rescue clauses.
func targetHandler(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.target(raw.NewNode(c.Tag(), c.Rest()...))
}

// target rewrites an assignment target to a value-less assignment node.
func (p *Processor) target(v raw.Value) (*sexp.Node, error) {
	switch x := v.(type) {
	case *raw.Token:
		return p.variableTarget(x)
	case raw.List:
		return p.mlhs(x)
	case *raw.Node:
		c := raw.NewCursor(x)
		switch x.Tag {
		case "var_field", "var_ref":
			tok, _ := c.Shift().(*raw.Token)
			if tok == nil {
				return nil, nil // anonymous splat target
			}
			return p.variableTarget(tok)
		case "mlhs":
			return p.mlhs(x.Args)
		case "rest_param":
			star := c.Shift()
			if raw.IsNil(star) {
				return sexp.S("splat"), nil
			}
			inner, err := p.target(star)
			if err != nil {
				return nil, err
			}
			if inner == nil {
				return sexp.S("splat"), nil
			}
			return sexp.S("splat", inner), nil
		case "const_path_field":
			scope, err := p.Process(c.Shift())
			if err != nil {
				return nil, err
			}
			tok := c.Shift()
			nm, err := name(tok)
			if err != nil {
				return nil, err
			}
			return atLine(sexp.S("casgn", scope, sexp.Sym(nm)), tok), nil
		case "top_const_field":
			tok := c.Shift()
			nm, err := name(tok)
			if err != nil {
				return nil, err
			}
			return atLine(sexp.S("casgn", sexp.S("cbase"), sexp.Sym(nm)), tok), nil
		case "aref_field":
			recv, err := p.Process(c.Shift())
			if err != nil {
				return nil, err
			}
			idx, err := p.callArgs(c.Shift())
			if err != nil {
				return nil, err
			}
			return sexp.S("indexasgn", append([]interface{}{recv}, idx...)...), nil
		case "field":
			recv, err := p.Process(c.Shift())
			if err != nil {
				return nil, err
			}
			tag := callTag(c.Shift())
			tok := c.Shift()
			nm, err := name(tok)
			if err != nil {
				return nil, err
			}
			return atLine(sexp.S(tag, recv, sexp.Sym(nm+"=")), tok), nil
		}
	}
	return nil, unexpected("assignment target", v)
}

// variableTarget maps a variable token to its assignment node by kind.
func (p *Processor) variableTarget(tok *raw.Token) (*sexp.Node, error) {
	nm := sexp.Sym(tok.Text)
	var n *sexp.Node
	switch tok.Kind {
	case "ident":
		n = sexp.S("lvasgn", nm)
	case "ivar":
		n = sexp.S("ivasgn", nm)
	case "gvar":
		n = sexp.S("gasgn", nm)
	case "cvar":
		if p.scopes.InMethod() {
			n = sexp.S("cvasgn", nm)
		} else {
			n = sexp.S("cvdecl", nm)
		}
	case "const":
		n = sexp.S("casgn", nil, nm)
	case "label": // pattern or keyword argument name
		n = sexp.S("lvasgn", sexp.Sym(strings.TrimSuffix(tok.Text, ":")))
	case "kw", "backref":
		return nil, syntaxAt(tok, "Can't set variable %s", tok.Text)
	default:
		return nil, unexpected("assignment target", tok)
	}
	return n.WithLine(tok.Pos.Line), nil
}

func mlhs(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.mlhs(c.Rest())
}

// mlhs rewrites the left-hand side of a multiple assignment.
func (p *Processor) mlhs(targets []raw.Value) (*sexp.Node, error) {
	n := sexp.S("mlhs")
	for _, t := range targets {
		if raw.Is(t, "excessed_comma") {
			continue
		}
		tn, err := p.target(t)
		if err != nil {
			return nil, err
		}
		n.Push(tn)
	}
	return atLine(n, raw.List(targets)), nil
}

// massign rewrites multiple assignment. Several values on the right-hand
// side become an array, a single value is kept as is.
func massign(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	lhs := c.Shift()
	targets, err := p.target(lhs)
	if err != nil {
		return nil, err
	}
	if !targets.Is("mlhs") {
		targets = sexp.S("mlhs", targets)
	}
	rhs := c.Shift()
	var value *sexp.Node
	if n, ok := rhs.(*raw.Node); ok && n.Tag == "mrhs_add_star" && len(n.Args) == 2 && len(list(n.Args[0])) == 0 {
		star, err := p.Process(n.Args[1])
		if err != nil {
			return nil, err
		}
		value = sexp.S("splat", star)
	} else if value, err = p.Process(rhs); err != nil {
		return nil, err
	}
	return atLine(sexp.S("masgn", targets, value), lhs), nil
}

// mrhs rewrites multiple values on the right-hand side of an assignment.
func mrhs(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	arr := sexp.S("array")
	if c.Tag() == "mrhs_add_star" {
		pre, err := p.mrhsValues(c.Shift())
		if err != nil {
			return nil, err
		}
		star, err := p.Process(c.Shift())
		if err != nil {
			return nil, err
		}
		arr.Push(pre...).Push(sexp.S("splat", star))
	}
	for c.Len() > 0 {
		args, err := p.callArgs(c.Shift())
		if err != nil {
			return nil, err
		}
		arr.Push(args...)
	}
	return arr, nil
}

// mrhsValues rewrites the values preceding a splat on the right-hand side.
func (p *Processor) mrhsValues(v raw.Value) ([]interface{}, error) {
	if !raw.Is(v, "mrhs_new_from_args") {
		return p.callArgs(v)
	}
	arr, err := p.Process(v)
	if err != nil {
		return nil, err
	}
	return arr.Children, nil
}

// opassign rewrites operator assignment. `||=` and `&&=` have their own
// nodes. Other operators on variables desugar to an assignment of a send,
// on index, attribute or scoped constant targets they become op_asgn.
func opassign(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	lhs := c.Shift()
	target, err := p.target(lhs)
	if err != nil {
		return nil, err
	}
	opTok := c.Shift()
	op, err := name(opTok)
	if err != nil {
		return nil, err
	}
	op = strings.TrimSuffix(op, "=")
	value, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	var n *sexp.Node
	switch {
	case op == "||":
		n = sexp.S("or_asgn", target, value)
	case op == "&&":
		n = sexp.S("and_asgn", target, value)
	case readerOf(target) != nil:
		send := sexp.S("send", readerOf(target), sexp.Sym(op), value)
		n = target.Push(send)
	default:
		n = sexp.S("op_asgn", target, sexp.Sym(op), value)
	}
	return atLine(n, lhs), nil
}

// readerOf returns the read node for a simple variable assignment target,
// or nil for targets without one.
func readerOf(target *sexp.Node) *sexp.Node {
	var tag string
	switch target.Tag {
	case "lvasgn":
		tag = "lvar"
	case "ivasgn":
		tag = "ivar"
	case "gasgn":
		tag = "gvar"
	case "cvasgn", "cvdecl":
		tag = "cvar"
	case "casgn":
		if target.Children[0] != nil {
			return nil
		}
		return sexp.S("const", target.Children[1]).WithLine(target.Line)
	default:
		return nil
	}
	return sexp.S(tag, target.Children[0]).WithLine(target.Line)
}
