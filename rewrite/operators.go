package rewrite

import (
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

var operatorHandlers = map[string]handler{
	"binary": binary,
	"unary":  unary,
	"dot2":   rangeOp("irange"),
	"dot3":   rangeOp("erange"),
	"ifop":   ifop,
}

// boolean operators with their own nodes
var booleanOps = map[string]string{
	"&&": "and", "and": "and",
	"||": "or", "or": "or",
}

func binary(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	left, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	opv := c.Shift()
	op, err := name(opv)
	if err != nil {
		return nil, err
	}
	right, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	if tag, ok := booleanOps[op]; ok {
		return sexp.S(tag, left, right), nil
	}
	return sexp.S("send", left, sexp.Sym(op), right), nil
}

// unary rewrites unary operators. `!` and `not` are both sent as :!.
func unary(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	op, err := name(c.Shift())
	if err != nil {
		return nil, err
	}
	operand := c.Shift()
	x, err := p.Process(operand)
	if err != nil {
		return nil, err
	}
	if op == "not" {
		op = "!"
	}
	return atLine(sexp.S("send", x, sexp.Sym(op)), operand), nil
}

// rangeOp returns a handler for ranges. Either end may be missing.
func rangeOp(tag string) handler {
	return func(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
		ends, err := p.exprs(c.ShiftN(2))
		if err != nil {
			return nil, err
		}
		return sexp.S(tag, ends...), nil
	}
}

// ifop rewrites the ternary operator as a conditional.
func ifop(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	cond, err := p.condition(c.Shift())
	if err != nil {
		return nil, err
	}
	branches, err := p.exprs(c.ShiftN(2))
	if err != nil {
		return nil, err
	}
	return sexp.S("if", cond, branches[0], branches[1]), nil
}
