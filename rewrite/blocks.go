package rewrite

import (
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

var blockHandlers = map[string]handler{
	"method_add_block": methodAddBlock,
	"brace_block":      orphanBlock,
	"do_block":         orphanBlock,
	"lambda":           lambda,
	"block_var":        blockVar,
	"bodystmt":         bodystmt,
	"begin":            begin,
	"rescue_mod":       rescueMod,
	"ensure":           elseClause,
}

// methodAddBlock attaches a block to a call. A block without declared
// parameters using numbered parameters (_1 … _9) becomes a numblock.
func methodAddBlock(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	callee, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	blk, ok := c.Shift().(*raw.Node)
	if !ok || !raw.Is(blk, "brace_block", "do_block") {
		return nil, unexpected("method_add_block", blk)
	}
	bc := raw.NewCursor(blk)
	params := bc.Shift()
	body, err := p.blockBody(bc.Shift())
	if err != nil {
		return nil, err
	}
	if raw.IsNil(params) && p.numbered {
		if n := maxNumberedParam(body); n > 0 {
			return sexp.S("numblock", callee, int64(n), body), nil
		}
	}
	args, err := p.blockArgs(params)
	if err != nil {
		return nil, err
	}
	return sexp.S("block", callee, args, body), nil
}

// blockBody rewrites a block or lambda body, which is a statement list for
// braces and a bodystmt for do … end.
func (p *Processor) blockBody(v raw.Value) (*sexp.Node, error) {
	if raw.Is(v, "bodystmt") {
		return p.Process(v)
	}
	return p.stmts(v)
}

// orphanBlock covers blocks found outside of method_add_block, which the
// grammar does not produce for well-formed input.
func orphanBlock(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	c.Shift()
	return p.blockBody(c.Shift())
}

// maxNumberedParam returns the highest numbered parameter referenced in a
// block body, or 0.
func maxNumberedParam(body *sexp.Node) int {
	highest := 0
	sexp.Walk(body, func(n *sexp.Node) bool {
		if n.Is("lvar") {
			if s := string(n.SymAt(0)); len(s) == 2 && s[0] == '_' && s[1] >= '1' && s[1] <= '9' {
				if k := int(s[1] - '0'); k > highest {
					highest = k
				}
			}
		}
		return true
	})
	return highest
}

// blockArgs rewrites the parameters of a block. Missing parameters give an
// empty argument list.
func (p *Processor) blockArgs(v raw.Value) (*sexp.Node, error) {
	if raw.IsNil(v) {
		return sexp.S("args"), nil
	}
	return p.Process(v)
}

// blockVar rewrites |params; locals|. A single destructuring parameter
// becomes procarg0.
func blockVar(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	params := c.Shift()
	var args *sexp.Node
	var err error
	if raw.IsNil(params) {
		args = sexp.S("args")
	} else if args, err = p.params(params, false); err != nil {
		return nil, err
	}
	if args.Len() == 1 && args.NodeAt(0).Is("mlhs") && !hasExcessedComma(params) {
		mlhs := args.NodeAt(0)
		args.Children[0] = sexp.S("procarg0", mlhs.Children...).WithLine(mlhs.Line)
	}
	for _, local := range list(c.Shift()) {
		nm, err := name(local)
		if err != nil {
			return nil, err
		}
		args.Push(atLine(sexp.S("shadow", sexp.Sym(nm)), local))
	}
	return args, nil
}

func hasExcessedComma(params raw.Value) bool {
	n, ok := params.(*raw.Node)
	return ok && raw.Is(n.Arg(2), "excessed_comma")
}

// lambda rewrites `->(params) { body }` as a block on a lambda call.
func lambda(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	params := c.Shift()
	var args *sexp.Node
	var err error
	if raw.Is(params, "paren") {
		params = params.(*raw.Node).Arg(0)
	}
	if raw.IsNil(params) {
		args = sexp.S("args")
	} else if args, err = p.params(params, false); err != nil {
		return nil, err
	}
	body, err := p.blockBody(c.Shift())
	if err != nil {
		return nil, err
	}
	if args.Len() == 0 && p.numbered {
		if n := maxNumberedParam(body); n > 0 {
			return sexp.S("numblock", sexp.S("lambda"), int64(n), body), nil
		}
	}
	return sexp.S("block", sexp.S("lambda"), args, body), nil
}

// --- Bodies with rescue and ensure -----------------------------------------

// bodystmt rewrites a body with optional rescue, else and ensure clauses:
//
//	ensure(rescue(body, resbody(…)…, else), ensure_body)
func bodystmt(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	parts := c.ShiftN(4)
	body, err := p.stmts(parts[0])
	if err != nil {
		return nil, err
	}
	els, err := p.Process(parts[2])
	if err != nil {
		return nil, err
	}
	if !raw.IsNil(parts[1]) {
		n := sexp.S("rescue", body)
		for clause := parts[1]; raw.Is(clause, "rescue"); {
			rc := raw.NewCursor(clause.(*raw.Node))
			resbody, err := p.resbody(rc)
			if err != nil {
				return nil, err
			}
			n.Push(atLine(resbody, clause))
			clause = rc.Shift()
		}
		body = n.Push(els)
	} else if els != nil {
		body = wrapStmts(append(unwrapStmts(body), unwrapStmts(els)...))
	}
	if !raw.IsNil(parts[3]) {
		ens, err := p.Process(parts[3])
		if err != nil {
			return nil, err
		}
		body = sexp.S("ensure", body, ens)
	}
	return body, nil
}

// resbody rewrites one rescue clause. The exception classes always form an
// array, the exception variable is an assignment target.
func (p *Processor) resbody(c *raw.Cursor) (*sexp.Node, error) {
	exc := c.Shift()
	var classes *sexp.Node
	switch {
	case raw.IsNil(exc):
		classes = sexp.S("array")
	case raw.Is(exc, "mrhs_new_from_args", "mrhs_add_star"):
		var err error
		if classes, err = p.Process(exc); err != nil {
			return nil, err
		}
	default:
		vals, err := p.callArgs(exc)
		if err != nil {
			return nil, err
		}
		classes = sexp.S("array", vals...)
	}
	var v *sexp.Node
	if tv := c.Shift(); !raw.IsNil(tv) {
		var err error
		if v, err = p.target(tv); err != nil {
			return nil, err
		}
	}
	body, err := p.stmts(c.Shift())
	if err != nil {
		return nil, err
	}
	return sexp.S("resbody", classes, v, body), nil
}

func begin(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.Process(c.Shift())
}

// rescueMod rewrites `expr rescue fallback`.
func rescueMod(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	vals, err := p.exprs(c.ShiftN(2))
	if err != nil {
		return nil, err
	}
	return sexp.S("rescue", vals[0], sexp.S("resbody", sexp.S("array"), nil, vals[1]), nil), nil
}
