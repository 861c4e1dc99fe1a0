package rewrite

import (
	"strings"

	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

var patternHandlers = map[string]handler{
	"aryptn": patternHandler,
	"fndptn": patternHandler,
	"hshptn": patternHandler,
}

// patternHandler rewrites patterns found outside of a pattern match.
func patternHandler(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.pattern(raw.NewNode(c.Tag(), c.Rest()...))
}

// patternMatch rewrites `case … in`, `expr => pattern` and `expr in pattern`.
// The latter two arrive as a case with a single clause without body.
func (p *Processor) patternMatch(subject *sexp.Node, clause *raw.Node) (*sexp.Node, error) {
	if clause.Tag == "rassign" || (raw.IsNil(clause.Arg(1)) && raw.IsNil(clause.Arg(2))) {
		pat, err := p.pattern(clause.Arg(0))
		if err != nil {
			return nil, err
		}
		if clause.Tag == "rassign" {
			return sexp.S("match_pattern", subject, pat), nil
		}
		return sexp.S("match_pattern_p", subject, pat), nil
	}
	n := sexp.S("case_match", subject)
	var next raw.Value = clause
	for raw.Is(next, "in") {
		ic := raw.NewCursor(next.(*raw.Node))
		pat, guard, err := p.guardedPattern(ic.Shift())
		if err != nil {
			return nil, err
		}
		body, err := p.stmts(ic.Shift())
		if err != nil {
			return nil, err
		}
		n.Push(atLine(sexp.S("in_pattern", pat, guard, body), next))
		next = ic.Shift()
	}
	els, err := p.Process(next)
	if err != nil {
		return nil, err
	}
	return n.Push(els), nil
}

// guardedPattern splits `pattern if cond` into pattern and guard.
func (p *Processor) guardedPattern(v raw.Value) (*sexp.Node, *sexp.Node, error) {
	if !raw.Is(v, "if_mod", "unless_mod") {
		pat, err := p.pattern(v)
		return pat, nil, err
	}
	n := v.(*raw.Node)
	test, err := p.Process(n.Arg(0))
	if err != nil {
		return nil, nil, err
	}
	pat, err := p.pattern(n.Arg(1))
	if err != nil {
		return nil, nil, err
	}
	guard := "if_guard"
	if n.Tag == "unless_mod" {
		guard = "unless_guard"
	}
	return pat, sexp.S(guard, test), nil
}

// pattern rewrites a pattern. Values which are not patterns of their own
// (literals, ranges, constants) are rewritten as expressions.
func (p *Processor) pattern(v raw.Value) (*sexp.Node, error) {
	n, ok := v.(*raw.Node)
	if !ok || n == nil {
		return p.Process(v)
	}
	c := raw.NewCursor(n)
	switch n.Tag {
	case "var_field":
		return matchVar(c.Shift())
	case "var_ref":
		tok, _ := c.Peek().(*raw.Token)
		if tok != nil && (tok.Kind == "ident" || tok.Kind == "ivar" || tok.Kind == "gvar" || tok.Kind == "cvar") {
			x, err := p.Process(tok)
			if err != nil {
				return nil, err
			}
			return sexp.S("pin", x), nil
		}
	case "begin":
		x, err := p.stmts(c.Shift())
		if err != nil {
			return nil, err
		}
		return sexp.S("pin", sexp.S("begin", x)), nil
	case "binary":
		left, err := p.pattern(c.Shift())
		if err != nil {
			return nil, err
		}
		op, err := name(c.Shift())
		if err != nil {
			return nil, err
		}
		right, err := p.pattern(c.Shift())
		if err != nil {
			return nil, err
		}
		switch op {
		case "|":
			return sexp.S("match_alt", left, right), nil
		case "=>":
			return sexp.S("match_as", left, right), nil
		}
		return nil, unexpected("pattern", n)
	case "aryptn":
		return p.arrayPattern(c)
	case "fndptn":
		return p.findPattern(c)
	case "hshptn":
		return p.hashPattern(c)
	}
	return p.Process(v)
}

// matchVar binds a pattern variable.
func matchVar(v raw.Value) (*sexp.Node, error) {
	nm, err := name(v)
	if err != nil {
		return nil, err
	}
	return atLine(sexp.S("match_var", sexp.Sym(strings.TrimSuffix(nm, ":"))), v), nil
}

// matchRest rewrites a rest pattern, which may be anonymous.
func matchRest(v raw.Value) (*sexp.Node, error) {
	if raw.Is(v, "var_field") {
		v = v.(*raw.Node).Arg(0)
	}
	if raw.IsNil(v) {
		return sexp.S("match_rest"), nil
	}
	mv, err := matchVar(v)
	if err != nil {
		return nil, err
	}
	return sexp.S("match_rest", mv), nil
}

// withConst wraps a pattern in const_pattern if a constant is given.
func (p *Processor) withConst(cv raw.Value, pat *sexp.Node) (*sexp.Node, error) {
	if raw.IsNil(cv) {
		return pat, nil
	}
	k, err := p.Process(cv)
	if err != nil {
		return nil, err
	}
	return sexp.S("const_pattern", k, pat), nil
}

func (p *Processor) patterns(n *sexp.Node, vals []raw.Value) error {
	for _, v := range vals {
		pat, err := p.pattern(v)
		if err != nil {
			return err
		}
		n.Push(pat)
	}
	return nil
}

// arrayPattern rewrites Const(pre, *rest, post).
func (p *Processor) arrayPattern(c *raw.Cursor) (*sexp.Node, error) {
	k, pre, rest, post := c.Shift(), c.Shift(), c.Shift(), c.Shift()
	n := sexp.S("array_pattern")
	if err := p.patterns(n, list(pre)); err != nil {
		return nil, err
	}
	if rest != nil {
		r, err := matchRest(rest)
		if err != nil {
			return nil, err
		}
		n.Push(r)
	}
	if err := p.patterns(n, list(post)); err != nil {
		return nil, err
	}
	return p.withConst(k, n)
}

// findPattern rewrites Const(*pre, values..., *post).
func (p *Processor) findPattern(c *raw.Cursor) (*sexp.Node, error) {
	k, pre, vals, post := c.Shift(), c.Shift(), c.Shift(), c.Shift()
	n := sexp.S("find_pattern")
	r, err := matchRest(pre)
	if err != nil {
		return nil, err
	}
	n.Push(r)
	if err := p.patterns(n, list(vals)); err != nil {
		return nil, err
	}
	if r, err = matchRest(post); err != nil {
		return nil, err
	}
	return p.withConst(k, n.Push(r))
}

// hashPattern rewrites Const(k: pattern, k:, **rest). A key without pattern
// binds a variable of this name, `**nil` forbids other keys.
func (p *Processor) hashPattern(c *raw.Cursor) (*sexp.Node, error) {
	k, pairs, rest := c.Shift(), c.Shift(), c.Shift()
	n := sexp.S("hash_pattern")
	for _, pv := range list(pairs) {
		pair := list(pv)
		if len(pair) == 0 {
			return nil, unexpected("hash pattern", pv)
		}
		key, err := p.Process(pair[0])
		if err != nil {
			return nil, err
		}
		if len(pair) < 2 || raw.IsNil(pair[1]) {
			if !key.Is("sym") {
				return nil, unexpected("hash pattern key", pair[0])
			}
			n.Push(sexp.S("match_var", key.Child(0)).WithLine(key.Line))
			continue
		}
		pat, err := p.pattern(pair[1])
		if err != nil {
			return nil, err
		}
		n.Push(sexp.S("pair", key, pat))
	}
	switch {
	case rest == nil:
	case rest == raw.Sym("nil"), raw.Is(rest, "@kw"):
		n.Push(sexp.S("match_nil_pattern"))
	default:
		r, err := matchRest(rest)
		if err != nil {
			return nil, err
		}
		n.Push(r)
	}
	return p.withConst(k, n)
}
