package rewrite

import (
	"strings"

	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

var methodHandlers = map[string]handler{
	"def":       def,
	"defs":      defs,
	"class":     class,
	"module":    module,
	"sclass":    sclass,
	"comment":   comment,
	"params":    paramsHandler,
	"alias":     alias,
	"var_alias": varAlias,
	"undef":     undef,
	"BEGIN":     hook("preexe"),
	"END":       hook("postexe"),
}

// def rewrites method definitions. The method body is a scope of its own,
// which is left when the definition is done, even on error.
func def(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	nameTok := c.Shift()
	nm, err := name(nameTok)
	if err != nil {
		return nil, err
	}
	p.scopes.PushNewScope(nm, MethodScope)
	defer p.scopes.PopScope()
	args, err := p.params(c.Shift(), true)
	if err != nil {
		return nil, err
	}
	body, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	n := sexp.S("defn", sexp.Sym(nm), args).Push(methodBody(body)...)
	return atLine(n, nameTok), nil
}

// defs rewrites singleton method definitions: `def self.m`, `def (expr).m`.
func defs(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	recv, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	c.Shift() // . or ::
	nameTok := c.Shift()
	nm, err := name(nameTok)
	if err != nil {
		return nil, err
	}
	p.scopes.PushNewScope(nm, MethodScope)
	defer p.scopes.PopScope()
	args, err := p.params(c.Shift(), true)
	if err != nil {
		return nil, err
	}
	body, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	n := sexp.S("defs", recv, sexp.Sym(nm), args).Push(methodBody(body)...)
	return atLine(n, nameTok), nil
}

// methodBody flattens a method body. An empty body is nil.
func methodBody(body *sexp.Node) []interface{} {
	if body == nil {
		return []interface{}{sexp.S("nil")}
	}
	return unwrapStmts(body)
}

func class(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	cpath := c.Shift()
	nm, err := p.Process(cpath)
	if err != nil {
		return nil, err
	}
	super, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	body, err := p.classBody(nm, c.Shift())
	if err != nil {
		return nil, err
	}
	return atLine(sexp.S("class", nm, super).Push(body...), cpath), nil
}

func module(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	cpath := c.Shift()
	nm, err := p.Process(cpath)
	if err != nil {
		return nil, err
	}
	body, err := p.classBody(nm, c.Shift())
	if err != nil {
		return nil, err
	}
	return atLine(sexp.S("module", nm).Push(body...), cpath), nil
}

// sclass rewrites `class << target`.
func sclass(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	target, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	body, err := p.classBody(target, c.Shift())
	if err != nil {
		return nil, err
	}
	return sexp.S("sclass", target).Push(body...), nil
}

// classBody rewrites the body of a class, module or singleton class within
// a class scope.
func (p *Processor) classBody(nm *sexp.Node, v raw.Value) ([]interface{}, error) {
	p.scopes.PushNewScope(nm.String(), ClassScope)
	defer p.scopes.PopScope()
	body, err := p.Process(v)
	if err != nil {
		return nil, err
	}
	return unwrapStmts(body), nil
}

// comment attaches the comments preceding a class, module, method or
// BEGIN/END block to its node. The node starts at the keyword.
func comment(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	text, _ := c.Shift().(raw.Text)
	n, err := p.Process(c.Shift())
	if err != nil || n == nil {
		return n, err
	}
	if text != "" {
		n.Comments = string(text)
	}
	if kw, ok := c.Shift().(*raw.Token); ok && kw != nil && kw.Pos.Line != 0 {
		n.Line = kw.Pos.Line
	}
	return n, nil
}

func alias(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	names, err := p.exprs(c.ShiftN(2))
	if err != nil {
		return nil, err
	}
	return sexp.S("alias", names...), nil
}

// varAlias rewrites aliasing of global variables.
func varAlias(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	n := sexp.S("valias")
	for _, v := range c.ShiftN(2) {
		nm, err := name(v)
		if err != nil {
			return nil, err
		}
		n.Push(sexp.Sym(nm))
	}
	return n, nil
}

func undef(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	names, err := p.exprs(list(c.Shift()))
	if err != nil {
		return nil, err
	}
	return sexp.S("undef", names...), nil
}

// hook returns the handler for BEGIN and END blocks.
func hook(tag string) handler {
	return func(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
		body, err := p.stmts(c.Shift())
		if err != nil {
			return nil, err
		}
		return sexp.S(tag, body), nil
	}
}

// --- Parameters ------------------------------------------------------------

func paramsHandler(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.params(raw.NewNode("params", c.Rest()...), false)
}

// params rewrites a parameter list to args. The parameters are, in order:
// required, optional, rest, post-required, keyword, keyword rest, block.
// For method parameters, the keyword rest parameter is recorded in the
// current scope.
func (p *Processor) params(v raw.Value, method bool) (*sexp.Node, error) {
	if raw.Is(v, "paren") {
		v = v.(*raw.Node).Arg(0)
	}
	args := sexp.S("args")
	pn, ok := v.(*raw.Node)
	if !ok || pn == nil {
		if raw.IsNil(v) {
			return args, nil
		}
		return nil, unexpected("parameters", v)
	}
	c := raw.NewCursor(pn)
	req, opt, rest, post, kw, kwrest, blk := c.Shift(), c.Shift(), c.Shift(), c.Shift(), c.Shift(), c.Shift(), c.Shift()
	if err := p.requiredParams(args, req); err != nil {
		return nil, err
	}
	for _, o := range list(opt) {
		pair := list(o)
		if len(pair) != 2 {
			return nil, unexpected("optional parameter", o)
		}
		nm, err := name(pair[0])
		if err != nil {
			return nil, err
		}
		dflt, err := p.Process(pair[1])
		if err != nil {
			return nil, err
		}
		args.Push(atLine(sexp.S("lvasgn", sexp.Sym(nm), dflt), pair[0]))
	}
	switch {
	case raw.Is(rest, "args_forward"):
		args.Push(sexp.S("forward_args"))
	case raw.Is(rest, "rest_param"):
		nm, err := optionalName(rest.(*raw.Node).Arg(0))
		if err != nil {
			return nil, err
		}
		args.Push(sexp.Sym("*" + nm))
	case raw.IsNil(rest), raw.Is(rest, "excessed_comma"):
	default:
		return nil, unexpected("rest parameter", rest)
	}
	if err := p.requiredParams(args, post); err != nil {
		return nil, err
	}
	for _, k := range list(kw) {
		pair := list(k)
		if len(pair) == 0 {
			return nil, unexpected("keyword parameter", k)
		}
		nm, err := name(pair[0])
		if err != nil {
			return nil, err
		}
		kwarg := atLine(sexp.S("kwarg", sexp.Sym(strings.TrimSuffix(nm, ":"))), pair[0])
		if len(pair) > 1 && !raw.IsNil(pair[1]) {
			dflt, err := p.Process(pair[1])
			if err != nil {
				return nil, err
			}
			kwarg.Push(dflt)
		}
		args.Push(kwarg)
	}
	switch {
	case raw.Is(kwrest, "kwrest_param"):
		nm, err := optionalName(kwrest.(*raw.Node).Arg(0))
		if err != nil {
			return nil, err
		}
		if method && nm != "" {
			p.scopes.Current().DefineTag(nm, KwrestParam)
		}
		args.Push(sexp.Sym("**" + nm))
	case raw.Is(kwrest, "nokw_param"), kwrest == raw.Sym("nil"):
		args.Push(sexp.Sym("**nil"))
	case raw.IsNil(kwrest):
	default:
		return nil, unexpected("keyword rest parameter", kwrest)
	}
	if raw.Is(blk, "blockarg") {
		nm, err := optionalName(blk.(*raw.Node).Arg(0))
		if err != nil {
			return nil, err
		}
		args.Push(sexp.Sym("&" + nm))
	}
	return atLine(args, pn), nil
}

// requiredParams appends required parameters, which are names or
// destructuring patterns.
func (p *Processor) requiredParams(args *sexp.Node, v raw.Value) error {
	for _, r := range list(v) {
		x, err := p.param(r)
		if err != nil {
			return err
		}
		if x != nil {
			args.Push(x)
		}
	}
	return nil
}

// param rewrites a required parameter: a name or a nested mlhs.
func (p *Processor) param(v raw.Value) (interface{}, error) {
	switch {
	case raw.Is(v, "mlhs"):
		m := sexp.S("mlhs")
		for _, x := range v.(*raw.Node).Args {
			px, err := p.param(x)
			if err != nil {
				return nil, err
			}
			if px != nil {
				m.Push(px)
			}
		}
		return atLine(m, v), nil
	case raw.Is(v, "rest_param"):
		nm, err := optionalName(v.(*raw.Node).Arg(0))
		if err != nil {
			return nil, err
		}
		return sexp.Sym("*" + nm), nil
	case raw.Is(v, "excessed_comma"):
		return nil, nil
	}
	nm, err := name(v)
	if err != nil {
		return nil, err
	}
	return sexp.Sym(nm), nil
}

// optionalName returns the name of a parameter, or "" for an anonymous one.
func optionalName(v raw.Value) (string, error) {
	if raw.IsNil(v) {
		return "", nil
	}
	return name(v)
}
