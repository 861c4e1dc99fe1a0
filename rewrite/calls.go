package rewrite

import (
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

var callHandlers = map[string]handler{
	"fcall":          fcall,
	"vcall":          vcall,
	"call":           call,
	"method_add_arg": methodAddArg,
	"command":        command,
	"command_call":   commandCall,
	"aref":           aref,
	"super":          super,
	"zsuper":         constant("zsuper"),
	"yield":          yield,
	"yield0":         constant("yield"),
	"return":         jump("return"),
	"return0":        constant("return"),
	"break":          jump("break"),
	"next":           jump("next"),
	"redo":           constant("redo"),
	"retry":          constant("retry"),
	"arg_paren":      argParen,
	"args_forward":   constant("forwarded_args"),
}

// constant returns a handler for nodes without children.
func constant(tag string) handler {
	return func(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
		return sexp.S(tag), nil
	}
}

// callTag maps a call operator to the tag of the call node.
func callTag(op raw.Value) string {
	if nm, err := name(op); err == nil && nm == "&." {
		return "safe_call"
	}
	return "send"
}

func fcall(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	tok := c.Shift()
	nm, err := name(tok)
	if err != nil {
		return nil, err
	}
	return atLine(sexp.S("send", nil, sexp.Sym(nm)), tok), nil
}

// vcall rewrites a bare identifier which the grammar could not resolve to a
// local variable. A reference to the keyword rest parameter of the enclosing
// method is a local variable read nonetheless.
func vcall(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	tok := c.Shift()
	nm, err := name(tok)
	if err != nil {
		return nil, err
	}
	if p.scopes.IsKwrest(nm) {
		return atLine(sexp.S("lvar", sexp.Sym(nm)), tok), nil
	}
	return atLine(sexp.S("send", nil, sexp.Sym(nm)), tok), nil
}

// call rewrites recv.m, recv::m and recv&.m. `recv.()` calls :call.
func call(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
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
	return atLine(sexp.S(tag, recv, sexp.Sym(nm)), tok), nil
}

func methodAddArg(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	n, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	args, err := p.callArgs(c.Shift())
	if err != nil {
		return nil, err
	}
	return n.Push(args...), nil
}

// command rewrites calls without parentheses: `puts a, b: 1`.
func command(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	tok := c.Shift()
	nm, err := name(tok)
	if err != nil {
		return nil, err
	}
	args, err := p.callArgs(c.Shift())
	if err != nil {
		return nil, err
	}
	n := sexp.S("send", nil, sexp.Sym(nm)).Push(args...)
	return atLine(n, tok), nil
}

// commandCall rewrites calls with receiver but without parentheses.
func commandCall(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	n, err := call(p, c)
	if err != nil {
		return nil, err
	}
	args, err := p.callArgs(c.Shift())
	if err != nil {
		return nil, err
	}
	return n.Push(args...), nil
}

func aref(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	recv, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	args, err := p.callArgs(c.Shift())
	if err != nil {
		return nil, err
	}
	return sexp.S("send", recv, sexp.Sym("[]")).Push(args...), nil
}

func super(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	args, err := p.callArgs(c.Shift())
	if err != nil {
		return nil, err
	}
	return sexp.S("super", args...), nil
}

func yield(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	args, err := p.callArgs(c.Shift())
	if err != nil {
		return nil, err
	}
	return sexp.S("yield", args...), nil
}

// jump returns a handler for return, break and next. Several values are
// returned as an array.
func jump(tag string) handler {
	return func(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
		args, err := p.callArgs(c.Shift())
		if err != nil {
			return nil, err
		}
		switch len(args) {
		case 0:
			return sexp.S(tag), nil
		case 1:
			if a, ok := args[0].(*sexp.Node); !ok || !a.Is("splat") {
				return sexp.S(tag, a), nil
			}
		}
		return sexp.S(tag, sexp.S("array", args...)), nil
	}
}

func argParen(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	args, err := p.callArgs(c.Shift())
	if err != nil {
		return nil, err
	}
	switch len(args) {
	case 0:
		return sexp.S("nil"), nil
	case 1:
		return args[0].(*sexp.Node), nil
	}
	return sexp.S("begin", args...), nil
}

// callArgs rewrites an argument list to a flat list of nodes. Implicit
// hashes become hash nodes, splats become splat and a block argument becomes
// block_pass.
func (p *Processor) callArgs(v raw.Value) ([]interface{}, error) {
	switch x := v.(type) {
	case nil, raw.Bool:
		return nil, nil
	case raw.List:
		var out []interface{}
		for _, a := range x {
			more, err := p.callArgs(a)
			if err != nil {
				return nil, err
			}
			out = append(out, more...)
		}
		return out, nil
	case *raw.Node:
		if x == nil {
			return nil, nil
		}
		c := raw.NewCursor(x)
		switch x.Tag {
		case "arg_paren":
			return p.callArgs(c.Shift())
		case "args_add_block":
			out, err := p.callArgs(c.Shift())
			if err != nil {
				return nil, err
			}
			if blk := c.Shift(); !raw.IsNil(blk) {
				b, err := p.Process(blk)
				if err != nil {
					return nil, err
				}
				out = append(out, sexp.S("block_pass", b))
			}
			return out, nil
		case "args_add_star":
			out, err := p.callArgs(c.Shift())
			if err != nil {
				return nil, err
			}
			star := c.Shift()
			if raw.IsNil(star) {
				out = append(out, sexp.S("splat"))
			} else {
				s, err := p.Process(star)
				if err != nil {
					return nil, err
				}
				out = append(out, sexp.S("splat", s))
			}
			post, err := p.callArgs(raw.List(c.Rest()))
			if err != nil {
				return nil, err
			}
			return append(out, post...), nil
		}
	}
	n, err := p.Process(v)
	if err != nil {
		return nil, err
	}
	return []interface{}{n}, nil
}
