package rewrite

import (
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

var loopHandlers = map[string]handler{
	"while":     loop("while", false),
	"until":     loop("until", false),
	"while_mod": loop("while", true),
	"until_mod": loop("until", true),
	"for":       forLoop,
}

// opposite loop keywords
var negatedLoop = map[string]string{"while": "until", "until": "while"}

// loop returns the handler for while and until loops. The third child of a
// loop node tells if the condition is checked before the first iteration,
// which is not the case for `begin … end while cond`.
func loop(keyword string, postfix bool) handler {
	return func(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
		test, err := p.Process(c.Shift())
		if err != nil {
			return nil, err
		}
		bodyv := c.Shift()
		body, err := p.Process(bodyv)
		if err != nil {
			return nil, err
		}
		checkFirst := !postfix || !raw.Is(bodyv, "begin")
		tag := keyword
		if test.Is("send") {
			switch {
			case test.Len() == 2 && test.SymAt(1) == "!":
				tag, test = negatedLoop[tag], test.NodeAt(0)
			case test.Len() == 3 && test.SymAt(1) == "!~":
				tag = negatedLoop[tag]
				test = sexp.S("send", test.Child(0), sexp.Sym("=~"), test.Child(2)).WithLine(test.Line)
			}
		}
		return sexp.S(tag, cond(test), body, checkFirst), nil
	}
}

// forLoop rewrites `for var in iter`. Several loop variables become mlhs.
func forLoop(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	v, err := p.target(c.Shift())
	if err != nil {
		return nil, err
	}
	iter, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	body, err := p.stmts(c.Shift())
	if err != nil {
		return nil, err
	}
	return sexp.S("for", v, iter, body), nil
}
