package rewrite

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
	"github.com/mvz/ripper-parser-sub000/unescape"
)

var stringHandlers = map[string]handler{
	"string_literal":  stringLiteral,
	"xstring_literal": xstringLiteral,
	"string_content":  stringContent,
	"string_concat":   stringConcat,
	"string_embexpr":  stringEmbexpr,
	"string_dvar":     stringDvar,
	"dyna_symbol":     dynaSymbol,
	"symbol_literal":  symbolLiteral,
	"symbol":          symbolLiteral,
	"regexp_literal":  regexpLiteral,
	"words":           wordList("str", "dstr"),
	"symbols":         wordList("sym", "dsym"),
	"qwords":          wordList("str", "dstr"),
	"qsymbols":        wordList("sym", "dsym"),
	"word":            word,
}

// decode decodes the content of a string content token.
func decode(tok *raw.Token) (string, error) {
	s, err := unescape.Decode(tok.Text, tok.Delim)
	return s, positioned(err, tok)
}

// fragment is a piece of a literal: either decoded text or an interpolation.
type fragment struct {
	text string
	node *sexp.Node
	line int
}

// contentValues returns the parts of string content, which may be a tagged
// node (string_content, word) or a list.
func contentValues(v raw.Value) []raw.Value {
	switch x := v.(type) {
	case *raw.Node:
		if x == nil {
			return nil
		}
		switch x.Tag {
		case "string_content", "word", "xstring", "regexp":
			return x.Args
		}
		return []raw.Value{x}
	case raw.List:
		return x
	case nil:
		return nil
	}
	return []raw.Value{v}
}

// fragments rewrites literal content. Consecutive pieces of text are merged.
func (p *Processor) fragments(vals []raw.Value) ([]fragment, error) {
	var frags []fragment
	for _, v := range vals {
		var f fragment
		if tok, ok := v.(*raw.Token); ok && tok.Kind == "tstring_content" {
			s, err := decode(tok)
			if err != nil {
				return nil, err
			}
			f = fragment{text: s, line: tok.Pos.Line}
		} else {
			n, err := p.Process(v)
			if err != nil {
				return nil, err
			}
			if n.Is("str") { // e.g. a character literal in a word list
				f = fragment{text: n.Children[0].(string), line: n.Line}
			} else {
				f = fragment{node: n, line: line(v)}
			}
		}
		if k := len(frags) - 1; k >= 0 && f.node == nil && frags[k].node == nil {
			frags[k].text += f.text
			continue
		}
		frags = append(frags, f)
	}
	return frags, nil
}

// compose builds a plain literal (str, sym, xstr) from fragments, or a
// dynamic one (dstr, dsym, dxstr) if there are interpolations.
func compose(frags []fragment, plain, dynamic string) *sexp.Node {
	if len(frags) == 0 {
		return literal(plain, "")
	}
	if len(frags) == 1 && frags[0].node == nil {
		return literal(plain, frags[0].text).WithLine(frags[0].line)
	}
	n := sexp.S(dynamic)
	for _, f := range frags {
		if f.node != nil {
			n.Push(f.node)
		} else {
			n.Push(sexp.S("str", f.text).WithLine(f.line))
		}
	}
	return n.WithLine(frags[0].line)
}

func literal(tag string, text string) *sexp.Node {
	if tag == "sym" {
		return sexp.S(tag, sexp.Sym(text))
	}
	return sexp.S(tag, text)
}

func (p *Processor) composeContent(v raw.Value, plain, dynamic string) (*sexp.Node, error) {
	frags, err := p.fragments(contentValues(v))
	if err != nil {
		return nil, err
	}
	return compose(frags, plain, dynamic), nil
}

func stringLiteral(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.composeContent(c.Shift(), "str", "dstr")
}

func stringContent(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.composeContent(raw.List(c.Rest()), "str", "dstr")
}

func xstringLiteral(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.composeContent(c.Shift(), "xstr", "dxstr")
}

func dynaSymbol(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.composeContent(c.Shift(), "sym", "dsym")
}

func word(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.composeContent(raw.List(c.Rest()), "str", "dstr")
}

// stringConcat rewrites adjacent string literals ("a" "b").
func stringConcat(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	left, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	right, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	var frags []fragment
	for _, n := range []*sexp.Node{left, right} {
		switch {
		case n.Is("str"):
			frags = appendFragment(frags, fragment{text: n.Children[0].(string), line: n.Line})
		case n.Is("dstr"):
			for _, part := range n.Nodes() {
				if part.Is("str") {
					frags = appendFragment(frags, fragment{text: part.Children[0].(string), line: part.Line})
				} else {
					frags = appendFragment(frags, fragment{node: part, line: part.Line})
				}
			}
		default:
			return nil, unexpected("string_concat", raw.Text(n.String()))
		}
	}
	return compose(frags, "str", "dstr"), nil
}

func appendFragment(frags []fragment, f fragment) []fragment {
	if k := len(frags) - 1; k >= 0 && f.node == nil && frags[k].node == nil {
		frags[k].text += f.text
		return frags
	}
	return append(frags, f)
}

func stringEmbexpr(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	body, err := p.stmts(c.Shift())
	if err != nil {
		return nil, err
	}
	if body == nil {
		return sexp.S("evstr"), nil
	}
	return sexp.S("evstr", body), nil
}

func stringDvar(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	v, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	return sexp.S("evstr", v), nil
}

// symbolLiteral rewrites :name, where name may be an identifier, constant,
// operator, keyword or variable name.
func symbolLiteral(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	v := c.Shift()
	if raw.Is(v, "dyna_symbol") {
		return p.Process(v)
	}
	nm, err := name(v)
	if err != nil {
		return nil, err
	}
	return atLine(sexp.S("sym", sexp.Sym(nm)), v), nil
}

// regexpLiteral rewrites /…/flags. The options are given as a regopt node
// of sorted, unique flag letters.
func regexpLiteral(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	content := c.Shift()
	end, _ := c.Shift().(*raw.Token)
	frags, err := p.fragments(contentValues(content))
	if err != nil {
		return nil, err
	}
	re := sexp.S("regexp")
	for _, f := range frags {
		if f.node != nil {
			re.Push(f.node)
		} else {
			re.Push(sexp.S("str", f.text).WithLine(f.line))
		}
	}
	re.Push(regopt(end))
	return atLine(re, content), nil
}

func regopt(end *raw.Token) *sexp.Node {
	opt := sexp.S("regopt")
	if end == nil {
		return opt
	}
	flags := treeset.NewWithStringComparator()
	for _, r := range end.Text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			flags.Add(string(r))
		}
	}
	for _, f := range flags.Values() {
		opt.Push(sexp.Sym(f.(string)))
	}
	return opt
}

// wordList rewrites %w %W %i %I literals into an array of words.
func wordList(plain, dynamic string) handler {
	return func(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
		arr := sexp.S("array")
		for _, w := range c.Rest() {
			n, err := p.composeContent(w, plain, dynamic)
			if err != nil {
				return nil, err
			}
			arr.Push(n)
		}
		return arr, nil
	}
}
