package rewrite

import (
	"math/big"
	"strconv"
	"strings"

	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
	"github.com/mvz/ripper-parser-sub000/unescape"
)

var literalHandlers = map[string]handler{
	"program":        program,
	"void_stmt":      voidStmt,
	"var_ref":        varRef,
	"const_ref":      constRef,
	"const_path_ref": constPathRef,
	"top_const_ref":  topConstRef,
	"paren":          paren,
	"defined":        defined,
}

func program(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	body, err := p.stmts(c.Shift())
	if err != nil {
		return nil, err
	}
	if body == nil {
		return sexp.S("void_stmt"), nil
	}
	return body, nil
}

func voidStmt(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return nil, nil
}

// token rewrites a leaf.
func (p *Processor) token(tok *raw.Token) (*sexp.Node, error) {
	var n *sexp.Node
	var err error
	switch tok.Kind {
	case "int", "float", "rational", "imaginary":
		n, err = number(tok)
	case "ident":
		n = sexp.S("lvar", sexp.Sym(tok.Text))
	case "ivar":
		n = sexp.S("ivar", sexp.Sym(tok.Text))
	case "gvar":
		n = sexp.S("gvar", sexp.Sym(tok.Text))
	case "cvar":
		n = sexp.S("cvar", sexp.Sym(tok.Text))
	case "const":
		n = sexp.S("const", sexp.Sym(tok.Text))
	case "kw":
		n, err = p.keyword(tok)
	case "backref":
		n = backref(tok.Text)
	case "label":
		n = sexp.S("sym", sexp.Sym(strings.TrimSuffix(tok.Text, ":")))
	case "CHAR":
		var s string
		s, err = unescape.Decode(strings.TrimPrefix(tok.Text, "?"), `"`)
		n = sexp.S("str", s)
	case "tstring_content":
		var s string
		s, err = decode(tok)
		n = sexp.S("str", s)
	default:
		return nil, ripperparser.Internalf("no handler for token %s", raw.String(tok))
	}
	if err != nil {
		return nil, positioned(err, tok)
	}
	return n.WithLine(tok.Pos.Line), nil
}

// keyword rewrites keywords used as values.
func (p *Processor) keyword(tok *raw.Token) (*sexp.Node, error) {
	switch tok.Text {
	case "self", "nil", "true", "false":
		return sexp.S(tok.Text), nil
	case "__FILE__":
		return sexp.S("str", p.filename), nil
	case "__LINE__":
		return sexp.S("int", int64(tok.Pos.Line)), nil
	case "__ENCODING__":
		return sexp.S("colon2", sexp.S("const", sexp.Sym("Encoding")), sexp.Sym("UTF_8")), nil
	}
	return nil, ripperparser.Internalf("keyword %q used as value", tok.Text)
}

// backref rewrites $1 … $n to nth_ref and $& $` $' $+ to back_ref.
func backref(text string) *sexp.Node {
	if n, err := strconv.Atoi(strings.TrimPrefix(text, "$")); err == nil {
		return sexp.S("nth_ref", int64(n))
	}
	return sexp.S("back_ref", sexp.Sym(text))
}

func varRef(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	return p.Process(c.Shift())
}

func constRef(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	tok := c.Shift()
	nm, err := name(tok)
	if err != nil {
		return nil, err
	}
	return atLine(sexp.S("const", sexp.Sym(nm)), tok), nil
}

func constPathRef(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	scope, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	tok := c.Shift()
	nm, err := name(tok)
	if err != nil {
		return nil, err
	}
	return atLine(sexp.S("colon2", scope, sexp.Sym(nm)), tok), nil
}

func topConstRef(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	tok := c.Shift()
	nm, err := name(tok)
	if err != nil {
		return nil, err
	}
	return atLine(sexp.S("colon3", sexp.Sym(nm)), tok), nil
}

// paren rewrites parenthesized statements. Empty parentheses are nil.
func paren(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	inner := c.Shift()
	if raw.Is(inner, "params") {
		return p.Process(inner)
	}
	list, err := p.stmtList(inner)
	if err != nil {
		return nil, err
	}
	switch len(list) {
	case 0:
		return sexp.S("nil"), nil
	case 1:
		return list[0].(*sexp.Node), nil
	}
	return sexp.S("begin", list...), nil
}

func defined(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	x, err := p.Process(c.Shift())
	if err != nil {
		return nil, err
	}
	return sexp.S("defined", x), nil
}

// --- Numbers ---------------------------------------------------------------

// number rewrites numeric literal tokens: int, float, rational (3r, 1.5r)
// and imaginary (2i, 1.5i, 3ri).
func number(tok *raw.Token) (*sexp.Node, error) {
	text := strings.ReplaceAll(tok.Text, "_", "")
	switch tok.Kind {
	case "int":
		v, err := parseInt(text)
		if err != nil {
			return nil, err
		}
		return sexp.S("int", v), nil
	case "float":
		f, err := strconv.ParseFloat(strings.TrimPrefix(text, "+"), 64)
		if err != nil && !isRangeError(err) {
			return nil, ripperparser.Syntaxf(tok.Pos, "invalid float literal %q", tok.Text)
		}
		return sexp.S("float", f), nil
	case "rational":
		r, err := parseRational(strings.TrimSuffix(text, "r"))
		if err != nil {
			return nil, err
		}
		return sexp.S("rational", r), nil
	case "imaginary":
		im, err := parseImaginary(strings.TrimSuffix(text, "i"))
		if err != nil {
			return nil, err
		}
		return sexp.S("complex", complex(0, im)), nil
	}
	return nil, ripperparser.Internalf("not a number: %s", raw.String(tok))
}

// parseInt parses integer literals with optional sign and base prefix
// (0x, 0b, 0o, 0d, 0). Values exceeding int64 become *big.Int.
func parseInt(text string) (interface{}, error) {
	neg := false
	if strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+") {
		neg = text[0] == '-'
		text = text[1:]
	}
	lower := strings.ToLower(text)
	base := 10
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, text = 16, text[2:]
	case strings.HasPrefix(lower, "0b"):
		base, text = 2, text[2:]
	case strings.HasPrefix(lower, "0o"):
		base, text = 8, text[2:]
	case strings.HasPrefix(lower, "0d"):
		text = text[2:]
	case len(text) > 1 && text[0] == '0':
		base, text = 8, text[1:]
	}
	b, ok := new(big.Int).SetString(text, base)
	if !ok {
		return nil, ripperparser.Syntaxf(ripperparser.Pos{}, "invalid integer literal %q", text)
	}
	if neg {
		b.Neg(b)
	}
	if b.IsInt64() {
		return b.Int64(), nil
	}
	return b, nil
}

func parseRational(text string) (*big.Rat, error) {
	if !strings.ContainsAny(text, ".eE") {
		i, err := parseInt(text)
		if err != nil {
			return nil, err
		}
		switch x := i.(type) {
		case int64:
			return new(big.Rat).SetInt64(x), nil
		case *big.Int:
			return new(big.Rat).SetInt(x), nil
		}
	}
	r, ok := new(big.Rat).SetString(strings.TrimPrefix(text, "+"))
	if !ok {
		return nil, ripperparser.Syntaxf(ripperparser.Pos{}, "invalid rational literal %q", text)
	}
	return r, nil
}

func parseImaginary(text string) (float64, error) {
	if strings.HasSuffix(text, "r") {
		r, err := parseRational(strings.TrimSuffix(text, "r"))
		if err != nil {
			return 0, err
		}
		f, _ := r.Float64()
		return f, nil
	}
	if !strings.ContainsAny(text, ".eE") || strings.HasPrefix(strings.ToLower(strings.TrimLeft(text, "+-")), "0x") {
		i, err := parseInt(text)
		if err != nil {
			return 0, err
		}
		switch x := i.(type) {
		case int64:
			return float64(x), nil
		case *big.Int:
			f, _ := new(big.Float).SetInt(x).Float64()
			return f, nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(text, "+"), 64)
	if err != nil && !isRangeError(err) {
		return 0, ripperparser.Syntaxf(ripperparser.Pos{}, "invalid imaginary literal %q", text)
	}
	return f, nil
}

func isRangeError(err error) bool {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err == strconv.ErrRange
	}
	return false
}

// positioned adds the position of a token to a syntax error without one.
func positioned(err error, tok *raw.Token) error {
	if serr, ok := err.(*ripperparser.SyntaxError); ok && serr.Pos.IsNull() {
		serr.Pos = tok.Pos
	}
	return err
}
