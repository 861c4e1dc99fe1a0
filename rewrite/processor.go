package rewrite

import (
	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

// handler rewrites a raw node, whose fields are available through a cursor.
type handler func(p *Processor, c *raw.Cursor) (*sexp.Node, error)

// Processor rewrites raw trees to canonical ASTs. A processor is good for one
// tree; create processors with New.
type Processor struct {
	filename string
	numbered bool // detect numbered block parameters
	handlers map[string]handler
	scopes   *ScopeTree
}

// Option configures a processor.
type Option func(*Processor)

// WithFilename sets the file name, which is the value of __FILE__.
func WithFilename(filename string) Option {
	return func(p *Processor) {
		p.filename = filename
	}
}

// WithNumberedParams switches detection of numbered block parameters
// (_1 … _9) on or off. Default is on.
func WithNumberedParams(on bool) Option {
	return func(p *Processor) {
		p.numbered = on
	}
}

// New creates a processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		filename: "(string)",
		numbered: true,
		scopes:   NewScopeTree(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.handlers = make(map[string]handler, 160)
	for _, group := range []map[string]handler{
		assignmentHandlers, blockHandlers, callHandlers, collectionHandlers,
		conditionalHandlers, literalHandlers, loopHandlers, methodHandlers,
		operatorHandlers, patternHandlers, stringHandlers,
	} {
		for tag, h := range group {
			p.handlers[tag] = h
		}
	}
	return p
}

// Process rewrites a raw value. Statement lists rewrite to a single
// statement, a `begin` sequence or nil.
func (p *Processor) Process(v raw.Value) (*sexp.Node, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *raw.Node:
		if x == nil {
			return nil, nil
		}
		h, ok := p.handlers[x.Tag]
		if !ok {
			return nil, ripperparser.Internalf("no handler for raw node %q", x.Tag)
		}
		tracer().Debugf("process %s", x.Tag)
		return h(p, raw.NewCursor(x))
	case *raw.Token:
		if x == nil {
			return nil, nil
		}
		return p.token(x)
	case raw.List:
		return p.stmts(x)
	case raw.Bool:
		if !bool(x) {
			return nil, nil
		}
	}
	return nil, ripperparser.Internalf("cannot process raw value %s", raw.String(v))
}

// --- Statement lists -------------------------------------------------------

// stmtList rewrites the statements of a list, dropping empty statements.
// Nested `begin` sequences without keyword are flattened.
func (p *Processor) stmtList(v raw.Value) ([]interface{}, error) {
	var vals []raw.Value
	switch x := v.(type) {
	case nil:
		return nil, nil
	case raw.List:
		vals = x
	default:
		vals = []raw.Value{v}
	}
	var out []interface{}
	for _, stmt := range vals {
		n, err := p.Process(stmt)
		if err != nil {
			return nil, err
		}
		if n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// stmts rewrites a statement list to a single node: nil if empty, the
// statement itself if there is just one, `begin` otherwise.
func (p *Processor) stmts(v raw.Value) (*sexp.Node, error) {
	list, err := p.stmtList(v)
	if err != nil {
		return nil, err
	}
	return wrapStmts(list), nil
}

func wrapStmts(list []interface{}) *sexp.Node {
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0].(*sexp.Node)
	}
	return sexp.S("begin", list...)
}

// unwrapStmts is the reverse of wrapStmts: it returns the statements of a
// body, which may be nil, a single statement or `begin`.
func unwrapStmts(n *sexp.Node) []interface{} {
	switch {
	case n == nil:
		return nil
	case n.Is("begin"):
		return n.Children
	}
	return []interface{}{n}
}

// exprs rewrites a sequence of values, keeping their number.
func (p *Processor) exprs(vals []raw.Value) ([]interface{}, error) {
	out := make([]interface{}, 0, len(vals))
	for _, v := range vals {
		n, err := p.Process(v)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// --- Helpers ---------------------------------------------------------------

// line returns the line of the leftmost token of a raw value, or 0.
func line(v raw.Value) int {
	switch x := v.(type) {
	case *raw.Token:
		if x != nil {
			return x.Pos.Line
		}
	case *raw.Node:
		if x != nil {
			return line(raw.List(x.Args))
		}
	case raw.List:
		for _, c := range x {
			if l := line(c); l != 0 {
				return l
			}
		}
	}
	return 0
}

// atLine sets the line of a node from a token, if there is one.
func atLine(n *sexp.Node, v raw.Value) *sexp.Node {
	if n != nil {
		if l := line(v); l != 0 {
			n.Line = l
		}
	}
	return n
}

// name extracts a name from an identifier-like raw value: a token, a bare
// symbol, or a node wrapping one (e.g. `(symbol (@ident "a"))`).
func name(v raw.Value) (string, error) {
	switch x := v.(type) {
	case *raw.Token:
		if x != nil {
			return x.Text, nil
		}
	case raw.Sym:
		return string(x), nil
	case *raw.Node:
		if x != nil && len(x.Args) > 0 {
			switch x.Tag {
			case "symbol", "var_ref", "var_field", "const_ref", "symbol_literal", "fcall", "vcall":
				return name(x.Args[0])
			}
		}
	}
	return "", ripperparser.Internalf("expected a name, got %s", raw.String(v))
}

// list converts a raw argument to a slice of values.
func list(v raw.Value) []raw.Value {
	switch x := v.(type) {
	case nil:
		return nil
	case raw.List:
		return x
	case raw.Bool:
		return nil
	}
	return []raw.Value{v}
}

func unexpected(where string, v raw.Value) error {
	return ripperparser.Internalf("unexpected %s in %s", raw.String(v), where)
}

func syntaxAt(v raw.Value, format string, args ...interface{}) error {
	return ripperparser.Syntaxf(ripperparser.Pos{Line: line(v)}, format, args...)
}
