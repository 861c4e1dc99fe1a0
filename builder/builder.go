package builder

import (
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/mvz/ripper-parser-sub000/comments"
	"github.com/mvz/ripper-parser-sub000/raw"
)

// Builder is a raw.Handler. Create builders with New.
type Builder struct {
	filename  string
	delims    *arraystack.Stack // open literal delimiters
	ops       *arraystack.Stack // pending `in` and `=>` operators
	comments  *comments.Collector
	namePos   bool               // next keyword is a method name
	labelEnd  bool               // a quoted label has just been closed
	labelSyms map[*raw.Node]bool // dynamic symbols in label position
}

var _ raw.Handler = (*Builder)(nil)

// New creates a builder for one parse call.
func New(filename string) *Builder {
	return &Builder{
		filename:  filename,
		delims:    arraystack.New(),
		ops:       arraystack.New(),
		comments:  comments.New(),
		labelSyms: make(map[*raw.Node]bool),
	}
}

// Comments returns the comment collector of the builder.
func (b *Builder) Comments() *comments.Collector {
	return b.comments
}

// scanner events not interrupting a run of comments
var trivia = map[string]bool{
	"sp": true, "nl": true, "ignored_nl": true, "words_sep": true,
	"ignored_sp": true, "semicolon": true,
}

var commentEvents = map[string]bool{
	"comment": true, "embdoc_beg": true, "embdoc": true, "embdoc_end": true,
}

// delimiter-opening scanner events
var beginDelim = map[string]bool{
	"heredoc_beg": true, "tstring_beg": true, "regexp_beg": true,
	"words_beg": true, "qwords_beg": true, "symbols_beg": true,
	"qsymbols_beg": true, "backtick": true,
}

// delimiter-closing scanner events
var endDelim = map[string]bool{
	"tstring_end": true, "regexp_end": true, "heredoc_end": true, "label_end": true,
}

// ScannerEvent is part of interface raw.Handler.
func (b *Builder) ScannerEvent(kind, text string, pos ripperparser.Pos) (raw.Value, error) {
	tok := &raw.Token{Kind: kind, Text: text, Pos: pos}
	if commentEvents[kind] {
		b.comments.Add(text)
		return tok, nil
	}
	if trivia[kind] {
		return tok, nil
	}
	inSymbol := b.comments.InSymbol()
	switch {
	case beginDelim[kind]:
		if !(kind == "backtick" && (inSymbol || b.namePos)) {
			b.pushDelim(text)
		}
	case kind == "symbeg":
		if text != ":" {
			b.pushDelim(text)
		}
	case endDelim[kind]:
		if err := b.popDelim(kind, pos); err != nil {
			return nil, err
		}
		b.labelEnd = kind == "label_end"
	case kind == "tstring_content":
		if d, ok := b.delims.Peek(); ok {
			tok.Delim = d.(string)
		}
	case kind == "kw":
		if !b.namePos {
			b.comments.Keyword(text, pos)
			if text == "in" && !inSymbol {
				b.ops.Push("in")
			}
		}
	case kind == "op" && text == "=>":
		b.ops.Push("=>")
	}
	b.comments.Interrupt()
	if kind == "symbeg" {
		b.comments.EnterSymbol()
	} else {
		b.comments.LeaveSymbol()
	}
	b.namePos = kind == "period" || (kind == "op" && (text == "&." || text == "::")) ||
		(kind == "kw" && text == "def" && !inSymbol)
	return tok, nil
}

func (b *Builder) pushDelim(d string) {
	tracer().Debugf("delimiter %q", d)
	b.delims.Push(d)
}

func (b *Builder) popDelim(kind string, pos ripperparser.Pos) error {
	if _, ok := b.delims.Pop(); !ok {
		return ripperparser.Internalf("%s at %s without open delimiter", kind, pos)
	}
	return nil
}

// ParserEvent is part of interface raw.Handler.
func (b *Builder) ParserEvent(event string, args []raw.Value) (raw.Value, error) {
	switch event {
	case "class_name_error", "alias_error", "assign_error", "param_error":
		return nil, b.diagnostic(event, args)
	case "warn", "warning", "arg_ambiguous", "operator_ambiguous":
		tracer().Infof("%s: %s", event, raw.String(raw.List(args)))
		return nil, nil
	case "heredoc_dedent":
		return b.heredocDedent(args)
	case "unary":
		return b.unary(args), nil
	case "in":
		op, err := b.popOperator("in", "in", "=>")
		if err != nil {
			return nil, err
		}
		if op == "=>" {
			return raw.NewNode("rassign", args...), nil
		}
		return raw.NewNode("in", args...), nil
	case "for":
		if _, err := b.popOperator(event, "in"); err != nil {
			return nil, err
		}
	case "rescue":
		if len(args) > 1 && !raw.IsNil(args[1]) {
			if _, err := b.popOperator(event, "=>"); err != nil {
				return nil, err
			}
		}
	case "binary":
		if len(args) > 1 && args[1] == raw.Sym("=>") {
			if _, err := b.popOperator(event, "=>"); err != nil {
				return nil, err
			}
		}
	case "assoc_new":
		if len(args) > 0 && b.rocketKey(args[0]) {
			if _, err := b.popOperator(event, "=>"); err != nil {
				return nil, err
			}
		}
	case "dyna_symbol":
		n := raw.NewNode(event, args...)
		if b.labelEnd {
			b.labelSyms[n] = true
			b.labelEnd = false
		}
		return n, nil
	case "class", "sclass":
		return b.commentize("class", raw.NewNode(event, args...))
	case "def", "defs":
		return b.commentize("def", raw.NewNode(event, args...))
	case "module", "BEGIN", "END":
		return b.commentize(event, raw.NewNode(event, args...))
	case "begin":
		if e, ok := b.comments.Peek(); ok && e.Keyword == "begin" {
			if _, err := b.comments.Pop("begin"); err != nil {
				return nil, err
			}
		}
	case "mlhs_paren":
		return mlhsParen(args), nil
	case "mlhs_add_star":
		return appendTo(first(args), raw.NewNode("rest_param", rest(args)...)), nil
	case "mlhs_add_post":
		var post []raw.Value
		if l, ok := arg(args, 1).(raw.List); ok {
			post = l
		}
		return appendTo(first(args), post...), nil
	}
	return b.defaultEvent(event, args), nil
}

// tagged lists, which need to be distinguishable by the rewriter
var taggedLists = map[string]bool{
	"words": true, "qwords": true, "symbols": true, "qsymbols": true, "word": true,
}

// defaultEvent builds the raw tree the way SexpBuilderPP does.
func (b *Builder) defaultEvent(event string, args []raw.Value) raw.Value {
	if strings.HasSuffix(event, "_new") && len(args) == 0 {
		tag := strings.TrimSuffix(event, "_new")
		if taggedLists[tag] {
			return raw.NewNode(tag)
		}
		return raw.List{}
	}
	if strings.HasSuffix(event, "_add") && len(args) == 2 {
		return appendTo(args[0], args[1])
	}
	return raw.NewNode(event, args...)
}

func appendTo(list raw.Value, items ...raw.Value) raw.Value {
	switch l := list.(type) {
	case raw.List:
		return append(l, items...)
	case *raw.Node:
		return l.Append(items...)
	case nil:
		return raw.List(items)
	}
	return append(raw.List{list}, items...)
}

func mlhsParen(args []raw.Value) raw.Value {
	switch x := first(args).(type) {
	case raw.List:
		return raw.NewNode("mlhs", x...)
	case *raw.Node:
		if x.Tag == "mlhs" {
			return x
		}
		return raw.NewNode("mlhs", x)
	}
	return raw.NewNode("mlhs", args...)
}

// --- Operators -------------------------------------------------------------

// popOperator pops the operator stack, expecting one of the given operators.
func (b *Builder) popOperator(event string, expected ...string) (string, error) {
	v, ok := b.ops.Pop()
	if !ok {
		return "", ripperparser.Internalf("operator stack underflow in %s", event)
	}
	op := v.(string)
	for _, e := range expected {
		if op == e {
			return op, nil
		}
	}
	return "", ripperparser.Internalf("unexpected operator %q on stack in %s, expected one of %v",
		op, event, expected)
}

// rocketKey checks if the key of an association has been written with a
// hash rocket, i.e. it is not a label.
func (b *Builder) rocketKey(key raw.Value) bool {
	if raw.Is(key, "@label") {
		return false
	}
	if n, ok := key.(*raw.Node); ok && b.labelSyms[n] {
		return false
	}
	return true
}

// numeric literal tokens
var numeric = map[string]bool{
	"int": true, "float": true, "rational": true, "imaginary": true,
}

// unary folds a sign into a numeric literal, if it does not carry one yet.
func (b *Builder) unary(args []raw.Value) raw.Value {
	if len(args) == 2 {
		op := args[0]
		if tok, ok := args[1].(*raw.Token); ok && numeric[tok.Kind] && (op == raw.Sym("-@") || op == raw.Sym("+@")) {
			if !strings.HasPrefix(tok.Text, "-") && !strings.HasPrefix(tok.Text, "+") {
				folded := *tok
				folded.Text = string(op.(raw.Sym)[0]) + tok.Text
				return &folded
			}
		}
	}
	return raw.NewNode("unary", args...)
}

// --- Comments --------------------------------------------------------------

// commentize wraps a commentable construct as (comment "text" construct keyword).
func (b *Builder) commentize(kw string, n *raw.Node) (raw.Value, error) {
	e, err := b.comments.Pop(kw)
	if err != nil {
		return nil, err
	}
	kwTok := &raw.Token{Kind: "kw", Text: kw, Pos: e.Pos}
	return raw.NewNode("comment", raw.Text(e.Text), n, kwTok), nil
}

// --- Errors ----------------------------------------------------------------

// ParseError is part of interface raw.Handler. Only genuine syntax errors
// abort parsing; other diagnostics are logged.
func (b *Builder) ParseError(msg string, pos ripperparser.Pos) error {
	if strings.HasPrefix(msg, "syntax error,") {
		return &ripperparser.SyntaxError{Pos: pos, Filename: b.filename, Msg: msg}
	}
	tracer().Infof("%s:%s: %s", b.filename, pos, msg)
	return nil
}

// diagnostic creates a syntax error from an error event of the engine. The
// first argument is the message, the position is taken from the first token
// of the offending construct.
func (b *Builder) diagnostic(event string, args []raw.Value) error {
	msg := strings.ReplaceAll(event, "_", " ")
	if t, ok := first(args).(raw.Text); ok {
		msg = string(t)
	}
	return &ripperparser.SyntaxError{Pos: firstPos(raw.List(rest(args))), Filename: b.filename, Msg: msg}
}

// firstPos finds the position of the leftmost token of a value.
func firstPos(v raw.Value) ripperparser.Pos {
	switch x := v.(type) {
	case *raw.Token:
		if x != nil {
			return x.Pos
		}
	case *raw.Node:
		if x != nil {
			return firstPos(raw.List(x.Args))
		}
	case raw.List:
		for _, c := range x {
			if p := firstPos(c); !p.IsNull() {
				return p
			}
		}
	}
	return ripperparser.Pos{}
}

// --- Helpers ---------------------------------------------------------------

func arg(args []raw.Value, i int) raw.Value {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func first(args []raw.Value) raw.Value {
	return arg(args, 0)
}

func rest(args []raw.Value) []raw.Value {
	if len(args) < 2 {
		return nil
	}
	return args[1:]
}
