package dump

import (
	"strconv"

	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/mvz/ripper-parser-sub000/raw"
)

type itemKind int8

const (
	itemEvent itemKind = iota
	itemToken
	itemTrivia
	itemError
	itemList
	itemSym
	itemText
	itemNil
	itemBool
	itemInt
)

// item is a syntactic element of a dump, before replay.
type item struct {
	kind     itemKind
	tag      string // event name or token kind
	text     string // token text, symbol name or message
	flag     bool
	num      int
	pos      ripperparser.Pos
	children []*item
}

// reader is a recursive descent parser for dumps.
type reader struct {
	toks []token
	at   int
}

func (r *reader) peek() (token, bool) {
	if r.at >= len(r.toks) {
		return token{}, false
	}
	return r.toks[r.at], true
}

func (r *reader) next() (token, bool) {
	t, ok := r.peek()
	if ok {
		r.at++
	}
	return t, ok
}

func (r *reader) errorf(t token, format string, args ...interface{}) error {
	return ripperparser.Syntaxf(t.pos, "malformed dump: "+format, args...)
}

func (r *reader) expect(typ int) (token, error) {
	t, ok := r.next()
	if !ok {
		return t, ripperparser.Syntaxf(ripperparser.Pos{}, "malformed dump: unexpected end, expected %s", tokenNames[typ])
	}
	if t.typ != typ {
		return t, r.errorf(t, "expected %s, got %q", tokenNames[typ], t.lexeme)
	}
	return t, nil
}

// readDump parses the complete dump, which must consist of exactly one value.
func readDump(src string) (*item, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	r := &reader{toks: toks}
	if len(toks) == 0 {
		return nil, nil
	}
	it, err := r.value()
	if err != nil {
		return nil, err
	}
	if t, ok := r.peek(); ok {
		return nil, r.errorf(t, "trailing input %q", t.lexeme)
	}
	return it, nil
}

func (r *reader) value() (*item, error) {
	t, ok := r.next()
	if !ok {
		return nil, ripperparser.Syntaxf(ripperparser.Pos{}, "malformed dump: unexpected end")
	}
	switch t.typ {
	case tokLParen:
		return r.compound(t, itemEvent)
	case tokTilde:
		if _, err := r.expect(tokLParen); err != nil {
			return nil, err
		}
		it, err := r.compound(t, itemTrivia)
		if err == nil && it.kind != itemTrivia {
			err = r.errorf(t, "only scanner events may be trivia")
		}
		return it, err
	case tokBang:
		return r.diagnostic(t)
	case tokLBrack:
		return r.list()
	case tokSymbol:
		return &item{kind: itemSym, text: t.lexeme[1:], pos: t.pos}, nil
	case tokQSymbol:
		s, err := strconv.Unquote(t.lexeme[1:])
		if err != nil {
			return nil, r.errorf(t, "bad symbol %s", t.lexeme)
		}
		return &item{kind: itemSym, text: s, pos: t.pos}, nil
	case tokString:
		s, err := strconv.Unquote(t.lexeme)
		if err != nil {
			return nil, r.errorf(t, "bad string %s", t.lexeme)
		}
		return &item{kind: itemText, text: s, pos: t.pos}, nil
	case tokInt:
		n, _ := strconv.Atoi(t.lexeme)
		return &item{kind: itemInt, num: n, pos: t.pos}, nil
	case tokIdent:
		switch t.lexeme {
		case "nil":
			return &item{kind: itemNil, pos: t.pos}, nil
		case "true", "false":
			return &item{kind: itemBool, flag: t.lexeme == "true", pos: t.pos}, nil
		}
	}
	return nil, r.errorf(t, "unexpected %q", t.lexeme)
}

// compound reads an event or a token; the opening parenthesis is consumed.
func (r *reader) compound(open token, kind itemKind) (*item, error) {
	head, err := r.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if head.lexeme[0] == '@' {
		return r.scannerEvent(head, kind)
	}
	if kind == itemTrivia {
		return nil, r.errorf(head, "only scanner events may be trivia")
	}
	it := &item{kind: itemEvent, tag: head.lexeme, pos: head.pos}
	for {
		t, ok := r.peek()
		if !ok {
			return nil, r.errorf(open, "unterminated event (%s", head.lexeme)
		}
		if t.typ == tokRParen {
			r.next()
			return it, nil
		}
		child, err := r.value()
		if err != nil {
			return nil, err
		}
		it.children = append(it.children, child)
	}
}

// scannerEvent reads the rest of (@kind "text" L C).
func (r *reader) scannerEvent(head token, kind itemKind) (*item, error) {
	if kind != itemTrivia {
		kind = itemToken
	}
	text, err := r.expect(tokString)
	if err != nil {
		return nil, err
	}
	s, err := strconv.Unquote(text.lexeme)
	if err != nil {
		return nil, r.errorf(text, "bad string %s", text.lexeme)
	}
	pos, err := r.position()
	if err != nil {
		return nil, err
	}
	if _, err = r.expect(tokRParen); err != nil {
		return nil, err
	}
	return &item{kind: kind, tag: head.lexeme[1:], text: s, pos: pos}, nil
}

// diagnostic reads the rest of !("message" L C).
func (r *reader) diagnostic(bang token) (*item, error) {
	if _, err := r.expect(tokLParen); err != nil {
		return nil, err
	}
	msg, err := r.expect(tokString)
	if err != nil {
		return nil, err
	}
	s, err := strconv.Unquote(msg.lexeme)
	if err != nil {
		return nil, r.errorf(msg, "bad string %s", msg.lexeme)
	}
	pos, err := r.position()
	if err != nil {
		return nil, err
	}
	if _, err = r.expect(tokRParen); err != nil {
		return nil, err
	}
	return &item{kind: itemError, text: s, pos: pos}, nil
}

func (r *reader) position() (ripperparser.Pos, error) {
	l, err := r.expect(tokInt)
	if err != nil {
		return ripperparser.Pos{}, err
	}
	c, err := r.expect(tokInt)
	if err != nil {
		return ripperparser.Pos{}, err
	}
	line, _ := strconv.Atoi(l.lexeme)
	col, _ := strconv.Atoi(c.lexeme)
	return ripperparser.Pos{Line: line, Col: col}, nil
}

func (r *reader) list() (*item, error) {
	it := &item{kind: itemList}
	for {
		t, ok := r.peek()
		if !ok {
			return nil, ripperparser.Syntaxf(ripperparser.Pos{}, "malformed dump: unterminated list")
		}
		if t.typ == tokRBrack {
			r.next()
			return it, nil
		}
		child, err := r.value()
		if err != nil {
			return nil, err
		}
		it.children = append(it.children, child)
	}
}

// --- Replay ----------------------------------------------------------------

// replayer feeds the items of a dump to a handler, in source order.
type replayer struct {
	h     raw.Handler
	shift int
}

func (rp *replayer) replay(it *item) (raw.Value, error) {
	switch it.kind {
	case itemToken, itemTrivia:
		v, err := rp.h.ScannerEvent(it.tag, it.text, it.pos.Shift(rp.shift))
		if err != nil || it.kind == itemTrivia {
			return nil, err
		}
		return v, nil
	case itemError:
		return nil, rp.h.ParseError(it.text, it.pos.Shift(rp.shift))
	case itemEvent:
		args, err := rp.replayAll(it.children)
		if err != nil {
			return nil, err
		}
		return rp.h.ParserEvent(it.tag, args)
	case itemList:
		args, err := rp.replayAll(it.children)
		if err != nil {
			return nil, err
		}
		return raw.List(args), nil
	case itemSym:
		return raw.Sym(it.text), nil
	case itemText:
		return raw.Text(it.text), nil
	case itemBool:
		return raw.Bool(it.flag), nil
	case itemInt:
		return raw.Int(it.num), nil
	}
	return nil, nil
}

// replayAll replays a sequence of children. Trivia and diagnostics are
// reported to the handler, but do not occupy an argument slot.
func (rp *replayer) replayAll(items []*item) ([]raw.Value, error) {
	args := make([]raw.Value, 0, len(items))
	for _, child := range items {
		v, err := rp.replay(child)
		if err != nil {
			return nil, err
		}
		if child.kind == itemTrivia || child.kind == itemError {
			continue
		}
		args = append(args, v)
	}
	return args, nil
}
