package raw

import (
	"fmt"
	"strconv"
	"strings"

	ripperparser "github.com/mvz/ripper-parser-sub000"
)

// Value is a raw tree value. It is one of *Node, *Token, List, Sym, Bool,
// Int, Text or nil.
type Value interface {
	rawValue()
}

// Node is a tagged parser event, e.g. (assign (var_field …) (@int "1" 1 4)).
type Node struct {
	Tag  string
	Args []Value
}

// Token is a scanner event, i.e. a leaf of the raw tree.
type Token struct {
	Kind  string           // scanner event name without prefix, e.g. "ident"
	Text  string           // token text as found in the source
	Pos   ripperparser.Pos // source position
	Delim string           // innermost literal delimiter in effect, if any
}

// List is an untagged sequence of values, as produced by `…_new`/`…_add`
// parser events (statement lists, argument lists, …).
type List []Value

// Sym is a bare symbol, used by the engine for operators (e.g. `:+`) and for
// marker arguments.
type Sym string

// Bool is a literal flag argument.
type Bool bool

// Int is a literal number argument, e.g. the indentation width of a
// dedented heredoc.
type Int int

// Text is a plain string argument, e.g. an error message or collected comment
// text.
type Text string

func (*Node) rawValue() {}
func (*Token) rawValue() {}
func (List) rawValue() {}
func (Sym) rawValue() {}
func (Bool) rawValue() {}
func (Int) rawValue() {}
func (Text) rawValue() {}

// NewNode creates a tagged node.
func NewNode(tag string, args ...Value) *Node {
	return &Node{Tag: tag, Args: args}
}

// Arg returns the i-th argument of a node, or nil.
func (n *Node) Arg(i int) Value {
	if n == nil || i < 0 || i >= len(n.Args) {
		return nil
	}
	return n.Args[i]
}

// Append appends values to the arguments of a node (used by `…_add` events
// operating on tagged lists).
func (n *Node) Append(v ...Value) *Node {
	n.Args = append(n.Args, v...)
	return n
}

// Tag returns the tag of a value if it is a node, "@kind" if it is a token,
// and "" otherwise.
func Tag(v Value) string {
	switch x := v.(type) {
	case *Node:
		if x != nil {
			return x.Tag
		}
	case *Token:
		if x != nil {
			return "@" + x.Kind
		}
	}
	return ""
}

// Is checks if a value is a node or a token with one of the given tags.
// Tokens are matched with their "@kind" tag.
func Is(v Value, tags ...string) bool {
	t := Tag(v)
	if t == "" {
		return false
	}
	for _, tag := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsNil checks for nil values, including typed nil pointers and false flags.
func IsNil(v Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *Node:
		return x == nil
	case *Token:
		return x == nil
	case Bool:
		return !bool(x)
	}
	return false
}

// --- Printing --------------------------------------------------------------

// String returns the dump form of a value; see package dump.
func String(v Value) string {
	var b strings.Builder
	write(&b, v)
	return b.String()
}

func write(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		b.WriteString("nil")
	case *Node:
		if x == nil {
			b.WriteString("nil")
			return
		}
		b.WriteString("(" + x.Tag)
		for _, a := range x.Args {
			b.WriteString(" ")
			write(b, a)
		}
		b.WriteString(")")
	case *Token:
		if x == nil {
			b.WriteString("nil")
			return
		}
		fmt.Fprintf(b, "(@%s %s %d %d)", x.Kind, strconv.Quote(x.Text), x.Pos.Line, x.Pos.Col)
	case List:
		b.WriteString("[")
		for i, a := range x {
			if i > 0 {
				b.WriteString(" ")
			}
			write(b, a)
		}
		b.WriteString("]")
	case Sym:
		if isPlainSym(string(x)) {
			b.WriteString(":" + string(x))
		} else {
			b.WriteString(":" + strconv.Quote(string(x)))
		}
	case Bool:
		b.WriteString(strconv.FormatBool(bool(x)))
	case Int:
		b.WriteString(strconv.Itoa(int(x)))
	case Text:
		b.WriteString(strconv.Quote(string(x)))
	}
}

func (n *Node) String() string { return String(n) }
func (t *Token) String() string { return String(t) }

func isPlainSym(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if strings.ContainsRune(" \t\n\"()[];~", r) {
			return false
		}
	}
	return true
}
