package sexp

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// String returns the Ruby s-expression form of a node,
//
//	s(:send, nil, :foo, s(:int, 1))
//
func (n *Node) String() string {
	if n == nil {
		return "nil"
	}
	var b bytes.Buffer
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *bytes.Buffer, n *Node) {
	b.WriteString("s(:")
	b.WriteString(n.Tag)
	for _, c := range n.Children {
		b.WriteString(", ")
		if cn, ok := c.(*Node); ok {
			writeNode(b, cn)
		} else {
			b.WriteString(AtomString(c))
		}
	}
	b.WriteString(")")
}

// ListString returns a compact Lisp-like form of a node,
//
//	(send nil :foo (int 1))
//
func (n *Node) ListString() string {
	if n == nil {
		return "nil"
	}
	var b bytes.Buffer
	writeList(&b, n)
	return b.String()
}

func writeList(b *bytes.Buffer, n *Node) {
	b.WriteString("(")
	b.WriteString(n.Tag)
	for _, c := range n.Children {
		b.WriteString(" ")
		if cn, ok := c.(*Node); ok {
			writeList(b, cn)
		} else {
			b.WriteString(AtomString(c))
		}
	}
	b.WriteString(")")
}

// IndentedString returns a multi-line representation, one node per line,
// with line numbers and comments appended where present.
func (n *Node) IndentedString() string {
	var b bytes.Buffer
	writeIndented(&b, n, 0)
	return b.String()
}

func writeIndented(b *bytes.Buffer, n *Node, level int) {
	indent := strings.Repeat("  ", level)
	if n == nil {
		b.WriteString(indent + "nil\n")
		return
	}
	b.WriteString(indent + "(" + n.Tag)
	if n.Line > 0 {
		fmt.Fprintf(b, " @%d", n.Line)
	}
	if n.Comments != "" {
		fmt.Fprintf(b, " %s", strconv.Quote(n.Comments))
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok {
			writeIndented(b, cn, level+1)
		} else {
			b.WriteString(indent + "  " + AtomString(c) + "\n")
		}
	}
}

// Dump is a debugging helper, printing a tree to the tracer.
func (n *Node) Dump(level tracing.TraceLevel) {
	if tracer().GetTraceLevel() < level {
		return
	}
	for _, line := range strings.Split(n.IndentedString(), "\n") {
		if line != "" {
			tracer().Infof(line)
		}
	}
}

// --- Atoms -----------------------------------------------------------------

var plainSymbol = regexp.MustCompile(`^(\$|@{1,2})?[A-Za-z_][A-Za-z0-9_]*[!?=]?$`)

var operatorSymbols = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
	"==": true, "!=": true, "===": true, "=~": true, "!~": true, "<=>": true,
	"<": true, "<=": true, ">": true, ">=": true, "<<": true, ">>": true,
	"&": true, "|": true, "^": true, "~": true, "!": true, "+@": true, "-@": true,
	"[]": true, "[]=": true, "`": true,
}

// AtomString formats an atom the way Ruby's inspect would.
func AtomString(c interface{}) string {
	switch x := c.(type) {
	case nil:
		return "nil"
	case Sym:
		s := string(x)
		if plainSymbol.MatchString(s) || operatorSymbols[s] || isGlobalSpecial(s) {
			return ":" + s
		}
		return ":" + strconv.Quote(s)
	case string:
		return strconv.Quote(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case *big.Int:
		return x.String()
	case float64:
		return floatString(x)
	case *big.Rat:
		return "(" + x.String() + ")"
	case complex128:
		return fmt.Sprintf("(%s+%si)", floatString(real(x)), floatString(imag(x)))
	case bool:
		return strconv.FormatBool(x)
	case *Node:
		return x.String()
	}
	return fmt.Sprintf("%v", c)
}

// isGlobalSpecial checks for globals like $! or $~.
func isGlobalSpecial(s string) bool {
	return len(s) == 2 && s[0] == '$' && strings.ContainsRune("!@&`'+~=/\\,;.<>_*$?:\"", rune(s[1]))
}

func floatString(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
