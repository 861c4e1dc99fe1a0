/*
Package comments collects comment text for commentable constructs.

Comments are reported by the grammar engine as a flat stream of scanner
events. A Collector accumulates consecutive comments into a buffer. When a
keyword starting a commentable construct (class, module, def, BEGIN, END,
or begin) is seen outside of a symbol literal, the buffer is pushed onto a
stack, together with the keyword, and the buffer is reset. When the
construct is complete, the entry is popped and its text becomes the comment
of the construct.

Comments which do not immediately precede a commentable construct are
dropped.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package comments

import (
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rparse.builder'.
func tracer() tracing.Trace {
	return tracing.Select("rparse.builder")
}

// commentable keywords
var commentable = map[string]bool{
	"class": true, "module": true, "def": true,
	"BEGIN": true, "begin": true, "END": true,
}

// IsCommentable is a predicate: does a keyword start a commentable construct?
func IsCommentable(kw string) bool {
	return commentable[kw]
}

// Entry is a pending comment, waiting for its construct to complete.
type Entry struct {
	Keyword string
	Pos     ripperparser.Pos // position of the keyword
	Text    string
}

// Collector accumulates comments. The zero value is not usable, create
// collectors with New.
type Collector struct {
	buf      strings.Builder
	inSymbol bool
	stack    *arraystack.Stack
}

// New creates a collector.
func New() *Collector {
	return &Collector{stack: arraystack.New()}
}

// Add appends comment text (a comment or a line of embedded documentation)
// to the buffer.
func (c *Collector) Add(text string) {
	c.buf.WriteString(text)
}

// Buffer returns the text collected so far.
func (c *Collector) Buffer() string {
	return c.buf.String()
}

// Interrupt is called for significant tokens which are not comments. It ends a
// run of consecutive comments, which will be dropped.
func (c *Collector) Interrupt() {
	c.buf.Reset()
}

// EnterSymbol marks the start of a symbol literal. Keywords are not
// considered to start a construct while in a symbol.
func (c *Collector) EnterSymbol() {
	c.inSymbol = true
}

// LeaveSymbol marks the end of a symbol literal.
func (c *Collector) LeaveSymbol() {
	c.inSymbol = false
}

// InSymbol returns true between EnterSymbol and LeaveSymbol.
func (c *Collector) InSymbol() bool {
	return c.inSymbol
}

// Keyword is called for every keyword. If it starts a commentable construct
// and we are not in a symbol, the buffer is pushed and reset. Returns true if
// an entry has been pushed.
func (c *Collector) Keyword(kw string, pos ripperparser.Pos) bool {
	if c.inSymbol || !commentable[kw] {
		return false
	}
	c.stack.Push(Entry{Keyword: kw, Pos: pos, Text: c.buf.String()})
	tracer().Debugf("comment for %s at %s: %q", kw, pos, c.buf.String())
	c.buf.Reset()
	return true
}

// Peek returns the topmost entry without removing it.
func (c *Collector) Peek() (Entry, bool) {
	e, ok := c.stack.Peek()
	if !ok {
		return Entry{}, false
	}
	return e.(Entry), true
}

// Pop removes the topmost entry, which has to belong to keyword kw, and
// resets the buffer. Comments collected within the construct are thereby
// discarded.
func (c *Collector) Pop(kw string) (Entry, error) {
	e, ok := c.stack.Pop()
	if !ok {
		return Entry{}, ripperparser.Internalf("comment stack empty, expected entry for %q", kw)
	}
	entry := e.(Entry)
	if entry.Keyword != kw {
		return Entry{}, ripperparser.Internalf("comment stack mismatch: expected %q, found %q at %s",
			kw, entry.Keyword, entry.Pos)
	}
	c.buf.Reset()
	return entry, nil
}

// Len returns the number of pending entries.
func (c *Collector) Len() int {
	return c.stack.Size()
}
