package builder

import (
	"strings"

	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/mvz/ripper-parser-sub000/raw"
)

// heredocDedent handles (heredoc_dedent content width). The content tokens of
// a squiggly heredoc are stripped of up to width columns of leading white
// space, at the start of physical lines only. If the engine does not supply a
// width, the smallest indentation of all non-blank lines is used.
func (b *Builder) heredocDedent(args []raw.Value) (raw.Value, error) {
	content := first(args)
	var parts []raw.Value
	switch x := content.(type) {
	case raw.List:
		parts = x
	case *raw.Node:
		parts = x.Args
	case nil:
		return content, nil
	default:
		return nil, ripperparser.Internalf("heredoc_dedent: unexpected content %s", raw.String(content))
	}
	var width int
	if w, ok := arg(args, 1).(raw.Int); ok {
		width = int(w)
	} else {
		width = minIndent(parts)
	}
	tracer().Debugf("dedent heredoc by %d", width)
	atLineStart := true
	for _, p := range parts {
		tok, ok := p.(*raw.Token)
		if !ok || tok.Kind != "tstring_content" {
			atLineStart = false
			continue
		}
		tok.Text = dedentText(tok.Text, width, atLineStart)
		atLineStart = strings.HasSuffix(tok.Text, "\n")
	}
	return content, nil
}

// dedentText strips leading white space from each physical line of a text.
// If atLineStart is false, the first line is a continuation and left alone.
func dedentText(text string, width int, atLineStart bool) string {
	if width <= 0 {
		return text
	}
	lines := strings.SplitAfter(text, "\n")
	for i, l := range lines {
		if i == 0 && !atLineStart {
			continue
		}
		lines[i] = dedentLine(l, width)
	}
	return strings.Join(lines, "")
}

// dedentLine removes up to width columns of white space. Tabs advance to the
// next multiple of 8 and are not split.
func dedentLine(l string, width int) string {
	col, i := 0, 0
	for ; i < len(l) && col < width; i++ {
		switch l[i] {
		case ' ':
			col++
		case '\t':
			next := (col/8 + 1) * 8
			if next > width {
				return l[i:]
			}
			col = next
		default:
			return l[i:]
		}
	}
	return l[i:]
}

// indentOf returns the indentation width of a line, or -1 for blank lines.
func indentOf(l string) int {
	col := 0
	for i := 0; i < len(l); i++ {
		switch l[i] {
		case ' ':
			col++
		case '\t':
			col = (col/8 + 1) * 8
		case '\n', '\r':
			return -1
		default:
			return col
		}
	}
	return -1
}

// minIndent computes the common indentation of the lines of heredoc content.
// Lines starting after an interpolation do not count.
func minIndent(parts []raw.Value) int {
	smallest := -1
	atLineStart := true
	for _, p := range parts {
		tok, ok := p.(*raw.Token)
		if !ok || tok.Kind != "tstring_content" {
			atLineStart = false
			continue
		}
		for i, l := range strings.SplitAfter(tok.Text, "\n") {
			if (i == 0 && !atLineStart) || l == "" {
				continue
			}
			if w := indentOf(l); w >= 0 && (smallest < 0 || w < smallest) {
				smallest = w
			}
		}
		atLineStart = strings.HasSuffix(tok.Text, "\n")
	}
	if smallest < 0 {
		return 0
	}
	return smallest
}
