package unescape

import (
	"strings"
)

// Kind classifies literals by their escaping rules.
type Kind int8

// Kinds of literal content
const (
	Interpolating    Kind = iota // full unescape
	NonInterpolating             // delimiter and backslash only
	Verbatim                     // no unescape at all
	Regexp                       // line continuations only
	WordList                     // non-interpolating word list
	InterpWordList               // interpolating word list
)

func (k Kind) String() string {
	switch k {
	case Interpolating:
		return "interpolating"
	case NonInterpolating:
		return "non-interpolating"
	case Verbatim:
		return "verbatim"
	case Regexp:
		return "regexp"
	case WordList:
		return "word-list"
	case InterpWordList:
		return "interpolating word-list"
	}
	return "?"
}

// KindOf determines the escaping rules from the opening delimiter of a
// literal. An empty delimiter means an interpolating context.
func KindOf(delim string) Kind {
	switch {
	case delim == "":
		return Interpolating
	case strings.HasPrefix(delim, "<<"):
		id := strings.TrimLeft(delim[2:], "-~")
		if strings.HasPrefix(id, "'") {
			return Verbatim
		}
		return Interpolating
	case delim == `'` || delim == `:'`:
		return NonInterpolating
	case delim == "/":
		return Regexp
	case delim[0] == '%' && len(delim) > 1:
		switch delim[1] {
		case 'q', 's':
			return NonInterpolating
		case 'r':
			return Regexp
		case 'w', 'i':
			return WordList
		case 'W', 'I':
			return InterpWordList
		}
	}
	return Interpolating // " %Q %( ` %x :"
}

// Decode decodes literal content according to the rules for its delimiter
// and checks the result for valid encoding.
func Decode(s string, delim string) (string, error) {
	var out []byte
	var err error
	switch KindOf(delim) {
	case Interpolating:
		out, err = unescape(s, false)
	case InterpWordList:
		out, err = unescape(s, true)
	case NonInterpolating:
		out = []byte(SimpleUnescape(s, delim))
	case WordList:
		out = []byte(SimpleUnescapeWordlist(s, delim))
	case Regexp:
		out = []byte(UnescapeRegexp(s))
	case Verbatim:
		out = []byte(s)
	}
	if err != nil {
		return "", err
	}
	return FixEncoding(out, isASCII(s))
}
