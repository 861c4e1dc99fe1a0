package unescape

import (
	"strings"
	"unicode/utf8"

	ripperparser "github.com/mvz/ripper-parser-sub000"
)

// single-letter escapes
var singleLetter = map[byte]byte{
	'a': '\a', 'b': '\b', 'e': 0x1b, 'f': '\f', 'n': '\n',
	'r': '\r', 's': ' ', 't': '\t', 'v': '\v',
}

// Unescape interprets all escape sequences of an interpolating literal.
// Escaped newlines (line continuations) are removed.
func Unescape(s string) (string, error) {
	b, err := unescape(s, false)
	return string(b), err
}

// UnescapeWordlistWord interprets all escape sequences of a word in an
// interpolating word list (%W, %I). An escaped newline is kept as newline,
// as it does not separate words.
func UnescapeWordlistWord(s string) (string, error) {
	b, err := unescape(s, true)
	return string(b), err
}

func unescape(s string, keepContinuation bool) ([]byte, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return []byte(s), nil
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 >= len(s) {
			out = append(out, s[i])
			i++
			continue
		}
		b, n, err := escape(s[i+1:])
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out = append(out, b...)
			i += 1 + n
			continue
		}
		c := s[i+1]
		switch {
		case c == '\n':
			if keepContinuation {
				out = append(out, '\n')
			}
			i += 2
		default: // escaped char is itself
			_, size := utf8.DecodeRuneInString(s[i+1:])
			out = append(out, s[i+1:i+1+size]...)
			i += 1 + size
		}
	}
	return out, nil
}

// escape decodes an escape sequence at the start of s, which is the text
// following a backslash. It returns the decoded bytes and the number of
// bytes consumed, which is 0 if s does not start an escape sequence.
func escape(s string) ([]byte, int, error) {
	if len(s) == 0 {
		return nil, 0, nil
	}
	c := s[0]
	switch {
	case isOctal(c):
		v, n := 0, 0
		for n < 3 && n < len(s) && isOctal(s[n]) {
			v = v*8 + int(s[n]-'0')
			n++
		}
		return []byte{byte(v & 0xff)}, n, nil
	case c == 'x':
		v, n := 0, 1
		for n < 3 && n < len(s) && isHex(s[n]) {
			v = v*16 + hexValue(s[n])
			n++
		}
		if n == 1 {
			return nil, 0, ripperparser.Syntaxf(ripperparser.Pos{}, "invalid hex escape")
		}
		return []byte{byte(v)}, n, nil
	case c == 'u':
		return unicodeEscape(s)
	case c == 'M' || c == 'C' || c == 'c':
		if b, n, ok := metaControl(s); ok {
			return []byte{b}, n, nil
		}
		return nil, 0, nil
	}
	if b, ok := singleLetter[c]; ok {
		return []byte{b}, 1, nil
	}
	return nil, 0, nil
}

// unicodeEscape decodes \uHHHH or \u{H… H…}; s starts at 'u'. Surrogates
// and code points beyond U+10FFFF are errors.
func unicodeEscape(s string) ([]byte, int, error) {
	if len(s) > 1 && s[1] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return nil, 0, nil
		}
		var out []byte
		for _, cp := range strings.Fields(s[2:end]) {
			r, ok := parseHex(cp, 1, 6)
			if !ok {
				return nil, 0, nil
			}
			if !utf8.ValidRune(rune(r)) {
				return nil, 0, invalidCodepoint(cp)
			}
			out = utf8.AppendRune(out, rune(r))
		}
		return out, end + 1, nil
	}
	if len(s) < 5 {
		return nil, 0, nil
	}
	r, ok := parseHex(s[1:5], 4, 4)
	if !ok {
		return nil, 0, nil
	}
	if !utf8.ValidRune(rune(r)) {
		return nil, 0, invalidCodepoint(s[1:5])
	}
	return utf8.AppendRune(nil, rune(r)), 5, nil
}

func invalidCodepoint(hex string) error {
	return ripperparser.Syntaxf(ripperparser.Pos{}, "invalid Unicode codepoint U+%s", strings.ToUpper(hex))
}

// metaControl decodes the combinations \M-x, \C-x, \cx and their
// compositions \M-\C-x, \M-\cx, \C-\M-x, \c\M-x; s starts at 'M', 'C' or 'c'.
func metaControl(s string) (byte, int, bool) {
	var meta, ctrl bool
	n := 0
	for n < len(s) {
		switch {
		case !meta && strings.HasPrefix(s[n:], "M-"):
			meta = true
			n += 2
		case !ctrl && strings.HasPrefix(s[n:], "C-"):
			ctrl = true
			n += 2
		case !ctrl && s[n] == 'c':
			ctrl = true
			n++
		default:
			return 0, 0, false
		}
		// a composition continues after a backslash
		if n+1 < len(s) && s[n] == '\\' && strings.IndexByte("MCc", s[n+1]) >= 0 {
			n++
			continue
		}
		break
	}
	if n >= len(s) {
		return 0, 0, false
	}
	b := s[n]
	n++
	if b == '\\' { // escaped target, e.g. \C-\n
		if n >= len(s) {
			return 0, 0, false
		}
		if v, ok := singleLetter[s[n]]; ok {
			b = v
		} else {
			b = s[n]
		}
		n++
	}
	if ctrl {
		if b == '?' {
			b = 127
		} else {
			b &= 0x9f
		}
	}
	if meta {
		b |= 0x80
	}
	return b, n, true
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return int(c-'A') + 10
}

func parseHex(s string, min, max int) (int, bool) {
	if len(s) < min || len(s) > max {
		return 0, false
	}
	v := 0
	for i := 0; i < len(s); i++ {
		if !isHex(s[i]) {
			return 0, false
		}
		v = v*16 + hexValue(s[i])
	}
	return v, true
}

// --- Non-interpolating literals --------------------------------------------

// SimpleUnescape unescapes the content of a non-interpolating literal: only
// the backslash itself and the literal's delimiter characters are unescaped.
func SimpleUnescape(s string, delim string) string {
	return simpleUnescape(s, delim, "")
}

// SimpleUnescapeWordlist unescapes a word of a non-interpolating word list
// (%w, %i). Besides the delimiters and backslash, escaped white space is
// unescaped, as it is part of the word.
func SimpleUnescapeWordlist(s string, delim string) string {
	return simpleUnescape(s, delim, " \t\n\v\f\r")
}

func simpleUnescape(s string, delim string, extra string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	chars := `\` + delimiterChars(delim) + extra
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte(chars, s[i+1]) >= 0 {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var closing = map[byte]byte{'(': ')', '[': ']', '{': '}', '<': '>'}

// delimiterChars returns the opening and closing character of a delimiter
// such as "'", "%q(" or ":'".
func delimiterChars(delim string) string {
	if delim == "" {
		return ""
	}
	open := delim[len(delim)-1]
	if c, ok := closing[open]; ok {
		return string([]byte{open, c})
	}
	return string(open)
}

// UnescapeRegexp prepares the content of a regexp literal. Escapes are left
// for the regexp engine to interpret; only line continuations are removed.
func UnescapeRegexp(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\n':
				i++
				continue
			case '\\':
				b.WriteString(`\\`)
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// --- Encoding --------------------------------------------------------------

// FixEncoding checks decoded content for valid UTF-8. If the content is not
// valid but binary is true (all non-ASCII bytes stem from escapes), the bytes
// are accepted as a binary string.
func FixEncoding(b []byte, binary bool) (string, error) {
	if utf8.Valid(b) || binary {
		return string(b), nil
	}
	return "", ripperparser.Syntaxf(ripperparser.Pos{}, "invalid multibyte char (UTF-8)")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
