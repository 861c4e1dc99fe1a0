package dump

import (
	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/mvz/ripper-parser-sub000/raw"
)

// Engine is a grammar engine replaying dumps. The source text given to
// Parse is the dump, not Ruby code.
type Engine struct{}

var _ raw.Engine = Engine{}

// Parse replays a dump through a handler. Line numbers of the dump are
// relative to line 1 and shifted to start at lineno.
func (Engine) Parse(src string, filename string, lineno int, h raw.Handler) (raw.Value, error) {
	it, err := readDump(src)
	if err != nil {
		return nil, withFilename(err, filename)
	}
	if it == nil {
		return nil, ripperparser.Internalf("%s: dump is empty, engine produced no tree", filename)
	}
	if lineno < 1 {
		lineno = 1
	}
	tracer().Debugf("replaying dump %s from line %d", filename, lineno)
	rp := &replayer{h: h, shift: lineno - 1}
	return rp.replay(it)
}

// Read reads a dump into a plain raw tree: parser events become nodes,
// scanner events become tokens.
func Read(src string) (raw.Value, error) {
	return Engine{}.Parse(src, "", 1, plain{})
}

func withFilename(err error, filename string) error {
	if serr, ok := err.(*ripperparser.SyntaxError); ok && serr.Filename == "" {
		serr.Filename = filename
	}
	return err
}

// plain is a handler building the tree one to one.
type plain struct{}

func (plain) ScannerEvent(kind, text string, pos ripperparser.Pos) (raw.Value, error) {
	return &raw.Token{Kind: kind, Text: text, Pos: pos}, nil
}

func (plain) ParserEvent(event string, args []raw.Value) (raw.Value, error) {
	return raw.NewNode(event, args...), nil
}

func (plain) ParseError(msg string, pos ripperparser.Pos) error {
	return ripperparser.Syntaxf(pos, "%s", msg)
}
