package parser

import (
	"errors"

	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/mvz/ripper-parser-sub000/builder"
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/rewrite"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

// DefaultFilename is the file name used if none is given.
const DefaultFilename = "(string)"

// Parser turns source text into canonical ASTs. Parsers hold configuration
// only and may be shared.
type Parser struct {
	filename string
	lineno   int
	engine   raw.Engine
	numbered bool
}

// Option configures a parser.
type Option func(*Parser)

// WithFilename sets the file name reported in errors and used for __FILE__.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithLineno sets the line number of the first line of source.
func WithLineno(lineno int) Option {
	return func(p *Parser) {
		p.lineno = lineno
	}
}

// WithEngine sets the grammar engine. There is no default engine.
func WithEngine(e raw.Engine) Option {
	return func(p *Parser) {
		p.engine = e
	}
}

// WithNumberedParams switches detection of numbered block parameters on or
// off. Default is on.
func WithNumberedParams(on bool) Option {
	return func(p *Parser) {
		p.numbered = on
	}
}

// New creates a parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		filename: DefaultFilename,
		lineno:   1,
		numbered: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses source text. It returns nil for a program without
// statements. Errors are either *ripperparser.SyntaxError, for input which
// cannot be parsed, or *ripperparser.InternalError.
func (p *Parser) Parse(src string) (*sexp.Node, error) {
	if p.engine == nil {
		return nil, ripperparser.Internalf("parser has no grammar engine")
	}
	tree, err := p.engine.Parse(src, p.filename, p.lineno, builder.New(p.filename))
	if err != nil {
		return nil, p.located(err)
	}
	if raw.IsNil(tree) {
		return nil, ripperparser.Internalf("%s: grammar engine produced no tree", p.filename)
	}
	tracer().Debugf("raw tree for %s: %s", p.filename, raw.String(tree))
	proc := rewrite.New(rewrite.WithFilename(p.filename), rewrite.WithNumberedParams(p.numbered))
	ast, err := proc.Process(tree)
	if err != nil {
		return nil, p.located(err)
	}
	if ast == nil || ast.Is("void_stmt") {
		return nil, nil
	}
	return sexp.PropagateLines(ast), nil
}

// Parse parses source text with a parser configured by opts.
func Parse(src string, opts ...Option) (*sexp.Node, error) {
	return New(opts...).Parse(src)
}

// located sets the file name of syntax errors which do not have one.
func (p *Parser) located(err error) error {
	var serr *ripperparser.SyntaxError
	if errors.As(err, &serr) && serr.Filename == "" {
		serr.Filename = p.filename
	}
	return err
}
