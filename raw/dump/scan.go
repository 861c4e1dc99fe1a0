package dump

import (
	"fmt"
	"sync"

	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token types of the dump lexer.
const (
	tokLParen int = iota + 1
	tokRParen
	tokLBrack
	tokRBrack
	tokTilde
	tokBang
	tokString
	tokSymbol
	tokQSymbol
	tokInt
	tokIdent
)

var tokenNames = map[int]string{
	tokLParen: "(", tokRParen: ")", tokLBrack: "[", tokRBrack: "]",
	tokTilde: "~", tokBang: "!", tokString: "STRING", tokSymbol: "SYMBOL",
	tokQSymbol: "SYMBOL", tokInt: "INT", tokIdent: "IDENT",
}

var lexer *lexmachine.Lexer
var lexerErr error
var initOnce sync.Once // monitors one-time creation of the DFA

func dumpLexer() (*lexmachine.Lexer, error) {
	initOnce.Do(func() {
		lexer = lexmachine.NewLexer()
		lexer.Add([]byte(`;[^\n]*\n?`), skip)
		lexer.Add([]byte(`( |\t|\n|\r|,)+`), skip)
		lexer.Add([]byte(`\(`), makeToken(tokLParen))
		lexer.Add([]byte(`\)`), makeToken(tokRParen))
		lexer.Add([]byte(`\[`), makeToken(tokLBrack))
		lexer.Add([]byte(`\]`), makeToken(tokRBrack))
		lexer.Add([]byte(`~`), makeToken(tokTilde))
		lexer.Add([]byte(`!`), makeToken(tokBang))
		lexer.Add([]byte(`"([^"\\]|\\.)*"`), makeToken(tokString))
		lexer.Add([]byte(`:"([^"\\]|\\.)*"`), makeToken(tokQSymbol))
		lexer.Add([]byte(`:[^ \t\r\n,()\[\];"~]+`), makeToken(tokSymbol))
		lexer.Add([]byte(`\-?[0-9]+`), makeToken(tokInt))
		lexer.Add([]byte(`@?([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), makeToken(tokIdent))
		if lexerErr = lexer.Compile(); lexerErr != nil {
			tracer().Errorf("error compiling DFA: %v", lexerErr)
		}
	})
	return lexer, lexerErr
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// token is a lexeme of a dump.
type token struct {
	typ    int
	lexeme string
	pos    ripperparser.Pos
}

func (t token) String() string {
	return fmt.Sprintf("%s %q @%s", tokenNames[t.typ], t.lexeme, t.pos)
}

// tokenize splits a dump into tokens.
func tokenize(src string) ([]token, error) {
	lx, err := dumpLexer()
	if err != nil {
		return nil, ripperparser.Internalf("dump lexer: %v", err)
	}
	scan, err := lx.Scanner([]byte(src))
	if err != nil {
		return nil, err
	}
	var toks []token
	for {
		tok, err, eof := scan.Next()
		if eof {
			break
		}
		if err != nil {
			if ui, is := err.(*machines.UnconsumedInput); is {
				return nil, ripperparser.Syntaxf(ripperparser.Pos{Line: ui.StartLine, Col: ui.StartColumn},
					"malformed dump: unexpected input")
			}
			return nil, err
		}
		t := tok.(*lexmachine.Token)
		toks = append(toks, token{
			typ:    t.Type,
			lexeme: string(t.Lexeme),
			pos:    ripperparser.Pos{Line: t.StartLine, Col: t.StartColumn},
		})
	}
	return toks, nil
}
