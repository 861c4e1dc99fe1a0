package builder

import (
	"testing"

	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/raw/dump"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replay(t *testing.T, src string) (raw.Value, error) {
	t.Helper()
	return dump.Engine{}.Parse(src, "test.rb", 1, New("test.rb"))
}

func pos(line, col int) ripperparser.Pos {
	return ripperparser.Pos{Line: line, Col: col}
}

func TestListEvents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.builder")
	defer teardown()
	//
	b := New("")
	l, err := b.ParserEvent("stmts_new", nil)
	require.NoError(t, err)
	assert.Equal(t, raw.List{}, l)
	l, _ = b.ParserEvent("stmts_add", []raw.Value{l, raw.NewNode("void_stmt")})
	assert.Equal(t, `[(void_stmt)]`, raw.String(l))
	w, _ := b.ParserEvent("qwords_new", nil)
	w, _ = b.ParserEvent("qwords_add", []raw.Value{w, &raw.Token{Kind: "tstring_content", Text: "a"}})
	assert.Equal(t, `(qwords (@tstring_content "a" 0 0))`, raw.String(w))
	s, _ := b.ParserEvent("string_content", nil)
	s, _ = b.ParserEvent("string_add", []raw.Value{s, &raw.Token{Kind: "tstring_content", Text: "x"}})
	assert.Equal(t, `(string_content (@tstring_content "x" 0 0))`, raw.String(s))
}

func TestMlhsEvents(t *testing.T) {
	b := New("")
	a := raw.NewNode("var_field", &raw.Token{Kind: "ident", Text: "a"})
	r := raw.NewNode("var_field", &raw.Token{Kind: "ident", Text: "r"})
	l, _ := b.ParserEvent("mlhs_add_star", []raw.Value{raw.List{a}, r})
	l, _ = b.ParserEvent("mlhs_add_post", []raw.Value{l, raw.List{a}})
	p, _ := b.ParserEvent("mlhs_paren", []raw.Value{l})
	assert.Equal(t, `(mlhs (var_field (@ident "a" 0 0)) (rest_param (var_field (@ident "r" 0 0))) (var_field (@ident "a" 0 0)))`,
		raw.String(p))
}

func TestDelimiters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.builder")
	defer teardown()
	//
	src := `(program [
	  (string_literal ~(@tstring_beg "'" 1 0)
	    (string_add (string_content) (@tstring_content "a\\'" 1 1))
	    ~(@tstring_end "'" 1 4))
	  (array ~(@qwords_beg "%w[" 2 0)
	    (qwords_add (qwords_new) (@tstring_content "b" 2 3))
	    ~(@tstring_end "]" 2 4))
	  (string_literal (string_add (string_content) (@tstring_content "c" 3 0)))
	])`
	v, err := replay(t, src)
	require.NoError(t, err)
	stmts := v.(*raw.Node).Arg(0).(raw.List)
	tok := stmts[0].(*raw.Node).Arg(0).(*raw.Node).Arg(0).(*raw.Token)
	assert.Equal(t, "'", tok.Delim)
	tok = stmts[1].(*raw.Node).Arg(0).(*raw.Node).Arg(0).(*raw.Token)
	assert.Equal(t, "%w[", tok.Delim)
	tok = stmts[2].(*raw.Node).Arg(0).(*raw.Node).Arg(0).(*raw.Token)
	assert.Equal(t, "", tok.Delim)
}

func TestUnbalancedDelimiter(t *testing.T) {
	_, err := replay(t, `(program [~(@tstring_end "'" 1 4)])`)
	assert.True(t, ripperparser.IsInternalError(err))
}

func TestHeredocDedent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.builder")
	defer teardown()
	//
	b := New("")
	content := raw.NewNode("string_content",
		&raw.Token{Kind: "tstring_content", Text: "    foo\n  "},
		raw.NewNode("string_embexpr", raw.List{}),
		&raw.Token{Kind: "tstring_content", Text: "  bar\n\tbaz\n"},
	)
	_, err := b.ParserEvent("heredoc_dedent", []raw.Value{content, raw.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, "  foo\n", content.Args[0].(*raw.Token).Text)
	assert.Equal(t, "  bar\n\tbaz\n", content.Args[2].(*raw.Token).Text,
		"continuation after interpolation is kept, tab is not split")
}

func TestDedentComputesWidth(t *testing.T) {
	b := New("")
	content := raw.List{&raw.Token{Kind: "tstring_content", Text: "    a\n\n      b\n"}}
	_, err := b.ParserEvent("heredoc_dedent", []raw.Value{content})
	require.NoError(t, err)
	assert.Equal(t, "a\n\n  b\n", content[0].(*raw.Token).Text)
}

func TestDedentLine(t *testing.T) {
	assert.Equal(t, "x", dedentLine("\tx", 8))
	assert.Equal(t, "\tx", dedentLine("\tx", 4))
	assert.Equal(t, " x", dedentLine("   x", 2))
	assert.Equal(t, "x", dedentLine(" x", 4))
}

func TestSignFolding(t *testing.T) {
	b := New("")
	v, _ := b.ParserEvent("unary", []raw.Value{raw.Sym("-@"), &raw.Token{Kind: "int", Text: "1", Pos: pos(1, 1)}})
	require.IsType(t, &raw.Token{}, v)
	assert.Equal(t, "-1", v.(*raw.Token).Text)
	v, _ = b.ParserEvent("unary", []raw.Value{raw.Sym("-@"), &raw.Token{Kind: "float", Text: "-1.5"}})
	assert.True(t, raw.Is(v, "unary"), "explicit sign is not folded")
	v, _ = b.ParserEvent("unary", []raw.Value{raw.Sym("!"), &raw.Token{Kind: "int", Text: "1"}})
	assert.True(t, raw.Is(v, "unary"))
	v, _ = b.ParserEvent("unary", []raw.Value{raw.Sym("-@"), raw.NewNode("vcall")})
	assert.True(t, raw.Is(v, "unary"))
}

func TestOperatorStack(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.builder")
	defer teardown()
	//
	// foo => bar
	src := `(program [(case (vcall (@ident "foo" 1 0)) ~(@op "=>" 1 4)
	  (in (var_field (@ident "bar" 1 7)) nil nil))])`
	v, err := replay(t, src)
	require.NoError(t, err)
	c := v.(*raw.Node).Arg(0).(raw.List)[0].(*raw.Node)
	assert.True(t, raw.Is(c.Arg(1), "rassign"))
	// foo in bar
	src = `(program [(case (vcall (@ident "foo" 1 0)) ~(@kw "in" 1 4)
	  (in (var_field (@ident "bar" 1 7)) nil nil))])`
	v, err = replay(t, src)
	require.NoError(t, err)
	c = v.(*raw.Node).Arg(0).(raw.List)[0].(*raw.Node)
	assert.True(t, raw.Is(c.Arg(1), "in"))
}

func TestOperatorStackHashes(t *testing.T) {
	// foo(:a => {"b": 1}) does not confuse label and rocket
	src := `(program [(method_add_arg (fcall (@ident "foo" 1 0)) (arg_paren [(bare_assoc_hash [
	  (assoc_new (symbol_literal (symbol (@ident "a" 1 5))) ~(@op "=>" 1 7)
	    (hash (assoclist_from_args [
	      (assoc_new (dyna_symbol ~(@tstring_beg "\"" 1 11) (string_content) ~(@label_end "\":" 1 13))
	        (@int "1" 1 16))])))])]))])`
	_, err := replay(t, src)
	assert.NoError(t, err)
}

func TestOperatorStackErrors(t *testing.T) {
	b := New("")
	_, err := b.ParserEvent("for", []raw.Value{nil, nil, nil})
	assert.True(t, ripperparser.IsInternalError(err), "underflow")
	b.ScannerEvent("op", "=>", pos(1, 0))
	_, err = b.ParserEvent("for", []raw.Value{nil, nil, nil})
	assert.True(t, ripperparser.IsInternalError(err), "mismatch")
	b.ScannerEvent("kw", "in", pos(1, 0))
	_, err = b.ParserEvent("rescue", []raw.Value{nil, raw.NewNode("var_field"), nil, nil})
	assert.True(t, ripperparser.IsInternalError(err), "rescue expects =>")
}

func TestCommentWrapping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.builder")
	defer teardown()
	//
	b := New("")
	b.ScannerEvent("comment", "# about foo\n", pos(1, 0))
	b.ScannerEvent("kw", "def", pos(2, 0))
	b.ScannerEvent("sp", " ", pos(2, 3))
	b.ScannerEvent("kw", "class", pos(2, 4)) // method name, not a class
	b.ScannerEvent("comment", "# inside\n", pos(3, 2))
	v, err := b.ParserEvent("def", []raw.Value{&raw.Token{Kind: "kw", Text: "class"}, nil, nil})
	require.NoError(t, err)
	n := v.(*raw.Node)
	assert.Equal(t, "comment", n.Tag)
	assert.Equal(t, raw.Text("# about foo\n"), n.Arg(0))
	assert.True(t, raw.Is(n.Arg(1), "def"))
	assert.Equal(t, 2, n.Arg(2).(*raw.Token).Pos.Line)
	assert.Equal(t, "", b.Comments().Buffer())
}

func TestCommentInSymbol(t *testing.T) {
	b := New("")
	b.ScannerEvent("comment", "# c\n", pos(1, 0))
	b.ScannerEvent("symbeg", ":", pos(2, 0))
	b.ScannerEvent("kw", "class", pos(2, 1))
	assert.Equal(t, 0, b.Comments().Len())
	b.ScannerEvent("kw", "begin", pos(3, 0))
	assert.Equal(t, 1, b.Comments().Len())
	_, err := b.ParserEvent("begin", []raw.Value{nil})
	require.NoError(t, err)
	assert.Equal(t, 0, b.Comments().Len(), "begin discards its entry")
}

func TestBeginInsideDef(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.builder")
	defer teardown()
	//
	b := New("")
	b.ScannerEvent("comment", "# m\n", pos(1, 0))
	b.ScannerEvent("kw", "def", pos(2, 0))
	b.ScannerEvent("ident", "m", pos(2, 4))
	b.ScannerEvent("kw", "begin", pos(3, 2))
	_, err := b.ParserEvent("begin", []raw.Value{nil})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Comments().Len(), "begin pops its own entry only")
	// a second begin event finds the def entry on top and leaves it alone
	_, err = b.ParserEvent("begin", []raw.Value{nil})
	require.NoError(t, err)
	require.Equal(t, 1, b.Comments().Len())
	v, err := b.ParserEvent("def", []raw.Value{&raw.Token{Kind: "ident", Text: "m"}, nil, nil})
	require.NoError(t, err)
	assert.Equal(t, raw.Text("# m\n"), v.(*raw.Node).Arg(0))
	assert.Equal(t, 0, b.Comments().Len())
}

func TestParseError(t *testing.T) {
	b := New("x.rb")
	err := b.ParseError("syntax error, unexpected end-of-input", pos(3, 1))
	require.Error(t, err)
	assert.True(t, ripperparser.IsSyntaxError(err))
	assert.Equal(t, "x.rb:3:1: syntax error, unexpected end-of-input", err.Error())
	assert.NoError(t, b.ParseError("possibly useless use of == in void context", pos(1, 1)))
}

func TestDiagnosticEvents(t *testing.T) {
	b := New("x.rb")
	for _, ev := range []string{"class_name_error", "alias_error", "assign_error", "param_error"} {
		_, err := b.ParserEvent(ev, []raw.Value{raw.Text("bad"), &raw.Token{Kind: "ident", Text: "x", Pos: pos(2, 6)}})
		require.Error(t, err)
		assert.True(t, ripperparser.IsSyntaxError(err))
		assert.Equal(t, "x.rb:2:6: bad", err.Error())
	}
}
