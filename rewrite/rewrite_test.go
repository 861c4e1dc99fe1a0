package rewrite

import (
	"testing"

	ripperparser "github.com/mvz/ripper-parser-sub000"
	"github.com/mvz/ripper-parser-sub000/builder"
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/raw/dump"
	"github.com/mvz/ripper-parser-sub000/sexp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// process replays a dump through a fresh builder and rewrites the result.
func process(t *testing.T, src string, opts ...Option) (*sexp.Node, error) {
	t.Helper()
	v, err := dump.Engine{}.Parse(src, "test.rb", 1, builder.New("test.rb"))
	require.NoError(t, err, "replaying dump")
	return New(opts...).Process(v)
}

type rewriteCase struct {
	name string
	dump string
	want string
}

func runCases(t *testing.T, cases []rewriteCase) {
	t.Helper()
	for _, c := range cases {
		n, err := process(t, "(program ["+c.dump+"])")
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if got := n.ListString(); got != c.want {
			t.Errorf("%s:\n got  %s\n want %s", c.name, got, c.want)
		}
	}
}

func TestEmptyProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	n, err := process(t, `(program [(void_stmt)])`)
	require.NoError(t, err)
	assert.Equal(t, "(void_stmt)", n.ListString())
}

func TestUnknownNode(t *testing.T) {
	_, err := New().Process(raw.NewNode("bogus"))
	assert.True(t, ripperparser.IsInternalError(err))
}

func TestAssignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"local", `(assign (var_field (@ident "a" 1 0)) (@int "1" 1 4))`,
			`(lvasgn :a (int 1))`},
		{"ivar", `(assign (var_field (@ivar "@a" 1 0)) (@int "1" 1 5))`,
			`(ivasgn :@a (int 1))`},
		{"gvar", `(assign (var_field (@gvar "$a" 1 0)) (@int "1" 1 5))`,
			`(gasgn :$a (int 1))`},
		{"cvar outside method", `(assign (var_field (@cvar "@@a" 1 0)) (@int "1" 1 6))`,
			`(cvdecl :@@a (int 1))`},
		{"const", `(assign (var_field (@const "A" 1 0)) (@int "1" 1 4))`,
			`(casgn nil :A (int 1))`},
		{"scoped const", `(assign (const_path_field (var_ref (@const "A" 1 0)) (@const "B" 1 3)) (@int "1" 1 7))`,
			`(casgn (const :A) :B (int 1))`},
		{"top const", `(assign (top_const_field (@const "C" 1 2)) (@int "1" 1 6))`,
			`(casgn (cbase) :C (int 1))`},
		{"attribute", `(assign (field (vcall (@ident "a" 1 0)) (@period "." 1 1) (@ident "b" 1 2)) (@int "1" 1 6))`,
			`(send (send nil :a) :b= (int 1))`},
		{"safe attribute", `(assign (field (vcall (@ident "a" 1 0)) (@op "&." 1 1) (@ident "b" 1 3)) (@int "1" 1 7))`,
			`(safe_call (send nil :a) :b= (int 1))`},
		{"index", `(assign (aref_field (vcall (@ident "a" 1 0)) (args_add_block [(@int "0" 1 2)] false)) (@int "1" 1 7))`,
			`(indexasgn (send nil :a) (int 0) (int 1))`},
		{"splat value", `(assign (var_field (@ident "a" 1 0)) (mrhs_add_star (mrhs_new) (vcall (@ident "b" 1 5))))`,
			`(lvasgn :a (array (splat (send nil :b))))`},
	})
}

func TestClassVariableInMethod(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"in method", `(def ~(@kw "def" 1 0) (@ident "foo" 1 4) (params nil nil nil nil nil nil nil)
			(bodystmt [(assign (var_field (@cvar "@@a" 1 9)) (@int "1" 1 15))] nil nil nil))`,
			`(defn :foo (args) (cvasgn :@@a (int 1)))`},
		{"class in method", `(def ~(@kw "def" 1 0) (@ident "foo" 1 4) (params nil nil nil nil nil nil nil)
			(bodystmt [(sclass ~(@kw "class" 1 9) (var_ref (@kw "self" 1 18))
			  (bodystmt [(assign (var_field (@cvar "@@a" 1 24)) (@int "1" 1 30))] nil nil nil))] nil nil nil))`,
			`(defn :foo (args) (sclass (self) (cvdecl :@@a (int 1))))`},
	})
}

func TestOperatorAssignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"plus", `(opassign (var_field (@ident "foo" 1 0)) (@op "+=" 1 4) (vcall (@ident "bar" 1 7)))`,
			`(lvasgn :foo (send (lvar :foo) :+ (send nil :bar)))`},
		{"or", `(opassign (var_field (@ident "foo" 1 0)) (@op "||=" 1 4) (vcall (@ident "bar" 1 8)))`,
			`(or_asgn (lvasgn :foo) (send nil :bar))`},
		{"and", `(opassign (var_field (@ivar "@foo" 1 0)) (@op "&&=" 1 5) (@int "1" 1 9))`,
			`(and_asgn (ivasgn :@foo) (int 1))`},
		{"index", `(opassign (aref_field (vcall (@ident "a" 1 0)) (args_add_block [(@int "1" 1 2)] false)) (@op "+=" 1 5) (@int "2" 1 8))`,
			`(op_asgn (indexasgn (send nil :a) (int 1)) :+ (int 2))`},
		{"attribute", `(opassign (field (vcall (@ident "a" 1 0)) (@period "." 1 1) (@ident "b" 1 2)) (@op "*=" 1 4) (@int "2" 1 7))`,
			`(op_asgn (send (send nil :a) :b=) :* (int 2))`},
		{"const", `(opassign (var_field (@const "A" 1 0)) (@op "-=" 1 2) (@int "1" 1 5))`,
			`(casgn nil :A (send (const :A) :- (int 1)))`},
	})
}

func TestMultipleAssignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"several values", `(massign [(var_field (@ident "foo" 1 0)) (var_field (@ident "bar" 1 5))]
			(mrhs_new_from_args [(vcall (@ident "baz" 1 11))] (vcall (@ident "qux" 1 16))))`,
			`(masgn (mlhs (lvasgn :foo) (lvasgn :bar)) (array (send nil :baz) (send nil :qux)))`},
		{"single value", `(massign [(var_field (@ident "foo" 1 0)) (var_field (@ident "bar" 1 5))] (vcall (@ident "baz" 1 11)))`,
			`(masgn (mlhs (lvasgn :foo) (lvasgn :bar)) (send nil :baz))`},
		{"splats", `(massign (mlhs_add_star [(var_field (@ident "a" 1 0))] (var_field (@ident "b" 1 4)))
			(mrhs_add_star (mrhs_new) (vcall (@ident "c" 1 9))))`,
			`(masgn (mlhs (lvasgn :a) (splat (lvasgn :b))) (splat (send nil :c)))`},
		{"anonymous splat", `(massign (mlhs_add_star [(var_field (@ident "a" 1 0))] nil) (vcall (@ident "c" 1 8)))`,
			`(masgn (mlhs (lvasgn :a) (splat)) (send nil :c))`},
		{"nested", `(massign [(mlhs_paren [(var_field (@ident "a" 1 1)) (var_field (@ident "b" 1 4))]) (var_field (@ident "c" 1 8))]
			(vcall (@ident "d" 1 12)))`,
			`(masgn (mlhs (mlhs (lvasgn :a) (lvasgn :b)) (lvasgn :c)) (send nil :d))`},
		{"values and splat", `(massign [(var_field (@ident "a" 1 0)) (var_field (@ident "b" 1 3))]
			(mrhs_add_star (mrhs_new_from_args [(@int "1" 1 7)]) (vcall (@ident "c" 1 11))))`,
			`(masgn (mlhs (lvasgn :a) (lvasgn :b)) (array (int 1) (splat (send nil :c))))`},
	})
}

func TestKwrestShadowing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	src := `(program [
	  (def ~(@kw "def" 1 0) (@ident "foo" 1 4)
	    (paren (params nil nil nil nil nil (kwrest_param (@ident "bar" 1 10)) nil))
	    (bodystmt [(vcall (@ident "bar" 1 16))] nil nil nil))
	  (vcall (@ident "bar" 2 0))
	])`
	n, err := process(t, src)
	require.NoError(t, err)
	assert.Equal(t, `(begin (defn :foo (args :"**bar") (lvar :bar)) (send nil :bar))`, n.ListString())
}

func TestScopeRestoredOnError(t *testing.T) {
	p := New()
	def := raw.NewNode("def", &raw.Token{Kind: "ident", Text: "m"},
		raw.NewNode("params", nil, nil, nil, nil, nil, nil, nil),
		raw.NewNode("bodystmt", raw.List{raw.NewNode("bogus")}, nil, nil, nil))
	_, err := p.Process(raw.NewNode("program", raw.List{def}))
	require.Error(t, err)
	assert.Equal(t, ProgramScope, p.scopes.Current().Kind)
	assert.False(t, p.scopes.InMethod())
}

func TestConditionals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"if elsif else", `(if (vcall (@ident "a" 1 3)) [(@int "1" 1 6)]
			(elsif (vcall (@ident "b" 2 6)) [(@int "2" 2 9)] (else [(@int "3" 3 5)])))`,
			`(if (send nil :a) (int 1) (if (send nil :b) (int 2) (int 3)))`},
		{"unless", `(unless (vcall (@ident "a" 1 7)) [(@int "1" 1 10)] (else [(@int "2" 1 17)]))`,
			`(if (send nil :a) (int 2) (int 1))`},
		{"if modifier", `(if_mod (vcall (@ident "a" 1 5)) (@int "1" 1 0))`,
			`(if (send nil :a) (int 1) nil)`},
		{"unless modifier", `(unless_mod (vcall (@ident "a" 1 9)) (@int "1" 1 0))`,
			`(if (send nil :a) nil (int 1))`},
		{"ternary", `(ifop (vcall (@ident "a" 1 0)) (@int "1" 1 4) (@int "2" 1 8))`,
			`(if (send nil :a) (int 1) (int 2))`},
		{"regexp condition", `(if (regexp_literal ~(@regexp_beg "/" 1 3) (regexp_add (regexp_new) (@tstring_content "a" 1 4))
			(@regexp_end "/" 1 5)) [(void_stmt)] nil)`,
			`(if (match_current_line (regexp (str "a") (regopt))) nil nil)`},
		{"flip-flop", `(if (dot2 (vcall (@ident "a" 1 3)) (vcall (@ident "b" 1 6))) [(void_stmt)] nil)`,
			`(if (iflipflop (send nil :a) (send nil :b)) nil nil)`},
		{"negated flip-flop", `(if (unary :! (paren [(dot3 (vcall (@ident "a" 1 5)) (vcall (@ident "b" 1 9)))])) [(void_stmt)] nil)`,
			`(if (send (eflipflop (send nil :a) (send nil :b)) :!) nil nil)`},
		{"case", `(case (vcall (@ident "x" 1 5))
			(when [(@int "1" 2 5) (@int "2" 2 8)] [(@int "3" 2 15)] (else [(@int "4" 3 5)])))`,
			`(case (send nil :x) (when (int 1) (int 2) (int 3)) (int 4))`},
		{"case without else", `(case nil (when [(vcall (@ident "a" 2 5))] [(void_stmt)] nil))`,
			`(case nil (when (send nil :a) nil) nil)`},
		{"when splat", `(case (vcall (@ident "x" 1 5)) (when (args_add_star [] (vcall (@ident "a" 2 6))) [(@int "1" 2 9)] nil))`,
			`(case (send nil :x) (when (splat (send nil :a)) (int 1)) nil)`},
	})
}

func TestLoops(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"while", `(while (vcall (@ident "a" 1 6)) [(vcall (@ident "b" 1 9))])`,
			`(while (send nil :a) (send nil :b) true)`},
		{"until not match", `(until (binary (vcall (@ident "foo" 1 6)) :!~ (vcall (@ident "bar" 1 13))) [(void_stmt)])`,
			`(while (send (send nil :foo) :=~ (send nil :bar)) nil true)`},
		{"while match", `(while (binary (vcall (@ident "foo" 1 6)) :=~ (vcall (@ident "bar" 1 13))) [(void_stmt)])`,
			`(while (send (send nil :foo) :=~ (send nil :bar)) nil true)`},
		{"while not", `(while (unary :not (vcall (@ident "x" 1 10))) [(void_stmt)])`,
			`(until (send nil :x) nil true)`},
		{"until bang", `(until (unary :! (vcall (@ident "x" 1 7))) [(void_stmt)])`,
			`(while (send nil :x) nil true)`},
		{"postfix begin", `(while_mod (vcall (@ident "b" 1 18)) (begin (bodystmt [(vcall (@ident "a" 1 7))] nil nil nil)))`,
			`(while (send nil :b) (send nil :a) false)`},
		{"postfix", `(until_mod (vcall (@ident "b" 1 8)) (vcall (@ident "a" 1 0)))`,
			`(until (send nil :b) (send nil :a) true)`},
		{"for", `(for [(var_field (@ident "a" 1 4)) (var_field (@ident "b" 1 7))] ~(@kw "in" 1 9)
			(vcall (@ident "c" 1 12)) [(void_stmt)])`,
			`(for (mlhs (lvasgn :a) (lvasgn :b)) (send nil :c) nil)`},
		{"for single", `(for (var_field (@ident "a" 1 4)) ~(@kw "in" 1 6) (vcall (@ident "c" 1 9)) [(vcall (@ident "a" 1 12))])`,
			`(for (lvasgn :a) (send nil :c) (lvar :a))`},
		{"jumps", `(while (var_ref (@kw "true" 1 6)) [(break []) (next (args_add_block [(@int "1" 2 5)] false)) (redo) (retry)])`,
			`(while (true) (begin (break) (next (int 1)) (redo) (retry)) true)`},
	})
}

func TestCalls(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"fcall", `(method_add_arg (fcall (@ident "foo" 1 0)) (arg_paren nil))`,
			`(send nil :foo)`},
		{"arguments", `(method_add_arg (call (vcall (@ident "foo" 1 0)) (@period "." 1 3) (@ident "bar" 1 4))
			(arg_paren (args_add_block (args_add_star [(@int "1" 1 8)] (vcall (@ident "a" 1 12))) (vcall (@ident "b" 1 16)))))`,
			`(send (send nil :foo) :bar (int 1) (splat (send nil :a)) (block_pass (send nil :b)))`},
		{"safe call", `(call (vcall (@ident "a" 1 0)) (@op "&." 1 1) (@ident "b" 1 3))`,
			`(safe_call (send nil :a) :b)`},
		{"scoped call", `(call (var_ref (@const "A" 1 0)) :"::" (@ident "b" 1 3))`,
			`(send (const :A) :b)`},
		{"proc call", `(method_add_arg (call (vcall (@ident "a" 1 0)) (@period "." 1 1) :call) (arg_paren nil))`,
			`(send (send nil :a) :call)`},
		{"command with hash", `(command (@ident "puts" 1 0) (args_add_block [(vcall (@ident "a" 1 5))
			(bare_assoc_hash [(assoc_new (@label "b:" 1 8) (@int "1" 1 11))])] false))`,
			`(send nil :puts (send nil :a) (hash (pair (sym :b) (int 1))))`},
		{"command call", `(command_call (vcall (@ident "a" 1 0)) (@period "." 1 1) (@ident "b" 1 2) (args_add_block [(@int "1" 1 4)] false))`,
			`(send (send nil :a) :b (int 1))`},
		{"aref", `(aref (vcall (@ident "a" 1 0)) (args_add_block [(@int "1" 1 2)] false))`,
			`(send (send nil :a) :[] (int 1))`},
		{"super", `(super (arg_paren (args_add_block [(@int "1" 1 6)] false)))`,
			`(super (int 1))`},
		{"zsuper", `(zsuper)`, `(zsuper)`},
		{"yield", `(yield (args_add_block [(@int "1" 1 6) (@int "2" 1 9)] false))`,
			`(yield (int 1) (int 2))`},
		{"yield0", `(yield0)`, `(yield)`},
		{"return several", `(return (args_add_block [(@int "1" 1 7) (@int "2" 1 10)] false))`,
			`(return (array (int 1) (int 2)))`},
		{"return splat", `(return (args_add_block (args_add_star [] (vcall (@ident "a" 1 8))) false))`,
			`(return (array (splat (send nil :a))))`},
		{"return0", `(return0)`, `(return)`},
		{"forwarding", `(def ~(@kw "def" 1 0) (@ident "m" 1 4) (paren (params nil nil (args_forward) nil nil nil nil))
			(bodystmt [(method_add_arg (fcall (@ident "n" 1 13)) (arg_paren (args_forward)))] nil nil nil))`,
			`(defn :m (args (forward_args)) (send nil :n (forwarded_args)))`},
	})
}

func TestOperators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"plus", `(binary (@int "1" 1 0) :+ (@int "2" 1 4))`, `(send (int 1) :+ (int 2))`},
		{"and", `(binary (vcall (@ident "a" 1 0)) :&& (vcall (@ident "b" 1 5)))`, `(and (send nil :a) (send nil :b))`},
		{"or keyword", `(binary (vcall (@ident "a" 1 0)) :or (vcall (@ident "b" 1 5)))`, `(or (send nil :a) (send nil :b))`},
		{"not", `(unary :not (vcall (@ident "a" 1 4)))`, `(send (send nil :a) :!)`},
		{"negation", `(unary :-@ (vcall (@ident "a" 1 1)))`, `(send (send nil :a) :-@)`},
		{"folded sign", `(unary :-@ (@int "1" 1 1))`, `(int -1)`},
		{"explicit sign", `(unary :-@ (@int "-1" 1 1))`, `(send (int -1) :-@)`},
		{"range", `(dot2 (@int "1" 1 0) (@int "2" 1 3))`, `(irange (int 1) (int 2))`},
		{"endless range", `(dot3 (@int "1" 1 0) nil)`, `(erange (int 1) nil)`},
		{"defined", `(defined (vcall (@ident "a" 1 9)))`, `(defined (send nil :a))`},
	})
}

func TestLiterals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"hex", `(@int "0x1F" 1 0)`, `(int 31)`},
		{"binary", `(@int "0b101" 1 0)`, `(int 5)`},
		{"octal", `(@int "017" 1 0)`, `(int 15)`},
		{"underscores", `(@int "1_000" 1 0)`, `(int 1000)`},
		{"bignum", `(@int "123456789012345678901234567890" 1 0)`, `(int 123456789012345678901234567890)`},
		{"float", `(@float "1.5" 1 0)`, `(float 1.5)`},
		{"rational", `(@rational "3r" 1 0)`, `(rational (3/1))`},
		{"float rational", `(@rational "1.5r" 1 0)`, `(rational (3/2))`},
		{"imaginary", `(@imaginary "2i" 1 0)`, `(complex (0.0+2.0i))`},
		{"nil", `(var_ref (@kw "nil" 1 0))`, `(nil)`},
		{"self", `(var_ref (@kw "self" 1 0))`, `(self)`},
		{"file", `(var_ref (@kw "__FILE__" 1 0))`, `(str "(string)")`},
		{"line", `(var_ref (@kw "__LINE__" 1 0))`, `(int 1)`},
		{"encoding", `(var_ref (@kw "__ENCODING__" 1 0))`, `(colon2 (const :Encoding) :UTF_8)`},
		{"nth ref", `(var_ref (@backref "$1" 1 0))`, `(nth_ref 1)`},
		{"back ref", `(var_ref (@backref "$&" 1 0))`, `(back_ref :$&)`},
		{"scoped const", `(const_path_ref (var_ref (@const "A" 1 0)) (@const "B" 1 3))`, `(colon2 (const :A) :B)`},
		{"top const", `(top_const_ref (@const "A" 1 2))`, `(colon3 :A)`},
		{"empty parens", `(paren [(void_stmt)])`, `(nil)`},
		{"array", `(array [(@int "1" 1 1) (@int "2" 1 4)])`, `(array (int 1) (int 2))`},
		{"empty array", `(array nil)`, `(array)`},
		{"hash rocket", `(hash (assoclist_from_args [(assoc_new (@int "1" 1 1) ~(@op "=>" 1 3) (@int "2" 1 6))]))`,
			`(hash (pair (int 1) (int 2)))`},
		{"hash splat", `(hash (assoclist_from_args [(assoc_splat (vcall (@ident "a" 1 3)))]))`,
			`(hash (kwsplat (send nil :a)))`},
		{"empty hash", `(hash nil)`, `(hash)`},
		{"label shorthand", `(hash (assoclist_from_args [(assoc_new (@label "x:" 1 1) nil)]))`,
			`(hash (pair (sym :x) (send nil :x)))`},
		{"character", `(@CHAR "?a" 1 0)`, `(str "a")`},
	})
}

func TestFilenameOption(t *testing.T) {
	v := raw.NewNode("program", raw.List{raw.NewNode("var_ref", &raw.Token{Kind: "kw", Text: "__FILE__"})})
	n, err := New(WithFilename("lib/x.rb")).Process(v)
	require.NoError(t, err)
	assert.Equal(t, `(str "lib/x.rb")`, n.ListString())
}

func TestStrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"plain", `(string_literal ~(@tstring_beg "\"" 1 0) (string_add (string_content) (@tstring_content "a" 1 1)) ~(@tstring_end "\"" 1 2))`,
			`(str "a")`},
		{"empty", `(string_literal ~(@tstring_beg "\"" 1 0) (string_content) ~(@tstring_end "\"" 1 1))`,
			`(str "")`},
		{"hex escape", `(string_literal ~(@tstring_beg "\"" 1 0) (string_add (string_content) (@tstring_content "\\x41" 1 1)) ~(@tstring_end "\"" 1 5))`,
			`(str "A")`},
		{"octal escape", `(string_literal ~(@tstring_beg "\"" 1 0) (string_add (string_content) (@tstring_content "\\101" 1 1)) ~(@tstring_end "\"" 1 5))`,
			`(str "A")`},
		{"unicode escape", `(string_literal ~(@tstring_beg "\"" 1 0) (string_add (string_content) (@tstring_content "\\u0041" 1 1)) ~(@tstring_end "\"" 1 7))`,
			`(str "A")`},
		{"single quoted", `(string_literal ~(@tstring_beg "'" 1 0) (string_add (string_content) (@tstring_content "\\n" 1 1)) ~(@tstring_end "'" 1 3))`,
			`(str "\\n")`},
		{"interpolation", `(string_literal ~(@tstring_beg "\"" 1 0)
			(string_add (string_add (string_add (string_content) (@tstring_content "a" 1 1))
			  (string_embexpr [(vcall (@ident "b" 1 4))])) (@tstring_content "c" 1 6))
			~(@tstring_end "\"" 1 7))`,
			`(dstr (str "a") (evstr (send nil :b)) (str "c"))`},
		{"empty interpolation", `(string_literal ~(@tstring_beg "\"" 1 0) (string_add (string_content) (string_embexpr [(void_stmt)])) ~(@tstring_end "\"" 1 4))`,
			`(dstr (evstr))`},
		{"variable interpolation", `(string_literal ~(@tstring_beg "\"" 1 0) (string_add (string_content) (string_dvar (var_ref (@ivar "@a" 1 2)))) ~(@tstring_end "\"" 1 4))`,
			`(dstr (evstr (ivar :@a)))`},
		{"concatenation", `(string_concat
			(string_literal ~(@tstring_beg "\"" 1 0) (string_add (string_content) (@tstring_content "a" 1 1)) ~(@tstring_end "\"" 1 2))
			(string_literal ~(@tstring_beg "\"" 1 4) (string_add (string_content) (@tstring_content "b" 1 5)) ~(@tstring_end "\"" 1 6)))`,
			`(str "ab")`},
		{"xstring", `(xstring_literal ~(@backtick "` + "`" + `" 1 0) (xstring_add (xstring_new) (@tstring_content "ls" 1 1)) ~(@tstring_end "` + "`" + `" 1 3))`,
			`(xstr "ls")`},
		{"symbol", `(symbol_literal (symbol ~(@symbeg ":" 1 0) (@ident "foo" 1 1)))`,
			`(sym :foo)`},
		{"keyword symbol", `(symbol_literal (symbol ~(@symbeg ":" 1 0) (@kw "class" 1 1)))`,
			`(sym :class)`},
		{"dynamic symbol", `(dyna_symbol ~(@symbeg ":\"" 1 0)
			(string_add (string_add (string_content) (@tstring_content "a" 1 2)) (string_embexpr [(vcall (@ident "b" 1 5))]))
			~(@tstring_end "\"" 1 7))`,
			`(dsym (str "a") (evstr (send nil :b)))`},
		{"quoted symbol", `(dyna_symbol ~(@symbeg ":\"" 1 0) (string_add (string_content) (@tstring_content "a b" 1 2)) ~(@tstring_end "\"" 1 5))`,
			`(sym :"a b")`},
		{"regexp options", `(regexp_literal ~(@regexp_beg "/" 1 0) (regexp_add (regexp_new) (@tstring_content "a\\d" 1 1))
			(@regexp_end "/imi" 1 4))`,
			`(regexp (str "a\\d") (regopt :i :m))`},
		{"words", `(array ~(@qwords_beg "%w[" 1 0)
			(qwords_add (qwords_add (qwords_new) (@tstring_content "a" 1 3)) (@tstring_content "b" 1 5))
			~(@tstring_end "]" 1 6))`,
			`(array (str "a") (str "b"))`},
		{"interpolated symbols", `(array ~(@symbols_beg "%I[" 1 0)
			(symbols_add (symbols_new) (word_add (word_add (word_new) (@tstring_content "a" 1 3)) (string_embexpr [(vcall (@ident "b" 1 6))])))
			~(@tstring_end "]" 1 8))`,
			`(array (dsym (str "a") (evstr (send nil :b))))`},
		{"symbol words", `(array ~(@qsymbols_beg "%i[" 1 0) (qsymbols_add (qsymbols_new) (@tstring_content "a" 1 3)) ~(@tstring_end "]" 1 4))`,
			`(array (sym :a))`},
	})
}

func TestInvalidEncoding(t *testing.T) {
	src := `(program [(string_literal ~(@tstring_beg "\"" 3 0)
	  (string_add (string_content) (@tstring_content "é\\xff" 3 1)) ~(@tstring_end "\"" 3 7))])`
	_, err := process(t, src)
	require.Error(t, err)
	assert.True(t, ripperparser.IsSyntaxError(err))
	assert.Equal(t, 3, err.(*ripperparser.SyntaxError).Pos.Line)
}

func TestInvalidEscapes(t *testing.T) {
	for _, content := range []string{`\\uD800`, `\\u{110000}`, `\\x`} {
		src := `(program [(string_literal ~(@tstring_beg "\"" 2 0)
		  (string_add (string_content) (@tstring_content "` + content + `" 2 1)) ~(@tstring_end "\"" 2 9))])`
		_, err := process(t, src)
		require.Error(t, err, content)
		assert.True(t, ripperparser.IsSyntaxError(err), content)
		assert.Equal(t, 2, err.(*ripperparser.SyntaxError).Pos.Line, content)
	}
}

func TestBlocks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"brace block", `(method_add_block (method_add_arg (fcall (@ident "foo" 1 0)) [])
			(brace_block (block_var (params [(@ident "a" 1 7)] nil nil nil nil nil nil) false) [(var_ref (@ident "a" 1 10))]))`,
			`(block (send nil :foo) (args :a) (lvar :a))`},
		{"no parameters", `(method_add_block (method_add_arg (fcall (@ident "foo" 1 0)) []) (brace_block nil [(void_stmt)]))`,
			`(block (send nil :foo) (args) nil)`},
		{"procarg0", `(method_add_block (method_add_arg (fcall (@ident "foo" 1 0)) [])
			(brace_block (block_var (params [(mlhs_paren [(@ident "a" 1 8) (@ident "b" 1 11)])] nil nil nil nil nil nil) false) [(void_stmt)]))`,
			`(block (send nil :foo) (args (procarg0 :a :b)) nil)`},
		{"block locals", `(method_add_block (method_add_arg (fcall (@ident "foo" 1 0)) [])
			(brace_block (block_var (params [(@ident "a" 1 7)] nil nil nil nil nil nil) [(@ident "b" 1 10)]) [(void_stmt)]))`,
			`(block (send nil :foo) (args :a (shadow :b)) nil)`},
		{"excessed comma", `(method_add_block (method_add_arg (fcall (@ident "foo" 1 0)) [])
			(brace_block (block_var (params [(@ident "a" 1 7)] nil (excessed_comma) nil nil nil nil) false) [(void_stmt)]))`,
			`(block (send nil :foo) (args :a) nil)`},
		{"numbered parameters", `(method_add_block (method_add_arg (fcall (@ident "foo" 1 0)) [])
			(brace_block nil [(binary (var_ref (@ident "_1" 1 6)) :+ (var_ref (@ident "_2" 1 11)))]))`,
			`(numblock (send nil :foo) 2 (send (lvar :_1) :+ (lvar :_2)))`},
		{"do block", `(method_add_block (command_call (vcall (@ident "a" 1 0)) (@period "." 1 1) (@ident "each" 1 2) nil)
			(do_block (block_var (params [(@ident "x" 1 11)] nil nil nil nil nil nil) false)
			  (bodystmt [(vcall (@ident "b" 2 2))] nil nil nil)))`,
			`(block (send (send nil :a) :each) (args :x) (send nil :b))`},
		{"lambda", `(lambda (paren (params [(@ident "x" 1 3)] nil nil nil nil nil nil)) [(var_ref (@ident "x" 1 8))])`,
			`(block (lambda) (args :x) (lvar :x))`},
		{"lambda without parameters", `(lambda (params nil nil nil nil nil nil nil) [(@int "1" 1 5)])`,
			`(block (lambda) (args) (int 1))`},
	})
}

func TestNumberedParamsOff(t *testing.T) {
	src := `(program [(method_add_block (method_add_arg (fcall (@ident "foo" 1 0)) [])
		(brace_block nil [(var_ref (@ident "_1" 1 6))]))])`
	n, err := process(t, src, WithNumberedParams(false))
	require.NoError(t, err)
	assert.Equal(t, `(block (send nil :foo) (args) (lvar :_1))`, n.ListString())
}

func TestExceptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"rescue else ensure", `(begin (bodystmt [(vcall (@ident "a" 1 7))]
			(rescue (mrhs_new_from_args [(var_ref (@const "A" 1 17))] (var_ref (@const "B" 1 20))) ~(@op "=>" 1 22)
			  (var_field (@ident "e" 1 25)) [(vcall (@ident "b" 1 28))] nil)
			[(vcall (@ident "c" 1 37))]
			(ensure [(vcall (@ident "d" 1 48))])))`,
			`(ensure (rescue (send nil :a) (resbody (array (const :A) (const :B)) (lvasgn :e) (send nil :b)) (send nil :c)) (send nil :d))`},
		{"bare rescue", `(begin (bodystmt [(vcall (@ident "a" 1 7))] (rescue nil nil [(vcall (@ident "b" 1 18))] nil) nil nil))`,
			`(rescue (send nil :a) (resbody (array) nil (send nil :b)) nil)`},
		{"single class", `(begin (bodystmt [(void_stmt)] (rescue [(var_ref (@const "A" 1 14))] nil [(void_stmt)] nil) nil nil))`,
			`(rescue nil (resbody (array (const :A)) nil nil) nil)`},
		{"splat classes", `(begin (bodystmt [(void_stmt)] (rescue (mrhs_add_star (mrhs_new) (vcall (@ident "e" 1 15))) nil [(void_stmt)] nil) nil nil))`,
			`(rescue nil (resbody (array (splat (send nil :e))) nil nil) nil)`},
		{"several clauses", `(begin (bodystmt [(vcall (@ident "a" 1 7))]
			(rescue [(var_ref (@const "A" 2 7))] nil [(@int "1" 2 10)] (rescue [(var_ref (@const "B" 3 7))] nil [(@int "2" 3 10)] nil))
			nil nil))`,
			`(rescue (send nil :a) (resbody (array (const :A)) nil (int 1)) (resbody (array (const :B)) nil (int 2)) nil)`},
		{"ensure only", `(begin (bodystmt [(vcall (@ident "a" 1 7)) (vcall (@ident "b" 1 10))] nil nil (ensure [(vcall (@ident "c" 1 21))])))`,
			`(ensure (begin (send nil :a) (send nil :b)) (send nil :c))`},
		{"rescue modifier", `(rescue_mod (vcall (@ident "a" 1 0)) (vcall (@ident "b" 1 9)))`,
			`(rescue (send nil :a) (resbody (array) nil (send nil :b)) nil)`},
	})
}

func TestDefinitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"all parameter kinds", `(def ~(@kw "def" 1 0) (@ident "m" 1 4) (paren (params
			[(@ident "a" 1 6)] [[(@ident "b" 1 9) (@int "1" 1 13)]] (rest_param (@ident "r" 1 17)) [(@ident "c" 1 20)]
			[[(@label "k:" 1 23) false] [(@label "l:" 1 27) (@int "2" 1 30)]] (kwrest_param (@ident "o" 1 35))
			(blockarg (@ident "blk" 1 39))))
			(bodystmt [(void_stmt)] nil nil nil))`,
			`(defn :m (args :a (lvasgn :b (int 1)) :"*r" :c (kwarg :k) (kwarg :l (int 2)) :"**o" :"&blk") (nil))`},
		{"anonymous parameters", `(def ~(@kw "def" 1 0) (@ident "m" 1 4) (paren (params nil nil (rest_param nil) nil nil (kwrest_param nil) (blockarg nil)))
			(bodystmt [(void_stmt)] nil nil nil))`,
			`(defn :m (args :* :** :&) (nil))`},
		{"no keywords", `(def ~(@kw "def" 1 0) (@ident "m" 1 4) (paren (params nil nil nil nil nil (nokw_param nil) nil))
			(bodystmt [(void_stmt)] nil nil nil))`,
			`(defn :m (args :"**nil") (nil))`},
		{"body statements", `(def ~(@kw "def" 1 0) (@ident "m" 1 4) (params nil nil nil nil nil nil nil)
			(bodystmt [(vcall (@ident "a" 2 2)) (vcall (@ident "b" 3 2))] nil nil nil))`,
			`(defn :m (args) (send nil :a) (send nil :b))`},
		{"endless", `(def ~(@kw "def" 1 0) (@ident "m" 1 4) (params nil nil nil nil nil nil nil) (@int "1" 1 8))`,
			`(defn :m (args) (int 1))`},
		{"keyword name", `(def ~(@kw "def" 1 0) (@kw "class" 1 4) (params nil nil nil nil nil nil nil) (bodystmt [(void_stmt)] nil nil nil))`,
			`(defn :class (args) (nil))`},
		{"singleton", `(defs ~(@kw "def" 1 0) (var_ref (@kw "self" 1 4)) (@period "." 1 8) (@ident "x" 1 9)
			(params nil nil nil nil nil nil nil) (bodystmt [(void_stmt)] nil nil nil))`,
			`(defs (self) :x (args) (nil))`},
		{"class", `(class ~(@kw "class" 1 0) (const_ref (@const "Foo" 1 6)) (var_ref (@const "Bar" 1 12))
			(bodystmt [(vcall (@ident "a" 2 2)) (vcall (@ident "b" 3 2))] nil nil nil))`,
			`(class (const :Foo) (const :Bar) (send nil :a) (send nil :b))`},
		{"empty class", `(class ~(@kw "class" 1 0) (const_path_ref (var_ref (@const "A" 1 6)) (@const "B" 1 9)) nil
			(bodystmt [(void_stmt)] nil nil nil))`,
			`(class (colon2 (const :A) :B) nil)`},
		{"module", `(module ~(@kw "module" 1 0) (const_ref (@const "M" 1 7)) (bodystmt [(vcall (@ident "a" 2 2))] nil nil nil))`,
			`(module (const :M) (send nil :a))`},
		{"alias", `(alias (symbol_literal (@ident "foo" 1 6)) (symbol_literal (@ident "bar" 1 10)))`,
			`(alias (sym :foo) (sym :bar))`},
		{"global alias", `(var_alias (@gvar "$a" 1 6) (@gvar "$b" 1 9))`,
			`(valias :$a :$b)`},
		{"undef", `(undef [(symbol_literal (@ident "a" 1 6)) (symbol_literal (@ident "b" 1 9))])`,
			`(undef (sym :a) (sym :b))`},
		{"BEGIN", `(BEGIN ~(@kw "BEGIN" 1 0) [(vcall (@ident "a" 1 8))])`,
			`(preexe (send nil :a))`},
		{"END", `(END ~(@kw "END" 1 0) [(vcall (@ident "a" 1 6))])`,
			`(postexe (send nil :a))`},
	})
}

func TestComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	src := `(program [
	  (class ~(@comment "# Foo class\n" 1 0) ~(@kw "class" 2 0) (const_ref (@const "Foo" 2 6)) nil
	    (bodystmt [
	      (def ~(@comment "# a method\n" 3 2) ~(@kw "def" 4 2) (@ident "m" 4 6) (params nil nil nil nil nil nil nil)
	        (bodystmt [~(@comment "# inside\n" 5 4) (vcall (@ident "b" 6 4))] nil nil nil))
	    ] nil nil nil))
	])`
	n, err := process(t, src)
	require.NoError(t, err)
	assert.Equal(t, `(class (const :Foo) nil (defn :m (args) (send nil :b)))`, n.ListString())
	assert.Equal(t, "# Foo class\n", n.Comments)
	assert.Equal(t, 2, n.Line)
	m := n.NodeAt(2)
	assert.Equal(t, "# a method\n", m.Comments)
	assert.Equal(t, 4, m.Line)
	sexp.Walk(m, func(x *sexp.Node) bool {
		if x != m {
			assert.Empty(t, x.Comments, "comment attached to %s", x.ListString())
		}
		return true
	})
}

func TestPatternMatching(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rparse.rewrite")
	defer teardown()
	//
	runCases(t, []rewriteCase{
		{"case in", `(case (vcall (@ident "x" 1 5))
			(in ~(@kw "in" 2 0) (if_mod (var_ref (@ident "a" 2 17)) (aryptn nil [(var_field (@ident "a" 2 4))] (var_field (@ident "r" 2 8)) nil))
			  [(@int "1" 2 20)]
			  (in ~(@kw "in" 3 0) (hshptn nil [[(@label "k:" 3 4) nil] [(@label "l:" 3 8) (@int "2" 3 11)]] nil)
			    [(@int "2" 3 18)] (else [(@int "3" 4 5)]))))`,
			`(case_match (send nil :x) (in_pattern (array_pattern (match_var :a) (match_rest (match_var :r))) (if_guard (lvar :a)) (int 1)) (in_pattern (hash_pattern (match_var :k) (pair (sym :l) (int 2))) nil (int 2)) (int 3))`},
		{"right assignment", `(case (vcall (@ident "x" 1 0)) (in ~(@op "=>" 1 2) (aryptn nil [(var_field (@ident "a" 1 6))] nil nil) nil nil))`,
			`(match_pattern (send nil :x) (array_pattern (match_var :a)))`},
		{"in test", `(case (vcall (@ident "x" 1 0)) (in ~(@kw "in" 1 2) (var_ref (@const "Integer" 1 5)) nil nil))`,
			`(match_pattern_p (send nil :x) (const :Integer))`},
		{"pin and alternative", `(case (vcall (@ident "x" 1 0)) (in ~(@kw "in" 1 2)
			(binary (var_ref (@ident "y" 1 6)) :| (@int "1" 1 10)) nil nil))`,
			`(match_pattern_p (send nil :x) (match_alt (pin (lvar :y)) (int 1)))`},
		{"binding", `(case (vcall (@ident "x" 1 0)) (in ~(@kw "in" 1 2)
			(binary (var_ref (@const "Integer" 1 5)) ~(@op "=>" 1 13) :"=>" (var_field (@ident "n" 1 16))) nil nil))`,
			`(match_pattern_p (send nil :x) (match_as (const :Integer) (match_var :n)))`},
		{"const pattern", `(case (vcall (@ident "x" 1 0)) (in ~(@kw "in" 1 2)
			(aryptn (var_ref (@const "Point" 1 5)) [(@int "1" 1 11)] (var_field nil) nil) nil nil))`,
			`(match_pattern_p (send nil :x) (const_pattern (const :Point) (array_pattern (int 1) (match_rest))))`},
		{"find pattern", `(case (vcall (@ident "x" 1 0)) (in ~(@kw "in" 1 2)
			(fndptn nil (var_field nil) [(@int "1" 1 9)] (var_field (@ident "post" 1 13))) nil nil))`,
			`(match_pattern_p (send nil :x) (find_pattern (match_rest) (int 1) (match_rest (match_var :post))))`},
		{"no other keys", `(case (vcall (@ident "x" 1 0)) (in ~(@kw "in" 1 2)
			(hshptn nil [[(@label "a:" 1 6) (var_field (@ident "b" 1 9))]] :nil) nil nil))`,
			`(match_pattern_p (send nil :x) (hash_pattern (pair (sym :a) (match_var :b)) (match_nil_pattern)))`},
		{"pinned expression", `(case (vcall (@ident "x" 1 0)) (in ~(@kw "in" 1 2) (begin (binary (@int "1" 1 7) :+ (@int "1" 1 11))) nil nil))`,
			`(match_pattern_p (send nil :x) (pin (begin (send (int 1) :+ (int 1)))))`},
	})
}
