package rewrite

import (
	"fmt"
)

// Symbol table for names known to the rewriter. Symbol tables are attached to
// scopes, scopes are organized in a tree.

// --- Tags ------------------------------------------------------------------

// Tag is an entry of a symbol table.
type Tag struct {
	name string
	Typ  int8
}

// Tag types
const (
	Undefined int8 = iota
	KwrestParam
)

// NewTag creates a new tag.
func NewTag(nm string) *Tag {
	return &Tag{name: nm}
}

// WithType sets the type of a tag. Use as
//
//	tag := NewTag("opts").WithType(KwrestParam)
//
func (t *Tag) WithType(typ int8) *Tag {
	t.Typ = typ
	return t
}

// Name gets the tag's name.
func (t *Tag) Name() string {
	return t.name
}

func (t *Tag) String() string {
	return fmt.Sprintf("<tag '%s':%d>", t.name, t.Typ)
}

// === Symbol Tables =========================================================

// SymbolTable is a symbol table to store tags (map-like semantics).
type SymbolTable struct {
	Table map[string]*Tag
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{Table: make(map[string]*Tag)}
}

// ResolveTag checks for a tag in the symbol table.
// Returns a tag or nil.
func (t *SymbolTable) ResolveTag(tagname string) *Tag {
	return t.Table[tagname]
}

// InsertTag inserts a tag, overwriting an existing tag of the same name.
// Returns the previously stored tag (or nil).
func (t *SymbolTable) InsertTag(tag *Tag) *Tag {
	old := t.Table[tag.name]
	t.Table[tag.name] = tag
	return old
}

// Size counts the tags in a symbol table.
func (t *SymbolTable) Size() int {
	return len(t.Table)
}

// === Scopes ================================================================

// ScopeKind tells what kind of body a scope belongs to.
type ScopeKind int8

// Kinds of scopes
const (
	ProgramScope ScopeKind = iota
	MethodScope
	ClassScope // class, module or singleton class body
)

func (k ScopeKind) String() string {
	switch k {
	case MethodScope:
		return "method"
	case ClassScope:
		return "class"
	}
	return "program"
}

// Scope is a named scope, which may contain symbol definitions. Scopes link
// back to a parent scope, forming a tree.
type Scope struct {
	Name   string
	Kind   ScopeKind
	Parent *Scope
	symtab *SymbolTable
}

// NewScope creates a new scope.
func NewScope(nm string, kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		Name:   nm,
		Kind:   kind,
		Parent: parent,
		symtab: NewSymbolTable(),
	}
}

func (s *Scope) String() string {
	return fmt.Sprintf("<scope %s %s>", s.Kind, s.Name)
}

// Tags returns the symbol table of a scope.
func (s *Scope) Tags() *SymbolTable {
	return s.symtab
}

// DefineTag defines a tag in the scope. Returns the new tag and the previously
// stored tag under this key, if any.
func (s *Scope) DefineTag(tagname string, typ int8) (*Tag, *Tag) {
	if tagname == "" {
		return nil, nil
	}
	tag := NewTag(tagname).WithType(typ)
	return tag, s.symtab.InsertTag(tag)
}

// ResolveTag finds a tag, searching outwards up to and including the
// innermost method or class scope: definitions of an enclosing method are
// not visible in a nested class body. Returns the tag (or nil) and the scope
// the tag was found in.
func (s *Scope) ResolveTag(tagname string) (*Tag, *Scope) {
	for sc := s; sc != nil; sc = sc.Parent {
		if tag := sc.symtab.ResolveTag(tagname); tag != nil {
			return tag, sc
		}
		if sc.Kind != ProgramScope {
			break
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------

// ScopeTree can be treated as a stack during rewriting, thus building a tree
// from scopes which are pushed and popped to/from the stack.
type ScopeTree struct {
	ScopeBase *Scope
	ScopeTOS  *Scope
}

// NewScopeTree creates a scope tree with a program scope as its base.
func NewScopeTree() *ScopeTree {
	st := &ScopeTree{}
	st.PushNewScope("main", ProgramScope)
	return st
}

// Current gets the current scope of a stack (TOS).
func (st *ScopeTree) Current() *Scope {
	return st.ScopeTOS
}

// PushNewScope pushes a scope onto the stack of scopes.
func (st *ScopeTree) PushNewScope(nm string, kind ScopeKind) *Scope {
	newsc := NewScope(nm, kind, st.ScopeTOS)
	if st.ScopeTOS == nil {
		st.ScopeBase = newsc
	}
	st.ScopeTOS = newsc
	tracer().Debugf("pushing new scope %s", newsc)
	return newsc
}

// PopScope pops the top-most (recent) scope. The base scope is never popped.
func (st *ScopeTree) PopScope() *Scope {
	sc := st.ScopeTOS
	if sc == nil || sc == st.ScopeBase {
		return sc
	}
	tracer().Debugf("popping scope %s", sc)
	st.ScopeTOS = sc.Parent
	return sc
}

// InMethod is true if the innermost method or class scope is a method.
func (st *ScopeTree) InMethod() bool {
	for sc := st.ScopeTOS; sc != nil; sc = sc.Parent {
		switch sc.Kind {
		case MethodScope:
			return true
		case ClassScope:
			return false
		}
	}
	return false
}

// IsKwrest checks if name is the keyword rest parameter of the enclosing
// method.
func (st *ScopeTree) IsKwrest(name string) bool {
	tag, _ := st.ScopeTOS.ResolveTag(name)
	return tag != nil && tag.Typ == KwrestParam
}
