package rewrite

import (
	"github.com/mvz/ripper-parser-sub000/raw"
	"github.com/mvz/ripper-parser-sub000/sexp"
)

var collectionHandlers = map[string]handler{
	"array":               array,
	"hash":                hash,
	"bare_assoc_hash":     hash,
	"assoclist_from_args": hash,
	"assoc_new":           assocNew,
	"assoc_splat":         assocSplat,
}

// array rewrites array literals. Word lists are rewritten by their own
// handlers.
func array(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	v := c.Shift()
	if raw.Is(v, "words", "qwords", "symbols", "qsymbols") {
		return p.Process(v)
	}
	elems, err := p.callArgs(v)
	if err != nil {
		return nil, err
	}
	return sexp.S("array", elems...), nil
}

func hash(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	h := sexp.S("hash")
	if err := p.assocs(h, raw.List(c.Rest())); err != nil {
		return nil, err
	}
	return h, nil
}

// assocs appends the rewritten pairs of an association list to a hash.
func (p *Processor) assocs(h *sexp.Node, v raw.Value) error {
	switch x := v.(type) {
	case nil:
		return nil
	case raw.List:
		for _, a := range x {
			if err := p.assocs(h, a); err != nil {
				return err
			}
		}
		return nil
	case *raw.Node:
		if x != nil && x.Tag == "assoclist_from_args" {
			return p.assocs(h, raw.List(x.Args))
		}
	}
	n, err := p.Process(v)
	if err != nil {
		return err
	}
	h.Push(n)
	return nil
}

// assocNew rewrites a hash pair. A label without value (`{x:}`) is a call
// of the method of this name.
func assocNew(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	k := c.Shift()
	key, err := p.Process(k)
	if err != nil {
		return nil, err
	}
	v := c.Shift()
	var value *sexp.Node
	if raw.IsNil(v) && key.Is("sym") {
		value = sexp.S("send", nil, key.Children[0]).WithLine(key.Line)
	} else if value, err = p.Process(v); err != nil {
		return nil, err
	}
	return atLine(sexp.S("pair", key, value), k), nil
}

func assocSplat(p *Processor, c *raw.Cursor) (*sexp.Node, error) {
	v := c.Shift()
	if raw.IsNil(v) {
		return sexp.S("kwsplat"), nil
	}
	x, err := p.Process(v)
	if err != nil {
		return nil, err
	}
	return sexp.S("kwsplat", x), nil
}
