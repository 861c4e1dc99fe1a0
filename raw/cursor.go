package raw

// Cursor consumes the arguments of a node from the front. It works on its own
// copy of the arguments, so the node itself is left unchanged.
type Cursor struct {
	tag  string
	vals []Value
}

// NewCursor creates a cursor over the arguments of a node.
func NewCursor(n *Node) *Cursor {
	if n == nil {
		return &Cursor{}
	}
	return &Cursor{tag: n.Tag, vals: append([]Value(nil), n.Args...)}
}

// ListCursor creates a cursor over the elements of a list.
func ListCursor(l List) *Cursor {
	return &Cursor{vals: append([]Value(nil), l...)}
}

// Tag returns the tag of the node the cursor was created for.
func (c *Cursor) Tag() string {
	return c.tag
}

// Shift removes and returns the first value. An exhausted cursor returns nil.
func (c *Cursor) Shift() Value {
	if len(c.vals) == 0 {
		return nil
	}
	v := c.vals[0]
	c.vals = c.vals[1:]
	return v
}

// ShiftN removes and returns the first n values. If fewer are left, the
// result is padded with nil.
func (c *Cursor) ShiftN(n int) []Value {
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		out[i] = c.Shift()
	}
	return out
}

// Rest removes and returns all remaining values.
func (c *Cursor) Rest() []Value {
	rest := c.vals
	c.vals = nil
	return rest
}

// Len returns the number of values left.
func (c *Cursor) Len() int {
	return len(c.vals)
}

// Peek returns the first value without removing it.
func (c *Cursor) Peek() Value {
	if len(c.vals) == 0 {
		return nil
	}
	return c.vals[0]
}
