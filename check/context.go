package check

// Context maps variables in scope to their types. Extend copies, so a
// binding introduced for one premise never leaks into a sibling premise.
type Context struct {
	bindings map[string]Type
}

func NewContext() *Context {
	return &Context{bindings: make(map[string]Type)}
}

// Bind adds a binding in place.
func (c *Context) Bind(name string, t Type) {
	c.bindings[name] = t
}

// Lookup returns the type bound to name.
func (c *Context) Lookup(name string) (Type, bool) {
	t, ok := c.bindings[name]
	return t, ok
}

// Extend returns a copy of the context with one extra binding.
func (c *Context) Extend(name string, t Type) *Context {
	next := NewContext()
	for k, v := range c.bindings {
		next.bindings[k] = v
	}
	next.bindings[name] = t
	return next
}
