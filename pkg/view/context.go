package view

// Context owns the live viewpoint used while rendering a frame. It is not
// safe for concurrent use.
type Context struct {
	current Viewpoint
}

func NewContext(initial Viewpoint) *Context {
	return &Context{current: initial}
}

func (c *Context) Current() Viewpoint { return c.current }

func (c *Context) Set(v Viewpoint) { c.current = v }

func (c *Context) Save() Viewpoint { return c.current }

func (c *Context) Restore(saved Viewpoint) { c.current = saved }

// With makes v current for the duration of fn. The previous viewpoint is
// restored however fn exits, panics included.
func (c *Context) With(v Viewpoint, fn func()) {
	saved := c.Save()
	defer c.Restore(saved)

	c.Set(v)
	fn()
}
