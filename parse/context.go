package parse

import "github.com/mathijs727/sic/ast"

// Context carries the state that must be threaded through a single
// compile's call tree: the #include parent-path stack (so relative
// #include/#output paths resolve against the right directory) and the
// #constant name→value table referenced by later array-size expressions.
//
// This replaces the original compiler's process-wide g_fileParseStack and
// g_constants globals with an explicit, per-compile object — the redesign
// the spec calls for in its "Global-state requirement" design note.
type Context struct {
	constants map[string]int64
	stack     []frame
}

type frame struct {
	parentDir string
	output    ast.Metadata
}

// NewContext creates an empty parse Context for one compile.
func NewContext() *Context {
	return &Context{constants: make(map[string]int64)}
}

// LookupConstant resolves a #constant name, as referenced from a variable
// array-size expression.
func (c *Context) LookupConstant(name string) (int64, bool) {
	v, ok := c.constants[name]
	return v, ok
}

// DefineConstant records (or overwrites) a #constant binding.
func (c *Context) DefineConstant(name string, value int64) {
	c.constants[name] = value
}

func (c *Context) push(parentDir string, output ast.Metadata) {
	c.stack = append(c.stack, frame{parentDir: parentDir, output: output})
}

func (c *Context) pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Context) top() *frame {
	return &c.stack[len(c.stack)-1]
}

func (c *Context) depth() int {
	return len(c.stack)
}
