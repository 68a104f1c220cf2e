package cli

import "sort"

// RunFunc is a command handler.
type RunFunc func(c *Context) error

// ArgsFunc validates positional args. Errors it returns are usage errors (exit code 2) unless they are an ExitCoder with another code.
type ArgsFunc func(args []string) error

// Command is one node of a command tree: the root program or a subcommand such as "files" in "splitdiff files a b".
type Command struct {
	Name string // token that selects this command; the program name for the root

	Short   string
	Long    string
	Example string

	Args ArgsFunc // optional
	Run  RunFunc  // nil for commands that only group subcommands

	parent          *Command
	children        []*Command
	localFlags      *FlagSet
	persistentFlags *FlagSet
}

// AddCommand attaches children under c. It panics on nil, unnamed, or already attached children.
func (c *Command) AddCommand(children ...*Command) {
	for _, child := range children {
		switch {
		case child == nil:
			panic("cli: AddCommand called with nil child")
		case child.parent != nil:
			panic("cli: AddCommand called with a child already attached to a parent")
		case child.Name == "":
			panic("cli: AddCommand called with a child with empty Name")
		}
		c.children = append(c.children, child)
		child.parent = c
	}
}

// Commands returns the direct children of c.
func (c *Command) Commands() []*Command {
	return append([]*Command(nil), c.children...)
}

// Flags returns c's local flags. They are not inherited by subcommands.
func (c *Command) Flags() *FlagSet {
	if c.localFlags == nil {
		c.localFlags = newFlagSet()
	}
	return c.localFlags
}

// PersistentFlags returns flags accepted by c and every command below it.
func (c *Command) PersistentFlags() *FlagSet {
	if c.persistentFlags == nil {
		c.persistentFlags = newFlagSet()
	}
	return c.persistentFlags
}

// Changed reports whether the flag named name, as seen from c (its local flags plus the persistent flags of c and its ancestors), was given
// on the command line.
func (c *Command) Changed(name string) bool {
	def, ok := c.activeFlags().byLong[name]
	return ok && def.changed
}

// VisitChanged calls fn, in name order, for each flag active on c that was given on the command line. value is the parsed bool, string, int,
// or float64. It lets callers layer command-line values over other configuration without reading every bound variable.
func (c *Command) VisitChanged(fn func(name string, value any)) {
	active := c.activeFlags()
	names := make([]string, 0, len(active.byLong))
	for name, def := range active.byLong {
		if def.changed {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fn(name, active.byLong[name].value())
	}
}

func (c *Command) childByToken(token string) *Command {
	for _, child := range c.children {
		if child.Name == token {
			return child
		}
	}
	return nil
}

// pathFromRoot returns the commands from the root down to c, inclusive.
func (c *Command) pathFromRoot() []*Command {
	depth := 0
	for cur := c; cur != nil; cur = cur.parent {
		depth++
	}
	path := make([]*Command, depth)
	for cur := c; cur != nil; cur = cur.parent {
		depth--
		path[depth] = cur
	}
	return path
}
