package pytree

// Kind identifies the statement a Node represents.
type Kind int

const (
	KindModule Kind = iota
	KindFunction
	KindClass
	KindFor
	KindWhile
	KindIf
	KindTry
	KindWith
	// KindClause is an else/elif/except/finally clause. It hangs off the
	// statement it belongs to.
	KindClause
	// KindBlock is any other block opener (match, case, ...).
	KindBlock
	KindStatement
)

var kindNames = [...]string{
	KindModule:    "module",
	KindFunction:  "function",
	KindClass:     "class",
	KindFor:       "for",
	KindWhile:     "while",
	KindIf:        "if",
	KindTry:       "try",
	KindWith:      "with",
	KindClause:    "clause",
	KindBlock:     "block",
	KindStatement: "statement",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one statement in the tree. Line is the 1-based line of the
// statement's first token (0 for the module). LastLine is the last line of
// the statement's own tokens that would carry an expression node.
type Node struct {
	Kind     Kind
	Name     string // function/class name, or the clause keyword
	Async    bool
	Line     int
	LastLine int
	Children []*Node

	maxLine int
}

// MaxLine returns the largest line found anywhere in the node's subtree.
func (n *Node) MaxLine() int { return n.maxLine }

// finish computes maxLine bottom-up so lookups during a walk stay O(1).
func (n *Node) finish() int {
	m := n.Line
	if n.LastLine > m {
		m = n.LastLine
	}
	for _, c := range n.Children {
		if cm := c.finish(); cm > m {
			m = cm
		}
	}
	n.maxLine = m
	return m
}

// Hooks are the callbacks a visitor registers for one node kind. Either may
// be nil. Leave runs after all children have been visited.
type Hooks struct {
	Enter func(n *Node)
	Leave func(n *Node)
}

// Visitor maps node kinds to the hooks that should fire for them.
type Visitor map[Kind]Hooks

// Walk traverses the tree depth-first once, dispatching to every visitor.
// Enter hooks run in visitor order and Leave hooks in reverse order.
func Walk(root *Node, visitors ...Visitor) {
	if root == nil {
		return
	}
	table := make(map[Kind][]Hooks)
	for _, v := range visitors {
		for k, h := range v {
			table[k] = append(table[k], h)
		}
	}
	walk(root, table)
}

func walk(n *Node, table map[Kind][]Hooks) {
	hooks := table[n.Kind]
	for _, h := range hooks {
		if h.Enter != nil {
			h.Enter(n)
		}
	}
	for _, c := range n.Children {
		walk(c, table)
	}
	for i := len(hooks) - 1; i >= 0; i-- {
		if hooks[i].Leave != nil {
			hooks[i].Leave(n)
		}
	}
}
