package pytree

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// SyntaxError reports source the tree builder could not make sense of.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func syntaxErr(line int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// atom is one significant piece of a logical line. Punctuation is split
// into single runes so bracket depth can be tracked per character.
type atom struct {
	typ    chroma.TokenType
	value  string
	line   int
	depth  int
	counts bool // contributes to the statement's last line
	spaced bool // whitespace separates it from the previous atom

	strStart bool // begins a string literal (prefix or opening quote)
	strEnd   bool // ends a string literal
}

func (a atom) isPunct(s string) bool {
	return a.typ == chroma.Punctuation && a.value == s
}

func (a atom) isKeyword(s string) bool {
	return a.typ.InCategory(chroma.Keyword) && a.value == s
}

type logicalLine struct {
	atoms  []atom
	line   int
	indent int
	alt    int // indent with tabs counted as one column
}

type opener struct {
	r    rune
	line int
}

var closers = map[rune]rune{')': '(', ']': '[', '}': '{'}

// Parse builds the statement tree for src. Line numbers are 1-based.
func Parse(src string) (*Node, error) {
	src = normalizeNewlines(src)
	lines, err := logicalLines(src)
	if err != nil {
		return nil, err
	}
	root, err := build(lines)
	if err != nil {
		return nil, err
	}
	root.finish()
	return root, nil
}

// normalizeNewlines turns CRLF and lone CR line endings into LF, the way
// the lexer sees them.
func normalizeNewlines(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return strings.ReplaceAll(src, "\r", "\n")
}

func logicalLines(src string) ([]logicalLine, error) {
	lexer := lexers.Get("python")
	if lexer == nil {
		return nil, fmt.Errorf("python lexer not registered")
	}
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return nil, fmt.Errorf("tokenise: %w", err)
	}
	indents := physicalIndents(src)

	var (
		out      []logicalLine
		cur      []atom
		brackets []opener
		line     = 1
		cont     bool // saw a backslash, next newline continues the line
		inString bool // previous significant atom was a string
		gap      bool // whitespace since the last atom
		quote    string
		quoteAt  int
		prefixed bool // previous atom was a string prefix
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		first := cur[0].line
		ll := logicalLine{atoms: cur, line: first}
		if first-1 < len(indents) {
			ll.indent, ll.alt = indents[first-1].col, indents[first-1].alt
		}
		out = append(out, ll)
		cur = nil
	}
	push := func(a atom) {
		a.depth = len(brackets)
		a.spaced = gap
		gap = false
		cur = append(cur, a)
	}

	for tok := it(); tok != chroma.EOF; tok = it() {
		if tok.Value == "" {
			continue
		}
		switch {
		case tok.Type == chroma.Error:
			return nil, syntaxErr(line, "invalid character %q", tok.Value)

		case tok.Type.InCategory(chroma.Comment):
			// comments never contain the newline that ends them
			line += strings.Count(tok.Value, "\n")

		case tok.Type.InCategory(chroma.Text):
			for _, r := range tok.Value {
				switch {
				case r == '\n':
					if len(quote) == 1 {
						return nil, syntaxErr(quoteAt, "unterminated string literal (detected at line %d)", line)
					}
					line++
					gap = true
					if cont {
						cont = false
						continue
					}
					if len(brackets) == 0 {
						flush()
					}
				case r == '\\':
					cont = true
				case unicode.IsSpace(r):
					gap = true
				default:
					cont = false
					push(atom{typ: tok.Type, value: string(r), line: line, counts: true})
					inString = false
					prefixed = false
				}
			}

		case tok.Type.InSubCategory(chroma.LiteralString):
			a := atom{typ: tok.Type, value: tok.Value, line: line, counts: !inString}
			switch {
			case quote != "":
				if tok.Value == quote && tok.Type != chroma.LiteralStringInterpol {
					a.strEnd = true
					quote = ""
				}
			case tok.Type == chroma.LiteralStringAffix:
				a.strStart = true
			case tok.Type == chroma.LiteralStringDoc:
				a.strStart, a.strEnd = !prefixed, true
			default:
				if q := openingQuote(tok.Value); q != "" {
					a.strStart = !prefixed
					quote, quoteAt = q, line
				}
			}
			push(a)
			prefixed = tok.Type == chroma.LiteralStringAffix
			inString = true
			cont = false
			line += strings.Count(tok.Value, "\n")

		case tok.Type.InCategory(chroma.Punctuation):
			for _, r := range tok.Value {
				switch r {
				case '(', '[', '{':
					push(atom{typ: chroma.Punctuation, value: string(r), line: line})
					brackets = append(brackets, opener{r: r, line: line})
				case ')', ']', '}':
					if len(brackets) == 0 {
						return nil, syntaxErr(line, "unmatched '%c'", r)
					}
					top := brackets[len(brackets)-1]
					if top.r != closers[r] {
						return nil, syntaxErr(line, "closing parenthesis '%c' does not match opening parenthesis '%c'", r, top.r)
					}
					brackets = brackets[:len(brackets)-1]
					push(atom{typ: chroma.Punctuation, value: string(r), line: line})
				case '\n':
					line++
				default:
					if !unicode.IsSpace(r) {
						push(atom{typ: chroma.Punctuation, value: string(r), line: line})
					}
				}
			}
			inString = false
			prefixed = false
			cont = false

		default:
			push(atom{
				typ:    tok.Type,
				value:  tok.Value,
				line:   line,
				counts: !tok.Type.InCategory(chroma.Operator),
			})
			inString = false
			prefixed = false
			cont = false
			line += strings.Count(tok.Value, "\n")
		}
	}
	if quote != "" {
		if len(quote) == 3 {
			return nil, syntaxErr(quoteAt, "unterminated triple-quoted string literal (detected at line %d)", line)
		}
		return nil, syntaxErr(quoteAt, "unterminated string literal (detected at line %d)", line)
	}
	if len(brackets) > 0 {
		top := brackets[len(brackets)-1]
		return nil, syntaxErr(top.line, "'%c' was never closed", top.r)
	}
	flush()
	return out, nil
}

func openingQuote(v string) string {
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(v, q) {
			return q
		}
	}
	return ""
}

type indentWidth struct {
	col int // tabs advance to the next multiple of 8
	alt int // tabs count as a single column
}

// physicalIndents returns the indentation width of every physical line. A
// form feed resets the count.
func physicalIndents(src string) []indentWidth {
	raw := strings.Split(src, "\n")
	out := make([]indentWidth, len(raw))
	for i, l := range raw {
		var w indentWidth
	scan:
		for _, r := range l {
			switch r {
			case ' ':
				w.col++
				w.alt++
			case '\t':
				w.col = (w.col/8 + 1) * 8
				w.alt++
			case '\f':
				w = indentWidth{}
			default:
				break scan
			}
		}
		out[i] = w
	}
	return out
}

type frame struct {
	indent int
	alt    int
	node   *Node
}

// checkTabs rejects indentation whose meaning depends on the tab size: the
// line must compare the same way against the block stack whether a tab is
// eight columns or one.
func checkTabs(ll logicalLine, stack []frame) error {
	top := stack[len(stack)-1]
	bad := false
	switch {
	case ll.indent > top.indent:
		bad = ll.alt <= top.alt
	case ll.indent == top.indent:
		bad = ll.alt != top.alt
	default:
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].indent == ll.indent {
				bad = stack[i].alt != ll.alt
				break
			}
			if stack[i].indent < ll.indent {
				break
			}
		}
	}
	if bad {
		return syntaxErr(ll.line, "inconsistent use of tabs and spaces in indentation")
	}
	return nil
}

func build(lines []logicalLine) (*Node, error) {
	root := &Node{Kind: KindModule}
	stack := []frame{{indent: 0, node: root}}
	var pending *Node

	for _, ll := range lines {
		if err := checkTabs(ll, stack); err != nil {
			return nil, err
		}
		top := stack[len(stack)-1]
		switch {
		case pending != nil:
			if ll.indent <= top.indent {
				return nil, syntaxErr(ll.line, "expected an indented block after %s statement on line %d", describe(pending), pending.Line)
			}
			stack = append(stack, frame{indent: ll.indent, alt: ll.alt, node: pending})
			pending = nil
		case ll.indent > top.indent:
			return nil, syntaxErr(ll.line, "unexpected indent")
		default:
			for len(stack) > 1 && ll.indent < stack[len(stack)-1].indent {
				stack = stack[:len(stack)-1]
			}
			if ll.indent != stack[len(stack)-1].indent {
				return nil, syntaxErr(ll.line, "unindent does not match any outer indentation level")
			}
		}

		if err := checkAtoms(ll.atoms); err != nil {
			return nil, err
		}
		node, opens, err := classify(ll)
		if err != nil {
			return nil, err
		}
		parent := stack[len(stack)-1].node
		if node.Kind == KindClause {
			owner, err := clauseOwner(parent, node)
			if err != nil {
				return nil, err
			}
			owner.Children = append(owner.Children, node)
		} else {
			parent.Children = append(parent.Children, node)
		}
		if opens {
			pending = node
		}
	}
	if pending != nil {
		return nil, syntaxErr(pending.LastLine+1, "expected an indented block after %s statement on line %d", describe(pending), pending.Line)
	}
	return root, nil
}

func describe(n *Node) string {
	switch n.Kind {
	case KindFunction:
		return "function definition"
	case KindClass:
		return "class definition"
	case KindClause:
		return "'" + n.Name + "'"
	case KindBlock, KindStatement:
		return "block"
	}
	return "'" + n.Kind.String() + "'"
}

var clauseOwners = map[string][]Kind{
	"else":    {KindIf, KindFor, KindWhile, KindTry},
	"elif":    {KindIf},
	"except":  {KindTry},
	"finally": {KindTry},
}

// clauseOwner finds the statement a clause continues: the last statement
// added at the clause's own level.
func clauseOwner(parent, clause *Node) (*Node, error) {
	if len(parent.Children) == 0 {
		return nil, syntaxErr(clause.Line, "invalid syntax: '%s' without a matching statement", clause.Name)
	}
	owner := parent.Children[len(parent.Children)-1]
	ok := false
	for _, k := range clauseOwners[clause.Name] {
		if owner.Kind == k {
			ok = true
			break
		}
	}
	if !ok {
		return nil, syntaxErr(clause.Line, "invalid syntax: '%s' without a matching statement", clause.Name)
	}
	if n := len(owner.Children); n > 0 {
		prev := owner.Children[n-1]
		if prev.Kind == KindClause && (prev.Name == "finally" || (prev.Name == "else" && clause.Name != "finally")) {
			return nil, syntaxErr(clause.Line, "invalid syntax: '%s' after '%s'", clause.Name, prev.Name)
		}
	}
	return owner, nil
}

var compound = map[string]Kind{
	"def":     KindFunction,
	"class":   KindClass,
	"for":     KindFor,
	"while":   KindWhile,
	"if":      KindIf,
	"try":     KindTry,
	"with":    KindWith,
	"else":    KindClause,
	"elif":    KindClause,
	"except":  KindClause,
	"finally": KindClause,
}

// classify turns a logical line into a node and reports whether the line
// opens an indented block.
func classify(ll logicalLine) (*Node, bool, error) {
	atoms := ll.atoms
	node := &Node{Kind: KindStatement, Line: ll.line}

	kw, async, rest := leadingKeyword(atoms)
	kind, isCompound := compound[kw]
	last := atoms[len(atoms)-1]
	opens := last.isPunct(":") && last.depth == 0

	if !isCompound {
		if opens {
			node.Kind = KindBlock
		}
		node.LastLine = lastLine(atoms, ll.line)
		return node, opens, nil
	}

	node.Kind = kind
	node.Async = async
	switch kind {
	case KindFunction, KindClass:
		for _, a := range atoms[rest:] {
			if a.typ.InCategory(chroma.Name) {
				node.Name = a.value
				break
			}
		}
	case KindClause:
		node.Name = kw
	}

	if opens {
		node.LastLine = lastLine(atoms, ll.line)
		return node, true, nil
	}

	colon := headerColon(atoms[rest:])
	if colon < 0 {
		return nil, false, syntaxErr(ll.line, "expected ':'")
	}
	colon += rest
	node.LastLine = lastLine(atoms[:colon], ll.line)
	body := atoms[colon+1:]
	node.Children = append(node.Children, &Node{
		Kind:     KindStatement,
		Line:     body[0].line,
		LastLine: lastLine(body, body[0].line),
	})
	return node, false, nil
}

// leadingKeyword returns the statement keyword, whether it was prefixed by
// async, and the index of the first atom after the keyword.
func leadingKeyword(atoms []atom) (string, bool, int) {
	if !atoms[0].typ.InCategory(chroma.Keyword) {
		return "", false, 0
	}
	words := strings.Fields(atoms[0].value)
	if len(words) == 0 {
		return "", false, 1
	}
	if words[0] != "async" {
		return words[0], false, 1
	}
	if len(words) > 1 {
		return words[1], true, 1
	}
	if len(atoms) > 1 && atoms[1].typ.InCategory(chroma.Keyword) {
		return atoms[1].value, true, 2
	}
	return "", false, 1
}

// headerColon finds the depth-0 colon ending a compound statement header,
// skipping colons that belong to lambdas.
func headerColon(atoms []atom) int {
	lambdas := map[int]int{}
	for i, a := range atoms {
		switch {
		case a.isKeyword("lambda"):
			lambdas[a.depth]++
		case a.isPunct(":"):
			if lambdas[a.depth] > 0 {
				lambdas[a.depth]--
				continue
			}
			if a.depth == 0 {
				return i
			}
		}
	}
	return -1
}

func lastLine(atoms []atom, fallback int) int {
	m := 0
	for _, a := range atoms {
		if a.counts && a.line > m {
			m = a.line
		}
	}
	if m == 0 {
		return fallback
	}
	return m
}
