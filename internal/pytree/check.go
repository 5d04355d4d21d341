package pytree

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
)

// The lexer emits most multi-character operators one character at a time,
// so touching operator atoms are rejoined and split greedily against the
// operators Python knows.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"->", "**", "//", ">>", "<<", "<=", ">=", "==", "!=", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">", "=", ".",
}

// unary operators may directly follow another operator.
var unary = map[string]bool{"-": true, "+": true, "~": true, "*": true, "**": true}

func splitOperators(run string) ([]string, bool) {
	var out []string
next:
	for run != "" {
		for _, op := range operators {
			if strings.HasPrefix(run, op) {
				out = append(out, op)
				run = run[len(op):]
				continue next
			}
		}
		return nil, false
	}
	return out, true
}

func isNumber(a atom) bool { return a.typ.InSubCategory(chroma.LiteralNumber) }

func isString(a atom) bool { return a.typ.InSubCategory(chroma.LiteralString) }

// operand reports whether the atom starts and ends a value on its own.
// Strings are handled separately through strStart and strEnd.
func operand(a atom) bool {
	switch {
	case isNumber(a):
		return true
	case a.typ.InCategory(chroma.Name):
		return true
	case a.typ == chroma.KeywordConstant:
		return true
	}
	return false
}

// checkAtoms catches the malformed expressions that would otherwise still
// build a plausible tree: two values with nothing between them, operators
// that cannot follow each other, a dangling trailing operator, and bad
// number literals. Import statements are skipped; the lexer reads their
// dotted names and commas differently.
func checkAtoms(atoms []atom) error {
	if len(atoms) == 0 || atoms[0].typ == chroma.KeywordNamespace {
		return nil
	}
	var (
		prevEnd  bool // the previous atom ends a value
		prevStr  bool // ... and that value is a string
		prevNum  bool // the previous atom is a number literal
		ops      []string
		lastWord bool // the previous atom is and/or/not/in/is
	)
	for i := 0; i < len(atoms); i++ {
		a := atoms[i]

		if a.typ == chroma.Operator {
			run := a.value
			j := i + 1
			for j < len(atoms) && atoms[j].typ == chroma.Operator && !atoms[j].spaced {
				run += atoms[j].value
				j++
			}
			i = j - 1
			parts, ok := splitOperators(run)
			if !ok {
				return syntaxErr(a.line, "invalid syntax")
			}
			for _, op := range parts {
				if op == "..." {
					if prevEnd {
						return syntaxErr(a.line, "invalid syntax")
					}
					prevEnd, prevStr, prevNum, ops = true, false, false, nil
					continue
				}
				if len(ops) > 0 && !unary[op] {
					return syntaxErr(a.line, "invalid syntax")
				}
				ops = append(ops, op)
				prevEnd, prevStr, prevNum = false, false, false
			}
			lastWord = false
			continue
		}
		ops = nil
		lastWord = a.typ == chroma.OperatorWord

		if isNumber(a) {
			if err := checkNumber(a); err != nil {
				return err
			}
		}

		start, end := operand(a), operand(a)
		if isString(a) {
			start, end = a.strStart, a.strEnd
		}
		if a.typ == chroma.Punctuation {
			end = strings.ContainsAny(a.value, ")]}")
		}

		if start && prevEnd {
			switch {
			case prevStr && isString(a):
				// implicit concatenation
			case prevNum && !a.spaced && (a.value == "j" || a.value == "J"):
				// imaginary literal: 5j, 1.5J
				prevNum = false
				continue
			case i == 1 && atoms[0].value == "type" && a.typ.InCategory(chroma.Name):
				// type alias statement
			default:
				return syntaxErr(a.line, "invalid syntax")
			}
		}
		prevEnd = end
		prevStr = end && isString(a)
		prevNum = isNumber(a)
	}
	if len(ops) > 0 || lastWord {
		return syntaxErr(atoms[len(atoms)-1].line, "invalid syntax")
	}
	return nil
}

func checkNumber(a atom) error {
	if a.typ != chroma.LiteralNumberInteger {
		return nil
	}
	v := a.value
	if len(v) > 1 && v[0] == '0' && strings.Trim(v, "0_") != "" {
		return syntaxErr(a.line, "leading zeros in decimal integer literals are not permitted")
	}
	return nil
}
