// Package pytree builds a lightweight syntax tree for Python source. The
// tree captures statement structure only (functions, classes, loops and the
// other compound statements with their nested bodies) which is all the
// structural detectors need. Tokenisation uses chroma's Python lexer; block
// structure is recovered from indentation the same way the Python tokenizer
// does it.
package pytree
