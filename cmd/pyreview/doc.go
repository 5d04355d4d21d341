// Package pyreview provides the command-line interface for pyreview. It
// wires configuration, logging and the analyzer into cobra subcommands
// (review, rules, test-rule, templates, config, completion).
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/varalys/pyreview/cmd/pyreview"
//	func main() { pyreview.Execute() }
package pyreview
