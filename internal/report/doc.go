// Package report turns findings into output: the markdown review, a
// terminal table, JSON and SARIF.
package report
