// Package detectors implements the review rules run over Python source.
// Each rule reports zero or more findings for a file: line rules test every
// line, file rules test the whole text once, and tree rules hook into a
// shared walk of the file's syntax tree.
package detectors
