// Package engine contains the analyzer for pyreview. It reads Python files,
// runs the review rules in a fixed order with per-rule isolation, and
// returns structured findings. It can also walk a directory and review each
// file independently. This package is internal; external consumers should
// use the stable facade in pkg/core.
package engine
