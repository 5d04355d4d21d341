package main

import "github.com/varalys/pyreview/cmd/pyreview"

func main() { pyreview.Execute() }
