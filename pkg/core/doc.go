// Package core provides a small, stable facade over pyreview's internal
// analyzer and report generator for external integrations. Internal
// packages stay free to change behind it.
//
// Example:
//
//	findings := core.AnalyzeFile("app/views.py")
//	_ = core.MarshalFindings(os.Stdout, findings)
//	fmt.Print(core.GenerateReview("app/views.py", "security"))
package core
