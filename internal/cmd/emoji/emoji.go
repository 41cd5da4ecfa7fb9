// Package emoji provides the status symbols used in CLI tables and messages.
package emoji

const (
	// Success marks a written candidate or a finished step.
	Success = "✓"

	// Error marks a failed candidate or a fatal problem.
	Error = "✗"

	// Warning marks a non-fatal problem such as skipped rows.
	Warning = "!"

	// Pending marks a candidate that was batched but not written.
	Pending = "•"

	// Unchanged marks a write that found the claim already present.
	Unchanged = "="
)
