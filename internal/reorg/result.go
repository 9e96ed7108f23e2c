package reorg

import "fmt"

// RefResult is the outcome of processing one image reference.
type RefResult struct {
	// Document is the markdown file owning the reference.
	Document string

	// OldPath is the image's path before the run.
	OldPath string

	// NewPath is the destination path. For already-compliant references it
	// equals OldPath. Unset when Err is set.
	NewPath string

	// AlreadyCompliant means the image was already in place under its
	// final name; nothing moved and nothing was rewritten.
	AlreadyCompliant bool

	// Retries and Suffixed carry the conflict-resolution outcome.
	Retries  int
	Suffixed bool

	// Err records a per-reference failure. Other references still run.
	Err error
}

// Result accumulates one entry per processed reference, in processing order.
type Result struct {
	Entries    []RefResult
	BackupPath string
	DryRun     bool

	// DocErrors lists documents that could not be read; they contribute no
	// references.
	DocErrors []error
}

// Map renders the result as original-path to final-path, with failures as
// "ERROR: ..." strings. This is the shape reporting and the run history
// store consume.
func (r *Result) Map() map[string]string {
	m := make(map[string]string, len(r.Entries))
	for _, e := range r.Entries {
		if _, exists := m[e.OldPath]; exists {
			continue
		}
		if e.Err != nil {
			m[e.OldPath] = fmt.Sprintf("ERROR: %v", e.Err)
			continue
		}
		m[e.OldPath] = e.NewPath
	}
	return m
}

// Moved counts references that were (or in dry-run, would be) relocated.
func (r *Result) Moved() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err == nil && !e.AlreadyCompliant {
			n++
		}
	}
	return n
}

// Compliant counts references that needed no action.
func (r *Result) Compliant() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err == nil && e.AlreadyCompliant {
			n++
		}
	}
	return n
}

// Failed counts per-reference errors.
func (r *Result) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err != nil {
			n++
		}
	}
	return n
}
