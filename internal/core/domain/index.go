package domain

// IndexReport summarises one indexing pass.
type IndexReport struct {
	// Skipped is true when the store was already populated and the
	// pass was a no-op.
	Skipped bool

	// Documents is the number of documents successfully indexed.
	Documents int

	// Chunks is the total number of index entries written (or, for a
	// skipped pass, already present).
	Chunks int

	// Failures lists documents that could not be indexed. A failure
	// never aborts the pass.
	Failures []*DocumentError
}
