package domain

import "fmt"

// Document is a source document loaded from the corpus folder.
// It is immutable for the duration of an indexing pass.
type Document struct {
	// ID is the document identifier, the file name within the corpus.
	ID string

	// Path is the absolute location the content was read from.
	Path string

	// Content is the full text, with tabular sources already flattened
	// to a textual representation.
	Content string
}

// Chunk is a bounded-length fragment of a document, the unit of
// embedding and retrieval.
type Chunk struct {
	// ID is deterministic for a given document and position, in the
	// form "{documentID}_{position}".
	ID string

	// DocumentID links back to the source document.
	DocumentID string

	// Content is the chunk text, whitespace preserved.
	Content string

	// Position is the ordinal position within the document.
	Position int
}

// ChunkID builds the deterministic chunk identifier so that repeated
// indexing of unchanged input is reproducible.
func ChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s_%d", documentID, position)
}

// IndexEntry is the (id, text, embedding) triple held by the vector
// store. Entries are created by the indexer and never mutated.
type IndexEntry struct {
	ChunkID   string
	Content   string
	Embedding []float32
}

// Hit is a single retrieval result: an index entry ranked by its
// similarity to the query embedding.
type Hit struct {
	ChunkID    string
	Content    string
	Similarity float64
}
