// Package index provides the embedding-index collaborator: a persistent
// nearest-neighbor store over image-derived vectors, with flat string-keyed
// metadata attached to each record. Tag collections are stored comma-joined
// inside that metadata because values are scalar strings, not nested
// structures; the catalog layer owns that encoding.
package index

import "context"

// Record is a stored index entry. Metadata values are scalar strings.
type Record struct {
	ID       string
	Metadata map[string]string
}

// ScoredRecord is a query result. Distance is cosine distance; lower is a
// better match. Callers derive similarity as 1 - distance.
type ScoredRecord struct {
	Record
	Distance float64
}

// Filter matches records whose metadata contains every listed key/value
// pair exactly. A nil or empty filter matches everything.
type Filter map[string]string

// Index is the embedding/vector-index collaborator contract.
// Implementations must be safe for concurrent readers alongside a writer.
type Index interface {
	// Upsert registers or replaces a record. The image bytes are the
	// embedding input; metadata is stored verbatim.
	Upsert(ctx context.Context, id string, image []byte, metadata map[string]string) error

	// UpdateMetadata replaces a record's metadata without re-embedding.
	// Returns false when the record is absent.
	UpdateMetadata(ctx context.Context, id string, metadata map[string]string) (bool, error)

	// Get retrieves a single record, or nil when absent.
	Get(ctx context.Context, id string) (*Record, error)

	// GetAll returns records matching the filter in store-native order
	// (insertion order, stable within a call).
	GetAll(ctx context.Context, filter Filter) ([]Record, error)

	// QueryByText embeds the query text into the image embedding space and
	// returns up to k nearest records, ordered by increasing distance. The
	// filter is applied before ranking.
	QueryByText(ctx context.Context, text string, k int, filter Filter) ([]ScoredRecord, error)

	// Delete removes a record. Removing an absent record is not an error;
	// the boolean reports whether anything was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteWhere removes every record matching the filter and returns the
	// removed count.
	DeleteWhere(ctx context.Context, filter Filter) (int, error)

	// Close releases the underlying storage.
	Close() error
}

// Embedder converts content into the shared embedding space. Text and image
// inputs must land in the same space for cross-modal retrieval to work; the
// provider behind this interface (a CLIP-style model) is an external
// collaborator, not something this package computes.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
	EmbedImage(ctx context.Context, image []byte) ([]float64, error)
	Dimensions() int
}
