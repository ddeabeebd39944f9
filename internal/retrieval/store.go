package retrieval

import "context"

// Store is the optional persistence capability behind the retriever.
// Implementations must enforce tenant isolation: no query or write may cross
// the org boundary.
type Store interface {
	// Available reports whether the store can serve queries. A retriever
	// with an unavailable store degrades to empty results without calling
	// the embedding service.
	Available() bool

	// QuerySimilar returns up to k chunks for the given org, nearest first
	// by vector distance to the query embedding.
	QuerySimilar(ctx context.Context, org string, embedding []float32, k int) ([]Chunk, error)

	// Upsert inserts or replaces the given chunks for the org. embeddings
	// must be parallel to chunks.
	Upsert(ctx context.Context, org string, chunks []Chunk, embeddings [][]float32) error

	// DeleteDoc removes every chunk of the given document for the org.
	DeleteDoc(ctx context.Context, org, docID string) error

	// Close releases the store's resources.
	Close() error
}
