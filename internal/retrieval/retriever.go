package retrieval

import (
	"context"
	"log"
	"time"

	"github.com/cisohq/reasond/internal/embeddings"
)

// DefaultTopK is the number of chunks retrieved when the caller does not say.
const DefaultTopK = 6

// embedTimeout bounds the query-embedding stage of one retrieval.
const embedTimeout = 30 * time.Second

// Retriever turns a query string into the nearest knowledge chunks for one
// tenant. It never fails its caller: any failure along the way is logged and
// collapses to an empty result, leaving the request ungrounded but alive.
type Retriever struct {
	store    Store
	embedder embeddings.Embedder
}

// NewRetriever creates a Retriever. store may be nil when no storage is
// configured; retrieval then always returns empty.
func NewRetriever(store Store, embedder embeddings.Embedder) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// Retrieve returns up to k chunks for org, nearest first. k <= 0 uses
// DefaultTopK. With no store available it returns nil immediately, without
// calling the embedding service.
func (r *Retriever) Retrieve(ctx context.Context, org, query string, k int) []Chunk {
	if r.store == nil || !r.store.Available() {
		return nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	embedCtx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	vectors, err := r.embedder.Embed(embedCtx, []string{query})
	if err != nil {
		log.Printf("retrieval: embedding failed for org %s: %v", org, err)
		return nil
	}
	if len(vectors) == 0 {
		log.Printf("retrieval: embedding returned no vector for org %s", org)
		return nil
	}

	chunks, err := r.store.QuerySimilar(ctx, org, vectors[0], k)
	if err != nil {
		log.Printf("retrieval: similarity query failed for org %s: %v", org, err)
		return nil
	}
	return chunks
}

// Available reports whether a store is configured and reachable.
func (r *Retriever) Available() bool {
	return r.store != nil && r.store.Available()
}
