package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

// LocalStore is a file-backed chromem store for development and air-gapped
// deployments. Tenant isolation is one chromem collection per org.
type LocalStore struct {
	db *chromem.DB

	mu          sync.Mutex
	collections map[string]*chromem.Collection
}

// errPrecomputed guards against chromem trying to embed on our behalf; all
// embeddings flow through the retriever's embedder.
var errPrecomputed = errors.New("embeddings are precomputed; text query not supported")

func precomputedOnly(context.Context, string) ([]float32, error) {
	return nil, errPrecomputed
}

// NewLocalStore opens (or creates) a chromem database rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("opening local store at %s: %w", dir, err)
	}
	return &LocalStore{
		db:          db,
		collections: make(map[string]*chromem.Collection),
	}, nil
}

// collection returns the org's collection, creating it on first use.
func (s *LocalStore) collection(org string) (*chromem.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if col, ok := s.collections[org]; ok {
		return col, nil
	}
	col, err := s.db.GetOrCreateCollection("org-"+org, nil, precomputedOnly)
	if err != nil {
		return nil, fmt.Errorf("collection for org %q: %w", org, err)
	}
	s.collections[org] = col
	return col, nil
}

func (s *LocalStore) Available() bool {
	return s != nil && s.db != nil
}

func (s *LocalStore) QuerySimilar(ctx context.Context, org string, embedding []float32, k int) ([]Chunk, error) {
	col, err := s.collection(org)
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults larger than the collection.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := col.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	chunks := make([]Chunk, len(results))
	for i, r := range results {
		chunks[i] = resultToChunk(r)
	}
	return chunks, nil
}

func (s *LocalStore) Upsert(ctx context.Context, org string, chunks []Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("got %d chunks but %d embeddings", len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	col, err := s.collection(org)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		meta := map[string]string{
			"doc_id": c.DocID,
			"n":      strconv.Itoa(c.N),
		}
		for k, v := range c.Meta {
			meta[k] = v
		}
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("%s#%d", c.DocID, c.N),
			Content:   c.Text,
			Metadata:  meta,
			Embedding: embeddings[i],
		}
	}

	return col.AddDocuments(ctx, docs, 1)
}

func (s *LocalStore) DeleteDoc(ctx context.Context, org, docID string) error {
	col, err := s.collection(org)
	if err != nil {
		return err
	}
	if col.Count() == 0 {
		return nil
	}
	return col.Delete(ctx, map[string]string{"doc_id": docID}, nil)
}

func (s *LocalStore) Close() error {
	return nil
}

// resultToChunk converts a chromem result back into a Chunk, splitting the
// positional keys out of the flat metadata map.
func resultToChunk(r chromem.Result) Chunk {
	c := Chunk{
		DocID: r.Metadata["doc_id"],
		Text:  r.Content,
	}
	c.N, _ = strconv.Atoi(r.Metadata["n"])

	meta := make(map[string]string)
	for k, v := range r.Metadata {
		if k == "doc_id" || k == "n" {
			continue
		}
		meta[k] = v
	}
	if len(meta) > 0 {
		c.Meta = meta
	}
	return c
}
