package retrieval

import (
	"context"
	"testing"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return store
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	chunks := []Chunk{
		{DocID: "policy-a", N: 0, Text: "MFA required for all admins", Meta: map[string]string{"title": "Policy A", "url": "http://x"}},
		{DocID: "policy-a", N: 1, Text: "Passwords rotate quarterly"},
	}
	embeddings := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
	}

	if err := store.Upsert(ctx, "acme", chunks, embeddings); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.QuerySimilar(ctx, "acme", []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("QuerySimilar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}

	// Nearest first: the query vector matches chunk 0 exactly.
	if got[0].DocID != "policy-a" || got[0].N != 0 {
		t.Errorf("expected policy-a#0 first, got %s#%d", got[0].DocID, got[0].N)
	}
	if got[0].Meta["title"] != "Policy A" || got[0].Meta["url"] != "http://x" {
		t.Errorf("meta not preserved: %v", got[0].Meta)
	}
	if got[1].Meta != nil {
		t.Errorf("expected no meta on second chunk, got %v", got[1].Meta)
	}
}

func TestLocalStoreTenantIsolation(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, "acme", []Chunk{{DocID: "d", N: 0, Text: "acme only"}}, [][]float32{{1, 0, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.QuerySimilar(ctx, "globex", []float32{1, 0, 0}, 6)
	if err != nil {
		t.Fatalf("QuerySimilar: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("query crossed tenant boundary: %v", got)
	}
}

func TestLocalStoreEmptyCollection(t *testing.T) {
	store := newTestLocalStore(t)

	got, err := store.QuerySimilar(context.Background(), "acme", []float32{1, 0, 0}, 6)
	if err != nil {
		t.Fatalf("QuerySimilar: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for empty collection, got %v", got)
	}
}

func TestLocalStoreKLargerThanCollection(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, "acme", []Chunk{{DocID: "d", N: 0, Text: "only one"}}, [][]float32{{1, 0, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.QuerySimilar(ctx, "acme", []float32{1, 0, 0}, 6)
	if err != nil {
		t.Fatalf("QuerySimilar: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 chunk, got %d", len(got))
	}
}

func TestLocalStoreDeleteDoc(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	chunks := []Chunk{
		{DocID: "keep", N: 0, Text: "keep me"},
		{DocID: "drop", N: 0, Text: "drop me"},
	}
	if err := store.Upsert(ctx, "acme", chunks, [][]float32{{1, 0, 0}, {0, 1, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := store.DeleteDoc(ctx, "acme", "drop"); err != nil {
		t.Fatalf("DeleteDoc: %v", err)
	}

	got, err := store.QuerySimilar(ctx, "acme", []float32{0, 1, 0}, 6)
	if err != nil {
		t.Fatalf("QuerySimilar: %v", err)
	}
	if len(got) != 1 || got[0].DocID != "keep" {
		t.Errorf("expected only keep to remain, got %v", got)
	}
}

func TestLocalStoreUpsertMismatch(t *testing.T) {
	store := newTestLocalStore(t)
	err := store.Upsert(context.Background(), "acme", []Chunk{{DocID: "d"}}, nil)
	if err == nil {
		t.Fatal("expected error on chunk/embedding count mismatch")
	}
}
