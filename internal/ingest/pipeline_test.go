package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cisohq/reasond/internal/manifest"
	"github.com/cisohq/reasond/internal/retrieval"
	"github.com/cisohq/reasond/internal/walker"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Name() string    { return "fake" }
func (f *fakeEmbedder) Dimensions() int { return 3 }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

type fakeStore struct {
	chunks  map[string][]retrieval.Chunk // keyed by org + "/" + docID
	deletes int
	failUp  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{chunks: make(map[string][]retrieval.Chunk)}
}

func (s *fakeStore) Available() bool { return true }

func (s *fakeStore) QuerySimilar(context.Context, string, []float32, int) ([]retrieval.Chunk, error) {
	return nil, nil
}

func (s *fakeStore) Upsert(_ context.Context, org string, chunks []retrieval.Chunk, vectors [][]float32) error {
	if s.failUp {
		return errors.New("store down")
	}
	if len(chunks) != len(vectors) {
		return errors.New("chunk/vector mismatch")
	}
	for _, c := range chunks {
		key := org + "/" + c.DocID
		s.chunks[key] = append(s.chunks[key], c)
	}
	return nil
}

func (s *fakeStore) DeleteDoc(_ context.Context, org, docID string) error {
	s.deletes++
	delete(s.chunks, org+"/"+docID)
	return nil
}

func (s *fakeStore) Close() error { return nil }

func writeDoc(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func walkDocs(t *testing.T, dir string) []walker.FileInfo {
	t.Helper()
	files, err := walker.Walk(walker.WalkerConfig{RootDir: dir})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return files
}

func newTestPipeline(t *testing.T, store retrieval.Store, embedder *fakeEmbedder) (*Pipeline, *manifest.Manifest) {
	t.Helper()
	man, err := manifest.OpenMemory()
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	t.Cleanup(func() { man.Close() })
	return NewPipeline(embedder, store, man, 400), man
}

func TestPipelineIngestsAndRecords(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "policies/mfa.md", "# MFA Policy\n\nMFA is required.\n")
	writeDoc(t, dir, "oncall.txt", "page the on-call\n")

	store := newFakeStore()
	embedder := &fakeEmbedder{}
	pipe, man := newTestPipeline(t, store, embedder)

	result, err := pipe.Run(context.Background(), "acme", walkDocs(t, dir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FilesProcessed != 2 || result.FilesFailed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ChunksStored == 0 {
		t.Error("no chunks stored")
	}

	mfa := store.chunks["acme/policies/mfa.md"]
	if len(mfa) == 0 {
		t.Fatal("mfa doc not stored")
	}
	if mfa[0].Meta["title"] != "MFA Policy" {
		t.Errorf("title meta = %q", mfa[0].Meta["title"])
	}
	if mfa[0].Meta["path"] != "policies/mfa.md" {
		t.Errorf("path meta = %q", mfa[0].Meta["path"])
	}

	docs, err := man.List("acme")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 manifest rows, got %d", len(docs))
	}
}

func TestPipelineURLPrefix(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "policies/mfa.md", "# MFA Policy\n\nMFA is required.\n")

	store := newFakeStore()
	pipe, _ := newTestPipeline(t, store, &fakeEmbedder{})
	pipe.SetURLPrefix("https://kb.example.com/")

	if _, err := pipe.Run(context.Background(), "acme", walkDocs(t, dir)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	chunks := store.chunks["acme/policies/mfa.md"]
	if len(chunks) == 0 {
		t.Fatal("doc not stored")
	}
	if got := chunks[0].Meta["url"]; got != "https://kb.example.com/policies/mfa.md" {
		t.Errorf("url meta = %q", got)
	}
}

func TestPipelineSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# A\n\ncontent\n")

	store := newFakeStore()
	embedder := &fakeEmbedder{}
	pipe, _ := newTestPipeline(t, store, embedder)

	files := walkDocs(t, dir)
	if _, err := pipe.Run(context.Background(), "acme", files); err != nil {
		t.Fatalf("first run: %v", err)
	}
	firstCalls := embedder.calls

	result, err := pipe.Run(context.Background(), "acme", files)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.FilesSkipped != 1 || result.FilesProcessed != 0 {
		t.Errorf("second run should skip: %+v", result)
	}
	if embedder.calls != firstCalls {
		t.Error("unchanged file was re-embedded")
	}
}

func TestPipelineReingestsChangedContent(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# A\n\nversion one\n")

	store := newFakeStore()
	pipe, _ := newTestPipeline(t, store, &fakeEmbedder{})

	if _, err := pipe.Run(context.Background(), "acme", walkDocs(t, dir)); err != nil {
		t.Fatalf("first run: %v", err)
	}

	writeDoc(t, dir, "a.md", "# A\n\nversion two\n")
	result, err := pipe.Run(context.Background(), "acme", walkDocs(t, dir))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.FilesProcessed != 1 {
		t.Fatalf("changed file not reprocessed: %+v", result)
	}

	// Old chunks are replaced, not appended.
	got := store.chunks["acme/a.md"]
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk after replace, got %d", len(got))
	}
	if got[0].Text == "" || got[0].N != 0 {
		t.Errorf("unexpected chunk: %+v", got[0])
	}
}

func TestPipelineFailureContinuesRun(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# A\n\ncontent\n")
	writeDoc(t, dir, "b.md", "# B\n\ncontent\n")

	store := newFakeStore()
	store.failUp = true
	pipe, man := newTestPipeline(t, store, &fakeEmbedder{})

	result, err := pipe.Run(context.Background(), "acme", walkDocs(t, dir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FilesFailed != 2 || len(result.Errors) != 2 {
		t.Errorf("expected both files to fail: %+v", result)
	}

	// Failed files stay dirty so the next run retries them.
	docs, _ := man.List("acme")
	if len(docs) != 0 {
		t.Errorf("failed files must not be recorded: %+v", docs)
	}
}

func TestPipelineEmbedFailure(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "# A\n\ncontent\n")

	pipe, _ := newTestPipeline(t, newFakeStore(), &fakeEmbedder{err: errors.New("quota")})
	result, err := pipe.Run(context.Background(), "acme", walkDocs(t, dir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.FilesFailed != 1 {
		t.Errorf("embed failure not recorded: %+v", result)
	}
}

func TestPipelineProgressCallback(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		writeDoc(t, dir, fmt.Sprintf("doc%d.md", i), fmt.Sprintf("# Doc %d\n\ncontent\n", i))
	}

	pipe, _ := newTestPipeline(t, newFakeStore(), &fakeEmbedder{})
	var seen []int
	pipe.SetProgressFunc(func(done, total int, _ string) {
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		seen = append(seen, done)
	})

	if _, err := pipe.Run(context.Background(), "acme", walkDocs(t, dir)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 3 || seen[2] != 3 {
		t.Errorf("unexpected progress sequence: %v", seen)
	}
}
