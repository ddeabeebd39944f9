// Package ingest turns documents on disk into embedded knowledge chunks for
// one tenant: walk, extract, chunk, embed, store.
package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cisohq/reasond/internal/embeddings"
	"github.com/cisohq/reasond/internal/manifest"
	"github.com/cisohq/reasond/internal/retrieval"
	"github.com/cisohq/reasond/internal/walker"
)

// ProgressFunc reports per-file progress during a run.
type ProgressFunc func(done, total int, relPath string)

// Result summarizes one ingestion run.
type Result struct {
	FilesProcessed int
	FilesSkipped   int
	FilesFailed    int
	ChunksStored   int
	Errors         []error
	Duration       time.Duration
}

// Pipeline orchestrates the ingestion workflow.
type Pipeline struct {
	embedder    embeddings.Embedder
	store       retrieval.Store
	manifest    *manifest.Manifest
	chunkTokens int
	urlPrefix   string
	onProgress  ProgressFunc
}

// NewPipeline creates a Pipeline. chunkTokens <= 0 uses DefaultChunkTokens.
func NewPipeline(embedder embeddings.Embedder, store retrieval.Store, man *manifest.Manifest, chunkTokens int) *Pipeline {
	return &Pipeline{
		embedder:    embedder,
		store:       store,
		manifest:    man,
		chunkTokens: chunkTokens,
	}
}

// SetProgressFunc sets the progress callback.
func (p *Pipeline) SetProgressFunc(fn ProgressFunc) {
	p.onProgress = fn
}

// SetURLPrefix sets a base URL prepended to document paths so citations can
// link back to the published knowledge base.
func (p *Pipeline) SetURLPrefix(prefix string) {
	p.urlPrefix = strings.TrimSuffix(prefix, "/")
}

// Run ingests the given files for org. Unchanged files are skipped via the
// manifest; a failure on one file is recorded and the run continues.
func (p *Pipeline) Run(ctx context.Context, org string, files []walker.FileInfo) (*Result, error) {
	start := time.Now()
	result := &Result{}

	// Filter out unchanged files first so progress totals are honest.
	var changed []walker.FileInfo
	for _, f := range files {
		dirty, err := p.manifest.IsChanged(org, f.RelPath, f.ContentHash)
		if err != nil {
			return nil, fmt.Errorf("manifest lookup for %s: %w", f.RelPath, err)
		}
		if dirty {
			changed = append(changed, f)
		} else {
			result.FilesSkipped++
		}
	}

	for i, f := range changed {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		stored, err := p.ingestFile(ctx, org, f)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", f.RelPath, err))
			result.FilesFailed++
		} else {
			result.FilesProcessed++
			result.ChunksStored += stored
		}

		if p.onProgress != nil {
			p.onProgress(i+1, len(changed), f.RelPath)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// ingestFile embeds and stores one document, replacing any previous chunks.
func (p *Pipeline) ingestFile(ctx context.Context, org string, f walker.FileInfo) (int, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return 0, fmt.Errorf("reading: %w", err)
	}

	var title, body string
	switch f.Format {
	case walker.FormatMarkdown:
		title, body = ExtractMarkdown(data)
		if title == "" {
			title, _ = ExtractText(f.RelPath, data)
		}
	default:
		title, body = ExtractText(f.RelPath, data)
	}

	texts := SplitDocument(body, p.chunkTokens)
	if len(texts) == 0 {
		// Nothing embeddable; drop stale chunks and remember the hash.
		if err := p.store.DeleteDoc(ctx, org, f.RelPath); err != nil {
			return 0, fmt.Errorf("deleting stale chunks: %w", err)
		}
		if err := p.manifest.Record(org, f.RelPath, f.ContentHash, 0, f.Size); err != nil {
			return 0, err
		}
		return 0, nil
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding: %w", err)
	}

	meta := map[string]string{
		"title": title,
		"path":  f.RelPath,
	}
	if p.urlPrefix != "" {
		meta["url"] = p.urlPrefix + "/" + f.RelPath
	}

	chunks := make([]retrieval.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = retrieval.Chunk{
			DocID: f.RelPath,
			N:     i,
			Text:  text,
			Meta:  meta,
		}
	}

	// Replace, not merge: a shrunk document must not leave stale chunks.
	if err := p.store.DeleteDoc(ctx, org, f.RelPath); err != nil {
		return 0, fmt.Errorf("deleting old chunks: %w", err)
	}
	if err := p.store.Upsert(ctx, org, chunks, vectors); err != nil {
		return 0, fmt.Errorf("storing chunks: %w", err)
	}

	if err := p.manifest.Record(org, f.RelPath, f.ContentHash, len(chunks), f.Size); err != nil {
		return 0, err
	}
	return len(chunks), nil
}
