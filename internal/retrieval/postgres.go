package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// PostgresStore stores chunks in PostgreSQL with pgvector similarity search.
// The connection pool is process-wide; each query borrows one connection for
// its duration and releases it on every exit path.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool for the given DSN, verifies
// connectivity, and bootstraps the chunks schema. dimensions fixes the width
// of the embedding column and must match the embedding deployment.
func NewPostgresStore(ctx context.Context, dsn string, dimensions int) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.bootstrap(ctx, dimensions); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrapping schema: %w", err)
	}

	return s, nil
}

// bootstrap creates the chunks table if it does not exist.
func (s *PostgresStore) bootstrap(ctx context.Context, dimensions int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			org       text NOT NULL,
			doc_id    text NOT NULL,
			n         integer NOT NULL,
			text      text NOT NULL,
			meta      jsonb NOT NULL DEFAULT '{}',
			embedding vector(%d) NOT NULL,
			PRIMARY KEY (org, doc_id, n)
		)`, dimensions),
		`CREATE INDEX IF NOT EXISTS chunks_org_idx ON chunks (org)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Available() bool {
	return s != nil && s.pool != nil
}

func (s *PostgresStore) QuerySimilar(ctx context.Context, org string, embedding []float32, k int) ([]Chunk, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT doc_id, n, text, meta
		FROM chunks
		WHERE org = $1
		ORDER BY embedding <-> $2
		LIMIT $3`,
		org, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		var meta []byte
		if err := rows.Scan(&c.DocID, &c.N, &c.Text, &meta); err != nil {
			return nil, fmt.Errorf("scanning chunk row: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &c.Meta); err != nil {
				// Malformed meta loses its citation fields but keeps the text.
				c.Meta = nil
			}
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chunk rows: %w", err)
	}

	return chunks, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, org string, chunks []Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("got %d chunks but %d embeddings", len(chunks), len(embeddings))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning upsert transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, c := range chunks {
		meta, err := json.Marshal(c.Meta)
		if err != nil {
			return fmt.Errorf("marshalling meta for %s#%d: %w", c.DocID, c.N, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO chunks (org, doc_id, n, text, meta, embedding)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (org, doc_id, n)
			DO UPDATE SET text = EXCLUDED.text, meta = EXCLUDED.meta, embedding = EXCLUDED.embedding`,
			org, c.DocID, c.N, c.Text, meta, pgvector.NewVector(embeddings[i]))
		if err != nil {
			return fmt.Errorf("upserting %s#%d: %w", c.DocID, c.N, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) DeleteDoc(ctx context.Context, org, docID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM chunks WHERE org = $1 AND doc_id = $2`, org, docID); err != nil {
		return fmt.Errorf("deleting document %s: %w", docID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
