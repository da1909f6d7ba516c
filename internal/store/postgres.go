package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"atelier/internal/models"
)

// PostgresStore persists the serialized document as a single row, keyed by a
// workspace id. The legacy flat-array shape never existed server-side, so
// loads are either current or empty.
type PostgresStore struct {
	pool        *pgxpool.Pool
	workspaceID string
	logger      *slog.Logger
}

func NewPostgresStore(pool *pgxpool.Pool, workspaceID string, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, workspaceID: workspaceID, logger: logger}
}

// CreateConnectionPool creates a pgx pool with the standard pool sizing and a
// startup ping.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the workspace document table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS workspace_documents (
			workspace_id TEXT PRIMARY KEY,
			document     JSONB NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*LoadResult, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM workspace_documents WHERE workspace_id = $1`,
		s.workspaceID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return &LoadResult{Document: models.EmptyDocument(), Source: SourceEmpty}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("stored document malformed, resetting", "workspace_id", s.workspaceID, "error", err)
		return &LoadResult{Document: models.EmptyDocument(), Source: SourceEmpty}, nil
	}
	if doc.Notes == nil {
		doc.Notes = []models.Note{}
	}
	if len(doc.Folders) == 0 {
		doc.Folders = models.DefaultFolders()
	}
	return &LoadResult{Document: &doc, Source: SourceCurrent}, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO workspace_documents (workspace_id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (workspace_id)
		DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		s.workspaceID, data)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
