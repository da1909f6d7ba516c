package store

import (
	"context"

	"atelier/internal/models"
)

// LoadSource tags where a loaded document came from, so callers can log a
// migration or a reset-to-defaults instead of silently conflating them.
type LoadSource string

const (
	// SourceCurrent means the versioned document was read as-is.
	SourceCurrent LoadSource = "current"
	// SourceMigrated means a legacy flat note list was upgraded on the fly.
	SourceMigrated LoadSource = "migrated"
	// SourceEmpty means nothing usable existed and defaults were synthesized.
	SourceEmpty LoadSource = "empty"
)

// LoadResult pairs a document with the source it was recovered from.
type LoadResult struct {
	Document *models.Document
	Source   LoadSource
}

// DocumentStore persists the whole workspace document as a single unit.
// Load never fails on malformed data: corruption degrades to SourceEmpty.
type DocumentStore interface {
	Load(ctx context.Context) (*LoadResult, error)
	Save(ctx context.Context, doc *models.Document) error
}
