package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"atelier/internal/models"
)

const (
	// versionedFile holds the current {notes, folders} document.
	versionedFile = "notepad.v2.json"
	// legacyFile holds the pre-folders flat note array. It is read once for
	// migration and never rewritten or deleted.
	legacyFile = "notepad.json"
)

// FileStore persists the document as a JSON file in a data directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

// Load reads the versioned document, falling back to the legacy note list and
// finally to empty defaults. Malformed data is treated the same as absent
// data; the tagged source is the only trace of what happened.
func (s *FileStore) Load(ctx context.Context) (*LoadResult, error) {
	if doc, ok := s.readVersioned(); ok {
		return &LoadResult{Document: doc, Source: SourceCurrent}, nil
	}

	if notes, ok := s.readLegacy(); ok {
		for i := range notes {
			if notes[i].FolderID == "" {
				notes[i].FolderID = models.InboxFolderID
			}
		}
		doc := &models.Document{Notes: notes, Folders: models.DefaultFolders()}
		s.logger.Info("migrated legacy note list", "notes", len(notes))
		return &LoadResult{Document: doc, Source: SourceMigrated}, nil
	}

	return &LoadResult{Document: models.EmptyDocument(), Source: SourceEmpty}, nil
}

func (s *FileStore) readVersioned() (*models.Document, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, versionedFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("versioned document unreadable", "error", err)
		}
		return nil, false
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("versioned document malformed, resetting", "error", err)
		return nil, false
	}
	if doc.Notes == nil {
		doc.Notes = []models.Note{}
	}
	if len(doc.Folders) == 0 {
		doc.Folders = models.DefaultFolders()
	}
	return &doc, true
}

func (s *FileStore) readLegacy() ([]models.Note, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, legacyFile))
	if err != nil {
		return nil, false
	}

	var notes []models.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		s.logger.Warn("legacy note list malformed, ignoring", "error", err)
		return nil, false
	}
	return notes, true
}

// Save serializes the whole document and writes it atomically (temp file then
// rename) to the versioned file.
func (s *FileStore) Save(ctx context.Context, doc *models.Document) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	target := filepath.Join(s.dir, versionedFile)
	tmp, err := os.CreateTemp(s.dir, versionedFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
