package notepad

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"atelier/internal/domain"
	"atelier/internal/models"
	"atelier/internal/store"
)

const untitledNoteTitle = "Untitled Note"

// Service owns the workspace document. It is the single logical writer: all
// mutations run under its lock and re-persist the whole document through the
// store, mirroring the one-writer one-blob model of the original workspace.
type Service struct {
	mu       sync.Mutex
	doc      *models.Document
	activeID int64 // 0 = no active note
	lastID   int64

	store  store.DocumentStore
	modes  *ModeRegistry
	now    func() time.Time
	logger *slog.Logger
}

// NewService loads the document from the store and returns a ready service.
func NewService(ctx context.Context, st store.DocumentStore, modes *ModeRegistry, logger *slog.Logger) (*Service, error) {
	result, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	logger.Info("document loaded",
		"source", result.Source,
		"notes", len(result.Document.Notes),
		"folders", len(result.Document.Folders),
	)

	s := &Service{
		doc:    result.Document,
		store:  st,
		modes:  modes,
		now:    time.Now,
		logger: logger,
	}
	for _, n := range result.Document.Notes {
		if n.ID > s.lastID {
			s.lastID = n.ID
		}
	}
	return s, nil
}

// Modes exposes the AI mode registry.
func (s *Service) Modes() *ModeRegistry {
	return s.modes
}

// nextNoteID issues a millisecond-based id, bumped past the last issued one
// so rapid successive creations never collide.
func (s *Service) nextNoteID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// stamp returns the mutation timestamp for a note, never moving backwards.
func (s *Service) stamp(prev time.Time) time.Time {
	t := s.now()
	if !t.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return t
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.doc); err != nil {
		return fmt.Errorf("persist document: %w", err)
	}
	return nil
}

// Folders returns a snapshot of the folder list.
func (s *Service) Folders(ctx context.Context) []models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Folder(nil), s.doc.Folders...)
}

// Notes returns the visible note list for a selector, search text and sort
// order, recomputed from the document on every call.
func (s *Service) Notes(ctx context.Context, selector, search string, sort SortOrder) []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return VisibleNotes(s.doc.Notes, selector, search, sort)
}

// Note returns a single note by id.
func (s *Service) Note(ctx context.Context, id int64) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.doc.FindNote(id)
	if n == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("note %d not found", id)}
	}
	copy := *n
	return &copy, nil
}

// ActiveNote returns the currently active note, if any.
func (s *Service) ActiveNote(ctx context.Context) (*models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == 0 {
		return nil, false
	}
	n := s.doc.FindNote(s.activeID)
	if n == nil {
		return nil, false
	}
	copy := *n
	return &copy, true
}

// SetActiveNote marks a note as the active selection.
func (s *Service) SetActiveNote(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.FindNote(id) == nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("note %d not found", id)}
	}
	s.activeID = id
	return nil
}

// CreateNote inserts a new note at the head of the list and makes it active.
// The requested folder is honored only if it names a real folder; anything
// else lands in the inbox.
func (s *Service) CreateNote(ctx context.Context, req *models.CreateNoteRequest) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folderID := models.InboxFolderID
	if req.FolderID != "" && s.doc.FindFolder(req.FolderID) != nil {
		folderID = req.FolderID
	}

	title := req.Title
	if title == "" {
		title = untitledNoteTitle
	}

	note := models.Note{
		ID:       s.nextNoteID(),
		Title:    title,
		Content:  req.Content,
		Updated:  s.now(),
		FolderID: folderID,
	}

	s.doc.Notes = append([]models.Note{note}, s.doc.Notes...)
	s.activeID = note.ID

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote merges the supplied partial fields into the note and stamps
// Updated, even when no field changed.
func (s *Service) UpdateNote(ctx context.Context, id int64, req *models.UpdateNoteRequest) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.doc.FindNote(id)
	if n == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("note %d not found", id)}
	}

	if req.Title != nil {
		n.Title = *req.Title
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	if req.Pinned != nil {
		n.Pinned = *req.Pinned
	}
	if req.Favorite != nil {
		n.Favorite = *req.Favorite
	}
	if req.Done != nil {
		n.Done = *req.Done
	}
	if req.FolderID != nil {
		// Same rule as creation: only a real folder is honored, anything
		// else lands in the inbox.
		n.FolderID = models.InboxFolderID
		if *req.FolderID != "" && s.doc.FindFolder(*req.FolderID) != nil {
			n.FolderID = *req.FolderID
		}
	}
	n.Updated = s.stamp(n.Updated)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	copy := *n
	return &copy, nil
}

// MoveNote reassigns a note to a folder.
func (s *Service) MoveNote(ctx context.Context, id int64, folderID string) (*models.Note, error) {
	return s.UpdateNote(ctx, id, &models.UpdateNoteRequest{FolderID: &folderID})
}

// DeleteNote removes a note; the active selection is cleared if it pointed at
// the deleted note.
func (s *Service) DeleteNote(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.doc.Notes {
		if s.doc.Notes[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &domain.NotFoundError{Message: fmt.Sprintf("note %d not found", id)}
	}

	s.doc.Notes = append(s.doc.Notes[:idx], s.doc.Notes[idx+1:]...)
	if s.activeID == id {
		s.activeID = 0
	}
	return s.persist(ctx)
}

// CreateFolder creates a user folder from raw input. A leading pictographic
// rune becomes the folder's emoji; the remainder (trimmed) is the name,
// defaulting to "Folder" when empty.
func (s *Service) CreateFolder(ctx context.Context, req *models.CreateFolderRequest) (*models.Folder, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 120)),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	emoji, name := splitLeadingEmoji(req.Name)
	if name == "" {
		name = "Folder"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder := models.Folder{
		ID:    "folder_" + uuid.NewString(),
		Name:  name,
		Emoji: emoji,
	}
	s.doc.Folders = append(s.doc.Folders, folder)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return &folder, nil
}

// DeleteFolder removes a user folder. Built-in folders are protected; notes
// in the deleted folder fall back to the inbox.
func (s *Service) DeleteFolder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.doc.Folders {
		if s.doc.Folders[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", id)}
	}
	if s.doc.Folders[idx].BuiltIn {
		return &domain.ValidationError{Message: fmt.Sprintf("folder %q is built-in and cannot be deleted", id)}
	}

	s.doc.Folders = append(s.doc.Folders[:idx], s.doc.Folders[idx+1:]...)
	for i := range s.doc.Notes {
		if s.doc.Notes[i].FolderID == id {
			s.doc.Notes[i].FolderID = models.InboxFolderID
		}
	}
	return s.persist(ctx)
}
