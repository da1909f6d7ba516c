package notepad

import (
	"context"
	"fmt"
	"strings"
	"time"

	"atelier/internal/domain"
	"atelier/internal/models"
	"atelier/internal/service/llm"
)

const aiNoteTitle = "AI Note"

const promptGuideline = "Return only the note content. No meta commentary. " +
	"Preserve the note's structure and lists. No AI disclaimers."

const (
	noInstructionPlaceholder = "(no extra instructions from user)."
	noNotePlaceholder        = "(no active note selected)"
)

// AssistRequest is one AI dock submission.
type AssistRequest struct {
	Mode        string
	Instruction string
	// NoteID targets a specific note; 0 means the active note, if any.
	NoteID     int64
	Attachment *llm.Attachment
}

// AssistResult reports what the pipeline did with the reply.
type AssistResult struct {
	Reply   string `json:"reply"`
	Applied bool   `json:"applied"`
	// Conflict is set when the target note was edited or deleted while the
	// request was in flight; the reply is returned but not merged.
	Conflict bool  `json:"conflict"`
	NoteID   int64 `json:"note_id,omitempty"`
	Created  bool  `json:"created"`
}

// Assist composes the mode prompt, calls the completion provider, and merges
// the reply back into the document by mode. The merge is guarded: it no-ops
// with a conflict flag if the target note advanced since the request was
// composed.
func (s *Service) Assist(ctx context.Context, provider llm.Provider, model string, req *AssistRequest) (*AssistResult, error) {
	mode, ok := s.modes.Get(req.Mode)
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown mode %q", req.Mode)}
	}

	instruction := strings.TrimSpace(req.Instruction)

	// Snapshot the target note and its version stamp before going remote.
	target, targetStamp, err := s.snapshotTarget(req.NoteID)
	if err != nil {
		return nil, err
	}

	if target == nil && instruction == "" && req.Attachment == nil {
		return nil, &domain.ValidationError{Message: "nothing to do: no note, instruction, or file"}
	}

	// The mode's default instruction fills an empty field, never overwrites.
	if instruction == "" {
		instruction = mode.Instruction
	}

	prompt := composePrompt(mode, instruction, target)

	resp, err := provider.Complete(ctx, &llm.CompleteRequest{
		Model:      model,
		Messages:   []llm.Message{{Role: "user", Content: prompt}},
		Attachment: req.Attachment,
	})
	if err != nil {
		s.logger.Warn("assist completion failed", "mode", mode.Name, "error", err)
		return nil, err
	}

	if strings.TrimSpace(resp.Text) == "" {
		return &AssistResult{Reply: resp.Text}, nil
	}

	return s.mergeReply(ctx, mode, target, targetStamp, resp.Text)
}

// snapshotTarget copies the requested (or active) note and its Updated stamp
// under the lock. An explicitly requested id must exist; a stale or absent
// active selection just means there is no target.
func (s *Service) snapshotTarget(noteID int64) (*models.Note, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if noteID != 0 {
		n := s.doc.FindNote(noteID)
		if n == nil {
			return nil, time.Time{}, &domain.NotFoundError{Message: fmt.Sprintf("note %d not found", noteID)}
		}
		copy := *n
		return &copy, n.Updated, nil
	}

	if s.activeID == 0 {
		return nil, time.Time{}, nil
	}
	n := s.doc.FindNote(s.activeID)
	if n == nil {
		return nil, time.Time{}, nil
	}
	copy := *n
	return &copy, n.Updated, nil
}

// mergeReply applies the mode's merge strategy under the lock, re-checking
// that the target note still exists and was not edited mid-flight.
func (s *Service) mergeReply(ctx context.Context, mode Mode, target *models.Note, targetStamp time.Time, reply string) (*AssistResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target == nil {
		// No note was active when the request was composed: the reply
		// becomes a fresh note at the head of the list.
		note := models.Note{
			ID:       s.nextNoteID(),
			Title:    aiNoteTitle,
			Content:  strings.TrimSpace(reply),
			Updated:  s.now(),
			FolderID: models.InboxFolderID,
		}
		s.doc.Notes = append([]models.Note{note}, s.doc.Notes...)
		s.activeID = note.ID
		if err := s.persist(ctx); err != nil {
			return nil, err
		}
		return &AssistResult{Reply: reply, Applied: true, NoteID: note.ID, Created: true}, nil
	}

	n := s.doc.FindNote(target.ID)
	if n == nil || !n.Updated.Equal(targetStamp) {
		s.logger.Info("assist merge skipped, note changed mid-flight", "note_id", target.ID)
		return &AssistResult{Reply: reply, Conflict: true, NoteID: target.ID}, nil
	}

	switch mode.Merge {
	case MergeReplace:
		n.Content = reply
	case MergeAppend:
		if n.Content == "" {
			n.Content = mode.Heading + "\n" + reply
		} else {
			n.Content = n.Content + "\n\n---\n\n" + mode.Heading + "\n" + reply
		}
	}
	n.Updated = s.stamp(n.Updated)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return &AssistResult{Reply: reply, Applied: true, NoteID: n.ID}, nil
}

// composePrompt builds the single instruction block sent to the provider.
func composePrompt(mode Mode, instruction string, note *models.Note) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Mode: %s\n", mode.Name)
	fmt.Fprintf(&b, "Guidelines: %s\n", promptGuideline)
	if mode.Instruction != "" {
		fmt.Fprintf(&b, "Task: %s\n", mode.Instruction)
	}

	if instruction != "" {
		fmt.Fprintf(&b, "User request: %s\n", instruction)
	} else {
		fmt.Fprintf(&b, "User request: %s\n", noInstructionPlaceholder)
	}

	if note != nil {
		fmt.Fprintf(&b, "\nNote title: %s\n", note.Title)
		fmt.Fprintf(&b, "Note content:\n%s\n", note.Content)
	} else {
		fmt.Fprintf(&b, "\nNote: %s\n", noNotePlaceholder)
	}

	return b.String()
}
