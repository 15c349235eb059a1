// Package repository persists notes and reports changes to them.
package repository

import (
	"context"
	"errors"

	"jetnotes/internal/notes"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrInvalidNote  = errors.New("invalid note")
)

// Repository is the data source consumed by the view-model. The list
// queries together with Subscribe form the reactive sequences: callers
// re-run a query whenever a Change is delivered.
type Repository interface {
	NotesNotInTrash(ctx context.Context) ([]notes.NoteModel, error)
	NotesInTrash(ctx context.Context) ([]notes.NoteModel, error)
	Colors(ctx context.Context) ([]notes.ColorModel, error)

	// InsertNote inserts a draft (sentinel id) or updates the note with the
	// same id, and returns the stored note.
	InsertNote(ctx context.Context, note notes.NoteModel) (notes.NoteModel, error)
	MoveNoteToTrash(ctx context.Context, id int64) error
	RestoreNotesFromTrash(ctx context.Context, ids []int64) error
	DeleteNotes(ctx context.Context, ids []int64) error

	Subscribe(fn func(Change)) (unsubscribe func())
}
