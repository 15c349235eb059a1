package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"jetnotes/internal/logs"
	"jetnotes/internal/notes"
)

// SQLite is a Repository backed by a SQLite database
type SQLite struct {
	db       *sqlx.DB
	hub      *Hub
	validate *validator.Validate
}

// NewSQLite wraps an open, migrated database
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{
		db:       sqlx.NewDb(db, "sqlite"),
		hub:      NewHub(),
		validate: validator.New(),
	}
}

// Hub exposes the change hub so that external watchers can report changes
func (r *SQLite) Hub() *Hub {
	return r.hub
}

type noteRow struct {
	ID              int64          `db:"id"`
	Title           string         `db:"title"`
	Content         string         `db:"content"`
	CanBeCheckedOff bool           `db:"can_be_checked_off"`
	IsCheckedOff    bool           `db:"is_checked_off"`
	ColorID         int64          `db:"color_id"`
	ColorName       sql.NullString `db:"color_name"`
	ColorHex        sql.NullString `db:"color_hex"`
	InTrash         bool           `db:"in_trash"`
}

func (row noteRow) toModel() notes.NoteModel {
	n := notes.NoteModel{
		ID:      row.ID,
		Title:   row.Title,
		Content: row.Content,
		Color:   notes.DefaultColor,
		InTrash: row.InTrash,
	}
	if row.CanBeCheckedOff {
		n = n.WithChecked(row.IsCheckedOff)
	}
	if row.ColorName.Valid && row.ColorHex.Valid {
		n.Color = notes.ColorModel{ID: row.ColorID, Name: row.ColorName.String, Hex: row.ColorHex.String}
	}
	return n
}

const noteSelect = `SELECT n.id, n.title, n.content, n.can_be_checked_off, n.is_checked_off,
	n.color_id, c.name AS color_name, c.hex AS color_hex, n.in_trash
	FROM notes n LEFT JOIN colors c ON c.id = n.color_id`

func (r *SQLite) listNotes(ctx context.Context, inTrash bool) ([]notes.NoteModel, error) {
	var rows []noteRow
	if err := r.db.SelectContext(ctx, &rows, noteSelect+` WHERE n.in_trash = ? ORDER BY n.id`, inTrash); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	list := make([]notes.NoteModel, len(rows))
	for i, row := range rows {
		list[i] = row.toModel()
	}
	return list, nil
}

// NotesNotInTrash returns live notes in creation order
func (r *SQLite) NotesNotInTrash(ctx context.Context) ([]notes.NoteModel, error) {
	return r.listNotes(ctx, false)
}

// NotesInTrash returns trashed notes in creation order
func (r *SQLite) NotesInTrash(ctx context.Context) ([]notes.NoteModel, error) {
	return r.listNotes(ctx, true)
}

// Colors returns the palette ordered by id
func (r *SQLite) Colors(ctx context.Context) ([]notes.ColorModel, error) {
	var colors []notes.ColorModel
	if err := r.db.SelectContext(ctx, &colors, `SELECT id, name, hex FROM colors ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	return colors, nil
}

// GetNote returns a single note regardless of trash state
func (r *SQLite) GetNote(ctx context.Context, id int64) (notes.NoteModel, error) {
	var row noteRow
	err := r.db.GetContext(ctx, &row, noteSelect+` WHERE n.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return notes.NoteModel{}, fmt.Errorf("get note %d: %w", id, ErrNoteNotFound)
	}
	if err != nil {
		return notes.NoteModel{}, fmt.Errorf("get note %d: %w", id, err)
	}
	return row.toModel(), nil
}

// InsertNote upserts by id. A draft with the sentinel id gets a fresh id.
func (r *SQLite) InsertNote(ctx context.Context, note notes.NoteModel) (notes.NoteModel, error) {
	if note.Color.ID == 0 {
		note.Color = notes.DefaultColor
	}
	if err := r.validate.Struct(note); err != nil {
		return notes.NoteModel{}, fmt.Errorf("%w: %v", ErrInvalidNote, err)
	}
	if note.ID != notes.NewNoteID && note.ID <= 0 {
		return notes.NoteModel{}, fmt.Errorf("%w: id %d", ErrInvalidNote, note.ID)
	}

	id := note.ID
	if note.IsNew() {
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO notes (title, content, can_be_checked_off, is_checked_off, color_id, in_trash)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			note.Title, note.Content, note.CanBeCheckedOff(), note.Checked(), note.Color.ID, note.InTrash,
		)
		if err != nil {
			return notes.NoteModel{}, fmt.Errorf("insert note: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return notes.NoteModel{}, fmt.Errorf("last insert id: %w", err)
		}
	} else {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO notes (id, title, content, can_be_checked_off, is_checked_off, color_id, in_trash)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   title = excluded.title,
			   content = excluded.content,
			   can_be_checked_off = excluded.can_be_checked_off,
			   is_checked_off = excluded.is_checked_off,
			   color_id = excluded.color_id,
			   in_trash = excluded.in_trash,
			   updated_at = CURRENT_TIMESTAMP`,
			note.ID, note.Title, note.Content, note.CanBeCheckedOff(), note.Checked(), note.Color.ID, note.InTrash,
		)
		if err != nil {
			return notes.NoteModel{}, fmt.Errorf("upsert note %d: %w", note.ID, err)
		}
	}

	logs.Logger.Printf("Repository: stored note %d", id)
	r.hub.Broadcast(Change{Kind: ChangeInsert, IDs: []int64{id}})
	return r.GetNote(ctx, id)
}

// MoveNoteToTrash soft-deletes a note
func (r *SQLite) MoveNoteToTrash(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notes SET in_trash = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("trash note %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("trash note %d: %w", id, ErrNoteNotFound)
	}

	logs.Logger.Printf("Repository: moved note %d to trash", id)
	r.hub.Broadcast(Change{Kind: ChangeTrash, IDs: []int64{id}})
	return nil
}

// RestoreNotesFromTrash clears the trash flag on every given note. Unknown
// ids are ignored.
func (r *SQLite) RestoreNotesFromTrash(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.execIn(ctx, `UPDATE notes SET in_trash = 0, updated_at = CURRENT_TIMESTAMP WHERE id IN (?)`, ids); err != nil {
		return fmt.Errorf("restore notes: %w", err)
	}

	logs.Logger.Printf("Repository: restored %d note(s)", len(ids))
	r.hub.Broadcast(Change{Kind: ChangeRestore, IDs: ids})
	return nil
}

// DeleteNotes removes notes permanently. Unknown ids are ignored.
func (r *SQLite) DeleteNotes(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.execIn(ctx, `DELETE FROM notes WHERE id IN (?)`, ids); err != nil {
		return fmt.Errorf("delete notes: %w", err)
	}

	logs.Logger.Printf("Repository: deleted %d note(s)", len(ids))
	r.hub.Broadcast(Change{Kind: ChangeDelete, IDs: ids})
	return nil
}

// Subscribe registers fn for change notifications
func (r *SQLite) Subscribe(fn func(Change)) (unsubscribe func()) {
	return r.hub.Subscribe(fn)
}

func (r *SQLite) execIn(ctx context.Context, query string, ids []int64) error {
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	return err
}
