package notes

import "strings"

// NewNoteID marks a note that has not been persisted yet.
const NewNoteID int64 = -1

// ColorModel is a named color a note can be tagged with
type ColorModel struct {
	ID   int64  `json:"id" db:"id" yaml:"-"`
	Name string `json:"name" db:"name" yaml:"name" validate:"required,max=32"`
	Hex  string `json:"hex" db:"hex" yaml:"hex" validate:"required,hexcolor"`
}

// DefaultColor is used for new notes and whenever a color reference is missing
var DefaultColor = ColorModel{ID: 1, Name: "White", Hex: "#FFFFFF"}

// DefaultColors is the palette seeded into a fresh database
var DefaultColors = []ColorModel{
	DefaultColor,
	{ID: 2, Name: "Red", Hex: "#E57373"},
	{ID: 3, Name: "Pink", Hex: "#F06292"},
	{ID: 4, Name: "Purple", Hex: "#CE93D8"},
	{ID: 5, Name: "Blue", Hex: "#2196F3"},
	{ID: 6, Name: "Cyan", Hex: "#00ACC1"},
	{ID: 7, Name: "Teal", Hex: "#26A69A"},
	{ID: 8, Name: "Green", Hex: "#4CAF50"},
	{ID: 9, Name: "Light Green", Hex: "#8BC34A"},
	{ID: 10, Name: "Lime", Hex: "#CDDC39"},
	{ID: 11, Name: "Yellow", Hex: "#FFEB3B"},
	{ID: 12, Name: "Orange", Hex: "#FF9800"},
	{ID: 13, Name: "Brown", Hex: "#BCAAA4"},
	{ID: 14, Name: "Gray", Hex: "#9E9E9E"},
}

// NoteModel is a single note. A nil IsCheckedOff means the note has no checkbox.
type NoteModel struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title" validate:"max=256"`
	Content      string     `json:"content"`
	IsCheckedOff *bool      `json:"is_checked_off,omitempty"`
	Color        ColorModel `json:"color"`
	InTrash      bool       `json:"in_trash"`
}

// NewNote returns a blank draft
func NewNote() NoteModel {
	return NoteModel{ID: NewNoteID, Color: DefaultColor}
}

// IsNew reports whether the note is an unsaved draft
func (n NoteModel) IsNew() bool {
	return n.ID == NewNoteID
}

// CanBeCheckedOff reports whether the note carries a checkbox
func (n NoteModel) CanBeCheckedOff() bool {
	return n.IsCheckedOff != nil
}

// Checked reports the checkbox state; notes without a checkbox are unchecked
func (n NoteModel) Checked() bool {
	return n.IsCheckedOff != nil && *n.IsCheckedOff
}

// WithTitle returns a copy of the note with a new title
func (n NoteModel) WithTitle(title string) NoteModel {
	n.Title = title
	return n
}

// WithContent returns a copy of the note with new content
func (n NoteModel) WithContent(content string) NoteModel {
	n.Content = content
	return n
}

// WithColor returns a copy of the note tagged with c
func (n NoteModel) WithColor(c ColorModel) NoteModel {
	n.Color = c
	return n
}

// WithCheckable turns the checkbox on (unchecked) or removes it
func (n NoteModel) WithCheckable(checkable bool) NoteModel {
	if !checkable {
		n.IsCheckedOff = nil
		return n
	}
	if n.IsCheckedOff == nil {
		n.IsCheckedOff = new(bool)
	}
	return n
}

// WithChecked returns a copy with the checkbox set. The note becomes checkable.
func (n NoteModel) WithChecked(checked bool) NoteModel {
	v := checked
	n.IsCheckedOff = &v
	return n
}

// IDs collects note ids in order
func IDs(list []NoteModel) []int64 {
	ids := make([]int64, len(list))
	for i, n := range list {
		ids[i] = n.ID
	}
	return ids
}

// ColorByName finds a color by name, ignoring case
func ColorByName(colors []ColorModel, name string) (ColorModel, bool) {
	for _, c := range colors {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return ColorModel{}, false
}
