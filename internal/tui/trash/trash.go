package trash

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jetnotes/internal/notes"
	"jetnotes/internal/tui/shared"
	"jetnotes/internal/tui/theme"
	"jetnotes/internal/viewmodel"
)

// Model lists trashed notes and acts on the selection
type Model struct {
	vm *viewmodel.MainViewModel

	cursor       int
	scrollOffset int
	width        int
	height       int

	confirm *shared.ConfirmationModal
	pending []notes.NoteModel
}

// New creates the trash screen
func New(vm *viewmodel.MainViewModel) Model {
	return Model{vm: vm}
}

// SetSize sets the area available to the list
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInModalState reports whether the delete confirmation is open
func (m Model) IsInModalState() bool {
	return m.confirm != nil
}

// targets is the selection, or the note under the cursor when nothing is
// selected. Notes that left the trash meanwhile are never returned.
func (m Model) targets(list []notes.NoteModel) []notes.NoteModel {
	if sel := m.vm.SelectedNotes.Get(); len(sel) > 0 {
		return m.vm.InTrash(sel)
	}
	if m.cursor >= 0 && m.cursor < len(list) {
		return []notes.NoteModel{list[m.cursor]}
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if res, ok := msg.(shared.ConfirmationResultMsg); ok {
		// the trash may have changed while the dialog was open
		if t := m.vm.InTrash(m.pending); res.Confirmed && len(t) > 0 {
			m.vm.PermanentlyDeleteNotes(t)
		}
		m.confirm = nil
		m.pending = nil
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.confirm != nil {
		return m, m.confirm.Update(keyMsg)
	}

	list := m.vm.NotesInTrash.Get()
	m.clampCursor(len(list))

	switch keyMsg.String() {
	case "up", "k":
		m.cursor--
		m.clampCursor(len(list))
	case "down", "j":
		m.cursor++
		m.clampCursor(len(list))
	case " ":
		if m.cursor < len(list) {
			m.vm.OnNoteSelected(list[m.cursor])
		}
	case "r":
		if t := m.targets(list); len(t) > 0 {
			m.vm.RestoreNotes(t)
		}
	case "d":
		if t := m.targets(list); len(t) > 0 {
			m.pending = t
			m.confirm = shared.NewConfirmationModal(
				fmt.Sprintf("Permanently delete %d note(s)?", len(t)),
				"This cannot be undone.",
				44,
			)
		}
	}
	m.scrollOffset, _ = shared.Window(len(list), m.cursor, m.scrollOffset, m.height-2)
	return m, nil
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	if m.confirm != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirm.View())
	}

	list := m.vm.NotesInTrash.Get()
	m.clampCursor(len(list))

	var b strings.Builder
	header := theme.Title.Render("Trash") + theme.Muted.Render(fmt.Sprintf("  %d", len(list)))
	if n := len(m.vm.SelectedNotes.Get()); n > 0 {
		header += theme.Selected.Render(fmt.Sprintf("  %d selected", n))
	}
	b.WriteString(header + "\n")

	if len(list) == 0 {
		b.WriteString(theme.Muted.Render("Trash is empty."))
	}

	start, end := shared.Window(len(list), m.cursor, m.scrollOffset, m.height-2)
	for i := start; i < end; i++ {
		n := list[i]
		box := "[ ] "
		if m.vm.IsSelected(n) {
			box = theme.Selected.Render("[*] ")
		}
		line := box + shared.StyledNoteLine(n, m.width-6)
		if i == m.cursor {
			b.WriteString(theme.Cursor.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	hints := "[space] select  [r] restore  [d] delete  [tab] notes  [?] help"
	return shared.PinHints(b.String(), theme.HelpHint.Render(hints), m.height)
}
