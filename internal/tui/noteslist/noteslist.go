package noteslist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"jetnotes/internal/notes"
	"jetnotes/internal/tui/shared"
	"jetnotes/internal/tui/theme"
	"jetnotes/internal/viewmodel"
)

// Model is the list of notes that are not in the trash
type Model struct {
	vm *viewmodel.MainViewModel

	cursor       int
	scrollOffset int
	width        int
	height       int

	searchActive     bool
	searchFilterMode bool
	searchInput      textinput.Model
	searchQuery      string
}

// New creates the notes screen
func New(vm *viewmodel.MainViewModel) Model {
	return Model{vm: vm, searchInput: textinput.New()}
}

// SetSize sets the area available to the list
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInModalState reports whether the screen wants every key for itself
func (m Model) IsInModalState() bool {
	return m.searchFilterMode
}

// Visible returns the notes currently shown, after the search filter
func (m Model) Visible() []notes.NoteModel {
	all := m.vm.NotesNotInTrash.Get()
	if m.searchQuery == "" {
		return all
	}
	targets := make([]string, len(all))
	for i, n := range all {
		targets[i] = n.Title + " " + n.Content
	}
	matches := fuzzy.Find(m.searchQuery, targets)
	filtered := make([]notes.NoteModel, len(matches))
	for i, match := range matches {
		filtered[i] = all[match.Index]
	}
	return filtered
}

// Cursor returns the highlighted row
func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.searchFilterMode {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m.handleFilterTyping(keyMsg)
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	list := m.Visible()
	m.clampCursor(len(list))

	switch keyMsg.String() {
	case "up", "k":
		m.moveCursor(-1, len(list))
	case "down", "j":
		m.moveCursor(1, len(list))
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(list) - 1
		m.clampCursor(len(list))
	case "enter":
		if n, ok := m.selected(list); ok {
			m.vm.OnNoteClick(n)
		}
	case " ":
		if n, ok := m.selected(list); ok && n.CanBeCheckedOff() {
			m.vm.OnNoteCheckedChange(n.WithChecked(!n.Checked()))
		}
	case "n":
		m.vm.OnCreateNewNoteClick()
	case "/":
		return m.startSearch()
	case "esc":
		if m.searchActive {
			m.clearSearch()
		}
	}
	m.scrollOffset, _ = shared.Window(len(list), m.cursor, m.scrollOffset, m.listRows())
	return m, nil
}

func (m Model) startSearch() (Model, tea.Cmd) {
	m.searchActive = true
	m.searchFilterMode = true
	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "type to filter..."
	m.searchInput.CharLimit = 256
	m.searchInput.Width = 40
	m.searchInput.SetValue(m.searchQuery)
	return m, m.searchInput.Focus()
}

func (m *Model) clearSearch() {
	m.searchActive = false
	m.searchFilterMode = false
	m.searchQuery = ""
	m.searchInput.SetValue("")
	m.searchInput.Blur()
	m.cursor = 0
	m.scrollOffset = 0
}

func (m Model) handleFilterTyping(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// Keep the query, go back to navigating the filtered list
		m.searchFilterMode = false
		m.searchInput.Blur()
		if m.searchQuery == "" {
			m.searchActive = false
		}
		return m, nil
	case "esc":
		m.clearSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchQuery = m.searchInput.Value()
	m.cursor = 0
	m.scrollOffset = 0
	return m, cmd
}

func (m *Model) moveCursor(delta, n int) {
	m.cursor += delta
	m.clampCursor(n)
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected(list []notes.NoteModel) (notes.NoteModel, bool) {
	if m.cursor >= 0 && m.cursor < len(list) {
		return list[m.cursor], true
	}
	return notes.NoteModel{}, false
}

func (m Model) listRows() int {
	rows := m.height - 2 // header + hints
	if m.searchActive {
		rows--
	}
	return rows
}

func (m Model) View() string {
	list := m.Visible()
	m.clampCursor(len(list))

	var b strings.Builder
	header := theme.Title.Render("Notes")
	if total := len(m.vm.NotesNotInTrash.Get()); m.searchQuery != "" {
		header += theme.Muted.Render(fmt.Sprintf("  %d of %d", len(list), total))
	} else {
		header += theme.Muted.Render(fmt.Sprintf("  %d", total))
	}
	b.WriteString(header + "\n")

	if m.searchActive {
		b.WriteString(theme.Subtitle.Render("/") + m.searchInput.View() + "\n")
	}

	if len(list) == 0 {
		if m.searchQuery != "" {
			b.WriteString(theme.Muted.Render("No matching notes."))
		} else {
			b.WriteString(theme.Muted.Render("No notes yet. Press n to write one."))
		}
	}

	start, end := shared.Window(len(list), m.cursor, m.scrollOffset, m.listRows())
	for i := start; i < end; i++ {
		line := shared.StyledNoteLine(list[i], m.width-2)
		if i == m.cursor {
			b.WriteString(theme.Cursor.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	var hints string
	switch {
	case m.searchFilterMode:
		hints = "type to filter  [enter] done  [esc] clear"
	case m.searchActive:
		hints = "[/] filter  [j/k] navigate  [enter] open  [esc] clear"
	default:
		hints = "[n] new  [enter] open  [space] check  [/] filter  [tab] trash  [?] help"
	}
	return shared.PinHints(b.String(), theme.HelpHint.Render(hints), m.height)
}
