package savenote

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jetnotes/internal/notes"
	"jetnotes/internal/routing"
	"jetnotes/internal/tui/shared"
	"jetnotes/internal/tui/theme"
	"jetnotes/internal/viewmodel"
)

var (
	editorLabelStyle    = theme.FieldLabel.Width(12)
	editorModifiedStyle = lipgloss.NewStyle().Foreground(theme.Warning)
)

type field int

const (
	fieldTitle field = iota
	fieldContent
)

// Model edits the view-model draft. Every keystroke is pushed back with
// OnNoteEntryChange so the draft survives leaving the screen.
type Model struct {
	vm *viewmodel.MainViewModel

	title    textinput.Model
	content  textarea.Model
	focus    field
	original notes.NoteModel

	picker  *ColorPicker
	confirm *shared.ConfirmationModal

	width  int
	height int
}

// New creates the editor screen
func New(vm *viewmodel.MainViewModel) Model {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 256

	ta := textarea.New()
	ta.Placeholder = "Write your note..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	return Model{vm: vm, title: ti, content: ta}
}

// SetSize sets the area available to the editor
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.title.Width = max(width-editorLabelStyle.GetWidth()-6, 10)
	m.content.SetWidth(max(width-4, 10))
	m.content.SetHeight(max(height-9, 3))
}

// Load fills the inputs from note and focuses the title
func (m *Model) Load(note notes.NoteModel) tea.Cmd {
	m.original = note
	m.picker = nil
	m.confirm = nil
	m.title.SetValue(note.Title)
	m.title.CursorEnd()
	m.content.SetValue(note.Content)
	m.focus = fieldTitle
	m.content.Blur()
	return m.title.Focus()
}

// IsEditing reports whether the draft is an existing note
func (m Model) IsEditing() bool {
	return !m.vm.NoteEntry.Get().IsNew()
}

// IsInModalState reports whether a dialog or the picker is open
func (m Model) IsInModalState() bool {
	return m.picker != nil || m.confirm != nil
}

// IsModified reports whether the draft differs from what was loaded
func (m Model) IsModified() bool {
	d := m.vm.NoteEntry.Get()
	return d.Title != m.original.Title ||
		d.Content != m.original.Content ||
		d.Color != m.original.Color ||
		d.CanBeCheckedOff() != m.original.CanBeCheckedOff() ||
		d.Checked() != m.original.Checked()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ColorPickedMsg:
		m.picker = nil
		if !msg.Cancelled {
			m.vm.OnNoteEntryChange(m.vm.NoteEntry.Get().WithColor(msg.Color))
		}
		return m, nil
	case shared.ConfirmationResultMsg:
		m.confirm = nil
		if msg.Confirmed {
			m.vm.MoveNoteToTrash(m.vm.NoteEntry.Get())
		}
		return m, nil
	}

	if m.confirm != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m, m.confirm.Update(keyMsg)
		}
		return m, nil
	}
	if m.picker != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			return m, m.picker.Update(keyMsg)
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	switch keyMsg.String() {
	case "esc":
		m.vm.Router().NavigateTo(routing.ScreenNotes)
		return m, nil
	case "ctrl+s":
		m.vm.SaveNote(m.vm.NoteEntry.Get())
		return m, nil
	case "ctrl+p":
		m.picker = NewColorPicker(m.vm.Colors.Get(), m.vm.NoteEntry.Get().Color)
		return m, nil
	case "ctrl+x":
		d := m.vm.NoteEntry.Get()
		m.vm.OnNoteEntryChange(d.WithCheckable(!d.CanBeCheckedOff()))
		return m, nil
	case "ctrl+t":
		if d := m.vm.NoteEntry.Get(); d.CanBeCheckedOff() {
			m.vm.OnNoteEntryChange(d.WithChecked(!d.Checked()))
		}
		return m, nil
	case "ctrl+d":
		if m.IsEditing() {
			m.confirm = shared.NewConfirmationModal("Move note to trash?", m.vm.NoteEntry.Get().Title, 40)
		}
		return m, nil
	case "tab", "shift+tab":
		return m.toggleFocus()
	case "enter":
		if m.focus == fieldTitle {
			return m.toggleFocus()
		}
	}

	return m.updateFocused(msg)
}

func (m Model) toggleFocus() (Model, tea.Cmd) {
	if m.focus == fieldTitle {
		m.focus = fieldContent
		m.title.Blur()
		return m, m.content.Focus()
	}
	m.focus = fieldTitle
	m.content.Blur()
	return m, m.title.Focus()
}

func (m Model) updateFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == fieldTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}

	d := m.vm.NoteEntry.Get()
	if d.Title != m.title.Value() || d.Content != m.content.Value() {
		m.vm.OnNoteEntryChange(d.WithTitle(m.title.Value()).WithContent(m.content.Value()))
	}
	return m, cmd
}

func (m Model) View() string {
	if m.confirm != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirm.View())
	}
	if m.picker != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.picker.View())
	}

	d := m.vm.NoteEntry.Get()
	var b strings.Builder

	heading := "New note"
	if m.IsEditing() {
		heading = "Edit note"
	}
	b.WriteString(theme.Title.Render(heading))
	if m.IsModified() {
		b.WriteString(editorModifiedStyle.Render(" *"))
	}
	b.WriteString("\n\n")

	titleBox := theme.Field
	contentBox := theme.Field
	if m.focus == fieldTitle {
		titleBox = theme.FieldFocused
	} else {
		contentBox = theme.FieldFocused
	}
	b.WriteString(titleBox.Render(m.title.View()) + "\n")

	b.WriteString(editorLabelStyle.Render("Color:") + theme.Swatch(d.Color.Hex) + " " + d.Color.Name + "\n")
	b.WriteString(editorLabelStyle.Render("Checkbox:"))
	switch {
	case !d.CanBeCheckedOff():
		b.WriteString(theme.Muted.Render("off"))
	case d.Checked():
		b.WriteString("[x] checked")
	default:
		b.WriteString("[ ] unchecked")
	}
	b.WriteString("\n")

	b.WriteString(contentBox.Render(m.content.View()) + "\n")

	hints := "[ctrl+s] save  [ctrl+p] color  [ctrl+x] checkbox"
	if d.CanBeCheckedOff() {
		hints += "  [ctrl+t] check"
	}
	if m.IsEditing() {
		hints += "  [ctrl+d] trash"
	}
	hints += "  [tab] next field  [esc] back"
	return shared.PinHints(b.String(), theme.HelpHint.Render(hints), m.height)
}
