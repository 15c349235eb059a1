package shared

import (
	"github.com/charmbracelet/lipgloss"

	"jetnotes/internal/notes"
	"jetnotes/internal/preview"
	"jetnotes/internal/tui/theme"
)

// StyledNoteLine renders one note row within width columns.
// Format: ● [x] Title  content preview
func StyledNoteLine(n notes.NoteModel, width int) string {
	line := theme.Swatch(n.Color.Hex) + " "

	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	if n.CanBeCheckedOff() {
		if n.Checked() {
			line += theme.Checked.Render("[x] " + title)
		} else {
			line += "[ ] " + title
		}
	} else {
		line += theme.Bold.Render(title)
	}

	room := width - lipgloss.Width(line) - 2
	if room > 8 {
		if p := preview.Plain(n.Content, room); p != "" {
			line += "  " + theme.Preview.Render(p)
		}
	}
	return line
}
