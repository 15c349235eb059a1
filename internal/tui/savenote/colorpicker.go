package savenote

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"jetnotes/internal/notes"
	"jetnotes/internal/tui/theme"
)

// ColorPickedMsg is sent when the picker closes
type ColorPickedMsg struct {
	Color     notes.ColorModel
	Cancelled bool
}

// ColorPicker is the drawer listing the palette
type ColorPicker struct {
	colors []notes.ColorModel
	cursor int
}

// NewColorPicker opens the picker with current highlighted
func NewColorPicker(colors []notes.ColorModel, current notes.ColorModel) *ColorPicker {
	p := &ColorPicker{colors: colors}
	for i, c := range colors {
		if c.ID == current.ID {
			p.cursor = i
			break
		}
	}
	return p
}

// Update handles key events for the picker
func (p *ColorPicker) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.colors)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.colors) == 0 {
			return cancelPick
		}
		c := p.colors[p.cursor]
		return func() tea.Msg { return ColorPickedMsg{Color: c} }
	case "esc", "ctrl+p":
		return cancelPick
	}
	return nil
}

func cancelPick() tea.Msg {
	return ColorPickedMsg{Cancelled: true}
}

// View renders the palette as a boxed list
func (p *ColorPicker) View() string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Color") + "\n\n")
	if len(p.colors) == 0 {
		b.WriteString(theme.Muted.Render("Loading colors..."))
	}
	for i, c := range p.colors {
		line := theme.Swatch(c.Hex) + " " + c.Name
		if i == p.cursor {
			b.WriteString(theme.Cursor.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + theme.ModalHelp.Render("[enter] pick  [esc] close"))
	return theme.ModalBox.Render(b.String())
}
