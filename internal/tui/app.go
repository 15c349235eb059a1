package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jetnotes/internal/dispatch"
	"jetnotes/internal/logs"
	"jetnotes/internal/routing"
	"jetnotes/internal/tui/messages"
	notesview "jetnotes/internal/tui/noteslist"
	editorview "jetnotes/internal/tui/savenote"
	"jetnotes/internal/tui/shared"
	"jetnotes/internal/tui/theme"
	trashview "jetnotes/internal/tui/trash"
	"jetnotes/internal/viewmodel"
)

// screenLatch records the last screen the router switched to until the
// root model picks it up. Router writes only happen inside Update.
type screenLatch struct {
	screen  routing.Screen
	changed bool
}

// AppModel is the root model that dispatches to child views
type AppModel struct {
	vm      *viewmodel.MainViewModel
	router  *routing.Router
	queue   *dispatch.Queue
	entered *screenLatch

	notesView  notesview.Model
	editorView editorview.Model
	trashView  trashview.Model

	showHelp bool
	width    int
	height   int
	ready    bool
}

// NewAppModel creates the root application model
func NewAppModel(vm *viewmodel.MainViewModel, queue *dispatch.Queue) AppModel {
	latch := &screenLatch{}
	vm.Router().Subscribe(func(s routing.Screen) {
		latch.screen = s
		latch.changed = true
	})

	return AppModel{
		vm:         vm,
		router:     vm.Router(),
		queue:      queue,
		entered:    latch,
		notesView:  notesview.New(vm),
		editorView: editorview.New(vm),
		trashView:  trashview.New(vm),
	}
}

func (m AppModel) Init() tea.Cmd {
	return messages.WaitForDispatch(m.queue)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - 4 // tab bar + status bar
		m.notesView.SetSize(msg.Width, contentHeight)
		m.editorView.SetSize(msg.Width, contentHeight)
		m.trashView.SetSize(msg.Width, contentHeight)
		return m, nil

	case messages.DispatchMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
		cmd := m.syncScreen()
		return m, tea.Batch(cmd, messages.WaitForDispatch(m.queue))

	case tea.KeyMsg:
		// Global keys: ctrl+c always quits
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Dismiss help overlay on any key
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		m.vm.ClearNotice()

		if m.router.Current() != routing.ScreenSaveNote && !m.childIsModal() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case "tab":
				if m.router.Current() == routing.ScreenTrash {
					m.router.NavigateTo(routing.ScreenNotes)
				} else {
					m.router.NavigateTo(routing.ScreenTrash)
				}
				cmd := m.syncScreen()
				return m, cmd
			}
		}
	}

	// Dispatch to current child view
	var cmd tea.Cmd
	switch m.router.Current() {
	case routing.ScreenNotes:
		m.notesView, cmd = m.notesView.Update(msg)
	case routing.ScreenSaveNote:
		m.editorView, cmd = m.editorView.Update(msg)
	case routing.ScreenTrash:
		m.trashView, cmd = m.trashView.Update(msg)
	}
	enterCmd := m.syncScreen()
	return m, tea.Batch(cmd, enterCmd)
}

// syncScreen runs enter hooks for a screen the router switched to
func (m *AppModel) syncScreen() tea.Cmd {
	if !m.entered.changed {
		return nil
	}
	m.entered.changed = false
	logs.Logger.Printf("TUI: entered %s", m.entered.screen)

	if m.entered.screen == routing.ScreenSaveNote {
		return m.editorView.Load(m.vm.NoteEntry.Get())
	}
	return nil
}

func (m AppModel) childIsModal() bool {
	switch m.router.Current() {
	case routing.ScreenNotes:
		return m.notesView.IsInModalState()
	case routing.ScreenSaveNote:
		return m.editorView.IsInModalState()
	case routing.ScreenTrash:
		return m.trashView.IsInModalState()
	}
	return false
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return shared.RenderHelpPopup(helpSections, m.width, m.height)
	}

	var content string
	switch m.router.Current() {
	case routing.ScreenNotes:
		content = m.notesView.View()
	case routing.ScreenSaveNote:
		content = m.editorView.View()
	case routing.ScreenTrash:
		content = m.trashView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabBar(), content, m.renderStatusBar())
}

func (m AppModel) renderTabBar() string {
	tab := func(label string, active bool) string {
		if active {
			return theme.TabActive.Render(label)
		}
		return theme.TabInactive.Render(label)
	}
	current := m.router.Current()
	bar := tab("Notes", current != routing.ScreenTrash) + "  " + tab("Trash", current == routing.ScreenTrash)
	return theme.TabBar.Width(m.width).Render(bar)
}

func (m AppModel) renderStatusBar() string {
	var text string
	notice := m.vm.Notice.Get()
	switch {
	case notice.Message != "" && notice.Err:
		text = theme.Error.Render(notice.Message)
	case notice.Message != "":
		text = theme.Ok.Render(notice.Message)
	case m.router.Current() == routing.ScreenSaveNote:
		text = "jetnotes | editing | ctrl+c: quit"
	default:
		text = "jetnotes | tab: notes/trash | ?: help | q: quit"
	}
	return theme.StatusBar.Width(m.width).Render(text)
}

var helpSections = []shared.HelpSection{
	{
		Title: "Global",
		Binds: []shared.HelpBind{
			{Key: "tab", Desc: "Switch between notes and trash"},
			{Key: "?", Desc: "Show this help"},
			{Key: "q", Desc: "Quit"},
			{Key: "ctrl+c", Desc: "Force quit"},
		},
	},
	{
		Title: "Notes",
		Binds: []shared.HelpBind{
			{Key: "j / k", Desc: "Navigate notes"},
			{Key: "enter", Desc: "Open note"},
			{Key: "space", Desc: "Toggle checkbox"},
			{Key: "n", Desc: "New note"},
			{Key: "/", Desc: "Fuzzy filter"},
		},
	},
	{
		Title: "Editor",
		Binds: []shared.HelpBind{
			{Key: "tab", Desc: "Switch title / content"},
			{Key: "ctrl+s", Desc: "Save and close"},
			{Key: "ctrl+p", Desc: "Pick color"},
			{Key: "ctrl+x", Desc: "Toggle checkbox on note"},
			{Key: "ctrl+t", Desc: "Check / uncheck"},
			{Key: "ctrl+d", Desc: "Move to trash (existing notes)"},
			{Key: "esc", Desc: "Close picker, else back to notes"},
		},
	},
	{
		Title: "Trash",
		Binds: []shared.HelpBind{
			{Key: "space", Desc: "Select note"},
			{Key: "r", Desc: "Restore selected"},
			{Key: "d", Desc: "Delete selected forever"},
		},
	},
}
