package tui

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"jetnotes/internal/database"
	"jetnotes/internal/dispatch"
	"jetnotes/internal/notes"
	"jetnotes/internal/repository"
	"jetnotes/internal/routing"
	"jetnotes/internal/tui/messages"
	"jetnotes/internal/tui/shared"
	"jetnotes/internal/viewmodel"
)

type harness struct {
	t     *testing.T
	app   AppModel
	db    *sql.DB
	repo  *repository.SQLite
	queue *dispatch.Queue
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repository.NewSQLite(db)
	queue := dispatch.NewQueue(256)
	vm := viewmodel.New(repo, routing.NewRouter(routing.ScreenNotes), queue)
	t.Cleanup(func() {
		queue.Close()
		vm.Close()
	})

	h := &harness{t: t, app: NewAppModel(vm, queue), db: db, repo: repo, queue: queue}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.pump()
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	model, cmd := h.app.Update(msg)
	h.app = model.(AppModel)
	return cmd
}

// pump plays the role of the bubbletea loop for posted continuations
func (h *harness) pump() {
	for {
		h.app.vm.Wait()
		select {
		case fn := <-h.queue.C():
			h.send(messages.DispatchMsg{Fn: fn})
		default:
			return
		}
	}
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = h.send(key(k))
	}
	return cmd
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) insert(n notes.NoteModel) notes.NoteModel {
	h.t.Helper()
	saved, err := h.repo.InsertNote(context.Background(), n)
	if err != nil {
		h.t.Fatalf("insert: %v", err)
	}
	h.pump()
	return saved
}

// restoreElsewhere restores ids through a separate repository, as the CLI in
// another process would, and reports it as an external change
func (h *harness) restoreElsewhere(ids ...int64) {
	h.t.Helper()
	other := repository.NewSQLite(h.db)
	if err := other.RestoreNotesFromTrash(context.Background(), ids); err != nil {
		h.t.Fatalf("restore: %v", err)
	}
	h.repo.Hub().Broadcast(repository.Change{Kind: repository.ChangeExternal})
	h.pump()
}

func (h *harness) screen() routing.Screen {
	return h.app.router.Current()
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes a command that is known not to block and collects its messages
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestNewNote_TypeAndSave(t *testing.T) {
	h := newHarness(t)

	h.press("n")
	if h.screen() != routing.ScreenSaveNote {
		t.Fatalf("expected editor, got %s", h.screen())
	}
	if h.app.editorView.IsEditing() {
		t.Error("new draft should not be in editing mode")
	}

	h.typeText("Buy milk")
	h.press("tab")
	h.typeText("2 liters")
	if d := h.app.vm.NoteEntry.Get(); d.Title != "Buy milk" || d.Content != "2 liters" {
		t.Fatalf("draft not updated: %+v", d)
	}

	h.press("ctrl+s")
	h.pump()

	if h.screen() != routing.ScreenNotes {
		t.Errorf("expected notes screen after save, got %s", h.screen())
	}
	if !h.app.vm.NoteEntry.Get().IsNew() {
		t.Error("expected draft reset after save")
	}
	list := h.app.notesView.Visible()
	if len(list) != 1 || list[0].Title != "Buy milk" || list[0].IsNew() {
		t.Fatalf("unexpected notes: %+v", list)
	}
	if !strings.Contains(h.app.View(), "Buy milk") {
		t.Error("expected saved note rendered in list")
	}
}

func TestEditor_DoubleSaveInsertsOnce(t *testing.T) {
	h := newHarness(t)

	h.press("n")
	h.typeText("Once")
	h.press("ctrl+s", "ctrl+s")
	h.pump()

	if h.screen() != routing.ScreenNotes {
		t.Fatalf("expected notes screen, got %s", h.screen())
	}
	if got := len(h.app.vm.NotesNotInTrash.Get()); got != 1 {
		t.Errorf("expected one note, got %d", got)
	}
}

func TestEditor_LoadsClickedNote(t *testing.T) {
	h := newHarness(t)
	saved := h.insert(notes.NewNote().WithTitle("Groceries").WithContent("eggs"))

	h.press("enter")
	if h.screen() != routing.ScreenSaveNote {
		t.Fatalf("expected editor, got %s", h.screen())
	}
	if !h.app.editorView.IsEditing() {
		t.Error("existing note should open in editing mode")
	}
	if h.app.vm.NoteEntry.Get().ID != saved.ID {
		t.Errorf("expected draft id %d, got %d", saved.ID, h.app.vm.NoteEntry.Get().ID)
	}
	if h.app.editorView.IsModified() {
		t.Error("freshly loaded note should not be modified")
	}
	if !strings.Contains(h.app.View(), "Edit note") {
		t.Error("expected edit heading")
	}

	h.typeText("!")
	if got := h.app.vm.NoteEntry.Get().Title; got != "Groceries!" {
		t.Errorf("expected appended title, got %q", got)
	}

	h.press("esc")
	if h.screen() != routing.ScreenNotes {
		t.Errorf("expected esc to return to notes, got %s", h.screen())
	}
}

func TestEditor_DeleteOnlyWhenEditing(t *testing.T) {
	h := newHarness(t)

	h.press("n", "ctrl+d")
	if h.app.editorView.IsInModalState() {
		t.Fatal("delete confirmation must not open for a new note")
	}
	h.press("esc")

	saved := h.insert(notes.NewNote().WithTitle("Old"))
	h.press("enter", "ctrl+d")
	if !h.app.editorView.IsInModalState() {
		t.Fatal("expected delete confirmation for existing note")
	}
	if cmd := h.press("q"); cmd != nil {
		for _, msg := range run(cmd) {
			if _, ok := msg.(tea.QuitMsg); ok {
				t.Fatal("q must not quit while a dialog is open")
			}
		}
	}

	h.send(shared.ConfirmationResultMsg{Confirmed: true})
	h.pump()

	if h.screen() != routing.ScreenNotes {
		t.Errorf("expected notes screen after trashing, got %s", h.screen())
	}
	trashed := h.app.vm.NotesInTrash.Get()
	if len(trashed) != 1 || trashed[0].ID != saved.ID {
		t.Errorf("expected note in trash, got %+v", trashed)
	}
}

func TestEditor_ColorPickerAndCheckbox(t *testing.T) {
	h := newHarness(t)

	h.press("n", "ctrl+p")
	if !h.app.editorView.IsInModalState() {
		t.Fatal("expected color picker open")
	}
	h.press("j")
	for _, msg := range run(h.press("enter")) {
		h.send(msg)
	}
	if h.app.editorView.IsInModalState() {
		t.Fatal("expected picker closed after picking")
	}
	want := h.app.vm.Colors.Get()[1]
	if got := h.app.vm.NoteEntry.Get().Color; got != want {
		t.Errorf("expected color %+v, got %+v", want, got)
	}

	// esc closes the picker before leaving the screen
	h.press("ctrl+p")
	for _, msg := range run(h.press("esc")) {
		h.send(msg)
	}
	if h.screen() != routing.ScreenSaveNote {
		t.Fatalf("esc with picker open must stay in editor, got %s", h.screen())
	}

	h.press("ctrl+x")
	if !h.app.vm.NoteEntry.Get().CanBeCheckedOff() {
		t.Error("expected checkbox enabled")
	}
	h.press("ctrl+x")
	if h.app.vm.NoteEntry.Get().CanBeCheckedOff() {
		t.Error("expected checkbox disabled")
	}
}

func TestNotes_SpaceTogglesCheckbox(t *testing.T) {
	h := newHarness(t)
	saved := h.insert(notes.NewNote().WithTitle("Call mom").WithCheckable(true))

	h.press("space")
	h.pump()

	got, err := h.repo.GetNote(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Checked() {
		t.Error("expected note checked")
	}
	if h.screen() != routing.ScreenNotes {
		t.Errorf("toggling must not navigate, got %s", h.screen())
	}
}

func TestNotes_FuzzyFilter(t *testing.T) {
	h := newHarness(t)
	h.insert(notes.NewNote().WithTitle("Groceries"))
	h.insert(notes.NewNote().WithTitle("Call mom"))

	h.press("/")
	if !h.app.notesView.IsInModalState() {
		t.Fatal("expected filter typing mode")
	}
	// q is text while typing a filter
	h.typeText("groq")
	h.send(tea.KeyMsg{Type: tea.KeyBackspace})
	h.typeText("c")

	list := h.app.notesView.Visible()
	if len(list) != 1 || list[0].Title != "Groceries" {
		t.Fatalf("expected only Groceries, got %+v", list)
	}

	h.press("enter")
	if h.app.notesView.IsInModalState() {
		t.Error("enter should leave typing mode")
	}
	h.press("esc")
	if got := len(h.app.notesView.Visible()); got != 2 {
		t.Errorf("expected filter cleared, got %d notes", got)
	}
}

func TestTrash_RestoreSelected(t *testing.T) {
	h := newHarness(t)
	a := h.insert(notes.NewNote().WithTitle("A"))
	b := h.insert(notes.NewNote().WithTitle("B"))
	ctx := context.Background()
	h.repo.MoveNoteToTrash(ctx, a.ID)
	h.repo.MoveNoteToTrash(ctx, b.ID)
	h.pump()

	h.press("tab")
	if h.screen() != routing.ScreenTrash {
		t.Fatalf("expected trash, got %s", h.screen())
	}

	h.press("space", "j", "space")
	if got := len(h.app.vm.SelectedNotes.Get()); got != 2 {
		t.Fatalf("expected 2 selected, got %d", got)
	}
	h.press("space")
	if got := len(h.app.vm.SelectedNotes.Get()); got != 1 {
		t.Fatalf("expected selection toggled off, got %d", got)
	}

	h.press("r")
	h.pump()

	if len(h.app.vm.SelectedNotes.Get()) != 0 {
		t.Error("expected selection cleared after restore")
	}
	live := h.app.vm.NotesNotInTrash.Get()
	if len(live) != 1 || live[0].ID != a.ID {
		t.Errorf("expected A restored, got %+v", live)
	}
	if !strings.Contains(h.app.View(), "Restored 1 note(s)") {
		t.Error("expected restore notice in status bar")
	}

	h.press("j")
	if strings.Contains(h.app.View(), "Restored 1 note(s)") {
		t.Error("expected notice cleared on next key")
	}
}

func TestTrash_DeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	a := h.insert(notes.NewNote().WithTitle("A"))
	h.repo.MoveNoteToTrash(context.Background(), a.ID)
	h.pump()

	h.press("tab", "d")
	if !h.app.trashView.IsInModalState() {
		t.Fatal("expected confirmation dialog")
	}

	h.send(shared.ConfirmationResultMsg{Confirmed: false})
	h.pump()
	if len(h.app.vm.NotesInTrash.Get()) != 1 {
		t.Fatal("cancel must keep the note")
	}

	h.press("d")
	h.send(shared.ConfirmationResultMsg{Confirmed: true})
	h.pump()
	if len(h.app.vm.NotesInTrash.Get()) != 0 {
		t.Error("expected trash emptied")
	}
	if _, err := h.repo.GetNote(context.Background(), a.ID); err == nil {
		t.Error("expected note permanently deleted")
	}
}

func TestTrash_DeleteSkipsNotesRestoredElsewhere(t *testing.T) {
	h := newHarness(t)
	a := h.insert(notes.NewNote().WithTitle("A"))
	b := h.insert(notes.NewNote().WithTitle("B"))
	ctx := context.Background()
	h.repo.MoveNoteToTrash(ctx, a.ID)
	h.repo.MoveNoteToTrash(ctx, b.ID)
	h.pump()

	h.press("tab", "space")
	if !h.app.vm.IsSelected(a) {
		t.Fatal("expected A selected")
	}

	h.restoreElsewhere(a.ID)
	if got := len(h.app.vm.SelectedNotes.Get()); got != 0 {
		t.Fatalf("expected selection pruned, got %d", got)
	}

	// nothing selected, so d falls back to the note under the cursor
	h.press("d")
	h.send(shared.ConfirmationResultMsg{Confirmed: true})
	h.pump()

	got, err := h.repo.GetNote(ctx, a.ID)
	if err != nil {
		t.Fatalf("restored note A was deleted: %v", err)
	}
	if got.InTrash {
		t.Error("expected A to stay out of the trash")
	}
	if _, err := h.repo.GetNote(ctx, b.ID); err == nil {
		t.Error("expected B deleted")
	}
}

func TestTrash_ConfirmIgnoresNotesRestoredWhileOpen(t *testing.T) {
	h := newHarness(t)
	a := h.insert(notes.NewNote().WithTitle("A"))
	ctx := context.Background()
	h.repo.MoveNoteToTrash(ctx, a.ID)
	h.pump()

	h.press("tab", "space", "d")
	if !h.app.trashView.IsInModalState() {
		t.Fatal("expected confirmation dialog")
	}

	h.restoreElsewhere(a.ID)
	h.send(shared.ConfirmationResultMsg{Confirmed: true})
	h.pump()

	if _, err := h.repo.GetNote(ctx, a.ID); err != nil {
		t.Fatalf("restored note A was deleted: %v", err)
	}
	if h.app.trashView.IsInModalState() {
		t.Error("expected dialog closed")
	}
}

func TestGlobalKeys(t *testing.T) {
	h := newHarness(t)

	h.press("?")
	if !strings.Contains(h.app.View(), "Press any key to close") {
		t.Fatal("expected help overlay")
	}
	h.press("x")
	if strings.Contains(h.app.View(), "Press any key to close") {
		t.Fatal("expected help closed")
	}

	msgs := run(h.press("q"))
	if len(msgs) != 1 {
		t.Fatalf("expected quit command, got %v", msgs)
	}
	if _, ok := msgs[0].(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", msgs[0])
	}

	// q is plain text inside the editor
	h.press("n")
	h.press("q")
	if h.screen() != routing.ScreenSaveNote || h.app.vm.NoteEntry.Get().Title != "q" {
		t.Errorf("expected q typed into title, got screen %s title %q", h.screen(), h.app.vm.NoteEntry.Get().Title)
	}
}
