package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"jetnotes/internal/database"
	"jetnotes/internal/notes"
	"jetnotes/internal/repository"
)

func setupStore(t *testing.T) *repository.SQLite {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repository.NewSQLite(db)
}

func runCLI(t *testing.T, store Store, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, store, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Usage(t *testing.T) {
	store := setupStore(t)

	if code, _, _ := runCLI(t, store); code != 1 {
		t.Errorf("expected exit 1 without args, got %d", code)
	}
	code, out, _ := runCLI(t, store, "help")
	if code != 0 || !strings.Contains(out, "Usage: jetnotes") {
		t.Errorf("unexpected help output (%d): %q", code, out)
	}
	code, _, errOut := runCLI(t, store, "bogus")
	if code != 1 || !strings.Contains(errOut, "Unknown command: bogus") {
		t.Errorf("unexpected result for unknown command (%d): %q", code, errOut)
	}
}

func TestAdd_FlagsAfterTitle(t *testing.T) {
	store := setupStore(t)

	code, out, errOut := runCLI(t, store, "note", "add", "Buy", "milk", "-c", "2 liters", "--color", "blue", "--check")
	if code != 0 {
		t.Fatalf("add failed (%d): %s", code, errOut)
	}
	if !strings.Contains(out, "Added: Buy milk") {
		t.Errorf("unexpected output: %q", out)
	}

	list, err := store.NotesNotInTrash(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one note, got %d", len(list))
	}
	n := list[0]
	if n.Title != "Buy milk" || n.Content != "2 liters" {
		t.Errorf("unexpected note: %+v", n)
	}
	if n.Color.Name != "Blue" {
		t.Errorf("expected Blue, got %q", n.Color.Name)
	}
	if !n.CanBeCheckedOff() || n.Checked() {
		t.Errorf("expected unchecked checkbox, got %v", n.IsCheckedOff)
	}
}

func TestAdd_Errors(t *testing.T) {
	store := setupStore(t)

	if code, _, errOut := runCLI(t, store, "note", "add"); code != 1 || !strings.Contains(errOut, "title required") {
		t.Errorf("expected missing title error, got %d %q", code, errOut)
	}
	if code, _, errOut := runCLI(t, store, "note", "add", "x", "--color", "plaid"); code != 1 || !strings.Contains(errOut, "unknown color") {
		t.Errorf("expected unknown color error, got %d %q", code, errOut)
	}
}

func TestList_TrashAndAll(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	keep, _ := store.InsertNote(ctx, notes.NewNote().WithTitle("Keep"))
	gone, _ := store.InsertNote(ctx, notes.NewNote().WithTitle("Gone"))
	if err := store.MoveNoteToTrash(ctx, gone.ID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	_, out, _ := runCLI(t, store, "note", "list")
	if !strings.Contains(out, "Keep") || strings.Contains(out, "Gone") {
		t.Errorf("default list should show only live notes: %q", out)
	}
	_, out, _ = runCLI(t, store, "note", "list", "--trash")
	if strings.Contains(out, "Keep") || !strings.Contains(out, "Gone") {
		t.Errorf("trash list should show only trashed notes: %q", out)
	}
	_, out, _ = runCLI(t, store, "note", "ls", "--all")
	if strings.Index(out, "Keep") > strings.Index(out, "Gone") || !strings.Contains(out, "2 note(s)") {
		t.Errorf("all list should show both in id order: %q", out)
	}
	if keep.ID >= gone.ID {
		t.Fatalf("ids out of order: %d %d", keep.ID, gone.ID)
	}
}

func TestTrashRestoreDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	a, _ := store.InsertNote(ctx, notes.NewNote().WithTitle("A"))
	b, _ := store.InsertNote(ctx, notes.NewNote().WithTitle("B"))
	idA, idB := itoa(a.ID), itoa(b.ID)

	for _, id := range []string{idA, idB} {
		if code, _, errOut := runCLI(t, store, "note", "trash", id); code != 0 {
			t.Fatalf("trash %s: %s", id, errOut)
		}
	}
	if _, out, _ := runCLI(t, store, "note", "trash", idA); !strings.Contains(out, "Already in trash") {
		t.Errorf("expected already-in-trash message, got %q", out)
	}

	if code, _, errOut := runCLI(t, store, "note", "restore", idA); code != 0 {
		t.Fatalf("restore: %s", errOut)
	}
	if code, _, errOut := runCLI(t, store, "note", "rm", idB); code != 0 {
		t.Fatalf("delete: %s", errOut)
	}

	live, _ := store.NotesNotInTrash(ctx)
	trashed, _ := store.NotesInTrash(ctx)
	if len(live) != 1 || live[0].ID != a.ID {
		t.Errorf("expected A restored, got %+v", live)
	}
	if len(trashed) != 0 {
		t.Errorf("expected empty trash, got %+v", trashed)
	}
}

func TestTrash_Errors(t *testing.T) {
	store := setupStore(t)

	if code, _, errOut := runCLI(t, store, "note", "trash", "abc"); code != 1 || !strings.Contains(errOut, "invalid note id") {
		t.Errorf("expected invalid id error, got %d %q", code, errOut)
	}
	if code, _, errOut := runCLI(t, store, "note", "trash", "42"); code != 1 || !strings.Contains(errOut, "not found") {
		t.Errorf("expected not found error, got %d %q", code, errOut)
	}
}

func TestCheckUncheck(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	plain, _ := store.InsertNote(ctx, notes.NewNote().WithTitle("Plain"))
	task, _ := store.InsertNote(ctx, notes.NewNote().WithTitle("Task").WithCheckable(true))

	if code, _, _ := runCLI(t, store, "note", "check", itoa(plain.ID)); code != 1 {
		t.Error("expected checking a plain note to fail")
	}
	if code, _, errOut := runCLI(t, store, "note", "check", itoa(task.ID)); code != 0 {
		t.Fatalf("check: %s", errOut)
	}
	got, _ := store.GetNote(ctx, task.ID)
	if !got.Checked() {
		t.Error("expected note checked")
	}
	if code, _, errOut := runCLI(t, store, "note", "uncheck", itoa(task.ID)); code != 0 {
		t.Fatalf("uncheck: %s", errOut)
	}
	got, _ = store.GetNote(ctx, task.ID)
	if got.Checked() || !got.CanBeCheckedOff() {
		t.Errorf("expected unchecked checkbox, got %v", got.IsCheckedOff)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := setupStore(t)
	ctx := context.Background()

	colors, _ := src.Colors(ctx)
	green, _ := notes.ColorByName(colors, "Green")
	a, _ := src.InsertNote(ctx, notes.NewNote().WithTitle("Groceries").WithContent("- eggs\n- milk").WithColor(green).WithChecked(true))
	b, _ := src.InsertNote(ctx, notes.NewNote().WithTitle("Old idea"))
	src.MoveNoteToTrash(ctx, b.ID)

	dir := filepath.Join(t.TempDir(), "export")
	if code, _, errOut := runCLI(t, src, "note", "export", dir); code != 0 {
		t.Fatalf("export: %s", errOut)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 2 {
		t.Fatalf("expected 2 exported files, got %d (%v)", len(entries), err)
	}

	dst := setupStore(t)
	code, out, errOut := runCLI(t, dst, "note", "import", dir)
	if code != 0 {
		t.Fatalf("import: %s", errOut)
	}
	if !strings.Contains(out, "Imported 2 note(s)") {
		t.Errorf("unexpected output: %q", out)
	}

	got, err := dst.GetNote(ctx, a.ID)
	if err != nil {
		t.Fatalf("get imported note: %v", err)
	}
	if got.Title != a.Title || got.Content != a.Content || got.Color != green || !got.Checked() {
		t.Errorf("imported note differs: %+v vs %+v", got, a)
	}
	trashed, _ := dst.GetNote(ctx, b.ID)
	if !trashed.InTrash {
		t.Error("expected trashed note to stay in trash")
	}
}

func TestImport_SkipsBadFiles(t *testing.T) {
	store := setupStore(t)
	dir := t.TempDir()

	os.WriteFile(filepath.Join(dir, "good.md"), []byte("just some text\n"), 0644)
	os.WriteFile(filepath.Join(dir, "bad.md"), []byte("---\ntitle: never closed\n"), 0644)
	os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not markdown"), 0644)

	code, out, _ := runCLI(t, store, "note", "import", dir)
	if code != 1 {
		t.Errorf("expected exit 1 when a file is skipped, got %d", code)
	}
	if !strings.Contains(out, "Imported 1 note(s)") || !strings.Contains(out, "Skipped 1 file(s)") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestSeed(t *testing.T) {
	store := setupStore(t)

	if code, _, errOut := runCLI(t, store, "note", "seed", "5"); code != 0 {
		t.Fatalf("seed: %s", errOut)
	}
	list, _ := store.NotesNotInTrash(context.Background())
	if len(list) != 5 {
		t.Errorf("expected 5 seeded notes, got %d", len(list))
	}
	if code, _, _ := runCLI(t, store, "note", "seed", "-1"); code != 1 {
		t.Error("expected invalid count to fail")
	}
}

func TestColors(t *testing.T) {
	store := setupStore(t)

	code, out, _ := runCLI(t, store, "colors")
	if code != 0 {
		t.Fatalf("colors exit %d", code)
	}
	if lines := strings.Count(out, "\n"); lines != len(notes.DefaultColors) {
		t.Errorf("expected %d colors, got %d lines", len(notes.DefaultColors), lines)
	}
	if !strings.Contains(out, "#FFFFFF  White") {
		t.Errorf("expected default color listed: %q", out)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
