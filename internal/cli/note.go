package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jaswdr/faker"

	"jetnotes/internal/notes"
	"jetnotes/internal/preview"
	"jetnotes/internal/repository"
)

const listPreviewWidth = 48

// parseInterspersed lets positional arguments and flags appear in any order
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(strings.TrimPrefix(a, "#"), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid note id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *runner) runAdd(args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(r.err)
	content := fs.String("c", "", "Note content")
	colorName := fs.String("color", "", "Color name (see 'jetnotes colors')")
	checkable := fs.Bool("check", false, "Make the note checkable")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return 1
	}
	if len(positional) == 0 {
		fmt.Fprintln(r.err, "Error: note title required")
		fmt.Fprintln(r.err, "Usage: jetnotes note add \"Title\" [-c content] [--color name] [--check]")
		return 1
	}

	note := notes.NewNote().
		WithTitle(strings.Join(positional, " ")).
		WithContent(*content).
		WithCheckable(*checkable)

	if *colorName != "" {
		colors, err := r.store.Colors(r.ctx)
		if err != nil {
			fmt.Fprintf(r.err, "Error loading colors: %v\n", err)
			return 1
		}
		c, ok := notes.ColorByName(colors, *colorName)
		if !ok {
			fmt.Fprintf(r.err, "Error: unknown color %q\n", *colorName)
			return 1
		}
		note = note.WithColor(c)
	}

	saved, err := r.store.InsertNote(r.ctx, note)
	if err != nil {
		fmt.Fprintf(r.err, "Error adding note: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.out, "Added: %s\n", saved.Title)
	fmt.Fprintf(r.out, "ID: %d\n", saved.ID)
	return 0
}

func (r *runner) runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(r.err)
	showTrash := fs.Bool("trash", false, "Show only notes in trash")
	showAll := fs.Bool("all", false, "Show all notes including trash")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	var list []notes.NoteModel
	var err error

	switch {
	case *showAll:
		list, err = r.allNotes()
	case *showTrash:
		list, err = r.store.NotesInTrash(r.ctx)
	default:
		list, err = r.store.NotesNotInTrash(r.ctx)
	}
	if err != nil {
		fmt.Fprintf(r.err, "Error loading notes: %v\n", err)
		return 1
	}

	if len(list) == 0 {
		fmt.Fprintln(r.out, "No notes found.")
		return 0
	}

	for _, n := range list {
		r.printNote(n)
	}

	fmt.Fprintf(r.out, "\n%d note(s)\n", len(list))
	return 0
}

func (r *runner) allNotes() ([]notes.NoteModel, error) {
	live, err := r.store.NotesNotInTrash(r.ctx)
	if err != nil {
		return nil, err
	}
	trashed, err := r.store.NotesInTrash(r.ctx)
	if err != nil {
		return nil, err
	}
	all := append(live, trashed...)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (r *runner) printNote(n notes.NoteModel) {
	box := "   "
	if n.CanBeCheckedOff() {
		box = "[ ]"
		if n.Checked() {
			box = "[x]"
		}
	}

	line := fmt.Sprintf("%4d %s %s", n.ID, box, n.Title)
	if p := preview.Plain(n.Content, listPreviewWidth); p != "" {
		line += " - " + p
	}
	line += " (" + n.Color.Name + ")"
	if n.InTrash {
		line += " [trash]"
	}
	fmt.Fprintln(r.out, line)
}

func (r *runner) runCheck(args []string, checked bool) int {
	verb := "check"
	if !checked {
		verb = "uncheck"
	}
	if len(args) == 0 {
		fmt.Fprintln(r.err, "Error: note ID required")
		fmt.Fprintf(r.err, "Usage: jetnotes note %s <id>\n", verb)
		return 1
	}
	ids, err := parseIDs(args[:1])
	if err != nil {
		fmt.Fprintf(r.err, "Error: %v\n", err)
		return 1
	}

	note, err := r.store.GetNote(r.ctx, ids[0])
	if err != nil {
		fmt.Fprintf(r.err, "Error: %v\n", err)
		return 1
	}
	if !note.CanBeCheckedOff() {
		fmt.Fprintf(r.err, "Error: note %d is not checkable\n", note.ID)
		return 1
	}
	if note.Checked() == checked {
		fmt.Fprintf(r.out, "Already %sed: %s\n", verb, note.Title)
		return 0
	}

	if _, err := r.store.InsertNote(r.ctx, note.WithChecked(checked)); err != nil {
		fmt.Fprintf(r.err, "Error updating note: %v\n", err)
		return 1
	}
	if checked {
		fmt.Fprintf(r.out, "Checked: %s\n", note.Title)
	} else {
		fmt.Fprintf(r.out, "Unchecked: %s\n", note.Title)
	}
	return 0
}

func (r *runner) runTrash(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(r.err, "Error: note ID required")
		fmt.Fprintln(r.err, "Usage: jetnotes note trash <id>")
		return 1
	}
	ids, err := parseIDs(args[:1])
	if err != nil {
		fmt.Fprintf(r.err, "Error: %v\n", err)
		return 1
	}

	note, err := r.store.GetNote(r.ctx, ids[0])
	if err != nil {
		fmt.Fprintf(r.err, "Error: %v\n", err)
		return 1
	}
	if note.InTrash {
		fmt.Fprintf(r.out, "Already in trash: %s\n", note.Title)
		return 0
	}

	if err := r.store.MoveNoteToTrash(r.ctx, note.ID); err != nil {
		fmt.Fprintf(r.err, "Error moving note to trash: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.out, "Trashed: %s\n", note.Title)
	return 0
}

func (r *runner) runRestore(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(r.err, "Error: note ID required")
		fmt.Fprintln(r.err, "Usage: jetnotes note restore <id>...")
		return 1
	}
	ids, err := parseIDs(args)
	if err != nil {
		fmt.Fprintf(r.err, "Error: %v\n", err)
		return 1
	}

	if err := r.store.RestoreNotesFromTrash(r.ctx, ids); err != nil {
		fmt.Fprintf(r.err, "Error restoring notes: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.out, "Restored %d note(s)\n", len(ids))
	return 0
}

func (r *runner) runDelete(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(r.err, "Error: note ID required")
		fmt.Fprintln(r.err, "Usage: jetnotes note delete <id>...")
		return 1
	}
	ids, err := parseIDs(args)
	if err != nil {
		fmt.Fprintf(r.err, "Error: %v\n", err)
		return 1
	}

	if err := r.store.DeleteNotes(r.ctx, ids); err != nil {
		fmt.Fprintf(r.err, "Error deleting notes: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.out, "Deleted %d note(s)\n", len(ids))
	return 0
}

func (r *runner) runExport(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(r.err, "Error: target directory required")
		fmt.Fprintln(r.err, "Usage: jetnotes note export <dir>")
		return 1
	}
	dir := args[0]

	list, err := r.allNotes()
	if err != nil {
		fmt.Fprintf(r.err, "Error loading notes: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(r.err, "Error creating %s: %v\n", dir, err)
		return 1
	}

	for _, n := range list {
		data, err := notes.MarshalMarkdown(n)
		if err != nil {
			fmt.Fprintf(r.err, "Error encoding note %d: %v\n", n.ID, err)
			return 1
		}
		if err := os.WriteFile(filepath.Join(dir, notes.Filename(n)), data, 0644); err != nil {
			fmt.Fprintf(r.err, "Error writing note %d: %v\n", n.ID, err)
			return 1
		}
	}

	fmt.Fprintf(r.out, "Exported %d note(s) to %s\n", len(list), dir)
	return 0
}

func (r *runner) runImport(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(r.err, "Error: source directory required")
		fmt.Fprintln(r.err, "Usage: jetnotes note import <dir>")
		return 1
	}
	dir := args[0]

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(r.err, "Error reading %s: %v\n", dir, err)
		return 1
	}
	colors, err := r.store.Colors(r.ctx)
	if err != nil {
		fmt.Fprintf(r.err, "Error loading colors: %v\n", err)
		return 1
	}

	imported, failed := 0, 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(r.err, "Skipping %s: %v\n", e.Name(), err)
			failed++
			continue
		}
		note, err := notes.UnmarshalMarkdown(data, colors)
		if err != nil {
			fmt.Fprintf(r.err, "Skipping %s: %v\n", e.Name(), err)
			failed++
			continue
		}
		if _, err := r.store.InsertNote(r.ctx, note); err != nil {
			if errors.Is(err, repository.ErrInvalidNote) {
				fmt.Fprintf(r.err, "Skipping %s: %v\n", e.Name(), err)
				failed++
				continue
			}
			fmt.Fprintf(r.err, "Error importing %s: %v\n", e.Name(), err)
			return 1
		}
		imported++
	}

	fmt.Fprintf(r.out, "Imported %d note(s)\n", imported)
	if failed > 0 {
		fmt.Fprintf(r.out, "Skipped %d file(s)\n", failed)
		return 1
	}
	return 0
}

func (r *runner) runSeed(args []string) int {
	count := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(r.err, "Error: invalid count %q\n", args[0])
			return 1
		}
		count = n
	}

	colors, err := r.store.Colors(r.ctx)
	if err != nil {
		fmt.Fprintf(r.err, "Error loading colors: %v\n", err)
		return 1
	}
	if len(colors) == 0 {
		colors = []notes.ColorModel{notes.DefaultColor}
	}

	fake := faker.New()
	for i := 0; i < count; i++ {
		title := strings.TrimSuffix(fake.Lorem().Sentence(fake.IntBetween(2, 5)), ".")
		note := notes.NewNote().
			WithTitle(title).
			WithContent(fake.Lorem().Paragraph(fake.IntBetween(1, 3))).
			WithColor(colors[fake.IntBetween(0, len(colors)-1)])
		if fake.Boolean().Bool() {
			note = note.WithChecked(fake.Boolean().Bool())
		}
		if _, err := r.store.InsertNote(r.ctx, note); err != nil {
			fmt.Fprintf(r.err, "Error seeding notes: %v\n", err)
			return 1
		}
	}

	fmt.Fprintf(r.out, "Seeded %d note(s)\n", count)
	return 0
}
