// Package viewmodel turns user intents into repository calls and screen
// transitions, and holds the transient state the screens render.
package viewmodel

import (
	"context"
	"fmt"

	"jetnotes/internal/dispatch"
	"jetnotes/internal/logs"
	"jetnotes/internal/notes"
	"jetnotes/internal/observable"
	"jetnotes/internal/repository"
	"jetnotes/internal/routing"
)

// Notice is a short message for the status bar
type Notice struct {
	Message string
	Err     bool
}

// MainViewModel coordinates the Notes, SaveNote and Trash screens. All
// methods must be called on the UI goroutine; repository work runs in the
// background and its effects are posted back through the dispatcher.
type MainViewModel struct {
	repo   repository.Repository
	router *routing.Router
	scope  *scope

	notesNotInTrash *liveList[notes.NoteModel]
	notesInTrash    *liveList[notes.NoteModel]
	colors          *liveList[notes.ColorModel]

	NotesNotInTrash *observable.Value[[]notes.NoteModel]
	NotesInTrash    *observable.Value[[]notes.NoteModel]
	Colors          *observable.Value[[]notes.ColorModel]
	NoteEntry       *observable.Value[notes.NoteModel]
	SelectedNotes   *observable.Value[[]notes.NoteModel]
	Notice          *observable.Value[Notice]

	saving bool // UI goroutine only

	unsubscribe func()
	unprune     func()
}

// New creates the view-model and starts loading the note lists and colors
func New(repo repository.Repository, router *routing.Router, disp dispatch.Dispatcher) *MainViewModel {
	vm := &MainViewModel{
		repo:            repo,
		router:          router,
		notesNotInTrash: newLiveList("notes", repo.NotesNotInTrash),
		notesInTrash:    newLiveList("trash", repo.NotesInTrash),
		colors:          newLiveList("colors", repo.Colors),
		NoteEntry:       observable.NewValue(notes.NewNote()),
		SelectedNotes:   observable.NewValue[[]notes.NoteModel](nil),
		Notice:          observable.NewValue(Notice{}),
	}
	vm.NotesNotInTrash = vm.notesNotInTrash.value
	vm.NotesInTrash = vm.notesInTrash.value
	vm.Colors = vm.colors.value
	vm.scope = newScope(disp, vm.reportError)

	vm.unsubscribe = repo.Subscribe(func(c repository.Change) {
		logs.Logger.Printf("ViewModel: repository change %s %v", c.Kind, c.IDs)
		vm.notesNotInTrash.refresh(vm.scope)
		vm.notesInTrash.refresh(vm.scope)
	})

	// The selection only ever holds notes that are currently in the trash
	vm.unprune = vm.NotesInTrash.Subscribe(vm.pruneSelection)

	vm.notesNotInTrash.refresh(vm.scope)
	vm.notesInTrash.refresh(vm.scope)
	vm.colors.refresh(vm.scope)

	return vm
}

// Router returns the router the view-model navigates with
func (vm *MainViewModel) Router() *routing.Router {
	return vm.router
}

// OnCreateNewNoteClick starts a blank draft and opens the editor
func (vm *MainViewModel) OnCreateNewNoteClick() {
	vm.NoteEntry.Set(notes.NewNote())
	vm.router.NavigateTo(routing.ScreenSaveNote)
}

// OnNoteClick opens note in the editor
func (vm *MainViewModel) OnNoteClick(note notes.NoteModel) {
	vm.NoteEntry.Set(note)
	vm.router.NavigateTo(routing.ScreenSaveNote)
}

// OnNoteEntryChange replaces the draft without persisting it
func (vm *MainViewModel) OnNoteEntryChange(note notes.NoteModel) {
	vm.NoteEntry.Set(note)
}

// SaveNote persists note, then resets the draft and returns to the list.
// On failure the draft and screen are left alone. Calls made while a save
// is still running are ignored, so a new draft is inserted only once.
func (vm *MainViewModel) SaveNote(note notes.NoteModel) {
	if vm.saving {
		logs.Logger.Println("ViewModel: save already in progress")
		return
	}
	vm.saving = true
	vm.scope.launchSettled("save note", func(ctx context.Context) (func(), error) {
		if _, err := vm.repo.InsertNote(ctx, note); err != nil {
			return nil, err
		}
		return func() {
			vm.router.NavigateTo(routing.ScreenNotes)
			vm.NoteEntry.Set(notes.NewNote())
		}, nil
	}, func() { vm.saving = false })
}

// IsSaving reports whether a SaveNote call is still running
func (vm *MainViewModel) IsSaving() bool {
	return vm.saving
}

// OnNoteCheckedChange persists a checkbox toggle made from the list
func (vm *MainViewModel) OnNoteCheckedChange(note notes.NoteModel) {
	vm.scope.launch("update note", func(ctx context.Context) (func(), error) {
		_, err := vm.repo.InsertNote(ctx, note)
		return nil, err
	})
}

// MoveNoteToTrash trashes note and returns to the list
func (vm *MainViewModel) MoveNoteToTrash(note notes.NoteModel) {
	vm.scope.launch("move note to trash", func(ctx context.Context) (func(), error) {
		if err := vm.repo.MoveNoteToTrash(ctx, note.ID); err != nil {
			return nil, err
		}
		return func() {
			vm.router.NavigateTo(routing.ScreenNotes)
		}, nil
	})
}

// OnNoteSelected toggles note in the trash selection
func (vm *MainViewModel) OnNoteSelected(note notes.NoteModel) {
	current := vm.SelectedNotes.Get()
	next := make([]notes.NoteModel, 0, len(current)+1)
	found := false
	for _, n := range current {
		if n.ID == note.ID {
			found = true
			continue
		}
		next = append(next, n)
	}
	if !found {
		next = append(next, note)
	}
	vm.SelectedNotes.Set(next)
}

// IsSelected reports whether note is part of the trash selection
func (vm *MainViewModel) IsSelected(note notes.NoteModel) bool {
	for _, n := range vm.SelectedNotes.Get() {
		if n.ID == note.ID {
			return true
		}
	}
	return false
}

// InTrash keeps the notes of list that are still in the trash
func (vm *MainViewModel) InTrash(list []notes.NoteModel) []notes.NoteModel {
	return keepIDs(list, vm.NotesInTrash.Get())
}

func (vm *MainViewModel) pruneSelection(trash []notes.NoteModel) {
	current := vm.SelectedNotes.Get()
	if len(current) == 0 {
		return
	}
	kept := keepIDs(current, trash)
	if len(kept) != len(current) {
		logs.Logger.Printf("ViewModel: dropped %d selected note(s) no longer in trash", len(current)-len(kept))
		vm.SelectedNotes.Set(kept)
	}
}

func keepIDs(list, present []notes.NoteModel) []notes.NoteModel {
	ids := make(map[int64]struct{}, len(present))
	for _, n := range present {
		ids[n.ID] = struct{}{}
	}
	var out []notes.NoteModel
	for _, n := range list {
		if _, ok := ids[n.ID]; ok {
			out = append(out, n)
		}
	}
	return out
}

// RestoreNotes moves list out of the trash and clears the selection
func (vm *MainViewModel) RestoreNotes(list []notes.NoteModel) {
	ids := notes.IDs(list)
	vm.scope.launch("restore notes", func(ctx context.Context) (func(), error) {
		if err := vm.repo.RestoreNotesFromTrash(ctx, ids); err != nil {
			return nil, err
		}
		return func() {
			vm.SelectedNotes.Set(nil)
			vm.Notice.Set(Notice{Message: fmt.Sprintf("Restored %d note(s)", len(ids))})
		}, nil
	})
}

// PermanentlyDeleteNotes deletes list and clears the selection
func (vm *MainViewModel) PermanentlyDeleteNotes(list []notes.NoteModel) {
	ids := notes.IDs(list)
	vm.scope.launch("delete notes", func(ctx context.Context) (func(), error) {
		if err := vm.repo.DeleteNotes(ctx, ids); err != nil {
			return nil, err
		}
		return func() {
			vm.SelectedNotes.Set(nil)
			vm.Notice.Set(Notice{Message: fmt.Sprintf("Deleted %d note(s)", len(ids))})
		}, nil
	})
}

// ClearNotice dismisses the current status message
func (vm *MainViewModel) ClearNotice() {
	if vm.Notice.Get() != (Notice{}) {
		vm.Notice.Set(Notice{})
	}
}

// Wait blocks until every background task has finished. Continuations may
// still be queued on the dispatcher afterwards.
func (vm *MainViewModel) Wait() {
	vm.scope.wait()
}

// Close abandons in-flight work and stops listening to the repository.
// The dispatcher must not block Post once the UI loop has exited.
func (vm *MainViewModel) Close() {
	vm.unsubscribe()
	vm.unprune()
	vm.scope.close()
}

func (vm *MainViewModel) reportError(op string, err error) {
	vm.Notice.Set(Notice{Message: fmt.Sprintf("Could not %s: %v", op, err), Err: true})
}
