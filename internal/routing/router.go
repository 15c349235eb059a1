package routing

import "jetnotes/internal/observable"

// Screen identifies one of the application's views
type Screen int

const (
	ScreenNotes Screen = iota
	ScreenSaveNote
	ScreenTrash
)

func (s Screen) String() string {
	switch s {
	case ScreenNotes:
		return "notes"
	case ScreenSaveNote:
		return "save_note"
	case ScreenTrash:
		return "trash"
	}
	return "unknown"
}

// ParseScreen maps a config/flag name onto a Screen. Only the top-level
// screens are accepted.
func ParseScreen(name string) (Screen, bool) {
	switch name {
	case "notes", "":
		return ScreenNotes, true
	case "trash":
		return ScreenTrash, true
	}
	return ScreenNotes, false
}

// Router tracks the current screen. It has no history; every transition is
// allowed. Mutate it only from the UI goroutine.
type Router struct {
	current *observable.Value[Screen]
}

// NewRouter creates a router showing initial
func NewRouter(initial Screen) *Router {
	return &Router{current: observable.NewValue(initial)}
}

// NavigateTo switches to screen
func (r *Router) NavigateTo(screen Screen) {
	r.current.Set(screen)
}

// Current returns the screen being shown
func (r *Router) Current() Screen {
	return r.current.Get()
}

// Subscribe is called after every navigation, including re-navigation to
// the current screen.
func (r *Router) Subscribe(fn func(Screen)) (unsubscribe func()) {
	return r.current.Subscribe(fn)
}
