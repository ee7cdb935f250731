package route

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicatePath   = errors.New("duplicate screen path")
	ErrDuplicateScreen = errors.New("screen mapped more than once")
	ErrMissingScreen   = errors.New("screen has no path")
	ErrInvalidPath     = errors.New("screen path must start with /")
)

// Entry maps one dashboard path to a native screen.
type Entry struct {
	Screen ScreenID
	Path   string
	Title  string
	// Header reports whether the native header is shown for this screen.
	Header bool
}

// Registry is an immutable path → screen table.
type Registry struct {
	entries  []Entry
	byPath   map[string]int
	byScreen map[ScreenID]int
}

// DefaultEntries returns the stock dashboard screen table.
func DefaultEntries() []Entry {
	return []Entry{
		{Screen: Login, Path: "/", Title: "Login", Header: false},
		{Screen: Dashboard, Path: "/dashboard", Title: "Dashboard", Header: true},
		{Screen: History, Path: "/history", Title: "History", Header: true},
		{Screen: DailyTrend, Path: "/dailytrend", Title: "Daily Trend", Header: true},
	}
}

// NewRegistry validates entries and builds a Registry. Paths must be unique
// and every ScreenID must appear exactly once.
func NewRegistry(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries:  make([]Entry, 0, len(entries)),
		byPath:   make(map[string]int, len(entries)),
		byScreen: make(map[ScreenID]int, len(entries)),
	}
	for _, e := range entries {
		if len(e.Path) == 0 || e.Path[0] != '/' {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, e.Path)
		}
		if _, ok := r.byPath[e.Path]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, e.Path)
		}
		if _, ok := r.byScreen[e.Screen]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScreen, e.Screen)
		}
		if _, ok := screenNames[e.Screen]; !ok {
			return nil, fmt.Errorf("unknown screen %s", e.Screen)
		}
		if e.Title == "" {
			e.Title = e.Screen.String()
		}
		r.byPath[e.Path] = len(r.entries)
		r.byScreen[e.Screen] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	for _, id := range AllScreens {
		if _, ok := r.byScreen[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingScreen, id)
		}
	}
	return r, nil
}

// Resolve returns the screen registered for path. The match is exact and
// case-sensitive; query strings and fragments must already be stripped.
func (r *Registry) Resolve(path string) (ScreenID, bool) {
	i, ok := r.byPath[path]
	if !ok {
		return 0, false
	}
	return r.entries[i].Screen, true
}

// Entry returns the registry entry for a screen.
func (r *Registry) Entry(id ScreenID) (Entry, bool) {
	i, ok := r.byScreen[id]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns a copy of all entries in configuration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Index returns the position of a screen in configuration order, or -1.
func (r *Registry) Index(id ScreenID) int {
	i, ok := r.byScreen[id]
	if !ok {
		return -1
	}
	return i
}
