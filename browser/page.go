package browser

import (
	"context"
	"errors"
)

var (
	// ErrBlocked is returned when a navigation target fails the origin gate.
	ErrBlocked = errors.New("navigation blocked")
	// ErrNoHistory is returned by GoBack/GoForward when there is nowhere to go.
	ErrNoHistory = errors.New("no history entry")
	// ErrClosed is returned by operations on a closed tab.
	ErrClosed = errors.New("tab closed")
)

// TabParams configures a new tab.
type TabParams struct {
	// Gate vetoes document requests; false blocks the navigation. A nil
	// gate allows everything.
	Gate func(url string) bool
	// OnEvent receives tab events in commit order from a single goroutine.
	OnEvent func(Event)
}

// Page is one embedded browser surface.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error
	SignIn(ctx context.Context, username, password string) error
	Snapshot(ctx context.Context) (*Snapshot, error)
	Close()
}

// Opener creates pages.
type Opener interface {
	Open(p TabParams) (Page, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(p TabParams) (Page, error)

// Open calls f(p).
func (f OpenerFunc) Open(p TabParams) (Page, error) {
	return f(p)
}

// allowRequest applies gate to a document request URL. about:blank is
// always let through since every fresh tab starts there.
func allowRequest(gate func(string) bool, url string) bool {
	if url == "about:blank" || gate == nil {
		return true
	}
	return gate(url)
}
