package browser

import (
	"fmt"

	"github.com/kattameya/rockdash/route"
)

// EventKind identifies what a tab reported.
type EventKind int

const (
	EventLoadStarted EventKind = iota
	EventNavigated
	EventLoadFinished
	EventLoadFailed
	EventHTTPError
	EventBlocked
)

func (k EventKind) String() string {
	switch k {
	case EventLoadStarted:
		return "load-started"
	case EventNavigated:
		return "navigated"
	case EventLoadFinished:
		return "load-finished"
	case EventLoadFailed:
		return "load-failed"
	case EventHTTPError:
		return "http-error"
	case EventBlocked:
		return "blocked"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a notification from a browser tab, delivered in commit order.
type Event struct {
	Kind         EventKind
	URL          string
	CanGoBack    bool
	CanGoForward bool
	// Status is the HTTP status for EventHTTPError.
	Status int
	// Reason is the network error text for EventLoadFailed.
	Reason string
}

// Nav converts a navigation event into the synchronizer's input.
func (e Event) Nav() route.Event {
	return route.Event{URL: e.URL, CanGoBack: e.CanGoBack, CanGoForward: e.CanGoForward}
}

// Message returns the user-facing text for failure events.
func (e Event) Message() string {
	switch e.Kind {
	case EventHTTPError:
		return fmt.Sprintf("HTTP Error: %d", e.Status)
	case EventLoadFailed:
		return "Failed to load page. Please check your connection."
	case EventBlocked:
		return "Blocked external URL: " + e.URL
	}
	return ""
}
