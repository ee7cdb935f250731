package views

import (
	"github.com/kattameya/rockdash/browser"
	"github.com/kattameya/rockdash/route"
)

// ScreenLoaded is a custom vaxis event posted when a screen finishes loading
// or refreshing its page. It is sent from background goroutines via
// PostEvent to notify the UI.
type ScreenLoaded struct {
	Screen route.ScreenID
	Err    error
}

// PageEvent carries a browser tab event to the UI loop, tagged with the
// screen that owns the tab. Events for one tab arrive in commit order.
type PageEvent struct {
	Screen route.ScreenID
	Event  browser.Event
}
