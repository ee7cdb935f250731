package internal

import (
	"github.com/kattameya/rockdash/browser"
	"github.com/kattameya/rockdash/route"
)

// Services holds what the UI needs once the browser is up: a way to open
// tabs and the navigation synchronizer they report to.
type Services struct {
	Pages browser.Opener
	Sync  *route.Synchronizer
}

// NewServices creates a Services container.
func NewServices(pages browser.Opener, sync *route.Synchronizer) *Services {
	return &Services{
		Pages: pages,
		Sync:  sync,
	}
}

// Registry returns the path registry behind the synchronizer.
func (s *Services) Registry() *route.Registry {
	return s.Sync.Registry()
}

// Origin returns the host origin behind the synchronizer.
func (s *Services) Origin() route.Origin {
	return s.Sync.Origin()
}
