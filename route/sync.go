package route

// Event is a committed navigation reported by a browser tab.
type Event struct {
	URL          string
	CanGoBack    bool
	CanGoForward bool
}

// ActionKind distinguishes the two possible synchronizer decisions.
type ActionKind int

const (
	NoOp ActionKind = iota
	TransitionTo
)

// Action is the outcome of OnNavigate.
type Action struct {
	Kind   ActionKind
	Screen ScreenID
}

// Transition reports the target screen when the action is a transition.
func (a Action) Transition() (ScreenID, bool) {
	return a.Screen, a.Kind == TransitionTo
}

func (a Action) String() string {
	if a.Kind == TransitionTo {
		return "transition " + a.Screen.String()
	}
	return "noop"
}

// Synchronizer maps browser navigations to native screen transitions.
// It holds no mutable state.
type Synchronizer struct {
	registry *Registry
	origin   Origin
}

// NewSynchronizer binds a registry and host origin.
func NewSynchronizer(reg *Registry, origin Origin) *Synchronizer {
	return &Synchronizer{registry: reg, origin: origin}
}

// Registry returns the path table the synchronizer resolves against.
func (s *Synchronizer) Registry() *Registry {
	return s.registry
}

// Origin returns the host origin.
func (s *Synchronizer) Origin() Origin {
	return s.origin
}

// Gate is the pre-navigation veto hook: false blocks the navigation.
func (s *Synchronizer) Gate(rawURL string) bool {
	return s.origin.Allows(rawURL)
}

// OnNavigate decides whether ev should move the native stack off current.
// Off-origin, malformed and unregistered URLs are all NoOp, as is a
// navigation to the screen that is already active.
func (s *Synchronizer) OnNavigate(ev Event, current ScreenID) Action {
	if !s.origin.Allows(ev.URL) {
		return Action{Kind: NoOp}
	}
	path, ok := ExtractPath(ev.URL)
	if !ok {
		return Action{Kind: NoOp}
	}
	screen, ok := s.registry.Resolve(path)
	if !ok || screen == current {
		return Action{Kind: NoOp}
	}
	return Action{Kind: TransitionTo, Screen: screen}
}
