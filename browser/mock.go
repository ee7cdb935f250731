package browser

import (
	"context"
	"sync"
)

// MockTab is a Page whose behaviour is supplied by function fields. Unset
// functions succeed without doing anything.
type MockTab struct {
	NavigateFunc  func(ctx context.Context, url string) error
	ReloadFunc    func(ctx context.Context) error
	GoBackFunc    func(ctx context.Context) error
	GoForwardFunc func(ctx context.Context) error
	SignInFunc    func(ctx context.Context, username, password string) error
	SnapshotFunc  func(ctx context.Context) (*Snapshot, error)

	// Params holds what the tab was opened with.
	Params TabParams

	mu      sync.Mutex
	visited []string
	closed  bool
}

var _ Page = (*MockTab)(nil)

// Navigate records url and calls NavigateFunc.
func (m *MockTab) Navigate(ctx context.Context, url string) error {
	m.mu.Lock()
	m.visited = append(m.visited, url)
	m.mu.Unlock()
	if m.NavigateFunc != nil {
		return m.NavigateFunc(ctx, url)
	}
	return nil
}

// Reload calls ReloadFunc.
func (m *MockTab) Reload(ctx context.Context) error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return nil
}

// GoBack calls GoBackFunc.
func (m *MockTab) GoBack(ctx context.Context) error {
	if m.GoBackFunc != nil {
		return m.GoBackFunc(ctx)
	}
	return nil
}

// GoForward calls GoForwardFunc.
func (m *MockTab) GoForward(ctx context.Context) error {
	if m.GoForwardFunc != nil {
		return m.GoForwardFunc(ctx)
	}
	return nil
}

// SignIn calls SignInFunc.
func (m *MockTab) SignIn(ctx context.Context, username, password string) error {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, username, password)
	}
	return nil
}

// Snapshot calls SnapshotFunc, returning an empty snapshot when unset.
func (m *MockTab) Snapshot(ctx context.Context) (*Snapshot, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx)
	}
	return &Snapshot{}, nil
}

// Close marks the tab closed.
func (m *MockTab) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

// Closed reports whether Close was called.
func (m *MockTab) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Visited returns every URL passed to Navigate.
func (m *MockTab) Visited() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.visited...)
}

// Emit delivers ev to the tab's OnEvent callback as the real tab would.
func (m *MockTab) Emit(ev Event) {
	if m.Params.OnEvent != nil {
		m.Params.OnEvent(ev)
	}
}

// MockOpener hands out MockTabs. NewTab, when set, builds each tab;
// otherwise a zero MockTab is used.
type MockOpener struct {
	NewTab  func() *MockTab
	OpenErr error

	mu   sync.Mutex
	tabs []*MockTab
}

// Open returns a new MockTab bound to p.
func (o *MockOpener) Open(p TabParams) (Page, error) {
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}
	tab := &MockTab{}
	if o.NewTab != nil {
		tab = o.NewTab()
	}
	tab.Params = p
	o.mu.Lock()
	o.tabs = append(o.tabs, tab)
	o.mu.Unlock()
	return tab, nil
}

// Tabs returns every tab opened so far.
func (o *MockOpener) Tabs() []*MockTab {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*MockTab(nil), o.tabs...)
}
