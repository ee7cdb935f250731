package app

import (
	"context"
	"errors"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"golang.org/x/sync/errgroup"
	"pkt.systems/pslog"

	"github.com/kattameya/rockdash/browser"
	"github.com/kattameya/rockdash/internal"
	"github.com/kattameya/rockdash/route"
	"github.com/kattameya/rockdash/views"
	"github.com/kattameya/rockdash/widgets"
)

// statusTTL is how long a transient status message stays in the header.
const statusTTL = 5 * time.Second

// Connected is posted when the browser has started.
type Connected struct {
	Services *internal.Services
}

// ConnectFailed is posted when the browser could not be started.
type ConnectFailed struct {
	Err error
}

// Credentials are submitted to the login form with the sign-in key.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) configured() bool {
	return c.Username != "" && c.Password != ""
}

// Params holds configuration for creating an App.
type Params struct {
	// Services, when set, makes the App connected from the start.
	Services *internal.Services
	// Connect starts the browser in the background on Init.
	Connect func(ctx context.Context) (*internal.Services, error)

	AppName  string
	StaleTTL time.Duration
	Login    Credentials
	// Preload loads every screen on connect instead of only the first.
	Preload bool
	Logger  pslog.Logger
	// Context bounds background loads. Defaults to context.Background().
	Context context.Context
}

// App is the root vxfw widget for rockdash. It owns the native screen stack
// and one PageView per registry entry.
type App struct {
	services   *internal.Services
	connectFn  func(ctx context.Context) (*internal.Services, error)
	connectErr error

	appName   string
	staleTTL  time.Duration
	login     Credentials
	preload   bool
	log       pslog.Logger
	ctx       context.Context
	postEvent func(vaxis.Event)

	entries []route.Entry
	views   map[route.ScreenID]*views.PageView
	tabBar  *widgets.TabBar
	stack   []route.ScreenID

	status   string
	statusAt time.Time
}

// New creates the root App widget.
func New(p Params) *App {
	ctx := p.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := p.Logger
	if log == nil {
		log = pslog.Ctx(ctx)
	}
	a := &App{
		connectFn: p.Connect,
		appName:   p.AppName,
		staleTTL:  p.StaleTTL,
		login:     p.Login,
		preload:   p.Preload,
		log:       log,
		ctx:       ctx,
	}
	if p.Services != nil {
		a.setServices(p.Services)
	}
	return a
}

func (a *App) setServices(svc *internal.Services) {
	a.services = svc
	a.connectErr = nil
	a.entries = svc.Registry().Entries()
	a.views = make(map[route.ScreenID]*views.PageView, len(a.entries))

	labels := make([]string, len(a.entries))
	for i, e := range a.entries {
		labels[i] = e.Title
		hint := ""
		if e.Screen == route.Login && a.login.configured() {
			hint = "Press s to sign in as " + a.login.Username
		}
		a.views[e.Screen] = views.NewPageView(views.PageViewParams{
			Entry:     e,
			URL:       svc.Origin().URL(e.Path),
			Pages:     svc.Pages,
			Gate:      svc.Sync.Gate,
			StaleTTL:  a.staleTTL,
			PostEvent: a.post,
			Hint:      hint,
			Logger:    a.log,
		})
	}
	a.tabBar = widgets.NewTabBar(labels)
	a.stack = nil
	if len(a.entries) > 0 {
		a.stack = []route.ScreenID{a.entries[0].Screen}
	}
}

// SetPostEvent sets the function used to post events to the vaxis event loop.
// Must be called before LoadAll.
func (a *App) SetPostEvent(fn func(vaxis.Event)) {
	a.postEvent = fn
}

func (a *App) post(ev vaxis.Event) {
	if a.postEvent != nil {
		a.postEvent(ev)
	}
}

// IsConnected reports whether the browser is available.
func (a *App) IsConnected() bool {
	return a.services != nil
}

// AppName returns the configured application name.
func (a *App) AppName() string {
	return a.appName
}

// Current returns the screen on top of the stack.
func (a *App) Current() route.ScreenID {
	if len(a.stack) == 0 {
		return route.Login
	}
	return a.stack[len(a.stack)-1]
}

// IsActive reports whether id is the screen on top of the stack.
func (a *App) IsActive(id route.ScreenID) bool {
	return len(a.stack) > 0 && a.Current() == id
}

// Stack returns a copy of the screen stack, bottom first.
func (a *App) Stack() []route.ScreenID {
	return append([]route.ScreenID(nil), a.stack...)
}

// View returns the PageView for a screen, or nil when not connected.
func (a *App) View(id route.ScreenID) *views.PageView {
	return a.views[id]
}

// TransitionTo makes id the active screen. A screen already on the stack is
// popped back to; any other screen is pushed. The screen's page is loaded
// in the background when stale.
func (a *App) TransitionTo(id route.ScreenID) {
	if !a.IsConnected() || a.views[id] == nil || a.IsActive(id) {
		return
	}
	popped := false
	for i, s := range a.stack {
		if s == id {
			a.stack = a.stack[:i+1]
			popped = true
			break
		}
	}
	if !popped {
		a.stack = append(a.stack, id)
	}
	a.log.Debug("screen transition", "to", id.String(), "depth", len(a.stack))
	a.syncTabBar()
	a.refetchIfStale()
}

// Back pops the top screen. It reports false when only the root remains.
func (a *App) Back() bool {
	if len(a.stack) <= 1 {
		return false
	}
	a.stack = a.stack[:len(a.stack)-1]
	a.syncTabBar()
	a.refetchIfStale()
	return true
}

func (a *App) syncTabBar() {
	if a.tabBar == nil {
		return
	}
	a.tabBar.SetActive(a.services.Registry().Index(a.Current()))
}

// ActiveTab returns the tab index of the current screen.
func (a *App) ActiveTab() int {
	if a.tabBar == nil {
		return 0
	}
	return a.tabBar.Active()
}

// SetTab switches to the screen at tab index i.
func (a *App) SetTab(i int) {
	if i < 0 || i >= len(a.entries) {
		return
	}
	a.TransitionTo(a.entries[i].Screen)
}

// Status returns the transient status message, if it has not expired.
func (a *App) Status() string {
	if a.status == "" || time.Since(a.statusAt) > statusTTL {
		return ""
	}
	return a.status
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusAt = time.Now()
}

func (a *App) activeView() *views.PageView {
	if !a.IsConnected() {
		return nil
	}
	return a.views[a.Current()]
}

// background runs fn against the view for id off the UI loop and posts a
// ScreenLoaded event when done.
func (a *App) background(id route.ScreenID, fn func(ctx context.Context, v *views.PageView) error) {
	v := a.views[id]
	if v == nil {
		return
	}
	if a.tabBar != nil {
		a.tabBar.SetBadge(a.services.Registry().Index(id), widgets.BadgeLoading)
	}
	go func() {
		err := fn(a.ctx, v)
		a.post(views.ScreenLoaded{Screen: id, Err: err})
	}()
}

// LoadAll loads every screen in parallel. Each screen posts a ScreenLoaded
// event when done.
func (a *App) LoadAll(ctx context.Context) {
	if !a.IsConnected() {
		return
	}
	var g errgroup.Group
	for i, e := range a.entries {
		v := a.views[e.Screen]
		id := e.Screen
		a.tabBar.SetBadge(i, widgets.BadgeLoading)
		g.Go(func() error {
			err := v.Load(ctx)
			a.post(views.ScreenLoaded{Screen: id, Err: err})
			return err
		})
	}
	go func() {
		if err := g.Wait(); err != nil {
			a.log.Warn("preload incomplete", "err", err)
		}
	}()
}

// LoadActiveView loads the current screen synchronously.
func (a *App) LoadActiveView(ctx context.Context) error {
	v := a.activeView()
	if v == nil {
		return nil
	}
	return v.Load(ctx)
}

// refetchIfStale reloads the active screen if its snapshot has become stale.
func (a *App) refetchIfStale() {
	v := a.activeView()
	if v == nil || !v.Stale() || v.Loading() {
		return
	}
	a.background(a.Current(), func(ctx context.Context, v *views.PageView) error {
		return v.Load(ctx)
	})
}

// Close closes every screen's tab.
func (a *App) Close() {
	for _, v := range a.views {
		v.Close()
	}
}

// Draw renders the tab bar, the native header and the active screen.
func (a *App) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if !a.IsConnected() {
		return a.drawConnecting(ctx)
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)
	row := 0

	tabSurf, err := a.tabBar.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, row, tabSurf)
	row++

	v := a.activeView()
	entry := v.Entry()
	if entry.Header {
		status := a.Status()
		if status == "" {
			status = v.Status()
		}
		header := &widgets.Header{
			Title:     entry.Title,
			CanGoBack: len(a.stack) > 1,
			Status:    status,
		}
		headerSurf, err := header.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, headerSurf)
		row++
	}

	// Footer: transient status when there is no header to carry it, else key help.
	footer := []vaxis.Segment{{
		Text:  " q quit  r retry  h/l web back/fwd  s sign in  esc back",
		Style: vaxis.Style{Attribute: vaxis.AttrDim},
	}}
	if !entry.Header && a.Status() != "" {
		footer = []vaxis.Segment{{Text: " " + a.Status(), Style: vaxis.Style{Foreground: vaxis.IndexColor(3)}}}
	}

	remaining := int(ctx.Max.Height) - row - 1
	if remaining > 0 {
		viewSurf, err := v.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(remaining)}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, viewSurf)
		row += remaining
	}

	if row < int(ctx.Max.Height) {
		footSurf, err := richtext.New(footer).Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, footSurf)
	}

	return s, nil
}

func (a *App) drawConnecting(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)
	name := a.appName
	if name == "" {
		name = "rockdash"
	}
	segs := []vaxis.Segment{
		{Text: name + ": ", Style: vaxis.Style{Attribute: vaxis.AttrBold}},
		{Text: "Starting browser…", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	}
	if a.connectErr != nil {
		segs = []vaxis.Segment{
			{Text: name + ": ", Style: vaxis.Style{Attribute: vaxis.AttrBold}},
			{Text: "browser failed to start: " + a.connectErr.Error(), Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}},
		}
	}
	surf, err := richtext.New(segs).Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, surf)
	return s, nil
}

// CaptureEvent handles global keybindings before views process them.
func (a *App) CaptureEvent(ev vaxis.Event) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}
	if key.Matches('q') || key.Matches('c', vaxis.ModCtrl) {
		return vxfw.QuitCmd{}, nil
	}
	if !a.IsConnected() {
		return nil, nil
	}

	for i := range min(len(a.entries), 9) {
		if key.Matches(rune('1' + i)) {
			a.SetTab(i)
			return vxfw.ConsumeAndRedraw(), nil
		}
	}

	current := a.Current()
	switch {
	case key.Matches('r'):
		a.background(current, func(ctx context.Context, v *views.PageView) error {
			return v.Retry(ctx)
		})
	case key.Matches('h'):
		a.background(current, func(ctx context.Context, v *views.PageView) error {
			return a.historyStep(ctx, v.GoBack)
		})
	case key.Matches('l'):
		a.background(current, func(ctx context.Context, v *views.PageView) error {
			return a.historyStep(ctx, v.GoForward)
		})
	case key.Matches('s'):
		if !a.login.configured() {
			a.setStatus("No login credentials configured")
			break
		}
		creds := a.login
		a.background(current, func(ctx context.Context, v *views.PageView) error {
			return v.SignIn(ctx, creds.Username, creds.Password)
		})
	case key.Matches(vaxis.KeyEsc):
		if !a.Back() {
			return nil, nil
		}
	case key.Matches(vaxis.KeyTab):
		a.tabBar.Next()
		a.TransitionTo(a.entries[a.tabBar.Active()].Screen)
	case key.Matches(vaxis.KeyTab, vaxis.ModShift):
		a.tabBar.Prev()
		a.TransitionTo(a.entries[a.tabBar.Active()].Screen)
	default:
		return nil, nil
	}
	return vxfw.ConsumeAndRedraw(), nil
}

// historyStep runs a web history step, treating an empty history as a
// status message rather than a load error.
func (a *App) historyStep(ctx context.Context, step func(context.Context) error) error {
	err := step(ctx)
	if errors.Is(err, browser.ErrNoHistory) {
		a.post(statusMessage("No page in that direction"))
		return nil
	}
	return err
}

// statusMessage is posted from background work to set the transient status.
type statusMessage string

// HandleEvent delegates to the active view, and handles custom events.
func (a *App) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	switch ev := ev.(type) {
	case vxfw.Init:
		if a.connectFn == nil || a.IsConnected() {
			return nil, nil
		}
		go func() {
			svc, err := a.connectFn(a.ctx)
			if err != nil {
				a.post(ConnectFailed{Err: err})
				return
			}
			a.post(Connected{Services: svc})
		}()
		return nil, nil
	case Connected:
		a.setServices(ev.Services)
		a.log.Info("browser connected", "screens", len(a.entries))
		if a.preload {
			a.LoadAll(a.ctx)
		} else {
			a.refetchIfStale()
		}
		return vxfw.RedrawCmd{}, nil
	case ConnectFailed:
		a.connectErr = ev.Err
		a.log.Error("browser start failed", "err", ev.Err)
		return vxfw.RedrawCmd{}, nil
	case statusMessage:
		a.setStatus(string(ev))
		return vxfw.RedrawCmd{}, nil
	case views.ScreenLoaded:
		a.screenLoaded(ev)
		return vxfw.RedrawCmd{}, nil
	case views.PageEvent:
		a.pageEvent(ev)
		return vxfw.RedrawCmd{}, nil
	default:
		if v := a.activeView(); v != nil {
			return v.HandleEvent(ev, phase)
		}
	}
	return nil, nil
}

func (a *App) screenLoaded(ev views.ScreenLoaded) {
	if !a.IsConnected() {
		return
	}
	badge := widgets.BadgeNone
	if ev.Err != nil {
		badge = widgets.BadgeError
		a.log.Warn("screen load failed", "screen", ev.Screen.String(), "err", ev.Err)
	}
	if v := a.views[ev.Screen]; v != nil && v.Err() != nil {
		badge = widgets.BadgeError
	}
	a.tabBar.SetBadge(a.services.Registry().Index(ev.Screen), badge)
}

// pageEvent applies a tab event. Only the active screen's tab drives the
// screen stack.
func (a *App) pageEvent(ev views.PageEvent) {
	v := a.views[ev.Screen]
	if v == nil {
		return
	}
	v.Observe(ev.Event)
	idx := a.services.Registry().Index(ev.Screen)

	switch ev.Event.Kind {
	case browser.EventBlocked:
		a.setStatus(ev.Event.Message())
	case browser.EventLoadFailed, browser.EventHTTPError:
		a.tabBar.SetBadge(idx, widgets.BadgeError)
		a.log.Warn("page error", "screen", ev.Screen.String(), "url", ev.Event.URL, "msg", ev.Event.Message())
	case browser.EventLoadFinished:
		if v.Loaded() && v.Err() == nil {
			a.background(ev.Screen, func(ctx context.Context, v *views.PageView) error {
				return v.Refresh(ctx)
			})
		}
	case browser.EventNavigated:
		if !a.IsActive(ev.Screen) {
			return
		}
		action := a.services.Sync.OnNavigate(ev.Event.Nav(), ev.Screen)
		if to, ok := action.Transition(); ok {
			a.log.Info("navigation sync", "url", ev.Event.URL, "from", ev.Screen.String(), "to", to.String())
			a.TransitionTo(to)
		}
	}
}
