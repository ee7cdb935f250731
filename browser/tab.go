package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"pkt.systems/pslog"
)

// historyTimeout bounds the back/forward lookup done for every navigation.
const historyTimeout = 5 * time.Second

// Tab is a Chrome tab acting as one embedded browser surface.
type Tab struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    Options
	gate    func(string) bool
	onEvent func(Event)
	log     pslog.Logger

	mu        sync.Mutex
	mainFrame cdp.FrameID
	documents map[network.RequestID]bool
	queue     []Event
	wake      chan struct{}
	closed    bool
}

var _ Page = (*Tab)(nil)

func newTab(ctx context.Context, cancel context.CancelFunc, opts Options, p TabParams, log pslog.Logger) *Tab {
	return &Tab{
		ctx:       ctx,
		cancel:    cancel,
		opts:      opts,
		gate:      p.Gate,
		onEvent:   p.OnEvent,
		log:       log,
		documents: make(map[network.RequestID]bool),
		wake:      make(chan struct{}, 1),
	}
}

func (t *Tab) setup() []chromedp.Action {
	actions := []chromedp.Action{
		network.Enable(),
		network.SetCacheDisabled(!t.opts.Cache),
		page.SetLifecycleEventsEnabled(true),
		fetch.Enable().WithPatterns([]*fetch.RequestPattern{{
			URLPattern:   "*",
			ResourceType: network.ResourceTypeDocument,
			RequestStage: fetch.RequestStageRequest,
		}}),
	}
	if !t.opts.JavaScript {
		actions = append(actions, emulation.SetScriptExecutionDisabled(true))
	}
	if t.opts.InjectStyles {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(mobileStyles).Do(ctx)
			return err
		}))
	}
	return actions
}

func (t *Tab) setMainFrame(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mainFrame == "" {
		t.mainFrame = cdp.FrameID(id)
	}
}

func (t *Tab) isMain(id cdp.FrameID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mainFrame == "" || t.mainFrame == id
}

// listen runs on chromedp's event goroutine and must not issue commands.
func (t *Tab) listen(ev any) {
	switch ev := ev.(type) {
	case *fetch.EventRequestPaused:
		go t.decide(ev)
	case *page.EventFrameStartedLoading:
		if t.isMain(ev.FrameID) {
			t.enqueue(Event{Kind: EventLoadStarted})
		}
	case *page.EventFrameNavigated:
		if ev.Frame.ParentID != "" {
			return
		}
		t.mu.Lock()
		t.mainFrame = ev.Frame.ID
		t.mu.Unlock()
		t.enqueue(Event{Kind: EventNavigated, URL: ev.Frame.URL + ev.Frame.URLFragment})
	case *page.EventNavigatedWithinDocument:
		if t.isMain(ev.FrameID) {
			t.enqueue(Event{Kind: EventNavigated, URL: ev.URL})
		}
	case *page.EventLoadEventFired:
		t.enqueue(Event{Kind: EventLoadFinished})
	case *network.EventRequestWillBeSent:
		if ev.Type == network.ResourceTypeDocument && t.isMain(ev.FrameID) {
			t.mu.Lock()
			t.documents[ev.RequestID] = true
			t.mu.Unlock()
		}
	case *network.EventResponseReceived:
		if ev.Type == network.ResourceTypeDocument && t.isMain(ev.FrameID) && ev.Response.Status >= 400 {
			t.enqueue(Event{Kind: EventHTTPError, URL: ev.Response.URL, Status: int(ev.Response.Status)})
		}
	case *network.EventLoadingFailed:
		t.mu.Lock()
		doc := t.documents[ev.RequestID]
		delete(t.documents, ev.RequestID)
		t.mu.Unlock()
		if doc && reportableFailure(ev.ErrorText, ev.Canceled) {
			t.enqueue(Event{Kind: EventLoadFailed, Reason: ev.ErrorText})
		}
	case *network.EventLoadingFinished:
		t.mu.Lock()
		delete(t.documents, ev.RequestID)
		t.mu.Unlock()
	}
}

// reportableFailure filters out failures the tab caused itself: vetoed
// requests and navigations superseded by another one.
func reportableFailure(errorText string, canceled bool) bool {
	if canceled {
		return false
	}
	return !strings.Contains(errorText, "ERR_BLOCKED_BY_CLIENT") && !strings.Contains(errorText, "ERR_ABORTED")
}

// decide answers a paused document request. Main-frame vetoes are failed as
// aborted so the current page stays on screen instead of an error page.
func (t *Tab) decide(ev *fetch.EventRequestPaused) {
	c := chromedp.FromContext(t.ctx)
	if c == nil || c.Target == nil {
		return
	}
	ctx := cdp.WithExecutor(t.ctx, c.Target)

	url := ev.Request.URL + ev.Request.URLFragment
	if allowRequest(t.gate, url) {
		if err := fetch.ContinueRequest(ev.RequestID).Do(ctx); err != nil && t.ctx.Err() == nil {
			t.log.Warn("continue request failed", "url", url, "err", err)
		}
		return
	}

	reason := network.ErrorReasonBlockedByClient
	if t.isMain(ev.FrameID) {
		reason = network.ErrorReasonAborted
	}
	if err := fetch.FailRequest(ev.RequestID, reason).Do(ctx); err != nil && t.ctx.Err() == nil {
		t.log.Warn("fail request failed", "url", url, "err", err)
	}
	t.log.Warn("blocked external url", "url", url)
	t.enqueue(Event{Kind: EventBlocked, URL: url})
}

func (t *Tab) enqueue(ev Event) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.queue = append(t.queue, ev)
	t.mu.Unlock()
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// dispatch delivers queued events one at a time, in the order Chrome
// reported them.
func (t *Tab) dispatch() {
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-t.wake:
		}
		for {
			t.mu.Lock()
			if len(t.queue) == 0 {
				t.mu.Unlock()
				break
			}
			ev := t.queue[0]
			t.queue = t.queue[1:]
			t.mu.Unlock()

			t.deliver(ev)
		}
	}
}

func (t *Tab) deliver(ev Event) {
	switch ev.Kind {
	case EventNavigated:
		back, fwd, err := t.history()
		if err != nil && t.ctx.Err() == nil {
			t.log.Debug("navigation history unavailable", "err", err)
		}
		ev.CanGoBack, ev.CanGoForward = back, fwd
	case EventLoadFinished:
		if t.opts.InjectStyles && t.opts.JavaScript {
			if err := t.run(context.Background(), chromedp.Evaluate(mobileStyles, nil)); err != nil && t.ctx.Err() == nil {
				t.log.Debug("style injection failed", "err", err)
			}
		}
	}
	t.log.Debug("tab event", "kind", ev.Kind.String(), "url", ev.URL)
	if t.onEvent != nil {
		t.onEvent(ev)
	}
}

func (t *Tab) history() (bool, bool, error) {
	ctx, cancel := context.WithTimeout(t.ctx, historyTimeout)
	defer cancel()
	var back, fwd bool
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		idx, entries, err := page.GetNavigationHistory().Do(ctx)
		if err != nil {
			return err
		}
		back = idx > 0
		fwd = int(idx) < len(entries)-1
		return nil
	}))
	return back, fwd, err
}

// run executes actions on the tab, bounded by the page load timeout and by
// the caller's ctx.
func (t *Tab) run(ctx context.Context, actions ...chromedp.Action) error {
	if t.ctx.Err() != nil {
		return ErrClosed
	}
	rctx, cancel := context.WithTimeout(t.ctx, t.opts.PageLoadTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(rctx, actions...)
}

// Navigate loads url. Off-origin targets are refused before Chrome sees them.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	if !allowRequest(t.gate, url) {
		t.log.Warn("blocked external url", "url", url)
		t.enqueue(Event{Kind: EventBlocked, URL: url})
		return fmt.Errorf("%w: %s", ErrBlocked, url)
	}
	if err := t.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Reload reloads the current document.
func (t *Tab) Reload(ctx context.Context) error {
	return t.run(ctx, chromedp.Reload())
}

// GoBack steps back in the tab's history.
func (t *Tab) GoBack(ctx context.Context) error {
	back, _, err := t.history()
	if err != nil {
		return err
	}
	if !back {
		return ErrNoHistory
	}
	return t.run(ctx, chromedp.NavigateBack())
}

// GoForward steps forward in the tab's history.
func (t *Tab) GoForward(ctx context.Context) error {
	_, fwd, err := t.history()
	if err != nil {
		return err
	}
	if !fwd {
		return ErrNoHistory
	}
	return t.run(ctx, chromedp.NavigateForward())
}

// SignIn fills and submits the dashboard's login form.
func (t *Tab) SignIn(ctx context.Context, username, password string) error {
	err := t.run(ctx,
		chromedp.WaitVisible(`input[name="username"]`, chromedp.ByQuery),
		chromedp.SetValue(`input[name="username"]`, username, chromedp.ByQuery),
		chromedp.SetValue(`input[name="password"]`, password, chromedp.ByQuery),
		chromedp.Submit(`input[name="password"]`, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	return nil
}

// Snapshot reads the current document into terminal-friendly pieces.
func (t *Tab) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := t.run(ctx, chromedp.Evaluate(extractScript, &snap)); err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}
	snap.TakenAt = time.Now()
	return &snap, nil
}

// Close closes the tab. Pending events are discarded.
func (t *Tab) Close() {
	t.mu.Lock()
	t.closed = true
	t.queue = nil
	t.mu.Unlock()
	t.cancel()
}
