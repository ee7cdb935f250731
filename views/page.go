package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/list"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/dustin/go-humanize"
	"pkt.systems/pslog"

	"github.com/kattameya/rockdash/browser"
	"github.com/kattameya/rockdash/route"
	"github.com/kattameya/rockdash/widgets"
)

// ErrNotOpen is returned by tab operations before the screen's tab exists.
var ErrNotOpen = errors.New("page not open")

// PageViewParams holds configuration for creating a PageView.
type PageViewParams struct {
	Entry     route.Entry
	URL       string // full URL the tab first navigates to
	Pages     browser.Opener
	Gate      func(url string) bool
	StaleTTL  time.Duration
	PostEvent func(vaxis.Event)
	Hint      string // optional dim line shown above the page content
	Logger    pslog.Logger
}

// PageView renders one dashboard screen from its browser tab. The tab is
// opened on first Load; later loads only re-snapshot the page.
type PageView struct {
	entry     route.Entry
	url       string
	pages     browser.Opener
	gate      func(string) bool
	staleTTL  time.Duration
	postEvent func(vaxis.Event)
	hint      string
	log       pslog.Logger

	openMu sync.Mutex
	page   browser.Page

	// protected by mu
	mu        sync.Mutex
	navigated bool
	snap      *browser.Snapshot
	loaded    bool
	loadedAt  time.Time
	loading   bool
	loadErr   error
	pageErr   error
	current   string
	canBack   bool
	canFwd    bool
	rows      []vxfw.Widget

	list list.Dynamic
}

// NewPageView creates a PageView for one registry entry.
func NewPageView(p PageViewParams) *PageView {
	log := p.Logger
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	pv := &PageView{
		entry:     p.Entry,
		url:       p.URL,
		pages:     p.Pages,
		gate:      p.Gate,
		staleTTL:  p.StaleTTL,
		postEvent: p.PostEvent,
		hint:      p.Hint,
		log:       log.With("screen", p.Entry.Screen.String()),
	}
	pv.list.DrawCursor = true
	pv.list.Builder = pv.buildItem
	return pv
}

// Entry returns the registry entry this view renders.
func (pv *PageView) Entry() route.Entry {
	return pv.entry
}

func (pv *PageView) ensurePage() (browser.Page, error) {
	pv.openMu.Lock()
	defer pv.openMu.Unlock()
	if pv.page != nil {
		return pv.page, nil
	}
	if pv.pages == nil {
		return nil, ErrNotOpen
	}
	page, err := pv.pages.Open(browser.TabParams{
		Gate: pv.gate,
		OnEvent: func(ev browser.Event) {
			if pv.postEvent != nil {
				pv.postEvent(PageEvent{Screen: pv.entry.Screen, Event: ev})
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open tab: %w", err)
	}
	pv.page = page
	return page, nil
}

func (pv *PageView) openPage() browser.Page {
	pv.openMu.Lock()
	defer pv.openMu.Unlock()
	return pv.page
}

// Load opens the tab if needed, navigates to the screen's URL if it has not
// done so successfully yet, then snapshots the page.
func (pv *PageView) Load(ctx context.Context) error {
	page, err := pv.ensurePage()
	if err != nil {
		pv.fail(err)
		return err
	}

	pv.mu.Lock()
	navigated := pv.navigated
	pv.loading = true
	pv.mu.Unlock()

	if !navigated {
		start := time.Now()
		if err := page.Navigate(ctx, pv.url); err != nil {
			pv.fail(err)
			return fmt.Errorf("navigate %s: %w", pv.url, err)
		}
		pv.log.Debug("page navigated", "url", pv.url, "took", time.Since(start).String())
		pv.mu.Lock()
		pv.navigated = true
		pv.mu.Unlock()
	}
	return pv.Refresh(ctx)
}

// Refresh re-snapshots the page without navigating.
func (pv *PageView) Refresh(ctx context.Context) error {
	page := pv.openPage()
	if page == nil {
		return ErrNotOpen
	}
	snap, err := page.Snapshot(ctx)
	if err != nil {
		pv.fail(err)
		return fmt.Errorf("snapshot: %w", err)
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}

	pv.mu.Lock()
	pv.snap = snap
	pv.loaded = true
	pv.loadedAt = snap.TakenAt
	pv.loading = false
	pv.loadErr = nil
	pv.mu.Unlock()
	return nil
}

// Retry clears any error and reloads the page. A screen whose first
// navigation failed navigates again instead.
func (pv *PageView) Retry(ctx context.Context) error {
	pv.mu.Lock()
	pv.loadErr = nil
	pv.pageErr = nil
	navigated := pv.navigated
	pv.mu.Unlock()

	page := pv.openPage()
	if page == nil || !navigated {
		return pv.Load(ctx)
	}
	if err := page.Reload(ctx); err != nil {
		pv.fail(err)
		return fmt.Errorf("reload: %w", err)
	}
	return pv.Refresh(ctx)
}

// GoBack steps the tab's web history back and re-snapshots.
func (pv *PageView) GoBack(ctx context.Context) error {
	page := pv.openPage()
	if page == nil {
		return ErrNotOpen
	}
	if err := page.GoBack(ctx); err != nil {
		return err
	}
	return pv.Refresh(ctx)
}

// GoForward steps the tab's web history forward and re-snapshots.
func (pv *PageView) GoForward(ctx context.Context) error {
	page := pv.openPage()
	if page == nil {
		return ErrNotOpen
	}
	if err := page.GoForward(ctx); err != nil {
		return err
	}
	return pv.Refresh(ctx)
}

// SignIn submits the page's login form and re-snapshots.
func (pv *PageView) SignIn(ctx context.Context, username, password string) error {
	page, err := pv.ensurePage()
	if err != nil {
		return err
	}
	if err := page.SignIn(ctx, username, password); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	return pv.Refresh(ctx)
}

// Close closes the screen's tab.
func (pv *PageView) Close() {
	pv.openMu.Lock()
	defer pv.openMu.Unlock()
	if pv.page != nil {
		pv.page.Close()
		pv.page = nil
	}
}

func (pv *PageView) fail(err error) {
	pv.mu.Lock()
	pv.loadErr = err
	pv.loading = false
	pv.mu.Unlock()
	pv.log.Warn("page load failed", "err", err)
}

// Observe applies a tab event to the view's state. It must be called from
// the UI loop, in the order the events were emitted.
func (pv *PageView) Observe(ev browser.Event) {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	switch ev.Kind {
	case browser.EventLoadStarted:
		pv.loading = true
		pv.pageErr = nil
	case browser.EventNavigated:
		pv.current = ev.URL
		pv.canBack = ev.CanGoBack
		pv.canFwd = ev.CanGoForward
	case browser.EventLoadFinished, browser.EventBlocked:
		pv.loading = false
	case browser.EventLoadFailed, browser.EventHTTPError:
		pv.loading = false
		pv.pageErr = errors.New(ev.Message())
	}
}

// Loaded reports whether a snapshot has been taken.
func (pv *PageView) Loaded() bool {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	return pv.loaded
}

// Stale reports whether the snapshot is older than the configured TTL.
func (pv *PageView) Stale() bool {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	if !pv.loaded {
		return true
	}
	return time.Since(pv.loadedAt) > pv.staleTTL
}

// Loading reports whether a load is in progress.
func (pv *PageView) Loading() bool {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	return pv.loading
}

// Err returns the error shown in the overlay, if any. Load errors take
// precedence over errors reported by the page itself.
func (pv *PageView) Err() error {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	if pv.loadErr != nil {
		return pv.loadErr
	}
	return pv.pageErr
}

// Snapshot returns the latest page snapshot, or nil before the first load.
func (pv *PageView) Snapshot() *browser.Snapshot {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	return pv.snap
}

// URL returns the tab's last committed URL.
func (pv *PageView) URL() string {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	return pv.current
}

// CanGoBack reports whether the tab has web history behind it.
func (pv *PageView) CanGoBack() bool {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	return pv.canBack
}

// CanGoForward reports whether the tab has web history ahead of it.
func (pv *PageView) CanGoForward() bool {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	return pv.canFwd
}

// Status summarizes freshness for the header: "updated 3 seconds ago · 12 kB".
func (pv *PageView) Status() string {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	switch {
	case pv.loading:
		return "loading…"
	case !pv.loaded:
		return ""
	}
	status := "updated " + humanize.Time(pv.loadedAt)
	if pv.snap != nil && pv.snap.Bytes > 0 {
		status += " · " + humanize.Bytes(uint64(pv.snap.Bytes))
	}
	return status
}

// ItemCount returns the number of rendered rows.
func (pv *PageView) ItemCount() int {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	return len(pv.rows)
}

func (pv *PageView) buildItem(i uint, cursor uint) vxfw.Widget {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	if int(i) >= len(pv.rows) {
		return nil
	}
	return pv.rows[i]
}

// Draw renders the page content, or the loading or error state.
func (pv *PageView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if err := pv.Err(); err != nil {
		return drawErrorState(ctx, pv, err.Error())
	}

	pv.mu.Lock()
	if !pv.loaded {
		pv.mu.Unlock()
		return drawLoadingState(ctx, pv)
	}
	pv.rows = buildRows(pv.snap, pv.hint, int(ctx.Max.Width))
	pv.mu.Unlock()

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, pv)
	listSurf, err := pv.list.Draw(ctx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, listSurf)
	return s, nil
}

// HandleEvent delegates to the list widget for scrolling.
func (pv *PageView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	return pv.list.HandleEvent(ev, phase)
}

var (
	dimStyle  = vaxis.Style{Attribute: vaxis.AttrDim}
	boldStyle = vaxis.Style{Attribute: vaxis.AttrBold}
)

func textRow(text string, style vaxis.Style) vxfw.Widget {
	if text == "" {
		text = " "
	}
	return richtext.New([]vaxis.Segment{{Text: text, Style: style}})
}

// buildRows flattens a snapshot into one-row widgets: charts first, then
// tables, then any remaining text.
func buildRows(snap *browser.Snapshot, hint string, width int) []vxfw.Widget {
	var rows []vxfw.Widget
	if hint != "" {
		rows = append(rows, textRow(hint, dimStyle), textRow("", vaxis.Style{}))
	}
	if snap.Empty() {
		return append(rows, textRow("Nothing to show on this page.", dimStyle))
	}

	for _, series := range snap.Charts {
		rows = append(rows, chartRows(series, width)...)
		rows = append(rows, textRow("", vaxis.Style{}))
	}

	for _, t := range snap.Tables {
		rows = append(rows, tableRows(t, width)...)
		rows = append(rows, textRow("", vaxis.Style{}))
	}

	for _, line := range snap.Lines {
		rows = append(rows, textRow(line, vaxis.Style{}))
	}
	return rows
}

func chartRows(series browser.Series, width int) []vxfw.Widget {
	var rows []vxfw.Widget
	if series.Label != "" {
		rows = append(rows, textRow(series.Label, boldStyle))
	}
	if len(series.Values) == 0 {
		return rows
	}

	if !series.Bar() {
		last := series.Values[len(series.Values)-1]
		rows = append(rows, &widgets.Sparkline{Values: series.Values, Suffix: humanize.Commaf(last)})
		if n := len(series.Labels); n > 1 {
			rows = append(rows, textRow(series.Labels[0]+" … "+series.Labels[n-1], dimStyle))
		}
		return rows
	}

	labelWidth := 0
	for _, l := range series.Labels {
		labelWidth = max(labelWidth, len([]rune(l)))
	}
	labelWidth++
	barWidth := max(min(30, (width-labelWidth)/3), 5)
	peak := series.Max()
	for i, v := range series.Values {
		label := ""
		if i < len(series.Labels) {
			label = series.Labels[i]
		}
		rows = append(rows, &widgets.BarGauge{
			Label:      label,
			LabelWidth: labelWidth,
			Value:      v,
			Max:        peak,
			Suffix:     humanize.Commaf(v),
			BarWidth:   barWidth,
		})
	}
	return rows
}

// tableRows splits a table into one Table widget per row, all sharing the
// column layout so cells line up across rows.
func tableRows(t browser.Table, width int) []vxfw.Widget {
	layout := widgets.NewAutoTable(t.Caption, t.Header, t.Rows, width)
	var rows []vxfw.Widget
	if caption := strings.TrimSpace(t.Caption); caption != "" {
		rows = append(rows, textRow(caption, boldStyle))
	}
	if len(t.Header) > 0 {
		rows = append(rows, &widgets.Table{Columns: layout.Columns, Header: t.Header, Gap: layout.Gap})
	}
	for _, r := range t.Rows {
		rows = append(rows, &widgets.Table{Columns: layout.Columns, Rows: [][]string{r}, Gap: layout.Gap})
	}
	return rows
}
