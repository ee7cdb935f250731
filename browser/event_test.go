package browser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kattameya/rockdash/browser"
)

func TestEvent_Nav(t *testing.T) {
	ev := browser.Event{Kind: browser.EventNavigated, URL: "https://host/history", CanGoBack: true}
	nav := ev.Nav()
	if nav.URL != ev.URL || !nav.CanGoBack || nav.CanGoForward {
		t.Errorf("unexpected conversion: %+v", nav)
	}
}

func TestEvent_Message(t *testing.T) {
	tests := []struct {
		ev   browser.Event
		want string
	}{
		{browser.Event{Kind: browser.EventHTTPError, Status: 502}, "HTTP Error: 502"},
		{browser.Event{Kind: browser.EventLoadFailed}, "Failed to load page. Please check your connection."},
		{browser.Event{Kind: browser.EventBlocked, URL: "https://evil/"}, "Blocked external URL: https://evil/"},
		{browser.Event{Kind: browser.EventNavigated}, ""},
	}
	for _, tt := range tests {
		if got := tt.ev.Message(); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.ev.Kind, tt.want, got)
		}
	}
}

func TestEventKind_String(t *testing.T) {
	if browser.EventBlocked.String() != "blocked" {
		t.Errorf("expected blocked, got %s", browser.EventBlocked)
	}
	if browser.EventKind(99).String() != "event(99)" {
		t.Errorf("expected event(99), got %s", browser.EventKind(99))
	}
}

func TestSeries(t *testing.T) {
	s := browser.Series{Kind: "bar", Values: []float64{3, 9, 1}}
	if !s.Bar() {
		t.Error("expected bar series")
	}
	if s.Max() != 9 {
		t.Errorf("expected max 9, got %v", s.Max())
	}
	if (browser.Series{Kind: "line"}).Bar() {
		t.Error("expected line series not to be bar")
	}
}

func TestSnapshot_Empty(t *testing.T) {
	var nilSnap *browser.Snapshot
	if !nilSnap.Empty() {
		t.Error("expected nil snapshot to be empty")
	}
	if !(&browser.Snapshot{Title: "x"}).Empty() {
		t.Error("expected title-only snapshot to be empty")
	}
	if (&browser.Snapshot{Lines: []string{"hello"}}).Empty() {
		t.Error("expected snapshot with lines to be non-empty")
	}
}

func TestMockOpener(t *testing.T) {
	var got []browser.Event
	o := &browser.MockOpener{}
	page, err := o.Open(browser.TabParams{OnEvent: func(ev browser.Event) { got = append(got, ev) }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = page.Navigate(context.Background(), "https://host/")

	tabs := o.Tabs()
	if len(tabs) != 1 {
		t.Fatalf("expected 1 tab, got %d", len(tabs))
	}
	tabs[0].Emit(browser.Event{Kind: browser.EventNavigated, URL: "https://host/"})
	if len(got) != 1 {
		t.Errorf("expected 1 event, got %d", len(got))
	}
	if v := tabs[0].Visited(); len(v) != 1 || v[0] != "https://host/" {
		t.Errorf("unexpected visited: %v", v)
	}
	page.Close()
	if !tabs[0].Closed() {
		t.Error("expected tab closed")
	}
}

func TestMockOpener_Error(t *testing.T) {
	o := &browser.MockOpener{OpenErr: errors.New("no chrome")}
	if _, err := o.Open(browser.TabParams{}); err == nil {
		t.Error("expected error")
	}
}

func TestOpenerFunc(t *testing.T) {
	tab := &browser.MockTab{}
	var opener browser.Opener = browser.OpenerFunc(func(p browser.TabParams) (browser.Page, error) {
		return tab, nil
	})
	page, err := opener.Open(browser.TabParams{})
	if err != nil || page != tab {
		t.Errorf("expected mock tab, got %v, %v", page, err)
	}
}
