package route_test

import (
	"errors"
	"testing"

	"github.com/kattameya/rockdash/route"
)

func defaultRegistry(t *testing.T) *route.Registry {
	t.Helper()
	reg, err := route.NewRegistry(route.DefaultEntries())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return reg
}

func TestRegistry_Resolve(t *testing.T) {
	reg := defaultRegistry(t)

	tests := []struct {
		path   string
		screen route.ScreenID
		ok     bool
	}{
		{"/", route.Login, true},
		{"/dashboard", route.Dashboard, true},
		{"/history", route.History, true},
		{"/dailytrend", route.DailyTrend, true},
		{"/Dashboard", 0, false},
		{"/dashboard/", 0, false},
		{"/dashboard?x=1", 0, false},
		{"/unknown-page", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := reg.Resolve(tt.path)
		if ok != tt.ok {
			t.Errorf("Resolve(%q): expected ok=%v, got %v", tt.path, tt.ok, ok)
			continue
		}
		if ok && got != tt.screen {
			t.Errorf("Resolve(%q): expected %s, got %s", tt.path, tt.screen, got)
		}
	}
}

func TestRegistry_Entry(t *testing.T) {
	reg := defaultRegistry(t)

	e, ok := reg.Entry(route.DailyTrend)
	if !ok {
		t.Fatal("expected entry for DailyTrend")
	}
	if e.Path != "/dailytrend" {
		t.Errorf("expected path /dailytrend, got %s", e.Path)
	}
	if e.Title != "Daily Trend" {
		t.Errorf("expected title Daily Trend, got %s", e.Title)
	}

	login, _ := reg.Entry(route.Login)
	if login.Header {
		t.Error("expected login header hidden")
	}
}

func TestRegistry_EntriesIsCopy(t *testing.T) {
	reg := defaultRegistry(t)
	entries := reg.Entries()
	entries[0].Path = "/mutated"

	if _, ok := reg.Resolve("/"); !ok {
		t.Error("expected registry to be unaffected by mutating Entries()")
	}
	if reg.Entries()[0].Path != "/" {
		t.Errorf("expected first path /, got %s", reg.Entries()[0].Path)
	}
}

func TestRegistry_Index(t *testing.T) {
	reg := defaultRegistry(t)
	if reg.Index(route.History) != 2 {
		t.Errorf("expected History at index 2, got %d", reg.Index(route.History))
	}
	if reg.Index(route.ScreenID(42)) != -1 {
		t.Error("expected -1 for unknown screen")
	}
}

func TestNewRegistry_Invariants(t *testing.T) {
	base := route.DefaultEntries()

	dupPath := append([]route.Entry{}, base...)
	dupPath[1].Path = "/"

	dupScreen := append([]route.Entry{}, base...)
	dupScreen = append(dupScreen, route.Entry{Screen: route.History, Path: "/history2"})

	missing := append([]route.Entry{}, base[:3]...)

	badPath := append([]route.Entry{}, base...)
	badPath[2].Path = "history"

	tests := []struct {
		name    string
		entries []route.Entry
		want    error
	}{
		{"duplicate path", dupPath, route.ErrDuplicatePath},
		{"duplicate screen", dupScreen, route.ErrDuplicateScreen},
		{"missing screen", missing, route.ErrMissingScreen},
		{"relative path", badPath, route.ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := route.NewRegistry(tt.entries)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewRegistry_DefaultsTitle(t *testing.T) {
	entries := route.DefaultEntries()
	entries[1].Title = ""
	reg, err := route.NewRegistry(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e, _ := reg.Entry(route.Dashboard)
	if e.Title != "dashboard" {
		t.Errorf("expected fallback title dashboard, got %s", e.Title)
	}
}

func TestParseScreenID(t *testing.T) {
	for _, id := range route.AllScreens {
		got, err := route.ParseScreenID(id.String())
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", id, err)
		}
		if got != id {
			t.Errorf("expected %s, got %s", id, got)
		}
	}
	if _, err := route.ParseScreenID("settings"); err == nil {
		t.Error("expected error for unknown screen")
	}
}
