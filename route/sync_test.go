package route_test

import (
	"testing"

	"github.com/kattameya/rockdash/route"
)

func newSynchronizer(t *testing.T) *route.Synchronizer {
	t.Helper()
	return route.NewSynchronizer(defaultRegistry(t), route.MustParseOrigin(testBase))
}

func TestSynchronizer_LoginToDashboard(t *testing.T) {
	s := newSynchronizer(t)

	act := s.OnNavigate(route.Event{URL: testBase + "/dashboard"}, route.Login)
	screen, ok := act.Transition()
	if !ok {
		t.Fatalf("expected transition, got %s", act)
	}
	if screen != route.Dashboard {
		t.Errorf("expected Dashboard, got %s", screen)
	}
}

func TestSynchronizer_AlreadyActive(t *testing.T) {
	s := newSynchronizer(t)

	act := s.OnNavigate(route.Event{URL: testBase + "/dashboard"}, route.Dashboard)
	if act.Kind != route.NoOp {
		t.Errorf("expected noop, got %s", act)
	}
}

func TestSynchronizer_OffOrigin(t *testing.T) {
	s := newSynchronizer(t)

	url := "https://evil.example.com/dashboard"
	if s.Gate(url) {
		t.Error("expected gate to block off-origin navigation")
	}
	if act := s.OnNavigate(route.Event{URL: url}, route.Login); act.Kind != route.NoOp {
		t.Errorf("expected noop, got %s", act)
	}
}

func TestSynchronizer_UnknownPage(t *testing.T) {
	s := newSynchronizer(t)

	url := testBase + "/unknown-page"
	if !s.Gate(url) {
		t.Error("expected gate to allow same-origin navigation")
	}
	for _, current := range route.AllScreens {
		if act := s.OnNavigate(route.Event{URL: url}, current); act.Kind != route.NoOp {
			t.Errorf("current=%s: expected noop, got %s", current, act)
		}
	}
}

func TestSynchronizer_IgnoresQueryAndFragment(t *testing.T) {
	s := newSynchronizer(t)

	plain := s.OnNavigate(route.Event{URL: testBase + "/dashboard"}, route.History)
	decorated := s.OnNavigate(route.Event{URL: testBase + "/dashboard?x=1#y"}, route.History)
	if plain != decorated {
		t.Errorf("expected %s, got %s", plain, decorated)
	}
}

func TestSynchronizer_MalformedInput(t *testing.T) {
	s := newSynchronizer(t)

	for _, url := range []string{"", "%%%", "not a url", "javascript:alert(1)", "about:blank"} {
		if act := s.OnNavigate(route.Event{URL: url}, route.Dashboard); act.Kind != route.NoOp {
			t.Errorf("OnNavigate(%q): expected noop, got %s", url, act)
		}
	}
}

func TestSynchronizer_EveryRegisteredPath(t *testing.T) {
	s := newSynchronizer(t)

	for _, e := range s.Registry().Entries() {
		url := s.Origin().URL(e.Path)
		for _, current := range route.AllScreens {
			act := s.OnNavigate(route.Event{URL: url, CanGoBack: true}, current)
			if current == e.Screen {
				if act.Kind != route.NoOp {
					t.Errorf("%s from %s: expected noop, got %s", e.Path, current, act)
				}
				continue
			}
			if got, ok := act.Transition(); !ok || got != e.Screen {
				t.Errorf("%s from %s: expected transition %s, got %s", e.Path, current, e.Screen, act)
			}
		}
	}
}

func TestSynchronizer_AlternateRegistry(t *testing.T) {
	entries := route.DefaultEntries()
	entries[3].Path = "/trend"
	reg, err := route.NewRegistry(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := route.NewSynchronizer(reg, route.MustParseOrigin("http://localhost:8080"))

	act := s.OnNavigate(route.Event{URL: "http://localhost:8080/trend"}, route.Dashboard)
	if got, ok := act.Transition(); !ok || got != route.DailyTrend {
		t.Errorf("expected transition dailytrend, got %s", act)
	}
	if act := s.OnNavigate(route.Event{URL: "http://localhost:8080/dailytrend"}, route.Dashboard); act.Kind != route.NoOp {
		t.Errorf("expected noop for unmapped /dailytrend, got %s", act)
	}
}
