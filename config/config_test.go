package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kattameya/rockdash/config"
	"github.com/kattameya/rockdash/route"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
base_url = "https://dash.example.com/"
app_name = "Crusher"
stale_ttl = "1m"

[log]
file = "/tmp/rockdash.log"
level = "debug"

[browser]
headless = false
user_agent = "Test/1.0"
page_load_timeout = "10s"
preload = true
`)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BaseURL != "https://dash.example.com/" {
		t.Errorf("expected base url https://dash.example.com/, got %s", cfg.BaseURL)
	}
	if cfg.AppName != "Crusher" {
		t.Errorf("expected app name Crusher, got %s", cfg.AppName)
	}
	if cfg.StaleTTL != time.Minute {
		t.Errorf("expected stale_ttl 1m, got %s", cfg.StaleTTL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Browser.Headless {
		t.Error("expected headless=false")
	}
	if cfg.Browser.PageLoadTimeout != 10*time.Second {
		t.Errorf("expected page_load_timeout 10s, got %s", cfg.Browser.PageLoadTimeout)
	}
	if !cfg.Browser.Preload {
		t.Error("expected preload=true")
	}
	// Untouched keys keep their defaults.
	if !cfg.Browser.JavaScript || !cfg.Browser.Cache || !cfg.Browser.InjectStyles {
		t.Error("expected browser defaults to survive partial config")
	}
	if len(cfg.Screens) != 4 {
		t.Fatalf("expected 4 default screens, got %d", len(cfg.Screens))
	}

	origin, err := cfg.Origin()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if origin.String() != "https://dash.example.com" {
		t.Errorf("expected origin https://dash.example.com, got %s", origin)
	}
}

func TestLoad_CustomScreens(t *testing.T) {
	path := writeConfig(t, `
base_url = "http://localhost:8080"

[[screens]]
id = "login"
path = "/"
title = "Sign in"
header = false

[[screens]]
id = "dashboard"
path = "/dash"
title = "Overview"

[[screens]]
id = "history"
path = "/history"
title = "History"

[[screens]]
id = "dailytrend"
path = "/trend"
title = "Trend"
`)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, ok := reg.Resolve("/trend"); !ok || id != route.DailyTrend {
		t.Errorf("expected /trend to resolve to dailytrend, got %v %v", id, ok)
	}
	if _, ok := reg.Resolve("/dailytrend"); ok {
		t.Error("expected default /dailytrend to be replaced")
	}
	dash, _ := reg.Entry(route.Dashboard)
	if !dash.Header {
		t.Error("expected header to default to true")
	}
	login, _ := reg.Entry(route.Login)
	if login.Header {
		t.Error("expected login header=false")
	}
}

func TestLoad_LoginExpandsEnv(t *testing.T) {
	t.Setenv("ROCK_USER", "operator")
	t.Setenv("ROCK_PASS", "hunter2")
	path := writeConfig(t, `
[login]
username = "$ROCK_USER"
password = "${ROCK_PASS}"
`)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Login.Username != "operator" || cfg.Login.Password != "hunter2" {
		t.Errorf("expected expanded credentials, got %+v", cfg.Login)
	}
	if !cfg.Login.Configured() {
		t.Error("expected login configured")
	}
}

func TestLoad_ExpandsLogPath(t *testing.T) {
	t.Setenv("HOME", "/home/test")
	path := writeConfig(t, `
[log]
file = "~/logs/rockdash.log"
`)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.File != "/home/test/logs/rockdash.log" {
		t.Errorf("expected expanded log path, got %s", cfg.Log.File)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"placeholder url", `base_url = "YOUR_RAILWAY_URL_HERE"`},
		{"empty url", `base_url = ""`},
		{"negative ttl", `stale_ttl = "-1s"`},
		{"unknown screen", `
[[screens]]
id = "settings"
path = "/settings"
`},
		{"duplicate path", `
[[screens]]
id = "login"
path = "/"
[[screens]]
id = "dashboard"
path = "/"
[[screens]]
id = "history"
path = "/history"
[[screens]]
id = "dailytrend"
path = "/dailytrend"
`},
		{"missing screen", `
[[screens]]
id = "login"
path = "/"
`},
		{"bad toml", `base_url = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.LoadFrom(writeConfig(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_EmptyURLError(t *testing.T) {
	_, err := config.LoadFrom(writeConfig(t, `base_url = " "`))
	if !errors.Is(err, config.ErrNoBaseURL) {
		t.Errorf("expected ErrNoBaseURL, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	if _, err := config.Load(missing, false); err == nil {
		t.Error("expected error for missing file")
	}

	cfg, err := config.Load(missing, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != config.DefaultBaseURL {
		t.Errorf("expected default base url, got %s", cfg.BaseURL)
	}
}

func TestDefault_Valid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Browser.UserAgent != config.DefaultUserAgent {
		t.Errorf("expected default user agent, got %s", cfg.Browser.UserAgent)
	}
	if cfg.Login.Configured() {
		t.Error("expected no default credentials")
	}
}

func TestDefaultPath(t *testing.T) {
	p := config.DefaultPath()
	if filepath.Base(p) != "config.toml" {
		t.Errorf("expected config.toml, got %s", filepath.Base(p))
	}
	if filepath.Base(filepath.Dir(p)) != "rockdash" {
		t.Errorf("expected rockdash dir, got %s", filepath.Dir(p))
	}
}
