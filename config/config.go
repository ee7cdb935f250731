package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kattameya/rockdash/route"
)

const (
	DefaultBaseURL   = "https://kattameya-dashboard.up.railway.app/"
	DefaultAppName   = "Rock Dashboard"
	DefaultUserAgent = "RockDashboardMobile/1.0"
	DefaultStaleTTL  = 30 * time.Second
	DefaultPageLoad  = 30 * time.Second
)

var (
	ErrNoBaseURL = errors.New("base_url is not configured")
	ErrNoScreens = errors.New("config has no screens defined")
)

// Config is the top-level configuration.
type Config struct {
	BaseURL  string         `toml:"base_url"`
	AppName  string         `toml:"app_name"`
	StaleTTL time.Duration  `toml:"stale_ttl"`
	Log      LogConfig      `toml:"log"`
	Browser  BrowserConfig  `toml:"browser"`
	Login    LoginConfig    `toml:"login"`
	Screens  []ScreenConfig `toml:"screens"`
}

// LogConfig controls where the structured log goes. The terminal is owned
// by the UI, so logs always go to a file.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// BrowserConfig holds the embedded browser settings.
type BrowserConfig struct {
	Headless        bool          `toml:"headless"`
	NoSandbox       bool          `toml:"no_sandbox"`
	ExecPath        string        `toml:"exec_path"`
	UserAgent       string        `toml:"user_agent"`
	JavaScript      bool          `toml:"javascript"`
	Cache           bool          `toml:"cache"`
	InjectStyles    bool          `toml:"inject_styles"`
	PageLoadTimeout time.Duration `toml:"page_load_timeout"`
	Preload         bool          `toml:"preload"`
}

// LoginConfig holds optional credentials for the dashboard's login form.
type LoginConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Configured reports whether both credentials are present.
func (l LoginConfig) Configured() bool {
	return l.Username != "" && l.Password != ""
}

// ScreenConfig maps one dashboard path to a native screen.
type ScreenConfig struct {
	ID     string `toml:"id"`
	Path   string `toml:"path"`
	Title  string `toml:"title"`
	Header *bool  `toml:"header"`
}

// DefaultPath returns the default config file path using XDG conventions.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "rockdash", "config.toml")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(dir, "rockdash", "rockdash.log")
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		BaseURL:  DefaultBaseURL,
		AppName:  DefaultAppName,
		StaleTTL: DefaultStaleTTL,
		Log:      LogConfig{File: DefaultLogPath(), Level: "info"},
		Browser: BrowserConfig{
			Headless:        true,
			UserAgent:       DefaultUserAgent,
			JavaScript:      true,
			Cache:           true,
			InjectStyles:    true,
			PageLoadTimeout: DefaultPageLoad,
		},
	}
	for _, e := range route.DefaultEntries() {
		header := e.Header
		cfg.Screens = append(cfg.Screens, ScreenConfig{
			ID:     e.Screen.String(),
			Path:   e.Path,
			Title:  e.Title,
			Header: &header,
		})
	}
	return cfg
}

// LoadFrom reads and parses the config file at the given path on top of
// the defaults. Keys absent from the file keep their default values; a
// file that defines [[screens]] replaces the default screen table.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	defaults := cfg.Screens
	cfg.Screens = nil
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if cfg.Screens == nil {
		cfg.Screens = defaults
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load is LoadFrom, except a missing file yields the defaults when
// allowMissing is set.
func Load(path string, allowMissing bool) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && allowMissing {
		cfg := Default()
		if err := cfg.normalize(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return LoadFrom(path)
}

func (c *Config) normalize() error {
	c.Log.File = expandPath(c.Log.File)
	c.Browser.ExecPath = expandPath(c.Browser.ExecPath)
	c.Login.Username = os.ExpandEnv(c.Login.Username)
	c.Login.Password = os.ExpandEnv(c.Login.Password)
	return c.Validate()
}

// Validate checks that the config describes a usable origin and screen table.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrNoBaseURL
	}
	if _, err := route.ParseOrigin(c.BaseURL); err != nil {
		return err
	}
	if len(c.Screens) == 0 {
		return ErrNoScreens
	}
	if c.StaleTTL <= 0 {
		return fmt.Errorf("stale_ttl must be positive, got %s", c.StaleTTL)
	}
	if c.Browser.PageLoadTimeout <= 0 {
		return fmt.Errorf("browser.page_load_timeout must be positive, got %s", c.Browser.PageLoadTimeout)
	}
	_, err := c.Registry()
	return err
}

// Origin returns the configured host origin.
func (c *Config) Origin() (route.Origin, error) {
	return route.ParseOrigin(c.BaseURL)
}

// Registry builds the path registry from the screen table.
func (c *Config) Registry() (*route.Registry, error) {
	entries := make([]route.Entry, 0, len(c.Screens))
	for _, s := range c.Screens {
		id, err := route.ParseScreenID(s.ID)
		if err != nil {
			return nil, err
		}
		header := true
		if s.Header != nil {
			header = *s.Header
		}
		entries = append(entries, route.Entry{Screen: id, Path: s.Path, Title: s.Title, Header: header})
	}
	return route.NewRegistry(entries)
}

// expandPath expands ~ to $HOME and then expands all environment variables.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "$HOME" + path[1:]
	}
	return os.ExpandEnv(path)
}
