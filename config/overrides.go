package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ROCKDASH_BASE_URL.
const EnvPrefix = "ROCKDASH"

// Override keys. Flags bound to a Viper under these keys, or the matching
// ROCKDASH_* variables, take precedence over the config file.
const (
	KeyBaseURL   = "base_url"
	KeyLogLevel  = "log.level"
	KeyLogFile   = "log.file"
	KeyHeadless  = "browser.headless"
	KeyExecPath  = "browser.exec_path"
	KeyNoSandbox = "browser.no_sandbox"
	KeyPreload   = "browser.preload"
	KeyLoginUser = "login.username"
	KeyLoginPass = "login.password"
	KeyStaleTTL  = "stale_ttl"
	KeyPageLoad  = "browser.page_load_timeout"
)

// NewViper returns a Viper reading ROCKDASH_* environment overrides.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key set in v onto c and re-validates.
func (c *Config) ApplyOverrides(v *viper.Viper) error {
	if v.IsSet(KeyBaseURL) {
		c.BaseURL = v.GetString(KeyBaseURL)
	}
	if v.IsSet(KeyLogLevel) {
		c.Log.Level = v.GetString(KeyLogLevel)
	}
	if v.IsSet(KeyLogFile) {
		c.Log.File = v.GetString(KeyLogFile)
	}
	if v.IsSet(KeyHeadless) {
		c.Browser.Headless = v.GetBool(KeyHeadless)
	}
	if v.IsSet(KeyExecPath) {
		c.Browser.ExecPath = v.GetString(KeyExecPath)
	}
	if v.IsSet(KeyNoSandbox) {
		c.Browser.NoSandbox = v.GetBool(KeyNoSandbox)
	}
	if v.IsSet(KeyPreload) {
		c.Browser.Preload = v.GetBool(KeyPreload)
	}
	if v.IsSet(KeyLoginUser) {
		c.Login.Username = v.GetString(KeyLoginUser)
	}
	if v.IsSet(KeyLoginPass) {
		c.Login.Password = v.GetString(KeyLoginPass)
	}
	if v.IsSet(KeyStaleTTL) {
		c.StaleTTL = v.GetDuration(KeyStaleTTL)
	}
	if v.IsSet(KeyPageLoad) {
		c.Browser.PageLoadTimeout = v.GetDuration(KeyPageLoad)
	}
	return c.normalize()
}
