package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidOrigin is returned when the configured base URL is not an
// http(s) origin.
var ErrInvalidOrigin = errors.New("base url must be an http or https origin")

// Origin is the scheme and host the shell may navigate within.
type Origin struct {
	scheme string
	host   string
}

// ParseOrigin builds an Origin from a base URL such as
// "https://kattameya-dashboard.up.railway.app/". A trailing slash is
// ignored; any other path, query or fragment is rejected.
func ParseOrigin(base string) (Origin, error) {
	base = strings.TrimSpace(base)
	base = strings.TrimSuffix(base, "/")
	u, err := url.Parse(base)
	if err != nil {
		return Origin{}, fmt.Errorf("%w: %v", ErrInvalidOrigin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Origin{}, fmt.Errorf("%w: scheme %q", ErrInvalidOrigin, u.Scheme)
	}
	if u.Hostname() == "" || u.User != nil {
		return Origin{}, fmt.Errorf("%w: %q", ErrInvalidOrigin, base)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return Origin{}, fmt.Errorf("%w: unexpected path in %q", ErrInvalidOrigin, base)
	}
	return Origin{scheme: u.Scheme, host: hostKey(u)}, nil
}

// MustParseOrigin is like ParseOrigin but panics on error.
func MustParseOrigin(base string) Origin {
	o, err := ParseOrigin(base)
	if err != nil {
		panic(err)
	}
	return o
}

// String returns "scheme://host".
func (o Origin) String() string {
	return o.scheme + "://" + o.host
}

// Allows reports whether rawURL belongs to this origin. This is the single
// predicate behind both the navigation veto and screen synchronization.
// Empty or malformed URLs are never allowed. An explicit default port
// (:443 for https, :80 for http) matches the bare host.
func (o Origin) Allows(rawURL string) bool {
	if o.host == "" || rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == o.scheme && hostKey(u) == o.host
}

// hostKey returns the lowercased host[:port] of u, without the scheme's
// default port.
func hostKey(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	port := u.Port()
	if port == "" || (u.Scheme == "https" && port == "443") || (u.Scheme == "http" && port == "80") {
		return host
	}
	return host + ":" + port
}

// URL returns the absolute URL of path under this origin.
func (o Origin) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return o.String() + path
}

// ExtractPath returns the path component of rawURL with query and fragment
// removed. An empty path is reported as "/".
func ExtractPath(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if u.Path == "" {
		return "/", true
	}
	return u.Path, true
}
