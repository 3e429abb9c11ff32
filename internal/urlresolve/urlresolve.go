// Package urlresolve resolves relative URLs against an optional base URL
// (§4.5).
//
// Grounded on original_source/.../metadata.rs (resolve_url, get_origin,
// get_base_directory).
package urlresolve

import (
	"net/url"
	"strings"
)

// Resolve implements the resolution rules: absolute and protocol-relative
// URLs pass through untouched; when resolution is disabled or there is no
// usable base URL, candidate passes through untouched; otherwise absolute
// paths resolve against the origin and relative paths resolve against the
// base directory.
func Resolve(candidate, baseURL string, enabled bool) string {
	if candidate == "" {
		return candidate
	}
	if isAbsolute(candidate) || isProtocolRelative(candidate) {
		return candidate
	}
	if !enabled || baseURL == "" {
		return candidate
	}
	base, ok := parseAbsoluteHTTPURL(baseURL)
	if !ok {
		return candidate
	}

	if strings.HasPrefix(candidate, "/") {
		return origin(base) + candidate
	}
	return baseDirectory(base) + "/" + candidate
}

func isAbsolute(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isProtocolRelative(s string) bool {
	return strings.HasPrefix(s, "//")
}

func parseAbsoluteHTTPURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Host == "" {
		return nil, false
	}
	return u, true
}

// origin returns scheme://authority with no path.
func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// baseDirectory returns the base URL with its final path segment removed,
// and any trailing slash stripped once. For a base with no path segment it
// equals origin.
func baseDirectory(u *url.URL) string {
	path := u.Path
	idx := strings.LastIndex(path, "/")
	var dir string
	if idx < 0 {
		dir = ""
	} else {
		dir = path[:idx]
	}
	return origin(u) + dir
}
