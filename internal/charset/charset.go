// Package charset implements the three-level (plus one statistical
// fallback) charset detection cascade: Content-Type header, HTML meta
// tags, gogs/chardet sniffing, then UTF-8 default.
//
// Grounded on original_source/.../charset.rs (detect_charset,
// extract_charset_from_content_type, extract_charset_from_html,
// normalize_charset).
package charset

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
)

const scanWindow = 1024

var (
	contentTypeCharsetRe = regexp.MustCompile(`(?i)charset\s*=\s*"?'?([^;,\s"']+)`)
	metaCharsetRe        = regexp.MustCompile(`(?i)<meta\s+[^>]*charset\s*=\s*["']?([^"'\s/>]+)`)
	metaHTTPEquivRe      = regexp.MustCompile(`(?i)<meta\s+[^>]*http-equiv\s*=\s*["']content-type["'][^>]*content\s*=\s*["'][^"']*charset\s*=\s*([^"';\s]+)`)
)

var sniffer = chardet.NewTextDetector()

// Detect runs the full cascade and returns an uppercased charset label.
// It never fails: when nothing is found, it returns "UTF-8".
func Detect(contentType string, html []byte) string {
	if label := fromContentType(contentType); label != "" {
		return normalize(label)
	}

	window := html
	if len(window) > scanWindow {
		window = window[:scanWindow]
	}
	if label := fromHTMLMeta(window); label != "" {
		return normalize(label)
	}

	if label := fromSniff(html); label != "" {
		return normalize(label)
	}

	return "UTF-8"
}

func fromContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	m := contentTypeCharsetRe.FindStringSubmatch(contentType)
	if m == nil {
		return ""
	}
	return strings.Trim(m[1], `"' `)
}

func fromHTMLMeta(window []byte) string {
	if m := metaCharsetRe.FindSubmatch(window); m != nil {
		return strings.Trim(string(m[1]), `"' `)
	}
	if m := metaHTTPEquivRe.FindSubmatch(window); m != nil {
		return strings.Trim(string(m[1]), `"' `)
	}
	return ""
}

// fromSniff is a supplement beyond the base three-level cascade (see
// SPEC_FULL.md §10.2): a statistical sniff attempted only once header and
// meta scans have both failed. It never overrides an explicit charset and
// is skipped entirely when the bytes already decode as valid UTF-8, since
// UTF-8 is the safe and far more likely default for modern content.
func fromSniff(html []byte) string {
	if isValidUTF8(html) {
		return ""
	}
	result, err := sniffer.DetectBest(html)
	if err != nil || result == nil || result.Charset == "" {
		return ""
	}
	return result.Charset
}

func normalize(label string) string {
	label = strings.ToUpper(strings.TrimSpace(label))
	switch label {
	case "UTF8":
		return "UTF-8"
	case "US-ASCII", "ASCII":
		return "US-ASCII"
	default:
		return label
	}
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}
