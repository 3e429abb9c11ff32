// Package request extracts the request-signal handling that api/index.go
// used to keep inline (format negotiation, LLM detection, Vercel rewrite
// URL reconstruction, target URL validation) into its own package so it
// can be unit tested without spinning up the handler.
package request

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

/**
 * llmUserAgents contains a list of substring identifiers for known LLM bots and crawlers.
 *
 * This list is used to detect requests from AI agents (like GPTBot, Claude, etc.)
 * so the application can automatically serve a token-efficient format (Markdown)
 * instead of full HTML.
 */
var llmUserAgents = []string{
	"gptbot",
	"chatgpt",
	"claude",
	"googlebot",
	"bingbot",
	"anthropic",
	"perplexity",
	"claudebot",
	"github-copilot",
}

/**
 * IsLLM attempts to detect if the request is originated from a known LLM crawler or tool.
 *
 * It checks the User-Agent string against a list of known identifiers (e.g., GPTBot, Claude).
 * This allows the application to default to a machine-friendly format (Markdown) automatically.
 */
func IsLLM(r *http.Request) bool {
	ua := strings.ToLower(r.UserAgent())
	for _, s := range llmUserAgents {
		if strings.Contains(ua, s) {
			return true
		}
	}
	return false
}

/**
 * GetFormat determines the desired output format based on request signals.
 *
 * Priority order:
 * 1. Query parameter 'format' (explicit override).
 * 2. Accept Header (content negotiation).
 * 3. LLM Detection (auto-switch to Markdown for bots).
 * 4. Default to 'html'.
 */
func GetFormat(r *http.Request) string {
	if format := r.URL.Query().Get("format"); format != "" {
		return format
	}

	accept := strings.ToLower(r.Header.Get("Accept"))
	switch {
	case strings.Contains(accept, "application/json"):
		return "json"
	case strings.Contains(accept, "text/markdown"), strings.Contains(accept, "text/x-markdown"):
		return "md"
	case strings.Contains(accept, "text/plain"):
		return "text"
	case strings.Contains(accept, "text/html"):
		return "html"
	}

	if IsLLM(r) {
		return "md"
	}
	return "html"
}

/**
 * ReconstructURL handles query parameter extraction quirks caused by reverse-proxy rewrites.
 *
 * When a rewrite rule turns `/api/extract?url=http://example.com?foo=bar`
 * into a request whose `url` query parameter is cleanly separated from
 * `foo=bar`, this merges the stray query parameters back into the target
 * URL so the full original URL is processed.
 */
func ReconstructURL(r *http.Request) string {
	rawLink := r.URL.Query().Get("url")
	if rawLink == "" {
		return ""
	}

	u, err := url.Parse(rawLink)
	if err != nil {
		return rawLink
	}

	targetQuery := u.Query()
	originalQuery := r.URL.Query()
	hasChanges := false
	for k, vs := range originalQuery {
		// 'url' and 'format' are control parameters for this API, not part
		// of the target site's query string.
		if k == "url" || k == "format" {
			continue
		}
		hasChanges = true
		for _, v := range vs {
			targetQuery.Add(k, v)
		}
	}
	if hasChanges {
		u.RawQuery = targetQuery.Encode()
		return u.String()
	}
	return rawLink
}

/**
 * NormalizeURL cleans and validates a user-provided URL.
 *
 * It handles common normalization issues, such as:
 * - Missing scheme (defaults to https://).
 * - Malformed schemes caused by some proxies (e.g., http:/example.com -> http://example.com).
 *
 * It also restricts the scheme to 'http' or 'https' to prevent usage of other protocols like 'file://' or 'gopher://'.
 */
func NormalizeURL(rawLink string) (*url.URL, error) {
	if rawLink == "" {
		return nil, errors.New("url parameter is empty")
	}

	if strings.HasPrefix(rawLink, "http:/") && !strings.HasPrefix(rawLink, "http://") {
		rawLink = "http://" + rawLink[6:]
	} else if strings.HasPrefix(rawLink, "https:/") && !strings.HasPrefix(rawLink, "https://") {
		rawLink = "https://" + rawLink[7:]
	}

	if !strings.Contains(rawLink, "://") {
		rawLink = fmt.Sprintf("https://%s", rawLink)
	}
	link, err := url.Parse(rawLink)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if link.Scheme != "http" && link.Scheme != "https" {
		return nil, errors.New("unsupported URL scheme")
	}
	return link, nil
}
