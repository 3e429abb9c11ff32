// Package metadata extracts page metadata (title, description, url,
// image, author, published) from the document head, per the precedence
// rules in §3/§4.4.
//
// Grounded on original_source/.../metadata.rs (PageMetadata,
// MetadataExtractor, resolve_url and friends).
package metadata

import (
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/araddon/dateparse"
	"golang.org/x/net/html"

	"github.com/lucasew/mdconvert/internal/urlresolve"
)

// Metadata holds the optional extracted fields. Empty string means absent.
type Metadata struct {
	Title       string
	Description string
	URL         string
	Image       string
	Author      string
	Published   string
}

var (
	metaSelector  = cascadia.MustCompile("meta")
	linkSelector  = cascadia.MustCompile("link")
	titleSelector = cascadia.MustCompile("title")
)

// Extract walks doc and collects fields per the documented precedence.
// Extraction never fails: it always returns a (possibly all-empty) record,
// matching the specification's "extraction failure is non-fatal" rule.
func Extract(doc *html.Node, baseURL string, resolveURLs bool) Metadata {
	var (
		ogTitle, twitterTitle, plainTitle string
		description                      string
		ogImage, twitterImage            string
		canonicalURL, ogURL              string
		author, published                string
	)

	for _, n := range metaSelector.MatchAll(doc) {
		name := strings.ToLower(attr(n, "name"))
		property := strings.ToLower(attr(n, "property"))
		content := attr(n, "content")
		if content == "" {
			continue
		}
		switch {
		case property == "og:title" && ogTitle == "":
			ogTitle = content
		case name == "twitter:title" && twitterTitle == "":
			twitterTitle = content
		case description == "" && (name == "description" || property == "og:description"):
			description = content
		case property == "og:image" && ogImage == "":
			ogImage = content
		case name == "twitter:image" && twitterImage == "":
			twitterImage = content
		case property == "og:url" && ogURL == "":
			ogURL = content
		case name == "author" && author == "":
			author = content
		case property == "article:published_time" && published == "":
			published = content
		}
	}

	for _, n := range titleSelector.MatchAll(doc) {
		if plainTitle == "" {
			plainTitle = collectText(n)
		}
	}

	for _, n := range linkSelector.MatchAll(doc) {
		rel := strings.ToLower(attr(n, "rel"))
		if rel == "canonical" && canonicalURL == "" {
			canonicalURL = attr(n, "href")
		}
	}

	m := Metadata{
		Title:       firstNonEmpty(ogTitle, twitterTitle, plainTitle),
		Description: description,
		Image:       firstNonEmpty(ogImage, twitterImage),
		URL:         firstNonEmpty(canonicalURL, ogURL, baseURL),
		Author:      author,
		Published:   normalizePublished(published),
	}

	if m.Image != "" {
		m.Image = urlresolve.Resolve(m.Image, baseURL, resolveURLs)
	}
	if m.URL != "" {
		m.URL = urlresolve.Resolve(m.URL, baseURL, resolveURLs)
	}

	return m
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// normalizePublished upgrades a loosely-formatted published date to RFC
// 3339 when possible; if the value is empty, already RFC 3339, or not
// parseable by dateparse, the original string is kept rather than risk
// losing information the source intended.
func normalizePublished(raw string) string {
	if raw == "" {
		return ""
	}
	if _, err := time.Parse(time.RFC3339, raw); err == nil {
		return raw
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02T15:04:05Z07:00")
}
