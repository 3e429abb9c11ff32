// Package htmlparse adapts golang.org/x/net/html into the permissive
// HTML5 parser required by §4.2: it resolves the charset via
// internal/charset, decodes to UTF-8, and builds a node tree.
//
// Grounded on original_source/.../parser.rs (parse_html_with_charset,
// decode_html_to_utf8) for the decode-before-parse ordering, and the
// teacher's api/fetch.go for the golang.org/x/net/html call shape.
package htmlparse

import (
	"errors"
	"strings"

	"golang.org/x/net/html"

	"github.com/lucasew/mdconvert/internal/charset"
)

// ErrEmptyInput is returned when the byte input is empty. The orchestrator
// (internal/convert) short-circuits this case before ever calling Parse,
// per the empty-input Open Question resolution in SPEC_FULL.md §9; Parse
// itself still enforces the rule independently so it remains correct when
// called directly.
var ErrEmptyInput = errors.New("html input is empty")

// Parse detects the charset (consulting contentType and the HTML bytes
// themselves), decodes to UTF-8, and parses into a *html.Node document
// tree. The returned error is either ErrEmptyInput, a *charset.DecodeError,
// or an error from the underlying tokenizer (rare, since html5 parsing is
// permissive by design).
func Parse(htmlBytes []byte, contentType string) (*html.Node, error) {
	if len(htmlBytes) == 0 {
		return nil, ErrEmptyInput
	}

	detected := charset.Detect(contentType, htmlBytes)
	utf8Text, err := charset.DecodeToUTF8(htmlBytes, detected)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(utf8Text))
	if err != nil {
		return nil, err
	}
	return doc, nil
}
