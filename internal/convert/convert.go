package convert

import (
	"strings"
	"time"

	"github.com/lucasew/mdconvert/internal/charset"
	"github.com/lucasew/mdconvert/internal/etag"
	"github.com/lucasew/mdconvert/internal/htmlparse"
	"github.com/lucasew/mdconvert/internal/markdown"
	"github.com/lucasew/mdconvert/internal/metadata"
	"github.com/lucasew/mdconvert/internal/normalize"
	"github.com/lucasew/mdconvert/internal/tokenestimate"
)

// Result is the Go rendition of the Conversion Result record (§3).
type Result struct {
	Markdown      string
	ETag          string
	TokenEstimate uint32
	Error         *Error
}

// Convert runs the full pipeline: charset/parse, optional metadata
// extraction, Markdown lowering, normalization, optional etag and token
// estimation. Every internal error is classified into the stable taxonomy
// before it reaches the caller; leaf packages never construct an *Error
// themselves.
func Convert(html []byte, contentType string, opts Options) Result {
	if len(html) == 0 {
		return emptyResult(opts)
	}

	var timeout time.Duration
	if opts.TimeoutMillis > 0 {
		timeout = time.Duration(opts.TimeoutMillis) * time.Millisecond
	}
	ctx := NewContext(timeout)

	doc, err := htmlparse.Parse(html, contentType)
	if err != nil {
		return Result{Error: classifyParseError(err)}
	}
	if err := ctx.CheckPhase(); err != nil {
		return Result{Error: err.(*Error)}
	}

	var meta metadata.Metadata
	if opts.ExtractMetadata {
		meta = metadata.Extract(doc, opts.BaseURL, opts.ResolveRelativeURLs)
	}
	if err := ctx.CheckPhase(); err != nil {
		return Result{Error: err.(*Error)}
	}

	lowerer := markdown.New(markdown.Flavor(opts.Flavor), opts.BaseURL, opts.ResolveRelativeURLs, opts.depthCeiling())
	body, err := lowerer.Lower(doc, ctx)
	if err != nil {
		return Result{Error: classifyLowerError(err)}
	}
	if err := ctx.CheckPhase(); err != nil {
		return Result{Error: err.(*Error)}
	}

	var sb strings.Builder
	if opts.wantsFrontMatter() {
		sb.WriteString(buildFrontMatter(meta))
	}
	sb.WriteString(body)

	normalized := normalize.Normalize(sb.String())
	if err := ctx.CheckPhase(); err != nil {
		return Result{Error: err.(*Error)}
	}

	result := Result{Markdown: normalized}
	if opts.GenerateETag {
		result.ETag = etag.Generate(normalized)
	}
	if opts.EstimateTokens {
		result.TokenEstimate = tokenestimate.Estimate(normalized, opts.charsPerToken())
	}
	return result
}

// buildFrontMatter renders the YAML front matter block (§4.10): a fixed
// field order, empty fields omitted, and scalar values escaped for
// double-quoted YAML.
func buildFrontMatter(m metadata.Metadata) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	writeFrontMatterField(&sb, "title", m.Title)
	writeFrontMatterField(&sb, "url", m.URL)
	writeFrontMatterField(&sb, "description", m.Description)
	writeFrontMatterField(&sb, "image", m.Image)
	writeFrontMatterField(&sb, "author", m.Author)
	writeFrontMatterField(&sb, "published", m.Published)
	sb.WriteString("---\n\n")
	return sb.String()
}

func writeFrontMatterField(sb *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	sb.WriteString(key)
	sb.WriteString(": \"")
	sb.WriteString(escapeYAMLString(value))
	sb.WriteString("\"\n")
}

func escapeYAMLString(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return replacer.Replace(s)
}

// emptyResult implements the §4.10 step 2 / §9 empty-input resolution:
// an empty document is not an error, it converts to an empty Markdown
// document. The derived artifacts (etag, token estimate) are still
// produced when requested, exactly as they would be for any other
// successful conversion.
func emptyResult(opts Options) Result {
	result := Result{Markdown: ""}
	if opts.GenerateETag {
		result.ETag = etag.Generate(result.Markdown)
	}
	if opts.EstimateTokens {
		result.TokenEstimate = tokenestimate.Estimate(result.Markdown, opts.charsPerToken())
	}
	return result
}

// classifyParseError maps an internal/htmlparse error onto the stable
// taxonomy. A *charset.DecodeError means the bytes could not be
// transcoded to UTF-8 (Encoding); anything else came from the underlying
// HTML5 tokenizer itself (Parse). htmlparse.Parse never returns
// ErrEmptyInput here because Convert short-circuits empty input before
// ever calling it.
func classifyParseError(err error) *Error {
	if _, ok := err.(*charset.DecodeError); ok {
		return NewEncodingError("%s", err.Error())
	}
	return NewParseError("%s", err.Error())
}

// classifyLowerError maps an internal/markdown error onto the taxonomy.
// The only errors the lowering engine itself produces are timeout
// checkpoints (already *Error, passed through) and depth-ceiling
// violations, which are reported as InvalidInput.
func classifyLowerError(err error) *Error {
	if convErr, ok := err.(*Error); ok {
		return convErr
	}
	return NewInvalidInputError("%s", err.Error())
}
