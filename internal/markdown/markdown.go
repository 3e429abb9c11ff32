// Package markdown implements the Markdown Lowering Engine (§4.6): a
// single-pass, document-order walk of the parsed HTML tree that emits
// Markdown tokens, consulting the security policy and URL resolver and
// checkpointing against a cooperative timeout.
//
// Grounded on original_source/.../converter.rs (traverse_node /
// traverse_node_with_context, handle_element / handle_element_with_context
// and every handle_* function).
package markdown

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/lucasew/mdconvert/internal/security"
	"github.com/lucasew/mdconvert/internal/urlresolve"
)

// Flavor selects table rendering. Mirrors convert.Flavor without importing
// the convert package (which imports this one).
type Flavor int

const (
	FlavorCommonMark Flavor = 0
	FlavorGFM        Flavor = 1
)

// Checkpointer is satisfied by *convert.Context; it lets this package
// cooperate with the timeout model without importing the orchestrator.
type Checkpointer interface {
	IncrementAndCheck() error
}

// Lowerer holds the (immutable, per-call) configuration for a single
// lowering pass.
type Lowerer struct {
	sec                 *security.Validator
	flavor              Flavor
	baseURL             string
	resolveRelativeURLs bool
}

// New builds a Lowerer. depthCeiling of 0 selects the specification
// default of 1000.
func New(flavor Flavor, baseURL string, resolveRelativeURLs bool, depthCeiling int) *Lowerer {
	return &Lowerer{
		sec:                 security.NewValidator(depthCeiling),
		flavor:              flavor,
		baseURL:             baseURL,
		resolveRelativeURLs: resolveRelativeURLs,
	}
}

// buffer wraps strings.Builder with the body-content/trailing-space
// queries the text-node handling rule needs.
type buffer struct {
	sb strings.Builder
}

func (b *buffer) WriteString(s string) { b.sb.WriteString(s) }
func (b *buffer) String() string       { return b.sb.String() }
func (b *buffer) HasBodyContent() bool { return strings.TrimSpace(b.sb.String()) != "" }
func (b *buffer) EndsWithSpace() bool  { return strings.HasSuffix(b.sb.String(), " ") }

// Lower walks doc and returns the unnormalized Markdown buffer.
func (l *Lowerer) Lower(doc *html.Node, ctx Checkpointer) (string, error) {
	buf := &buffer{}
	if err := l.walk(doc, 0, buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (l *Lowerer) walk(n *html.Node, depth int, buf *buffer, ctx Checkpointer) error {
	if err := ctx.IncrementAndCheck(); err != nil {
		return err
	}

	switch n.Type {
	case html.DocumentNode:
		return l.walkChildren(n, depth, buf, ctx)
	case html.ElementNode:
		return l.handleElement(n, depth, buf, ctx)
	case html.TextNode:
		handleText(buf, n.Data)
		return nil
	case html.CommentNode, html.DoctypeNode:
		return nil
	default:
		return l.walkChildren(n, depth, buf, ctx)
	}
}

func (l *Lowerer) walkChildren(n *html.Node, depth int, buf *buffer, ctx Checkpointer) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := l.walk(c, depth, buf, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) handleElement(n *html.Node, depth int, buf *buffer, ctx Checkpointer) error {
	action := l.sec.CheckElement(n.Data)
	if action == security.Remove {
		return nil
	}
	if err := l.sec.ValidateDepth(depth); err != nil {
		return err
	}

	switch n.Data {
	case "h1":
		return l.handleHeading(n, 1, depth, buf, ctx)
	case "h2":
		return l.handleHeading(n, 2, depth, buf, ctx)
	case "h3":
		return l.handleHeading(n, 3, depth, buf, ctx)
	case "h4":
		return l.handleHeading(n, 4, depth, buf, ctx)
	case "h5":
		return l.handleHeading(n, 5, depth, buf, ctx)
	case "h6":
		return l.handleHeading(n, 6, depth, buf, ctx)
	case "p":
		return l.handleParagraph(n, depth, buf, ctx)
	case "a":
		return l.handleLink(n, depth, buf, ctx)
	case "img":
		return l.handleImage(n, buf)
	case "ul":
		return l.handleList(n, depth, 0, buf, false, ctx)
	case "ol":
		return l.handleList(n, depth, 0, buf, true, ctx)
	case "li":
		return l.handleListItem(n, depth, 0, buf, false, ctx)
	case "pre":
		return l.handleCodeBlock(n, buf)
	case "code":
		return l.handleInlineCode(n, buf)
	case "strong", "b":
		return l.handleBold(n, depth, buf, ctx)
	case "em", "i":
		return l.handleItalic(n, depth, buf, ctx)
	case "table":
		if l.flavor == FlavorGFM {
			return l.handleTable(n, depth, buf, ctx)
		}
		return l.walkChildren(n, depth+1, buf, ctx)
	default:
		return l.walkChildren(n, depth+1, buf, ctx)
	}
}

// --- text nodes -------------------------------------------------------

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func handleText(buf *buffer, raw string) {
	normalized := normalizeText(raw)
	if normalized == "" {
		return
	}
	startsWS := len(raw) > 0 && unicode.IsSpace(firstRune(raw))
	endsWS := len(raw) > 0 && unicode.IsSpace(lastRune(raw))

	if startsWS && buf.HasBodyContent() && !buf.EndsWithSpace() {
		buf.WriteString(" ")
	}
	buf.WriteString(normalized)
	if endsWS {
		buf.WriteString(" ")
	}
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	r := ' '
	for _, c := range s {
		r = c
	}
	return r
}

// --- block separation ---------------------------------------------------

func ensureBlockSeparation(buf *buffer) {
	s := buf.String()
	if s == "" {
		return
	}
	switch {
	case strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		buf.WriteString("\n")
	default:
		buf.WriteString("\n\n")
	}
}

// --- inline rendering helper ---------------------------------------------

func (l *Lowerer) renderInline(n *html.Node, depth int, ctx Checkpointer) (string, error) {
	sub := &buffer{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := l.walk(c, depth+1, sub, ctx); err != nil {
			return "", err
		}
	}
	return sub.String(), nil
}

func collapseAndTrim(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

// --- headings / paragraphs -------------------------------------------------

func (l *Lowerer) handleHeading(n *html.Node, level, depth int, buf *buffer, ctx Checkpointer) error {
	inline, err := l.renderInline(n, depth, ctx)
	if err != nil {
		return err
	}
	ensureBlockSeparation(buf)
	buf.WriteString(strings.Repeat("#", level))
	buf.WriteString(" ")
	buf.WriteString(collapseAndTrim(inline))
	buf.WriteString("\n\n")
	return nil
}

func (l *Lowerer) handleParagraph(n *html.Node, depth int, buf *buffer, ctx Checkpointer) error {
	inline, err := l.renderInline(n, depth, ctx)
	if err != nil {
		return err
	}
	content := strings.TrimSpace(inline)
	if content == "" {
		return nil
	}
	ensureBlockSeparation(buf)
	buf.WriteString(content)
	buf.WriteString("\n\n")
	return nil
}

// --- links / images -------------------------------------------------------

func attrOf(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func (l *Lowerer) resolveURL(raw string) string {
	return urlresolve.Resolve(raw, l.baseURL, l.resolveRelativeURLs)
}

func (l *Lowerer) handleLink(n *html.Node, depth int, buf *buffer, ctx Checkpointer) error {
	text, err := l.renderInline(n, depth, ctx)
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)

	href := attrOf(n, "href")
	safe := href != "" && !security.IsDangerousURL(href)

	if safe && text != "" {
		buf.WriteString(fmt.Sprintf("[%s](%s)", text, l.resolveURL(href)))
		return nil
	}
	buf.WriteString(text)
	return nil
}

func (l *Lowerer) handleImage(n *html.Node, buf *buffer) error {
	src := attrOf(n, "src")
	if src == "" || security.IsDangerousURL(src) {
		return nil
	}
	alt := attrOf(n, "alt")
	buf.WriteString(fmt.Sprintf("![%s](%s)", alt, l.resolveURL(src)))
	return nil
}

// --- lists -------------------------------------------------------------

func (l *Lowerer) handleList(n *html.Node, treeDepth, listLevel int, buf *buffer, ordered bool, ctx Checkpointer) error {
	if listLevel == 0 {
		ensureBlockSeparation(buf)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		if err := l.handleListItem(c, treeDepth+1, listLevel, buf, ordered, ctx); err != nil {
			return err
		}
	}
	if listLevel == 0 {
		buf.WriteString("\n")
	}
	return nil
}

func (l *Lowerer) handleListItem(n *html.Node, treeDepth, listLevel int, buf *buffer, ordered bool, ctx Checkpointer) error {
	indent := strings.Repeat("  ", listLevel)
	marker := "- "
	if ordered {
		marker = "1. "
	}
	buf.WriteString(indent)
	buf.WriteString(marker)

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
			buf.WriteString("\n")
			if err := l.handleList(c, treeDepth+1, listLevel+1, buf, c.Data == "ol", ctx); err != nil {
				return err
			}
			continue
		}
		if err := l.walk(c, treeDepth+1, buf, ctx); err != nil {
			return err
		}
	}
	buf.WriteString("\n")
	return nil
}

// --- code -------------------------------------------------------------

func extractRawText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func firstDescendantByTag(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := firstDescendantByTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func extractLanguage(class string) string {
	fields := strings.Fields(class)
	for _, f := range fields {
		if strings.HasPrefix(f, "language-") {
			return strings.TrimPrefix(f, "language-")
		}
	}
	for _, f := range fields {
		if strings.HasPrefix(f, "lang-") {
			return strings.TrimPrefix(f, "lang-")
		}
	}
	return ""
}

func (l *Lowerer) handleCodeBlock(n *html.Node, buf *buffer) error {
	lang := ""
	if code := firstDescendantByTag(n, "code"); code != nil {
		lang = extractLanguage(attrOf(code, "class"))
	}
	content := extractRawText(n)

	ensureBlockSeparation(buf)
	buf.WriteString("```")
	buf.WriteString(lang)
	buf.WriteString("\n")
	buf.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("```\n\n")
	return nil
}

func (l *Lowerer) handleInlineCode(n *html.Node, buf *buffer) error {
	buf.WriteString("`")
	buf.WriteString(extractRawText(n))
	buf.WriteString("`")
	return nil
}

// --- bold / italic -------------------------------------------------------

func (l *Lowerer) handleBold(n *html.Node, depth int, buf *buffer, ctx Checkpointer) error {
	inline, err := l.renderInline(n, depth, ctx)
	if err != nil {
		return err
	}
	buf.WriteString("**")
	buf.WriteString(inline)
	buf.WriteString("**")
	return nil
}

func (l *Lowerer) handleItalic(n *html.Node, depth int, buf *buffer, ctx Checkpointer) error {
	inline, err := l.renderInline(n, depth, ctx)
	if err != nil {
		return err
	}
	buf.WriteString("*")
	buf.WriteString(inline)
	buf.WriteString("*")
	return nil
}
