package markdown

import (
	"strings"

	"github.com/aymerick/douceur/css"
	cssscanner "github.com/gorilla/css/scanner"
	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
)

type alignment int

const (
	alignLeft alignment = iota
	alignCenter
	alignRight
)

func (a alignment) marker() string {
	switch a {
	case alignCenter:
		return ":---:"
	case alignRight:
		return "---:"
	default:
		return "---"
	}
}

// handleTable implements GFM table emission (§4.6). Only reached when
// l.flavor == FlavorGFM; CommonMark treats <table> as a transparent
// container instead.
func (l *Lowerer) handleTable(n *html.Node, depth int, buf *buffer, ctx Checkpointer) error {
	headerRow := findHeaderRow(n)
	if headerRow == nil {
		return nil
	}

	headerCells, err := l.renderRowCells(headerRow, depth, ctx)
	if err != nil {
		return err
	}
	if len(headerCells) == 0 {
		return nil
	}

	aligns := extractAlignments(headerRow)
	bodyRows, err := l.collectBodyRows(n, headerRow, depth, ctx)
	if err != nil {
		return err
	}

	ensureBlockSeparation(buf)
	writeTableRow(buf, headerCells)
	writeAlignmentRow(buf, aligns, len(headerCells))
	for _, row := range bodyRows {
		writeTableRow(buf, padOrTruncate(row, len(headerCells)))
	}
	buf.WriteString("\n")
	return nil
}

// findHeaderRow returns the first <tr> under <thead> if present, otherwise
// the first <tr> under <tbody>, regardless of whether its cells are <th>
// or <td>.
func findHeaderRow(table *html.Node) *html.Node {
	if thead := firstDescendantByTag(table, "thead"); thead != nil {
		if row := firstDescendantByTag(thead, "tr"); row != nil {
			return row
		}
	}
	if tbody := firstDescendantByTag(table, "tbody"); tbody != nil {
		if row := firstDescendantByTag(tbody, "tr"); row != nil {
			return row
		}
	}
	return firstDescendantByTag(table, "tr")
}

func allRows(parent *html.Node) []*html.Node {
	var rows []*html.Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			rows = append(rows, c)
			continue
		}
		rows = append(rows, allRows(c)...)
	}
	return rows
}

// collectBodyRows returns every <tr> in the table except headerRow, in
// document order.
func (l *Lowerer) collectBodyRows(table, headerRow *html.Node, depth int, ctx Checkpointer) ([][]string, error) {
	var out [][]string
	for _, row := range allRows(table) {
		if row == headerRow {
			continue
		}
		cells, err := l.renderRowCells(row, depth, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, cells)
	}
	return out, nil
}

func (l *Lowerer) renderRowCells(row *html.Node, depth int, ctx Checkpointer) ([]string, error) {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		content, err := l.renderInline(c, depth, ctx)
		if err != nil {
			return nil, err
		}
		cells = append(cells, strings.TrimSpace(content))
	}
	return cells, nil
}

func extractAlignments(headerRow *html.Node) []alignment {
	var aligns []alignment
	for c := headerRow.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "th" && c.Data != "td") {
			continue
		}
		aligns = append(aligns, cellAlignment(c))
	}
	return aligns
}

func cellAlignment(cell *html.Node) alignment {
	if a := attrOf(cell, "align"); a != "" {
		switch strings.ToLower(strings.TrimSpace(a)) {
		case "center":
			return alignCenter
		case "right":
			return alignRight
		}
	}
	if style := attrOf(cell, "style"); style != "" {
		if v := textAlignFromStyle(style); v != "" {
			switch v {
			case "center":
				return alignCenter
			case "right":
				return alignRight
			}
		}
	}
	return alignLeft
}

// textAlignFromStyle parses a style attribute with gorilla/css's scanner
// and douceur's declaration model to find a text-align value, instead of
// hand-rolled string splitting.
func textAlignFromStyle(style string) string {
	decls := parseDeclarations(style)
	for _, d := range decls {
		if strings.EqualFold(d.Property, "text-align") {
			return strings.ToLower(strings.TrimSpace(d.Value))
		}
	}
	return ""
}

// parseDeclarations tokenizes "prop: value; prop2: value2" with
// gorilla/css/scanner and assembles douceur/css.Declaration values.
func parseDeclarations(style string) []*css.Declaration {
	s := cssscanner.New(style)
	var decls []*css.Declaration
	var cur *css.Declaration
	expectValue := false
	for {
		tok := s.Next()
		if tok.Type == cssscanner.TokenEOF || tok.Type == cssscanner.TokenError {
			break
		}
		switch tok.Type {
		case cssscanner.TokenIdent:
			if !expectValue {
				cur = &css.Declaration{Property: tok.Value}
			} else if cur != nil {
				if cur.Value != "" {
					cur.Value += " "
				}
				cur.Value += tok.Value
			}
		case cssscanner.TokenChar:
			switch tok.Value {
			case ":":
				expectValue = true
			case ";":
				if cur != nil {
					decls = append(decls, cur)
				}
				cur = nil
				expectValue = false
			}
		}
	}
	if cur != nil && cur.Property != "" {
		decls = append(decls, cur)
	}
	return decls
}

func writeTableRow(buf *buffer, cells []string) {
	buf.WriteString("| ")
	buf.WriteString(strings.Join(cells, " | "))
	buf.WriteString(" |\n")
}

func writeAlignmentRow(buf *buffer, aligns []alignment, width int) {
	markers := make([]string, width)
	for i := range markers {
		if i < len(aligns) {
			markers[i] = aligns[i].marker()
		} else {
			markers[i] = alignLeft.marker()
		}
	}
	buf.WriteString("| ")
	buf.WriteString(strings.Join(markers, " | "))
	buf.WriteString(" |\n")
}

// padOrTruncate pads a row with empty cells up to width, or truncates rows
// longer than width. Emptiness for padding purposes is judged by visual
// width (go-runewidth) rather than byte length, so zero-width content
// collapses the same way a genuinely empty cell would.
func padOrTruncate(row []string, width int) []string {
	out := make([]string, width)
	for i := 0; i < width; i++ {
		if i < len(row) {
			cell := row[i]
			if runewidth.StringWidth(strings.TrimSpace(cell)) == 0 {
				cell = ""
			}
			out[i] = cell
		} else {
			out[i] = ""
		}
	}
	return out
}
