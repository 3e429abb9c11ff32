// Package normalize applies the output normalizer (§4.7): the entire
// determinism contract for the cache validator.
//
// Grounded on original_source/.../converter.rs (normalize_output,
// normalize_line_whitespace).
package normalize

import "strings"

// Normalize applies the six normalization rules, in order, to raw
// (unnormalized) Markdown output.
func Normalize(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = stripTrailingHorizontalWhitespace(line)
	}

	lines = collapseBlankLines(lines)

	inFence := false
	for i, line := range lines {
		if isFenceDelimiter(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = collapseLineWhitespace(line)
	}

	out := strings.Join(lines, "\n")
	return ensureSingleTrailingNewline(out)
}

func stripTrailingHorizontalWhitespace(line string) string {
	return strings.TrimRight(line, " \t")
}

func isFenceDelimiter(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "```")
}

func collapseBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevBlank := false
	inFence := false
	for _, line := range lines {
		if isFenceDelimiter(line) {
			inFence = !inFence
		}
		blank := line == ""
		if blank && prevBlank && !inFence {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	return out
}

// collapseLineWhitespace collapses runs of spaces to a single space,
// preserving leading indentation and spaces inside inline-code backtick
// spans (toggled by single backticks on the line).
func collapseLineWhitespace(line string) string {
	leadingLen := len(line) - len(strings.TrimLeft(line, " \t"))
	indent := line[:leadingLen]
	rest := line[leadingLen:]

	var sb strings.Builder
	sb.WriteString(indent)

	inInlineCode := false
	runLength := 0
	for _, r := range rest {
		if r == '`' {
			inInlineCode = !inInlineCode
			sb.WriteRune(r)
			runLength = 0
			continue
		}
		if r == ' ' && !inInlineCode {
			runLength++
			if runLength == 1 {
				sb.WriteRune(r)
			}
			continue
		}
		runLength = 0
		sb.WriteRune(r)
	}
	return sb.String()
}

func ensureSingleTrailingNewline(s string) string {
	s = strings.TrimRight(s, "\n")
	return s + "\n"
}
