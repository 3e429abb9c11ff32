package charset

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// DecodeError describes an undecodable byte sequence for a given label.
type DecodeError struct {
	Label string
	Msg   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Label, e.Msg)
}

// DecodeToUTF8 transcodes html to a UTF-8 string according to the detected
// label. For "UTF-8" it validates the bytes directly (no transcoding);
// invalid UTF-8 yields a *DecodeError naming the byte offset. For any other
// label it looks up a decoder via golang.org/x/text/encoding/htmlindex
// (the same registry browsers use to resolve charset labels) and decodes
// without BOM handling, matching the Rust original's
// decode_without_bom_handling_and_without_replacement.
func DecodeToUTF8(html []byte, label string) (string, error) {
	if label == "UTF-8" {
		if !utf8.Valid(html) {
			offset := firstInvalidUTF8Offset(html)
			return "", &DecodeError{Label: label, Msg: fmt.Sprintf("invalid UTF-8 at byte position %d", offset)}
		}
		return string(html), nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", &DecodeError{Label: label, Msg: "unsupported charset for HTML parsing"}
	}

	decoded, err := enc.NewDecoder().Bytes(html)
	if err != nil {
		return "", &DecodeError{Label: label, Msg: "invalid byte sequence for charset"}
	}
	return string(decoded), nil
}

func firstInvalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
