// Package tokenestimate implements the token estimator (§4.9):
// ceil(code_point_count / chars_per_token).
//
// Grounded on original_source/.../token_estimator.rs. See SPEC_FULL.md §9
// for why this intentionally counts code points, not grapheme clusters.
package tokenestimate

import (
	"math"
	"unicode/utf8"
)

// Estimate returns ceil(rune_count(s) / charsPerToken). A charsPerToken of
// zero or less falls back to the specification default of 4.0.
func Estimate(s string, charsPerToken float64) uint32 {
	if charsPerToken <= 0 {
		charsPerToken = 4.0
	}
	count := utf8.RuneCountInString(s)
	if count == 0 {
		return 0
	}
	return uint32(math.Ceil(float64(count) / charsPerToken))
}
