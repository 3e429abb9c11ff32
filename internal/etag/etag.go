// Package etag generates the HTTP strong validator (§4.8): a BLAKE3 hash
// of the normalized Markdown, truncated to 128 bits, lowercase-hex
// encoded, and wrapped in double quotes.
//
// Grounded on original_source/.../etag_generator.rs.
package etag

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Generate hashes normalized with BLAKE3 and returns a 34-byte strong
// validator: '"' + 32 lowercase hex digits + '"'.
func Generate(normalized string) string {
	sum := blake3.Sum256([]byte(normalized))
	truncated := sum[:16] // first 128 bits
	return `"` + hex.EncodeToString(truncated) + `"`
}
