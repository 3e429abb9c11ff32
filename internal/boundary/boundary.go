// Package boundary realizes the external C-ABI contract (§6) as plain Go
// types: no cgo, no raw pointers. []byte and string stand in for the
// (pointer, length) pairs the original FFI surface uses, and recover()
// stands in for catch_unwind.
//
// Grounded on original_source/.../ffi.rs: ownership (caller owns the
// input, the library owns and must free the output), the all-NULL-on-error
// / all-zero-on-success contract, and panic safety at the boundary.
package boundary

import (
	"fmt"
	"sync"

	"github.com/lucasew/mdconvert/internal/convert"
)

// Options mirrors the FFI-visible conversion options (§6). Field-for-field
// with convert.Options, duplicated here rather than reused so that this
// package's shape tracks the external contract independently of internal
// refactors to convert.Options.
type Options struct {
	Flavor              convert.Flavor
	IncludeFrontMatter  bool
	ExtractMetadata     bool
	SimplifyNavigation  bool
	PreserveTables      bool
	BaseURL             string
	ResolveRelativeURLs bool
	TimeoutMillis       uint32
	GenerateETag        bool
	EstimateTokens      bool
	DepthCeiling        int
	CharsPerToken       float64
}

func (o Options) toInternal() convert.Options {
	return convert.Options{
		Flavor:              o.Flavor,
		IncludeFrontMatter:  o.IncludeFrontMatter,
		ExtractMetadata:     o.ExtractMetadata,
		SimplifyNavigation:  o.SimplifyNavigation,
		PreserveTables:      o.PreserveTables,
		BaseURL:             o.BaseURL,
		ResolveRelativeURLs: o.ResolveRelativeURLs,
		TimeoutMillis:       o.TimeoutMillis,
		GenerateETag:        o.GenerateETag,
		EstimateTokens:      o.EstimateTokens,
		DepthCeiling:        o.DepthCeiling,
		CharsPerToken:       o.CharsPerToken,
	}
}

// Result mirrors the FFI-visible conversion result (§6): on success
// ErrorCode is CodeSuccess and ErrorMessage is empty; on failure Markdown
// is empty, ETag is empty, TokenEstimate is zero, and ErrorCode/
// ErrorMessage describe the failure. Never both populated at once.
type Result struct {
	Markdown      string
	ETag          string
	TokenEstimate uint32
	ErrorCode     convert.Code
	ErrorMessage  string
}

// Handle is the FFI-visible opaque converter handle. It carries no mutable
// state of its own (the underlying pipeline is stateless per call) but
// exists so the boundary's lifecycle (new/use/free) matches the original's
// MarkdownConverterHandle shape. Not safe for concurrent use by multiple
// goroutines against the same Handle value, matching the original's
// documented thread-safety contract; independent Handles may run
// concurrently.
type Handle struct {
	mu     sync.Mutex
	closed bool
}

// NewHandle allocates a converter handle.
func NewHandle() *Handle {
	return &Handle{}
}

// Convert runs a conversion through h. Panics anywhere in the pipeline are
// recovered and reported as a CodeInternal Result, mirroring the original's
// catch_unwind boundary; a panic must never cross into caller code. A nil
// html slice stands for a null input pointer and is reported as
// CodeInvalidInput; a non-nil empty slice converts to empty Markdown.
func (h *Handle) Convert(html []byte, contentType string, opts Options) (result Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return Result{ErrorCode: convert.CodeInvalidInput, ErrorMessage: "handle is freed"}
	}
	if html == nil {
		return Result{ErrorCode: convert.CodeInvalidInput, ErrorMessage: "html input is nil"}
	}

	defer func() {
		if r := recover(); r != nil {
			result = Result{ErrorCode: convert.CodeInternal, ErrorMessage: fmt.Sprintf("panic during conversion: %v", r)}
		}
	}()

	res := convert.Convert(html, contentType, opts.toInternal())
	if res.Error != nil {
		return Result{ErrorCode: res.Error.Code, ErrorMessage: res.Error.Message}
	}
	return Result{
		Markdown:      res.Markdown,
		ETag:          res.ETag,
		TokenEstimate: res.TokenEstimate,
		ErrorCode:     convert.CodeSuccess,
	}
}

// Free releases h. Idempotent: freeing an already-freed handle is a no-op,
// matching the original's idempotent markdown_result_free/
// markdown_converter_free contract.
func (h *Handle) Free() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}
