/**
 * Package handler implements the serverless function entrypoint: URL
 * validation, fetching, readability extraction, and output formatting for
 * the reader/LLM-ingestion pipeline.
 *
 * Request handling, transport, article fetching and output formatting each
 * live in their own internal package; this file wires them together and
 * owns nothing but the HTTP plumbing.
 */
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/lucasew/mdconvert/internal/article"
	"github.com/lucasew/mdconvert/internal/formatter"
	"github.com/lucasew/mdconvert/internal/request"
	"github.com/lucasew/mdconvert/internal/transport"
)

const handlerTimeout = 5 * time.Second

var httpClient = transport.NewSafeClient()

/**
 * securityHeadersMiddleware applies a baseline of security headers to every response.
 */
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://bookmarklet-theme.vercel.app; style-src 'self' https://unpkg.com;")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
		next.ServeHTTP(w, r)
	})
}

/**
 * Handler is the function entrypoint. The platform rewrites the incoming
 * path to this handler for every matching route, so request signals (the
 * 'url'/'format' query parameters, Accept header, User-Agent) drive
 * behavior rather than the request path itself.
 */
func Handler(w http.ResponseWriter, r *http.Request) {
	securityHeadersMiddleware(http.HandlerFunc(handle)).ServeHTTP(w, r)
}

/**
 * handle implements the core request processing pipeline:
 * reconstruct target URL -> determine format -> validate URL -> fetch and
 * extract -> render article content -> format response.
 */
func handle(w http.ResponseWriter, r *http.Request) {
	rawLink := request.ReconstructURL(r)

	format := request.GetFormat(r)
	log.Printf("request: %q %q", format, rawLink)

	link, err := request.NormalizeURL(rawLink)
	if err != nil {
		log.Printf("error normalizing URL %q: %v", rawLink, err)
		writeError(w, http.StatusBadRequest, "Invalid URL provided")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	art, err := article.Fetch(ctx, link, r, httpClient)
	if err != nil {
		log.Printf("error fetching or parsing URL %q: %v", rawLink, err)
		writeError(w, http.StatusUnprocessableEntity, "Failed to process URL")
		return
	}

	contentBuf := &bytes.Buffer{}
	if err := art.RenderHTML(contentBuf); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render article content")
		return
	}

	if err := formatter.Render(w, art, contentBuf, format); err != nil {
		writeError(w, http.StatusBadRequest, "invalid format")
		return
	}
}

/**
 * writeError writes a structured JSON error response.
 */
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Printf("error writing error response: %v", err)
	}
}
