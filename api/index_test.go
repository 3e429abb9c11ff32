package handler

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func withMockClient(t *testing.T, rt roundTripFunc) {
	t.Helper()
	original := httpClient
	httpClient = &http.Client{Transport: rt}
	t.Cleanup(func() { httpClient = original })
}

func htmlResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/html"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestHandlerRejectsInvalidFormat(t *testing.T) {
	withMockClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("fetch should not happen for an invalid format")
		return nil, nil
	})

	req := httptest.NewRequest("GET", "/?url=http://example.com&format=bogus", nil)
	w := httptest.NewRecorder()
	Handler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandlerSanitizesScriptsAndDangerousURLs(t *testing.T) {
	maliciousHTML := `<html><head><title>Hacked</title></head><body>
		<p>Safe content</p>
		<img src=x onerror="alert('XSS')">
		<script>alert('Script XSS')</script>
		<a href="javascript:alert(1)">Click me</a>
	</body></html>`

	withMockClient(t, func(req *http.Request) (*http.Response, error) {
		return htmlResponse(maliciousHTML), nil
	})

	req := httptest.NewRequest("GET", "/?url=http://example.com&format=html", nil)
	w := httptest.NewRecorder()
	Handler(w, req)

	out := w.Body.String()
	for _, vector := range []string{"<script>", "onerror=", "javascript:"} {
		if strings.Contains(out, vector) {
			t.Errorf("VULNERABLE: output contains %q:\n%s", vector, out)
		}
	}
	if !strings.Contains(out, "Safe content") {
		t.Errorf("expected safe content preserved, got %s", out)
	}
}

func TestHandlerMarkdownFormatDropsDangerousLinks(t *testing.T) {
	maliciousHTML := `<html><head><title>T</title></head><body>
		<p>Safe paragraph</p>
		<a href="javascript:alert(1)">Click</a>
	</body></html>`

	withMockClient(t, func(req *http.Request) (*http.Response, error) {
		return htmlResponse(maliciousHTML), nil
	})

	req := httptest.NewRequest("GET", "/?url=http://example.com&format=md", nil)
	w := httptest.NewRecorder()
	Handler(w, req)

	out := w.Body.String()
	if strings.Contains(out, "javascript:") {
		t.Errorf("expected javascript: URL stripped from markdown output, got %q", out)
	}
	if !strings.Contains(out, "Safe paragraph") {
		t.Errorf("expected paragraph text preserved, got %q", out)
	}
}

func TestHandlerLogsEscapeInjectionAttempts(t *testing.T) {
	withMockClient(t, func(req *http.Request) (*http.Response, error) {
		return htmlResponse("<html><body><p>ok</p></body></html>"), nil
	})

	var logBuf bytes.Buffer
	originalOutput := log.Writer()
	log.SetOutput(&logBuf)
	defer log.SetOutput(originalOutput)

	req := httptest.NewRequest("GET", "/?url=http://example.com/foo%0abar&format=html", nil)
	w := httptest.NewRecorder()
	Handler(w, req)

	if !strings.Contains(logBuf.String(), `foo\nbar`) {
		t.Errorf("expected escaped newline in log output, got %s", logBuf.String())
	}
}

func TestHandlerRejectsPrivateNetworkTargets(t *testing.T) {
	req := httptest.NewRequest("GET", "/?url=http://127.0.0.1/secret&format=html", nil)
	w := httptest.NewRecorder()
	Handler(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a private-network target, got %d", w.Code)
	}
}
