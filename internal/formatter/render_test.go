package formatter

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/readeck/go-readability/v2"
)

func TestRenderMarkdownUsesConvertPipeline(t *testing.T) {
	buf := bytes.NewBufferString(`<h1>Title</h1><p>Hello <a href="javascript:alert(1)">click</a></p>`)
	w := httptest.NewRecorder()

	if err := Render(w, readability.Article{}, buf, "md"); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := w.Body.String()
	if !strings.Contains(out, "# Title") {
		t.Errorf("expected heading in markdown output, got %q", out)
	}
	if strings.Contains(out, "javascript:") {
		t.Errorf("expected dangerous URL stripped, got %q", out)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/markdown" {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestRenderUnknownFormatErrors(t *testing.T) {
	buf := bytes.NewBufferString("<p>x</p>")
	w := httptest.NewRecorder()
	if err := Render(w, readability.Article{}, buf, "bogus"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRenderTextWritesRawBuffer(t *testing.T) {
	buf := bytes.NewBufferString("<p>raw</p>")
	w := httptest.NewRecorder()
	if err := Render(w, readability.Article{}, buf, "text"); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if w.Body.String() != "<p>raw</p>" {
		t.Errorf("expected raw passthrough, got %q", w.Body.String())
	}
}
