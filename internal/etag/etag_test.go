package etag

import (
	"strings"
	"testing"
)

func TestGenerateShape(t *testing.T) {
	got := Generate("# Hello\n")
	if len(got) != 34 {
		t.Fatalf("expected 34 bytes, got %d (%q)", len(got), got)
	}
	if got[0] != '"' || got[33] != '"' {
		t.Fatalf("expected quoted wrapper, got %q", got)
	}
	hex := got[1:33]
	if strings.ToLower(hex) != hex {
		t.Fatalf("expected lowercase hex, got %q", hex)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate("same content\n")
	b := Generate("same content\n")
	if a != b {
		t.Fatalf("expected identical etags for identical input, got %q vs %q", a, b)
	}
}

func TestGenerateDiffersForDifferentContent(t *testing.T) {
	a := Generate("content A\n")
	b := Generate("content B\n")
	if a == b {
		t.Fatal("expected different etags for different content")
	}
}
