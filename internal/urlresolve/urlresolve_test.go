package urlresolve

import "testing"

func TestResolveAbsolutePassesThrough(t *testing.T) {
	got := Resolve("https://other.com/x", "https://example.com/a/b", true)
	if got != "https://other.com/x" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveProtocolRelativePassesThrough(t *testing.T) {
	got := Resolve("//cdn.example.com/x.png", "https://example.com/a/b", true)
	if got != "//cdn.example.com/x.png" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveEmptyPassesThrough(t *testing.T) {
	if got := Resolve("", "https://example.com", true); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveDisabledPassesThrough(t *testing.T) {
	got := Resolve("/path", "https://example.com/a/b", false)
	if got != "/path" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveNoBaseURLPassesThrough(t *testing.T) {
	got := Resolve("/path", "", true)
	if got != "/path" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveMalformedBasePassesThrough(t *testing.T) {
	got := Resolve("/path", "not a url", true)
	if got != "/path" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveAbsolutePath(t *testing.T) {
	got := Resolve("/images/a.png", "https://example.com/blog/post.html", true)
	if got != "https://example.com/images/a.png" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveRelativePath(t *testing.T) {
	got := Resolve("a.png", "https://example.com/blog/post.html", true)
	if got != "https://example.com/blog/a.png" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveRelativePathNoBasePath(t *testing.T) {
	got := Resolve("a.png", "https://example.com", true)
	if got != "https://example.com/a.png" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveRelativePathDotSlash(t *testing.T) {
	got := Resolve("./a.png", "https://example.com/blog/post.html", true)
	if got != "https://example.com/blog/./a.png" {
		t.Fatalf("got %q", got)
	}
}
