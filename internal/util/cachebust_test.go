package util

import (
	"net/url"
	"strings"
	"testing"
)

func TestWrapWithCacheBusting(t *testing.T) {
	wrapped := WrapWithCacheBusting("https://cdn.example.com/signatures/sig.png")

	u, err := url.Parse(wrapped)
	if err != nil {
		t.Fatalf("wrapped URL does not parse: %v", err)
	}

	if u.Query().Get("t") == "" {
		t.Errorf("expected a t parameter, got %s", wrapped)
	}

	if !strings.HasPrefix(wrapped, "https://cdn.example.com/signatures/sig.png?") {
		t.Errorf("base URL changed: %s", wrapped)
	}
}

func TestWrapWithCacheBustingIdempotentBase(t *testing.T) {
	base := "https://cdn.example.com/signatures/sig.png?forcereload=1"

	once := WrapWithCacheBusting(base)
	twice := WrapWithCacheBusting(once)

	if StripCacheBusting(once) != StripCacheBusting(twice) {
		t.Errorf("stripped base differs: %s vs %s", StripCacheBusting(once), StripCacheBusting(twice))
	}

	if strings.Contains(twice, "forcereload") {
		t.Errorf("legacy parameter survived wrapping: %s", twice)
	}

	// No stacked t parameters.
	u, _ := url.Parse(twice)
	if len(u.Query()["t"]) != 1 {
		t.Errorf("expected exactly one t parameter, got %v", u.Query()["t"])
	}
}

func TestStripCacheBustingKeepsOtherParams(t *testing.T) {
	stripped := StripCacheBusting("https://cdn.example.com/sig.png?token=abc&t=123")

	u, _ := url.Parse(stripped)
	if u.Query().Get("token") != "abc" {
		t.Errorf("unrelated parameter lost: %s", stripped)
	}
	if u.Query().Get("t") != "" {
		t.Errorf("t parameter not stripped: %s", stripped)
	}
}
