package util

import (
	"fmt"
	"net/url"
	"time"
)

// Query parameters used to defeat HTTP caches. Both are stripped before a new
// one is applied so repeated wrapping never stacks parameters.
const (
	cacheBustParam       = "t"
	legacyCacheBustParam = "forcereload"
)

// WrapWithCacheBusting appends a changing query parameter so browsers refetch
// a resource whose content may have changed at the same path. PDF export must
// not use this; exported documents need a stable URL.
func WrapWithCacheBusting(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()
	q.Del(cacheBustParam)
	q.Del(legacyCacheBustParam)
	q.Set(cacheBustParam, fmt.Sprintf("%d", time.Now().UnixNano()))
	u.RawQuery = q.Encode()

	return u.String()
}

// StripCacheBusting returns the base URL with cache-busting parameters
// removed. Cache entries are keyed by this normalized form.
func StripCacheBusting(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()
	q.Del(cacheBustParam)
	q.Del(legacyCacheBustParam)
	u.RawQuery = q.Encode()

	return u.String()
}
