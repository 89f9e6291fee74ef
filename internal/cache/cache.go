package cache

import (
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/formadoc/FormaSign/internal/constant"
	gocache "github.com/patrickmn/go-cache"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entry is the ephemeral projection of a resolved signature record: the URL
// plus the record identity and metadata, so a cache-served result carries the
// same provenance as a freshly resolved one.
type Entry struct {
	URL         string
	Status      Status
	Source      string
	ID          string
	Metadata    map[string]any
	Timestamp   time.Time
	Retries     int
	LastRetryAt time.Time
}

// URLCache holds resolved signature/seal URLs keyed by lookup parameters.
// Entries older than the validity window count as misses, and errored
// entries are retried no more often than a minimum interval (shorter for
// organization seals, which are frequently re-uploaded).
//
// The backing store evicts on its own schedule purely to bound memory; the
// 30s freshness window is checked against the injected clock so it stays
// testable. Reads and writes are mutex-guarded: resolution chains run on
// separate goroutines.
type URLCache struct {
	mu      sync.Mutex
	entries *gocache.Cache
	now     func() time.Time
}

// Pass nil to use the wall clock. Tests inject their own.
func NewURLCache(now func() time.Time) *URLCache {
	if now == nil {
		now = time.Now
	}

	return &URLCache{
		entries: gocache.New(5*time.Minute, 10*time.Minute),
		now:     now,
	}
}

// Key builds the lookup key for one (type, documentType, training, scope)
// tuple. Global types share the "global" segment; a company-scoped lookup
// without a user is keyed by the company, so two companies in one training
// never alias onto the same entry.
func Key(st constant.SignatureType, dt constant.DocumentType, trainingId string, userId string, companyId string) string {
	scope := userId
	if st.IsGlobal() {
		scope = "global"
	} else if scope == "" {
		if companyId != "" {
			scope = "company-" + companyId
		} else {
			scope = "global"
		}
	}

	return fmt.Sprintf("%s:%s:%s:%s", st, dt, trainingId, scope)
}

func isOrganizationSealKey(key string) bool {
	return strings.HasPrefix(key, string(constant.SignatureTypeOrganizationSeal)+":")
}

// Get returns the cached entry, or nil when absent or stale.
func (c *URLCache) Get(key string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(key)
	if !ok {
		return nil
	}

	entry := v.(*Entry)
	if c.now().Sub(entry.Timestamp) > constant.SIGNATURE_CACHE_VALIDITY {
		return nil
	}

	clone := *entry
	clone.Metadata = maps.Clone(entry.Metadata)
	return &clone
}

// Put stores the entry, stamped with the current clock. Retry bookkeeping
// carries over when an errored entry is re-put so the throttle cannot be
// reset by a redundant error write.
func (c *URLCache) Put(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Timestamp = c.now()
	entry.Retries = 0
	entry.LastRetryAt = time.Time{}

	if v, ok := c.entries.Get(key); ok {
		prev := v.(*Entry)
		if entry.Status == StatusError {
			entry.Retries = prev.Retries
			entry.LastRetryAt = prev.LastRetryAt
		}
	}

	c.entries.SetDefault(key, &entry)
}

// CanRetry reports whether an errored entry is past its minimum inter-retry
// interval. Unknown keys and non-errored entries can always be (re)tried.
func (c *URLCache) CanRetry(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(key)
	if !ok {
		return true
	}

	entry := v.(*Entry)
	if entry.Status != StatusError {
		return true
	}

	interval := constant.RETRY_MIN_INTERVAL
	if isOrganizationSealKey(key) {
		interval = constant.SEAL_RETRY_MIN_INTERVAL
	}

	since := entry.Timestamp
	if !entry.LastRetryAt.IsZero() {
		since = entry.LastRetryAt
	}

	return c.now().Sub(since) >= interval
}

func (c *URLCache) MarkRetry(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(key)
	if !ok {
		return
	}

	entry := v.(*Entry)
	entry.Retries++
	entry.LastRetryAt = c.now()
	c.entries.SetDefault(key, entry)
}
