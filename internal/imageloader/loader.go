package imageloader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/formadoc/FormaSign/internal/cache"
	"github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/util"
	"go.uber.org/zap"
)

type State string

const (
	// No source set; render the unsigned placeholder, not an error.
	StateUnsigned State = "unsigned"
	StateLoading  State = "loading"
	StateSuccess  State = "success"
	StateError    State = "error"
)

// Prober checks whether a resolved URL currently answers. A freshly uploaded
// object may not: storage propagation lag makes "record exists" and "URL is
// fetchable" independent facts.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

type HTTPProber struct {
	Client *http.Client
}

func (p HTTPProber) Probe(ctx context.Context, url string) error {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("probe of %s returned status %d", url, resp.StatusCode)
	}

	return nil
}

// Config mirrors the consumer-facing adapter props.
type Config struct {
	IsSignature        bool
	IsOrganizationSeal bool

	// PDF export must reference a stable, cacheable resource; cache-busting
	// is never applied in this mode.
	PDFMode bool
}

// Loader is the loading/error/success state machine in front of one image
// slot. Source changes are debounced, accepted URLs get a cache-busting
// parameter (outside PDF mode), and load errors trigger bounded retries
// throttled through the shared URL cache.
type Loader struct {
	cfg      Config
	cacheKey string
	cache    *cache.URLCache
	prober   Prober
	debounce *Debouncer
	logger   *zap.SugaredLogger

	// For unit test
	wait func(ctx context.Context, d time.Duration) error

	src        string
	state      State
	maxRetries int
}

func NewLoader(cfg Config, cacheKey string, urlCache *cache.URLCache, prober Prober, logger *zap.SugaredLogger) *Loader {
	debounceInterval := constant.DEBOUNCE_INTERVAL
	if cfg.IsOrganizationSeal {
		debounceInterval = constant.SEAL_DEBOUNCE_INTERVAL
	}

	return &Loader{
		cfg:        cfg,
		cacheKey:   cacheKey,
		cache:      urlCache,
		prober:     prober,
		debounce:   NewDebouncer(debounceInterval, nil),
		logger:     logger,
		wait:       defaultWait,
		state:      StateUnsigned,
		maxRetries: constant.MAX_LOAD_RETRIES,
	}
}

func defaultWait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// SetSource accepts a new URL, or ignores it when it arrives inside the
// debounce window (the previous value is kept). An empty URL resets to the
// unsigned placeholder state.
func (l *Loader) SetSource(raw string) bool {
	if raw == "" {
		l.src = ""
		l.state = StateUnsigned
		return true
	}

	if !l.debounce.Allow() {
		return false
	}

	if l.cfg.PDFMode {
		l.src = raw
	} else {
		l.src = util.WrapWithCacheBusting(raw)
	}
	l.state = StateLoading

	return true
}

func (l *Loader) Source() string {
	return l.src
}

func (l *Loader) State() State {
	return l.state
}

// Load probes the current source and settles the state machine, retrying
// transient failures up to the bounded budget. Retry pacing honors the
// per-entry minimum interval from the shared cache.
func (l *Loader) Load(ctx context.Context) State {
	if l.src == "" {
		l.state = StateUnsigned
		return l.state
	}

	l.state = StateLoading

	retryInterval := constant.RETRY_MIN_INTERVAL
	if l.cfg.IsOrganizationSeal {
		retryInterval = constant.SEAL_RETRY_MIN_INTERVAL
	}

	for attempt := 0; ; attempt++ {
		err := l.prober.Probe(ctx, l.src)
		if err == nil {
			l.state = StateSuccess
			l.cache.Put(l.cacheKey, cache.Entry{URL: util.StripCacheBusting(l.src), Status: cache.StatusSuccess, Source: "probe"})
			return l.state
		}

		l.logger.Debugf("image probe failed for %s (attempt %d): %v", l.cacheKey, attempt+1, err)
		l.cache.Put(l.cacheKey, cache.Entry{URL: util.StripCacheBusting(l.src), Status: cache.StatusError})

		if attempt >= l.maxRetries {
			break
		}

		if err := l.wait(ctx, retryInterval); err != nil {
			break
		}

		if !l.cache.CanRetry(l.cacheKey) {
			break
		}
		l.cache.MarkRetry(l.cacheKey)
	}

	l.state = StateError
	return l.state
}
