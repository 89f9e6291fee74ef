package signature

import (
	"context"
	"errors"

	"github.com/formadoc/FormaSign/internal/cache"
	"github.com/formadoc/FormaSign/internal/repository"
	"github.com/formadoc/FormaSign/internal/util"
	"go.uber.org/zap"
)

// Resolver runs the multi-source lookup chain: structured table, legacy
// table, storage pattern search, then the organization-settings fallback.
// The chain is a historical-migration artifact; the three stores were never
// backfilled into one, so resolution stays backward-compatible with all of
// them. First hit wins.
type Resolver struct {
	sources []Source
	cache   *cache.URLCache
	mirror  *cache.Mirror
	logger  *zap.SugaredLogger
}

func NewResolver(repo *repository.Repository, store ObjectStore, buckets Buckets, urlCache *cache.URLCache, mirror *cache.Mirror, logger *zap.SugaredLogger) *Resolver {
	return &Resolver{
		sources: []Source{
			structuredSource{records: repo.SignatureRecord},
			legacySource{documents: repo.Document},
			storageSource{store: store, buckets: buckets},
			settingsSource{settings: repo.Setting, store: store, buckets: buckets},
		},
		cache:  urlCache,
		mirror: mirror,
		logger: logger,
	}
}

func (r *Resolver) validate(c Criteria) error {
	if !c.SignatureType.Valid() {
		return &ValidationError{Field: "signatureType", Reason: "unknown signature type"}
	}
	if !c.DocumentType.Valid() {
		return &ValidationError{Field: "documentType", Reason: "unknown document type"}
	}

	return nil
}

// Find resolves the best URL for the criteria, or a found:false result when
// every source misses. A miss is an expected outcome, not an error; callers
// render an unsigned placeholder.
func (r *Resolver) Find(ctx context.Context, c Criteria) (Result, error) {
	if err := r.validate(c); err != nil {
		return notFound(), err
	}

	key := c.CacheKey()
	if entry := r.cache.Get(key); entry != nil && entry.Status == cache.StatusSuccess {
		return Result{
			Found:    true,
			ID:       entry.ID,
			URL:      entry.URL,
			Filename: filenameFromURL(entry.URL),
			Source:   SourceName(entry.Source),
			Metadata: entry.Metadata,
		}, nil
	}

	var sourceErrs []error
	for _, source := range r.sources {
		result, err := source.FindIn(ctx, c)
		if err != nil {
			// A broken source must not take the later fallbacks down with it;
			// legacy deployments are missing some of the stores entirely.
			r.logger.Warnf("signature source %s failed for %s: %v", source.Name(), key, err)
			sourceErrs = append(sourceErrs, err)
			continue
		}
		if result == nil {
			continue
		}

		r.writeThrough(key, c, *result)
		return *result, nil
	}

	if len(sourceErrs) > 0 {
		return notFound(), errors.Join(sourceErrs...)
	}

	return notFound(), nil
}

// writeThrough refreshes the in-memory cache and, when the lookup is scoped
// to a participant, the durable mirror.
func (r *Resolver) writeThrough(key string, c Criteria, result Result) {
	r.cache.Put(key, cache.Entry{
		URL:      util.StripCacheBusting(result.URL),
		Status:   cache.StatusSuccess,
		Source:   string(result.Source),
		ID:       result.ID,
		Metadata: result.Metadata,
	})

	if c.UserID != "" {
		if err := r.mirror.Store(c.TrainingID, c.UserID, c.SignatureType, result.URL); err != nil {
			r.logger.Debugf("mirror write failed for %s: %v", key, err)
		}
	}
}
