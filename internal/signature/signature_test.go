package signature

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/formadoc/FormaSign/internal/cache"
	filestorage "github.com/formadoc/FormaSign/internal/file_storage"
	"github.com/formadoc/FormaSign/internal/model"
	"github.com/formadoc/FormaSign/internal/repository"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeStore is an in-memory ObjectStore. Search mirrors the real storage
// adapter: prefix match, newest first, limit applied after sorting.
type fakeStore struct {
	mu        sync.Mutex
	objects   map[string]map[string][]byte
	modified  map[string]map[string]time.Time
	clock     time.Time
	uploadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:  map[string]map[string][]byte{},
		modified: map[string]map[string]time.Time{},
		clock:    time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) Upload(ctx context.Context, bucket string, object string, data []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.objects[bucket] == nil {
		f.objects[bucket] = map[string][]byte{}
		f.modified[bucket] = map[string]time.Time{}
	}

	f.clock = f.clock.Add(time.Second)
	f.objects[bucket][object] = data
	f.modified[bucket][object] = f.clock

	return nil
}

func (f *fakeStore) Search(ctx context.Context, bucket string, prefix string, limit int) ([]filestorage.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []filestorage.StoredObject
	for key := range f.objects[bucket] {
		if strings.HasPrefix(key, prefix) {
			out = append(out, filestorage.StoredObject{Key: key, LastModified: f.modified[bucket][key]})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastModified.After(out[j].LastModified)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (f *fakeStore) PublicURL(bucket string, object string) string {
	return "https://cdn.test/" + bucket + "/" + object
}

func (f *fakeStore) Exists(ctx context.Context, bucket string, object string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.objects[bucket][object]
	return ok, nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

type testEngine struct {
	repo      *repository.Repository
	store     *fakeStore
	cache     *cache.URLCache
	mirror    *cache.Mirror
	clock     *fakeClock
	resolver  *Resolver
	persister *Persister
	sharer    *Sharer
	buckets   Buckets
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.SignatureRecord{},
		&model.Document{},
		&model.TrainingParticipant{},
		&model.OrganizationSetting{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	logger := zap.NewNop().Sugar()
	repo := repository.NewRepository(db, logger)

	mirror, err := cache.OpenMirror(filepath.Join(t.TempDir(), "mirror.db"), logger)
	if err != nil {
		t.Fatalf("failed to open mirror: %v", err)
	}

	clock := &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	urlCache := cache.NewURLCache(clock.now)

	store := newFakeStore()
	buckets := Buckets{Signatures: "signatures", LegacySeals: "organization-seals"}

	resolver := NewResolver(repo, store, buckets, urlCache, mirror, logger)

	return &testEngine{
		repo:      repo,
		store:     store,
		cache:     urlCache,
		mirror:    mirror,
		clock:     clock,
		resolver:  resolver,
		persister: NewPersister(repo, store, buckets, urlCache, mirror, logger),
		sharer:    NewSharer(resolver, repo, logger),
		buckets:   buckets,
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}

	return buf.Bytes()
}

func strPtr(s string) *string {
	return &s
}
