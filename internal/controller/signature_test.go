package controller

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	appcontext "github.com/formadoc/FormaSign/internal/app_context"
	"github.com/formadoc/FormaSign/internal/auth"
	"github.com/formadoc/FormaSign/internal/cache"
	"github.com/formadoc/FormaSign/internal/config"
	filestorage "github.com/formadoc/FormaSign/internal/file_storage"
	"github.com/formadoc/FormaSign/internal/model"
	"github.com/formadoc/FormaSign/internal/repository"
	"github.com/formadoc/FormaSign/internal/signature"
	"github.com/formadoc/FormaSign/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// memStore is the minimal in-memory object store the handlers need.
type memStore struct {
	objects map[string][]byte
}

func (m *memStore) Upload(ctx context.Context, bucket string, object string, data []byte, contentType string) error {
	m.objects[bucket+"/"+object] = data
	return nil
}

func (m *memStore) Search(ctx context.Context, bucket string, prefix string, limit int) ([]filestorage.StoredObject, error) {
	return nil, nil
}

func (m *memStore) PublicURL(bucket string, object string) string {
	return "https://cdn.test/" + bucket + "/" + object
}

func (m *memStore) Exists(ctx context.Context, bucket string, object string) (bool, error) {
	_, ok := m.objects[bucket+"/"+object]
	return ok, nil
}

func newTestApp(t *testing.T) *appcontext.Application {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strNotEmpty", util.StrNotEmpty)
	}

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

	urlCache := cache.NewURLCache(nil)
	store := &memStore{objects: map[string][]byte{}}
	buckets := signature.Buckets{Signatures: "signatures", LegacySeals: "organization-seals"}

	resolver := signature.NewResolver(repo, store, buckets, urlCache, mirror, logger)

	cfg := config.Config{ENV: "test"}

	return &appcontext.Application{
		Config:     &cfg,
		Logger:     logger,
		Repository: repo,
		Cache:      urlCache,
		Mirror:     mirror,
		Resolver:   resolver,
		Persister:  signature.NewPersister(repo, store, buckets, urlCache, mirror, logger),
		Sharer:     signature.NewSharer(resolver, repo, logger),
	}
}

func testSignatureDataURL(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.Black)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestPersistDefaultsUserToSession(t *testing.T) {
	app := newTestApp(t)
	c := NewController(app)

	body, err := json.Marshal(gin.H{
		"signatureType": "participant",
		"documentType":  "convention",
		"image":         testSignatureDataURL(t),
	})
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")
	ctx.Params = gin.Params{{Key: "trainingId", Value: "t1"}}
	ctx.Set("user", auth.JWTPayload{ID: "u-session", Email: "participant@example.com"})

	c.Signature.Persist(ctx)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var record model.SignatureRecord
	if err := app.Repository.DB.First(&record).Error; err != nil {
		t.Fatalf("failed to load record: %v", err)
	}
	if record.UserID == nil || *record.UserID != "u-session" {
		t.Errorf("record user = %v, want session user", record.UserID)
	}
}

func TestPersistKeepsExplicitUser(t *testing.T) {
	app := newTestApp(t)
	c := NewController(app)

	body, err := json.Marshal(gin.H{
		"signatureType": "participant",
		"documentType":  "convention",
		"userId":        "u-explicit",
		"image":         testSignatureDataURL(t),
	})
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")
	ctx.Params = gin.Params{{Key: "trainingId", Value: "t1"}}
	ctx.Set("user", auth.JWTPayload{ID: "u-session"})

	c.Signature.Persist(ctx)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var record model.SignatureRecord
	if err := app.Repository.DB.First(&record).Error; err != nil {
		t.Fatalf("failed to load record: %v", err)
	}
	if record.UserID == nil || *record.UserID != "u-explicit" {
		t.Errorf("record user = %v, want explicit body user", record.UserID)
	}
}
