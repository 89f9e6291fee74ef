package repository

import (
	"testing"
	"time"

	"github.com/formadoc/FormaSign/internal/model"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Repositories are exercised against an in-memory sqlite database; the
// queries stay within the dialect-neutral subset of gorm.
func newTestRepository(t *testing.T) *Repository {
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

	return NewRepository(db, zap.NewNop().Sugar())
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func strPtr(s string) *string {
	return &s
}
