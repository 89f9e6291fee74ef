package signature

import (
	"context"

	filestorage "github.com/formadoc/FormaSign/internal/file_storage"
)

// ObjectStore is the slice of object storage the engines consume. Implemented
// by filestorage.ObjectStorage; tests use an in-memory fake.
type ObjectStore interface {
	Upload(ctx context.Context, bucket string, object string, data []byte, contentType string) error
	Search(ctx context.Context, bucket string, prefix string, limit int) ([]filestorage.StoredObject, error)
	PublicURL(bucket string, object string) string
	Exists(ctx context.Context, bucket string, object string) (bool, error)
}

// Buckets names the primary signature bucket and the legacy bucket that
// pre-migration organization seals still live in.
type Buckets struct {
	Signatures  string
	LegacySeals string
}
