package filestorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/formadoc/FormaSign/internal/config"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StoredObject is the slice of object metadata the resolution engine needs:
// the key for URL building and the creation time for recency tie-breaks.
type StoredObject struct {
	Key          string
	LastModified time.Time
}

// ObjectStorage wraps the minio client with the operations the signature
// engines consume: upload (overwrite allowed), prefix search sorted newest
// first, public URL building, and an existence probe.
type ObjectStorage struct {
	client    *minio.Client
	publicURL string
	logger    *zap.SugaredLogger
}

func NewObjectStorage(client *minio.Client, cfg *config.MinioConfig, logger *zap.SugaredLogger) *ObjectStorage {
	publicURL := cfg.PUBLIC_URL
	if publicURL == "" {
		scheme := "http"
		if cfg.USE_SSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.ENDPOINT)
	}

	return &ObjectStorage{
		client:    client,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func (os *ObjectStorage) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := os.client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}

	if !exists {
		if err := os.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}

	return nil
}

func (os *ObjectStorage) Upload(ctx context.Context, bucket string, object string, data []byte, contentType string) error {
	if err := os.EnsureBucket(ctx, bucket); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	_, err := os.client.PutObject(
		ctx,
		bucket,
		object,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to upload object to bucket %s: %w", bucket, err)
	}

	return nil
}

// Search lists objects under a prefix, newest first. Minio lists in lexical
// key order, so results are re-sorted by creation time before the limit is
// applied.
func (os *ObjectStorage) Search(ctx context.Context, bucket string, prefix string, limit int) ([]StoredObject, error) {
	exists, err := os.client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	var objects []StoredObject
	for info := range os.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, info.Err
		}

		objects = append(objects, StoredObject{Key: info.Key, LastModified: info.LastModified})
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	if limit > 0 && len(objects) > limit {
		objects = objects[:limit]
	}

	return objects, nil
}

func (os *ObjectStorage) PublicURL(bucket string, object string) string {
	return fmt.Sprintf("%s/%s/%s", os.publicURL, bucket, object)
}

func (os *ObjectStorage) Exists(ctx context.Context, bucket string, object string) (bool, error) {
	_, err := os.client.StatObject(ctx, bucket, object, minio.StatObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && (resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket") {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
