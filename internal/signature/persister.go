package signature

import (
	"context"

	"github.com/formadoc/FormaSign/internal/cache"
	"github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/model"
	"github.com/formadoc/FormaSign/internal/repository"
	"github.com/formadoc/FormaSign/internal/util"
	"go.uber.org/zap"
)

// SaveOptions identifies the signature being persisted. Metadata is carried
// onto the record as-is (companyId, sharing provenance, ...).
type SaveOptions struct {
	SignatureType constant.SignatureType
	DocumentType  constant.DocumentType
	TrainingID    string
	UserID        string
	Metadata      map[string]any
}

// Persister validates, normalizes, uploads, and records a new signature or
// seal. New writes always land in the structured path; the legacy table and
// raw storage naming are never written.
type Persister struct {
	records *repository.SignatureRecordRepository
	store   ObjectStore
	buckets Buckets
	cache   *cache.URLCache
	mirror  *cache.Mirror
	logger  *zap.SugaredLogger
}

func NewPersister(repo *repository.Repository, store ObjectStore, buckets Buckets, urlCache *cache.URLCache, mirror *cache.Mirror, logger *zap.SugaredLogger) *Persister {
	return &Persister{
		records: repo.SignatureRecord,
		store:   store,
		buckets: buckets,
		cache:   urlCache,
		mirror:  mirror,
		logger:  logger,
	}
}

func (p *Persister) validate(opts SaveOptions) error {
	if !opts.SignatureType.Valid() {
		return &ValidationError{Field: "signatureType", Reason: "unknown signature type"}
	}
	if !opts.DocumentType.Valid() {
		return &ValidationError{Field: "documentType", Reason: "unknown document type"}
	}

	// Organization seals are installation-level and may exist outside any
	// training; everything else needs its training context.
	if opts.TrainingID == "" && opts.SignatureType != constant.SignatureTypeOrganizationSeal {
		return &ValidationError{Field: "trainingId", Reason: "trainingId is required"}
	}

	if !opts.SignatureType.IsGlobal() && opts.UserID == "" {
		return &ValidationError{Field: "userId", Reason: "userId is required for non-global signature types"}
	}

	return nil
}

// SaveDataURL accepts a base64 image data URL, the form signature pads hand
// over.
func (p *Persister) SaveDataURL(ctx context.Context, dataURL string, opts SaveOptions) (Result, error) {
	if err := p.validate(opts); err != nil {
		return notFound(), err
	}

	data, err := util.DecodeDataURL(dataURL)
	if err != nil {
		return notFound(), &ValidationError{Field: "image", Reason: err.Error()}
	}

	return p.Save(ctx, data, opts)
}

// Save uploads the image and inserts the structured record. Failures are
// always surfaced: UploadError before anything was stored, PersistError when
// the record insert fails after a successful upload (the orphaned URL rides
// along for manual reconciliation).
func (p *Persister) Save(ctx context.Context, imageData []byte, opts SaveOptions) (Result, error) {
	if err := p.validate(opts); err != nil {
		return notFound(), err
	}

	normalized, err := util.NormalizeSignaturePNG(imageData)
	if err != nil {
		return notFound(), &ValidationError{Field: "image", Reason: err.Error()}
	}

	// Global types are never keyed by the uploading user, even when a caller
	// id was supplied.
	userId := opts.UserID
	if opts.SignatureType.IsGlobal() {
		userId = ""
	}

	objectName, err := util.NewSignatureObjectName(opts.SignatureType, opts.DocumentType, opts.TrainingID, userId)
	if err != nil {
		return notFound(), err
	}

	if err := p.store.Upload(ctx, p.buckets.Signatures, objectName, normalized, "image/png"); err != nil {
		return notFound(), &UploadError{Bucket: p.buckets.Signatures, Object: objectName, Err: err}
	}

	fileURL := p.store.PublicURL(p.buckets.Signatures, objectName)

	record := &model.SignatureRecord{
		TrainingID:    opts.TrainingID,
		SignatureType: opts.SignatureType,
		DocumentType:  opts.DocumentType,
		FileURL:       fileURL,
		Filename:      objectName,
		Title:         opts.SignatureType.Title(),
		Metadata:      opts.Metadata,
	}
	if userId != "" {
		record.UserID = &userId
	}

	if _, err := p.records.Create(ctx, nil, record); err != nil {
		p.logger.Errorf("signature record insert failed after upload, orphaned object at %s: %v", fileURL, err)
		return notFound(), &PersistError{URL: fileURL, Err: err}
	}

	key := cache.Key(opts.SignatureType, opts.DocumentType, opts.TrainingID, userId, "")
	p.cache.Put(key, cache.Entry{
		URL:      fileURL,
		Status:   cache.StatusSuccess,
		Source:   string(SourceStructured),
		ID:       record.ID,
		Metadata: opts.Metadata,
	})
	if userId != "" {
		if err := p.mirror.Store(opts.TrainingID, userId, opts.SignatureType, fileURL); err != nil {
			p.logger.Debugf("mirror write failed after persist for %s: %v", key, err)
		}
	}

	return Result{
		Found:    true,
		ID:       record.ID,
		URL:      fileURL,
		Filename: objectName,
		Source:   SourceStructured,
		Metadata: opts.Metadata,
	}, nil
}
