package signature

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"

	"github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/repository"
	"github.com/formadoc/FormaSign/internal/util"
	"gorm.io/gorm"
)

// Source is one lookup path of the resolution chain. FindIn returns nil when
// the source has no match; sources are tried in priority order and never
// merged.
type Source interface {
	Name() SourceName
	FindIn(ctx context.Context, c Criteria) (*Result, error)
}

// structuredSource queries the current document_signatures table.
type structuredSource struct {
	records *repository.SignatureRecordRepository
}

func (s structuredSource) Name() SourceName { return SourceStructured }

func (s structuredSource) FindIn(ctx context.Context, c Criteria) (*Result, error) {
	record, err := s.records.FindCurrent(ctx, nil, repository.SignatureRecordQuery{
		SignatureType: c.SignatureType,
		DocumentType:  c.DocumentType,
		TrainingID:    c.TrainingID,
		UserID:        c.UserID,
		CompanyID:     c.CompanyID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &Result{
		Found:    true,
		ID:       record.ID,
		URL:      record.FileURL,
		Filename: record.Filename,
		Source:   SourceStructured,
		Metadata: record.Metadata,
	}, nil
}

// legacySource queries the flat documents table by canonical title and legacy
// type code.
type legacySource struct {
	documents *repository.DocumentRepository
}

func (s legacySource) Name() SourceName { return SourceLegacy }

func (s legacySource) FindIn(ctx context.Context, c Criteria) (*Result, error) {
	doc, err := s.documents.FindCurrent(ctx, nil, repository.SignatureRecordQuery{
		SignatureType: c.SignatureType,
		DocumentType:  c.DocumentType,
		TrainingID:    c.TrainingID,
		UserID:        c.UserID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &Result{
		Found:    true,
		ID:       doc.ID,
		URL:      doc.FileURL,
		Filename: filenameFromURL(doc.FileURL),
		Source:   SourceLegacy,
	}, nil
}

// storageSource lists the signature bucket by candidate filename patterns:
// the standardized prefix first, then the ad-hoc names used before naming was
// standardized. First non-empty listing wins, newest object first.
type storageSource struct {
	store   ObjectStore
	buckets Buckets
}

func (s storageSource) Name() SourceName { return SourceStorage }

func (s storageSource) candidates(c Criteria) []struct{ bucket, prefix string } {
	primary := s.buckets.Signatures

	out := []struct{ bucket, prefix string }{
		{primary, util.SignatureObjectPrefix(c.SignatureType, c.DocumentType, c.TrainingID, c.UserID)},
	}

	switch c.SignatureType {
	case constant.SignatureTypeTrainer:
		out = append(out, struct{ bucket, prefix string }{primary, fmt.Sprintf("trainer_%s_%s", c.DocumentType, c.TrainingID)})
	case constant.SignatureTypeCompanySeal:
		out = append(out, struct{ bucket, prefix string }{primary, fmt.Sprintf("seal_company_%s", c.TrainingID)})
	case constant.SignatureTypeOrganizationSeal:
		out = append(out,
			struct{ bucket, prefix string }{primary, "organization_seal"},
			// Seals uploaded before the storage migration live in their own bucket.
			struct{ bucket, prefix string }{s.buckets.LegacySeals, ""},
		)
	}

	return out
}

func (s storageSource) FindIn(ctx context.Context, c Criteria) (*Result, error) {
	for _, candidate := range s.candidates(c) {
		objects, err := s.store.Search(ctx, candidate.bucket, candidate.prefix, 1)
		if err != nil {
			return nil, err
		}
		if len(objects) == 0 {
			continue
		}

		key := objects[0].Key
		return &Result{
			Found:    true,
			URL:      s.store.PublicURL(candidate.bucket, key),
			Filename: path.Base(key),
			Source:   SourceStorage,
		}, nil
	}

	return nil, nil
}

// settingsSource is the last-resort fallback for the organization seal: the
// installation-level URL/path kept on the settings singleton.
type settingsSource struct {
	settings *repository.SettingRepository
	store    ObjectStore
	buckets  Buckets
}

func (s settingsSource) Name() SourceName { return SourceSettings }

func (s settingsSource) FindIn(ctx context.Context, c Criteria) (*Result, error) {
	if c.SignatureType != constant.SignatureTypeOrganizationSeal {
		return nil, nil
	}

	setting, err := s.settings.Get(ctx, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	sealURL := setting.SealURL
	if sealURL == "" && setting.SealPath != "" {
		// The path may reference an object deleted since the setting was
		// written; only answer with a URL that still resolves.
		exists, err := s.store.Exists(ctx, s.buckets.LegacySeals, setting.SealPath)
		if err != nil {
			return nil, err
		}
		if exists {
			sealURL = s.store.PublicURL(s.buckets.LegacySeals, setting.SealPath)
		}
	}
	if sealURL == "" {
		return nil, nil
	}

	return &Result{
		Found:    true,
		URL:      sealURL,
		Filename: filenameFromURL(sealURL),
		Source:   SourceSettings,
	}, nil
}

func filenameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return ""
	}

	return path.Base(u.Path)
}
