package repository

import (
	"context"
	"strings"

	constant "github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SignatureRecordRepository struct {
	*baseRepository
}

// SignatureRecordQuery scopes a lookup in the structured table. UserID is
// ignored for global types (trainer, organization seal); CompanyID is only
// consulted when no UserID is given, matching the metadata companyId key.
type SignatureRecordQuery struct {
	SignatureType constant.SignatureType
	DocumentType  constant.DocumentType
	TrainingID    string
	UserID        string
	CompanyID     string
}

func (srr SignatureRecordRepository) Create(ctx context.Context, tx *gorm.DB, record *model.SignatureRecord) (*model.SignatureRecord, error) {
	srr.logger.Debugf("Create signature record with data: %v \n", record)

	db := srr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.SignatureRecord{}).Create(&record).Error; err != nil {
		return record, err
	}

	return record, nil
}

// FindCurrent returns the authoritative record for the query tuple: the most
// recently created match. Duplicates exist in legacy data and after races;
// recency always wins.
func (srr SignatureRecordRepository) FindCurrent(ctx context.Context, tx *gorm.DB, q SignatureRecordQuery) (*model.SignatureRecord, error) {
	srr.logger.Debugf("Find current signature record: %+v \n", q)

	db := srr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var record model.SignatureRecord
	query := db.WithContext(ctx).Model(&model.SignatureRecord{}).
		Where("LOWER(signature_type) = ?", strings.ToLower(string(q.SignatureType))).
		Where("document_type = ?", string(q.DocumentType))

	if q.TrainingID != "" {
		query = query.Where("training_id = ?", q.TrainingID)
	}

	if !q.SignatureType.IsGlobal() {
		if q.UserID != "" {
			query = query.Where("user_id = ?", q.UserID)
		} else if q.CompanyID != "" {
			query = query.Where(datatypes.JSONQuery("metadata").Equals(q.CompanyID, constant.METADATA_COMPANY_ID))
		}
	}

	if err := query.Order("created_at DESC").First(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// CreateIfAbsent inserts the record unless an equivalent (training, user,
// type, documentType) record already exists. Check and insert run inside one
// transaction so concurrent fan-outs cannot create duplicates.
func (srr SignatureRecordRepository) CreateIfAbsent(ctx context.Context, record *model.SignatureRecord) (bool, error) {
	srr.logger.Debugf("Create signature record if absent: %v \n", record)

	userId := ""
	if record.UserID != nil {
		userId = *record.UserID
	}

	created := false
	err := srr.withTx(srr.db, func(tx *gorm.DB) error {
		exists, err := srr.ExistsFor(ctx, tx, record.TrainingID, userId, record.SignatureType, record.DocumentType)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		if _, err := srr.Create(ctx, tx, record); err != nil {
			return err
		}

		created = true
		return nil
	})

	return created, err
}

// ExistsFor is the idempotence guard used by the sharing fan-out.
func (srr SignatureRecordRepository) ExistsFor(ctx context.Context, tx *gorm.DB, trainingId string, userId string, st constant.SignatureType, dt constant.DocumentType) (bool, error) {
	srr.logger.Debugf("Check signature record exists: training=%s user=%s type=%s doc=%s \n", trainingId, userId, st, dt)

	db := srr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	err := db.WithContext(ctx).Model(&model.SignatureRecord{}).
		Where("training_id = ?", trainingId).
		Where("user_id = ?", userId).
		Where("LOWER(signature_type) = ?", strings.ToLower(string(st))).
		Where("document_type = ?", string(dt)).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
