package repository

import (
	"context"

	constant "github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/model"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	*baseRepository
}

// FindCurrent queries the legacy flat table. Rows are matched by the
// canonical title of the signature type and the legacy document type code;
// the userId-exemption rule for global types is the same as on the
// structured path.
func (dr DocumentRepository) FindCurrent(ctx context.Context, tx *gorm.DB, q SignatureRecordQuery) (*model.Document, error) {
	dr.logger.Debugf("Find current legacy document: %+v \n", q)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var doc model.Document
	query := db.WithContext(ctx).Model(&model.Document{}).
		Where("title = ?", q.SignatureType.Title()).
		Where("type = ?", q.DocumentType.LegacyCode())

	if q.TrainingID != "" {
		query = query.Where("training_id = ?", q.TrainingID)
	}

	if !q.SignatureType.IsGlobal() && q.UserID != "" {
		query = query.Where("user_id = ?", q.UserID)
	}

	if err := query.Order("created_at DESC").First(&doc).Error; err != nil {
		return nil, err
	}

	return &doc, nil
}
