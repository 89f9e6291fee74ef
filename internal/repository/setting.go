package repository

import (
	"context"

	constant "github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/model"
	"gorm.io/gorm"
)

type SettingRepository struct {
	*baseRepository
}

// Get returns the organization settings singleton row.
func (sr SettingRepository) Get(ctx context.Context, tx *gorm.DB) (*model.OrganizationSetting, error) {
	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var setting model.OrganizationSetting
	if err := db.WithContext(ctx).Model(&model.OrganizationSetting{}).First(&setting).Error; err != nil {
		return nil, err
	}

	return &setting, nil
}
