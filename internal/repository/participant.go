package repository

import (
	"context"

	constant "github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/model"
	"gorm.io/gorm"
)

type ParticipantRepository struct {
	*baseRepository
}

func (pr ParticipantRepository) Create(ctx context.Context, tx *gorm.DB, participant *model.TrainingParticipant) (*model.TrainingParticipant, error) {
	pr.logger.Debugf("Create training participant with data: %v \n", participant)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.TrainingParticipant{}).Create(&participant).Error; err != nil {
		return participant, err
	}

	return participant, nil
}

// ListByTrainingAndCompany returns every learner of one company enrolled in
// the training, used for representative-signature fan-out.
func (pr ParticipantRepository) ListByTrainingAndCompany(ctx context.Context, tx *gorm.DB, trainingId string, companyId string) ([]model.TrainingParticipant, error) {
	pr.logger.Debugf("List participants of training %s for company %s \n", trainingId, companyId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var participants []model.TrainingParticipant
	err := db.WithContext(ctx).Model(&model.TrainingParticipant{}).
		Where("training_id = ?", trainingId).
		Where("company_id = ?", companyId).
		Order("created_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}

	return participants, nil
}
