package model

// TrainingParticipant is the enrollment join between a training and a
// learner, carrying the employer used for company-scoped signature fan-out.
type TrainingParticipant struct {
	BaseModel
	TrainingID string `gorm:"type:text;not null;index" json:"trainingId" form:"trainingId" binding:"required"`
	UserID     string `gorm:"type:text;not null;index" json:"userId" form:"userId" binding:"required"`
	CompanyID  string `gorm:"type:text;index" json:"companyId" form:"companyId"`
}

func (tp TrainingParticipant) TableName() string {
	return "training_participants"
}
