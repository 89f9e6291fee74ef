package model

// Document is the legacy flat document table kept for backward compatibility.
// Rows are matched by the canonical title string of a signature type plus the
// legacy document type code. Never written by this service.
type Document struct {
	BaseModel
	TrainingID string  `gorm:"type:text;index" json:"trainingId"`
	UserID     *string `gorm:"type:text;index" json:"userId"`
	Title      string  `gorm:"type:text;index" json:"title"`
	Type       string  `gorm:"type:text;index" json:"type"`
	FileURL    string  `gorm:"type:text" json:"fileUrl"`
}

func (d Document) TableName() string {
	return "documents"
}
