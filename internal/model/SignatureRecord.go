package model

import (
	"github.com/formadoc/FormaSign/internal/constant"
	"gorm.io/datatypes"
)

// SignatureRecord is the structured, current signature store. New signatures
// are always written here; the legacy documents table and raw storage naming
// are read-only fallbacks.
type SignatureRecord struct {
	BaseModel
	TrainingID string `gorm:"type:text;index" json:"trainingId" form:"trainingId"`

	// Null for global types (trainer, organization seal), which are scoped
	// above the individual.
	UserID *string `gorm:"type:text;index" json:"userId" form:"userId"`

	SignatureType constant.SignatureType `gorm:"type:text;not null;index" json:"signatureType" form:"signatureType"`
	DocumentType  constant.DocumentType  `gorm:"type:text;not null;index" json:"documentType" form:"documentType"`

	FileURL  string `gorm:"type:text;not null" json:"fileUrl" form:"fileUrl"`
	Filename string `gorm:"type:text" json:"filename" form:"filename"`

	// Deterministically derived from SignatureType; doubles as the lookup key
	// on the legacy path.
	Title string `gorm:"type:text" json:"title" form:"title"`

	// Carries companyId and sharing provenance (sharedFrom, originalSignatureId).
	Metadata datatypes.JSONMap `gorm:"type:jsonb" json:"metadata" form:"metadata"`
}

func (sr SignatureRecord) TableName() string {
	return "document_signatures"
}

func (sr SignatureRecord) MetadataString(key string) string {
	if sr.Metadata == nil {
		return ""
	}

	if v, ok := sr.Metadata[key].(string); ok {
		return v
	}

	return ""
}
