package model

// OrganizationSetting is a singleton row with installation-level defaults.
// SealURL/SealPath back the last-resort fallback for the organization seal.
type OrganizationSetting struct {
	BaseModel
	OrganizationName string `gorm:"type:text" json:"organizationName"`
	SealURL          string `gorm:"type:text" json:"sealUrl"`
	SealPath         string `gorm:"type:text" json:"sealPath"`
}

func (os OrganizationSetting) TableName() string {
	return "organization_settings"
}
