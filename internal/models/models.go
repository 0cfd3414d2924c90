package models

import "time"

// ConfigurationDocument is the single configuration document served to
// clients. Each update replaces the document and assigns a fresh ETag.
type ConfigurationDocument struct {
	ID        uint   `gorm:"primaryKey"`
	ETag      string `gorm:"index"`
	Document  string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the gorm default table name.
func (ConfigurationDocument) TableName() string {
	return "configuration_documents"
}
