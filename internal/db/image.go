package db

import "gorm.io/gorm"

// Image is a reusable media asset. Width, Height and FileSize stay nil until
// the binary has been processed; a failed extraction never blocks the save.
// UsageCount is bumped manually by editors, not derived from references.
type Image struct {
	gorm.Model
	Title        string `gorm:"size:200;not null"`
	Description  string `gorm:"type:text"`
	AltText      string `gorm:"size:200"`
	Source       string `gorm:"size:200"`
	SourceURL    string
	FilePath     string `gorm:"not null"`
	Width        *int
	Height       *int
	FileSize     *int64
	UploadedBy   User   `gorm:"constraint:OnDelete:SET NULL;"`
	UploadedByID *uint
	UsageCount   int    `gorm:"default:0"`
}
