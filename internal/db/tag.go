package db

import "gorm.io/gorm"

// Tag is a deduplicated label attached to articles. Tags are created lazily
// when an article references a name not yet known.
type Tag struct {
	gorm.Model
	Name     string    `gorm:"uniqueIndex;not null"`
	Slug     string    `gorm:"uniqueIndex;not null"`
	Articles []Article `gorm:"many2many:article_tags;"`
}
