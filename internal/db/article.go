package db

import (
	"time"

	"gorm.io/gorm"
)

// Category is the fixed article section enumeration.
type Category string

const (
	CategoryBreakingNews   Category = "BREAKING_NEWS"
	CategoryEconomy        Category = "ECONOMY"
	CategoryPolitics       Category = "POLITICS"
	CategoryForeignAffairs Category = "FOREIGN_AFFAIRS"
	CategoryImmigration    Category = "IMMIGRATION"
	CategoryHumanRights    Category = "HUMAN_RIGHTS"
	CategoryLegislation    Category = "LEGISLATION"
	CategoryOpinion        Category = "OPINION"
)

// Categories lists every valid category code.
func Categories() []Category {
	return []Category{
		CategoryBreakingNews,
		CategoryEconomy,
		CategoryPolitics,
		CategoryForeignAffairs,
		CategoryImmigration,
		CategoryHumanRights,
		CategoryLegislation,
		CategoryOpinion,
	}
}

// Valid reports whether c is a known category code.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Article is the content entity.
//
// PublishedDate is set exactly once, at the first transition to published,
// and survives unpublish/republish cycles. LastPublishedUpdate is stamped on
// every later edit to an already-published article. ScheduledPublishTime is
// advisory only: no background process enacts it.
type Article struct {
	gorm.Model
	Title    string `gorm:"size:200;not null"`
	Slug     string `gorm:"size:200;uniqueIndex;not null"`
	Content  string `gorm:"type:text;not null"`
	Summary  string `gorm:"size:300"`
	Subtitle string `gorm:"size:200"`

	AuthorID   uint  `gorm:"not null;index"`
	Author     User  `gorm:"constraint:OnDelete:CASCADE;"`
	CoAuthorID *uint `gorm:"index"`
	CoAuthor   *User `gorm:"constraint:OnDelete:SET NULL;"`

	Category       Category `gorm:"size:20;default:POLITICS;index"`
	IsBreakingNews bool     `gorm:"default:false"`

	// Featured image is either a one-off upload path or a reference into the
	// image library. The asset reference wins when both are present.
	FeaturedImage        string
	FeaturedImageAssetID *uint
	FeaturedImageAsset   *Image `gorm:"constraint:OnDelete:SET NULL;"`

	IsPublished          bool `gorm:"default:false;index"`
	PublishedDate        *time.Time
	ScheduledPublishTime *time.Time
	LastPublishedUpdate  *time.Time

	Tags            []Tag  `gorm:"many2many:article_tags;"`
	MetaDescription string `gorm:"size:160"`
	ViewCount       uint   `gorm:"default:0"`
}

// ArticleLike records that a user liked an article. Presence of the pair is
// the whole state; the like count is its cardinality.
type ArticleLike struct {
	gorm.Model
	ArticleID uint `gorm:"uniqueIndex:idx_article_likes_pair;not null"`
	UserID    uint `gorm:"uniqueIndex:idx_article_likes_pair;not null"`
}
