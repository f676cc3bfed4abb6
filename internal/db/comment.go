package db

import (
	"time"

	"gorm.io/gorm"
)

// MaxCommentLength bounds comment content.
const MaxCommentLength = 300

// Comment belongs to an article. ParentID is nil for top-level comments;
// replies point at a top-level comment and a single nesting level is
// enforced at the service layer, not here.
type Comment struct {
	ID        uint    `gorm:"primaryKey"`
	ArticleID uint    `gorm:"not null;index"`
	Article   Article `gorm:"constraint:OnDelete:CASCADE;"`
	UserID    uint    `gorm:"not null;index"`
	User      User
	Content   string   `gorm:"size:300;not null"`
	ParentID  *uint    `gorm:"index"`
	Parent    *Comment `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentLike records that a user liked a comment, same pair semantics as
// ArticleLike.
type CommentLike struct {
	gorm.Model
	CommentID uint `gorm:"uniqueIndex:idx_comment_likes_pair;not null"`
	UserID    uint `gorm:"uniqueIndex:idx_comment_likes_pair;not null"`
}
