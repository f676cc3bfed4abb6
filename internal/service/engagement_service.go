package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rubenatello/dignov2/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentEmpty    = errors.New("comment content must not be blank")
	ErrCommentTooLong  = errors.New("comment content exceeds the length limit")
)

// EngagementService handles likes and comments for articles.
type EngagementService struct {
	db *gorm.DB
}

// CommentThread is a top-level comment with its replies inlined.
type CommentThread struct {
	Comment db.Comment
	Replies []db.Comment
}

// CommentListResult aggregates a page of top-level comments.
type CommentListResult struct {
	Threads    []CommentThread
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewEngagementService creates an EngagementService instance.
func NewEngagementService(gdb *gorm.DB) *EngagementService {
	return &EngagementService{db: gdb}
}

// LikeArticle records a like. Liking twice is a no-op: the unique pair
// constraint makes the second attempt find the existing row, and a racing
// duplicate insert is treated as success.
func (s *EngagementService) LikeArticle(articleID, userID uint) (bool, error) {
	like := db.ArticleLike{ArticleID: articleID, UserID: userID}
	err := s.db.Where(db.ArticleLike{ArticleID: articleID, UserID: userID}).
		FirstOrCreate(&like).Error
	if err != nil && !isDuplicateKey(err) {
		return false, err
	}
	return true, nil
}

// UnlikeArticle removes a like if present; removing an absent like succeeds.
func (s *EngagementService) UnlikeArticle(articleID, userID uint) (bool, error) {
	err := s.db.Where("article_id = ? AND user_id = ?", articleID, userID).
		Delete(&db.ArticleLike{}).Error
	if err != nil {
		return false, err
	}
	return false, nil
}

// ArticleLiked reports whether the user currently likes the article.
func (s *EngagementService) ArticleLiked(articleID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&db.ArticleLike{}).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountArticleLikes derives the like count from pair cardinality.
func (s *EngagementService) CountArticleLikes(articleID uint) (int64, error) {
	var count int64
	err := s.db.Model(&db.ArticleLike{}).
		Where("article_id = ?", articleID).
		Count(&count).Error
	return count, err
}

// LikeComment mirrors LikeArticle for comments. The comment must belong to
// the given article.
func (s *EngagementService) LikeComment(articleID, commentID, userID uint) (bool, error) {
	var comment db.Comment
	if err := s.db.Where("id = ? AND article_id = ?", commentID, articleID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCommentNotFound
		}
		return false, err
	}

	like := db.CommentLike{CommentID: commentID, UserID: userID}
	err := s.db.Where(db.CommentLike{CommentID: commentID, UserID: userID}).
		FirstOrCreate(&like).Error
	if err != nil && !isDuplicateKey(err) {
		return false, err
	}
	return true, nil
}

// UnlikeComment removes a comment like; absent likes are a no-op. Like
// LikeComment, the comment must belong to the given article.
func (s *EngagementService) UnlikeComment(articleID, commentID, userID uint) (bool, error) {
	var comment db.Comment
	if err := s.db.Where("id = ? AND article_id = ?", commentID, articleID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCommentNotFound
		}
		return false, err
	}

	err := s.db.Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&db.CommentLike{}).Error
	if err != nil {
		return false, err
	}
	return false, nil
}

// CountCommentLikes derives the comment like count from pair cardinality.
func (s *EngagementService) CountCommentLikes(commentID uint) (int64, error) {
	var count int64
	err := s.db.Model(&db.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

// AddComment creates a top-level comment on an article.
func (s *EngagementService) AddComment(articleID, userID uint, content string) (*db.Comment, error) {
	content, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}

	comment := db.Comment{
		ArticleID: articleID,
		UserID:    userID,
		Content:   content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return s.getComment(comment.ID)
}

// Reply attaches a reply to a top-level comment of the given article. Only
// one nesting level exists: the parent must itself be top-level, and an
// unknown parent id is a not-found error.
func (s *EngagementService) Reply(articleID, parentID, userID uint, content string) (*db.Comment, error) {
	content, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}

	var parent db.Comment
	if err := s.db.
		Where("id = ? AND article_id = ? AND parent_id IS NULL", parentID, articleID).
		First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	comment := db.Comment{
		ArticleID: articleID,
		UserID:    userID,
		Content:   content,
		ParentID:  &parent.ID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return s.getComment(comment.ID)
}

// ListComments returns a page of top-level comments, oldest first. With
// withReplies set, all replies for the page are fetched in one query and
// grouped under their parents.
func (s *EngagementService) ListComments(articleID uint, page, perPage int, withReplies bool) (*CommentListResult, error) {
	result := &CommentListResult{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 20),
	}

	base := s.db.Model(&db.Comment{}).
		Where("article_id = ? AND parent_id IS NULL", articleID)
	if err := base.Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	var topLevel []db.Comment
	offset := (result.Page - 1) * result.PerPage
	if err := s.db.Preload("User").
		Where("article_id = ? AND parent_id IS NULL", articleID).
		Order("created_at asc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&topLevel).Error; err != nil {
		return nil, err
	}

	replyGroups := make(map[uint][]db.Comment)
	if withReplies && len(topLevel) > 0 {
		parentIDs := make([]uint, 0, len(topLevel))
		for _, comment := range topLevel {
			parentIDs = append(parentIDs, comment.ID)
		}

		var replies []db.Comment
		if err := s.db.Preload("User").
			Where("parent_id IN ?", parentIDs).
			Order("created_at asc").
			Find(&replies).Error; err != nil {
			return nil, err
		}
		for _, reply := range replies {
			replyGroups[*reply.ParentID] = append(replyGroups[*reply.ParentID], reply)
		}
	}

	result.Threads = make([]CommentThread, 0, len(topLevel))
	for _, comment := range topLevel {
		result.Threads = append(result.Threads, CommentThread{
			Comment: comment,
			Replies: replyGroups[comment.ID],
		})
	}

	return result, nil
}

func (s *EngagementService) getComment(id uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func validateCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrCommentEmpty
	}
	if utf8.RuneCountInString(trimmed) > db.MaxCommentLength {
		return "", ErrCommentTooLong
	}
	return trimmed, nil
}

// isDuplicateKey matches unique-constraint violations across the sqlite and
// postgres drivers so get-or-create races read as idempotent successes.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
