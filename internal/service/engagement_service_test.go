package service

import (
	"strings"
	"testing"

	"github.com/rubenatello/dignov2/internal/db"
	"gorm.io/gorm"
)

func seedEngagementFixture(t *testing.T) (*gorm.DB, *EngagementService, *db.Article, *db.User) {
	t.Helper()
	gdb := setupTestDB(t)
	author := createTestUser(t, gdb, "eng-author", db.RoleWriter)
	reader := createTestUser(t, gdb, "eng-reader", db.RoleSubscriber)

	article, err := newArticleService(gdb).Create(ArticleInput{
		Title:       "Engagement Target",
		Content:     "body",
		IsPublished: true,
	}, author)
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	return gdb, NewEngagementService(gdb), article, reader
}

func TestEngagementService_LikeIsIdempotent(t *testing.T) {
	gdb, svc, article, reader := seedEngagementFixture(t)

	for i := 0; i < 2; i++ {
		liked, err := svc.LikeArticle(article.ID, reader.ID)
		if err != nil {
			t.Fatalf("like attempt %d: %v", i, err)
		}
		if !liked {
			t.Fatalf("like attempt %d should report liked", i)
		}
	}

	var count int64
	if err := gdb.Model(&db.ArticleLike{}).Where("article_id = ?", article.ID).Count(&count).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one like record, got %d", count)
	}
}

func TestEngagementService_UnlikeAbsentIsNoOp(t *testing.T) {
	gdb, svc, article, reader := seedEngagementFixture(t)

	liked, err := svc.UnlikeArticle(article.ID, reader.ID)
	if err != nil {
		t.Fatalf("unlike without a like: %v", err)
	}
	if liked {
		t.Fatalf("unlike should report not liked")
	}

	var count int64
	if err := gdb.Model(&db.ArticleLike{}).Count(&count).Error; err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero like records, got %d", count)
	}
}

func TestEngagementService_LikeCountByCardinality(t *testing.T) {
	gdb, svc, article, reader := seedEngagementFixture(t)
	second := createTestUser(t, gdb, "eng-second", db.RoleSubscriber)

	if _, err := svc.LikeArticle(article.ID, reader.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := svc.LikeArticle(article.ID, second.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	count, err := svc.CountArticleLikes(article.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 likes, got %d", count)
	}
}

func TestEngagementService_CommentLengthLimits(t *testing.T) {
	_, svc, article, reader := seedEngagementFixture(t)

	if _, err := svc.AddComment(article.ID, reader.ID, "   "); err != ErrCommentEmpty {
		t.Fatalf("expected ErrCommentEmpty, got %v", err)
	}

	if _, err := svc.AddComment(article.ID, reader.ID, strings.Repeat("x", 301)); err != ErrCommentTooLong {
		t.Fatalf("expected ErrCommentTooLong for 301 chars, got %v", err)
	}

	comment, err := svc.AddComment(article.ID, reader.ID, strings.Repeat("x", 300))
	if err != nil {
		t.Fatalf("300-character comment should be accepted: %v", err)
	}
	if comment.ParentID != nil {
		t.Fatalf("top-level comment should have no parent")
	}
}

func TestEngagementService_ReplyRules(t *testing.T) {
	gdb, svc, article, reader := seedEngagementFixture(t)

	parent, err := svc.AddComment(article.ID, reader.ID, "top level")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	reply, err := svc.Reply(article.ID, parent.ID, reader.ID, "a reply")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != parent.ID {
		t.Fatalf("reply not attached to parent")
	}

	// Replying to a nonexistent comment is a not-found error with no record.
	var before int64
	gdb.Model(&db.Comment{}).Count(&before)
	if _, err := svc.Reply(article.ID, 9999, reader.ID, "ghost"); err != ErrCommentNotFound {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
	var after int64
	gdb.Model(&db.Comment{}).Count(&after)
	if before != after {
		t.Fatalf("failed reply created a record")
	}

	// A reply is not a valid parent: nesting stops at one level.
	if _, err := svc.Reply(article.ID, reply.ID, reader.ID, "too deep"); err != ErrCommentNotFound {
		t.Fatalf("expected ErrCommentNotFound for reply-to-reply, got %v", err)
	}
}

func TestEngagementService_ListCommentsWithReplies(t *testing.T) {
	_, svc, article, reader := seedEngagementFixture(t)

	first, err := svc.AddComment(article.ID, reader.ID, "first")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if _, err := svc.AddComment(article.ID, reader.ID, "second"); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if _, err := svc.Reply(article.ID, first.ID, reader.ID, "reply one"); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if _, err := svc.Reply(article.ID, first.ID, reader.ID, "reply two"); err != nil {
		t.Fatalf("reply: %v", err)
	}

	result, err := svc.ListComments(article.ID, 1, 10, true)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 top-level comments, got %d", result.Total)
	}
	if len(result.Threads) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(result.Threads))
	}
	if result.Threads[0].Comment.Content != "first" {
		t.Fatalf("expected oldest-first ordering, got %q", result.Threads[0].Comment.Content)
	}
	if len(result.Threads[0].Replies) != 2 {
		t.Fatalf("expected 2 replies grouped under first comment, got %d", len(result.Threads[0].Replies))
	}
	if len(result.Threads[1].Replies) != 0 {
		t.Fatalf("second comment should have no replies")
	}

	// Without the flag, replies are not fetched.
	bare, err := svc.ListComments(article.ID, 1, 10, false)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(bare.Threads[0].Replies) != 0 {
		t.Fatalf("replies fetched without the inline flag")
	}
}

func TestEngagementService_CommentLikes(t *testing.T) {
	_, svc, article, reader := seedEngagementFixture(t)

	comment, err := svc.AddComment(article.ID, reader.ID, "likeable")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.LikeComment(article.ID, comment.ID, reader.ID); err != nil {
			t.Fatalf("like comment: %v", err)
		}
	}
	count, err := svc.CountCommentLikes(comment.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 comment like, got %d", count)
	}

	if _, err := svc.LikeComment(article.ID, 9999, reader.ID); err != ErrCommentNotFound {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}

	if _, err := svc.UnlikeComment(article.ID, comment.ID, reader.ID); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	count, _ = svc.CountCommentLikes(comment.ID)
	if count != 0 {
		t.Fatalf("expected 0 likes after unlike, got %d", count)
	}
}

func TestEngagementService_CommentLikeScopedToArticle(t *testing.T) {
	gdb, svc, article, reader := seedEngagementFixture(t)

	author := createTestUser(t, gdb, "eng-author-2", db.RoleWriter)
	other, err := newArticleService(gdb).Create(ArticleInput{
		Title:       "Unrelated Target",
		Content:     "body",
		IsPublished: true,
	}, author)
	if err != nil {
		t.Fatalf("create second article: %v", err)
	}

	comment, err := svc.AddComment(other.ID, reader.ID, "lives elsewhere")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	// A comment id from another article must not be reachable.
	if _, err := svc.LikeComment(article.ID, comment.ID, reader.ID); err != ErrCommentNotFound {
		t.Fatalf("cross-article like: expected ErrCommentNotFound, got %v", err)
	}
	if _, err := svc.UnlikeComment(article.ID, comment.ID, reader.ID); err != ErrCommentNotFound {
		t.Fatalf("cross-article unlike: expected ErrCommentNotFound, got %v", err)
	}

	if _, err := svc.LikeComment(other.ID, comment.ID, reader.ID); err != nil {
		t.Fatalf("like on owning article: %v", err)
	}
	count, err := svc.CountCommentLikes(comment.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 like, got %d", count)
	}
}
