package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rubenatello/dignov2/internal/db"
	"github.com/rubenatello/dignov2/internal/service"
)

// LikeArticle and UnlikeArticle implement the idempotent like toggle.
func (a *API) LikeArticle(c *gin.Context) {
	article, ok := a.findArticleForEngagement(c)
	if !ok {
		return
	}
	user := currentUser(c)

	liked, err := a.engagement.LikeArticle(article.ID, user.ID)
	if err != nil {
		a.log.Error().Err(err).Uint("article_id", article.ID).Msg("failed to like article")
		respondServiceError(c, err)
		return
	}
	a.respondLikeState(c, article.ID, liked)
}

// UnlikeArticle removes the requester's like; absent likes succeed.
func (a *API) UnlikeArticle(c *gin.Context) {
	article, ok := a.findArticleForEngagement(c)
	if !ok {
		return
	}
	user := currentUser(c)

	liked, err := a.engagement.UnlikeArticle(article.ID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	a.respondLikeState(c, article.ID, liked)
}

// ListComments returns a page of the article's comment threads.
func (a *API) ListComments(c *gin.Context) {
	article, ok := a.findArticleForEngagement(c)
	if !ok {
		return
	}

	result, err := a.engagement.ListComments(
		article.ID,
		parseIntQuery(c, "page", 1),
		parseIntQuery(c, "page_size", 20),
		parseBoolQuery(c, "replies"),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	threads := make([]gin.H, 0, len(result.Threads))
	for i := range result.Threads {
		thread := commentJSON(&result.Threads[i].Comment)
		replies := make([]gin.H, 0, len(result.Threads[i].Replies))
		for j := range result.Threads[i].Replies {
			replies = append(replies, commentJSON(&result.Threads[i].Replies[j]))
		}
		thread["replies"] = replies
		threads = append(threads, thread)
	}

	c.JSON(http.StatusOK, gin.H{
		"results":     threads,
		"count":       result.Total,
		"page":        result.Page,
		"page_size":   result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// CreateComment posts a top-level comment.
func (a *API) CreateComment(c *gin.Context) {
	article, ok := a.findArticleForEngagement(c)
	if !ok {
		return
	}

	var payload struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &payload, "comment content is required") {
		return
	}

	comment, err := a.engagement.AddComment(article.ID, currentUser(c).ID, payload.Content)
	if err != nil {
		a.respondCommentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentJSON(comment))
}

// ReplyToComment posts a reply under a top-level comment.
func (a *API) ReplyToComment(c *gin.Context) {
	article, ok := a.findArticleForEngagement(c)
	if !ok {
		return
	}

	parentID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &payload, "comment content is required") {
		return
	}

	comment, err := a.engagement.Reply(article.ID, parentID, currentUser(c).ID, payload.Content)
	if err != nil {
		a.respondCommentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentJSON(comment))
}

// LikeComment adds the requester's like on a comment.
func (a *API) LikeComment(c *gin.Context) {
	a.toggleCommentLike(c, true)
}

// UnlikeComment removes the requester's like on a comment.
func (a *API) UnlikeComment(c *gin.Context) {
	a.toggleCommentLike(c, false)
}

func (a *API) toggleCommentLike(c *gin.Context, like bool) {
	article, ok := a.findArticleForEngagement(c)
	if !ok {
		return
	}

	commentID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	user := currentUser(c)

	var liked bool
	if like {
		liked, err = a.engagement.LikeComment(article.ID, commentID, user.ID)
	} else {
		liked, err = a.engagement.UnlikeComment(article.ID, commentID, user.ID)
	}
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "comment not found")
			return
		}
		respondServiceError(c, err)
		return
	}

	count, err := a.engagement.CountCommentLikes(commentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "like_count": count})
}

func (a *API) findArticleForEngagement(c *gin.Context) (*db.Article, bool) {
	article, err := a.articles.GetBySlug(c.Param("slug"), currentUser(c), false)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
		} else {
			respondServiceError(c, err)
		}
		return nil, false
	}
	return article, true
}

func (a *API) respondLikeState(c *gin.Context, articleID uint, liked bool) {
	count, err := a.engagement.CountArticleLikes(articleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "like_count": count})
}

func (a *API) respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, "comment not found")
	case errors.Is(err, service.ErrCommentEmpty):
		respondFieldErrors(c, service.FieldErrors{"content": "content must not be blank"})
	case errors.Is(err, service.ErrCommentTooLong):
		respondFieldErrors(c, service.FieldErrors{"content": "content must be 300 characters or fewer"})
	default:
		a.log.Error().Err(err).Msg("failed to save comment")
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func commentJSON(comment *db.Comment) gin.H {
	payload := gin.H{
		"id":           comment.ID,
		"article_id":   comment.ArticleID,
		"content":      comment.Content,
		"author":       userJSON(&comment.User),
		"created_date": comment.CreatedAt,
		"parent_id":    comment.ParentID,
	}
	return payload
}
