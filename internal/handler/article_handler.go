package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rubenatello/dignov2/internal/db"
	"github.com/rubenatello/dignov2/internal/service"
)

// articleWriteRequest is the JSON body shared by create and update. Pointer
// fields let PATCH leave unspecified fields untouched.
type articleWriteRequest struct {
	Title                *string    `json:"title"`
	Slug                 *string    `json:"slug"`
	Content              *string    `json:"content"`
	Summary              *string    `json:"summary"`
	Subtitle             *string    `json:"subtitle"`
	Category             *string    `json:"category"`
	IsBreakingNews       *bool      `json:"is_breaking_news"`
	FeaturedImage        *string    `json:"featured_image"`
	FeaturedImageAssetID *uint      `json:"featured_image_asset_id"`
	ClearFeaturedAsset   bool       `json:"clear_featured_asset"`
	CoAuthorID           *uint      `json:"co_author_id"`
	ClearCoAuthor        bool       `json:"clear_co_author"`
	IsPublished          *bool      `json:"is_published"`
	ScheduledPublishTime *time.Time `json:"scheduled_publish_time"`
	Tags                 *[]string  `json:"tags"`
	MetaDescription      *string    `json:"meta_description"`
}

// ListArticles returns the filtered, paginated article listing.
func (a *API) ListArticles(c *gin.Context) {
	filter := service.ArticleFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Tag:      c.Query("tags"),
		Page:     parseIntQuery(c, "page", 1),
		PerPage:  parseIntQuery(c, "page_size", 10),
		Viewer:   currentUser(c),
	}

	result, err := a.articles.List(filter)
	if err != nil {
		a.log.Error().Err(err).Msg("failed to list articles")
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(result.Articles))
	for i := range result.Articles {
		items = append(items, articleListJSON(&result.Articles[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"results":     items,
		"count":       result.Total,
		"page":        result.Page,
		"page_size":   result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// GetArticle returns the detail view and counts the view. The payload
// carries the like count, and the requester's own like state when logged in.
func (a *API) GetArticle(c *gin.Context) {
	user := currentUser(c)
	article, err := a.articles.GetBySlug(c.Param("slug"), user, true)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		a.log.Error().Err(err).Str("slug", c.Param("slug")).Msg("failed to fetch article")
		respondServiceError(c, err)
		return
	}

	payload := articleDetailJSON(article)
	if count, err := a.engagement.CountArticleLikes(article.ID); err == nil {
		payload["like_count"] = count
	}
	payload["liked"] = false
	if user != nil {
		if liked, err := a.engagement.ArticleLiked(article.ID, user.ID); err == nil {
			payload["liked"] = liked
		}
	}
	c.JSON(http.StatusOK, payload)
}

// GetArticleByID is the numeric-id detail fetch; it does not count a view.
func (a *API) GetArticleByID(c *gin.Context) {
	raw := c.Query("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return
	}

	article, err := a.articles.GetByID(uint(id), currentUser(c))
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, articleDetailJSON(article))
}

// ArticleExists reports slug availability for the editor UI.
func (a *API) ArticleExists(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		respondError(c, http.StatusBadRequest, "slug is required")
		return
	}

	exists, id, err := a.articles.Exists(slug)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload := gin.H{"exists": exists, "id": nil}
	if exists {
		payload["id"] = id
	}
	c.JSON(http.StatusOK, payload)
}

// CreateArticle creates an article authored by the requester.
func (a *API) CreateArticle(c *gin.Context) {
	var req articleWriteRequest
	if !bindJSON(c, &req, "invalid article payload") {
		return
	}

	input := service.ArticleInput{
		FeaturedImageAssetID: req.FeaturedImageAssetID,
		CoAuthorID:           req.CoAuthorID,
		ScheduledPublishTime: req.ScheduledPublishTime,
	}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Slug != nil {
		input.Slug = *req.Slug
	}
	if req.Content != nil {
		input.Content = *req.Content
	}
	if req.Summary != nil {
		input.Summary = *req.Summary
	}
	if req.Subtitle != nil {
		input.Subtitle = *req.Subtitle
	}
	if req.Category != nil {
		input.Category = *req.Category
	}
	if req.IsBreakingNews != nil {
		input.IsBreakingNews = *req.IsBreakingNews
	}
	if req.FeaturedImage != nil {
		input.FeaturedImage = *req.FeaturedImage
	}
	if req.IsPublished != nil {
		input.IsPublished = *req.IsPublished
	}
	if req.MetaDescription != nil {
		input.MetaDescription = *req.MetaDescription
	}
	if req.Tags != nil {
		input.Tags = *req.Tags
	}

	article, err := a.articles.Create(input, currentUser(c))
	if err != nil {
		if fieldErrs, ok := err.(service.FieldErrors); ok {
			respondFieldErrors(c, fieldErrs)
			return
		}
		a.log.Error().Err(err).Msg("failed to create article")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, articleDetailJSON(article))
}

// UpdateArticle applies a partial update to the article at slug.
func (a *API) UpdateArticle(c *gin.Context) {
	var req articleWriteRequest
	if !bindJSON(c, &req, "invalid article payload") {
		return
	}

	update := service.ArticleUpdate{
		Title:                req.Title,
		Content:              req.Content,
		Summary:              req.Summary,
		Subtitle:             req.Subtitle,
		Category:             req.Category,
		IsBreakingNews:       req.IsBreakingNews,
		FeaturedImage:        req.FeaturedImage,
		FeaturedImageAssetID: req.FeaturedImageAssetID,
		ClearFeaturedAsset:   req.ClearFeaturedAsset,
		CoAuthorID:           req.CoAuthorID,
		ClearCoAuthor:        req.ClearCoAuthor,
		IsPublished:          req.IsPublished,
		ScheduledPublishTime: req.ScheduledPublishTime,
		Tags:                 req.Tags,
		MetaDescription:      req.MetaDescription,
	}

	article, err := a.articles.Update(c.Param("slug"), update)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		if fieldErrs, ok := err.(service.FieldErrors); ok {
			respondFieldErrors(c, fieldErrs)
			return
		}
		a.log.Error().Err(err).Str("slug", c.Param("slug")).Msg("failed to update article")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, articleDetailJSON(article))
}

// DeleteArticle removes the article at slug.
func (a *API) DeleteArticle(c *gin.Context) {
	if err := a.articles.Delete(c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		a.log.Error().Err(err).Str("slug", c.Param("slug")).Msg("failed to delete article")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

// FeaturedArticles returns the most viewed recent publications.
func (a *API) FeaturedArticles(c *gin.Context) {
	articles, err := a.articles.Featured()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": articleListItems(articles)})
}

// BreakingArticles returns fresh breaking news.
func (a *API) BreakingArticles(c *gin.Context) {
	articles, err := a.articles.Breaking()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": articleListItems(articles)})
}

// TopViewedArticles is the top-viewed analytics endpoint.
func (a *API) TopViewedArticles(c *gin.Context) {
	articles, err := a.analytics.TopViewed(parseIntQuery(c, "days", 0), parseIntQuery(c, "limit", 0))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": articleListItems(articles)})
}

// TrendingArticles is the trending-score analytics endpoint.
func (a *API) TrendingArticles(c *gin.Context) {
	scored, err := a.analytics.Trending(parseIntQuery(c, "days", 0), parseIntQuery(c, "limit", 0))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(scored))
	for i := range scored {
		item := articleListJSON(&scored[i].Article)
		item["trending_score"] = scored[i].Score
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"results": items})
}

// TagFrequency is the tag-count analytics endpoint.
func (a *API) TagFrequency(c *gin.Context) {
	counts, err := a.analytics.TagFrequency(parseIntQuery(c, "days", 0), parseIntQuery(c, "limit", 0))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": counts})
}

func articleListItems(articles []db.Article) []gin.H {
	items := make([]gin.H, 0, len(articles))
	for i := range articles {
		items = append(items, articleListJSON(&articles[i]))
	}
	return items
}

func articleListJSON(article *db.Article) gin.H {
	return gin.H{
		"id":               article.ID,
		"title":            article.Title,
		"slug":             article.Slug,
		"summary":          article.Summary,
		"subtitle":         article.Subtitle,
		"author":           userJSON(&article.Author),
		"category":         article.Category,
		"is_breaking_news": article.IsBreakingNews,
		"featured_image":   featuredImageURL(article),
		"published_date":   article.PublishedDate,
		"view_count":       article.ViewCount,
		"tags":             tagNames(article.Tags),
		"meta_description": article.MetaDescription,
	}
}

func articleDetailJSON(article *db.Article) gin.H {
	payload := articleListJSON(article)
	payload["content"] = article.Content
	if rendered, err := service.RenderContent(article.Content); err == nil {
		payload["content_html"] = rendered
	}
	payload["is_published"] = article.IsPublished
	payload["created_date"] = article.CreatedAt
	payload["updated_date"] = article.UpdatedAt
	payload["scheduled_publish_time"] = article.ScheduledPublishTime
	payload["last_published_update"] = article.LastPublishedUpdate
	if article.CoAuthor != nil {
		payload["co_author"] = userJSON(article.CoAuthor)
	} else {
		payload["co_author"] = nil
	}
	return payload
}

// featuredImageURL resolves the double reference: the library asset wins
// over a direct upload when both are present.
func featuredImageURL(article *db.Article) string {
	if article.FeaturedImageAsset != nil {
		return article.FeaturedImageAsset.FilePath
	}
	return article.FeaturedImage
}

func tagNames(tags []db.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
