package service

import (
	"errors"
	"strings"
	"time"

	"github.com/rubenatello/dignov2/internal/db"
	"gorm.io/gorm"
)

var (
	ErrArticleNotFound = errors.New("article not found")
)

const (
	defaultRecentListCap = 20
	featuredWindow       = 30 * 24 * time.Hour
	breakingWindow       = 12 * time.Hour
	highlightLimit       = 5
)

// ArticleService wraps article related database operations.
type ArticleService struct {
	db        *gorm.DB
	tags      *TagService
	recentCap int
	now       func() time.Time
}

// ArticleFilter describes filters for listing articles. All filters compose
// conjunctively; Viewer drives draft visibility.
type ArticleFilter struct {
	Search   string
	Category string
	Tag      string
	Page     int
	PerPage  int
	Viewer   *db.User
}

// ArticleListResult aggregates paginated list data.
type ArticleListResult struct {
	Articles   []db.Article
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// ArticleInput represents fields accepted when creating an article. The
// author is never part of the input; it always comes from the requester.
type ArticleInput struct {
	Title                string
	Slug                 string
	Content              string
	Summary              string
	Subtitle             string
	Category             string
	IsBreakingNews       bool
	FeaturedImage        string
	FeaturedImageAssetID *uint
	CoAuthorID           *uint
	IsPublished          bool
	PublishedDate        *time.Time
	ScheduledPublishTime *time.Time
	Tags                 []string
	MetaDescription      string
}

// ArticleUpdate represents a partial update; nil fields are left unchanged.
type ArticleUpdate struct {
	Title                *string
	Content              *string
	Summary              *string
	Subtitle             *string
	Category             *string
	IsBreakingNews       *bool
	FeaturedImage        *string
	FeaturedImageAssetID *uint
	ClearFeaturedAsset   bool
	CoAuthorID           *uint
	ClearCoAuthor        bool
	IsPublished          *bool
	ScheduledPublishTime *time.Time
	Tags                 *[]string
	MetaDescription      *string
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB, tags *TagService) *ArticleService {
	return &ArticleService{
		db:        gdb,
		tags:      tags,
		recentCap: defaultRecentListCap,
		now:       time.Now,
	}
}

// WithRecentListCap overrides the window applied to unsearched listings.
func (s *ArticleService) WithRecentListCap(limit int) *ArticleService {
	if limit > 0 {
		s.recentCap = limit
	}
	return s
}

// WithClock overrides the time source, for tests.
func (s *ArticleService) WithClock(now func() time.Time) *ArticleService {
	if now != nil {
		s.now = now
	}
	return s
}

// List returns articles matching the filter. Non-staff viewers only see
// published articles; without a search term the listing is additionally
// capped to the most recent items.
func (s *ArticleService) List(filter ArticleFilter) (*ArticleListResult, error) {
	result := &ArticleListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 10),
	}

	countQuery := s.applyFilters(s.db.Model(&db.Article{}), filter)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	capped := strings.TrimSpace(filter.Search) == ""
	if capped && result.Total > int64(s.recentCap) {
		result.Total = int64(s.recentCap)
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	limit := result.PerPage
	if capped {
		if offset >= s.recentCap {
			result.Articles = []db.Article{}
			return result, nil
		}
		if offset+limit > s.recentCap {
			limit = s.recentCap - offset
		}
	}

	dataQuery := s.applyFilters(
		s.db.Model(&db.Article{}).
			Preload("Tags").
			Preload("Author").
			Preload("CoAuthor").
			Preload("FeaturedImageAsset"),
		filter,
	)

	if err := dataQuery.
		Order("articles.published_date desc").
		Order("articles.created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&result.Articles).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// GetBySlug fetches an article by slug. Drafts are only visible to staff and
// superusers. countView increments the view counter as a single UPDATE.
func (s *ArticleService) GetBySlug(slug string, viewer *db.User, countView bool) (*db.Article, error) {
	var article db.Article
	query := s.db.Preload("Tags").
		Preload("Author").
		Preload("CoAuthor").
		Preload("FeaturedImageAsset").
		Where("slug = ?", slug)
	if !canSeeDrafts(viewer) {
		query = query.Where("is_published = ?", true)
	}

	if err := query.First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	if countView {
		if err := s.db.Model(&db.Article{}).
			Where("id = ?", article.ID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
			return nil, err
		}
		article.ViewCount++
	}

	return &article, nil
}

// GetByID fetches an article by numeric id, same visibility rules as
// GetBySlug but without view counting.
func (s *ArticleService) GetByID(id uint, viewer *db.User) (*db.Article, error) {
	var article db.Article
	query := s.db.Preload("Tags").
		Preload("Author").
		Preload("CoAuthor").
		Preload("FeaturedImageAsset").
		Where("id = ?", id)
	if !canSeeDrafts(viewer) {
		query = query.Where("is_published = ?", true)
	}

	if err := query.First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// Exists reports whether a slug is taken, returning the owning article id.
func (s *ArticleService) Exists(slug string) (bool, uint, error) {
	var article db.Article
	err := s.db.Select("id").Where("slug = ?", slug).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, article.ID, nil
}

// Create persists a new article authored by author. Tags are resolved
// get-or-create by name; publishing at creation stamps the published date.
func (s *ArticleService) Create(input ArticleInput, author *db.User) (*db.Article, error) {
	fieldErrs := FieldErrors{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		fieldErrs["title"] = "title is required"
	}
	if strings.TrimSpace(input.Content) == "" {
		fieldErrs["content"] = "content is required"
	}

	category := db.Category(strings.TrimSpace(input.Category))
	if category == "" {
		category = db.CategoryPolitics
	} else if !category.Valid() {
		fieldErrs["category"] = "unknown category"
	}

	if len(input.MetaDescription) > 160 {
		fieldErrs["meta_description"] = "must be 160 characters or fewer"
	}
	if len(input.Summary) > 300 {
		fieldErrs["summary"] = "must be 300 characters or fewer"
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	} else {
		slug = Slugify(slug)
	}
	if slug == "" && title != "" {
		fieldErrs["slug"] = "could not derive a slug from the title"
	}

	if slug != "" {
		taken, _, err := s.Exists(slug)
		if err != nil {
			return nil, err
		}
		if taken {
			fieldErrs["slug"] = "slug is already in use"
		}
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	article := db.Article{
		Title:                title,
		Slug:                 slug,
		Content:              SanitizeHTML(input.Content),
		Summary:              strings.TrimSpace(input.Summary),
		Subtitle:             strings.TrimSpace(input.Subtitle),
		AuthorID:             author.ID,
		CoAuthorID:           input.CoAuthorID,
		Category:             category,
		IsBreakingNews:       input.IsBreakingNews,
		FeaturedImage:        strings.TrimSpace(input.FeaturedImage),
		FeaturedImageAssetID: input.FeaturedImageAssetID,
		IsPublished:          input.IsPublished,
		ScheduledPublishTime: input.ScheduledPublishTime,
		MetaDescription:      strings.TrimSpace(input.MetaDescription),
	}

	if article.IsPublished {
		if input.PublishedDate != nil {
			article.PublishedDate = input.PublishedDate
		} else {
			now := s.now()
			article.PublishedDate = &now
		}
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&article).Error; err != nil {
			return err
		}

		tags, err := s.tags.GetOrCreateByNames(tx, input.Tags)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&article).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}

		return tx.Preload("Tags").Preload("Author").First(&article, article.ID).Error
	}); err != nil {
		return nil, err
	}

	return &article, nil
}

// Update applies a partial update to the article at slug.
//
// Publication transitions: the first flip to published while the published
// date is unset stamps it, exactly once. Every other edit to an article that
// was already published stamps the last-published-update time. Unpublishing
// keeps the published date, so a later republish does not mint a new one.
func (s *ArticleService) Update(slug string, update ArticleUpdate) (*db.Article, error) {
	var article db.Article
	if err := s.db.Preload("Tags").Where("slug = ?", slug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	fieldErrs := FieldErrors{}
	wasPublished := article.IsPublished

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			fieldErrs["title"] = "title is required"
		} else {
			article.Title = title
		}
	}
	if update.Content != nil {
		if strings.TrimSpace(*update.Content) == "" {
			fieldErrs["content"] = "content is required"
		} else {
			article.Content = SanitizeHTML(*update.Content)
		}
	}
	if update.Summary != nil {
		if len(*update.Summary) > 300 {
			fieldErrs["summary"] = "must be 300 characters or fewer"
		} else {
			article.Summary = strings.TrimSpace(*update.Summary)
		}
	}
	if update.Subtitle != nil {
		article.Subtitle = strings.TrimSpace(*update.Subtitle)
	}
	if update.Category != nil {
		category := db.Category(strings.TrimSpace(*update.Category))
		if !category.Valid() {
			fieldErrs["category"] = "unknown category"
		} else {
			article.Category = category
		}
	}
	if update.MetaDescription != nil {
		if len(*update.MetaDescription) > 160 {
			fieldErrs["meta_description"] = "must be 160 characters or fewer"
		} else {
			article.MetaDescription = strings.TrimSpace(*update.MetaDescription)
		}
	}
	if update.IsBreakingNews != nil {
		article.IsBreakingNews = *update.IsBreakingNews
	}
	if update.FeaturedImage != nil {
		article.FeaturedImage = strings.TrimSpace(*update.FeaturedImage)
	}
	if update.FeaturedImageAssetID != nil {
		article.FeaturedImageAssetID = update.FeaturedImageAssetID
	}
	if update.ClearFeaturedAsset {
		article.FeaturedImageAssetID = nil
	}
	if update.CoAuthorID != nil {
		article.CoAuthorID = update.CoAuthorID
	}
	if update.ClearCoAuthor {
		article.CoAuthorID = nil
	}
	if update.ScheduledPublishTime != nil {
		article.ScheduledPublishTime = update.ScheduledPublishTime
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	now := s.now()
	if update.IsPublished != nil {
		article.IsPublished = *update.IsPublished
	}
	if article.IsPublished && article.PublishedDate == nil {
		// Initial publish. The date is stamped here and never again.
		article.PublishedDate = &now
	} else if wasPublished {
		article.LastPublishedUpdate = &now
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&article).Error; err != nil {
			return err
		}

		if update.Tags != nil {
			tags, err := s.tags.GetOrCreateByNames(tx, *update.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&article).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}

		return tx.Preload("Tags").Preload("Author").Preload("CoAuthor").First(&article, article.ID).Error
	}); err != nil {
		return nil, err
	}

	return &article, nil
}

// Delete removes an article by slug.
func (s *ArticleService) Delete(slug string) error {
	var article db.Article
	if err := s.db.Where("slug = ?", slug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return err
	}
	return s.db.Select("Tags").Delete(&article).Error
}

// Featured returns the five most viewed articles published in the last
// thirty days.
func (s *ArticleService) Featured() ([]db.Article, error) {
	since := s.now().Add(-featuredWindow)
	var articles []db.Article
	if err := s.db.Preload("Tags").Preload("Author").Preload("FeaturedImageAsset").
		Where("is_published = ? AND published_date >= ?", true, since).
		Order("view_count desc").
		Limit(highlightLimit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// Breaking returns up to five breaking-news articles published within the
// last twelve hours, newest first.
func (s *ArticleService) Breaking() ([]db.Article, error) {
	since := s.now().Add(-breakingWindow)
	var articles []db.Article
	if err := s.db.Preload("Tags").Preload("Author").Preload("FeaturedImageAsset").
		Where("is_published = ? AND is_breaking_news = ? AND published_date >= ?", true, true, since).
		Order("published_date desc").
		Limit(highlightLimit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *ArticleService) applyFilters(query *gorm.DB, filter ArticleFilter) *gorm.DB {
	if !canSeeDrafts(filter.Viewer) {
		query = query.Where("articles.is_published = ?", true)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.
			Joins("JOIN users ON users.id = articles.author_id").
			Where(
				"LOWER(articles.title) LIKE ? OR LOWER(articles.summary) LIKE ? OR LOWER(articles.content) LIKE ? OR LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ?",
				like, like, like, like, like,
			)
	}

	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("articles.category = ?", category)
	}

	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		subQuery := s.db.Model(&db.Article{}).
			Select("articles.id").
			Joins("JOIN article_tags ON articles.id = article_tags.article_id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.name LIKE ?", "%"+tag+"%").
			Distinct()
		query = query.Where("articles.id IN (?)", subQuery)
	}

	return query
}

func canSeeDrafts(viewer *db.User) bool {
	return viewer != nil && (viewer.IsStaff || viewer.IsSuperuser)
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
