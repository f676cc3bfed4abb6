package service

import (
	"sort"
	"time"

	"github.com/rubenatello/dignov2/internal/db"
	"gorm.io/gorm"
)

const (
	defaultTrendingDays  = 14
	defaultTopViewedDays = 30
	defaultTagFreqDays   = 30
	defaultTrendingLimit = 5
	defaultTagFreqLimit  = 10
	maxAnalyticsLimit    = 50
)

// AnalyticsService computes small read-only aggregates over published
// articles.
type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

// TrendingArticle pairs an article with its computed trending score.
type TrendingArticle struct {
	Article db.Article
	Score   float64
}

// TagCount is one row of the tag frequency report.
type TagCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// NewAnalyticsService creates an AnalyticsService instance.
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	if now != nil {
		s.now = now
	}
	return s
}

// TopViewed returns the most viewed published articles inside the lookback
// window, view count descending.
func (s *AnalyticsService) TopViewed(days, limit int) ([]db.Article, error) {
	days = normalizeLookback(days, defaultTopViewedDays)
	limit = normalizeAnalyticsLimit(limit, defaultTrendingLimit)
	since := s.now().AddDate(0, 0, -days)

	var articles []db.Article
	if err := s.db.Preload("Tags").Preload("Author").Preload("FeaturedImageAsset").
		Where("is_published = ? AND published_date >= ?", true, since).
		Order("view_count desc").
		Order("id asc").
		Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// Trending scores published articles in the window by views per elapsed day
// since publish: view_count / max(1, full days since publish). Articles
// published today divide by one, so their score equals their view count.
func (s *AnalyticsService) Trending(days, limit int) ([]TrendingArticle, error) {
	days = normalizeLookback(days, defaultTrendingDays)
	limit = normalizeAnalyticsLimit(limit, defaultTrendingLimit)
	now := s.now()
	since := now.AddDate(0, 0, -days)

	var articles []db.Article
	if err := s.db.Preload("Tags").Preload("Author").Preload("FeaturedImageAsset").
		Where("is_published = ? AND published_date >= ?", true, since).
		Order("id asc").
		Find(&articles).Error; err != nil {
		return nil, err
	}

	scored := make([]TrendingArticle, 0, len(articles))
	for _, article := range articles {
		if article.PublishedDate == nil {
			continue
		}
		elapsed := int(now.Sub(*article.PublishedDate).Hours() / 24)
		if elapsed < 1 {
			elapsed = 1
		}
		scored = append(scored, TrendingArticle{
			Article: article,
			Score:   float64(article.ViewCount) / float64(elapsed),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// TagFrequency counts tag attachments across published articles in the
// window, most frequent first.
func (s *AnalyticsService) TagFrequency(days, limit int) ([]TagCount, error) {
	days = normalizeLookback(days, defaultTagFreqDays)
	limit = normalizeAnalyticsLimit(limit, defaultTagFreqLimit)
	since := s.now().AddDate(0, 0, -days)

	var counts []TagCount
	if err := s.db.Model(&db.Tag{}).
		Select("tags.name AS name, COUNT(article_tags.article_id) AS count").
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Joins("JOIN articles ON articles.id = article_tags.article_id").
		Where("articles.is_published = ? AND articles.published_date >= ? AND articles.deleted_at IS NULL", true, since).
		Group("tags.name").
		Order("count desc, tags.name asc").
		Limit(limit).
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

func normalizeLookback(days, fallback int) int {
	if days <= 0 {
		return fallback
	}
	return days
}

func normalizeAnalyticsLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxAnalyticsLimit {
		return maxAnalyticsLimit
	}
	return limit
}
