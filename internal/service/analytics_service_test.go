package service

import (
	"testing"
	"time"

	"github.com/rubenatello/dignov2/internal/db"
	"gorm.io/gorm"
)

func seedPublishedArticle(t *testing.T, gdb *gorm.DB, authorID uint, title string, publishedAt time.Time, views uint, tags ...string) *db.Article {
	t.Helper()
	article := db.Article{
		Title:         title,
		Slug:          Slugify(title),
		Content:       "body",
		AuthorID:      authorID,
		Category:      db.CategoryPolitics,
		IsPublished:   true,
		PublishedDate: &publishedAt,
		ViewCount:     views,
	}
	if err := gdb.Create(&article).Error; err != nil {
		t.Fatalf("seed article %s: %v", title, err)
	}
	for _, name := range tags {
		var tag db.Tag
		if err := gdb.Where("name = ?", name).
			Attrs(db.Tag{Name: name, Slug: Slugify(name)}).
			FirstOrCreate(&tag).Error; err != nil {
			t.Fatalf("seed tag %s: %v", name, err)
		}
		if err := gdb.Model(&article).Association("Tags").Append(&tag); err != nil {
			t.Fatalf("attach tag %s: %v", name, err)
		}
	}
	return &article
}

func TestAnalyticsService_TrendingScore(t *testing.T) {
	gdb := setupTestDB(t)
	author := createTestUser(t, gdb, "analyst1", db.RoleWriter)

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := NewAnalyticsService(gdb).WithClock(func() time.Time { return now })

	// 90 views over 3 full days scores 30; a same-day article divides by 1.
	seedPublishedArticle(t, gdb, author.ID, "Three Days Old", now.AddDate(0, 0, -3), 90)
	seedPublishedArticle(t, gdb, author.ID, "Published Today", now.Add(-2*time.Hour), 45)

	scored, err := svc.Trending(0, 0)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("expected 2 scored articles, got %d", len(scored))
	}

	byTitle := map[string]float64{}
	for _, row := range scored {
		byTitle[row.Article.Title] = row.Score
	}
	if byTitle["Three Days Old"] != 30.0 {
		t.Fatalf("expected score 30.0, got %v", byTitle["Three Days Old"])
	}
	if byTitle["Published Today"] != 45.0 {
		t.Fatalf("expected same-day score to equal view count, got %v", byTitle["Published Today"])
	}
	if scored[0].Article.Title != "Published Today" {
		t.Fatalf("expected descending score order, got %q first", scored[0].Article.Title)
	}
}

func TestAnalyticsService_TrendingWindowAndLimit(t *testing.T) {
	gdb := setupTestDB(t)
	author := createTestUser(t, gdb, "analyst2", db.RoleWriter)

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := NewAnalyticsService(gdb).WithClock(func() time.Time { return now })

	seedPublishedArticle(t, gdb, author.ID, "Inside Window", now.AddDate(0, 0, -10), 100)
	seedPublishedArticle(t, gdb, author.ID, "Outside Window", now.AddDate(0, 0, -20), 100)

	scored, err := svc.Trending(14, 0)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(scored) != 1 || scored[0].Article.Title != "Inside Window" {
		t.Fatalf("lookback window not applied: %v", scored)
	}

	// The limit is capped at 50.
	if _, err := svc.Trending(14, 500); err != nil {
		t.Fatalf("trending with oversized limit: %v", err)
	}
}

func TestAnalyticsService_TopViewed(t *testing.T) {
	gdb := setupTestDB(t)
	author := createTestUser(t, gdb, "analyst3", db.RoleWriter)

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := NewAnalyticsService(gdb).WithClock(func() time.Time { return now })

	seedPublishedArticle(t, gdb, author.ID, "Runner Up", now.AddDate(0, 0, -5), 200)
	seedPublishedArticle(t, gdb, author.ID, "Front Page", now.AddDate(0, 0, -2), 900)
	seedPublishedArticle(t, gdb, author.ID, "Too Old", now.AddDate(0, 0, -45), 5000)

	articles, err := svc.TopViewed(0, 0)
	if err != nil {
		t.Fatalf("top viewed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles inside 30-day window, got %d", len(articles))
	}
	if articles[0].Title != "Front Page" {
		t.Fatalf("expected view-count ordering, got %q first", articles[0].Title)
	}
}

func TestAnalyticsService_TagFrequency(t *testing.T) {
	gdb := setupTestDB(t)
	author := createTestUser(t, gdb, "analyst4", db.RoleWriter)

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := NewAnalyticsService(gdb).WithClock(func() time.Time { return now })

	seedPublishedArticle(t, gdb, author.ID, "First", now.AddDate(0, 0, -1), 1, "politics", "senate")
	seedPublishedArticle(t, gdb, author.ID, "Second", now.AddDate(0, 0, -2), 1, "politics")
	seedPublishedArticle(t, gdb, author.ID, "Ancient", now.AddDate(0, 0, -60), 1, "politics")

	counts, err := svc.TagFrequency(0, 0)
	if err != nil {
		t.Fatalf("tag frequency: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 tag rows, got %v", counts)
	}
	if counts[0].Name != "politics" || counts[0].Count != 2 {
		t.Fatalf("expected politics=2 first, got %+v", counts[0])
	}
	if counts[1].Name != "senate" || counts[1].Count != 1 {
		t.Fatalf("expected senate=1 second, got %+v", counts[1])
	}
}
