package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rubenatello/dignov2/internal/db"
	"gorm.io/gorm"
)

const suggestLimit = 10

// TagService wraps tag related database operations.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// GetOrCreateByNames resolves tag names to records, creating missing tags.
// Names are matched exactly; duplicates and blanks in the input are dropped.
// Distinct names that slugify identically ("News" and "news") get numbered
// slugs so the unique index never turns a create into a 500.
func (s *TagService) GetOrCreateByNames(tx *gorm.DB, names []string) ([]db.Tag, error) {
	if tx == nil {
		tx = s.db
	}

	seen := make(map[string]bool, len(names))
	tags := make([]db.Tag, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag db.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slug, slugErr := availableTagSlug(tx, Slugify(name))
			if slugErr != nil {
				return nil, slugErr
			}
			tag = db.Tag{Name: name, Slug: slug}
			err = tx.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func availableTagSlug(tx *gorm.DB, base string) (string, error) {
	slug := base
	for n := 2; ; n++ {
		var count int64
		if err := tx.Model(&db.Tag{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

// Suggest returns up to ten tag names matching q for autocomplete. An empty
// query returns the ten most used tags across published articles.
func (s *TagService) Suggest(q string) ([]db.Tag, error) {
	q = strings.TrimSpace(q)

	var tags []db.Tag
	if q != "" {
		if err := s.db.
			Where("name LIKE ?", "%"+q+"%").
			Order("name asc").
			Limit(suggestLimit).
			Find(&tags).Error; err != nil {
			return nil, err
		}
		return tags, nil
	}

	if err := s.db.Model(&db.Tag{}).
		Select("tags.*").
		Joins("LEFT JOIN article_tags ON article_tags.tag_id = tags.id").
		Joins("LEFT JOIN articles ON articles.id = article_tags.article_id AND articles.is_published = ? AND articles.deleted_at IS NULL", true).
		Group("tags.id").
		Order("COUNT(articles.id) desc, tags.name asc").
		Limit(suggestLimit).
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// List returns every tag ordered by name.
func (s *TagService) List() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
