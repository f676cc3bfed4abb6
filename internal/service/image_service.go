package service

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	_ "image/gif"

	"github.com/rubenatello/dignov2/internal/db"
	"golang.org/x/image/draw"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrImageFileMissing = errors.New("image file is required")
)

const (
	maxImageWidth  = 1200
	maxImageHeight = 800
	jpegQuality    = 85
)

// ImageMeta is the outcome of processing an image binary.
type ImageMeta struct {
	Width    int
	Height   int
	FileSize int64
}

// ImageService wraps image asset database operations and binary processing.
type ImageService struct {
	db *gorm.DB
}

// ImageFilter describes filters for listing image assets.
type ImageFilter struct {
	Search  string
	Source  string
	Page    int
	PerPage int
}

// ImageListResult aggregates paginated image results.
type ImageListResult struct {
	Images     []db.Image
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// ImageInput represents fields accepted when creating or updating an image
// asset record. Meta is the outcome of ExtractMetadata; callers that failed
// to process the binary pass nil and the record saves without dimensions.
type ImageInput struct {
	Title       string
	Description string
	AltText     string
	Source      string
	SourceURL   string
	FilePath    string
	Meta        *ImageMeta
}

// NewImageService creates an ImageService instance.
func NewImageService(gdb *gorm.DB) *ImageService {
	return &ImageService{db: gdb}
}

// List returns image assets matching the filter, newest first.
func (s *ImageService) List(filter ImageFilter) (*ImageListResult, error) {
	result := &ImageListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 20),
	}

	query := s.db.Model(&db.Image{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(source) LIKE ? OR LOWER(alt_text) LIKE ?",
			like, like, like, like,
		)
	}
	if source := strings.TrimSpace(filter.Source); source != "" {
		query = query.Where("LOWER(source) LIKE ?", "%"+strings.ToLower(source)+"%")
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	if err := query.Preload("UploadedBy").
		Order("created_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Images).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// Recent returns the most recently uploaded assets.
func (s *ImageService) Recent(limit int) ([]db.Image, error) {
	if limit <= 0 {
		limit = 20
	}
	var images []db.Image
	if err := s.db.Preload("UploadedBy").
		Order("created_at desc").
		Limit(limit).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Get fetches an image asset by id.
func (s *ImageService) Get(id uint) (*db.Image, error) {
	var img db.Image
	if err := s.db.Preload("UploadedBy").First(&img, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &img, nil
}

// Create stores an image record. Metadata comes from a prior
// ExtractMetadata call; a nil Meta saves the record with null dimensions.
func (s *ImageService) Create(input ImageInput, uploadedBy *db.User) (*db.Image, error) {
	if strings.TrimSpace(input.FilePath) == "" {
		return nil, ErrImageFileMissing
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, FieldErrors{"title": "title is required"}
	}

	img := db.Image{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		AltText:     strings.TrimSpace(input.AltText),
		Source:      strings.TrimSpace(input.Source),
		SourceURL:   strings.TrimSpace(input.SourceURL),
		FilePath:    strings.TrimSpace(input.FilePath),
	}
	if uploadedBy != nil {
		img.UploadedByID = &uploadedBy.ID
	}
	if input.Meta != nil {
		img.Width = &input.Meta.Width
		img.Height = &input.Meta.Height
		img.FileSize = &input.Meta.FileSize
	}

	if err := s.db.Create(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// ImageUpdate represents a partial edit of an asset's descriptive fields;
// nil fields are left unchanged.
type ImageUpdate struct {
	Title       *string
	Description *string
	AltText     *string
	Source      *string
	SourceURL   *string
}

// Update modifies the descriptive fields of an asset. The binary itself is
// immutable once uploaded.
func (s *ImageService) Update(id uint, update ImageUpdate) (*db.Image, error) {
	img, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if title := strings.TrimSpace(*update.Title); title != "" {
			img.Title = title
		}
	}
	if update.Description != nil {
		img.Description = strings.TrimSpace(*update.Description)
	}
	if update.AltText != nil {
		img.AltText = strings.TrimSpace(*update.AltText)
	}
	if update.Source != nil {
		img.Source = strings.TrimSpace(*update.Source)
	}
	if update.SourceURL != nil {
		img.SourceURL = strings.TrimSpace(*update.SourceURL)
	}

	if err := s.db.Save(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}

// Delete removes an image asset record.
func (s *ImageService) Delete(id uint) error {
	img, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Delete(img).Error
}

// IncrementUsage bumps the manual usage counter in a single UPDATE.
func (s *ImageService) IncrementUsage(id uint) (*db.Image, error) {
	result := s.db.Model(&db.Image{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrImageNotFound
	}
	return s.Get(id)
}

// ExtractMetadata decodes the image at path, downscales it in place when it
// exceeds the 1200x800 cap (aspect preserved, Catmull-Rom filter), and
// returns the final dimensions and byte size.
func ExtractMetadata(path string) (ImageMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageMeta{}, err
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ImageMeta{}, err
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxImageWidth || height > maxImageHeight {
		scaleW := float64(maxImageWidth) / float64(width)
		scaleH := float64(maxImageHeight) / float64(height)
		scale := scaleW
		if scaleH < scale {
			scale = scaleH
		}

		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}

		resized := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(resized, resized.Bounds(), src, bounds, draw.Over, nil)

		var buf bytes.Buffer
		switch format {
		case "png":
			err = png.Encode(&buf, resized)
		default:
			err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality})
		}
		if err != nil {
			return ImageMeta{}, err
		}

		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return ImageMeta{}, err
		}
		data = buf.Bytes()
	}

	return ImageMeta{Width: width, Height: height, FileSize: int64(len(data))}, nil
}
