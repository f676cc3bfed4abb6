package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rubenatello/dignov2/internal/db"
	"github.com/rubenatello/dignov2/internal/service"
)

// ListImages returns the image library, filtered and paginated.
func (a *API) ListImages(c *gin.Context) {
	result, err := a.images.List(service.ImageFilter{
		Search:  c.Query("search"),
		Source:  c.Query("source"),
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "page_size", 20),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results":     imageItems(result.Images),
		"count":       result.Total,
		"page":        result.Page,
		"page_size":   result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// RecentImages returns the twenty most recent uploads.
func (a *API) RecentImages(c *gin.Context) {
	images, err := a.images.Recent(20)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": imageItems(images)})
}

// GetImage returns one asset by id.
func (a *API) GetImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	img, err := a.images.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			respondError(c, http.StatusNotFound, "image not found")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, imageJSON(img))
}

// UploadImage accepts a multipart upload, stores the file under the upload
// directory and records the asset. Metadata extraction is best effort: a
// broken binary still produces a record, just without dimensions.
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondFieldErrors(c, service.FieldErrors{"image": "image file is required"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondFieldErrors(c, service.FieldErrors{"image": "only image uploads are allowed"})
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		a.log.Error().Err(err).Str("dir", a.uploadDir).Msg("failed to create upload dir")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	ext := filepath.Ext(file.Filename)
	filename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	diskPath := filepath.Join(a.uploadDir, filename)

	if err := c.SaveUploadedFile(file, diskPath); err != nil {
		a.log.Error().Err(err).Msg("failed to save upload")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	input := service.ImageInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		AltText:     c.PostForm("alt_text"),
		Source:      c.PostForm("source"),
		SourceURL:   c.PostForm("source_url"),
		FilePath:    a.uploadURL + "/" + filename,
	}

	meta, metaErr := service.ExtractMetadata(diskPath)
	if metaErr != nil {
		a.log.Warn().Err(metaErr).Str("file", filename).Msg("image metadata extraction failed")
	} else {
		input.Meta = &meta
	}

	img, err := a.images.Create(input, currentUser(c))
	if err != nil {
		if fieldErrs, ok := err.(service.FieldErrors); ok {
			respondFieldErrors(c, fieldErrs)
			return
		}
		if errors.Is(err, service.ErrImageFileMissing) {
			respondFieldErrors(c, service.FieldErrors{"image": "image file is required"})
			return
		}
		a.log.Error().Err(err).Msg("failed to create image record")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, imageJSON(img))
}

// UpdateImage edits the descriptive fields of an asset.
func (a *API) UpdateImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		AltText     *string `json:"alt_text"`
		Source      *string `json:"source"`
		SourceURL   *string `json:"source_url"`
	}
	if !bindJSON(c, &payload, "invalid image payload") {
		return
	}

	img, err := a.images.Update(id, service.ImageUpdate{
		Title:       payload.Title,
		Description: payload.Description,
		AltText:     payload.AltText,
		Source:      payload.Source,
		SourceURL:   payload.SourceURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			respondError(c, http.StatusNotFound, "image not found")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, imageJSON(img))
}

// DeleteImage removes an asset record.
func (a *API) DeleteImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.images.Delete(id); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			respondError(c, http.StatusNotFound, "image not found")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

// IncrementImageUsage bumps the manual usage counter.
func (a *API) IncrementImageUsage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	img, err := a.images.IncrementUsage(id)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			respondError(c, http.StatusNotFound, "image not found")
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, imageJSON(img))
}

func imageItems(images []db.Image) []gin.H {
	items := make([]gin.H, 0, len(images))
	for i := range images {
		items = append(items, imageJSON(&images[i]))
	}
	return items
}

func imageJSON(img *db.Image) gin.H {
	payload := gin.H{
		"id":           img.ID,
		"title":        img.Title,
		"description":  img.Description,
		"alt_text":     img.AltText,
		"source":       img.Source,
		"source_url":   img.SourceURL,
		"image":        img.FilePath,
		"width":        img.Width,
		"height":       img.Height,
		"file_size":    img.FileSize,
		"usage_count":  img.UsageCount,
		"created_date": img.CreatedAt,
	}
	if img.UploadedByID != nil {
		payload["uploaded_by"] = userJSON(&img.UploadedBy)
	} else {
		payload["uploaded_by"] = nil
	}
	return payload
}
