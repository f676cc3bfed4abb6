package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListTags returns every tag, alphabetical.
func (a *API) ListTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		items = append(items, gin.H{
			"id":   tag.ID,
			"name": tag.Name,
			"slug": tag.Slug,
		})
	}
	c.JSON(http.StatusOK, gin.H{"results": items})
}

// SuggestTags returns up to ten tag names for editor autocomplete.
func (a *API) SuggestTags(c *gin.Context) {
	tags, err := a.tags.Suggest(c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	c.JSON(http.StatusOK, gin.H{"results": names})
}
