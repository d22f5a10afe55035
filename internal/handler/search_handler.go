package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/siwu-945/FunTrip-sub000/internal/model"
)

// TrackSearcher is the catalog search contract consumed by the handler.
type TrackSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]model.Song, error)
}

// SearchHandler proxies track search to the catalog provider.
type SearchHandler struct {
	catalog TrackSearcher
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(catalog TrackSearcher) *SearchHandler {
	return &SearchHandler{catalog: catalog}
}

// Search godoc
// GET /search?q=...&limit=...
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	tracks, err := h.catalog.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": tracks})
}
