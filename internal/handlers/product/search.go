package product

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"papyrus_back_end/internal/services"
)

// SearchBooks interroge l'index Elasticsearch.
// GET /api/books/search?q=...
func SearchBooks(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q requis"})
		return
	}

	results, err := services.SearchBooks(query)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recherche indisponible"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "results": results, "count": len(results)})
}
