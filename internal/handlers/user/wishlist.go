package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"papyrus_back_end/internal/cache"
	"papyrus_back_end/internal/database"
)

func wishlistKey(userID string) string { return "wishlist:" + userID }

// GetWishlist renvoie les livres favoris (set Redis), titres résolus via cache.
// GET /api/wishlist
func GetWishlist(c *gin.Context) {
	userID := c.GetString("user_id")

	if !database.RedisEnabled() {
		c.JSON(http.StatusOK, gin.H{"items": []gin.H{}})
		return
	}

	bookIDs, err := database.Redis.SMembers(c.Request.Context(), wishlistKey(userID)).Result()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture favoris"})
		return
	}

	titles := cache.GetBookTitlesFromCache(bookIDs)
	items := make([]gin.H, 0, len(bookIDs))
	for _, id := range bookIDs {
		items = append(items, gin.H{"book_id": id, "title": titles[id]})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddToWishlist ajoute un livre aux favoris.
// POST /api/wishlist/:bookId
func AddToWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	bookID := c.Param("bookId")

	if !database.RedisEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Favoris indisponibles"})
		return
	}

	if err := database.Redis.SAdd(c.Request.Context(), wishlistKey(userID), bookID).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur ajout favori"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ajouté aux favoris"})
}

// RemoveFromWishlist retire un livre des favoris.
// DELETE /api/wishlist/:bookId
func RemoveFromWishlist(c *gin.Context) {
	userID := c.GetString("user_id")
	bookID := c.Param("bookId")

	if !database.RedisEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Favoris indisponibles"})
		return
	}

	if err := database.Redis.SRem(c.Request.Context(), wishlistKey(userID), bookID).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur suppression favori"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Retiré des favoris"})
}
