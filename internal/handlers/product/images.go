package product

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/services"
)

var allowedCoverExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadBookCover envoie une couverture dans MinIO et l'ajoute au livre.
// POST /api/admin/books/:id/cover
func UploadBookCover(c *gin.Context) {
	bookID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID livre invalide"})
		return
	}

	file, err := c.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'cover' requis"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedCoverExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format non supporté (jpg, png, webp)"})
		return
	}
	if file.Size > 5<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier trop volumineux (max 5 Mo)"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var coverURLs []string
	if err := session.Query("SELECT cover_urls FROM books WHERE book_id = ?", bookID).
		Scan(&coverURLs); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Livre introuvable"})
		return
	}

	objectName := "covers/" + bookID.String() + "/" + uuid.NewString() + ext
	url, err := services.UploadCover(file, objectName)
	if err != nil {
		log.Printf("❌ Erreur upload couverture %s: %v", bookID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload"})
		return
	}

	coverURLs = append(coverURLs, url)
	if err := session.Query("UPDATE books SET cover_urls = ? WHERE book_id = ?",
		coverURLs, bookID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour livre"})
		return
	}

	log.Printf("🪣 Couverture ajoutée pour %s: %s", bookID, objectName)
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
