package product

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
)

// GetCategories liste toutes les catégories.
// GET /api/categories
func GetCategories(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query("SELECT category_id, name, slug, description, created_at FROM categories").Iter()

	categories := []models.Category{}
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.CreatedAt) {
		categories = append(categories, cat)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateCategory crée une catégorie (admin).
// POST /api/admin/categories
func CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom requis"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	cat := models.Category{
		ID:          gocql.TimeUUID(),
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
		CreatedAt:   time.Now(),
	}

	if err := session.Query(`INSERT INTO categories (category_id, name, slug, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.CreatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie"})
		return
	}

	log.Printf("✅ Catégorie créée: %s", cat.Name)
	c.JSON(http.StatusCreated, cat)
}

// slugify : "Romans policiers" → "romans-policiers"
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(
		" ", "-", "é", "e", "è", "e", "ê", "e", "à", "a", "ç", "c", "ù", "u", "ô", "o", "î", "i",
	)
	return replacer.Replace(slug)
}
