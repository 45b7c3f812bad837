package product

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"papyrus_back_end/internal/cache"
	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/services"
	"papyrus_back_end/internal/utils"
)

const bookColumns = `book_id, title, author, description, isbn, price_cents, stock,
	category_id, cover_urls, tags, is_active, created_at, updated_at`

func scanBook(scanner interface {
	Scan(dest ...interface{}) error
}, b *models.Book) error {
	return scanner.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.ISBN, &b.PriceCents,
		&b.Stock, &b.CategoryID, &b.CoverURLs, &b.Tags, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
}

// GetBooks liste les livres actifs, filtrable par catégorie.
// GET /api/books?category_id=...
func GetBooks(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	categoryFilter := c.Query("category_id")

	iter := session.Query("SELECT " + bookColumns + " FROM books").Iter()

	books := []models.Book{}
	var b models.Book
	for {
		b = models.Book{}
		if !iter.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.ISBN, &b.PriceCents,
			&b.Stock, &b.CategoryID, &b.CoverURLs, &b.Tags, &b.IsActive, &b.CreatedAt, &b.UpdatedAt) {
			break
		}
		if !b.IsActive {
			continue
		}
		if categoryFilter != "" && b.CategoryID.String() != categoryFilter {
			continue
		}
		books = append(books, b)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture livres"})
		return
	}

	c.JSON(http.StatusOK, books)
}

// GetBookByID renvoie un livre actif.
// GET /api/books/:id
func GetBookByID(c *gin.Context) {
	bookID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID livre invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var b models.Book
	if err := scanBook(session.Query("SELECT "+bookColumns+" FROM books WHERE book_id = ?", bookID), &b); err != nil || !b.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Livre introuvable"})
		return
	}

	c.JSON(http.StatusOK, b)
}

// CreateBook crée un livre et l'indexe dans Elasticsearch.
// POST /api/admin/books
func CreateBook(c *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"required"`
		Author      string   `json:"author" binding:"required"`
		Description string   `json:"description"`
		ISBN        string   `json:"isbn"`
		PriceCents  int64    `json:"price_cents" binding:"required"`
		Stock       int      `json:"stock"`
		CategoryID  string   `json:"category_id" binding:"required"`
		Tags        []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if req.PriceCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif"})
		return
	}

	categoryID, err := gocql.ParseUUID(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	now := time.Now()
	b := models.Book{
		ID:          gocql.TimeUUID(),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		ISBN:        req.ISBN,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		CategoryID:  categoryID,
		CoverURLs:   []string{},
		Tags:        req.Tags,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := session.Query(`INSERT INTO books (`+bookColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.Description, b.ISBN, b.PriceCents, b.Stock,
		b.CategoryID, b.CoverURLs, b.Tags, b.IsActive, b.CreatedAt, b.UpdatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création livre: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création livre"})
		return
	}

	go services.IndexBook(b)
	utils.LogAction(c, utils.ACTION_BOOK_CREATE, utils.RESOURCE_BOOK, b.ID.String(), nil, b)
	log.Printf("📚 Livre créé: %s (%s)", b.Title, b.ID)
	c.JSON(http.StatusCreated, b)
}

// UpdateBook modifie un livre puis réindexe et invalide le cache.
// PUT /api/admin/books/:id
func UpdateBook(c *gin.Context) {
	bookID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID livre invalide"})
		return
	}

	var req struct {
		Title       *string  `json:"title"`
		Author      *string  `json:"author"`
		Description *string  `json:"description"`
		ISBN        *string  `json:"isbn"`
		PriceCents  *int64   `json:"price_cents"`
		Stock       *int     `json:"stock"`
		CategoryID  *string  `json:"category_id"`
		Tags        []string `json:"tags"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var b models.Book
	if err := scanBook(session.Query("SELECT "+bookColumns+" FROM books WHERE book_id = ?", bookID), &b); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Livre introuvable"})
		return
	}
	old := b

	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.ISBN != nil {
		b.ISBN = *req.ISBN
	}
	if req.PriceCents != nil {
		if *req.PriceCents <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix doit être positif"})
			return
		}
		b.PriceCents = *req.PriceCents
	}
	if req.Stock != nil {
		b.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		cid, err := gocql.ParseUUID(*req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
			return
		}
		b.CategoryID = cid
	}
	if req.Tags != nil {
		b.Tags = req.Tags
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}
	b.UpdatedAt = time.Now()

	if err := session.Query(`UPDATE books SET title = ?, author = ?, description = ?, isbn = ?,
		price_cents = ?, stock = ?, category_id = ?, tags = ?, is_active = ?, updated_at = ?
		WHERE book_id = ?`,
		b.Title, b.Author, b.Description, b.ISBN, b.PriceCents, b.Stock, b.CategoryID,
		b.Tags, b.IsActive, b.UpdatedAt, b.ID).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour livre %s: %v", bookID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour livre"})
		return
	}

	go func() {
		if b.IsActive {
			services.IndexBook(b)
		} else {
			services.RemoveBookFromIndex(b.ID.String())
		}
		cache.InvalidateBookCache(b.ID.String())
	}()

	utils.LogAction(c, utils.ACTION_BOOK_UPDATE, utils.RESOURCE_BOOK, b.ID.String(), old, b)
	c.JSON(http.StatusOK, b)
}

// DeleteBook désactive un livre (soft delete) : les commandes passées
// gardent leur instantané, le livre sort du catalogue et de l'index.
// DELETE /api/admin/books/:id
func DeleteBook(c *gin.Context) {
	bookID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID livre invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query("UPDATE books SET is_active = ?, updated_at = ? WHERE book_id = ?",
		false, time.Now(), bookID).Exec(); err != nil {
		log.Printf("❌ Erreur désactivation livre %s: %v", bookID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression livre"})
		return
	}

	go func() {
		services.RemoveBookFromIndex(bookID.String())
		cache.InvalidateBookCache(bookID.String())
	}()

	utils.LogAction(c, utils.ACTION_BOOK_DELETE, utils.RESOURCE_BOOK, bookID.String(), nil, nil)
	log.Printf("🗑️ Livre désactivé: %s", bookID)
	c.JSON(http.StatusOK, gin.H{"message": "Livre désactivé"})
}
