package product

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
)

// GetBookReviews liste les avis d'un livre avec la note moyenne.
// GET /api/books/:id/reviews
func GetBookReviews(c *gin.Context) {
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

	iter := session.Query(`SELECT review_id, book_id, user_id, user_name, rating, comment, created_at
		FROM reviews WHERE book_id = ?`, bookID).Iter()

	reviews := []models.Review{}
	var r models.Review
	var ratingSum int
	for iter.Scan(&r.ID, &r.BookID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &r.CreatedAt) {
		reviews = append(reviews, r)
		ratingSum += r.Rating
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture avis"})
		return
	}

	average := 0.0
	if len(reviews) > 0 {
		average = float64(ratingSum) / float64(len(reviews))
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
		"average": average,
	})
}

// CreateReview ajoute un avis (un seul par utilisateur et par livre).
// POST /api/books/:id/reviews
func CreateReview(c *gin.Context) {
	userID := c.GetString("user_id")

	bookID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID livre invalide"})
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note entre 1 et 5 requise"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var existing gocql.UUID
	if err := session.Query(`SELECT review_id FROM reviews WHERE book_id = ? AND user_id = ? ALLOW FILTERING`,
		bookID, userID).Scan(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Vous avez déjà laissé un avis sur ce livre"})
		return
	}

	r := models.Review{
		ID:        gocql.TimeUUID(),
		BookID:    bookID,
		UserID:    userID,
		UserName:  c.GetString("email"),
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	if err := session.Query(`INSERT INTO reviews (review_id, book_id, user_id, user_name, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.BookID, r.UserID, r.UserName, r.Rating, r.Comment, r.CreatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création avis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création avis"})
		return
	}

	c.JSON(http.StatusCreated, r)
}
