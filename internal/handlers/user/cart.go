package user

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
)

const cartTTL = 30 * 24 * time.Hour

func cartKey(userID string) string { return "cart:" + userID }

func loadCart(c *gin.Context, userID string) (models.Cart, error) {
	cart := models.Cart{UserID: userID, Items: []models.CartItem{}}
	if !database.RedisEnabled() {
		return cart, nil
	}

	raw, err := database.Redis.Get(c.Request.Context(), cartKey(userID)).Result()
	if err != nil {
		return cart, nil // panier vide ou Redis indisponible
	}
	if err := json.Unmarshal([]byte(raw), &cart.Items); err != nil {
		return cart, err
	}
	return cart, nil
}

func saveCart(c *gin.Context, cart models.Cart) error {
	if !database.RedisEnabled() {
		return nil
	}
	raw, err := json.Marshal(cart.Items)
	if err != nil {
		return err
	}
	return database.Redis.Set(c.Request.Context(), cartKey(cart.UserID), raw, cartTTL).Err()
}

// GetCart renvoie le panier Redis de l'utilisateur.
// GET /api/cart
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")

	cart, err := loadCart(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture panier"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddToCart ajoute un livre au panier (ou cumule la quantité).
// POST /api/cart/items
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		BookID     string `json:"book_id" binding:"required"`
		Title      string `json:"title"`
		PriceCents int64  `json:"price_cents"`
		Quantity   int    `json:"quantity" binding:"required,min=1"`
		CategoryID string `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	cart, err := loadCart(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture panier"})
		return
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].BookID == req.BookID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			BookID:     req.BookID,
			Title:      req.Title,
			PriceCents: req.PriceCents,
			Quantity:   req.Quantity,
			CategoryID: req.CategoryID,
		})
	}

	if err := saveCart(c, cart); err != nil {
		log.Printf("❌ Erreur sauvegarde panier %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// UpdateCartItem change la quantité d'une ligne (0 = suppression).
// PUT /api/cart/items/:bookId
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	bookID := c.Param("bookId")

	var req struct {
		Quantity int `json:"quantity" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantité invalide"})
		return
	}

	cart, err := loadCart(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture panier"})
		return
	}

	items := cart.Items[:0]
	found := false
	for _, item := range cart.Items {
		if item.BookID == bookID {
			found = true
			if req.Quantity == 0 {
				continue
			}
			item.Quantity = req.Quantity
		}
		items = append(items, item)
	}
	cart.Items = items

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Article absent du panier"})
		return
	}

	if err := saveCart(c, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart vide le panier.
// DELETE /api/cart
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")

	if database.RedisEnabled() {
		if err := database.Redis.Del(c.Request.Context(), cartKey(userID)).Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur suppression panier"})
			return
		}
		log.Printf("🧹 Panier vidé pour %s", userID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
