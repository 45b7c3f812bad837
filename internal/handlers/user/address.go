package user

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"papyrus_back_end/internal/apperr"
	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/store"
)

// Addresses est injecté au démarrage (Scylla ou mémoire selon la config).
var Addresses store.AddressStore

func addressError(c *gin.Context, err error) {
	switch {
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"message": "Adresse introuvable"})
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		log.Printf("❌ Erreur adresses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne"})
	}
}

// GetAddresses liste les adresses de l'utilisateur courant.
// GET /api/addresses
func GetAddresses(c *gin.Context) {
	userID := c.GetString("user_id")

	addresses, err := Addresses.List(c.Request.Context(), userID)
	if err != nil {
		addressError(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

// CreateAddress ajoute une adresse. La première adresse d'un utilisateur
// devient automatiquement son adresse par défaut.
// POST /api/addresses
func CreateAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Label     string `json:"label"`
		Receiver  string `json:"receiver" binding:"required"`
		Phone     string `json:"phone"`
		Province  string `json:"province" binding:"required"`
		District  string `json:"district"`
		Ward      string `json:"ward"`
		Detail    string `json:"detail" binding:"required"`
		IsDefault bool   `json:"isDefault"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	addr, err := Addresses.Create(c.Request.Context(), models.Address{
		UserID:    userID,
		Label:     req.Label,
		Receiver:  req.Receiver,
		Phone:     req.Phone,
		Province:  req.Province,
		District:  req.District,
		Ward:      req.Ward,
		Detail:    req.Detail,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		addressError(c, err)
		return
	}

	c.JSON(http.StatusCreated, addr)
}

// UpdateAddress modifie une adresse existante (patch partiel).
// PUT /api/addresses/:id
func UpdateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	addressID := c.Param("id")

	var req struct {
		Label     *string `json:"label"`
		Receiver  *string `json:"receiver"`
		Phone     *string `json:"phone"`
		Province  *string `json:"province"`
		District  *string `json:"district"`
		Ward      *string `json:"ward"`
		Detail    *string `json:"detail"`
		IsDefault *bool   `json:"isDefault"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	addr, err := Addresses.Update(c.Request.Context(), userID, addressID, store.AddressPatch{
		Label:     req.Label,
		Receiver:  req.Receiver,
		Phone:     req.Phone,
		Province:  req.Province,
		District:  req.District,
		Ward:      req.Ward,
		Detail:    req.Detail,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		addressError(c, err)
		return
	}

	c.JSON(http.StatusOK, addr)
}

// DeleteAddress supprime une adresse. Si c'était l'adresse par défaut et
// qu'il en reste, la plus récemment modifiée est promue.
// DELETE /api/addresses/:id
func DeleteAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	addressID := c.Param("id")

	if err := Addresses.Delete(c.Request.Context(), userID, addressID); err != nil {
		addressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse supprimée"})
}

// SetDefaultAddress marque une adresse comme adresse par défaut.
// PATCH /api/addresses/:id/default
func SetDefaultAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	addressID := c.Param("id")

	if err := Addresses.SetDefault(c.Request.Context(), userID, addressID); err != nil {
		addressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse par défaut mise à jour"})
}
