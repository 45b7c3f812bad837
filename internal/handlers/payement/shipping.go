package payement

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/pricing"
)

// GetShippingOptions renvoie les options de livraison pour une province.
// GET /api/shipping/options?province=bruxelles
func GetShippingOptions(c *gin.Context) {
	province := c.Query("province")

	standard := pricing.ShippingFeeCents(province)

	options := []models.ShippingOption{
		{
			ID:            "standard",
			Name:          "Livraison standard",
			Description:   "Livraison à domicile en 2 à 4 jours ouvrés",
			PriceCents:    standard,
			EstimatedDays: 3,
		},
		{
			ID:            "express",
			Name:          "Livraison express",
			Description:   "Livraison à domicile en 24h",
			PriceCents:    standard + 400,
			EstimatedDays: 1,
		},
		{
			ID:            "pickup",
			Name:          "Retrait en librairie",
			Description:   "Gratuit, disponible dès le lendemain",
			PriceCents:    0,
			EstimatedDays: 1,
		},
	}

	c.JSON(http.StatusOK, gin.H{"province": province, "options": options})
}

// CalculateShipping évalue les frais pour un panier donné, en tenant compte
// du seuil de livraison gratuite.
// POST /api/shipping/calculate
func CalculateShipping(c *gin.Context) {
	var req struct {
		Province string            `json:"province"`
		Items    []models.CartItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	totals := pricing.ComputeTotals(req.Items, 0, 0)
	threshold := freeShippingThresholdCents()
	free := threshold > 0 && totals.SubtotalCents >= threshold

	standard := pricing.ShippingFeeCents(req.Province)
	if free {
		standard = 0
	}

	calc := models.ShippingCalculation{
		Options: []models.ShippingOption{
			{
				ID:            "standard",
				Name:          "Livraison standard",
				Description:   "Livraison à domicile en 2 à 4 jours ouvrés",
				PriceCents:    standard,
				EstimatedDays: 3,
			},
		},
		FreeThreshold:  threshold,
		CartTotalCents: totals.SubtotalCents,
		IsFree:         free,
	}

	c.JSON(http.StatusOK, calc)
}

func freeShippingThresholdCents() int64 {
	raw := os.Getenv("FREE_SHIPPING_THRESHOLD_CENTS")
	if raw == "" {
		return 5000
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 5000
	}
	return v
}
