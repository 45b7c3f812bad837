package payement

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/refund"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/utils"
)

// RequestRefund ouvre une demande de remboursement pour une commande payée.
// POST /api/refunds
func RequestRefund(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		OrderID string `json:"order_id" binding:"required"`
		Reason  string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	orderID, err := gocql.ParseUUID(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, err := fetchOrder(orderID)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	// Une commande jamais payée se rembourse en l'annulant, pas ici.
	if order.Status == models.OrderStatusPending || isTerminalStatus(order.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette commande n'est pas remboursable"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	r := models.Refund{
		ID:          gocql.TimeUUID(),
		OrderID:     orderID,
		UserID:      userID,
		Reason:      req.Reason,
		Status:      "pending",
		AmountCents: order.TotalCents,
		CreatedAt:   time.Now(),
	}

	if err := session.Query(`INSERT INTO refunds (refund_id, order_id, user_id, reason, status, amount_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.OrderID, r.UserID, r.Reason, r.Status, r.AmountCents, r.CreatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création demande remboursement: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création demande"})
		return
	}

	log.Printf("💸 Demande de remboursement %s pour commande %s (%s)",
		r.ID, orderID, utils.Euros(r.AmountCents))
	c.JSON(http.StatusCreated, r)
}

// ProcessRefund traite une demande : rembourse via Stripe puis bascule la
// commande en refunded (terminal).
// POST /api/admin/refunds/:id/process
func ProcessRefund(c *gin.Context) {
	refundID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID remboursement invalide"})
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	var r models.Refund
	if err := session.Query(`SELECT refund_id, order_id, user_id, reason, status, amount_cents, created_at
		FROM refunds WHERE refund_id = ?`, refundID).
		Scan(&r.ID, &r.OrderID, &r.UserID, &r.Reason, &r.Status, &r.AmountCents, &r.CreatedAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Demande introuvable"})
		return
	}

	if r.Status != "pending" {
		c.JSON(http.StatusConflict, gin.H{"error": "Demande déjà traitée"})
		return
	}

	now := time.Now()

	if !req.Approve {
		if err := session.Query("UPDATE refunds SET status = ?, updated_at = ? WHERE refund_id = ?",
			"rejected", now, refundID).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Demande rejetée"})
		return
	}

	order, err := fetchOrder(r.OrderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if !canTransition(order.Status, models.OrderStatusRefunded) {
		c.JSON(http.StatusConflict, gin.H{"error": "Commande déjà terminale"})
		return
	}

	// Remboursement Stripe
	stripeRefundID := ""
	if order.PaymentIntentID != "" {
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(order.PaymentIntentID),
			Amount:        stripe.Int64(r.AmountCents),
		}
		ref, err := refund.New(params)
		if err != nil {
			log.Printf("❌ Erreur remboursement Stripe pour %s: %v", order.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur remboursement Stripe"})
			return
		}
		stripeRefundID = ref.ID
	}

	if err := session.Query("UPDATE refunds SET status = ?, stripe_refund_id = ?, updated_at = ? WHERE refund_id = ?",
		"completed", stripeRefundID, now, refundID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour demande"})
		return
	}

	if err := session.Query("UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?",
		models.OrderStatusRefunded, now, order.ID).Exec(); err != nil {
		log.Printf("❌ Erreur bascule commande %s en refunded: %v", order.ID, err)
	}
	if err := session.Query("UPDATE orders_by_user SET status = ? WHERE user_id = ? AND order_id = ?",
		models.OrderStatusRefunded, order.UserID, order.ID).Exec(); err != nil {
		log.Printf("⚠️ Vue orders_by_user non mise à jour pour %s: %v", order.ID, err)
	}

	if err := appendOrderHistory(order.ID, "refunded", c.GetString("user_id"),
		"Remboursement de "+utils.Euros(r.AmountCents)); err != nil {
		log.Printf("⚠️ Erreur journal commande %s: %v", order.ID, err)
	}

	utils.LogAction(c, utils.ACTION_ORDER_REFUND, utils.RESOURCE_ORDER, order.ID.String(),
		gin.H{"status": order.Status}, gin.H{"status": models.OrderStatusRefunded})
	log.Printf("✅ Remboursement traité: %s (%s)", refundID, utils.Euros(r.AmountCents))

	c.JSON(http.StatusOK, gin.H{
		"message":          "Remboursement effectué",
		"stripe_refund_id": stripeRefundID,
	})
}

// GetUserRefunds liste les demandes de l'utilisateur courant.
// GET /api/refunds
func GetUserRefunds(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query(`SELECT refund_id, order_id, user_id, reason, status, amount_cents, stripe_refund_id, created_at
		FROM refunds WHERE user_id = ? ALLOW FILTERING`, userID).Iter()

	refunds := scanRefunds(iter)
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture demandes"})
		return
	}
	c.JSON(http.StatusOK, refunds)
}

// GetAllRefunds liste toutes les demandes (admin).
// GET /api/admin/refunds
func GetAllRefunds(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query(`SELECT refund_id, order_id, user_id, reason, status, amount_cents, stripe_refund_id, created_at
		FROM refunds`).Iter()

	refunds := scanRefunds(iter)
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture demandes"})
		return
	}
	c.JSON(http.StatusOK, refunds)
}

func scanRefunds(iter *gocql.Iter) []models.Refund {
	refunds := []models.Refund{}
	var r models.Refund
	for iter.Scan(&r.ID, &r.OrderID, &r.UserID, &r.Reason, &r.Status, &r.AmountCents, &r.StripeRefundID, &r.CreatedAt) {
		refunds = append(refunds, r)
		r = models.Refund{}
	}
	return refunds
}
