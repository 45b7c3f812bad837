package payement

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/utils"
)

// =============================================
// ADMIN : COMMANDES
// =============================================

// UpdateOrderStatus fait avancer une commande. Les transitions en arrière
// et depuis un statut terminal sont refusées.
// PUT /api/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut requis"})
		return
	}

	if _, known := statusRank[req.Status]; !known &&
		req.Status != models.OrderStatusCanceled && req.Status != models.OrderStatusRefunded {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu: " + req.Status})
		return
	}

	order, err := fetchOrder(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if !canTransition(order.Status, req.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Transition interdite: " + order.Status + " → " + req.Status,
		})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	now := time.Now()
	if err := session.Query("UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?",
		req.Status, now, orderID).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour statut %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}
	if err := session.Query("UPDATE orders_by_user SET status = ? WHERE user_id = ? AND order_id = ?",
		req.Status, order.UserID, orderID).Exec(); err != nil {
		log.Printf("⚠️ Vue orders_by_user non mise à jour pour %s: %v", orderID, err)
	}

	adminID := c.GetString("user_id")
	if err := appendOrderHistory(orderID, "status_changed", adminID,
		order.Status+" → "+req.Status); err != nil {
		log.Printf("⚠️ Erreur journal commande %s: %v", orderID, err)
	}

	utils.LogAction(c, utils.ACTION_ORDER_UPDATE, utils.RESOURCE_ORDER, orderID.String(),
		gin.H{"status": order.Status}, gin.H{"status": req.Status})
	log.Printf("✅ Commande %s: %s → %s (par %s)", orderID, order.Status, req.Status, adminID)

	// Notification best-effort au client
	go func(o models.Order, newStatus string) {
		email, err := lookupUserEmail(o.UserID)
		if err != nil || email == "" {
			return
		}
		if err := utils.SendOrderStatusEmail(o, email, newStatus); err != nil {
			log.Printf("⚠️ Erreur envoi e-mail statut: %v", err)
		}
	}(order, req.Status)

	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "status": req.Status})
}

// GetAllOrders liste toutes les commandes (admin), filtrable par statut.
// GET /api/admin/orders
func GetAllOrders(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	statusFilter := c.Query("status")

	iter := session.Query(`SELECT order_id, user_id, status, total_cents, coupon_code, created_at
		FROM orders`).Iter()

	type orderSummary struct {
		ID         gocql.UUID `json:"id"`
		UserID     string     `json:"user_id"`
		Status     string     `json:"status"`
		TotalCents int64      `json:"total_cents"`
		CouponCode string     `json:"coupon_code,omitempty"`
		CreatedAt  time.Time  `json:"created_at"`
	}

	orders := []orderSummary{}
	var o orderSummary
	for iter.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CouponCode, &o.CreatedAt) {
		if statusFilter == "" || o.Status == statusFilter {
			orders = append(orders, o)
		}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrderStats agrège les chiffres du tableau de bord admin.
// GET /api/admin/orders/stats
func GetOrderStats(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query("SELECT status, total_cents, discount_cents, created_at FROM orders").Iter()

	var (
		status        string
		totalCents    int64
		discountCents int64
		createdAt     time.Time

		byStatus      = map[string]int{}
		revenueCents  int64
		discountTotal int64
		today         int
		totalOrders   int
	)
	startOfDay := time.Now().Truncate(24 * time.Hour)

	for iter.Scan(&status, &totalCents, &discountCents, &createdAt) {
		totalOrders++
		byStatus[status]++
		if status != models.OrderStatusCanceled && status != models.OrderStatusRefunded &&
			status != models.OrderStatusPending {
			revenueCents += totalCents
			discountTotal += discountCents
		}
		if createdAt.After(startOfDay) {
			today++
		}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_orders":          totalOrders,
		"orders_today":          today,
		"by_status":             byStatus,
		"revenue_cents":         revenueCents,
		"revenue":               utils.Euros(revenueCents),
		"discounts_given_cents": discountTotal,
	})
}

// lookupUserEmail lit l'e-mail d'un utilisateur pour les notifications.
func lookupUserEmail(userID string) (string, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return "", err
	}

	uid, err := gocql.ParseUUID(userID)
	if err != nil {
		return "", err
	}

	var email string
	if err := session.Query("SELECT email FROM users WHERE user_id = ?", uid).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}
