package user

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/utils"
)

// GetMyOrders liste les commandes de l'utilisateur courant (vue orders_by_user).
// GET /api/orders
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Base de données indisponible"})
		return
	}

	iter := session.Query(`SELECT order_id, status, total_cents, created_at
		FROM orders_by_user WHERE user_id = ?`, userID).Iter()

	type summary struct {
		ID         gocql.UUID `json:"id"`
		Status     string     `json:"status"`
		TotalCents int64      `json:"total_cents"`
		CreatedAt  time.Time  `json:"created_at"`
	}

	orders := []summary{}
	var s summary
	for iter.Scan(&s.ID, &s.Status, &s.TotalCents, &s.CreatedAt) {
		orders = append(orders, s)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrderByID renvoie une commande complète avec son journal.
// GET /api/orders/:id
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")

	order, ok := fetchOwnOrder(c, userID)
	if !ok {
		return
	}

	history, err := loadOrderHistory(order.ID)
	if err != nil {
		log.Printf("⚠️ Erreur lecture journal commande %s: %v", order.ID, err)
	}
	order.History = history

	c.JSON(http.StatusOK, order)
}

// CancelOrder annule une commande tant qu'elle n'est pas expédiée.
// POST /api/orders/:id/cancel
func CancelOrder(c *gin.Context) {
	userID := c.GetString("user_id")

	order, ok := fetchOwnOrder(c, userID)
	if !ok {
		return
	}

	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusProcessing {
		c.JSON(http.StatusConflict, gin.H{"message": "Cette commande ne peut plus être annulée"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Base de données indisponible"})
		return
	}

	now := time.Now()
	if err := session.Query("UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?",
		models.OrderStatusCanceled, now, order.ID).Exec(); err != nil {
		log.Printf("❌ Erreur annulation commande %s: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur annulation"})
		return
	}
	if err := session.Query("UPDATE orders_by_user SET status = ? WHERE user_id = ? AND order_id = ?",
		models.OrderStatusCanceled, userID, order.ID).Exec(); err != nil {
		log.Printf("⚠️ Vue orders_by_user non mise à jour pour %s: %v", order.ID, err)
	}

	if err := session.Query(`INSERT INTO order_history (order_id, event_id, type, actor, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		order.ID, gocql.TimeUUID(), "canceled", userID, "Annulée par le client", now).Exec(); err != nil {
		log.Printf("⚠️ Erreur journal commande %s: %v", order.ID, err)
	}

	utils.LogAction(c, utils.ACTION_ORDER_CANCEL, utils.RESOURCE_ORDER, order.ID.String(),
		gin.H{"status": order.Status}, gin.H{"status": models.OrderStatusCanceled})
	log.Printf("✅ Commande %s annulée par %s", order.ID, userID)

	c.JSON(http.StatusOK, gin.H{"message": "Commande annulée"})
}

// DownloadInvoice génère la facture PDF d'une commande.
// GET /api/orders/:id/invoice
func DownloadInvoice(c *gin.Context) {
	userID := c.GetString("user_id")

	order, ok := fetchOwnOrder(c, userID)
	if !ok {
		return
	}

	pdf, err := utils.GenerateInvoicePDF(order)
	if err != nil {
		log.Printf("❌ Erreur génération facture %s: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur génération facture"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=facture-"+order.ID.String()+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// fetchOwnOrder charge une commande et vérifie qu'elle appartient bien à
// l'utilisateur. Une commande d'autrui est indistinguable d'une commande
// inexistante.
func fetchOwnOrder(c *gin.Context, userID string) (models.Order, bool) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID commande invalide"})
		return models.Order{}, false
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Base de données indisponible"})
		return models.Order{}, false
	}

	var (
		order     models.Order
		itemsJSON string
		addrJSON  string
	)
	err = session.Query(`SELECT order_id, user_id, status, items, subtotal_cents, tax_cents,
		shipping_cents, grand_total_cents, discount_cents, total_cents, coupon_code,
		shipping_address, payment_intent_id, created_at, updated_at
		FROM orders WHERE order_id = ?`, orderID).
		Scan(&order.ID, &order.UserID, &order.Status, &itemsJSON, &order.SubtotalCents,
			&order.TaxCents, &order.ShippingCents, &order.GrandTotalCents, &order.DiscountCents,
			&order.TotalCents, &order.CouponCode, &addrJSON, &order.PaymentIntentID,
			&order.CreatedAt, &order.UpdatedAt)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"message": "Commande introuvable"})
		return models.Order{}, false
	}

	if itemsJSON != "" {
		_ = json.Unmarshal([]byte(itemsJSON), &order.Items)
	}
	if addrJSON != "" {
		_ = json.Unmarshal([]byte(addrJSON), &order.ShippingAddress)
	}
	return order, true
}

// loadOrderHistory relit le journal append-only d'une commande.
func loadOrderHistory(orderID gocql.UUID) ([]models.AuditEntry, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT type, actor, detail, created_at FROM order_history WHERE order_id = ?`,
		orderID).Iter()

	var (
		history []models.AuditEntry
		entry   models.AuditEntry
	)
	for iter.Scan(&entry.Type, &entry.Actor, &entry.Detail, &entry.Timestamp) {
		history = append(history, entry)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return history, nil
}
