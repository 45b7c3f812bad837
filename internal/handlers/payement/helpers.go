package payement

import (
	"encoding/json"
	"time"

	"github.com/gocql/gocql"

	"papyrus_back_end/internal/apperr"
	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
)

// fetchOrder relit une commande complète (lignes et adresse désérialisées).
func fetchOrder(orderID gocql.UUID) (models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.Order{}, err
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
	if err == gocql.ErrNotFound {
		return models.Order{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	if itemsJSON != "" {
		_ = json.Unmarshal([]byte(itemsJSON), &order.Items)
	}
	if addrJSON != "" {
		_ = json.Unmarshal([]byte(addrJSON), &order.ShippingAddress)
	}
	return order, nil
}

// appendOrderHistory ajoute une ligne au journal append-only d'une commande.
func appendOrderHistory(orderID gocql.UUID, entryType, actor, detail string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO order_history (order_id, event_id, type, actor, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		orderID, gocql.TimeUUID(), entryType, actor, detail, time.Now()).Exec()
}

// loadOrderHistory relit le journal d'une commande, du plus ancien au plus récent.
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

// statusRank ordonne les statuts : les transitions vont toujours vers l'avant.
var statusRank = map[string]int{
	models.OrderStatusPending:    0,
	models.OrderStatusProcessing: 1,
	models.OrderStatusShipping:   2,
	models.OrderStatusCompleted:  3,
}

// isTerminalStatus : canceled et refunded ne bougent plus jamais.
func isTerminalStatus(status string) bool {
	return status == models.OrderStatusCanceled || status == models.OrderStatusRefunded
}

// canTransition valide une transition de statut de commande.
func canTransition(from, to string) bool {
	if isTerminalStatus(from) {
		return false
	}
	if to == models.OrderStatusCanceled || to == models.OrderStatusRefunded {
		return true
	}
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	return okFrom && okTo && toRank > fromRank
}
