package payement

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/utils"
)

// StripeWebhook reçoit les événements Stripe. Seul payment_intent.succeeded
// fait avancer la commande (pending → processing). Le webhook est idempotent :
// un événement rejoué sur une commande déjà avancée ne fait rien.
// POST /api/payment/webhook
func StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event
	if endpointSecret != "" {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), endpointSecret)
		if err != nil {
			log.Printf("⚠️ Signature webhook invalide: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	} else {
		// Mode dev sans secret : on fait confiance au payload
		if err := json.Unmarshal(payload, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payload invalide"})
			return
		}
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "PaymentIntent invalide"})
			return
		}
		handlePaymentSucceeded(intent)

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err == nil {
			log.Printf("⚠️ Paiement échoué pour commande %s", intent.Metadata["order_id"])
		}

	default:
		log.Printf("🔔 Événement Stripe ignoré: %s", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func handlePaymentSucceeded(intent stripe.PaymentIntent) {
	orderIDStr := intent.Metadata["order_id"]
	orderID, err := gocql.ParseUUID(orderIDStr)
	if err != nil {
		log.Printf("⚠️ Webhook sans order_id exploitable: %q", orderIDStr)
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		log.Printf("❌ Webhook: base indisponible: %v", err)
		return
	}

	var (
		userID string
		status string
	)
	if err := session.Query("SELECT user_id, status FROM orders WHERE order_id = ?", orderID).
		Scan(&userID, &status); err != nil {
		log.Printf("⚠️ Webhook: commande %s introuvable", orderID)
		return
	}

	// Rejeu d'événement : la commande a déjà avancé, rien à faire.
	if status != models.OrderStatusPending {
		log.Printf("🔁 Webhook rejoué pour %s (statut %s), ignoré", orderID, status)
		return
	}

	now := time.Now()
	if err := session.Query("UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?",
		models.OrderStatusProcessing, now, orderID).Exec(); err != nil {
		log.Printf("❌ Webhook: échec mise à jour commande %s: %v", orderID, err)
		return
	}
	if err := session.Query("UPDATE orders_by_user SET status = ? WHERE user_id = ? AND order_id = ?",
		models.OrderStatusProcessing, userID, orderID).Exec(); err != nil {
		log.Printf("⚠️ Webhook: vue orders_by_user non mise à jour pour %s: %v", orderID, err)
	}

	if err := appendOrderHistory(orderID, "status_changed", "stripe",
		"Paiement confirmé: pending → processing"); err != nil {
		log.Printf("⚠️ Erreur journal commande %s: %v", orderID, err)
	}

	log.Printf("💳 Paiement confirmé, commande %s → processing", orderID)

	if email := intent.Metadata["email"]; email != "" {
		go func() {
			order, err := fetchOrder(orderID)
			if err != nil {
				return
			}
			if err := utils.SendOrderStatusEmail(order, email, models.OrderStatusProcessing); err != nil {
				log.Printf("⚠️ Erreur envoi e-mail statut: %v", err)
			}
		}()
	}
}
