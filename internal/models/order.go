package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de commande. Les transitions vont toujours vers l'avant,
// sauf canceled/refunded qui sont terminaux.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipping   = "shipping"
	OrderStatusCompleted  = "completed"
	OrderStatusCanceled   = "canceled"
	OrderStatusRefunded   = "refunded"
)

type Order struct {
	ID              gocql.UUID   `json:"id"`
	UserID          string       `json:"user_id"`
	Status          string       `json:"status"`
	Items           []OrderItem  `json:"items"`
	SubtotalCents   int64        `json:"subtotal_cents"`
	TaxCents        int64        `json:"tax_cents"`
	ShippingCents   int64        `json:"shipping_cents"`
	GrandTotalCents int64        `json:"grand_total_cents"`
	DiscountCents   int64        `json:"discount_cents"`
	TotalCents      int64        `json:"total_cents"` // grand total - réduction, jamais négatif
	CouponCode      string       `json:"coupon_code,omitempty"`
	ShippingAddress Address      `json:"shipping_address"`
	PaymentIntentID string       `json:"payment_intent_id,omitempty"`
	History         []AuditEntry `json:"history,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// OrderItem est un instantané : les changements de prix ultérieurs
// ne touchent jamais une commande existante.
type OrderItem struct {
	BookID     string `json:"book_id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	CategoryID string `json:"category_id,omitempty"`
}

// AuditEntry est une ligne du journal append-only d'une commande.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"` // created, status_changed, canceled, refunded
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail"`
}
