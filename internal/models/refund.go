package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Refund struct {
	ID             gocql.UUID `json:"id"`
	OrderID        gocql.UUID `json:"order_id"`
	UserID         string     `json:"user_id"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"` // pending, completed, rejected
	AmountCents    int64      `json:"amount_cents"`
	StripeRefundID string     `json:"stripe_refund_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}
