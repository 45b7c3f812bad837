package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Coupon struct {
	ID               gocql.UUID `json:"id"`
	Code             string     `json:"code"`
	Kind             string     `json:"kind"` // "percent", "amount"
	Value            int64      `json:"value"`
	MinOrderCents    int64      `json:"min_order_cents"`
	MaxDiscountCents *int64     `json:"max_discount_cents,omitempty"` // Montant max de réduction
	UsageLimit       int        `json:"usage_limit"`
	UsedCount        int        `json:"used_count"`
	ApplicableToAll  bool       `json:"applicable_to_all"`
	BookIDs          []string   `json:"book_ids,omitempty"`
	CategoryIDs      []string   `json:"category_ids,omitempty"`
	StartsAt         time.Time  `json:"starts_at"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedBy        string     `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type CouponUsage struct {
	ID       gocql.UUID `json:"id"`
	CouponID gocql.UUID `json:"coupon_id"`
	UserID   string     `json:"user_id"`
	OrderID  gocql.UUID `json:"order_id"`
	UsedAt   time.Time  `json:"used_at"`
}
