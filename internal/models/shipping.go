package models

type ShippingOption struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceCents    int64  `json:"price_cents"`
	EstimatedDays int    `json:"estimated_days"`
}

type ShippingCalculation struct {
	Options        []ShippingOption `json:"options"`
	FreeThreshold  int64            `json:"free_threshold_cents"`
	CartTotalCents int64            `json:"cart_total_cents"`
	IsFree         bool             `json:"is_free"`
}
