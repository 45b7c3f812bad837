package models

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// CartItem est la ligne canonique utilisée partout (panier, pricing, coupons).
// Les prix sont en centimes pour éviter toute dérive flottante.
type CartItem struct {
	BookID     string `json:"book_id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	CategoryID string `json:"category_id,omitempty"`
}
