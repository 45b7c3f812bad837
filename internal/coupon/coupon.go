// Package coupon valide un coupon contre le contexte d'une commande et
// calcule la réduction bornée. La partie base de données (lookup du code)
// vit dans les handlers ; ici tout est pur et testable.
package coupon

import (
	"math"
	"strings"
	"time"

	"papyrus_back_end/internal/models"
)

// Raisons de rejet : enum fermé, exposé tel quel côté API.
const (
	ReasonNoCode            = "NO_CODE"
	ReasonInvalidOrExpired  = "INVALID_OR_EXPIRED"
	ReasonUsageLimit        = "USAGE_LIMIT"
	ReasonNoApplicableItems = "NO_APPLICABLE_ITEMS"
	ReasonMinOrder          = "MIN_ORDER"
)

// Messages humains associés aux raisons de rejet.
var reasonMessages = map[string]string{
	ReasonNoCode:            "Code coupon requis",
	ReasonInvalidOrExpired:  "Code invalide ou expiré",
	ReasonUsageLimit:        "Ce coupon a atteint sa limite d'utilisation",
	ReasonNoApplicableItems: "Aucun article du panier n'est éligible à ce coupon",
	ReasonMinOrder:          "Le montant minimum de commande n'est pas atteint",
}

func ReasonMessage(reason string) string {
	if msg, ok := reasonMessages[reason]; ok {
		return msg
	}
	return "Coupon non applicable"
}

// Application est le résultat éphémère d'une validation.
type Application struct {
	Valid         bool   `json:"valid"`
	DiscountCents int64  `json:"discount_cents"`
	Reason        string `json:"reason,omitempty"`
	Code          string `json:"code,omitempty"`
}

func rejected(reason string) Application {
	return Application{Valid: false, Reason: reason}
}

// NormalizeCode : trim + majuscules. Les codes sont insensibles à la casse.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate applique les règles d'éligibilité dans l'ordre, court-circuit à la
// première qui échoue, puis calcule la réduction bornée. L'appelant fournit
// un coupon déjà chargé ; un code inconnu se traduit en INVALID_OR_EXPIRED
// en amont.
func Evaluate(c models.Coupon, items []models.CartItem, subtotalCents int64, now time.Time) Application {
	if !c.IsActive || now.Before(c.StartsAt) {
		return rejected(ReasonInvalidOrExpired)
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return rejected(ReasonInvalidOrExpired)
	}

	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return rejected(ReasonUsageLimit)
	}

	if !c.ApplicableToAll && (len(c.BookIDs) > 0 || len(c.CategoryIDs) > 0) {
		if !anyItemEligible(c, items) {
			return rejected(ReasonNoApplicableItems)
		}
	}

	if c.MinOrderCents > 0 && subtotalCents < c.MinOrderCents {
		return rejected(ReasonMinOrder)
	}

	discount := rawDiscount(c, subtotalCents)
	if c.MaxDiscountCents != nil && discount > *c.MaxDiscountCents {
		discount = *c.MaxDiscountCents
	}

	return Application{Valid: true, DiscountCents: discount, Code: c.Code}
}

// anyItemEligible : il suffit qu'un article corresponde par livre ou catégorie.
func anyItemEligible(c models.Coupon, items []models.CartItem) bool {
	books := make(map[string]bool, len(c.BookIDs))
	for _, id := range c.BookIDs {
		books[id] = true
	}
	categories := make(map[string]bool, len(c.CategoryIDs))
	for _, id := range c.CategoryIDs {
		categories[id] = true
	}

	for _, item := range items {
		if books[item.BookID] || categories[item.CategoryID] {
			return true
		}
	}
	return false
}

func rawDiscount(c models.Coupon, subtotalCents int64) int64 {
	switch c.Kind {
	case "percent":
		return int64(math.Floor(float64(subtotalCents) * float64(c.Value) / 100))
	case "amount":
		if c.Value > subtotalCents {
			return subtotalCents
		}
		return c.Value
	}
	return 0
}
