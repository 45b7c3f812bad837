// Package pricing calcule les totaux de commande en centimes.
// Tout est en arithmétique entière : pas de dérive flottante sur la monnaie.
package pricing

import (
	"math"
	"os"
	"strconv"
	"strings"

	"papyrus_back_end/internal/models"
)

type Result struct {
	SubtotalCents   int64 `json:"subtotal_cents"`
	TaxCents        int64 `json:"tax_cents"`
	ShippingCents   int64 `json:"shipping_cents"`
	GrandTotalCents int64 `json:"grand_total_cents"`
}

// ComputeTotals calcule sous-total, taxe (floor, pour ne jamais surfacturer)
// et total. Un article malformé (prix ou quantité négatif) compte pour zéro :
// on sous-facture, on ne panique jamais.
func ComputeTotals(items []models.CartItem, shippingCents int64, taxRate float64) Result {
	var subtotal int64
	for _, item := range items {
		if item.PriceCents < 0 || item.Quantity < 0 {
			continue
		}
		subtotal += item.PriceCents * int64(item.Quantity)
	}

	var tax int64
	if taxRate > 0 {
		tax = int64(math.Floor(float64(subtotal) * taxRate))
	}

	if shippingCents < 0 {
		shippingCents = 0
	}

	return Result{
		SubtotalCents:   subtotal,
		TaxCents:        tax,
		ShippingCents:   shippingCents,
		GrandTotalCents: subtotal + tax + shippingCents,
	}
}

// FinalTotal applique la réduction, plancher à zéro.
func FinalTotal(grandTotalCents, discountCents int64) int64 {
	total := grandTotalCents - discountCents
	if total < 0 {
		return 0
	}
	return total
}

// --- Frais de livraison par province ---

// Tarifs par province (centimes). Dernier recours : tarif plat.
var provinceFees = map[string]int64{
	"bruxelles": 399,
	"brabant wallon": 499,
	"brabant flamand": 499,
	"liège":   599,
	"namur":   599,
	"hainaut": 599,
	"luxembourg": 699,
	"anvers":  599,
	"limbourg": 599,
	"flandre occidentale": 699,
	"flandre orientale":   699,
}

const defaultFlatFeeCents = 599

// ShippingFeeCents retourne le tarif de la province, sinon le tarif plat
// (configurable via FLAT_SHIPPING_FEE_CENTS).
func ShippingFeeCents(province string) int64 {
	if fee, ok := provinceFees[strings.ToLower(strings.TrimSpace(province))]; ok {
		return fee
	}
	return flatFeeCents()
}

func flatFeeCents() int64 {
	if v := os.Getenv("FLAT_SHIPPING_FEE_CENTS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			return n
		}
	}
	return defaultFlatFeeCents
}

// TaxRate lit le taux de taxe depuis l'env (ex: "0.06" pour les livres).
func TaxRate() float64 {
	if v := os.Getenv("TAX_RATE"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r >= 0 {
			return r
		}
	}
	return 0.06
}
