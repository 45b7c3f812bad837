package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"papyrus_back_end/internal/models"
)

func TestComputeTotals(t *testing.T) {
	items := []models.CartItem{
		{BookID: "b1", PriceCents: 1000, Quantity: 2},
		{BookID: "b2", PriceCents: 500, Quantity: 1},
	}

	res := ComputeTotals(items, 599, 0.06)

	assert.Equal(t, int64(2500), res.SubtotalCents)
	assert.Equal(t, int64(150), res.TaxCents)
	assert.Equal(t, int64(599), res.ShippingCents)
	assert.Equal(t, int64(3249), res.GrandTotalCents)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	res := ComputeTotals(nil, 599, 0.06)

	assert.Equal(t, int64(0), res.SubtotalCents)
	assert.Equal(t, int64(0), res.TaxCents)
	assert.Equal(t, int64(599), res.GrandTotalCents)
}

func TestComputeTotalsTaxFloored(t *testing.T) {
	// 999 * 0.06 = 59.94 → 59, jamais arrondi vers le haut
	res := ComputeTotals([]models.CartItem{{BookID: "b1", PriceCents: 999, Quantity: 1}}, 0, 0.06)

	assert.Equal(t, int64(59), res.TaxCents)
	assert.Equal(t, int64(1058), res.GrandTotalCents)
}

func TestComputeTotalsIgnoresMalformedItems(t *testing.T) {
	items := []models.CartItem{
		{BookID: "ok", PriceCents: 1000, Quantity: 1},
		{BookID: "negatif", PriceCents: -500, Quantity: 1},
		{BookID: "qty", PriceCents: 500, Quantity: -2},
	}

	res := ComputeTotals(items, 0, 0)

	assert.Equal(t, int64(1000), res.SubtotalCents)
}

func TestComputeTotalsNegativeShippingClamped(t *testing.T) {
	res := ComputeTotals([]models.CartItem{{BookID: "b1", PriceCents: 1000, Quantity: 1}}, -100, 0)

	assert.Equal(t, int64(0), res.ShippingCents)
	assert.Equal(t, int64(1000), res.GrandTotalCents)
}

func TestFinalTotal(t *testing.T) {
	assert.Equal(t, int64(2750), FinalTotal(3250, 500))
	assert.Equal(t, int64(0), FinalTotal(1000, 1000))
	// La réduction dépasse le total : plancher à zéro, jamais négatif
	assert.Equal(t, int64(0), FinalTotal(1000, 5000))
}

func TestShippingFeeCents(t *testing.T) {
	assert.Equal(t, int64(399), ShippingFeeCents("bruxelles"))
	assert.Equal(t, int64(399), ShippingFeeCents("  Bruxelles  "))
	assert.Equal(t, int64(699), ShippingFeeCents("flandre orientale"))
	// Province inconnue : tarif plat par défaut
	assert.Equal(t, int64(599), ShippingFeeCents("atlantide"))
}

func TestShippingFeeFlatOverride(t *testing.T) {
	t.Setenv("FLAT_SHIPPING_FEE_CENTS", "250")

	assert.Equal(t, int64(250), ShippingFeeCents("atlantide"))
	// Les provinces connues gardent leur tarif
	assert.Equal(t, int64(399), ShippingFeeCents("bruxelles"))
}

func TestTaxRateDefault(t *testing.T) {
	t.Setenv("TAX_RATE", "")
	assert.InDelta(t, 0.06, TaxRate(), 0.0001)

	t.Setenv("TAX_RATE", "0.21")
	assert.InDelta(t, 0.21, TaxRate(), 0.0001)
}
