package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"papyrus_back_end/internal/models"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func activeCoupon() models.Coupon {
	return models.Coupon{
		Code:            "PROMO10",
		Kind:            "percent",
		Value:           10,
		ApplicableToAll: true,
		StartsAt:        now.Add(-24 * time.Hour),
		IsActive:        true,
	}
}

func cart() []models.CartItem {
	return []models.CartItem{
		{BookID: "b1", PriceCents: 20000, Quantity: 1, CategoryID: "romans"},
		{BookID: "b2", PriceCents: 5000, Quantity: 1, CategoryID: "poches"},
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "PROMO10", NormalizeCode("  promo10 "))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestEvaluatePercentDiscount(t *testing.T) {
	app := Evaluate(activeCoupon(), cart(), 25000, now)

	assert.True(t, app.Valid)
	assert.Equal(t, int64(2500), app.DiscountCents)
	assert.Equal(t, "PROMO10", app.Code)
}

func TestEvaluatePercentDiscountFloored(t *testing.T) {
	// 10% de 999 = 99.9 → 99
	app := Evaluate(activeCoupon(), cart(), 999, now)

	assert.True(t, app.Valid)
	assert.Equal(t, int64(99), app.DiscountCents)
}

func TestEvaluateMaxDiscountCap(t *testing.T) {
	cap := int64(2000)
	c := activeCoupon()
	c.MaxDiscountCents = &cap

	app := Evaluate(c, cart(), 25000, now)

	assert.True(t, app.Valid)
	assert.Equal(t, int64(2000), app.DiscountCents)
}

func TestEvaluateAmountNeverExceedsSubtotal(t *testing.T) {
	c := activeCoupon()
	c.Kind = "amount"
	c.Value = 50000

	app := Evaluate(c, cart(), 25000, now)

	assert.True(t, app.Valid)
	assert.Equal(t, int64(25000), app.DiscountCents)
}

func TestEvaluateInactive(t *testing.T) {
	c := activeCoupon()
	c.IsActive = false

	app := Evaluate(c, cart(), 25000, now)

	assert.False(t, app.Valid)
	assert.Equal(t, ReasonInvalidOrExpired, app.Reason)
}

func TestEvaluateNotStartedYet(t *testing.T) {
	c := activeCoupon()
	c.StartsAt = now.Add(time.Hour)

	app := Evaluate(c, cart(), 25000, now)

	assert.False(t, app.Valid)
	assert.Equal(t, ReasonInvalidOrExpired, app.Reason)
}

func TestEvaluateExpired(t *testing.T) {
	expired := now.Add(-time.Hour)
	c := activeCoupon()
	c.ExpiresAt = &expired

	app := Evaluate(c, cart(), 25000, now)

	assert.False(t, app.Valid)
	assert.Equal(t, ReasonInvalidOrExpired, app.Reason)
}

func TestEvaluateUsageLimitReached(t *testing.T) {
	c := activeCoupon()
	c.UsageLimit = 100
	c.UsedCount = 100

	app := Evaluate(c, cart(), 25000, now)

	assert.False(t, app.Valid)
	assert.Equal(t, ReasonUsageLimit, app.Reason)
}

func TestEvaluateUnlimitedUsage(t *testing.T) {
	c := activeCoupon()
	c.UsageLimit = 0 // 0 = illimité
	c.UsedCount = 100000

	app := Evaluate(c, cart(), 25000, now)

	assert.True(t, app.Valid)
}

func TestEvaluateEligibilityByBook(t *testing.T) {
	c := activeCoupon()
	c.ApplicableToAll = false
	c.BookIDs = []string{"b2"}

	app := Evaluate(c, cart(), 25000, now)

	assert.True(t, app.Valid)
}

func TestEvaluateEligibilityByCategory(t *testing.T) {
	c := activeCoupon()
	c.ApplicableToAll = false
	c.CategoryIDs = []string{"poches"}

	app := Evaluate(c, cart(), 25000, now)

	assert.True(t, app.Valid)
}

func TestEvaluateNoApplicableItems(t *testing.T) {
	c := activeCoupon()
	c.ApplicableToAll = false
	c.BookIDs = []string{"autre-livre"}
	c.CategoryIDs = []string{"bd"}

	app := Evaluate(c, cart(), 25000, now)

	assert.False(t, app.Valid)
	assert.Equal(t, ReasonNoApplicableItems, app.Reason)
}

func TestEvaluateMinOrderNotReached(t *testing.T) {
	c := activeCoupon()
	c.MinOrderCents = 30000

	app := Evaluate(c, cart(), 25000, now)

	assert.False(t, app.Valid)
	assert.Equal(t, ReasonMinOrder, app.Reason)
}

// L'ordre de court-circuit est contractuel : un coupon expiré ET hors limite
// d'usage doit remonter INVALID_OR_EXPIRED, pas USAGE_LIMIT.
func TestEvaluateRejectionOrder(t *testing.T) {
	expired := now.Add(-time.Hour)
	c := activeCoupon()
	c.ExpiresAt = &expired
	c.UsageLimit = 1
	c.UsedCount = 5
	c.MinOrderCents = 100000

	app := Evaluate(c, cart(), 25000, now)
	assert.Equal(t, ReasonInvalidOrExpired, app.Reason)

	// Limite d'usage avant éligibilité
	c.ExpiresAt = nil
	c.ApplicableToAll = false
	c.BookIDs = []string{"aucun"}
	app = Evaluate(c, cart(), 25000, now)
	assert.Equal(t, ReasonUsageLimit, app.Reason)

	// Éligibilité avant montant minimum
	c.UsedCount = 0
	app = Evaluate(c, cart(), 25000, now)
	assert.Equal(t, ReasonNoApplicableItems, app.Reason)

	c.BookIDs = []string{"b1"}
	app = Evaluate(c, cart(), 25000, now)
	assert.Equal(t, ReasonMinOrder, app.Reason)
}

func TestReasonMessage(t *testing.T) {
	assert.Equal(t, "Code invalide ou expiré", ReasonMessage(ReasonInvalidOrExpired))
	assert.Equal(t, "Coupon non applicable", ReasonMessage("AUTRE"))
}
