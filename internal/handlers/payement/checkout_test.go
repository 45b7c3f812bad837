package payement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papyrus_back_end/internal/apperr"
	"papyrus_back_end/internal/models"
)

func TestNormalizeCheckoutPayloadCanonical(t *testing.T) {
	raw := []byte(`{"items":[{"book_id":"b1","price_cents":1500,"quantity":2}],"coupon_code":"PROMO10"}`)

	req, err := normalizeCheckoutPayload(raw)
	require.NoError(t, err)

	assert.Len(t, req.Items, 1)
	assert.Equal(t, "b1", req.Items[0].BookID)
	assert.Equal(t, "PROMO10", req.CouponCode)
}

func TestNormalizeCheckoutPayloadLegacyCartField(t *testing.T) {
	raw := []byte(`{"cart":[{"book_id":"b1","price_cents":1500,"quantity":1}]}`)

	req, err := normalizeCheckoutPayload(raw)
	require.NoError(t, err)

	assert.Len(t, req.Items, 1)
	assert.Equal(t, "b1", req.Items[0].BookID)
}

func TestNormalizeCheckoutPayloadEmptyCart(t *testing.T) {
	_, err := normalizeCheckoutPayload([]byte(`{"items":[]}`))
	assert.True(t, apperr.IsValidation(err))

	_, err = normalizeCheckoutPayload([]byte(`{pas du json`))
	assert.True(t, apperr.IsValidation(err))
}

func fakeLookup(t *testing.T) func(string) (models.Book, error) {
	t.Helper()
	catalog := map[string]models.Book{
		"11111111-1111-1111-1111-111111111111": {
			Title:      "Le Comte de Monte-Cristo",
			PriceCents: 1290,
			IsActive:   true,
		},
	}
	return func(bookID string) (models.Book, error) {
		b, ok := catalog[bookID]
		if !ok {
			return models.Book{}, apperr.ErrNotFound
		}
		return b, nil
	}
}

func TestNormalizeLineItemsFillsSnapshot(t *testing.T) {
	items := []models.CartItem{
		{BookID: "11111111-1111-1111-1111-111111111111", Quantity: 2},
	}

	out, err := normalizeLineItems(items, fakeLookup(t))
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "Le Comte de Monte-Cristo", out[0].Title)
	assert.Equal(t, int64(1290), out[0].PriceCents)
	assert.Equal(t, 2, out[0].Quantity)
}

func TestNormalizeLineItemsKeepsProvidedSnapshot(t *testing.T) {
	items := []models.CartItem{
		{BookID: "b-client", Title: "Titre client", PriceCents: 999, Quantity: 1, CategoryID: "romans"},
	}

	// Ligne complète : aucun lookup nécessaire
	out, err := normalizeLineItems(items, func(string) (models.Book, error) {
		t.Fatal("lookup inattendu")
		return models.Book{}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, int64(999), out[0].PriceCents)
}

func TestNormalizeLineItemsRejectsBadInput(t *testing.T) {
	_, err := normalizeLineItems([]models.CartItem{{BookID: "", Quantity: 1}}, fakeLookup(t))
	assert.True(t, apperr.IsValidation(err))

	_, err = normalizeLineItems([]models.CartItem{
		{BookID: "11111111-1111-1111-1111-111111111111", Quantity: 0},
	}, fakeLookup(t))
	assert.True(t, apperr.IsValidation(err))

	_, err = normalizeLineItems([]models.CartItem{{BookID: "inconnu", Quantity: 1}}, fakeLookup(t))
	assert.True(t, apperr.IsNotFound(err))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, canTransition(models.OrderStatusPending, models.OrderStatusProcessing))
	assert.True(t, canTransition(models.OrderStatusProcessing, models.OrderStatusShipping))
	assert.True(t, canTransition(models.OrderStatusShipping, models.OrderStatusCompleted))
	// Un saut vers l'avant est permis
	assert.True(t, canTransition(models.OrderStatusPending, models.OrderStatusCompleted))

	// Jamais en arrière
	assert.False(t, canTransition(models.OrderStatusShipping, models.OrderStatusProcessing))
	assert.False(t, canTransition(models.OrderStatusCompleted, models.OrderStatusPending))
	assert.False(t, canTransition(models.OrderStatusPending, models.OrderStatusPending))

	// Annulation et remboursement possibles depuis tout statut non terminal
	assert.True(t, canTransition(models.OrderStatusPending, models.OrderStatusCanceled))
	assert.True(t, canTransition(models.OrderStatusCompleted, models.OrderStatusRefunded))

	// Les statuts terminaux ne bougent plus
	assert.False(t, canTransition(models.OrderStatusCanceled, models.OrderStatusProcessing))
	assert.False(t, canTransition(models.OrderStatusRefunded, models.OrderStatusCanceled))
	assert.False(t, canTransition(models.OrderStatusCanceled, models.OrderStatusRefunded))
}

func TestFreeShippingThreshold(t *testing.T) {
	t.Setenv("FREE_SHIPPING_THRESHOLD_CENTS", "")
	assert.Equal(t, int64(5000), freeShippingThresholdCents())

	t.Setenv("FREE_SHIPPING_THRESHOLD_CENTS", "10000")
	assert.Equal(t, int64(10000), freeShippingThresholdCents())

	t.Setenv("FREE_SHIPPING_THRESHOLD_CENTS", "n'importe quoi")
	assert.Equal(t, int64(5000), freeShippingThresholdCents())
}
