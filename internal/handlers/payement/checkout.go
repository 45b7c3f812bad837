package payement

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"

	"papyrus_back_end/internal/apperr"
	"papyrus_back_end/internal/coupon"
	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/pricing"
	"papyrus_back_end/internal/store"
	"papyrus_back_end/internal/utils"
)

// Addresses est injecté au démarrage (Scylla ou mémoire selon la config).
var Addresses store.AddressStore

// checkoutRequest : forme canonique du body de création de commande.
type checkoutRequest struct {
	Items           []models.CartItem `json:"items"`
	AddressID       string            `json:"address_id"`
	ShippingAddress *models.Address   `json:"shipping_address"`
	CouponCode      string            `json:"coupon_code"`
}

// normalizeCheckoutPayload accepte les formes legacy du front (articles sous
// "cart" au lieu de "items") et les ramène à la forme canonique. Toute la
// tolérance de schéma vit ici, jamais dans la logique métier.
func normalizeCheckoutPayload(raw []byte) (checkoutRequest, error) {
	var req checkoutRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, apperr.Validation("Données invalides")
	}

	if len(req.Items) == 0 {
		var legacy struct {
			Cart []models.CartItem `json:"cart"`
		}
		if err := json.Unmarshal(raw, &legacy); err == nil {
			req.Items = legacy.Cart
		}
	}

	if len(req.Items) == 0 {
		return req, apperr.Validation("Panier vide")
	}
	return req, nil
}

// normalizeLineItems complète chaque ligne avec un instantané du livre :
// un prix ou un titre manquant est rempli depuis le catalogue au moment de
// la commande, et n'est plus jamais retouché ensuite.
func normalizeLineItems(items []models.CartItem, lookup func(bookID string) (models.Book, error)) ([]models.OrderItem, error) {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.BookID == "" {
			return nil, apperr.Validation("Article sans identifiant de livre")
		}
		if item.Quantity <= 0 {
			return nil, apperr.Validation("Quantité invalide pour le livre %s", item.BookID)
		}

		if item.Title == "" || item.PriceCents <= 0 || item.CategoryID == "" {
			book, err := lookup(item.BookID)
			if err != nil {
				return nil, err
			}
			if item.Title == "" {
				item.Title = book.Title
			}
			if item.PriceCents <= 0 {
				item.PriceCents = book.PriceCents
			}
			if item.CategoryID == "" {
				item.CategoryID = book.CategoryID.String()
			}
		}

		out = append(out, models.OrderItem{
			BookID:     item.BookID,
			Title:      item.Title,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
			CategoryID: item.CategoryID,
		})
	}
	return out, nil
}

// lookupBook charge l'instantané d'un livre actif depuis le catalogue.
func lookupBook(bookID string) (models.Book, error) {
	bid, err := uuid.Parse(bookID)
	if err != nil {
		return models.Book{}, apperr.Validation("ID livre invalide: %s", bookID)
	}

	stmt, err := database.GetPreparedGetBookByID()
	if err != nil {
		return models.Book{}, err
	}

	var book models.Book
	book.ID = gocql.UUID(bid)
	err = stmt.Bind(gocql.UUID(bid)).
		Scan(&book.Title, &book.Author, &book.PriceCents, &book.Stock, &book.CategoryID, &book.IsActive)
	if err != nil || !book.IsActive {
		return models.Book{}, apperr.ErrNotFound
	}
	return book, nil
}

// fetchCouponByCode cherche un coupon par code normalisé.
func fetchCouponByCode(code string) (models.Coupon, bool) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.Coupon{}, false
	}

	var c models.Coupon
	err = session.Query(`SELECT id, code, kind, value, min_order_cents, max_discount_cents,
		usage_limit, used_count, applicable_to_all, book_ids, category_ids,
		starts_at, expires_at, is_active FROM coupons WHERE code = ? LIMIT 1`,
		coupon.NormalizeCode(code)).
		Scan(&c.ID, &c.Code, &c.Kind, &c.Value, &c.MinOrderCents, &c.MaxDiscountCents,
			&c.UsageLimit, &c.UsedCount, &c.ApplicableToAll, &c.BookIDs, &c.CategoryIDs,
			&c.StartsAt, &c.ExpiresAt, &c.IsActive)
	if err != nil {
		return models.Coupon{}, false
	}
	return c, true
}

// applyCoupon valide le code contre le contexte de commande. Le code vide et
// le code inconnu passent par le même enum fermé de raisons de rejet.
func applyCoupon(code string, items []models.CartItem, subtotalCents int64) (coupon.Application, models.Coupon) {
	normalized := coupon.NormalizeCode(code)
	if normalized == "" {
		return coupon.Application{Valid: false, Reason: coupon.ReasonNoCode}, models.Coupon{}
	}

	c, found := fetchCouponByCode(normalized)
	if !found {
		return coupon.Application{Valid: false, Reason: coupon.ReasonInvalidOrExpired}, models.Coupon{}
	}

	return coupon.Evaluate(c, items, subtotalCents, time.Now()), c
}

// Checkout crée une commande complète : normalisation des lignes, totaux,
// coupon tout-ou-rien, persistance, puis effets de bord best-effort.
// POST /api/orders
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	req, err := normalizeCheckoutPayload(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// ✅ 1. Adresse de livraison : référencée ou inline
	var shippingAddr models.Address
	switch {
	case req.AddressID != "":
		addr, err := Addresses.Get(c.Request.Context(), userID, req.AddressID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
			return
		}
		shippingAddr = addr
	case req.ShippingAddress != nil:
		shippingAddr = *req.ShippingAddress
		shippingAddr.UserID = userID
		if shippingAddr.Receiver == "" || shippingAddr.Province == "" || shippingAddr.Detail == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse de livraison incomplète"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse de livraison requise"})
		return
	}

	// ✅ 2. Instantané des lignes depuis le catalogue
	orderItems, err := normalizeLineItems(req.Items, lookupBook)
	if err != nil {
		status := http.StatusBadRequest
		if apperr.IsNotFound(err) {
			status = http.StatusNotFound
			err = errors.New("Livre introuvable ou indisponible")
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// ✅ 3. Vérifier le stock
	for _, item := range orderItems {
		book, err := lookupBook(item.BookID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Livre introuvable: " + item.BookID})
			return
		}
		if book.Stock < item.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Stock insuffisant",
				"book":      book.Title,
				"available": book.Stock,
				"requested": item.Quantity,
			})
			return
		}
	}

	// ✅ 4. Calculer les totaux
	cartItems := make([]models.CartItem, len(orderItems))
	for i, it := range orderItems {
		cartItems[i] = models.CartItem(it)
	}
	shippingCents := pricing.ShippingFeeCents(shippingAddr.Province)
	if threshold := freeShippingThresholdCents(); threshold > 0 {
		if pre := pricing.ComputeTotals(cartItems, 0, 0); pre.SubtotalCents >= threshold {
			shippingCents = 0
		}
	}
	totals := pricing.ComputeTotals(cartItems, shippingCents, pricing.TaxRate())

	// ✅ 5. Coupon : tout-ou-rien, jamais de fallback silencieux
	var (
		discountCents int64
		couponCode    string
		usedCoupon    models.Coupon
	)
	if strings.TrimSpace(req.CouponCode) != "" {
		application, matched := applyCoupon(req.CouponCode, cartItems, totals.SubtotalCents)
		if !application.Valid {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  coupon.ReasonMessage(application.Reason),
				"reason": application.Reason,
			})
			return
		}
		discountCents = application.DiscountCents
		couponCode = application.Code
		usedCoupon = matched
		log.Printf("✅ Coupon appliqué: %s (%s de réduction)", couponCode, utils.Euros(discountCents))
	}

	// ✅ 6. Total final, plancher à zéro
	totalCents := pricing.FinalTotal(totals.GrandTotalCents, discountCents)

	now := time.Now()
	order := models.Order{
		ID:              gocql.TimeUUID(),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		Items:           orderItems,
		SubtotalCents:   totals.SubtotalCents,
		TaxCents:        totals.TaxCents,
		ShippingCents:   totals.ShippingCents,
		GrandTotalCents: totals.GrandTotalCents,
		DiscountCents:   discountCents,
		TotalCents:      totalCents,
		CouponCode:      couponCode,
		ShippingAddress: shippingAddr,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// ✅ 7. Créer le PaymentIntent Stripe
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(order.TotalCents),
		Currency: stripe.String("eur"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"order_id": order.ID.String(),
			"user_id":  userID,
			"email":    email,
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Printf("❌ Erreur Stripe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
		return
	}
	order.PaymentIntentID = intent.ID

	// ✅ 8. Persister la commande
	if err := insertOrder(order); err != nil {
		log.Printf("❌ Erreur insertion commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	if err := appendOrderHistory(order.ID, "created", userID, "Commande créée"); err != nil {
		log.Printf("⚠️ Erreur journal commande: %v", err)
	}

	log.Printf("💳 Commande créée: %s (%s → %s) pour %s",
		order.ID, utils.Euros(order.GrandTotalCents), utils.Euros(order.TotalCents), userID)

	// ✅ 9. Effets de bord best-effort, indépendants : leur échec ne touche
	// jamais la réponse, mais il est toujours loggé.
	if couponCode != "" {
		go func(cp models.Coupon, orderID gocql.UUID) {
			if err := markCouponUsage(cp, userID, orderID); err != nil {
				log.Printf("⚠️ Erreur marquage usage coupon %s: %v", cp.Code, err)
			}
		}(usedCoupon, order.ID)
	}

	go func(o models.Order, to string) {
		if to == "" {
			return
		}
		html := utils.GenerateOrderConfirmationHTML(o)
		pdf, err := utils.GenerateInvoicePDF(o)
		if err != nil {
			log.Printf("⚠️ Erreur génération PDF facture: %v", err)
			pdf = nil
		}
		if err := utils.SendConfirmationEmail(to, "Confirmation de votre commande Papyrus", html, pdf); err != nil {
			log.Printf("⚠️ Erreur envoi e-mail confirmation: %v", err)
		} else {
			log.Println("📧 E-mail de confirmation envoyé à", to)
		}
	}(order, email)

	// Vider le panier Redis
	if database.RedisEnabled() {
		if err := database.Redis.Del(c.Request.Context(), "cart:"+userID).Err(); err == nil {
			log.Printf("🧹 Panier supprimé Redis pour %s", userID)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":         order,
		"client_secret": intent.ClientSecret,
		"payment_id":    intent.ID,
	})
}

// insertOrder persiste la commande et sa vue par utilisateur.
func insertOrder(order models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	addrJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO orders (
		order_id, user_id, status, items, subtotal_cents, tax_cents, shipping_cents,
		grand_total_cents, discount_cents, total_cents, coupon_code, shipping_address,
		payment_intent_id, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.Status, string(itemsJSON), order.SubtotalCents,
		order.TaxCents, order.ShippingCents, order.GrandTotalCents, order.DiscountCents,
		order.TotalCents, order.CouponCode, string(addrJSON), order.PaymentIntentID,
		order.CreatedAt, order.UpdatedAt).Exec(); err != nil {
		return err
	}

	return session.Query(`INSERT INTO orders_by_user (user_id, order_id, status, total_cents, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		order.UserID, order.ID, order.Status, order.TotalCents, order.CreatedAt).Exec()
}

// markCouponUsage incrémente le compteur et trace l'usage. Best-effort :
// le comptage est indicatif (reporting), un sous-comptage est toléré,
// la commande déjà créée reste la source de vérité.
func markCouponUsage(cp models.Coupon, userID string, orderID gocql.UUID) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	var usedCount int
	if err := session.Query("SELECT used_count FROM coupons WHERE code = ? LIMIT 1", cp.Code).
		Scan(&usedCount); err != nil {
		return err
	}

	if err := session.Query("UPDATE coupons SET used_count = ?, updated_at = ? WHERE id = ?",
		usedCount+1, time.Now(), cp.ID).Exec(); err != nil {
		return err
	}

	return session.Query(`INSERT INTO coupon_usages (usage_id, coupon_id, user_id, order_id, used_at)
		VALUES (?, ?, ?, ?, ?)`,
		gocql.TimeUUID(), cp.ID, userID, orderID, time.Now()).Exec()
}
