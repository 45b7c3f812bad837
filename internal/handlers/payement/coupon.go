package payement

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"papyrus_back_end/internal/coupon"
	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/pricing"
	"papyrus_back_end/internal/utils"
)

// =============================================
// ADMIN : GESTION DES COUPONS
// =============================================

// CreateCoupon crée un coupon.
// POST /api/admin/coupons
func CreateCoupon(c *gin.Context) {
	var req struct {
		Code             string     `json:"code" binding:"required"`
		Kind             string     `json:"kind" binding:"required"`
		Value            int64      `json:"value" binding:"required"`
		MinOrderCents    int64      `json:"min_order_cents"`
		MaxDiscountCents *int64     `json:"max_discount_cents"`
		UsageLimit       int        `json:"usage_limit"`
		ApplicableToAll  *bool      `json:"applicable_to_all"`
		BookIDs          []string   `json:"book_ids"`
		CategoryIDs      []string   `json:"category_ids"`
		StartsAt         *time.Time `json:"starts_at"`
		ExpiresAt        *time.Time `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if req.Kind != "percent" && req.Kind != "amount" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le type doit être 'percent' ou 'amount'"})
		return
	}
	if req.Value <= 0 || (req.Kind == "percent" && req.Value > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valeur de réduction invalide"})
		return
	}

	code := coupon.NormalizeCode(req.Code)
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code coupon requis"})
		return
	}

	if _, exists := fetchCouponByCode(code); exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce code coupon existe déjà"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	now := time.Now()
	startsAt := now
	if req.StartsAt != nil {
		startsAt = *req.StartsAt
	}

	applicableToAll := len(req.BookIDs) == 0 && len(req.CategoryIDs) == 0
	if req.ApplicableToAll != nil {
		applicableToAll = *req.ApplicableToAll
	}

	cp := models.Coupon{
		ID:               gocql.TimeUUID(),
		Code:             code,
		Kind:             req.Kind,
		Value:            req.Value,
		MinOrderCents:    req.MinOrderCents,
		MaxDiscountCents: req.MaxDiscountCents,
		UsageLimit:       req.UsageLimit,
		ApplicableToAll:  applicableToAll,
		BookIDs:          req.BookIDs,
		CategoryIDs:      req.CategoryIDs,
		StartsAt:         startsAt,
		ExpiresAt:        req.ExpiresAt,
		IsActive:         true,
		CreatedBy:        c.GetString("user_id"),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := session.Query(`INSERT INTO coupons (
		id, code, kind, value, min_order_cents, max_discount_cents, usage_limit,
		used_count, applicable_to_all, book_ids, category_ids, starts_at, expires_at,
		is_active, created_by, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cp.ID, cp.Code, cp.Kind, cp.Value, cp.MinOrderCents, cp.MaxDiscountCents,
		cp.UsageLimit, cp.ApplicableToAll, cp.BookIDs, cp.CategoryIDs, cp.StartsAt,
		cp.ExpiresAt, cp.IsActive, cp.CreatedBy, cp.CreatedAt, cp.UpdatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création coupon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création coupon"})
		return
	}

	utils.LogAction(c, utils.ACTION_COUPON_CREATE, utils.RESOURCE_COUPON, cp.ID.String(), nil, cp)
	log.Printf("✅ Coupon créé: %s par %s", cp.Code, cp.CreatedBy)
	c.JSON(http.StatusCreated, cp)
}

// GetAllCoupons liste tous les coupons (admin).
// GET /api/admin/coupons
func GetAllCoupons(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query(`SELECT id, code, kind, value, min_order_cents, max_discount_cents,
		usage_limit, used_count, applicable_to_all, book_ids, category_ids,
		starts_at, expires_at, is_active, created_by, created_at, updated_at
		FROM coupons`).Iter()

	coupons := []models.Coupon{}
	var cp models.Coupon
	for iter.Scan(&cp.ID, &cp.Code, &cp.Kind, &cp.Value, &cp.MinOrderCents, &cp.MaxDiscountCents,
		&cp.UsageLimit, &cp.UsedCount, &cp.ApplicableToAll, &cp.BookIDs, &cp.CategoryIDs,
		&cp.StartsAt, &cp.ExpiresAt, &cp.IsActive, &cp.CreatedBy, &cp.CreatedAt, &cp.UpdatedAt) {
		coupons = append(coupons, cp)
		cp = models.Coupon{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture coupons"})
		return
	}

	c.JSON(http.StatusOK, coupons)
}

// UpdateCoupon modifie les champs mutables d'un coupon. Le code et le
// compteur d'usage ne sont jamais modifiables après création.
// PUT /api/admin/coupons/:id
func UpdateCoupon(c *gin.Context) {
	couponID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID coupon invalide"})
		return
	}

	var req struct {
		Value            *int64     `json:"value"`
		MinOrderCents    *int64     `json:"min_order_cents"`
		MaxDiscountCents *int64     `json:"max_discount_cents"`
		UsageLimit       *int       `json:"usage_limit"`
		ApplicableToAll  *bool      `json:"applicable_to_all"`
		BookIDs          []string   `json:"book_ids"`
		CategoryIDs      []string   `json:"category_ids"`
		ExpiresAt        *time.Time `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	cp, found := fetchCouponByID(couponID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
		return
	}
	old := cp

	if req.Value != nil {
		cp.Value = *req.Value
	}
	if req.MinOrderCents != nil {
		cp.MinOrderCents = *req.MinOrderCents
	}
	if req.MaxDiscountCents != nil {
		cp.MaxDiscountCents = req.MaxDiscountCents
	}
	if req.UsageLimit != nil {
		cp.UsageLimit = *req.UsageLimit
	}
	if req.ApplicableToAll != nil {
		cp.ApplicableToAll = *req.ApplicableToAll
	}
	if req.BookIDs != nil {
		cp.BookIDs = req.BookIDs
	}
	if req.CategoryIDs != nil {
		cp.CategoryIDs = req.CategoryIDs
	}
	if req.ExpiresAt != nil {
		cp.ExpiresAt = req.ExpiresAt
	}
	if cp.Value <= 0 || (cp.Kind == "percent" && cp.Value > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valeur de réduction invalide"})
		return
	}
	cp.UpdatedAt = time.Now()

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query(`UPDATE coupons SET value = ?, min_order_cents = ?,
		max_discount_cents = ?, usage_limit = ?, applicable_to_all = ?, book_ids = ?,
		category_ids = ?, expires_at = ?, updated_at = ? WHERE id = ?`,
		cp.Value, cp.MinOrderCents, cp.MaxDiscountCents, cp.UsageLimit, cp.ApplicableToAll,
		cp.BookIDs, cp.CategoryIDs, cp.ExpiresAt, cp.UpdatedAt, cp.ID).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour coupon %s: %v", cp.Code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour coupon"})
		return
	}

	utils.LogAction(c, utils.ACTION_COUPON_UPDATE, utils.RESOURCE_COUPON, cp.ID.String(), old, cp)
	c.JSON(http.StatusOK, cp)
}

// PauseCoupon désactive un coupon sans le supprimer : l'historique d'usage
// et les commandes passées restent intacts.
// POST /api/admin/coupons/:id/pause
func PauseCoupon(c *gin.Context) {
	setCouponActive(c, false, utils.ACTION_COUPON_PAUSE)
}

// ResumeCoupon réactive un coupon mis en pause.
// POST /api/admin/coupons/:id/resume
func ResumeCoupon(c *gin.Context) {
	setCouponActive(c, true, utils.ACTION_COUPON_RESUME)
}

func setCouponActive(c *gin.Context, active bool, action string) {
	couponID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID coupon invalide"})
		return
	}

	cp, found := fetchCouponByID(couponID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	if err := session.Query("UPDATE coupons SET is_active = ?, updated_at = ? WHERE id = ?",
		active, time.Now(), couponID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour coupon"})
		return
	}

	utils.LogAction(c, action, utils.RESOURCE_COUPON, couponID.String(),
		gin.H{"is_active": cp.IsActive}, gin.H{"is_active": active})
	log.Printf("✅ Coupon %s: is_active=%v", cp.Code, active)
	c.JSON(http.StatusOK, gin.H{"message": "Coupon mis à jour", "is_active": active})
}

// GetCouponUsages liste les usages tracés d'un coupon (reporting).
// GET /api/admin/coupons/:id/usages
func GetCouponUsages(c *gin.Context) {
	couponID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID coupon invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	iter := session.Query(`SELECT usage_id, coupon_id, user_id, order_id, used_at
		FROM coupon_usages WHERE coupon_id = ? ALLOW FILTERING`, couponID).Iter()

	usages := []models.CouponUsage{}
	var u models.CouponUsage
	for iter.Scan(&u.ID, &u.CouponID, &u.UserID, &u.OrderID, &u.UsedAt) {
		usages = append(usages, u)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture usages"})
		return
	}

	c.JSON(http.StatusOK, usages)
}

// =============================================
// VALIDATION CÔTÉ CLIENT
// =============================================

// ValidateCoupon évalue un code contre un panier sans créer de commande :
// même logique, mêmes raisons de rejet que le checkout.
// POST /api/coupons/validate
func ValidateCoupon(c *gin.Context) {
	var req struct {
		Code  string            `json:"code"`
		Items []models.CartItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	totals := pricing.ComputeTotals(req.Items, 0, 0)
	application, _ := applyCoupon(req.Code, req.Items, totals.SubtotalCents)
	if !application.Valid {
		c.JSON(http.StatusOK, gin.H{
			"valid":   false,
			"reason":  application.Reason,
			"message": coupon.ReasonMessage(application.Reason),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":          true,
		"code":           application.Code,
		"discount_cents": application.DiscountCents,
	})
}

// fetchCouponByID charge un coupon complet par identifiant.
func fetchCouponByID(id gocql.UUID) (models.Coupon, bool) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.Coupon{}, false
	}

	var cp models.Coupon
	err = session.Query(`SELECT id, code, kind, value, min_order_cents, max_discount_cents,
		usage_limit, used_count, applicable_to_all, book_ids, category_ids,
		starts_at, expires_at, is_active, created_by, created_at, updated_at
		FROM coupons WHERE id = ? LIMIT 1`, id).
		Scan(&cp.ID, &cp.Code, &cp.Kind, &cp.Value, &cp.MinOrderCents, &cp.MaxDiscountCents,
			&cp.UsageLimit, &cp.UsedCount, &cp.ApplicableToAll, &cp.BookIDs, &cp.CategoryIDs,
			&cp.StartsAt, &cp.ExpiresAt, &cp.IsActive, &cp.CreatedBy, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return models.Coupon{}, false
	}
	return cp, true
}
