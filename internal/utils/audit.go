package utils

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
)

// auditActor capture les champs du contexte gin dont la goroutine a besoin.
// Le *gin.Context ne doit pas être lu après le retour du handler.
type auditActor struct {
	UserID    string
	UserEmail string
	IPAddress string
	UserAgent string
}

func captureAuditActor(c *gin.Context) auditActor {
	return auditActor{
		UserID:    c.GetString("user_id"),
		UserEmail: c.GetString("email"),
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

// LogAction enregistre une action dans les logs d'audit
func LogAction(c *gin.Context, action, resource string, resourceID string, oldValue, newValue interface{}) {
	actor := captureAuditActor(c)
	go func() {
		if err := logActionAsync(actor, action, resource, resourceID, oldValue, newValue, true, ""); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// LogFailedAction enregistre une action échouée dans les logs d'audit
func LogFailedAction(c *gin.Context, action, resource, resourceID, errorMsg string) {
	actor := captureAuditActor(c)
	go func() {
		if err := logActionAsync(actor, action, resource, resourceID, nil, nil, false, errorMsg); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

func logActionAsync(actor auditActor, action, resource, resourceID string, oldValue, newValue interface{}, success bool, errorMsg string) error {
	usersSession, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	var oldValueStr, newValueStr string
	if oldValue != nil {
		if oldBytes, err := json.Marshal(oldValue); err == nil {
			oldValueStr = string(oldBytes)
		}
	}
	if newValue != nil {
		if newBytes, err := json.Marshal(newValue); err == nil {
			newValueStr = string(newBytes)
		}
	}

	auditLog := models.AuditLog{
		ID:         gocql.TimeUUID(),
		UserID:     actor.UserID,
		UserEmail:  actor.UserEmail,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		OldValue:   oldValueStr,
		NewValue:   newValueStr,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		Success:    success,
		ErrorMsg:   errorMsg,
		Timestamp:  time.Now(),
	}

	query := `
		INSERT INTO audit_logs (
			id, user_id, user_email, action, resource, resource_id,
			old_value, new_value, ip_address, user_agent, success,
			error_msg, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return usersSession.Query(query,
		auditLog.ID, auditLog.UserID, auditLog.UserEmail, auditLog.Action,
		auditLog.Resource, auditLog.ResourceID, auditLog.OldValue, auditLog.NewValue,
		auditLog.IPAddress, auditLog.UserAgent, auditLog.Success, auditLog.ErrorMsg,
		auditLog.Timestamp,
	).Exec()
}

// Actions d'audit prédéfinies
const (
	ACTION_BOOK_CREATE = "book.create"
	ACTION_BOOK_UPDATE = "book.update"
	ACTION_BOOK_DELETE = "book.delete"

	ACTION_ORDER_CREATE = "order.create"
	ACTION_ORDER_UPDATE = "order.update"
	ACTION_ORDER_CANCEL = "order.cancel"
	ACTION_ORDER_REFUND = "order.refund"

	ACTION_COUPON_CREATE = "coupon.create"
	ACTION_COUPON_UPDATE = "coupon.update"
	ACTION_COUPON_PAUSE  = "coupon.pause"
	ACTION_COUPON_RESUME = "coupon.resume"

	ACTION_LOGIN_SUCCESS = "auth.login_success"
	ACTION_LOGIN_FAILED  = "auth.login_failed"
)

// Resources d'audit
const (
	RESOURCE_BOOK   = "book"
	RESOURCE_ORDER  = "order"
	RESOURCE_COUPON = "coupon"
	RESOURCE_AUTH   = "auth"
)
