package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
)

// GetAuditLogs liste les logs d'audit, filtrables par action ou ressource.
// GET /api/admin/audit-logs?action=...&resource=...&limit=100
func GetAuditLogs(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de données indisponible"})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}
	actionFilter := c.Query("action")
	resourceFilter := c.Query("resource")

	iter := session.Query(`SELECT id, user_id, user_email, action, resource, resource_id,
		old_value, new_value, ip_address, user_agent, success, error_msg, timestamp
		FROM audit_logs LIMIT ?`, limit).Iter()

	logs := []models.AuditLog{}
	var l models.AuditLog
	for iter.Scan(&l.ID, &l.UserID, &l.UserEmail, &l.Action, &l.Resource, &l.ResourceID,
		&l.OldValue, &l.NewValue, &l.IPAddress, &l.UserAgent, &l.Success, &l.ErrorMsg, &l.Timestamp) {
		if actionFilter != "" && l.Action != actionFilter {
			continue
		}
		if resourceFilter != "" && l.Resource != resourceFilter {
			continue
		}
		logs = append(logs, l)
		l = models.AuditLog{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}
