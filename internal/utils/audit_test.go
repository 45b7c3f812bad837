package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Les champs du contexte gin sont capturés avant le lancement de la
// goroutine d'audit : celle-ci ne doit plus toucher au *gin.Context.
func TestCaptureAuditActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/admin/coupons", nil)
	c.Request.Header.Set("User-Agent", "papyrus-test/1.0")
	c.Set("user_id", "user-42")
	c.Set("email", "admin@papyrus.be")

	actor := captureAuditActor(c)

	assert.Equal(t, "user-42", actor.UserID)
	assert.Equal(t, "admin@papyrus.be", actor.UserEmail)
	assert.Equal(t, "papyrus-test/1.0", actor.UserAgent)
	assert.NotEmpty(t, actor.IPAddress)
}
