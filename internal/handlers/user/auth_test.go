package user

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Sans ScyllaDB configuré (le cas des tests), les handlers d'auth doivent
// répondre proprement au lieu de paniquer sur un prepared statement nil.
// gin.New() volontairement sans Recovery : une panique ferait planter le test.

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/register", Register)
	r.POST("/api/auth/login", Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterSansBaseDeDonnees(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(r, "/api/auth/register",
		`{"name":"Jean Dupont","email":"jean@example.com","password":"motdepasse"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "indisponible")
}

func TestLoginSansBaseDeDonnees(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(r, "/api/auth/login",
		`{"email":"jean@example.com","password":"motdepasse"}`)

	// findUserByEmail remonte l'erreur : réponse identique à un compte inconnu
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterPayloadInvalide(t *testing.T) {
	r := newAuthRouter()

	w := postJSON(r, "/api/auth/register", `{"email":"pas-un-email"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
