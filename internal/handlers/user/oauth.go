package user

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/markbates/goth/gothic"

	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/utils"
)

// BeginOAuth démarre le flow OAuth (Google ou Facebook, selon :provider).
// GET /api/auth/:provider
func BeginOAuth(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("provider", c.Param("provider"))
	c.Request.URL.RawQuery = q.Encode()
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// OAuthCallback termine le flow : trouve ou crée le compte, renvoie un JWT.
// GET /api/auth/:provider/callback
func OAuthCallback(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("provider", c.Param("provider"))
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Erreur callback OAuth: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentification échouée"})
		return
	}

	email := strings.ToLower(gothUser.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "E-mail manquant dans le profil OAuth"})
		return
	}

	u, err := findUserByEmail(email)
	if err != nil {
		// Premier login OAuth : création du compte sans mot de passe
		userID := gocql.TimeUUID()
		now := time.Now()
		name := gothUser.Name
		if name == "" {
			name = email
		}

		stmtInsert, errA := database.GetPreparedInsertUser()
		stmtInsertByEmail, errB := database.GetPreparedInsertUserByEmail()
		if errA != nil || errB != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Base de données indisponible"})
			return
		}

		if err := stmtInsert.
			Bind(userID, email, "", name, "customer", gothUser.Provider, now).Exec(); err != nil {
			log.Printf("❌ Erreur création compte OAuth %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur création compte"})
			return
		}
		if err := stmtInsertByEmail.Bind(email, userID).Exec(); err != nil {
			log.Printf("⚠️ Vue users_by_email non mise à jour pour %s: %v", email, err)
		}

		u = models.User{
			ID:        userID.String(),
			Name:      name,
			Email:     email,
			Role:      "customer",
			Provider:  gothUser.Provider,
			CreatedAt: now,
		}
		log.Printf("✅ Compte %s créé: %s", gothUser.Provider, email)
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur génération token"})
		return
	}

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, frontend+"/auth/callback?token="+token)
}
