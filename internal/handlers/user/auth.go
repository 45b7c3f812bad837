package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"papyrus_back_end/internal/cache"
	"papyrus_back_end/internal/database"
	"papyrus_back_end/internal/models"
	"papyrus_back_end/internal/store"
	"papyrus_back_end/internal/utils"
)

// OTPCodes est injecté au démarrage (Redis ou mémoire selon la config).
var OTPCodes store.OTPStore

// Register crée un compte client avec mot de passe Argon2id.
// POST /api/auth/register
func Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	stmtByEmail, errA := database.GetPreparedGetUserByEmail()
	stmtInsert, errB := database.GetPreparedInsertUser()
	stmtInsertByEmail, errC := database.GetPreparedInsertUserByEmail()
	if errA != nil || errB != nil || errC != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Base de données indisponible"})
		return
	}

	var existingID gocql.UUID
	if err := stmtByEmail.Bind(email).Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Un compte existe déjà avec cet e-mail"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne"})
		return
	}

	userID := gocql.TimeUUID()
	now := time.Now()

	if err := stmtInsert.
		Bind(userID, email, hash, req.Name, "customer", "local", now).Exec(); err != nil {
		log.Printf("❌ Erreur création utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur création compte"})
		return
	}
	if err := stmtInsertByEmail.Bind(email, userID).Exec(); err != nil {
		log.Printf("⚠️ Vue users_by_email non mise à jour pour %s: %v", email, err)
	}

	u := models.User{
		ID:        userID.String(),
		Name:      req.Name,
		Email:     email,
		Role:      "customer",
		Provider:  "local",
		CreatedAt: now,
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur génération token"})
		return
	}

	log.Printf("✅ Compte créé: %s", email)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": u})
}

// Login authentifie par e-mail + mot de passe.
// POST /api/auth/login
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := findUserByEmail(email)
	if err != nil {
		utils.LogFailedAction(c, utils.ACTION_LOGIN_FAILED, utils.RESOURCE_AUTH, email, "compte inconnu")
		c.JSON(http.StatusUnauthorized, gin.H{"message": "E-mail ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(req.Password, u.Password)
	if err != nil || !ok {
		utils.LogFailedAction(c, utils.ACTION_LOGIN_FAILED, utils.RESOURCE_AUTH, u.ID, "mot de passe invalide")
		c.JSON(http.StatusUnauthorized, gin.H{"message": "E-mail ou mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur génération token"})
		return
	}

	utils.LogAction(c, utils.ACTION_LOGIN_SUCCESS, utils.RESOURCE_AUTH, u.ID, nil, nil)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// Me renvoie le profil de l'utilisateur courant (cache Redis en lecture).
// GET /api/auth/me
func Me(c *gin.Context) {
	userID := c.GetString("user_id")

	u, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// ForgotPassword envoie un code OTP à usage unique par e-mail.
// POST /api/auth/forgot-password
func ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "E-mail requis"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Réponse identique que le compte existe ou non
	if _, err := findUserByEmail(email); err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Si ce compte existe, un code a été envoyé"})
		return
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne"})
		return
	}

	if err := OTPCodes.Set(c.Request.Context(), email, code, 10*time.Minute); err != nil {
		log.Printf("❌ Erreur stockage OTP pour %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne"})
		return
	}

	go func() {
		html := "<p>Votre code de réinitialisation Papyrus : <strong>" + code + "</strong></p>" +
			"<p>Il expire dans 10 minutes.</p>"
		if err := utils.SendConfirmationEmail(email, "Réinitialisation de votre mot de passe", html, nil); err != nil {
			log.Printf("⚠️ Erreur envoi OTP à %s: %v", email, err)
		} else {
			log.Println("📧 Code OTP envoyé à", email)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Si ce compte existe, un code a été envoyé"})
}

// ResetPassword vérifie l'OTP (consommé à la vérification) et change le mot de passe.
// POST /api/auth/reset-password
func ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !OTPCodes.Verify(c.Request.Context(), email, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Code invalide ou expiré"})
		return
	}

	u, err := findUserByEmail(email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Base de données indisponible"})
		return
	}

	uid, _ := gocql.ParseUUID(u.ID)
	if err := session.Query("UPDATE users SET password = ? WHERE user_id = ?", hash, uid).Exec(); err != nil {
		log.Printf("❌ Erreur reset mot de passe %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur mise à jour"})
		return
	}

	cache.InvalidateUserCache(u.ID)
	log.Printf("✅ Mot de passe réinitialisé pour %s", email)
	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe mis à jour"})
}

// findUserByEmail passe par la vue users_by_email puis charge le profil.
func findUserByEmail(email string) (models.User, error) {
	stmtByEmail, err := database.GetPreparedGetUserByEmail()
	if err != nil {
		return models.User{}, err
	}
	stmtByID, err := database.GetPreparedGetUserByID()
	if err != nil {
		return models.User{}, err
	}

	var userID gocql.UUID
	if err := stmtByEmail.Bind(email).Scan(&userID); err != nil {
		return models.User{}, err
	}

	var u models.User
	if err := stmtByID.Bind(userID).
		Scan(&u.Email, &u.Password, &u.Name, &u.Role, &u.Provider, &u.CreatedAt); err != nil {
		return models.User{}, err
	}
	u.ID = userID.String()
	return u, nil
}
