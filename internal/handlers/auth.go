package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"salonova_back_end/internal/cache"
	"salonova_back_end/internal/database"
	"salonova_back_end/internal/models"
	"salonova_back_end/internal/utils"
)

// Login authentifie un membre du back-office et délivre un JWT
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Résoudre l'email vers le user_id
	var userID string
	q := database.GetPreparedGetUserByEmail()
	if q == nil {
		q = session.Query("SELECT user_id FROM users_by_email WHERE email = ?")
	}
	if err := q.Bind(input.Email).Scan(&userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	user := models.User{ID: userID}
	qu := database.GetPreparedGetUserByID()
	if qu == nil {
		qu = session.Query("SELECT email, password, name, role FROM users WHERE user_id = ?")
	}
	if err := qu.Bind(userID).Scan(&user.Email, &user.Password, &user.Name, &user.Role); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateur"})
		return
	}

	// Vérification en cache d'abord, argon2 sinon
	valid, _ := cache.GetPasswordHashFromCache(input.Email, input.Password)
	if !valid {
		ok, err := utils.VerifyPassword(input.Password, user.Password)
		if err != nil || !ok {
			// Le hash en base a pu changer : purger les validations en
			// cache pour cet email, sinon l'ancien mot de passe resterait
			// accepté jusqu'à expiration du TTL
			cache.InvalidateAuthCache(input.Email)
			utils.LogFailedAction(c, utils.ACTION_LOGIN_FAILED, utils.RESOURCE_AUTH, input.Email, "mot de passe incorrect")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
			return
		}
		cache.SetPasswordHashInCache(input.Email, input.Password)
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Connexion back-office: %s (%s)", user.Email, user.Role)
	utils.LogAction(c, utils.ACTION_LOGIN_SUCCESS, utils.RESOURCE_AUTH, userID, nil, nil)

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}
