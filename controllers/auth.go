package controllers

import (
	"net/http"
	"os"

	"bikeshop-backend/utils"

	"github.com/gin-gonic/gin"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the workshop account credentials (ADMIN_EMAIL plus a bcrypt
// ADMIN_PASSWORD_HASH from the environment) and issues a JWT.
func (a *App) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminEmail == "" || adminHash == "" {
		utils.RespondWithError(c, http.StatusInternalServerError, "Workshop account not configured")
		return
	}

	if input.Email != adminEmail || !utils.CheckPasswordHash(input.Password, adminHash) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(adminEmail)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"email": adminEmail},
	})
}

// Me returns the authenticated account.
func (a *App) Me(c *gin.Context) {
	account, exists := c.Get("account")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account not found in context")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"email": account}})
}
