package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/auth"
	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/metrics"
	"github.com/retroshelf/retroshelf/internal/models"
)

const refreshCookiePath = "/api/auth/refresh"

// AuthHandler implements register/login/refresh/logout. Access tokens travel
// in the response body; refresh tokens live in an httpOnly cookie scoped to
// the refresh endpoint so scripts never see them.
type AuthHandler struct {
	issuer        *auth.TokenIssuer
	cookieName    string
	refreshMaxAge int
	secureCookie  bool
}

func NewAuthHandler(issuer *auth.TokenIssuer, cookieName string, refreshMaxAge int, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		issuer:        issuer,
		cookieName:    cookieName,
		refreshMaxAge: refreshMaxAge,
		secureCookie:  secureCookie,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var count int64
	db.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, strings.ToLower(req.Email)).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error("failed to hash password", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		logger.Error("failed to create user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	logger.Info("user registered", zap.String("username", user.Username))
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var user models.User
	err := db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		logger.Error("failed to load user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	accessToken, err := h.issuer.IssueAccess(&user, true)
	if err != nil {
		logger.Error("failed to issue access token", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	refreshToken, err := h.issuer.IssueRefresh(&user)
	if err != nil {
		logger.Error("failed to issue refresh token", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.setRefreshCookie(c, refreshToken)
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"user":         user,
	})
}

// Refresh exchanges a valid refresh cookie for a new access token and
// rotates the refresh token itself.
func (h *AuthHandler) Refresh(c *gin.Context) {
	cookie, err := c.Cookie(h.cookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
		return
	}

	claims, err := h.issuer.ParseRefresh(cookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	// Re-read the user so revoked accounts and stale admin flags drop out
	// at rotation time.
	var user models.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
		return
	}

	accessToken, err := h.issuer.IssueAccess(&user, false)
	if err != nil {
		logger.Error("failed to issue access token", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	refreshToken, err := h.issuer.IssueRefresh(&user)
	if err != nil {
		logger.Error("failed to issue refresh token", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.setRefreshCookie(c, refreshToken)
	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, refreshCookiePath, "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(h.cookieName, token, h.refreshMaxAge, refreshCookiePath, "", h.secureCookie, true)
}
