package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/retroshelf/retroshelf/internal/api/middleware"
	"github.com/retroshelf/retroshelf/internal/auth"
	"github.com/retroshelf/retroshelf/internal/database"
	"github.com/retroshelf/retroshelf/internal/logger"
	"github.com/retroshelf/retroshelf/internal/models"
	"github.com/retroshelf/retroshelf/internal/services"
)

// UserHandler covers the authenticated user's own account.
type UserHandler struct {
	imageStorage *services.ImageStorageService
}

func NewUserHandler(imageStorage *services.ImageStorageService) *UserHandler {
	return &UserHandler{imageStorage: imageStorage}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	var user models.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if req.Username != nil && *req.Username != user.Username {
		var count int64
		db.Model(&models.User{}).Where("username = ? AND id != ?", *req.Username, user.ID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		if email != user.Email {
			var count int64
			db.Model(&models.User{}).Where("email = ? AND id != ?", email, user.ID).Count(&count)
			if count > 0 {
				c.JSON(http.StatusConflict, gin.H{"error": "email already taken"})
				return
			}
			user.Email = email
		}
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			logger.Error("failed to hash password", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		user.PasswordHash = hash
	}

	if err := db.Save(&user).Error; err != nil {
		logger.Error("failed to update user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadAvatar stores a profile image and records its filename on the user.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	filename, ok := saveUploadedImage(c, h.imageStorage, "image")
	if !ok {
		return
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if user.ImageFile != "" {
		_ = h.imageStorage.DeleteImage(user.ImageFile)
	}
	user.ImageFile = filename
	if err := db.Save(&user).Error; err != nil {
		logger.Error("failed to update user image", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_file": filename})
}

// DeleteMe removes the account and everything hanging off it. Requires a
// fresh login.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	claims := middleware.CurrentUser(c)

	db := database.GetDB()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", claims.UserID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", claims.UserID).Delete(&models.Wishlist{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", claims.UserID).Delete(&models.ItemChange{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, claims.UserID).Error
	})
	if err != nil {
		logger.Error("failed to delete account", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	logger.Info("account deleted", zap.Uint("user_id", claims.UserID))
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// saveUploadedImage reads a multipart file field and stores it, answering
// the error responses itself.
func saveUploadedImage(c *gin.Context, storage *services.ImageStorageService, field string) (string, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return "", false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image file"})
		return "", false
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image file"})
		return "", false
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds maximum size (5MB)"})
		return "", false
	}

	filename, err := storage.SaveImage(data, file.Filename)
	if err != nil {
		respondServiceError(c, err)
		return "", false
	}
	return filename, true
}

const maxUploadBytes = 5 << 20
