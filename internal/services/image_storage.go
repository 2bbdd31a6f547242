package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retroshelf/retroshelf/internal/logger"
)

// Uploaded image types we accept, mapped to the extension we store.
var allowedImageExts = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".png":  ".png",
	".webp": ".webp",
}

// ImageStorageService stores uploaded images (game covers, console photos,
// user avatars) under a single uploads directory served at /api/uploads.
type ImageStorageService struct {
	storageDir string
}

// NewImageStorageService creates the uploads directory if needed.
func NewImageStorageService(storageDir string) *ImageStorageService {
	if storageDir == "" {
		storageDir = "./data/uploads"
	}
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		// Will fail again on actual writes; keep starting up.
		logger.Warn("could not create uploads directory", zap.Error(err))
	}
	return &ImageStorageService{storageDir: storageDir}
}

// SaveImage writes image data under a fresh uuid filename and returns that
// filename. originalName is only consulted for the extension.
func (s *ImageStorageService) SaveImage(imageData []byte, originalName string) (string, error) {
	if len(imageData) == 0 {
		return "", fmt.Errorf("empty image data")
	}

	ext, ok := allowedImageExts[strings.ToLower(filepath.Ext(originalName))]
	if !ok {
		return "", validationErrorf("unsupported image type '%s'", filepath.Ext(originalName))
	}

	filename := uuid.New().String() + ext
	filePath := filepath.Join(s.storageDir, filename)

	if err := os.WriteFile(filePath, imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	return filename, nil
}

// DeleteImage removes a stored file by filename. Missing files are not an
// error; the row pointing at them is already being cleared.
func (s *ImageStorageService) DeleteImage(filename string) error {
	if filename == "" || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		return nil
	}
	err := os.Remove(filepath.Join(s.storageDir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// GetStorageDir returns the storage directory path.
func (s *ImageStorageService) GetStorageDir() string {
	return s.storageDir
}
