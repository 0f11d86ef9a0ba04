package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
)

// ImageService stores recipe images posted as base64 payloads and hands
// back the URL clients read them from. S3 is used when configured,
// otherwise files land in the local media directory.
type ImageService struct {
	s3       *config.S3Config
	mediaDir string
	mediaURL string
}

// NewImageService creates a new ImageService instance
func NewImageService(s3 *config.S3Config, mediaDir, mediaURL string) *ImageService {
	return &ImageService{
		s3:       s3,
		mediaDir: mediaDir,
		mediaURL: mediaURL,
	}
}

// StoreBase64 decodes a data-URI payload ("data:image/png;base64,...")
// or a bare base64 string and stores it under a fresh uuid filename.
func (s *ImageService) StoreBase64(ctx context.Context, data string) (string, error) {
	contentType := "image/png"
	ext := ".png"
	if idx := strings.Index(data, ","); idx >= 0 {
		header := data[:idx]
		data = data[idx+1:]
		if strings.HasPrefix(header, "data:") {
			contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
			switch contentType {
			case "image/jpeg", "image/jpg":
				ext = ".jpg"
			case "image/gif":
				ext = ".gif"
			case "image/webp":
				ext = ".webp"
			}
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fieldError("image", "Некорректное изображение")
	}

	filename := uuid.New().String() + ext
	key := "recipes/" + filename

	if s.s3 != nil {
		return s.s3.Upload(ctx, key, decoded, contentType)
	}

	dir := filepath.Join(s.mediaDir, "recipes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), decoded, 0o644); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return s.mediaURL + "/" + key, nil
}
