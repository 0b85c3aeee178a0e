package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxFilenameLength = 255
	MaxImageSize      = 10 * 1024 * 1024
	UploadURLTTL      = 15 * time.Minute
)

// AllowedImageTypes is the content type whitelist for post images
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var (
	ErrInvalidFilename    = errors.New("storage: invalid filename")
	ErrInvalidContentType = errors.New("storage: content type is not allowed")
)

// UploadURLRequest asks for a presigned URL to upload a post image
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURLResponse carries the presigned URL and the URL the image will be served from
type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileKey   string `json:"file_key"`
	ImageURL  string `json:"image_url"`
	ExpiresAt int64  `json:"expires_at"`
}

// ValidateFilename checks if filename is safe and valid
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("%w: filename cannot be empty", ErrInvalidFilename)
	}
	if len(filename) > MaxFilenameLength {
		return fmt.Errorf("%w: filename too long (max %d characters)", ErrInvalidFilename, MaxFilenameLength)
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("%w: filename contains invalid characters", ErrInvalidFilename)
	}
	if filepath.Ext(filename) == "" {
		return fmt.Errorf("%w: filename must have an extension", ErrInvalidFilename)
	}
	return nil
}

// ValidateContentType checks if content type is an allowed image type
func ValidateContentType(contentType string) error {
	if !AllowedImageTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("%w: %q", ErrInvalidContentType, contentType)
	}
	return nil
}

// Uploads issues presigned URLs for post images
type Uploads struct {
	storage Service
	now     func() time.Time
}

// NewUploads creates an upload URL issuer over storage
func NewUploads(storage Service) *Uploads {
	return &Uploads{storage: storage, now: time.Now}
}

// GenerateUploadURL validates the request and presigns a PUT under posts/
func (u *Uploads) GenerateUploadURL(ctx context.Context, req UploadURLRequest) (*UploadURLResponse, error) {
	if err := ValidateFilename(req.Filename); err != nil {
		return nil, err
	}
	if err := ValidateContentType(req.ContentType); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("posts/%s-%s", uuid.New().String(), req.Filename)

	uploadURL, err := u.storage.GeneratePresignedUploadURL(ctx, key, req.ContentType, UploadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		FileKey:   key,
		ImageURL:  u.storage.ObjectURL(key),
		ExpiresAt: u.now().Add(UploadURLTTL).Unix(),
	}, nil
}
