// Package media validates and uploads images for projects and blog posts
// to an external media host and returns their public URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/server/config"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

// UploadFailedMessage is what admins see when the media host rejects a file.
const UploadFailedMessage = "Upload failed. Check media host settings."

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Uploader stores a file at the media host and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// File is an upload as received from a form.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// Validate checks the extension and size of an image before it is sent.
func Validate(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(imageExtensions, ext) {
		return fmt.Errorf("%w: unsupported image type %q", common.ErrorValidation, ext)
	}
	if size > MaxImageSize {
		return fmt.Errorf("%w: image is larger than 5 MiB", common.ErrorValidation)
	}
	return nil
}

// ResolveImageURL decides which imageUrl a saved item ends up with.
//
// An uploaded file wins. If its upload fails, current is returned together
// with the error so the stored value stays untouched. Without a file the
// pasted value is used exactly as typed.
func ResolveImageURL(ctx context.Context, u Uploader, current, pasted string, f *File) (string, error) {
	if f == nil || f.Body == nil || f.Name == "" {
		return pasted, nil
	}
	if err := Validate(f.Name, f.Size); err != nil {
		return current, err
	}
	url, err := u.Upload(ctx, f.Name, f.Body, f.Size, f.ContentType)
	if err != nil {
		return current, fmt.Errorf("%w: %v", common.ErrorUploadFailed, err)
	}
	return url, nil
}

// Disabled rejects every upload; used when no media host is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", fmt.Errorf("%w: no media host configured", common.ErrorUploadFailed)
}

// New returns the uploader selected by cfg.MediaBackend.
func New(ctx context.Context, cfg *config.Config) (Uploader, error) {
	switch cfg.MediaBackend {
	case "s3":
		return NewS3Uploader(ctx, cfg)
	case "cloudinary":
		return NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset)
	case "local":
		return NewLocalUploader(cfg.AssetsDir)
	case "":
		return Disabled{}, nil
	}
	return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
}
