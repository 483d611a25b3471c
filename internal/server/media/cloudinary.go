package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader performs unsigned uploads with an upload preset.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	preset string
}

// NewCloudinaryUploader needs no API key or secret: unsigned uploads are
// authorised by the preset alone.
func NewCloudinaryUploader(cloudName, preset string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, "", "")
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{cld: cld, preset: preset}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	res, err := u.cld.Upload.UnsignedUpload(ctx, r, u.preset, uploader.UploadParams{
		FilenameOverride: name,
	})
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload rejected: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("upload rejected: no secure_url in response")
	}
	return res.SecureURL, nil
}
