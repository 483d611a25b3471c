package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dmitrijs2005/folio/internal/filex"
)

// LocalUploadsDir is the subdirectory of the assets directory that holds
// locally stored uploads. The web server serves it under /uploads/.
const LocalUploadsDir = "uploads"

// LocalUploader stores images on the server's own disk. Meant for
// development; production setups use S3 or Cloudinary.
type LocalUploader struct {
	dir     string
	baseURL string
}

func NewLocalUploader(assetsDir string) (*LocalUploader, error) {
	dir, err := filex.EnsureDir(filepath.Join(assetsDir, LocalUploadsDir))
	if err != nil {
		return nil, err
	}
	return &LocalUploader{dir: dir, baseURL: "/" + LocalUploadsDir}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := objectKey(name)
	path := filepath.Join(u.dir, filepath.FromSlash(key))
	if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	if _, err := filex.WriteNew(path, r); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return u.baseURL + "/" + key, nil
}
