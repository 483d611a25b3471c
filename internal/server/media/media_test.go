package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/folio/internal/common"
	"github.com/dmitrijs2005/folio/internal/server/config"
)

type fakeUploader struct {
	url   string
	err   error
	calls int
	body  string
}

func (f *fakeUploader) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	f.calls++
	b, _ := io.ReadAll(r)
	f.body = string(b)
	return f.url, f.err
}

func TestValidate(t *testing.T) {
	for _, ok := range []string{"a.jpg", "b.JPEG", "c.png", "d.gif", "e.webp"} {
		assert.NoError(t, Validate(ok, 1024), ok)
	}
	assert.ErrorIs(t, Validate("x.pdf", 10), common.ErrorValidation)
	assert.ErrorIs(t, Validate("noext", 10), common.ErrorValidation)
	assert.NoError(t, Validate("big.png", MaxImageSize))
	assert.ErrorIs(t, Validate("big.png", MaxImageSize+1), common.ErrorValidation)
}

func TestResolveImageURL_PastedKeptExactly(t *testing.T) {
	u := &fakeUploader{}
	pasted := "  https://example.com/x.png?q=1  "
	got, err := ResolveImageURL(context.Background(), u, "old", pasted, nil)
	require.NoError(t, err)
	assert.Equal(t, pasted, got)
	assert.Zero(t, u.calls)
}

func TestResolveImageURL_UploadWins(t *testing.T) {
	u := &fakeUploader{url: "https://cdn/new.png"}
	f := &File{Name: "new.png", Size: 3, Body: strings.NewReader("png")}
	got, err := ResolveImageURL(context.Background(), u, "old", "https://pasted", f)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/new.png", got)
	assert.Equal(t, "png", u.body)
}

func TestResolveImageURL_UploadFailureKeepsCurrent(t *testing.T) {
	u := &fakeUploader{err: errors.New("401")}
	f := &File{Name: "new.png", Size: 3, Body: strings.NewReader("png")}
	got, err := ResolveImageURL(context.Background(), u, "old", "https://pasted", f)
	assert.ErrorIs(t, err, common.ErrorUploadFailed)
	assert.Equal(t, "old", got)
}

func TestResolveImageURL_InvalidFileNotSent(t *testing.T) {
	u := &fakeUploader{}
	f := &File{Name: "doc.pdf", Size: 3, Body: strings.NewReader("pdf")}
	got, err := ResolveImageURL(context.Background(), u, "old", "", f)
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "old", got)
	assert.Zero(t, u.calls)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	u, err := New(ctx, &config.Config{})
	require.NoError(t, err)
	_, err = u.Upload(ctx, "a.png", strings.NewReader(""), 0, "")
	assert.ErrorIs(t, err, common.ErrorUploadFailed)

	u, err = New(ctx, &config.Config{MediaBackend: "cloudinary", CloudinaryCloudName: "demo", CloudinaryUploadPreset: "p"})
	require.NoError(t, err)
	assert.IsType(t, &CloudinaryUploader{}, u)

	u, err = New(ctx, &config.Config{MediaBackend: "local", AssetsDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalUploader{}, u)

	_, err = New(ctx, &config.Config{MediaBackend: "ftp"})
	assert.Error(t, err)
}
