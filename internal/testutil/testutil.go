// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"art-gallery-backend/internal/database"
	"art-gallery-backend/internal/imageref"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// PNG is the smallest byte sequence http.DetectContentType reports as image/png.
var PNG = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)

// NewDB returns a migrated SQLite database that lives for the duration of the test.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db.DB, "sqlite"))
	return db
}

// FileHeader builds a multipart file header as a handler would receive it.
func FileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

// FakeRemote is an in-memory remote store that hands out URLs under BaseURL.
type FakeRemote struct {
	BaseURL string
	Err     error

	mu      sync.Mutex
	Uploads []string
}

func (f *FakeRemote) Name() string { return "fake" }

func (f *FakeRemote) Upload(ctx context.Context, folder, originalName, contentType string, r io.Reader) (imageref.UploadResult, error) {
	if f.Err != nil {
		return imageref.UploadResult{}, f.Err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return imageref.UploadResult{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	base := f.BaseURL
	if base == "" {
		base = "https://res.cloudinary.com/demo/image/upload"
	}
	url := fmt.Sprintf("%s/%d-%s", base, len(f.Uploads)+1, originalName)
	f.Uploads = append(f.Uploads, url)
	return imageref.UploadResult{SecureURL: url, Path: url, Backend: f.Name()}, nil
}
