package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"art-gallery-backend/internal/app"
	"art-gallery-backend/internal/config"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/routes"
	"art-gallery-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@gallery.test"
	adminPassword = "correct horse battery"
	remoteImage   = "https://res.cloudinary.com/demo/image/upload/v1/sunset.jpg"
)

type recordingNotifier struct {
	mu       sync.Mutex
	orders   int
	contacts int
}

func (n *recordingNotifier) OrderPlaced(ctx context.Context, order *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders++
}

func (n *recordingNotifier) ContactReceived(ctx context.Context, msg *models.ContactMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts++
}

type env struct {
	t         *testing.T
	handler   http.Handler
	uploadDir string
	notifier  *recordingNotifier
	token     string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		Port:                "0",
		Environment:         config.EnvDevelopment,
		ClientOrigin:        "*",
		ProductionOrigin:    "https://api.gallery.test",
		DevelopmentOrigin:   "http://localhost:5000",
		UploadDir:           filepath.Join(dir, "uploads"),
		MaxUploadSize:       1 << 20,
		DBDriver:            "sqlite",
		DatabaseURL:         filepath.Join(dir, "gallery.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		JWTSecret:           "routes-test-secret",
		JWTExpiry:           time.Hour,
		AdminEmail:          adminEmail,
		AdminPassword:       adminPassword,
		StorageBackend:      config.BackendLocal,
		RemoteStorageMarker: "cloudinary",
	}

	notifier := &recordingNotifier{}
	a, err := app.NewWithOptions(context.Background(), cfg, app.Options{Notifier: notifier})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	e := &env{
		t:         t,
		handler:   routes.SetupRoutes(a),
		uploadDir: cfg.UploadDir,
		notifier:  notifier,
	}
	e.token = e.login(adminEmail, adminPassword)
	return e
}

func (e *env) do(method, target string, body io.Reader, contentType string, admin bool) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *env) json(method, target string, payload any, admin bool) *httptest.ResponseRecorder {
	e.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(e.t, err)
		body = bytes.NewReader(b)
	}
	return e.do(method, target, body, "application/json", admin)
}

func (e *env) form(method, target string, f *multipartForm) *httptest.ResponseRecorder {
	e.t.Helper()
	body, contentType := f.encode(e.t)
	return e.do(method, target, body, contentType, true)
}

func (e *env) login(email, password string) string {
	e.t.Helper()
	w := e.json(http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Email: email, Password: password}, false)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	var resp models.LoginResponse
	decode(e.t, w, &resp)
	require.NotEmpty(e.t, resp.Token)
	return resp.Token
}

// localFile maps a served upload URL to the file on disk.
func (e *env) localFile(url string) string {
	_, rel, ok := strings.Cut(url, "/uploads/")
	require.True(e.t, ok, url)
	return filepath.Join(e.uploadDir, filepath.FromSlash(rel))
}

type multipartForm struct {
	fields [][2]string
	files  [][2]string
}

func newForm() *multipartForm { return &multipartForm{} }

func (f *multipartForm) field(name, value string) *multipartForm {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

func (f *multipartForm) file(field, filename string) *multipartForm {
	f.files = append(f.files, [2]string{field, filename})
	return f
}

func (f *multipartForm) encode(t *testing.T) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, kv := range f.fields {
		require.NoError(t, w.WriteField(kv[0], kv[1]))
	}
	for _, kv := range f.files {
		part, err := w.CreateFormFile(kv[0], kv[1])
		require.NoError(t, err)
		_, err = part.Write(testutil.PNG)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func cleanupStatus(report []models.CleanupResponse, ref string) string {
	for _, c := range report {
		if c.Reference == ref {
			return c.Status
		}
	}
	return ""
}

func TestHealth(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/health", nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok","storage":"local"}`, w.Body.String())
}

func TestAuth(t *testing.T) {
	e := newEnv(t)

	t.Run("admin routes need a token", func(t *testing.T) {
		w := e.do(http.MethodGet, "/api/v1/admin/orders", nil, "", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := e.json(http.MethodPost, "/api/v1/auth/login", models.LoginRequest{Email: adminEmail, Password: "nope"}, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me", func(t *testing.T) {
		w := e.do(http.MethodGet, "/api/v1/admin/me", nil, "", true)
		require.Equal(t, http.StatusOK, w.Code)

		var user models.UserResponse
		decode(t, w, &user)
		assert.Equal(t, adminEmail, user.Email)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})
}

func TestPaintingLifecycle(t *testing.T) {
	e := newEnv(t)

	// create with one upload and one pre-resolved remote URL
	w := e.form(http.MethodPost, "/api/v1/admin/paintings", newForm().
		field("title", "Harbour at Dusk").
		field("price", "1250.50").
		field("imageUrls", remoteImage).
		file("images", "harbour.png"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.PaintingResponse
	decode(t, w, &created)
	require.Len(t, created.Images, 2)
	assert.Equal(t, 1250.5, created.Price)
	assert.True(t, created.IsAvailable)

	local := created.Images[0]
	assert.True(t, strings.HasPrefix(local, "http://localhost:5000/uploads/"), local)
	assert.Equal(t, remoteImage, created.Images[1])
	assert.FileExists(t, e.localFile(local))

	// the stored file is served statically
	served := e.do(http.MethodGet, "/uploads/"+path.Base(local), nil, "", false)
	assert.Equal(t, http.StatusOK, served.Code)

	// public read resolves the same URLs
	w = e.do(http.MethodGet, "/api/v1/paintings/"+created.ID, nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.PaintingResponse
	decode(t, w, &fetched)
	assert.Equal(t, created.Images, fetched.Images)

	// keep the remote image, replace the local one
	w = e.form(http.MethodPut, "/api/v1/admin/paintings/"+created.ID, newForm().
		field("existingImages", `["`+remoteImage+`"]`).
		file("images", "harbour-v2.png"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.PaintingResponse
	decode(t, w, &updated)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, remoteImage, updated.Images[0])
	assert.NotEqual(t, local, updated.Images[1])
	assert.Equal(t, "deleted", cleanupStatus(updated.Cleanup, local))
	assert.NoFileExists(t, e.localFile(local))

	// a title-only update leaves images untouched
	w = e.form(http.MethodPut, "/api/v1/admin/paintings/"+created.ID, newForm().field("title", "Harbour at Night"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var renamed models.PaintingResponse
	decode(t, w, &renamed)
	assert.Equal(t, updated.Images, renamed.Images)
	assert.Empty(t, renamed.Cleanup)

	// delete releases everything; remote objects are left alone
	w = e.do(http.MethodDelete, "/api/v1/admin/paintings/"+created.ID, nil, "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var deleted models.MessageResponse
	decode(t, w, &deleted)
	assert.Equal(t, "skipped_remote", cleanupStatus(deleted.Cleanup, remoteImage))
	assert.Equal(t, "deleted", cleanupStatus(deleted.Cleanup, updated.Images[1]))
	assert.NoFileExists(t, e.localFile(updated.Images[1]))

	w = e.do(http.MethodGet, "/api/v1/paintings/"+created.ID, nil, "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaintingCreate_Validation(t *testing.T) {
	e := newEnv(t)

	t.Run("no image", func(t *testing.T) {
		w := e.form(http.MethodPost, "/api/v1/admin/paintings", newForm().
			field("title", "Blank").
			field("price", "10"))
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	t.Run("bad price", func(t *testing.T) {
		w := e.form(http.MethodPost, "/api/v1/admin/paintings", newForm().
			field("title", "Blank").
			field("price", "ten").
			file("images", "a.png"))
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	t.Run("not an image", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("title", "Notes"))
		require.NoError(t, mw.WriteField("price", "10"))
		part, err := mw.CreateFormFile("images", "notes.txt")
		require.NoError(t, err)
		_, err = part.Write([]byte("just some text"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		w := e.do(http.MethodPost, "/api/v1/admin/paintings", &buf, mw.FormDataContentType(), true)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

		entries, err := os.ReadDir(e.uploadDir)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.True(t, entry.IsDir(), "unexpected upload %s", entry.Name())
		}
	})
}

func TestPaintingList_Filters(t *testing.T) {
	e := newEnv(t)

	w := e.form(http.MethodPost, "/api/v1/admin/categories", newForm().field("name", "Seascapes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cat models.CategoryResponse
	decode(t, w, &cat)

	for _, p := range []struct{ title, featured, category string }{
		{"Tide", "true", cat.ID},
		{"Dunes", "false", ""},
	} {
		f := newForm().
			field("title", p.title).
			field("price", "100").
			field("isFeatured", p.featured).
			field("imageUrl", remoteImage)
		if p.category != "" {
			f.field("categoryId", p.category)
		}
		w := e.form(http.MethodPost, "/api/v1/admin/paintings", f)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	var list models.PaintingListResponse
	w = e.do(http.MethodGet, "/api/v1/paintings?featured=true", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list.Paintings, 1)
	assert.Equal(t, "Tide", list.Paintings[0].Title)
	require.NotNil(t, list.Paintings[0].Category)
	assert.Equal(t, "seascapes", list.Paintings[0].Category.Slug)

	w = e.do(http.MethodGet, "/api/v1/paintings?category="+cat.ID, nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Equal(t, 1, list.Total)

	w = e.do(http.MethodGet, "/api/v1/paintings?available=maybe", nil, "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryImage(t *testing.T) {
	e := newEnv(t)

	w := e.form(http.MethodPost, "/api/v1/admin/categories", newForm().
		field("name", "Portraits").
		file("image", "portraits.png"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cat models.CategoryResponse
	decode(t, w, &cat)
	require.NotEmpty(t, cat.Image)
	assert.FileExists(t, e.localFile(cat.Image))

	// explicit keep changes nothing
	w = e.form(http.MethodPut, "/api/v1/admin/categories/"+cat.ID, newForm().
		field("description", "Faces").
		field("imageAction", "keep"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var kept models.CategoryResponse
	decode(t, w, &kept)
	assert.Equal(t, cat.Image, kept.Image)
	assert.FileExists(t, e.localFile(cat.Image))

	// remove clears the field and deletes the file
	w = e.form(http.MethodPut, "/api/v1/admin/categories/"+cat.ID, newForm().field("imageAction", "remove"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var removed models.CategoryResponse
	decode(t, w, &removed)
	assert.Empty(t, removed.Image)
	assert.Equal(t, "deleted", cleanupStatus(removed.Cleanup, cat.Image))
	assert.NoFileExists(t, e.localFile(cat.Image))

	w = e.form(http.MethodPost, "/api/v1/admin/categories", newForm().field("name", "Portraits"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCategoryDelete_InUse(t *testing.T) {
	e := newEnv(t)

	w := e.form(http.MethodPost, "/api/v1/admin/categories", newForm().field("name", "Abstract"))
	require.Equal(t, http.StatusCreated, w.Code)
	var cat models.CategoryResponse
	decode(t, w, &cat)

	w = e.form(http.MethodPost, "/api/v1/admin/paintings", newForm().
		field("title", "Shapes").
		field("price", "5").
		field("categoryId", cat.ID).
		field("imageUrl", remoteImage))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(http.MethodDelete, "/api/v1/admin/categories/"+cat.ID, nil, "", true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderFlow(t *testing.T) {
	e := newEnv(t)

	w := e.form(http.MethodPost, "/api/v1/admin/paintings", newForm().
		field("title", "Orchard").
		field("price", "900").
		field("imageUrl", remoteImage))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var painting models.PaintingResponse
	decode(t, w, &painting)

	w = e.json(http.MethodPost, "/api/v1/orders", models.CreateOrderRequest{
		PaintingID:    painting.ID,
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Message:       "Is shipping included?",
	}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.OrderResponse
	decode(t, w, &order)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "Orchard", order.PaintingTitle)
	assert.Equal(t, 1, e.notifier.orders)

	status := func(s string) *httptest.ResponseRecorder {
		return e.json(http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", models.UpdateOrderStatusRequest{Status: s}, true)
	}

	assert.Equal(t, http.StatusConflict, status(models.OrderStatusCompleted).Code)
	assert.Equal(t, http.StatusBadRequest, status("shipped").Code)
	require.Equal(t, http.StatusOK, status(models.OrderStatusContacted).Code)
	require.Equal(t, http.StatusOK, status(models.OrderStatusCompleted).Code)

	w = e.do(http.MethodGet, "/api/v1/paintings/"+painting.ID, nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var sold models.PaintingResponse
	decode(t, w, &sold)
	assert.False(t, sold.IsAvailable)

	// sold paintings take no new inquiries
	w = e.json(http.MethodPost, "/api/v1/orders", models.CreateOrderRequest{
		PaintingID:    painting.ID,
		CustomerName:  "Grace",
		CustomerEmail: "grace@example.com",
	}, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodGet, "/api/v1/admin/orders?status=completed", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	var list models.OrderListResponse
	decode(t, w, &list)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, order.ID, list.Orders[0].ID)

	w = e.do(http.MethodDelete, "/api/v1/admin/orders/"+order.ID, nil, "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(http.MethodGet, "/api/v1/admin/orders/"+order.ID, nil, "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlog(t *testing.T) {
	e := newEnv(t)

	w := e.form(http.MethodPost, "/api/v1/admin/blog", newForm().
		field("title", "Spring Show").
		field("content", "# Opening night\n\nJoin us.").
		field("tags", "events, openings").
		field("published", "false").
		file("coverImage", "cover.png"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post models.BlogPostResponse
	decode(t, w, &post)
	assert.Equal(t, "spring-show", post.Slug)
	assert.Equal(t, []string{"events", "openings"}, post.Tags)
	assert.True(t, strings.HasPrefix(post.CoverImage, "http://localhost:5000/uploads/blogs/"), post.CoverImage)
	assert.FileExists(t, e.localFile(post.CoverImage))

	// drafts are hidden from the public
	w = e.do(http.MethodGet, "/api/v1/blog/spring-show", nil, "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var list models.BlogListResponse
	w = e.do(http.MethodGet, "/api/v1/blog", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Empty(t, list.Posts)

	w = e.do(http.MethodGet, "/api/v1/admin/blog", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Len(t, list.Posts, 1)

	w = e.form(http.MethodPut, "/api/v1/admin/blog/"+post.ID, newForm().field("published", "true"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(http.MethodGet, "/api/v1/blog/spring-show", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var published models.BlogPostResponse
	decode(t, w, &published)
	assert.Contains(t, published.ContentHTML, "<h1")
	assert.NotNil(t, published.PublishedAt)
	assert.Equal(t, post.CoverImage, published.CoverImage)

	w = e.do(http.MethodDelete, "/api/v1/admin/blog/"+post.ID, nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted models.MessageResponse
	decode(t, w, &deleted)
	assert.Equal(t, "deleted", cleanupStatus(deleted.Cleanup, post.CoverImage))
	assert.NoFileExists(t, e.localFile(post.CoverImage))
}

func TestContact(t *testing.T) {
	e := newEnv(t)

	w := e.json(http.MethodPost, "/api/v1/contact", models.ContactRequest{Name: "Lin", Email: "not-an-email", Message: "Hi"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.json(http.MethodPost, "/api/v1/contact", models.ContactRequest{Name: "Lin", Email: "lin@example.com", Subject: "Commission", Message: "Hi"}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var msg models.ContactResponse
	decode(t, w, &msg)
	assert.False(t, msg.IsRead)
	assert.Equal(t, 1, e.notifier.contacts)

	w = e.do(http.MethodPatch, "/api/v1/admin/contact/"+msg.ID+"/read", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list models.ContactListResponse
	w = e.do(http.MethodGet, "/api/v1/admin/contact?unread=true", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Empty(t, list.Messages)

	w = e.do(http.MethodDelete, "/api/v1/admin/contact/"+msg.ID, nil, "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(http.MethodDelete, "/api/v1/admin/contact/"+msg.ID, nil, "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGallery(t *testing.T) {
	e := newEnv(t)

	w := e.form(http.MethodPost, "/api/v1/admin/gallery/upload", newForm().file("file", "loose.png"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var loose models.UploadResponse
	decode(t, w, &loose)
	assert.Equal(t, "local", loose.Kind)
	assert.FileExists(t, e.localFile(loose.URL))

	// attach it to a painting by URL so it is in use
	w = e.form(http.MethodPost, "/api/v1/admin/gallery/upload", newForm().file("file", "used.png"))
	require.Equal(t, http.StatusCreated, w.Code)
	var used models.UploadResponse
	decode(t, w, &used)

	w = e.form(http.MethodPost, "/api/v1/admin/paintings", newForm().
		field("title", "Reuse").
		field("price", "1").
		field("imageUrl", used.URL))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var gallery models.GalleryResponse
	w = e.do(http.MethodGet, "/api/v1/admin/gallery", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &gallery)
	require.Len(t, gallery.Items, 2)
	for _, item := range gallery.Items {
		if item.URL == used.URL {
			assert.Len(t, item.UsedBy, 1)
		} else {
			assert.Empty(t, item.UsedBy)
		}
	}

	w = e.do(http.MethodDelete, "/api/v1/admin/gallery?path="+used.URL, nil, "", true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.FileExists(t, e.localFile(used.URL))

	w = e.do(http.MethodDelete, "/api/v1/admin/gallery?path="+path.Base(loose.URL), nil, "", true)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoFileExists(t, e.localFile(loose.URL))

	w = e.do(http.MethodDelete, "/api/v1/admin/gallery?path="+remoteImage, nil, "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
