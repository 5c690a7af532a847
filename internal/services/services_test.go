package services_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/repository"
	"art-gallery-backend/internal/services"
	"art-gallery-backend/internal/storage"
	"art-gallery-backend/internal/testutil"

	"github.com/stretchr/testify/require"
)

const devOrigin = "http://localhost:5000"

type fakeNotifier struct {
	mu       sync.Mutex
	orders   []*models.Order
	contacts []*models.ContactMessage
}

func (n *fakeNotifier) OrderPlaced(ctx context.Context, order *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order)
}

func (n *fakeNotifier) ContactReceived(ctx context.Context, msg *models.ContactMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts = append(n.contacts, msg)
}

type fixture struct {
	t        *testing.T
	resolver *imageref.Resolver
	local    *storage.LocalStore
	remote   *testutil.FakeRemote
	janitor  *services.ImageJanitor
	notifier *fakeNotifier

	paintingRepo repository.PaintingRepository

	paintings  *services.PaintingService
	categories *services.CategoryService
	blog       *services.BlogService
	orders     *services.OrderService
	contact    *services.ContactService
	gallery    *services.GalleryService
	auth       *services.AuthService
}

// newFixture wires every service against a fresh database. With useRemote
// set, uploads go to a fake Cloudinary-like store.
func newFixture(t *testing.T, useRemote bool) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	local, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	var remote *testutil.FakeRemote
	var uploader *storage.Uploader
	if useRemote {
		remote = &testutil.FakeRemote{}
		uploader = storage.NewUploader(local, remote)
	} else {
		uploader = storage.NewUploader(local, nil)
	}

	resolver := imageref.NewResolver(imageref.Options{
		ProductionOrigin:  "https://api.galleryart.com",
		DevelopmentOrigin: devOrigin,
		RemoteMarker:      "cloudinary",
	})

	paintingRepo := repository.NewPaintingRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	imageRepo := repository.NewImageRepository(db)

	intake := services.NewImageIntake(uploader, resolver, 1<<20)
	janitor := services.NewImageJanitor(resolver, local, imageRepo)
	notifier := &fakeNotifier{}

	return &fixture{
		t:            t,
		resolver:     resolver,
		local:        local,
		remote:       remote,
		janitor:      janitor,
		notifier:     notifier,
		paintingRepo: paintingRepo,
		paintings:    services.NewPaintingService(paintingRepo, categoryRepo, intake, janitor),
		categories:   services.NewCategoryService(categoryRepo, paintingRepo, intake, janitor),
		blog:         services.NewBlogService(repository.NewBlogRepository(db), intake, janitor, services.NewMarkdownRenderer()),
		orders:       services.NewOrderService(repository.NewOrderRepository(db), paintingRepo, notifier),
		contact:      services.NewContactService(repository.NewContactRepository(db), notifier),
		gallery:      services.NewGalleryService(local, imageRepo, intake),
		auth:         services.NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour),
	}
}

// seedFile writes a file directly into the upload root and returns the URL
// a client would have received for it.
func (f *fixture) seedFile(rel string) string {
	f.t.Helper()
	full := filepath.Join(f.local.Root(), filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(f.t, os.WriteFile(full, testutil.PNG, 0o644))
	return devOrigin + "/uploads/" + rel
}

func ptr[T any](v T) *T {
	return &v
}
