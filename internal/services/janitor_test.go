package services_test

import (
	"context"
	"testing"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageJanitor_Release(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	t.Run("remote is skipped", func(t *testing.T) {
		out := f.janitor.Release(ctx, imageref.Ref{Kind: imageref.KindRemote, Value: "https://res.cloudinary.com/x.png"}, imageref.DirUploads)
		assert.Equal(t, services.CleanupSkippedRemote, out.Status)
	})

	t.Run("unreferenced local file is deleted", func(t *testing.T) {
		url := f.seedFile("gone.png")
		out := f.janitor.Release(ctx, imageref.Ref{Kind: imageref.KindLocal, Value: url}, imageref.DirUploads)
		assert.Equal(t, services.CleanupDeleted, out.Status)
		assert.False(t, f.local.Exists("gone.png"))
	})

	t.Run("missing file is reported", func(t *testing.T) {
		out := f.janitor.Release(ctx, imageref.Ref{Kind: imageref.KindLocal, Value: "never.png"}, imageref.DirUploads)
		assert.Equal(t, services.CleanupMissing, out.Status)
	})

	t.Run("relative blog path resolves into blogs folder", func(t *testing.T) {
		f.seedFile("blogs/cover.png")
		out := f.janitor.Release(ctx, imageref.Ref{Kind: imageref.KindLocal, Value: "cover.png"}, imageref.DirBlogs)
		assert.Equal(t, services.CleanupDeleted, out.Status)
		assert.False(t, f.local.Exists("blogs/cover.png"))
	})

	t.Run("foreign absolute URL is skipped", func(t *testing.T) {
		out := f.janitor.Release(ctx, imageref.Ref{Kind: imageref.KindLocal, Value: "http://elsewhere.test/img/x.png"}, imageref.DirUploads)
		assert.Equal(t, services.CleanupSkippedForeign, out.Status)
		assert.NoError(t, out.Err)
	})

	t.Run("foreign host never deletes a local file of the same name", func(t *testing.T) {
		f.seedFile("namesake.png")
		out := f.janitor.Release(ctx, imageref.Ref{Kind: imageref.KindLocal, Value: "https://other.host/uploads/namesake.png"}, imageref.DirUploads)
		assert.Equal(t, services.CleanupSkippedForeign, out.Status)
		assert.True(t, f.local.Exists("namesake.png"))
	})

	t.Run("traversal fails", func(t *testing.T) {
		out := f.janitor.Release(ctx, imageref.Ref{Kind: imageref.KindLocal, Value: "../../etc/passwd"}, imageref.DirUploads)
		assert.Equal(t, services.CleanupFailed, out.Status)
	})
}

func TestImageJanitor_ReleaseAllDeduplicates(t *testing.T) {
	f := newFixture(t, false)
	url := f.seedFile("dup.png")
	ref := imageref.Ref{Kind: imageref.KindLocal, Value: url}

	report := f.janitor.ReleaseAll(context.Background(), []imageref.Ref{ref, {}, ref}, imageref.DirUploads)
	assert.Len(t, report, 1)
	assert.Equal(t, 1, report.Count(services.CleanupDeleted))
}

func TestImageJanitor_SharedAcrossSpellings(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	dev := f.seedFile("x.png")

	spellings := map[string]string{
		"production origin": "https://api.galleryart.com/uploads/x.png",
		"legacy relative":   "x.png",
		"uploads relative":  "/uploads/x.png",
	}
	for name, other := range spellings {
		t.Run(name, func(t *testing.T) {
			holder, err := f.paintings.Create(ctx, services.PaintingInput{
				Title: ptr("Holder"), PriceCents: ptr(int64(1)), ImageURLs: []string{"https://res.cloudinary.com/demo/h.png"},
			})
			require.NoError(t, err)
			holder.Images = append(holder.Images, models.PaintingImage{
				ID: uuid.New().String(), PaintingID: holder.ID, URL: other, Kind: string(imageref.KindLocal), Position: 1,
			})
			require.NoError(t, f.paintingRepo.Update(ctx, holder))

			out := f.janitor.Release(ctx, imageref.Ref{Kind: imageref.KindLocal, Value: dev}, imageref.DirUploads)
			assert.Equal(t, services.CleanupSkippedShared, out.Status)
			assert.True(t, f.local.Exists("x.png"))

			_, err = f.paintings.Delete(ctx, holder.ID)
			require.NoError(t, err)
			f.seedFile("x.png")
		})
	}
}

func TestImageJanitor_PaintingDeleteKeepsFileUsedUnderAnotherOrigin(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	dev := f.seedFile("x.png")
	prod := "https://api.galleryart.com/uploads/x.png"

	a, err := f.paintings.Create(ctx, services.PaintingInput{
		Title: ptr("A"), PriceCents: ptr(int64(1)), ImageURLs: []string{dev},
	})
	require.NoError(t, err)
	b, err := f.paintings.Create(ctx, services.PaintingInput{
		Title: ptr("B"), PriceCents: ptr(int64(1)), ImageURLs: []string{prod},
	})
	require.NoError(t, err)

	items, err := f.gallery.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Len(t, items[0].UsedBy, 2)

	report, err := f.paintings.Delete(ctx, a.ID)
	require.NoError(t, err)
	status, _ := report.Status(dev)
	assert.Equal(t, services.CleanupSkippedShared, status)
	assert.True(t, f.local.Exists("x.png"))

	report, err = f.paintings.Delete(ctx, b.ID)
	require.NoError(t, err)
	status, _ = report.Status(prod)
	assert.Equal(t, services.CleanupDeleted, status)
	assert.False(t, f.local.Exists("x.png"))
}
