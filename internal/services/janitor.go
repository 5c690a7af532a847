package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/models"
	"art-gallery-backend/internal/repository"
	"art-gallery-backend/internal/storage"
)

type CleanupStatus string

const (
	CleanupDeleted       CleanupStatus = "deleted"
	CleanupSkippedRemote CleanupStatus = "skipped_remote"
	CleanupSkippedShared CleanupStatus = "skipped_shared"
	// CleanupSkippedForeign marks an absolute URL on a host other than this
	// deployment's origins.
	CleanupSkippedForeign CleanupStatus = "skipped_foreign"
	CleanupMissing       CleanupStatus = "missing"
	CleanupFailed        CleanupStatus = "failed"
)

var errNotUnderRoot = errors.New("reference does not name a file under the upload root")

// CleanupOutcome is what happened to one released image reference.
type CleanupOutcome struct {
	Ref    imageref.Ref
	Status CleanupStatus
	Err    error
}

// CleanupReport collects the outcomes of one mutating operation. Cleanup
// never fails the operation itself.
type CleanupReport []CleanupOutcome

func (r CleanupReport) Count(status CleanupStatus) int {
	n := 0
	for _, o := range r {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (r CleanupReport) Status(value string) (CleanupStatus, bool) {
	for _, o := range r {
		if o.Ref.Value == value {
			return o.Status, true
		}
	}
	return "", false
}

// ImageJanitor deletes local image files once nothing references them.
// Remote objects are never touched.
type ImageJanitor struct {
	resolver *imageref.Resolver
	local    *storage.LocalStore
	images   repository.ImageRepository
}

func NewImageJanitor(resolver *imageref.Resolver, local *storage.LocalStore, images repository.ImageRepository) *ImageJanitor {
	return &ImageJanitor{
		resolver: resolver,
		local:    local,
		images:   images,
	}
}

// Release must run after the owning entity stopped referencing ref, so any
// remaining usage belongs to another entity.
func (j *ImageJanitor) Release(ctx context.Context, ref imageref.Ref, dir imageref.Dir) CleanupOutcome {
	outcome := j.release(ctx, ref, dir)

	switch outcome.Status {
	case CleanupDeleted:
		slog.Info("image file deleted", "ref", ref.Value)
	case CleanupMissing:
		slog.Warn("image file already gone", "ref", ref.Value)
	case CleanupFailed:
		slog.Error("image cleanup failed", "ref", ref.Value, "error", outcome.Err)
	default:
		slog.Debug("image cleanup skipped", "ref", ref.Value, "status", outcome.Status)
	}
	return outcome
}

func (j *ImageJanitor) release(ctx context.Context, ref imageref.Ref, dir imageref.Dir) CleanupOutcome {
	if ref.IsRemote() {
		return CleanupOutcome{Ref: ref, Status: CleanupSkippedRemote}
	}
	if !j.resolver.Owns(ref.Value) {
		return CleanupOutcome{Ref: ref, Status: CleanupSkippedForeign}
	}

	rel, ok := j.resolver.LocalPath(ref.Value, dir)
	if !ok {
		return CleanupOutcome{Ref: ref, Status: CleanupFailed, Err: errNotUnderRoot}
	}

	local, _, err := usageByPath(ctx, j.images, j.resolver)
	if err != nil {
		return CleanupOutcome{Ref: ref, Status: CleanupFailed, Err: err}
	}
	if len(local[rel]) > 0 {
		return CleanupOutcome{Ref: ref, Status: CleanupSkippedShared}
	}

	if err := j.local.Delete(rel); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CleanupOutcome{Ref: ref, Status: CleanupMissing}
		}
		return CleanupOutcome{Ref: ref, Status: CleanupFailed, Err: err}
	}
	return CleanupOutcome{Ref: ref, Status: CleanupDeleted}
}

// ReleaseAll releases every distinct non-empty reference in refs.
func (j *ImageJanitor) ReleaseAll(ctx context.Context, refs []imageref.Ref, dir imageref.Dir) CleanupReport {
	var report CleanupReport
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if ref.IsZero() || seen[ref.Value] {
			continue
		}
		seen[ref.Value] = true
		report = append(report, j.Release(ctx, ref, dir))
	}
	return report
}

// Discard removes files uploaded during an operation that then failed.
func (j *ImageJanitor) Discard(refs []imageref.Ref, dir imageref.Dir) {
	for _, ref := range refs {
		if !ref.IsLocal() {
			if !ref.IsZero() {
				slog.Warn("orphaned remote upload", "ref", ref.Value)
			}
			continue
		}
		rel, ok := j.resolver.LocalPath(ref.Value, dir)
		if !ok {
			continue
		}
		if err := j.local.Delete(rel); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to discard upload", "ref", ref.Value, "error", err)
		}
	}
}

// usageByPath groups every stored reference by the upload-relative path it
// names, so different spellings of one file share a key. Remote references
// are keyed by URL. Absolute URLs on foreign hosts appear in neither map.
func usageByPath(ctx context.Context, images repository.ImageRepository, resolver *imageref.Resolver) (local, remote map[string][]models.ImageUsage, err error) {
	records, err := images.References(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load image references: %w", err)
	}

	local = make(map[string][]models.ImageUsage)
	remote = make(map[string][]models.ImageUsage)

	for _, rec := range records {
		usage := models.ImageUsage{EntityType: rec.EntityType, EntityID: rec.EntityID}
		ref := resolver.Restore(rec.URL, rec.Kind)
		if ref.IsRemote() {
			remote[ref.Value] = append(remote[ref.Value], usage)
			continue
		}
		if !resolver.Owns(ref.Value) {
			continue
		}

		dir := imageref.DirUploads
		if rec.EntityType == repository.EntityBlogPost {
			dir = imageref.DirBlogs
		}
		if rel, ok := resolver.LocalPath(ref.Value, dir); ok {
			local[rel] = append(local[rel], usage)
		}
	}
	return local, remote, nil
}
