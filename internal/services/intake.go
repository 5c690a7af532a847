package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"

	"art-gallery-backend/internal/imageref"
	"art-gallery-backend/internal/storage"
	"art-gallery-backend/internal/validation"
)

// ImageIntake validates incoming images, stores them and decides the
// reference kind that gets persisted.
type ImageIntake struct {
	uploader    *storage.Uploader
	resolver    *imageref.Resolver
	constraints validation.FileConstraints
}

func NewImageIntake(uploader *storage.Uploader, resolver *imageref.Resolver, maxSize int64) *ImageIntake {
	return &ImageIntake{
		uploader:    uploader,
		resolver:    resolver,
		constraints: validation.ImageConstraints(maxSize),
	}
}

func (in *ImageIntake) Resolver() *imageref.Resolver {
	return in.resolver
}

// Accept stores one uploaded file and returns its reference.
func (in *ImageIntake) Accept(ctx context.Context, field string, dir imageref.Dir, fh *multipart.FileHeader) (imageref.Ref, error) {
	if err := validation.ValidateFile(fh, in.constraints); err != nil {
		return imageref.Ref{}, invalid(field, err)
	}

	result, err := in.uploader.Upload(ctx, dir.Folder(), fh)
	if err != nil {
		return imageref.Ref{}, err
	}

	ref, err := in.resolver.FromUpload(result)
	if err != nil {
		return imageref.Ref{}, fmt.Errorf("%s: %w", fh.Filename, err)
	}
	return ref, nil
}

// AcceptURL takes a URL the client already resolved, typically from a
// direct-to-cloud upload.
func (in *ImageIntake) AcceptURL(field, raw string) (imageref.Ref, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return imageref.Ref{}, invalidf(field, "must be an http or https URL")
	}
	return in.resolver.FromUpload(imageref.UploadResult{URL: raw})
}

// ImageChange describes what a request asks for a single-image field.
// Precedence: File, then URL, then Remove. A zero value keeps the image.
type ImageChange struct {
	File   *multipart.FileHeader
	URL    string
	Remove bool
}

func (c ImageChange) replaces() bool {
	return c.File != nil || strings.TrimSpace(c.URL) != ""
}

// resolve returns the reference requested by c and whether the caller
// uploaded a new file for it.
func (in *ImageIntake) resolve(ctx context.Context, field string, dir imageref.Dir, c ImageChange) (imageref.Ref, bool, error) {
	switch {
	case c.File != nil:
		ref, err := in.Accept(ctx, field, dir, c.File)
		return ref, err == nil, err
	case strings.TrimSpace(c.URL) != "":
		ref, err := in.AcceptURL(field, c.URL)
		return ref, false, err
	}
	return imageref.Ref{}, false, nil
}
