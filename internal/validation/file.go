package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ImageConstraints returns the rules for artwork, category and blog images.
func ImageConstraints(maxSize int64) FileConstraints {
	return FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
			"image/gif":  true,
		},
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".webp": true,
			".gif":  true,
		},
		MaxSize: maxSize,
	}
}

// ValidateFile checks size, extension and the sniffed content type.
// The content type is detected from the first bytes of the file, so a renamed
// file with a faked Content-Type header is still rejected.
func ValidateFile(header *multipart.FileHeader, constraints FileConstraints) error {
	if constraints.MaxSize > 0 && header.Size > constraints.MaxSize {
		return fmt.Errorf("%s is too large: maximum size is %d MB", header.Filename, constraints.MaxSize/(1<<20))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("%s has an unsupported extension %q", header.Filename, ext)
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	detectedType := http.DetectContentType(buffer[:n])
	if !constraints.AllowedMimeTypes[detectedType] {
		return fmt.Errorf("%s is not a supported image (detected: %s)", header.Filename, detectedType)
	}

	return nil
}
