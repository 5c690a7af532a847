package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"art-gallery-backend/internal/imageref"

	"github.com/google/uuid"
)

var ErrOutsideRoot = errors.New("path escapes upload root")

// LocalStore keeps uploads on disk under a single root directory that is
// served at /uploads/.
type LocalStore struct {
	root string
}

type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir: %w", err)
	}
	for _, dir := range []string{abs, filepath.Join(abs, "blogs")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

// Save writes r to <root>/<folder>/<uuid><ext>. The returned Filename is
// relative to the root; Path is the file on disk.
func (s *LocalStore) Save(ctx context.Context, folder, originalName string, r io.Reader) (imageref.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return imageref.UploadResult{}, err
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	rel := path.Join(folder, name)
	full, err := s.abs(rel)
	if err != nil {
		return imageref.UploadResult{}, err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return imageref.UploadResult{}, fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return imageref.UploadResult{}, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return imageref.UploadResult{}, fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return imageref.UploadResult{}, fmt.Errorf("failed to close file: %w", err)
	}

	return imageref.UploadResult{
		Path:     full,
		Filename: rel,
	}, nil
}

// Delete removes a file. A missing file yields an error matching
// os.ErrNotExist.
func (s *LocalStore) Delete(rel string) error {
	full, err := s.abs(rel)
	if err != nil {
		return err
	}
	if full == s.root {
		return ErrOutsideRoot
	}
	return os.Remove(full)
}

func (s *LocalStore) Exists(rel string) bool {
	full, err := s.abs(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

// List returns the regular files directly inside folder, newest first.
func (s *LocalStore) List(folder string) ([]FileInfo, error) {
	dir, err := s.abs(folder)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    path.Join(folder, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

func (s *LocalStore) abs(rel string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+rel)))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return full, nil
}
