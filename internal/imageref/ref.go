// Package imageref turns upload results and stored image strings into
// fetchable URLs and tells remote object-storage references apart from files
// kept on the local upload disk.
package imageref

import "errors"

// ErrNoImage is returned when an upload result carries nothing usable.
var ErrNoImage = errors.New("no usable image reference")

type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// Ref is a stored image reference together with where it lives. The kind is
// decided once at intake and persisted next to the value.
type Ref struct {
	Kind  Kind
	Value string
}

func (r Ref) IsZero() bool { return r.Value == "" }

func (r Ref) IsRemote() bool { return r.Kind == KindRemote }

func (r Ref) IsLocal() bool { return r.Kind == KindLocal && r.Value != "" }

// UploadResult is what a storage backend reports for a single uploaded file.
// The fields overlap; at most one of them is authoritative depending on the
// backend that handled the file.
type UploadResult struct {
	URL       string
	SecureURL string
	Path      string
	Filename  string

	// Backend names the remote store that produced the result. Empty for the
	// local disk store.
	Backend string
}

// Dir is the local-storage directory segment inserted in front of relative
// paths when building display URLs.
type Dir string

const (
	DirUploads Dir = "/uploads/"
	DirBlogs   Dir = "/uploads/blogs/"
)

// Folder returns the directory relative to the upload root ("" or "blogs").
func (d Dir) Folder() string {
	switch d {
	case DirBlogs:
		return "blogs"
	default:
		return ""
	}
}
