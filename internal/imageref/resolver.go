package imageref

import (
	"log/slog"
	"net/url"
	"path"
	"strings"
)

const uploadsSegment = "uploads/"

type Options struct {
	Production        bool
	ProductionOrigin  string
	DevelopmentOrigin string
	// RemoteMarker is the substring identifying remote object-storage URLs.
	RemoteMarker string
}

type Resolver struct {
	origin string
	marker string
	// hosts serve this deployment's uploads, in either environment.
	hosts map[string]bool
}

func NewResolver(opts Options) *Resolver {
	origin := opts.DevelopmentOrigin
	if opts.Production {
		origin = opts.ProductionOrigin
	}
	marker := opts.RemoteMarker
	if marker == "" {
		marker = "cloudinary"
	}
	hosts := make(map[string]bool, 2)
	for _, o := range []string{opts.DevelopmentOrigin, opts.ProductionOrigin} {
		if u, err := url.Parse(strings.TrimSpace(o)); err == nil && u.Host != "" {
			hosts[strings.ToLower(u.Host)] = true
		}
	}
	return &Resolver{
		origin: strings.TrimRight(origin, "/"),
		marker: marker,
		hosts:  hosts,
	}
}

// Origin is the host prefix for locally stored uploads in this environment.
func (r *Resolver) Origin() string {
	return r.origin
}

// IsRemote reports whether s points at remote object storage. This is a plain
// substring match, so a local file whose name contains the marker is
// misclassified as remote.
func (r *Resolver) IsRemote(s string) bool {
	return strings.Contains(s, r.marker)
}

// Classify infers the kind of a stored string. Anything not recognised as
// remote is treated as local.
func (r *Resolver) Classify(s string) Ref {
	if r.IsRemote(s) {
		return Ref{Kind: KindRemote, Value: s}
	}
	return Ref{Kind: KindLocal, Value: s}
}

// Restore rebuilds a Ref from persisted columns. Rows written before the kind
// column existed fall back to Classify.
func (r *Resolver) Restore(value, kind string) Ref {
	if value == "" {
		return Ref{}
	}
	switch Kind(kind) {
	case KindLocal, KindRemote:
		return Ref{Kind: Kind(kind), Value: value}
	default:
		return r.Classify(value)
	}
}

// FromUpload picks the storable reference for an upload result. The first
// match wins: direct URL, a path on remote storage, secure URL, then a bare
// filename that is served from the local uploads directory.
func (r *Resolver) FromUpload(u UploadResult) (Ref, error) {
	switch {
	case strings.TrimSpace(u.URL) != "":
		kind := KindLocal
		if u.Backend != "" || r.IsRemote(u.URL) {
			kind = KindRemote
		}
		slog.Debug("image resolved from url", "url", u.URL, "kind", kind)
		return Ref{Kind: kind, Value: u.URL}, nil

	case u.Path != "" && r.IsRemote(u.Path):
		slog.Debug("image resolved from remote path", "path", u.Path)
		return Ref{Kind: KindRemote, Value: u.Path}, nil

	case strings.TrimSpace(u.SecureURL) != "":
		slog.Debug("image resolved from secure url", "url", u.SecureURL)
		return Ref{Kind: KindRemote, Value: u.SecureURL}, nil

	case strings.TrimSpace(u.Filename) != "":
		value := r.origin + "/" + uploadsSegment + strings.TrimLeft(u.Filename, "/")
		slog.Debug("image resolved from filename", "filename", u.Filename, "url", value)
		return Ref{Kind: KindLocal, Value: value}, nil
	}

	slog.Warn("upload result carries no usable image reference")
	return Ref{}, ErrNoImage
}

// Display returns the URL a client can fetch for a stored string.
func (r *Resolver) Display(stored string, dir Dir) string {
	if stored == "" {
		return ""
	}
	return r.DisplayRef(r.Classify(stored), dir)
}

func (r *Resolver) DisplayRef(ref Ref, dir Dir) string {
	if ref.Value == "" {
		return ""
	}
	if ref.Kind == KindRemote || isAbsolute(ref.Value) {
		return ref.Value
	}

	frag := strings.TrimLeft(strings.ReplaceAll(ref.Value, "\\", "/"), "/")
	if strings.HasPrefix(frag, uploadsSegment) {
		return r.origin + "/" + frag
	}
	if dir == "" {
		dir = DirUploads
	}
	return r.origin + string(dir) + frag
}

// Owns reports whether a local reference points at this deployment's own
// uploads: relative paths always do, absolute URLs only on a configured
// origin host.
func (r *Resolver) Owns(stored string) bool {
	if stored == "" || r.IsRemote(stored) {
		return false
	}
	if !isAbsolute(stored) {
		return true
	}
	u, err := url.Parse(stored)
	if err != nil {
		return false
	}
	return r.hosts[strings.ToLower(u.Host)]
}

// LocalPath maps a local reference to a slash-separated path relative to the
// upload root. It returns false when the reference cannot name a file under
// that root.
func (r *Resolver) LocalPath(stored string, dir Dir) (string, bool) {
	if stored == "" {
		return "", false
	}

	p := stored
	absolute := isAbsolute(p)
	if absolute {
		u, err := url.Parse(p)
		if err != nil {
			return "", false
		}
		p = u.Path
	}

	p = strings.TrimLeft(strings.ReplaceAll(p, "\\", "/"), "/")
	switch {
	case strings.HasPrefix(p, uploadsSegment):
		p = strings.TrimPrefix(p, uploadsSegment)
	case absolute:
		// an absolute URL outside /uploads/ is not ours to delete
		return "", false
	case dir.Folder() != "" && !strings.HasPrefix(p, dir.Folder()+"/"):
		p = dir.Folder() + "/" + p
	}

	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return "", false
	}
	return clean, true
}

func isAbsolute(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
