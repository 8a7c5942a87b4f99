package storage

import (
	"context"
	"io"
	"strings"
)

// Source opens media by name for reading.
type Source interface {
	Open(ctx context.Context, name string) (*Media, error)
}

// Media is an open media stream. Name returns the base name of the object,
// which uploads use as the multipart file name.
type Media struct {
	io.ReadCloser
	name string
	size int64
}

func (m *Media) Name() string { return m.name }

// Size is the length of the stream in bytes, or -1 when unknown.
func (m *Media) Size() int64 { return m.size }

// Router opens gs:// names from Google Cloud Storage and everything else from
// the local filesystem.
type Router struct {
	Local Source
	GCS   Source
}

// NewRouter builds a Router. The GCS client is created on first use with the
// given credentials file, or application default credentials when empty.
func NewRouter(credentialsFile string) *Router {
	return &Router{
		Local: NewLocalFileStorage(),
		GCS:   NewGCSStorage(credentialsFile),
	}
}

func (r *Router) Open(ctx context.Context, name string) (*Media, error) {
	if strings.HasPrefix(name, gcsScheme) {
		return r.GCS.Open(ctx, name)
	}
	return r.Local.Open(ctx, name)
}

// Close releases the sources that hold connections.
func (r *Router) Close() error {
	if closer, ok := r.GCS.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
