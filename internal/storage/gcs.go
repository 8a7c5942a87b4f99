package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

// GCSStorage opens media stored as Google Cloud Storage objects.
type GCSStorage struct {
	credentialsFile string

	once      sync.Once
	client    *storage.Client
	clientErr error
}

// NewGCSStorage creates a new GCSStorage instance. No connection is made
// until the first Open.
func NewGCSStorage(credentialsFile string) *GCSStorage {
	return &GCSStorage{credentialsFile: credentialsFile}
}

// Open opens the object named by a gs://bucket/object URL.
func (s *GCSStorage) Open(ctx context.Context, name string) (*Media, error) {
	bucket, object, err := parseGCSName(name)
	if err != nil {
		return nil, err
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	slog.Debug("Opening GCS object", "bucket", bucket, "object", object)
	reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}

	return &Media{ReadCloser: reader, name: path.Base(object), size: reader.Attrs.Size}, nil
}

// Close releases the GCS client if one was created.
func (s *GCSStorage) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *GCSStorage) getClient(ctx context.Context) (*storage.Client, error) {
	s.once.Do(func() {
		if s.credentialsFile != "" {
			s.client, s.clientErr = storage.NewClient(ctx, option.WithCredentialsFile(s.credentialsFile))
		} else {
			// Use application default credentials
			s.client, s.clientErr = storage.NewClient(ctx)
		}
		if s.clientErr != nil {
			s.clientErr = fmt.Errorf("failed to create GCS client: %w", s.clientErr)
		}
	})
	return s.client, s.clientErr
}

func parseGCSName(name string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(name, gcsScheme)
	if !ok {
		return "", "", fmt.Errorf("not a GCS URL: %s", name)
	}
	bucket, object, _ = strings.Cut(rest, "/")
	if bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", fmt.Errorf("invalid GCS URL %s: expected gs://bucket/object", name)
	}
	return bucket, object, nil
}
