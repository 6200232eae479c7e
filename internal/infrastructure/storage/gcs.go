package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

var ErrNotConfigured = errors.New("gcs not configured")

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*gcs.Client, error) {
	if credsPath == "" {
		return gcs.NewClient(ctx)
	}
	return gcs.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// DocumentStore keeps identity document images under <prefix>/<user>/.
type DocumentStore struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewDocumentStore(client *gcs.Client, bucket, prefix string) *DocumentStore {
	return &DocumentStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// ObjectPath builds <prefix>/<user>/<side>-<random><ext>.
func ObjectPath(prefix, userID, side, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(prefix, userID, side+"-"+uuid.NewString()+ext)
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

// Put uploads r and returns the object URL.
func (s *DocumentStore) Put(ctx context.Context, userID, side, filename, contentType string, r io.Reader) (string, error) {
	if s == nil || s.client == nil || s.bucket == "" {
		return "", ErrNotConfigured
	}
	objectPath := ObjectPath(s.prefix, userID, side, filename)
	wc := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(s.bucket, objectPath), nil
}
