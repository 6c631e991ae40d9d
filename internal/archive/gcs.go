package archive

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCS implements Provider on Google Cloud Storage. Authentication uses
// Application Default Credentials.
type GCS struct {
	client *storage.Client
	bucket string
}

// NewGCS creates a client and verifies the bucket is reachable, failing
// fast on startup misconfiguration.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		_ = client.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("check gcs bucket %q: %w", bucket, err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

// Save uploads data to objectName in the configured bucket.
func (g *GCS) Save(ctx context.Context, objectName string, data []byte) error {
	w := g.client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "text/html; charset=utf-8"
	if _, err := w.Write(data); err != nil {
		_ = w.Close() //nolint:errcheck // primary error is the write
		return fmt.Errorf("write gcs object %s: %w", objectName, err)
	}
	// Close finalizes the upload and flushes buffered data.
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gcs writer for %s: %w", objectName, err)
	}
	return nil
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	if err := g.client.Close(); err != nil {
		return fmt.Errorf("close gcs client: %w", err)
	}
	return nil
}
