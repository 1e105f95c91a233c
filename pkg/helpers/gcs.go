package helpers

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient opens a Cloud Storage client, from a credentials file when one
// is configured and Application Default Credentials otherwise.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	return storage.NewClient(ctx, opts...)
}

// UploadObject streams r into bucket/objectPath and returns the public URL.
// Callers store only this reference; the bytes are never interpreted.
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	w := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = 0 // uploads here are small; skip chunked resumable protocol
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// PublicURL is the canonical public address of an object. The bucket is
// expected to allow public reads.
func PublicURL(bucket, objectPath string) string {
	return "https://storage.googleapis.com/" + bucket + "/" + objectPath
}
