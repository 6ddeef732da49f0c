package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"

	"pasarsosmed/pkg/errors"
)

// ProgressFunc receives the number of bytes written so far. Used to relay
// upload progress over the caller's WebSocket connection.
type ProgressFunc func(written int64)

// GCSClient uploads user media to a Cloud Storage bucket and hands back
// public URLs.
type GCSClient struct {
	client *gcs.Client
	bucket string
}

func NewGCSClient(ctx context.Context, bucket string) (*GCSClient, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSClient{
		client: client,
		bucket: bucket,
	}, nil
}

// UploadFile streams the file into the bucket under folder/ and returns its
// public URL. Images are stored under a .webp name since clients convert
// before uploading. The progress callback, if set, is invoked as bytes land.
func (c *GCSClient) UploadFile(ctx context.Context, folder, filename, contentType string, reader io.Reader, progress ProgressFunc) (string, error) {
	objectName := c.objectName(folder, filename, contentType)

	writer := c.client.Bucket(c.bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "public, max-age=86400"

	var dst io.Writer = writer
	if progress != nil {
		dst = &countingWriter{inner: writer, progress: progress}
	}

	if _, err := io.Copy(dst, reader); err != nil {
		writer.Close()
		return "", errors.Internal("Failed to upload file", err)
	}
	if err := writer.Close(); err != nil {
		return "", errors.Internal("Failed to finalize upload", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucket, objectName), nil
}

// DeleteFile removes an object given the public URL UploadFile returned.
func (c *GCSClient) DeleteFile(ctx context.Context, publicURL string) error {
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", c.bucket)
	if !strings.HasPrefix(publicURL, prefix) {
		return errors.BadRequest("URL does not belong to this bucket", nil)
	}
	objectName := strings.TrimPrefix(publicURL, prefix)

	if err := c.client.Bucket(c.bucket).Object(objectName).Delete(ctx); err != nil {
		if err == gcs.ErrObjectNotExist {
			return errors.NotFound("File", err)
		}
		return errors.Internal("Failed to delete file", err)
	}
	return nil
}

func (c *GCSClient) objectName(folder, filename, contentType string) string {
	ext := filepath.Ext(filename)
	if strings.HasPrefix(contentType, "image/") {
		ext = ".webp"
	}
	return fmt.Sprintf("%s/%d_%s%s", folder, time.Now().UnixMilli(), uuid.New().String()[:8], ext)
}

type countingWriter struct {
	inner    io.Writer
	written  int64
	progress ProgressFunc
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.inner.Write(p)
	w.written += int64(n)
	w.progress(w.written)
	return n, err
}
