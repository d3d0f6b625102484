package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage provides an S3-compatible storage backend using MinIO.
// Uploaded objects are addressable through a configured static URL prefix.
type Storage struct {
	client       *minio.Client
	bucketName   string
	staticPrefix string
}

// NewStorage creates a new Storage instance connected to the specified MinIO server.
// If the bucket does not exist, it will be created automatically.
func NewStorage(ctx context.Context, endpoint, accessKey, secretKey, bucketName, staticPrefix string, useSSL bool) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:       client,
		bucketName:   bucketName,
		staticPrefix: strings.TrimSuffix(staticPrefix, "/"),
	}, nil
}

// Upload stores the buffer in the given subdirectory of the bucket and
// returns the object path within the bucket.
func (s *Storage) Upload(ctx context.Context, subdir, filename string, data []byte, contentType string) (string, error) {
	objectName := path.Join(subdir, filename)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	return objectName, nil
}

// Load retrieves the object at the given path and returns a reader.
func (s *Storage) Load(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", objectPath, err)
	}

	return obj, nil
}

// Delete removes the object at the given path from the bucket.
func (s *Storage) Delete(ctx context.Context, objectPath string) error {
	return s.client.RemoveObject(ctx, s.bucketName, objectPath, minio.RemoveObjectOptions{})
}

// PublicURL joins the configured static URL prefix with an object path.
func (s *Storage) PublicURL(objectPath string) string {
	return s.staticPrefix + "/" + strings.TrimPrefix(objectPath, "/")
}
