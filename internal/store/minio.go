package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ExportStore keeps one JSON task snapshot per user in a MinIO bucket.
// The object key is derived from the user id, so a new export
// overwrites the previous one.
type ExportStore struct {
	client *minio.Client
	bucket string
}

func NewExportStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ExportStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &ExportStore{client: client, bucket: bucket}, nil
}

func snapshotKey(userID string) string {
	return fmt.Sprintf("exports/%s/todos.json", userID)
}

// PutSnapshot stores the user's exported task list.
func (s *ExportStore) PutSnapshot(ctx context.Context, userID string, data []byte) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, snapshotKey(userID), reader, int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return err
}

// GetSnapshot retrieves the user's latest exported task list.
func (s *ExportStore) GetSnapshot(ctx context.Context, userID string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, snapshotKey(userID), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// DeleteSnapshot removes the user's snapshot. MinIO treats removing an
// absent object as a success, which keeps this idempotent.
func (s *ExportStore) DeleteSnapshot(ctx context.Context, userID string) error {
	return s.client.RemoveObject(ctx, s.bucket, snapshotKey(userID), minio.RemoveObjectOptions{})
}
