package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ProofStorage stores payment and transfer proof artifacts. The returned
// object key is what the ledger records as proofRef; the content is never
// inspected here.
type ProofStorage interface {
	UploadProof(ctx context.Context, kind string, reader io.Reader, size int64, contentType string) (string, error)
	PresignedProofURL(objectKey string, expiry time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context) error
}

type minioProofStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioProofStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (ProofStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioProofStorage{client: client, bucket: bucket}, nil
}

func (m *minioProofStorage) UploadProof(ctx context.Context, kind string, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectKey := fmt.Sprintf("proofs/%s/%s", kind, uuid.New().String())
	_, err := m.client.PutObject(ctx, m.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (m *minioProofStorage) PresignedProofURL(objectKey string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(context.Background(), m.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioProofStorage) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
