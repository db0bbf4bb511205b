package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Endawoke47/Neo-sub000/config"
	"github.com/Endawoke47/Neo-sub000/model"
)

// ArchiveService persists analyzed documents and their results to object
// storage for later retrieval. Archival is best effort: the analysis
// response never waits on it.
type ArchiveService struct {
	client *minio.Client
	bucket string
	config *config.ArchiveConfig
}

func NewArchiveService(cfg *config.ArchiveConfig) (*ArchiveService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ArchiveService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ArchiveService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// StoreAnalysis uploads the original document text and the result JSON
// under <tenant>/<analysis-id>/.
func (s *ArchiveService) StoreAnalysis(ctx context.Context, tenant string, doc model.Document, result *model.AnalysisResult) error {
	prefix := fmt.Sprintf("%s/%s", tenant, result.ID)

	docName := doc.FileName
	if docName == "" {
		docName = "document.txt"
	}
	contentType := doc.MimeType
	if contentType == "" {
		contentType = "text/plain"
	}

	reader := strings.NewReader(doc.Content)
	_, err := s.client.PutObject(ctx, s.bucket, prefix+"/"+docName, reader, int64(len(doc.Content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to archive document: %w", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, prefix+"/result.json", bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to archive result: %w", err)
	}

	return nil
}

// GetPresignedURL generates a presigned URL for an archived object with
// expiration
func (s *ArchiveService) GetPresignedURL(ctx context.Context, objectName string) (string, error) {
	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// DeleteAnalysis removes the archived objects for an analysis
func (s *ArchiveService) DeleteAnalysis(ctx context.Context, tenant, analysisID string) error {
	prefix := fmt.Sprintf("%s/%s/", tenant, analysisID)

	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return fmt.Errorf("failed to list archived objects: %w", object.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete archived object: %w", err)
		}
	}

	return nil
}
