package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/abdelwahab/campuscard-api/internal/apperr"
	"github.com/abdelwahab/campuscard-api/internal/dto"
)

const maxFileSize = 10 * 1024 * 1024 // 10MB

// MinioStorage keeps user documents in a single bucket under
// id-scoped keys: "{userId}/profile_photo.{ext}" and
// "{userId}/national_id_scan.{ext}".
type MinioStorage struct {
	mc        *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStorage(endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*MinioStorage, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	if bucket == "" {
		bucket = "campuscard"
	}
	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, endpoint)
	}

	return &MinioStorage{
		mc:        mc,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

func (s *MinioStorage) UploadProfilePhoto(ctx context.Context, userID uint, file dto.UploadFile) (string, error) {
	if err := validateImage(file); err != nil {
		return "", err
	}
	key := fmt.Sprintf("%d/profile_photo%s", userID, extension(file.Filename))
	return s.put(ctx, key, file)
}

func (s *MinioStorage) UploadNationalIDScan(ctx context.Context, userID uint, file dto.UploadFile) (string, error) {
	if err := validateImage(file); err != nil {
		return "", err
	}
	key := fmt.Sprintf("%d/national_id_scan%s", userID, extension(file.Filename))
	return s.put(ctx, key, file)
}

func (s *MinioStorage) put(ctx context.Context, key string, file dto.UploadFile) (string, error) {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.mc.PutObject(ctx, s.bucket, key,
		bytes.NewReader(file.Bytes), int64(len(file.Bytes)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

// Delete removes the object behind a URL previously returned by an
// upload. Unknown URLs are ignored.
func (s *MinioStorage) Delete(ctx context.Context, objectURL string) error {
	key := s.objectName(objectURL)
	if key == "" {
		return nil
	}
	return s.mc.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioStorage) objectName(objectURL string) string {
	prefix := fmt.Sprintf("%s/%s/", s.publicURL, s.bucket)
	if !strings.HasPrefix(objectURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(objectURL, prefix)
}

func validateImage(file dto.UploadFile) error {
	if len(file.Bytes) == 0 {
		return apperr.InvalidState("File is empty")
	}
	if len(file.Bytes) > maxFileSize {
		return apperr.InvalidState("File size exceeds maximum limit of 10MB")
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return apperr.InvalidState("Only image files are allowed")
	}
	return nil
}

func extension(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}
