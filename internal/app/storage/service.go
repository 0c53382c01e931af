/*
Package storage reads objects from S3-compatible storage. The relay uses it to fetch the
content filter word list from a bucket.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"

	"chatrelay/internal/app/moderation"
)

// MaxWordListSize caps the size of a word list object.
const MaxWordListSize = 1 << 20

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// StorageService defines the object operations the relay needs.
type StorageService interface {
	// Download returns the full content of the object at key.
	Download(ctx context.Context, key string) ([]byte, error)

	// GetObjectMetadata retrieves the object's content type and length.
	GetObjectMetadata(ctx context.Context, key string) (map[string]string, error)
}

// NewStorageService returns the S3-compatible implementation of StorageService.
func NewStorageService(ctx context.Context, cfg ServiceConfig) (StorageService, error) {
	return newS3Client(ctx, cfg)
}

// WordListSource loads the content filter word list from an object.
type WordListSource struct {
	Storage StorageService
	Key     string
}

func (s WordListSource) Name() string { return "s3:" + s.Key }

// Load downloads and parses the word list object.
func (s WordListSource) Load(ctx context.Context) ([]string, error) {
	body, err := s.Storage.Download(ctx, s.Key)
	if err != nil {
		return nil, err
	}

	if len(body) > MaxWordListSize {
		return nil, fmt.Errorf("word list object %s is %d bytes, limit is %d", s.Key, len(body), MaxWordListSize)
	}

	return moderation.ParseWordList(bytes.NewReader(body))
}
