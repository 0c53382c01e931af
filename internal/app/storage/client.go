package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/logx"
)

// ErrObjectNotFound is returned when the requested key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// s3Client implements StorageService against S3-compatible endpoints.
type s3Client struct {
	cfg        ServiceConfig
	s3Client   *s3.Client
	downloader *manager.Downloader
	logger     zerolog.Logger
}

// newS3Client builds an S3 client with static credentials and a custom endpoint.
func newS3Client(ctx context.Context, cfg ServiceConfig) (*s3Client, error) {
	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client configuration: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Client{
		cfg:        cfg,
		s3Client:   client,
		downloader: manager.NewDownloader(client),
		logger:     logx.Component("storage").With().Str("bucket", cfg.S3BucketName).Logger(),
	}, nil
}

// Download fetches the object at key into memory after checking its size.
func (c *s3Client) Download(ctx context.Context, key string) ([]byte, error) {
	meta, err := c.GetObjectMetadata(ctx, key)
	if err != nil {
		return nil, err
	}

	if size, err := strconv.ParseInt(meta["Content-Length"], 10, 64); err == nil && size > MaxWordListSize {
		return nil, fmt.Errorf("object %s is %d bytes, limit is %d", key, size, MaxWordListSize)
	}

	buf := manager.NewWriteAtBuffer([]byte{})
	n, err := c.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.S3BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("S3 download failed.")
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}

	c.logger.Debug().Str("key", key).Int64("bytes", n).Msg("S3 object downloaded.")
	return buf.Bytes(), nil
}

// GetObjectMetadata retrieves the metadata of an object.
func (c *s3Client) GetObjectMetadata(ctx context.Context, key string) (map[string]string, error) {
	resp, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.cfg.S3BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
		}
		c.logger.Error().Err(err).Str("key", key).Msg("Failed to get S3 object metadata.")
		return nil, fmt.Errorf("failed to fetch S3 metadata for %s: %w", key, err)
	}

	metadata := make(map[string]string)
	if resp.ContentType != nil {
		metadata["Content-Type"] = *resp.ContentType
	}
	if resp.ContentLength != nil {
		metadata["Content-Length"] = strconv.FormatInt(*resp.ContentLength, 10)
	}

	return metadata, nil
}
