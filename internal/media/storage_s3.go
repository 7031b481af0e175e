// Copyright (c) 2026 SOYO. All rights reserved.

package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Backend stores objects in an S3-compatible bucket (AWS S3, MinIO, R2).
type S3Backend struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// S3Config holds the settings needed to reach the bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // Optional; set for MinIO/R2, empty for AWS proper.
	AccessKey string
	SecretKey string
	PublicURL string // Base URL objects are served from (CDN or bucket URL).
}

// NewS3Backend builds an S3 client from static credentials.
func NewS3Backend(ctx context.Context, cfg S3Config) (*S3Backend, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("media: failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing for MinIO and other non-AWS endpoints.
			options.UsePathStyle = true
		}
	})

	return &S3Backend{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

// Store uploads the object and returns its public URL.
func (backend *S3Backend) Store(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := backend.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(backend.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("media: failed to upload to S3: %w", err)
	}

	return backend.publicURL + "/" + key, nil
}

// Delete removes the object from the bucket.
//
// S3 DeleteObject succeeds on missing keys, matching the Backend contract.
func (backend *S3Backend) Delete(ctx context.Context, key string) error {
	_, err := backend.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(backend.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("media: failed to delete from S3: %w", err)
	}

	return nil
}
