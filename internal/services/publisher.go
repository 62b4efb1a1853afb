package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	apperrors "github.com/savaki/build-badges/internal/errors"
)

// S3API abstracts the S3 operations needed to publish badges
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
}

// NotFoundError reports a missing bucket, or a missing object when Key is set
type NotFoundError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("could not find bucket %s", e.Bucket)
	}
	return fmt.Sprintf("could not find object %s in bucket %s", e.Key, e.Bucket)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is matches ErrBucketNotFound or ErrObjectNotFound
func (e *NotFoundError) Is(target error) bool {
	if e.Key == "" {
		return target == apperrors.ErrBucketNotFound
	}
	return target == apperrors.ErrObjectNotFound
}

// Publisher copies badge objects within a bucket
type Publisher struct {
	client S3API
	logger zerolog.Logger
}

// NewPublisher creates a new badge publisher
func NewPublisher(client S3API, logger zerolog.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger.With().Str("service", "publisher").Logger(),
	}
}

// CopyBadge copies src to dest within bucket, overwriting dest if it exists
func (p *Publisher) CopyBadge(ctx context.Context, bucket, src, dest string) error {
	logger := p.logger.With().
		Str("bucket", bucket).
		Str("src", src).
		Str("dest", dest).
		Logger()

	if _, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	}); err != nil {
		if isNotFound(err) {
			return &NotFoundError{Bucket: bucket, Err: err}
		}
		return fmt.Errorf("failed to get bucket %s: %w", bucket, err)
	}

	if _, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(src),
	}); err != nil {
		if isNotFound(err) {
			return &NotFoundError{Bucket: bucket, Key: src, Err: err}
		}
		return fmt.Errorf("failed to get object %s in bucket %s: %w", src, bucket, err)
	}

	if _, err := p.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		Key:        aws.String(dest),
		CopySource: aws.String(copySource(bucket, src)),
	}); err != nil {
		return fmt.Errorf("failed to copy %s to %s in bucket %s: %w", src, dest, bucket, err)
	}

	logger.Debug().Msg("copied badge")
	return nil
}

// copySource returns the url encoded bucket/key form CopyObject expects
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return bucket + "/" + strings.Join(segments, "/")
}

func isNotFound(err error) bool {
	var (
		notFound     *s3types.NotFound
		noSuchBucket *s3types.NoSuchBucket
		noSuchKey    *s3types.NoSuchKey
	)
	if errors.As(err, &notFound) || errors.As(err, &noSuchBucket) || errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket", "NoSuchKey":
			return true
		}
	}
	return false
}
