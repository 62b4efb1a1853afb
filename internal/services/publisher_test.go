package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	apperrors "github.com/savaki/build-badges/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3Client struct {
	headBucketFunc func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	headObjectFunc func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	copyObjectFunc func(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	copies         []*s3.CopyObjectInput
}

func (m *mockS3Client) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if m.headBucketFunc != nil {
		return m.headBucketFunc(ctx, params, optFns...)
	}
	return &s3.HeadBucketOutput{}, nil
}

func (m *mockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if m.headObjectFunc != nil {
		return m.headObjectFunc(ctx, params, optFns...)
	}
	return &s3.HeadObjectOutput{}, nil
}

func (m *mockS3Client) CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	m.copies = append(m.copies, params)
	if m.copyObjectFunc != nil {
		return m.copyObjectFunc(ctx, params, optFns...)
	}
	return &s3.CopyObjectOutput{}, nil
}

func testPublisher(client S3API) *Publisher {
	return NewPublisher(client, zerolog.New(io.Discard))
}

func TestPublisher_CopyBadge(t *testing.T) {
	client := &mockS3Client{}
	publisher := testPublisher(client)

	err := publisher.CopyBadge(context.Background(), "badges-bucket", "badges/success.svg", "builds/svc/branches/main/ci.svg")
	require.NoError(t, err)

	require.Len(t, client.copies, 1)
	assert.Equal(t, "badges-bucket", aws.ToString(client.copies[0].Bucket))
	assert.Equal(t, "builds/svc/branches/main/ci.svg", aws.ToString(client.copies[0].Key))
	assert.Equal(t, "badges-bucket/badges/success.svg", aws.ToString(client.copies[0].CopySource))
}

func TestPublisher_CopyBadge_Overwrites(t *testing.T) {
	// S3 has no create-only semantics here; copying twice issues two writes.
	client := &mockS3Client{}
	publisher := testPublisher(client)

	for i := 0; i < 2; i++ {
		err := publisher.CopyBadge(context.Background(), "b", "badges/failure.svg", "builds/x.svg")
		require.NoError(t, err)
	}
	assert.Len(t, client.copies, 2)
}

func TestPublisher_CopyBadge_BucketNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "typed not found", err: &s3types.NotFound{}},
		{name: "typed no such bucket", err: &s3types.NoSuchBucket{}},
		{name: "api error code", err: &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockS3Client{
				headBucketFunc: func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
					return nil, tt.err
				},
			}

			err := testPublisher(client).CopyBadge(context.Background(), "missing-bucket", "badges/success.svg", "builds/x.svg")
			assert.ErrorIs(t, err, apperrors.ErrBucketNotFound)
			assert.NotErrorIs(t, err, apperrors.ErrObjectNotFound)
			assert.Contains(t, err.Error(), "missing-bucket")

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, "missing-bucket", notFound.Bucket)
			assert.Empty(t, notFound.Key)
			assert.Empty(t, client.copies)
		})
	}
}

func TestPublisher_CopyBadge_ObjectNotFound(t *testing.T) {
	client := &mockS3Client{
		headObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
		},
	}

	err := testPublisher(client).CopyBadge(context.Background(), "badges-bucket", "badges/unknown.svg", "builds/x.svg")
	assert.ErrorIs(t, err, apperrors.ErrObjectNotFound)
	assert.EqualError(t, err, "could not find object badges/unknown.svg in bucket badges-bucket")
	assert.Empty(t, client.copies)
}

func TestPublisher_CopyBadge_OtherErrors(t *testing.T) {
	denied := &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}

	t.Run("head bucket", func(t *testing.T) {
		client := &mockS3Client{
			headBucketFunc: func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
				return nil, denied
			},
		}
		err := testPublisher(client).CopyBadge(context.Background(), "b", "badges/a.svg", "builds/a.svg")
		assert.ErrorIs(t, err, denied)
		assert.NotErrorIs(t, err, apperrors.ErrBucketNotFound)
	})

	t.Run("copy", func(t *testing.T) {
		copyErr := errors.New("boom")
		client := &mockS3Client{
			copyObjectFunc: func(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
				return nil, copyErr
			},
		}
		err := testPublisher(client).CopyBadge(context.Background(), "b", "badges/a.svg", "builds/a.svg")
		assert.ErrorIs(t, err, copyErr)
	})
}

func TestCopySource(t *testing.T) {
	tests := []struct {
		bucket string
		key    string
		want   string
	}{
		{bucket: "b", key: "badges/success.svg", want: "b/badges/success.svg"},
		{bucket: "b", key: "badges/my badge.svg", want: "b/badges/my%20badge.svg"},
		{bucket: "b", key: "badges/a+b?.svg", want: "b/badges/a+b%3F.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, copySource(tt.bucket, tt.key))
		})
	}
}
