package di

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/savaki/build-badges/internal/services"
)

// ProvideAWSConfig loads the default AWS config. With a custom endpoint,
// static placeholder credentials are used when the environment names no
// credentials or profile, and us-east-1 when it names no region, so local
// emulators can be reached without an AWS account.
func ProvideAWSConfig(ctx context.Context, endpoint Endpoint) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if endpoint != "" {
		if os.Getenv("AWS_ACCESS_KEY_ID") == "" && os.Getenv("AWS_PROFILE") == "" {
			opts = append(opts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("local", "local", ""),
			))
		}
		if os.Getenv("AWS_REGION") == "" && os.Getenv("AWS_DEFAULT_REGION") == "" {
			opts = append(opts, config.WithRegion("us-east-1"))
		}
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

// ProvideS3Client creates the S3 client. The endpoint override applies to
// S3 only; other services keep their default endpoints.
func ProvideS3Client(config aws.Config, endpoint Endpoint) *s3.Client {
	return s3.NewFromConfig(config, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(string(endpoint))
			// emulators generally do not support virtual hosted buckets
			o.UsePathStyle = true
		}
	})
}

func ProvideS3API(client *s3.Client) services.S3API {
	return client
}
