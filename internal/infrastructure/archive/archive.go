package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aniketri/real-insights-data/internal/domain/model"
	"github.com/aniketri/real-insights-data/internal/domain/port"
)

var (
	_ port.ReportArchive = (*S3Archive)(nil)
	_ port.ReportArchive = InlineArchive{}
)

// DefaultRegion is used when neither the configuration nor the AWS profile names one.
const DefaultRegion = "us-east-1"

// PutObjectAPI is the subset of the S3 client used by S3Archive.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores report artifacts in an S3 bucket under an optional prefix.
type S3Archive struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Archive wraps an S3 client.
func NewS3Archive(client PutObjectAPI, bucket, prefix string) *S3Archive {
	return &S3Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// NewS3ArchiveFromEnv builds the client from the default AWS credential chain.
func NewS3ArchiveFromEnv(ctx context.Context, region, bucket, prefix string) (*S3Archive, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithDefaultRegion(DefaultRegion)}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewS3Archive(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// Store uploads data and returns its s3:// location.
func (a *S3Archive) Store(ctx context.Context, key, contentType string, data []byte) (string, error) {
	objectKey := key
	if a.prefix != "" {
		objectKey = path.Join(a.prefix, key)
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", a.bucket, objectKey, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, objectKey), nil
}

// InlineArchive keeps artifacts with the run record. It is used when no
// bucket is configured.
type InlineArchive struct{}

func (InlineArchive) Store(context.Context, string, string, []byte) (string, error) {
	return model.InlineLocation, nil
}
