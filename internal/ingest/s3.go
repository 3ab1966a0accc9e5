package ingest

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/store"
)

var _ store.LeadSource = (*S3Source)(nil)

// objectGetter is the subset of *s3.Client the source needs.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a lead file from an S3-compatible bucket.
type S3Source struct {
	client objectGetter
	bucket string
	key    string
	format Format
}

// NewS3Source creates an S3 lead source. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar). The format is
// taken from the key's extension.
func NewS3Source(ctx context.Context, bucket, key, region, endpoint string) (*S3Source, error) {
	format, err := FormatFromName(key)
	if err != nil {
		return nil, err
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Source{
		client: s3.NewFromConfig(cfg, s3opts...),
		bucket: bucket,
		key:    key,
		format: format,
	}, nil
}

// ListLeads downloads and decodes the configured object.
func (s *S3Source) ListLeads(ctx context.Context) ([]model.Lead, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	leads, err := Decode(out.Body, s.format)
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return leads, nil
}

func (s *S3Source) Close() error { return nil }
