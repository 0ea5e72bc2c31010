package taxonomy

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/domain"
)

// maxObjectBytes caps the taxonomy object read from storage.
const maxObjectBytes = 32 << 20

// ObjectGetter is the subset of *s3.Client used here.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configure the object-storage client. Endpoint targets
// S3-compatible stores such as R2 or MinIO.
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds an S3 client from the default AWS chain, with static
// credentials when both keys are set.
func NewS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(o.Region)}
	if o.AccessKey != "" && o.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("op=taxonomy.NewS3Client: %w", err)
	}
	return s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	}), nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" || u.Host == "" || strings.Trim(u.Path, "/") == "" {
		return "", "", fmt.Errorf("%w: invalid s3 url %q", domain.ErrInvalidArgument, raw)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// S3Source reads the taxonomy file from object storage.
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Key    string
}

// Load implements domain.TaxonomySource.
func (s S3Source) Load(ctx context.Context) (domain.Taxonomy, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("op=taxonomy.S3Source.Load: failed to get object: %w", err)
	}
	defer func() { _ = out.Body.Close() }()
	data, err := io.ReadAll(io.LimitReader(out.Body, maxObjectBytes))
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("op=taxonomy.S3Source.Load: failed to read object body: %w", err)
	}
	tax, err := Parse(s.Key, data)
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("op=taxonomy.S3Source.Load: %w", err)
	}
	return tax, nil
}
