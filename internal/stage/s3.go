package stage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/leapstack-labs/bulkload/pkg/core"
	"github.com/leapstack-labs/bulkload/pkg/loader"
)

// S3API is the subset of the S3 client the stager uses. An interface so
// tests can substitute a fake.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stages resources to and from an object-store bucket.
type S3 struct {
	client S3API
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3 creates a stager over an existing client.
func NewS3(client S3API, bucket, prefix string, logger *slog.Logger) *S3 {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &S3{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// OpenS3 creates a stager with a client from the default AWS config
// chain.
func OpenS3(ctx context.Context, region, bucket, prefix string, logger *slog.Logger) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("staging bucket is required")
	}
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewS3(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

// Upload stages a local file as a temporary object and returns the
// object-store resource plus a cleanup that deletes it.
func (s *S3) Upload(ctx context.Context, res *core.Resource, opts core.Options) (*core.Resource, loader.CleanupFunc, error) {
	f, err := os.Open(res.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s for staging: %w", res.Path, err)
	}
	defer func() { _ = f.Close() }()

	key := path.Join(s.prefix, "bulkload-"+uuid.NewString()+".csv")
	s.logger.Debug("staging to object store", "path", res.Path, "bucket", s.bucket, "key", key)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("uploading %s to s3://%s/%s: %w", res.Path, s.bucket, key, err)
	}

	staged := &core.Resource{
		Path:      fmt.Sprintf("s3://%s/%s", s.bucket, key),
		Medium:    core.MediumObjectStore,
		Temporary: true,
		Dialect:   carryDialect(res, opts),
	}
	cleanup := func(ctx context.Context) error {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	}
	return staged, cleanup, nil
}

// Download localizes an object into a temporary file and returns the
// local resource plus a cleanup that removes the file.
func (s *S3) Download(ctx context.Context, res *core.Resource, opts core.Options) (*core.Resource, loader.CleanupFunc, error) {
	bucket, key, err := ParseURI(res.Path)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("localizing from object store", "bucket", bucket, "key", key)

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("downloading %s: %w", res.Path, err)
	}
	defer func() { _ = obj.Body.Close() }()

	tmp, err := os.CreateTemp("", "bulkload-*.csv")
	if err != nil {
		return nil, nil, fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(tmp, obj.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, nil, fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, nil, fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}

	staged := &core.Resource{
		Path:      tmp.Name(),
		Medium:    core.MediumLocal,
		Temporary: true,
		Dialect:   carryDialect(res, opts),
	}
	cleanup := func(context.Context) error {
		return os.Remove(tmp.Name())
	}
	return staged, cleanup, nil
}

// ParseURI splits an s3://bucket/key URI.
func ParseURI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("malformed s3 uri: %s", uri)
	}
	return bucket, key, nil
}
