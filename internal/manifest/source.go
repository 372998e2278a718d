package manifest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/viewroute/internal/errors"
)

// maxManifestSize bounds manifests fetched from S3.
const maxManifestSize = 4 << 20

// Source fetches raw manifest bytes.
type Source interface {
	// Fetch returns the manifest bytes.
	Fetch(ctx context.Context) ([]byte, error)

	// String names the source in logs and errors.
	String() string
}

// FileSource reads a manifest from the local filesystem.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E220").WithDetail("No manifest at " + s.Path).Wrap(err)
		}
		return nil, errors.New("E220").Wrap(err).WithDetail(err.Error())
	}
	return data, nil
}

func (s FileSource) String() string { return s.Path }

// ObjectGetter is the part of *s3.Client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a manifest object from S3.
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Key    string
}

// Fetch implements Source.
func (s S3Source) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, errors.New("E224").Wrap(err).WithDetail(fmt.Sprintf("%s: %v", s, err))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxManifestSize+1))
	if err != nil {
		return nil, errors.New("E224").Wrap(err).WithDetail(fmt.Sprintf("%s: %v", s, err))
	}
	if len(data) > maxManifestSize {
		return nil, errors.New("E224").WithDetail(fmt.Sprintf("%s is larger than %d bytes", s, maxManifestSize))
	}
	return data, nil
}

func (s S3Source) String() string { return "s3://" + s.Bucket + "/" + s.Key }

// S3Options configures the client created for s3:// locations.
type S3Options struct {
	Region       string
	Endpoint     string
	UsePathStyle bool

	// Anonymous sends unsigned requests, for public buckets.
	Anonymous bool

	// Credentials overrides the default AWS credential chain.
	Credentials aws.CredentialsProvider
}

// defaultS3Region is used when neither opts nor the AWS environment name a
// region.
const defaultS3Region = "us-east-1"

// NewS3Client creates an S3 client from the default AWS configuration
// (environment, shared config files, SSO, instance roles) refined by opts.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	switch {
	case opts.Anonymous:
		loadOpts = append(loadOpts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	case opts.Credentials != nil:
		loadOpts = append(loadOpts, config.WithCredentialsProvider(opts.Credentials))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = defaultS3Region
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %q", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("s3 url %q needs a bucket and an object key", location)
	}
	return bucket, key, nil
}

// Open returns the Source for location: s3://bucket/key or a file path.
// client is used for s3 locations; when nil one is created from opts.
func Open(ctx context.Context, location string, client ObjectGetter, opts S3Options) (Source, error) {
	if !strings.HasPrefix(location, "s3://") {
		return FileSource{Path: location}, nil
	}
	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, errors.New("E224").Wrap(err).WithDetail(err.Error())
	}
	if client == nil {
		c, err := NewS3Client(ctx, opts)
		if err != nil {
			return nil, errors.New("E224").Wrap(err).WithDetail(err.Error())
		}
		client = c
	}
	return S3Source{Client: client, Bucket: bucket, Key: key}, nil
}

// Load fetches and parses a manifest.
func Load(ctx context.Context, src Source) (*Manifest, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data, src.String())
}
