package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"art-gallery-backend/internal/imageref"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store works with AWS S3 and S3-compatible services (MinIO, R2, Spaces).
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

type S3Options struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// Endpoint is optional; set it for S3-compatible services.
	Endpoint string
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	var loadOpts []func(*config.LoadOptions) error
	loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
	if opts.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
		publicURL = strings.TrimSuffix(opts.Endpoint, "/") + "/" + opts.Bucket
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	store := &S3Store{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: publicURL,
	}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}
	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

func (s *S3Store) Name() string {
	return "s3"
}

func (s *S3Store) Upload(ctx context.Context, folder, originalName, contentType string, r io.Reader) (imageref.UploadResult, error) {
	key := path.Join(folder, uuid.New().String()+strings.ToLower(filepath.Ext(originalName)))

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return imageref.UploadResult{}, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return imageref.UploadResult{
		URL:      s.publicURL + "/" + key,
		Filename: key,
		Backend:  s.Name(),
	}, nil
}
