package keysync

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// uploadTimeout bounds each sync attempt so a slow or unreachable endpoint
// cannot hang an interactive command.
const uploadTimeout = 30 * time.Second

// Uploader pushes wrapped blobs to the configured bucket.
type Uploader struct {
	config *Config
	client *s3.Client
}

// NewUploader builds an S3 client from the sync config. Static credentials
// from the config win; otherwise the default AWS credential chain applies.
func NewUploader(ctx context.Context, config *Config) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}
	if config.AccessKey != "" && config.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
		o.UsePathStyle = config.PathStyle
	})
	return &Uploader{config: config, client: client}, nil
}

// Upload puts one wrapped blob at the scheme- and alias-derived object key
// and returns that key.
func (u *Uploader) Upload(ctx context.Context, scheme, filename string, blob []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	key := u.config.RemotePath(scheme, filename)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.config.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(blob),
	})
	if err != nil {
		return "", fmt.Errorf("uploading s3://%s/%s: %w", u.config.Bucket, key, err)
	}
	return key, nil
}

// MaybeSync uploads a blob when sync is active. Returns the remote key, or
// "" when sync is inactive. Callers treat a non-nil error as a warning.
func MaybeSync(ctx context.Context, config *Config, scheme, filename string, blob []byte) (string, error) {
	if !config.Active() {
		return "", nil
	}
	uploader, err := NewUploader(ctx, config)
	if err != nil {
		return "", err
	}
	return uploader.Upload(ctx, scheme, filename, blob)
}
