// Package avatars hands out presigned upload targets for avatar images.
package avatars

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/typetutor/internal/server/config"
	"github.com/google/uuid"
)

const uploadExpiry = 15 * time.Minute

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("avatar uploads are disabled")

type Presigner interface {
	// PresignUpload returns a fresh object key under the user's prefix and a
	// URL that accepts a single PUT of that object.
	PresignUpload(ctx context.Context, userID string) (key, url string, err error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
	presignPutObject     = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

type S3Presigner struct {
	bucket string
	client *s3.PresignClient
}

var _ Presigner = (*S3Presigner)(nil)

// NewS3Presigner builds a presign client for the S3-compatible backend in c.
func NewS3Presigner(ctx context.Context, c *config.Config) (*S3Presigner, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(c.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Presigner{bucket: c.S3Bucket, client: s3.NewPresignClient(client)}, nil
}

func StorageKey(userID string) string {
	return fmt.Sprintf("avatars/%s/%s", userID, uuid.New())
}

func (p *S3Presigner) PresignUpload(ctx context.Context, userID string) (string, string, error) {
	key := StorageKey(userID)

	req, err := presignPutObject(p.client, ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(uploadExpiry))
	if err != nil {
		return "", "", fmt.Errorf("presign error: %w", err)
	}

	return key, req.URL, nil
}

type disabledPresigner struct{}

func (disabledPresigner) PresignUpload(context.Context, string) (string, string, error) {
	return "", "", ErrDisabled
}

// New returns an S3Presigner, or a presigner that always fails with
// ErrDisabled when c has no bucket.
func New(ctx context.Context, c *config.Config) (Presigner, error) {
	if c.S3Bucket == "" {
		return disabledPresigner{}, nil
	}
	return NewS3Presigner(ctx, c)
}
