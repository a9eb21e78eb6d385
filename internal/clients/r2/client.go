package r2

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
)

// Uploader stores generated audio in the public asset bucket and returns
// the URL clients fetch it from.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// client talks to Cloudflare R2 through its S3-compatible API.
type client struct {
	log       *logger.Logger
	s3        *s3.Client
	bucket    string
	publicURL string
}

func NewClient(ctx context.Context, log *logger.Logger) (Uploader, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	accountID := strings.TrimSpace(os.Getenv("R2_ACCOUNT_ID"))
	accessKey := strings.TrimSpace(os.Getenv("R2_ACCESS_KEY_ID"))
	secretKey := strings.TrimSpace(os.Getenv("R2_SECRET_ACCESS_KEY"))
	bucket := strings.TrimSpace(os.Getenv("R2_BUCKET_NAME"))
	publicURL := strings.TrimRight(strings.TrimSpace(os.Getenv("R2_PUBLIC_URL")), "/")
	if accountID == "" || accessKey == "" || secretKey == "" || bucket == "" || publicURL == "" {
		return nil, fmt.Errorf("missing R2 configuration (R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME, R2_PUBLIC_URL)")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load R2 credentials: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &client{
		log:       log.With("service", "R2Client"),
		s3:        s3Client,
		bucket:    bucket,
		publicURL: publicURL,
	}, nil
}

func (c *client) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if len(body) == 0 {
		return "", fmt.Errorf("empty body for key %q", key)
	}
	key = strings.TrimLeft(key, "/")

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("r2 put %q: %w", key, err)
	}

	c.log.Debug("Uploaded object", "key", key, "bytes", len(body))
	return c.publicURL + "/" + key, nil
}
