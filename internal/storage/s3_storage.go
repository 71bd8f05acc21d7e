package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/caterbazar/caterbazar-console/internal/app/model"
)

const defaultLinkExpiry = 15 * time.Minute

// DocumentSigner turns stored registration documents into viewable links.
type DocumentSigner interface {
	SignDocuments(ctx context.Context, docs []model.RegistrationDocument) ([]model.RegistrationDocument, error)
}

// S3Storage presigns read-only links to uploaded registration certificates.
// The console never uploads; vendors do that through the marketplace.
type S3Storage struct {
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

func NewS3Storage(ctx context.Context, region, bucket, accessKeyID, secretAccessKey string, expiry time.Duration) *S3Storage {
	var cfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region:      region,
			Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			cfg = aws.Config{Region: region}
		}
	}

	if expiry <= 0 {
		expiry = defaultLinkExpiry
	}

	return &S3Storage{
		presign: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket:  bucket,
		expiry:  expiry,
	}
}

// PresignView returns a time-limited GET link for key.
func (s *S3Storage) PresignView(ctx context.Context, key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("empty document key")
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// SignDocuments fills URL for every document that has a key but no link. The
// input slice is not modified.
func (s *S3Storage) SignDocuments(ctx context.Context, docs []model.RegistrationDocument) ([]model.RegistrationDocument, error) {
	out := make([]model.RegistrationDocument, len(docs))
	copy(out, docs)

	for i := range out {
		if out[i].URL != "" || out[i].Key == "" {
			continue
		}
		link, err := s.PresignView(ctx, out[i].Key)
		if err != nil {
			return nil, err
		}
		out[i].URL = link
	}
	return out, nil
}
