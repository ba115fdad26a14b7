package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
)

//go:generate mockgen -source=s3.go -destination=uploader_mock.go -package=archive

type Uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3 stores generated invoices in a bucket, one object per file name under an optional prefix.
type S3 struct {
	uploader Uploader
	bucket   string
	prefix   string
}

func New(uploader Uploader, bucket, prefix string) *S3 {
	return &S3{uploader: uploader, bucket: bucket, prefix: prefix}
}

// NewS3 builds an archiver from the default AWS credential chain.
func NewS3(region, bucket, prefix string) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}

	return New(s3manager.NewUploader(sess), bucket, prefix), nil
}

func (s *S3) Key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *S3) Archive(ctx context.Context, name string, data []byte) error {
	key := s.Key(name)

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("uploading %s to s3://%s: %w", key, s.bucket, err)
	}

	return nil
}

// FromConfig returns the configured archiver, or nil when archiving is off.
func FromConfig(cfg *config.Config) (*S3, error) {
	if !cfg.ArchiveEnabled() {
		return nil, nil
	}

	return NewS3(cfg.Archive.Region, cfg.Archive.Bucket, cfg.Archive.Prefix)
}
