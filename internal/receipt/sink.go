package receipt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// Sink stores a rendered receipt and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, name string, pdf []byte) (string, error)
}

// DirSink writes receipts into a local directory, creating it on first use.
type DirSink struct {
	Dir string
}

func (s DirSink) Put(_ context.Context, name string, pdf []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("write receipt %s: %w", name, err)
	}
	return path, nil
}

// S3Sink uploads receipts to a bucket under the "receipts/" prefix.
type S3Sink struct {
	bucket   string
	uploader s3manageriface.UploaderAPI
}

func NewS3Sink(bucket, region string) (*S3Sink, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &S3Sink{bucket: bucket, uploader: s3manager.NewUploader(sess)}, nil
}

func (s *S3Sink) Put(ctx context.Context, name string, pdf []byte) (string, error) {
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String("receipts/" + name),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("upload receipt %s: %w", name, err)
	}
	return out.Location, nil
}
