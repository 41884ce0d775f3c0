package historical

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Source opens the historical CSV snapshot. The loader re-opens on every
// call so a replaced snapshot file is picked up without a restart.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads the snapshot from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	return f, nil
}

// S3Source reads the snapshot from an S3 bucket, used when the dashboard
// runs on a host without the converted exports on disk.
type S3Source struct {
	Bucket string
	Key    string
	client *s3.S3
}

// NewS3Source creates an S3-backed snapshot source using the default
// credential chain.
func NewS3Source(region, bucket, key string) (*S3Source, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &S3Source{
		Bucket: bucket,
		Key:    key,
		client: s3.New(sess),
	}, nil
}

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot from s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	return out.Body, nil
}
