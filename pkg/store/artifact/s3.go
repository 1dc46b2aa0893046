package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	DefaultBucket = "cpeccei-public"
	DefaultKey    = "spot_pricing_stats.json"
)

// S3API is the part of *s3.Client used for artifacts.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Object struct {
	client S3API
	bucket string
	key    string
}

func NewObject(client S3API, bucket, key string) *Object {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if key == "" {
		key = DefaultKey
	}
	return &Object{client: client, bucket: bucket, key: key}
}

func (o *Object) Location() string {
	return fmt.Sprintf("s3://%s/%s", o.bucket, o.key)
}

func (o *Object) Write(ctx context.Context, data []byte) error {
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(o.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload artifact to %s: %w", o.Location(), err)
	}
	return nil
}

func (o *Object) Read(ctx context.Context) ([]byte, error) {
	resp, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download artifact from %s: %w", o.Location(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact from %s: %w", o.Location(), err)
	}
	return data, nil
}
