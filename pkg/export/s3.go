package export

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3API abstracts the S3 operations used by [Bucket].
// The [s3.Client] type satisfies this interface.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Bucket implements Sink backed by Amazon S3 or any S3-compatible object
// store (MinIO, R2, etc.). Names are mapped to object keys under an
// optional prefix. The caller configures the client's credentials, region
// and endpoint.
type Bucket struct {
	client S3API
	bucket string
	prefix string
}

// NewBucket creates an S3-backed sink. Prefix is prepended to all object
// keys; pass "" for none.
func NewBucket(client S3API, bucket, prefix string) *Bucket {
	return &Bucket{client: client, bucket: bucket, prefix: prefix}
}

func (b *Bucket) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return b.prefix + "/" + name
}

// Put uploads the file via PutObject, tagging it with the content type.
func (b *Bucket) Put(ctx context.Context, name, contentType string, r io.Reader) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key(name)),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	return err
}

// Exists checks for the object via HeadObject.
func (b *Bucket) Exists(ctx context.Context, name string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(name)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove deletes the object. S3 DeleteObject already succeeds for missing
// keys.
func (b *Bucket) Remove(ctx context.Context, name string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(name)),
	})
	return err
}

// isNotFound reports whether err indicates a missing S3 object.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

var _ Sink = (*Bucket)(nil)
