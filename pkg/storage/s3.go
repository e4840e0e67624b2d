package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

type s3Storage struct {
	svc    s3iface.S3API
	bucket string
	prefix string
}

var _ BlobStore = &s3Storage{}

func NewS3Backend(bucket, prefix, region string) (*s3Storage, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AWS session")
	}

	return NewS3Storage(s3.New(sess), bucket, prefix), nil
}

// NewS3Storage stores blobs as objects named prefix+locator in bucket.
func NewS3Storage(svc s3iface.S3API, bucket, prefix string) *s3Storage {
	return &s3Storage{svc: svc, bucket: bucket, prefix: prefix}
}

func (s3b *s3Storage) key(locator string) *string {
	return aws.String(s3b.prefix + locator)
}

func isS3NotFound(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}

	return false
}

func (s3b *s3Storage) Read(ctx context.Context, locator string) ([]byte, error) {
	hclog.FromContext(ctx).Debug("Reading blob from s3", "bucket", s3b.bucket, "key", aws.StringValue(s3b.key(locator)))

	output, err := s3b.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s3b.bucket),
		Key:    s3b.key(locator),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", locator)
		}

		return nil, errors.Wrapf(err, "fail to load %s from s3", locator)
	}

	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	return data, errors.Wrap(err, "fail to read data from bucket object")
}

func (s3b *s3Storage) Write(ctx context.Context, locator string, data []byte) error {
	hclog.FromContext(ctx).Debug("Writing blob to s3", "bucket", s3b.bucket, "key", aws.StringValue(s3b.key(locator)))

	_, err := s3b.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Body:   bytes.NewReader(data),
		Bucket: aws.String(s3b.bucket),
		Key:    s3b.key(locator),
	})
	return errors.Wrapf(err, "fail to save %s to s3", locator)
}

// Delete checks existence first because S3 reports success when deleting a
// missing object.
func (s3b *s3Storage) Delete(ctx context.Context, locator string) error {
	hclog.FromContext(ctx).Debug("Deleting blob from s3", "bucket", s3b.bucket, "key", aws.StringValue(s3b.key(locator)))

	exists, err := s3b.Exists(ctx, locator)
	if err != nil {
		return err
	}

	if !exists {
		return errors.Wrapf(ErrNotFound, "%s", locator)
	}

	_, err = s3b.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s3b.bucket),
		Key:    s3b.key(locator),
	})
	return errors.Wrapf(err, "fail to delete %s from s3", locator)
}

func (s3b *s3Storage) Exists(ctx context.Context, locator string) (bool, error) {
	_, err := s3b.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s3b.bucket),
		Key:    s3b.key(locator),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}

		return false, errors.Wrapf(err, "fail to look up %s in s3", locator)
	}

	return true, nil
}
