// Package awss3 implements storage.Storage on top of the AWS SDK for Go v2.
package awss3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage"
)

// Store lists and reads tags through an S3 API client.
type Store struct {
	api s3api.S3API
}

// New wraps an S3 API implementation, usually a *s3.Client.
func New(api s3api.S3API) *Store {
	return &Store{api: api}
}

// NewFromConfig creates a Store backed by a new *s3.Client.
func NewFromConfig(cfg aws.Config, optFns ...func(*s3.Options)) *Store {
	return New(s3.NewFromConfig(cfg, optFns...))
}

// ListPage implements storage.Storage.
func (s *Store) ListPage(ctx context.Context, in storage.ListInput) (*storage.Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(in.Bucket),
		MaxKeys: aws.Int32(in.MaxKeys),
	}
	if in.Prefix != "" {
		input.Prefix = aws.String(in.Prefix)
	}
	if in.ContinuationToken != "" {
		input.ContinuationToken = aws.String(in.ContinuationToken)
	}

	output, err := s.api.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, convertAWSError("list", in.Bucket, "", err)
	}
	return convertListOutput(output), nil
}

// GetTags implements storage.Storage.
func (s *Store) GetTags(ctx context.Context, bucket, key string) ([]storage.Tag, error) {
	output, err := s.api.GetObjectTagging(ctx, &s3.GetObjectTaggingInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, convertAWSError("getTags", bucket, key, err)
	}
	if output == nil || output.TagSet == nil {
		return nil, nil
	}

	tags := make([]storage.Tag, 0, len(output.TagSet))
	for _, t := range output.TagSet {
		tags = append(tags, storage.Tag{Key: t.Key, Value: t.Value})
	}
	return tags, nil
}

// convertListOutput converts a ListObjectsV2 response into a page. The SDK
// leaves Contents nil both for an empty bucket and for a response that lost
// its contents; KeyCount tells the two apart.
func convertListOutput(output *s3.ListObjectsV2Output) *storage.Page {
	if output == nil {
		return &storage.Page{}
	}

	page := &storage.Page{
		NextContinuationToken: aws.ToString(output.NextContinuationToken),
	}
	if output.Contents == nil && aws.ToInt32(output.KeyCount) > 0 {
		return page
	}

	page.Entries = make([]storage.Entry, 0, len(output.Contents))
	for _, obj := range output.Contents {
		key := aws.ToString(obj.Key)
		if key == "" {
			continue
		}
		page.Entries = append(page.Entries, storage.Entry{
			Key:          key,
			LastModified: obj.LastModified,
		})
	}
	return page
}

// convertAWSError wraps an SDK error as a backend error, adding a
// classification sentinel when the error code is recognised.
func convertAWSError(op, bucket, key string, err error) error {
	if sentinel := classify(err); sentinel != nil {
		err = fmt.Errorf("%w: %w", sentinel, err)
	}
	return s3errors.NewBackendError(op, bucket, key, err)
}

func classify(err error) error {
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return s3errors.ErrBucketNotFound
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return s3errors.ErrObjectNotFound
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}

	switch apiErr.ErrorCode() {
	case "NoSuchBucket":
		return s3errors.ErrBucketNotFound
	case "NoSuchKey", "NotFound":
		return s3errors.ErrObjectNotFound
	case "AccessDenied", "Forbidden", "AllAccessDisabled", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return s3errors.ErrAccessDenied
	case "SlowDown", "Throttling", "ThrottlingException", "TooManyRequests", "RequestLimitExceeded":
		return s3errors.ErrTooManyRequests
	}
	return nil
}
