// Package minio implements storage.Storage for S3-compatible endpoints using
// minio-go. It speaks the same ListObjectsV2 and GetObjectTagging API as the
// awss3 package.
package minio

import (
	"context"
	"fmt"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/tags"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage"
)

// API is the subset of minio.Core used by Store.
type API interface {
	ListObjectsV2(
		bucketName, objectPrefix, startAfter, continuationToken, delimiter string,
		maxkeys int,
	) (minio.ListBucketV2Result, error)
	GetObjectTagging(
		ctx context.Context,
		bucketName, objectName string,
		opts minio.GetObjectTaggingOptions,
	) (*tags.Tags, error)
}

var _ API = (*minio.Core)(nil)

// Store lists and reads tags through a minio client.
type Store struct {
	api API
}

// New wraps a minio API implementation, usually a *minio.Core.
func New(api API) *Store {
	return &Store{api: api}
}

// NewFromEndpoint connects to an S3-compatible endpoint such as
// "https://play.min.io" or "http://localhost:9000". Credentials are read from
// the AWS_* or MINIO_* environment variables.
func NewFromEndpoint(endpoint, region string) (*Store, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint %q has no host", endpoint)
	}

	core, err := minio.NewCore(u.Host, &minio.Options{
		Creds: credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
		}),
		Secure:       u.Scheme == "https",
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return New(core), nil
}

// ListPage implements storage.Storage.
func (s *Store) ListPage(ctx context.Context, in storage.ListInput) (*storage.Page, error) {
	// minio.Core does not take a context for listing
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.api.ListObjectsV2(in.Bucket, in.Prefix, "", in.ContinuationToken, "", int(in.MaxKeys))
	if err != nil {
		return nil, convertError("list", in.Bucket, "", err)
	}

	page := &storage.Page{NextContinuationToken: result.NextContinuationToken}
	// a truncated listing always carries contents
	if result.Contents == nil && (result.IsTruncated || result.NextContinuationToken != "") {
		return page, nil
	}

	page.Entries = make([]storage.Entry, 0, len(result.Contents))
	for _, obj := range result.Contents {
		if obj.Key == "" {
			continue
		}
		entry := storage.Entry{Key: obj.Key}
		if !obj.LastModified.IsZero() {
			modified := obj.LastModified
			entry.LastModified = &modified
		}
		page.Entries = append(page.Entries, entry)
	}
	return page, nil
}

// GetTags implements storage.Storage.
func (s *Store) GetTags(ctx context.Context, bucket, key string) ([]storage.Tag, error) {
	t, err := s.api.GetObjectTagging(ctx, bucket, key, minio.GetObjectTaggingOptions{})
	if err != nil {
		return nil, convertError("getTags", bucket, key, err)
	}
	if t == nil {
		return nil, nil
	}

	m := t.ToMap()
	result := make([]storage.Tag, 0, len(m))
	for k, v := range m {
		result = append(result, storage.Tag{Key: &k, Value: &v})
	}
	return result, nil
}

func convertError(op, bucket, key string, err error) error {
	var sentinel error
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchBucket":
		sentinel = s3errors.ErrBucketNotFound
	case "NoSuchKey":
		sentinel = s3errors.ErrObjectNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		sentinel = s3errors.ErrAccessDenied
	case "SlowDown", "SlowDownRead", "TooManyRequests":
		sentinel = s3errors.ErrTooManyRequests
	}
	if sentinel != nil {
		err = fmt.Errorf("%w: %w", sentinel, err)
	}
	return s3errors.NewBackendError(op, bucket, key, err)
}
