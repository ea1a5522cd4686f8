// Package storage defines the object storage contract a search runs against.
//
// Implementations live in sub-packages: awss3 for the AWS SDK v2 client and
// minio for S3-compatible endpoints reached through minio-go.
package storage

import (
	"context"
	"time"
)

// MaxPageSize is the largest page the S3 ListObjectsV2 API returns.
const MaxPageSize = 1000

// Storage lists objects page by page and reads object tags.
// Implementations must be safe for concurrent use.
type Storage interface {
	// ListPage returns one page of the listing. A page with nil Entries
	// means the response carried no contents list.
	ListPage(ctx context.Context, input ListInput) (*Page, error)

	// GetTags returns the tag set of one object. A nil slice means the
	// response carried no tag set.
	GetTags(ctx context.Context, bucket, key string) ([]Tag, error)
}

// ListInput selects a page of a bucket listing.
type ListInput struct {
	Bucket string

	// Prefix restricts the listing to keys starting with it
	Prefix string

	// ContinuationToken is empty for the first page
	ContinuationToken string

	MaxKeys int32
}

// Page is one page of a bucket listing.
type Page struct {
	Entries []Entry

	// NextContinuationToken is empty on the last page
	NextContinuationToken string
}

// Entry is a single listed object.
type Entry struct {
	Key          string
	LastModified *time.Time
}

// Tag is a raw tag as returned by the storage service. Either field may be
// missing.
type Tag struct {
	Key   *string
	Value *string
}
