// Package s3api defines interfaces for S3 operations to enable testing and mocking.
package s3api

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API defines the subset of the S3 client used by this module.
type S3API interface {
	// ListObjectsV2 lists objects in an S3 bucket
	ListObjectsV2(
		ctx context.Context,
		params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)

	// GetObjectTagging returns the tag set of an object
	GetObjectTagging(
		ctx context.Context,
		params *s3.GetObjectTaggingInput,
		optFns ...func(*s3.Options),
	) (*s3.GetObjectTaggingOutput, error)
}

// Verify that the AWS S3 client implements our interface
var _ S3API = (*s3.Client)(nil)
