// Package testutil provides test utilities and mocks for the search.
// This package is internal and should only be used for testing within this module.
package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/internal/s3api"
)

// MockS3Client is a mock implementation of the S3API interface for testing.
// It allows customization of each S3 operation through function fields.
type MockS3Client struct {
	ListObjectsV2Func    func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObjectTaggingFunc func(context.Context, *s3.GetObjectTaggingInput, ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error)
}

// ListObjectsV2 mocks the S3 ListObjectsV2 operation.
func (m *MockS3Client) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	if m.ListObjectsV2Func != nil {
		return m.ListObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

// GetObjectTagging mocks the S3 GetObjectTagging operation.
func (m *MockS3Client) GetObjectTagging(
	ctx context.Context,
	params *s3.GetObjectTaggingInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectTaggingOutput, error) {
	if m.GetObjectTaggingFunc != nil {
		return m.GetObjectTaggingFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectTaggingOutput{}, nil
}

// Ensure MockS3Client implements s3api.S3API interface
var _ s3api.S3API = (*MockS3Client)(nil)
