package awss3

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage"
)

// TestStore_ListPage tests request building and response conversion.
func TestStore_ListPage(t *testing.T) {
	modified := testutil.Date(2024, 1, 1)

	tests := []struct {
		name      string
		input     storage.ListInput
		setupMock func(*testing.T, *testutil.MockS3Client)
		check     func(*testing.T, *storage.Page)
	}{
		{
			name:  "first page",
			input: storage.ListInput{Bucket: "test-bucket", MaxKeys: 25},
			setupMock: func(t *testing.T, m *testutil.MockS3Client) {
				m.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					assert.Equal(t, "test-bucket", aws.ToString(params.Bucket))
					assert.Equal(t, int32(25), aws.ToInt32(params.MaxKeys))
					assert.Nil(t, params.ContinuationToken)
					assert.Nil(t, params.Prefix)
					return &s3.ListObjectsV2Output{
						Contents: []types.Object{
							testutil.CreateTestObject("a.txt", modified),
							testutil.CreateTestObject("b.txt", modified),
						},
						KeyCount:              aws.Int32(2),
						NextContinuationToken: aws.String("token-2"),
					}, nil
				}
			},
			check: func(t *testing.T, page *storage.Page) {
				require.Len(t, page.Entries, 2)
				assert.Equal(t, "a.txt", page.Entries[0].Key)
				assert.Equal(t, "b.txt", page.Entries[1].Key)
				require.NotNil(t, page.Entries[0].LastModified)
				assert.True(t, modified.Equal(*page.Entries[0].LastModified))
				assert.Equal(t, "token-2", page.NextContinuationToken)
			},
		},
		{
			name:  "continuation and prefix",
			input: storage.ListInput{Bucket: "test-bucket", Prefix: "logs/", ContinuationToken: "token-2", MaxKeys: 10},
			setupMock: func(t *testing.T, m *testutil.MockS3Client) {
				m.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					assert.Equal(t, "token-2", aws.ToString(params.ContinuationToken))
					assert.Equal(t, "logs/", aws.ToString(params.Prefix))
					return &s3.ListObjectsV2Output{
						Contents: []types.Object{testutil.CreateTestObject("logs/c.txt", modified)},
						KeyCount: aws.Int32(1),
					}, nil
				}
			},
			check: func(t *testing.T, page *storage.Page) {
				require.Len(t, page.Entries, 1)
				assert.Empty(t, page.NextContinuationToken)
			},
		},
		{
			name:  "empty bucket",
			input: storage.ListInput{Bucket: "test-bucket", MaxKeys: 25},
			setupMock: func(t *testing.T, m *testutil.MockS3Client) {
				m.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					return &s3.ListObjectsV2Output{KeyCount: aws.Int32(0)}, nil
				}
			},
			check: func(t *testing.T, page *storage.Page) {
				assert.NotNil(t, page.Entries)
				assert.Empty(t, page.Entries)
			},
		},
		{
			name:  "contents missing",
			input: storage.ListInput{Bucket: "test-bucket", MaxKeys: 25},
			setupMock: func(t *testing.T, m *testutil.MockS3Client) {
				m.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					return &s3.ListObjectsV2Output{KeyCount: aws.Int32(3)}, nil
				}
			},
			check: func(t *testing.T, page *storage.Page) {
				assert.Nil(t, page.Entries)
			},
		},
		{
			name:  "nil output",
			input: storage.ListInput{Bucket: "test-bucket", MaxKeys: 25},
			setupMock: func(t *testing.T, m *testutil.MockS3Client) {
				m.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					return nil, nil
				}
			},
			check: func(t *testing.T, page *storage.Page) {
				assert.Nil(t, page.Entries)
			},
		},
		{
			name:  "entries without key are skipped",
			input: storage.ListInput{Bucket: "test-bucket", MaxKeys: 25},
			setupMock: func(t *testing.T, m *testutil.MockS3Client) {
				m.ListObjectsV2Func = func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					return &s3.ListObjectsV2Output{
						Contents: []types.Object{
							{Key: nil},
							testutil.CreateTestObject("a.txt", modified),
							{Key: aws.String("")},
						},
						KeyCount: aws.Int32(3),
					}, nil
				}
			},
			check: func(t *testing.T, page *storage.Page) {
				require.Len(t, page.Entries, 1)
				assert.Equal(t, "a.txt", page.Entries[0].Key)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &testutil.MockS3Client{}
			tt.setupMock(t, mockClient)

			page, err := New(mockClient).ListPage(context.Background(), tt.input)
			require.NoError(t, err)
			require.NotNil(t, page)
			tt.check(t, page)
		})
	}
}

// TestStore_GetTags tests tag set conversion.
func TestStore_GetTags(t *testing.T) {
	t.Run("converts tag set", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{
			GetObjectTaggingFunc: func(ctx context.Context, params *s3.GetObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error) {
				assert.Equal(t, "test-bucket", aws.ToString(params.Bucket))
				assert.Equal(t, "a.txt", aws.ToString(params.Key))
				return &s3.GetObjectTaggingOutput{
					TagSet: []types.Tag{
						{Key: aws.String("env"), Value: aws.String("prod")},
						{Key: nil, Value: aws.String("orphan")},
					},
				}, nil
			},
		}

		tags, err := New(mockClient).GetTags(context.Background(), "test-bucket", "a.txt")
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "env", aws.ToString(tags[0].Key))
		assert.Equal(t, "prod", aws.ToString(tags[0].Value))
		assert.Nil(t, tags[1].Key)
	})

	t.Run("empty tag set", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{
			GetObjectTaggingFunc: func(ctx context.Context, params *s3.GetObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error) {
				return &s3.GetObjectTaggingOutput{TagSet: []types.Tag{}}, nil
			},
		}

		tags, err := New(mockClient).GetTags(context.Background(), "test-bucket", "a.txt")
		require.NoError(t, err)
		assert.NotNil(t, tags)
		assert.Empty(t, tags)
	})

	t.Run("missing tag set", func(t *testing.T) {
		mockClient := &testutil.MockS3Client{}

		tags, err := New(mockClient).GetTags(context.Background(), "test-bucket", "a.txt")
		require.NoError(t, err)
		assert.Nil(t, tags)
	})
}

// TestStore_ErrorClassification tests that SDK errors are wrapped and classified.
func TestStore_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"typed no such bucket", &types.NoSuchBucket{}, s3errors.ErrBucketNotFound},
		{"typed no such key", &types.NoSuchKey{}, s3errors.ErrObjectNotFound},
		{"generic no such key", &smithy.GenericAPIError{Code: "NoSuchKey"}, s3errors.ErrObjectNotFound},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, s3errors.ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, s3errors.ErrTooManyRequests},
		{"unknown api error", &smithy.GenericAPIError{Code: "InternalError"}, nil},
		{"transport error", errors.New("connection reset"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &testutil.MockS3Client{
				ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
					return nil, tt.err
				},
				GetObjectTaggingFunc: func(ctx context.Context, params *s3.GetObjectTaggingInput, optFns ...func(*s3.Options)) (*s3.GetObjectTaggingOutput, error) {
					return nil, tt.err
				},
			}
			store := New(mockClient)

			_, listErr := store.ListPage(context.Background(), storage.ListInput{Bucket: "test-bucket"})
			_, tagErr := store.GetTags(context.Background(), "test-bucket", "a.txt")

			for _, err := range []error{listErr, tagErr} {
				require.Error(t, err)
				assert.True(t, s3errors.IsBackend(err))
				assert.ErrorIs(t, err, tt.err)
				if tt.sentinel != nil {
					assert.ErrorIs(t, err, tt.sentinel)
				}
			}

			var e *s3errors.Error
			require.ErrorAs(t, tagErr, &e)
			assert.Equal(t, "getTags", e.Op)
			assert.Equal(t, "a.txt", e.Key)
		})
	}
}
