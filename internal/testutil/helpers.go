// Package testutil provides helper functions for building S3 test fixtures.
package testutil

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// StringPtr returns a pointer to the given string.
func StringPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to the given time.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestObject creates a listing entry as the SDK returns it.
func CreateTestObject(key string, modified time.Time) types.Object {
	return types.Object{
		Key:          StringPtr(key),
		Size:         Int64Ptr(1024),
		LastModified: TimePtr(modified),
	}
}

// CreateTagSet converts a plain map into an SDK tag set.
func CreateTagSet(tags map[string]string) []types.Tag {
	set := make([]types.Tag, 0, len(tags))
	for k, v := range tags {
		set = append(set, types.Tag{Key: StringPtr(k), Value: StringPtr(v)})
	}
	return set
}

// Int64Ptr returns a pointer to the given int64.
func Int64Ptr(i int64) *int64 {
	return &i
}

// Int32Ptr returns a pointer to the given int32.
func Int32Ptr(i int32) *int32 {
	return &i
}
