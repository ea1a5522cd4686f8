package config

import (
	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
)

// maxLegacyBucketNameLength is the limit for buckets created in us-east-1
// before the DNS-compliant naming rules.
const maxLegacyBucketNameLength = 255

// ValidateBucketName checks that a bucket name is usable with the S3 API.
// Legacy us-east-1 names with uppercase letters or underscores are accepted.
func ValidateBucketName(bucket string) error {
	if bucket == "" {
		return bucketError("must not be empty")
	}

	if len(bucket) < 3 || len(bucket) > maxLegacyBucketNameLength {
		return bucketError("must be between 3 and 255 characters long")
	}

	for _, char := range bucket {
		if !isValidBucketChar(char) {
			return bucketError("can only contain letters, numbers, dots, hyphens, and underscores")
		}
	}

	return nil
}

func bucketError(message string) error {
	return s3errors.NewConfigError("BUCKET_NAME", message)
}

func isValidBucketChar(char rune) bool {
	return (char >= '0' && char <= '9') ||
		(char >= 'a' && char <= 'z') ||
		(char >= 'A' && char <= 'Z') ||
		char == '.' || char == '-' || char == '_'
}
