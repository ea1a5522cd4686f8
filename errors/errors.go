// Package errors provides the error taxonomy of a tag search.
//
// Every failure is an *Error carrying the operation, bucket and object key it
// concerns. The kind of failure is expressed through sentinel errors placed in
// the chain, so callers use errors.Is (or the Is* helpers) instead of type
// switches:
//
//	if errors.IsTagFetch(err) {
//	    // one object's tags could not be read
//	}
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Error represents a search error with context about the operation that failed.
type Error struct {
	// Op is the operation that failed (e.g., "list", "getTags", "config")
	Op string

	// Bucket is the bucket name (if applicable)
	Bucket string

	// Key is the object key (if applicable)
	Key string

	// Kind is the taxonomy sentinel (ErrConfig, ErrTagFetch, ...)
	Kind error

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3search.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3search.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3search.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3search.%s: %v", e.Op, e.Err)
}

// Unwrap returns both the kind and the underlying error so that errors.Is
// matches either of them.
func (e *Error) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// Kind sentinels. Every *Error produced by this module carries exactly one.
var (
	// ErrConfig indicates a required input is missing, empty or invalid.
	ErrConfig = errors.New("invalid configuration")

	// ErrMalformedResponse indicates a listing response lacked its contents list.
	ErrMalformedResponse = errors.New("malformed storage response")

	// ErrTagFetch indicates a single object's tag retrieval failed.
	ErrTagFetch = errors.New("tag fetch failed")

	// ErrBackend indicates a transport or permission failure from the storage service.
	ErrBackend = errors.New("storage backend error")
)

// Backend classification sentinels. Adapters add these to the chain when the
// storage service reports a recognisable error code.
var (
	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("object not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("access denied")

	// ErrTooManyRequests indicates that the request rate is too high
	ErrTooManyRequests = errors.New("too many requests")

	// ErrNoTagSet indicates a tagging response did not include a tag set
	ErrNoTagSet = errors.New("response has no tag set")
)

// NewConfigError creates a configuration error for the named setting.
func NewConfigError(setting, message string) *Error {
	return &Error{
		Op:   "config",
		Kind: ErrConfig,
		Err:  fmt.Errorf("%s: %s", setting, message),
	}
}

// NewMalformedResponseError creates an error for a listing response without contents.
func NewMalformedResponseError(bucket, message string) *Error {
	return &Error{
		Op:     "list",
		Bucket: bucket,
		Kind:   ErrMalformedResponse,
		Err:    errors.New(message),
	}
}

// NewTagFetchError creates an error for a failed tag retrieval of one object.
func NewTagFetchError(bucket, key string, err error) *Error {
	return &Error{
		Op:     "getTags",
		Bucket: bucket,
		Key:    key,
		Kind:   ErrTagFetch,
		Err:    err,
	}
}

// NewBackendError wraps an error surfaced by the storage service. The
// original error stays reachable through errors.As.
func NewBackendError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Kind:   ErrBackend,
		Err:    err,
	}
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsMalformedResponse reports whether err is a malformed storage response.
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// IsTagFetch reports whether err is a failed tag retrieval.
func IsTagFetch(err error) bool {
	return errors.Is(err, ErrTagFetch)
}

// IsBackend reports whether err came from the storage service.
func IsBackend(err error) bool {
	return errors.Is(err, ErrBackend)
}

// Code maps err to its ErrorCode. Classification sentinels win over kinds
// because they are more specific.
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, ErrBucketNotFound), errors.Is(err, ErrObjectNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAccessDenied):
		return CodeForbidden
	case errors.Is(err, ErrTooManyRequests):
		return CodeRateLimit
	case errors.Is(err, ErrConfig):
		return CodeInvalidConfig
	case errors.Is(err, ErrMalformedResponse):
		return CodeSchemaFailed
	case errors.Is(err, ErrTagFetch), errors.Is(err, ErrBackend):
		return CodeExecutionFailed
	default:
		return CodeUnknown
	}
}
