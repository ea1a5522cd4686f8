package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "bucket and key",
			err:  NewTagFetchError("my-bucket", "a.txt", errors.New("boom")),
			want: "s3search.getTags my-bucket/a.txt: boom",
		},
		{
			name: "bucket only",
			err:  NewMalformedResponseError("my-bucket", "contents not set"),
			want: "s3search.list bucket my-bucket: contents not set",
		},
		{
			name: "key only",
			err:  NewBackendError("getTags", "", "a.txt", errors.New("boom")),
			want: "s3search.getTags object a.txt: boom",
		},
		{
			name: "no context",
			err:  NewConfigError("BUCKET_NAME", "must not be empty"),
			want: "s3search.config: BUCKET_NAME: must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_KindsAndUnwrap(t *testing.T) {
	root := errors.New("connection reset")
	backend := NewBackendError("list", "my-bucket", "", root)

	assert.True(t, IsBackend(backend))
	assert.False(t, IsTagFetch(backend))
	assert.ErrorIs(t, backend, root)

	// a backend failure during a tag fetch is both
	fetch := NewTagFetchError("my-bucket", "a.txt", backend)
	assert.True(t, IsTagFetch(fetch))
	assert.True(t, IsBackend(fetch))
	assert.ErrorIs(t, fetch, root)

	var target *Error
	assert.True(t, errors.As(fmt.Errorf("search: %w", fetch), &target))
	assert.Equal(t, "a.txt", target.Key)

	assert.True(t, IsConfig(NewConfigError("TAGS", "empty")))
	assert.True(t, IsMalformedResponse(NewMalformedResponseError("b", "m")))
}

func TestError_WithMessage(t *testing.T) {
	err := NewBackendError("list", "", "", ErrAccessDenied).
		WithBucket("my-bucket").
		WithMessage("listing denied")

	assert.Equal(t, "s3search.list bucket my-bucket: listing denied: access denied", err.Error())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"config", NewConfigError("TAGS", "empty"), CodeInvalidConfig},
		{"malformed", NewMalformedResponseError("b", "m"), CodeSchemaFailed},
		{"tag fetch", NewTagFetchError("b", "k", ErrNoTagSet), CodeExecutionFailed},
		{"backend", NewBackendError("list", "b", "", errors.New("x")), CodeExecutionFailed},
		{"bucket not found", NewBackendError("list", "b", "", ErrBucketNotFound), CodeNotFound},
		{"object not found", NewTagFetchError("b", "k", ErrObjectNotFound), CodeNotFound},
		{"access denied", NewBackendError("list", "b", "", ErrAccessDenied), CodeForbidden},
		{"throttled", NewBackendError("list", "b", "", ErrTooManyRequests), CodeRateLimit},
		{"cancelled", NewTagFetchError("b", "k", context.Canceled), CodeTimeout},
		{"plain", errors.New("x"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}
