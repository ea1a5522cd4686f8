// Package testutil provides an in-memory storage.Storage for search tests.
package testutil

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage"
)

// MemoryObject is an object held by MemoryStorage.
type MemoryObject struct {
	Key          string
	LastModified *time.Time

	// Tags is the tag set; nil simulates a response without a tag set
	Tags map[string]string
}

// MemoryStorage is an in-memory bucket listing objects in insertion order.
// Continuation tokens are opaque offsets into the object list. GetTags of an
// unknown key fails like a missing object does on S3.
type MemoryStorage struct {
	mu sync.Mutex

	Objects []MemoryObject

	// TagErrors makes GetTags fail for the given keys
	TagErrors map[string]error

	// ListErrors makes the n-th ListPage call (0-based) fail
	ListErrors map[int]error

	// MalformedCalls makes the n-th ListPage call return a page without entries
	MalformedCalls map[int]bool

	// TagDelay is slept inside every GetTags call
	TagDelay time.Duration

	ListCalls   []storage.ListInput
	TagCalls    []string
	inFlight    int
	MaxInFlight int
}

// NewMemoryStorage creates a storage holding the given objects.
func NewMemoryStorage(objects ...MemoryObject) *MemoryStorage {
	return &MemoryStorage{Objects: objects}
}

// ListPage implements storage.Storage.
func (m *MemoryStorage) ListPage(ctx context.Context, in storage.ListInput) (*storage.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := len(m.ListCalls)
	m.ListCalls = append(m.ListCalls, in)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.ListErrors[call]; ok {
		return nil, err
	}
	if m.MalformedCalls[call] {
		return &storage.Page{}, nil
	}

	var matching []MemoryObject
	for _, obj := range m.Objects {
		if strings.HasPrefix(obj.Key, in.Prefix) {
			matching = append(matching, obj)
		}
	}

	offset := 0
	if in.ContinuationToken != "" {
		n, err := strconv.Atoi(in.ContinuationToken)
		if err != nil {
			return nil, err
		}
		offset = n
	}

	maxKeys := int(in.MaxKeys)
	if maxKeys <= 0 {
		maxKeys = storage.MaxPageSize
	}
	end := offset + maxKeys
	if end > len(matching) {
		end = len(matching)
	}

	page := &storage.Page{Entries: make([]storage.Entry, 0, end-offset)}
	for _, obj := range matching[offset:end] {
		page.Entries = append(page.Entries, storage.Entry{Key: obj.Key, LastModified: obj.LastModified})
	}
	if end < len(matching) {
		page.NextContinuationToken = strconv.Itoa(end)
	}
	return page, nil
}

// GetTags implements storage.Storage.
func (m *MemoryStorage) GetTags(ctx context.Context, bucket, key string) ([]storage.Tag, error) {
	m.mu.Lock()
	m.TagCalls = append(m.TagCalls, key)
	m.inFlight++
	if m.inFlight > m.MaxInFlight {
		m.MaxInFlight = m.inFlight
	}
	delay := m.TagDelay
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.TagErrors[key]; ok {
		return nil, err
	}
	for _, obj := range m.Objects {
		if obj.Key != key {
			continue
		}
		if obj.Tags == nil {
			return nil, nil
		}
		tags := make([]storage.Tag, 0, len(obj.Tags))
		for k, v := range obj.Tags {
			tags = append(tags, storage.Tag{Key: StringPtr(k), Value: StringPtr(v)})
		}
		return tags, nil
	}
	return nil, s3errors.NewBackendError("getTags", bucket, key, s3errors.ErrObjectNotFound)
}

// ListCallCount returns the number of ListPage calls made so far.
func (m *MemoryStorage) ListCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ListCalls)
}

// TagCallCount returns the number of GetTags calls made so far.
func (m *MemoryStorage) TagCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.TagCalls)
}

var _ storage.Storage = (*MemoryStorage)(nil)
