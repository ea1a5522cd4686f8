// Package fetch retrieves object tags, one object at a time or as a
// concurrent batch that fails as a whole on the first error.
package fetch

import (
	"context"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/tags"
)

// Result pairs an object key with its resolved tags.
type Result struct {
	Key  string
	Tags tags.Map
}

// Observer is notified of every completed tag fetch.
type Observer interface {
	ObserveTagFetch(err error)
}

// Fetcher reads tags from a storage backend.
type Fetcher struct {
	store    storage.Storage
	limiter  *rate.Limiter
	logger   *slog.Logger
	observer Observer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLimiter paces GetTags calls. A nil limiter disables pacing.
func WithLimiter(l *rate.Limiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithLogger sets the logger used for per-object debug output.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithObserver registers an observer for completed fetches.
func WithObserver(o Observer) Option {
	return func(f *Fetcher) {
		f.observer = o
	}
}

// New creates a Fetcher over the given storage.
func New(store storage.Storage, opts ...Option) *Fetcher {
	f := &Fetcher{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchOne returns the tags of one object. Tags with a missing key or value
// are skipped. A failed call or a response without a tag set is a tag fetch
// error carrying the bucket and key.
func (f *Fetcher) FetchOne(ctx context.Context, bucket, key string) (tags.Map, error) {
	m, err := f.fetchOne(ctx, bucket, key)
	if f.observer != nil {
		f.observer.ObserveTagFetch(err)
	}
	return m, err
}

func (f *Fetcher) fetchOne(ctx context.Context, bucket, key string) (tags.Map, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, s3errors.NewTagFetchError(bucket, key, err)
		}
	}

	set, err := f.store.GetTags(ctx, bucket, key)
	if err != nil {
		f.logger.DebugContext(ctx, "tag fetch failed",
			"bucket", bucket,
			"key", key,
			"error", err)
		return nil, s3errors.NewTagFetchError(bucket, key, err)
	}
	if set == nil {
		return nil, s3errors.NewTagFetchError(bucket, key, s3errors.ErrNoTagSet)
	}

	m := make(tags.Map, len(set))
	for _, t := range set {
		if t.Key == nil || t.Value == nil {
			continue
		}
		m[*t.Key] = *t.Value
	}
	return m, nil
}

// FetchBatch fetches the tags of all keys concurrently. Results are in the
// order of keys. The first failure cancels the outstanding fetches and is
// returned; no partial results are returned alongside it.
func (f *Fetcher) FetchBatch(ctx context.Context, bucket string, keys []string) ([]Result, error) {
	results := make([]Result, len(keys))
	if len(keys) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			m, err := f.FetchOne(gctx, bucket, key)
			if err != nil {
				return err
			}
			results[i] = Result{Key: key, Tags: m}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
