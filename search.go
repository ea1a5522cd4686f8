package s3search

import (
	"context"
	"time"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/internal/latest"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/tags"
)

// Criteria selects the objects a search returns.
type Criteria struct {
	// Tags must all be present on an object with equal values.
	// Empty tags match every object.
	Tags tags.Map

	// LatestOnly narrows each page to the newest object seen so far. Only a
	// page that yields a new newest object contributes a key.
	LatestOnly bool

	// Prefix restricts the listing to keys starting with it
	Prefix string
}

// Search lists bucket page by page and returns the keys of the objects whose
// tags satisfy criteria, in listing order.
//
// Tags of each page are fetched concurrently and the page is finished before
// the next one is requested. Any failure aborts the search and no partial
// result is returned.
func (s *Searcher) Search(ctx context.Context, bucket string, criteria Criteria) (result []string, err error) {
	start := time.Now()
	if s.opts.Metrics != nil {
		defer func() {
			s.opts.Metrics.ObserveSearch(time.Since(start), err)
		}()
	}

	if bucket == "" {
		return nil, s3errors.NewConfigError("bucket", "must not be empty")
	}

	var (
		selector latest.Selector
		token    string
		pageNum  int
	)
	result = []string{}

	for {
		pageNum++
		page, err := s.store.ListPage(ctx, storage.ListInput{
			Bucket:            bucket,
			Prefix:            criteria.Prefix,
			ContinuationToken: token,
			MaxKeys:           s.opts.PageSize,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "listing failed",
				"bucket", bucket,
				"page", pageNum,
				"error", err,
				"code", s3errors.Code(err))
			return nil, err
		}
		if page == nil || page.Entries == nil {
			err := s3errors.NewMalformedResponseError(bucket, "response contents not set")
			s.logger.ErrorContext(ctx, "malformed listing response",
				"bucket", bucket,
				"page", pageNum)
			return nil, err
		}
		if s.opts.Metrics != nil {
			s.opts.Metrics.ObservePage()
		}

		s.logger.DebugContext(ctx, "listed page",
			"bucket", bucket,
			"page", pageNum,
			"entries", len(page.Entries),
			"continuation_token", token)

		var keys []string
		if criteria.LatestOnly {
			keys = selector.Observe(page.Entries)
		} else {
			keys = make([]string, 0, len(page.Entries))
			for _, e := range page.Entries {
				keys = append(keys, e.Key)
			}
		}

		fetched, err := s.fetcher.FetchBatch(ctx, bucket, keys)
		if err != nil {
			s.logger.ErrorContext(ctx, "tag fetch failed",
				"bucket", bucket,
				"page", pageNum,
				"error", err,
				"code", s3errors.Code(err))
			return nil, err
		}

		matched := 0
		for _, r := range fetched {
			if !tags.Matches(r.Tags, criteria.Tags) {
				continue
			}
			s.logger.DebugContext(ctx, "object matched",
				"bucket", bucket,
				"key", r.Key)
			result = append(result, r.Key)
			matched++
		}
		if s.opts.Metrics != nil {
			s.opts.Metrics.ObserveMatches(matched)
		}

		token = page.NextContinuationToken
		if token == "" {
			break
		}
	}

	s.logger.InfoContext(ctx, "search completed",
		"bucket", bucket,
		"pages", pageNum,
		"matches", len(result),
		"latest_only", criteria.LatestOnly,
		"duration", time.Since(start))

	return result, nil
}
