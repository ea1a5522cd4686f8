// Package s3search finds objects in an S3 bucket by their tags.
//
// A search walks the bucket listing page by page, fetches the tags of each
// page's objects concurrently and keeps the keys whose tags contain every
// requested key/value pair. In latest-only mode each page is narrowed to the
// most recently modified object seen so far, and only that object's tags are
// fetched and matched.
//
// Key features:
//   - AWS SDK v2 client with the default credential chain, or any
//     storage.Storage such as the minio-go adapter
//   - Fail-fast: a single failed tag fetch aborts the whole search
//   - Optional client-side pacing of tag requests
//   - Structured logging and Prometheus metrics through options
//
// Example usage:
//
//	searcher, err := s3search.New(ctx)
//	if err != nil {
//	    return err
//	}
//
//	keys, err := searcher.Search(ctx, "my-bucket", s3search.Criteria{
//	    Tags:       tags.Parse("env=prod\nteam=platform"),
//	    LatestOnly: true,
//	})
package s3search
