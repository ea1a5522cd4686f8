// Package internal contains implementation details of the search that are
// not part of the public API: the S3 API seam, the tag fetcher, the latest
// object selector, the GitHub Actions reporter and test utilities.
package internal
