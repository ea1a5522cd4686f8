// Package latest tracks the most recently modified object seen across the
// pages of a listing.
package latest

import (
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3search/storage"
)

// Selector remembers the newest entry observed so far. The zero value is
// ready to use. A Selector is not safe for concurrent use.
type Selector struct {
	best      time.Time
	candidate string
	found     bool
}

// Observe scans entries in listing order and adopts every entry whose
// modification time is at or after the current best, so among equal
// timestamps the later entry wins. Entries without a timestamp are skipped.
//
// It returns the candidate as a single key when this page changed it, and an
// empty list otherwise.
func (s *Selector) Observe(entries []storage.Entry) []string {
	changed := false
	for _, e := range entries {
		if e.LastModified == nil {
			continue
		}
		if !s.found || !e.LastModified.Before(s.best) {
			s.best = *e.LastModified
			s.candidate = e.Key
			s.found = true
			changed = true
		}
	}

	if !changed {
		return []string{}
	}
	return []string{s.candidate}
}

// Candidate returns the key of the newest entry observed so far.
func (s *Selector) Candidate() (string, bool) {
	return s.candidate, s.found
}

// Best returns the modification time of the current candidate.
func (s *Selector) Best() (time.Time, bool) {
	return s.best, s.found
}
