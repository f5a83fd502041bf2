// Package crawling schedules the sharded search and drives postings through
// fetch, parse, derive and deduplication.
package crawling

import (
	"errors"
	"fmt"
)

// ErrShardExhausted marks a shard that has been retired. It is a normal end
// of pagination, not a failure.
var ErrShardExhausted = errors.New("shard exhausted")

// CrawlError represents a failure that stops the run.
type CrawlError struct {
	Message string
	Cause   error
}

func (e *CrawlError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("crawl error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("crawl error: %s", e.Message)
}

func (e *CrawlError) Unwrap() error {
	return e.Cause
}

// URLError represents a link that cannot be turned into a fetchable URL.
type URLError struct {
	Message string
	Cause   error
}

func (e *URLError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("url error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("url error: %s", e.Message)
}

func (e *URLError) Unwrap() error {
	return e.Cause
}
