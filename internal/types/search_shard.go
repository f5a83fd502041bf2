// Package types provides type definitions for structured data used throughout the vacancy harvester.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// ExperienceBucket is the service's experience filter used to split a search query
// into shards below the per-query result ceiling.
type ExperienceBucket string

const (
	BucketNoExperience ExperienceBucket = "noExperience"
	BucketOneToThree   ExperienceBucket = "between1And3"
	BucketThreeToSix   ExperienceBucket = "between3And6"
	BucketMoreThanSix  ExperienceBucket = "moreThan6"
)

// ExperienceBuckets returns the fixed bucket set in scheduling order.
func ExperienceBuckets() []ExperienceBucket {
	return []ExperienceBucket{
		BucketNoExperience,
		BucketOneToThree,
		BucketThreeToSix,
		BucketMoreThanSix,
	}
}

// Valid reports whether b is one of the known buckets.
func (b ExperienceBucket) Valid() bool {
	switch b {
	case BucketNoExperience, BucketOneToThree, BucketThreeToSix, BucketMoreThanSix:
		return true
	}
	return false
}

// SearchShard identifies one (area, experience bucket, page) coordinate of the search.
type SearchShard struct {
	AreaID int              `json:"area_id"`
	Bucket ExperienceBucket `json:"experience_bucket"`
	Page   int              `json:"page"`
}

// Key identifies the shard independent of its page pointer.
func (s SearchShard) Key() string {
	return fmt.Sprintf("%d/%s", s.AreaID, s.Bucket)
}

func (s SearchShard) String() string {
	return fmt.Sprintf("area=%d exp=%s page=%d", s.AreaID, s.Bucket, s.Page)
}
