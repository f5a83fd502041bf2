package features

import (
	"math"
	"sort"

	"github.com/skillra/hh-harvester/internal/types"
)

// Salary bucket labels.
const (
	BucketLow  = "low"
	BucketMid  = "mid"
	BucketHigh = "high"
)

// AssignSalaryBuckets labels each record's salary_mid_rub as low, mid or high
// relative to the batch. Values are capped to the batch's 1st and 99th
// percentiles before the tertile edges are taken. With fewer than three
// valid values every bucket is left absent.
func AssignSalaryBuckets(records []*types.VacancyRecord) {
	var values []float64
	for _, r := range records {
		r.SalaryBucket = nil
		if r.SalaryMidRUB != nil && !math.IsNaN(*r.SalaryMidRUB) {
			values = append(values, *r.SalaryMidRUB)
		}
	}
	if len(values) < 3 {
		return
	}
	sort.Float64s(values)
	lo, hi := quantile(values, 0.01), quantile(values, 0.99)

	capped := make([]float64, len(values))
	for i, v := range values {
		capped[i] = clamp(v, lo, hi)
	}
	q1, q2 := quantile(capped, 1.0/3), quantile(capped, 2.0/3)

	for _, r := range records {
		if r.SalaryMidRUB == nil || math.IsNaN(*r.SalaryMidRUB) {
			continue
		}
		v := clamp(*r.SalaryMidRUB, lo, hi)
		label := BucketHigh
		switch {
		case v <= q1:
			label = BucketLow
		case v <= q2:
			label = BucketMid
		}
		r.SalaryBucket = &label
	}
}

// quantile interpolates linearly between the closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	i := int(math.Floor(pos))
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(i)
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
