package pipeline

import (
	"math"

	"tribodash/domain/tribology"
)

// Clean replaces ±Inf with missing and then drops every record holding a
// missing value. The result is an order-preserving subset of the input; the
// input is not modified.
func Clean(ds tribology.Dataset) (tribology.Dataset, tribology.CleanReport) {
	report := tribology.CleanReport{Input: len(ds)}
	out := make(tribology.Dataset, 0, len(ds))

	for _, r := range ds {
		for _, v := range r.Numeric() {
			if math.IsInf(v, 0) {
				report.InfinitiesReplaced++
			}
		}
		if !r.Complete() {
			report.Dropped++
			continue
		}
		out = append(out, r)
	}

	report.Kept = len(out)
	return out, report
}
