package pipeline

import (
	"math"

	"tribodash/domain/tribology"
)

// ComputeEfficiency derives LCC/COF for each record. Records with COF == 0,
// or whose ratio is not finite, are left out and counted in excluded so the
// caller can raise a degenerate-division notice.
func ComputeEfficiency(ds tribology.Dataset) (points []tribology.EfficiencyPoint, excluded int) {
	points = make([]tribology.EfficiencyPoint, 0, len(ds))
	for _, r := range ds {
		if r.COF == 0 {
			excluded++
			continue
		}
		eff := r.LCC / r.COF
		if math.IsNaN(eff) || math.IsInf(eff, 0) {
			excluded++
			continue
		}
		points = append(points, tribology.EfficiencyPoint{Record: r, Efficiency: eff})
	}
	return points, excluded
}
