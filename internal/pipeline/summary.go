package pipeline

import (
	"tribodash/domain/tribology"

	"github.com/montanaflynn/stats"
)

// SummaryMetrics averages COF, LCC, h_min and efficiency over ds.
// An empty dataset gives an empty Summary rather than NaN means.
func SummaryMetrics(ds tribology.Dataset) tribology.Summary {
	points, _ := ComputeEfficiency(ds)
	return summarize(ds, points)
}

func summarize(ds tribology.Dataset, points []tribology.EfficiencyPoint) tribology.Summary {
	summary := tribology.Summary{Rows: len(ds), EfficiencyRows: len(points)}
	if len(ds) == 0 {
		return summary
	}

	cof := make(stats.Float64Data, len(ds))
	lcc := make(stats.Float64Data, len(ds))
	hmin := make(stats.Float64Data, len(ds))
	for i, r := range ds {
		cof[i], lcc[i], hmin[i] = r.COF, r.LCC, r.HMin
	}
	summary.MeanCOF, _ = cof.Mean()
	summary.MeanLCC, _ = lcc.Mean()
	summary.MeanHMin, _ = hmin.Mean()

	if len(points) > 0 {
		eff := make(stats.Float64Data, len(points))
		for i, p := range points {
			eff[i] = p.Efficiency
		}
		summary.MeanEfficiency, _ = eff.Mean()
	}
	return summary
}
