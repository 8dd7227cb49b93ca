package pipeline

import (
	"fmt"

	"tribodash/domain/tribology"
)

// Render runs the whole pipeline for one set of widget values:
// clean, rank, take the top N, intersect with the manual selection, filter,
// derive efficiency and summarise. It keeps no state between calls.
//
// TopN < 1 keeps every group. Shapes outside the top N are ignored.
func Render(ds tribology.Dataset, params tribology.FilterParams) tribology.View {
	cleaned, report := Clean(ds)
	ranked := RankGroupsByMeanCOF(cleaned)

	topN := params.TopN
	if topN < 1 {
		topN = len(ranked)
	}
	topShapes := SelectTopN(ranked, topN)
	top := ranked[:len(topShapes)]

	selected := topShapes
	if params.Shapes != nil {
		selected = intersectInOrder(topShapes, params.Shapes)
	}

	records := Filter(cleaned, NewShapeSet(selected...))
	points, excluded := ComputeEfficiency(records)

	view := tribology.View{
		TopN:       topN,
		Ranked:     ranked,
		Top:        top,
		TopShapes:  topShapes,
		Selected:   selected,
		Records:    records,
		Efficiency: points,
		Summary:    summarize(records, points),
		Cleaning:   report,
		Notices:    []tribology.Notice{},
	}

	if report.Dropped > 0 {
		view.Notices = append(view.Notices, tribology.Notice{
			Kind:    tribology.NoticeCleaningDataLoss,
			Message: fmt.Sprintf("Dropped %d of %d rows with missing or infinite values", report.Dropped, report.Input),
			Count:   report.Dropped,
		})
	}
	if excluded > 0 {
		view.Notices = append(view.Notices, tribology.Notice{
			Kind:    tribology.NoticeDegenerateDivision,
			Message: fmt.Sprintf("%d rows with a zero COF or a non-finite LCC/COF were left out of the efficiency ratio", excluded),
			Count:   excluded,
		})
	}
	if len(records) == 0 {
		view.Notices = append(view.Notices, tribology.Notice{
			Kind:    tribology.NoticeEmptySelection,
			Message: "No rows match the current selection",
		})
	}
	return view
}

// intersectInOrder keeps the members of order that appear in want, without duplicates
func intersectInOrder(order, want []string) []string {
	wanted := NewShapeSet(want...)
	out := make([]string, 0, len(want))
	for _, s := range order {
		if wanted.Contains(s) {
			out = append(out, s)
		}
	}
	return out
}
