package pipeline

import (
	"cmp"
	"math"
	"slices"

	"tribodash/domain/tribology"

	"gonum.org/v1/gonum/stat"
)

// RankGroupsByMeanCOF returns one GroupStat per shape, lowest mean COF first.
// Ties keep the order in which shapes first appear in ds. Non-finite COF
// values are skipped; a shape with none left has a NaN mean and ranks last.
func RankGroupsByMeanCOF(ds tribology.Dataset) []tribology.GroupStat {
	index := make(map[string]int)
	var shapes []string
	var cofs [][]float64
	var counts []int

	for _, r := range ds {
		i, ok := index[r.Shape]
		if !ok {
			i = len(shapes)
			index[r.Shape] = i
			shapes = append(shapes, r.Shape)
			cofs = append(cofs, nil)
			counts = append(counts, 0)
		}
		counts[i]++
		if !math.IsNaN(r.COF) && !math.IsInf(r.COF, 0) {
			cofs[i] = append(cofs[i], r.COF)
		}
	}

	ranked := make([]tribology.GroupStat, len(shapes))
	for i, shape := range shapes {
		mean := math.NaN()
		if len(cofs[i]) > 0 {
			mean = stat.Mean(cofs[i], nil)
		}
		ranked[i] = tribology.GroupStat{Shape: shape, MeanCOF: mean, Count: counts[i]}
	}

	slices.SortStableFunc(ranked, func(a, b tribology.GroupStat) int {
		return compareMeans(a.MeanCOF, b.MeanCOF)
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// compareMeans orders ascending with NaN after every number
func compareMeans(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(a, b)
}

// SelectTopN returns the first min(n, len(ranked)) shape labels.
// n < 1 selects nothing.
func SelectTopN(ranked []tribology.GroupStat, n int) []string {
	if n < 1 {
		return []string{}
	}
	n = min(n, len(ranked))
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = ranked[i].Shape
	}
	return labels
}
