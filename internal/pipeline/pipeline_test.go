package pipeline

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tribodash/domain/tribology"
	apperrors "tribodash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shapeLabels = []string{"S", "C-1", "C-2", "T-1", "T-2", "H", "R-3"}

// randomDataset builds rows with a sprinkling of NaN, ±Inf and zero COF
func randomDataset(rng *rand.Rand, n int) tribology.Dataset {
	ds := make(tribology.Dataset, n)
	for i := range ds {
		r := tribology.Record{
			Line:  i + 1,
			Shape: shapeLabels[rng.Intn(len(shapeLabels))],
			E:     float64(rng.Intn(10)) / 10,
			COF:   0.001 + rng.Float64()*0.1,
			LCC:   10 + rng.Float64()*500,
			HMin:  1e-7 + rng.Float64()*1e-5,
		}
		switch rng.Intn(12) {
		case 0:
			r.COF = math.NaN()
		case 1:
			r.LCC = math.Inf(1)
		case 2:
			r.HMin = math.Inf(-1)
		case 3:
			r.Shape = ""
		}
		ds[i] = r
	}
	return ds
}

func exampleDataset() tribology.Dataset {
	return tribology.Dataset{
		{Line: 1, Shape: "S", E: 0.1, COF: 0.02, LCC: 50, HMin: 1e-6},
		{Line: 2, Shape: "C-1", E: 0.1, COF: 0.01, LCC: 40, HMin: 2e-6},
	}
}

func writeResults(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesRecords(t *testing.T) {
	path := writeResults(t, strings.Join([]string{
		" shape \t E \tCOF\tLCC\th_min\tcomment",
		"S\t0.1\t0.02\t50\t1e-06\tok",
		"C-1\t0.2\tinf\t40\t2e-06\tinfinite",
		"C-2\t0.3\tNA\t30\t\tmissing",
		"NaN\t0.4\t0.03\t20\t4e-06\tno shape",
		"C-3\tabc\t0.03\t20\t4e-06\tmalformed",
	}, "\n")+"\n")

	ds, info, err := LoadWithInfo(path)
	require.NoError(t, err)
	require.Len(t, ds, 5)

	assert.Equal(t, tribology.Record{Line: 1, Shape: "S", E: 0.1, COF: 0.02, LCC: 50, HMin: 1e-6}, ds[0])
	assert.True(t, math.IsInf(ds[1].COF, 1))
	assert.True(t, math.IsNaN(ds[2].COF))
	assert.True(t, math.IsNaN(ds[2].HMin))
	assert.Equal(t, "", ds[3].Shape)
	assert.True(t, math.IsNaN(ds[4].E))

	assert.Equal(t, path, info.Source)
	assert.Equal(t, 5, info.Rows)
	assert.Len(t, info.Hash.String(), 64)
	assert.Contains(t, info.Columns, "comment")
}

func TestLoadMissingFileIsLoadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, apperrors.IsLoadError(err))
}

func TestLoadMissingColumnsIsLoadError(t *testing.T) {
	path := writeResults(t, "shape\tE\tCOF\nS\t0.1\t0.02\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsLoadError(err))
	assert.Contains(t, err.Error(), "LCC, h_min")
}

func TestLoadShortRowIsCleanedNotFatal(t *testing.T) {
	path := writeResults(t, "shape\tE\tCOF\tLCC\th_min\n"+
		"S\t0.1\t0.02\t50\t1e-06\n"+
		"C-1\t0.1\t0.01\t40\t2e-06\n"+
		"T\t0.2\t0.03\n"+
		"Q\"x\t0.3\t0.04\t60\t3e-06\n")

	ds, err := Load(path)
	require.NoError(t, err)
	require.Len(t, ds, 4)
	assert.True(t, math.IsNaN(ds[2].LCC))
	assert.Equal(t, "Q\"x", ds[3].Shape)

	view := Render(ds, tribology.FilterParams{})
	assert.Equal(t, 1, view.Cleaning.Dropped)
	assert.True(t, view.HasNotice(tribology.NoticeCleaningDataLoss))
	assert.Equal(t, []string{"C-1", "S", "Q\"x"}, view.TopShapes)
}

func TestLoadHeaderOnlyIsEmptyDataset(t *testing.T) {
	ds, err := Load(writeResults(t, "shape\tE\tCOF\tLCC\th_min\n"))
	require.NoError(t, err)
	assert.Empty(t, ds)

	view := Render(ds, tribology.FilterParams{TopN: 10})
	assert.True(t, view.HasNotice(tribology.NoticeEmptySelection))
	assert.True(t, view.Summary.Empty())
}

func TestLoadHeaderOnlyStillNamesMissingColumns(t *testing.T) {
	_, err := Load(writeResults(t, "shape\tE\tCOF\n"))
	require.Error(t, err)
	assert.True(t, apperrors.IsLoadError(err))
	assert.Contains(t, err.Error(), "LCC, h_min")
}

func TestLoadEmptyFileIsLoadError(t *testing.T) {
	_, err := Load(writeResults(t, ""))
	require.Error(t, err)
	assert.True(t, apperrors.IsLoadError(err))
}

func TestLoadKeepsShapeLabelsVerbatim(t *testing.T) {
	ds, err := Load(writeResults(t, "shape\tE\tCOF\tLCC\th_min\n"+
		"S\t0.1\t0.02\t50\t1e-06\n"+
		" S\t 0.1 \t0.03\t50\t1e-06\n"))
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, " S", ds[1].Shape)
	assert.Equal(t, 0.1, ds[1].E)
	assert.Len(t, RankGroupsByMeanCOF(ds), 2)
}

func TestCleanRemovesIncompleteRows(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		raw := randomDataset(rng, 200)
		snapshot := append(tribology.Dataset(nil), raw...)

		cleaned, report := Clean(raw)

		assert.Equal(t, len(raw), report.Input)
		assert.Equal(t, report.Input, report.Kept+report.Dropped)
		assert.Equal(t, len(cleaned), report.Kept)

		j := 0
		for _, r := range cleaned {
			assert.True(t, r.Complete(), "row %d still has missing data", r.Line)
			for j < len(raw) && raw[j].Line != r.Line {
				j++
			}
			require.Less(t, j, len(raw), "cleaned rows must keep source order")
			assert.True(t, r.SameValues(raw[j]))
		}

		for i := range raw {
			assert.True(t, raw[i].SameValues(snapshot[i]), "Clean mutated its input")
		}
	}
}

func TestCleanCountsInfinities(t *testing.T) {
	ds := tribology.Dataset{
		{Line: 1, Shape: "S", E: 0.1, COF: math.Inf(1), LCC: math.Inf(-1), HMin: 1e-6},
		{Line: 2, Shape: "S", E: 0.2, COF: 0.02, LCC: 10, HMin: 1e-6},
	}
	cleaned, report := Clean(ds)
	assert.Len(t, cleaned, 1)
	assert.Equal(t, 2, report.InfinitiesReplaced)
	assert.Equal(t, 1, report.Dropped)
}

func TestRankGroupsOnePerShapeAscending(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 20; trial++ {
		cleaned, _ := Clean(randomDataset(rng, 150))
		ranked := RankGroupsByMeanCOF(cleaned)

		assert.ElementsMatch(t, cleaned.Shapes(), shapesOf(ranked))
		total := 0
		for i, g := range ranked {
			assert.Equal(t, i+1, g.Rank)
			total += g.Count
			if i > 0 {
				assert.LessOrEqual(t, ranked[i-1].MeanCOF, g.MeanCOF)
			}
		}
		assert.Equal(t, len(cleaned), total)
	}
}

func TestRankGroupsTieBreakIsFirstSeen(t *testing.T) {
	ds := tribology.Dataset{
		{Shape: "Z", COF: 0.5},
		{Shape: "A", COF: 0.75},
		{Shape: "M", COF: 0.5},
		{Shape: "A", COF: 0.25},
		{Shape: "B", COF: 0.25},
	}
	ranked := RankGroupsByMeanCOF(ds)
	assert.Equal(t, []string{"B", "Z", "A", "M"}, shapesOf(ranked))
	assert.Equal(t, 0.5, ranked[2].MeanCOF)
	assert.Equal(t, 2, ranked[2].Count)
}

func TestRankGroupsNaNMeansRankLast(t *testing.T) {
	ds := tribology.Dataset{
		{Shape: "broken", COF: math.NaN()},
		{Shape: "ok", COF: 0.5},
	}
	ranked := RankGroupsByMeanCOF(ds)
	assert.Equal(t, []string{"ok", "broken"}, shapesOf(ranked))
	assert.True(t, math.IsNaN(ranked[1].MeanCOF))
}

func TestSelectTopN(t *testing.T) {
	cleaned, _ := Clean(randomDataset(rand.New(rand.NewSource(3)), 300))
	ranked := RankGroupsByMeanCOF(cleaned)

	for n1 := 1; n1 <= len(ranked)+2; n1++ {
		small := SelectTopN(ranked, n1)
		assert.Len(t, small, min(n1, len(ranked)))
		for n2 := n1; n2 <= len(ranked)+2; n2++ {
			large := NewShapeSet(SelectTopN(ranked, n2)...)
			for _, s := range small {
				assert.True(t, large.Contains(s), "top %d not inside top %d", n1, n2)
			}
		}
	}

	assert.Empty(t, SelectTopN(ranked, 0))
	assert.Empty(t, SelectTopN(nil, 5))
}

func TestFilterIdentityAndIdempotence(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 10; trial++ {
		cleaned, _ := Clean(randomDataset(rng, 120))

		all := Filter(cleaned, NewShapeSet(cleaned.Shapes()...))
		assert.Equal(t, cleaned, all)

		subset := NewShapeSet(cleaned.Shapes()[:len(cleaned.Shapes())/2]...)
		once := Filter(cleaned, subset)
		assert.Equal(t, once, Filter(once, subset))
		for _, r := range once {
			assert.True(t, subset.Contains(r.Shape))
		}
	}
}

func TestFilterDoesNotAlias(t *testing.T) {
	ds := exampleDataset()
	out := Filter(ds, NewShapeSet("S", "C-1"))
	out[0].COF = 99
	assert.Equal(t, 0.02, ds[0].COF)
}

func TestWorkedExample(t *testing.T) {
	ds := exampleDataset()

	ranked := RankGroupsByMeanCOF(ds)
	assert.Equal(t, []string{"C-1", "S"}, shapesOf(ranked))
	assert.Equal(t, []string{"C-1"}, SelectTopN(ranked, 1))

	filtered := Filter(ds, NewShapeSet("C-1"))
	require.Len(t, filtered, 1)

	points, excluded := ComputeEfficiency(filtered)
	assert.Zero(t, excluded)
	require.Len(t, points, 1)
	assert.InDelta(t, 4000, points[0].Efficiency, 1e-9)
}

func TestComputeEfficiencyExcludesZeroCOF(t *testing.T) {
	ds := tribology.Dataset{
		{Shape: "S", COF: 0, LCC: 50},
		{Shape: "S", COF: 0.5, LCC: 50},
		{Shape: "S", COF: 5e-324, LCC: 1e300},
	}
	points, excluded := ComputeEfficiency(ds)
	assert.Equal(t, 2, excluded)
	require.Len(t, points, 1)
	assert.InDelta(t, 100, points[0].Efficiency, 1e-9)

	summary := SummaryMetrics(ds)
	assert.False(t, math.IsInf(summary.MeanEfficiency, 0))
	assert.InDelta(t, 100, summary.MeanEfficiency, 1e-9)
	assert.Equal(t, 1, summary.EfficiencyRows)
}

func TestSummaryMetrics(t *testing.T) {
	summary := SummaryMetrics(exampleDataset())
	assert.Equal(t, 2, summary.Rows)
	assert.InDelta(t, 0.015, summary.MeanCOF, 1e-12)
	assert.InDelta(t, 45, summary.MeanLCC, 1e-12)
	assert.InDelta(t, 1.5e-6, summary.MeanHMin, 1e-18)
	assert.InDelta(t, (2500.0+4000.0)/2, summary.MeanEfficiency, 1e-9)
	assert.Equal(t, "0.0150", summary.FormatCOF())
	assert.Equal(t, "45.00", summary.FormatLCC())
	assert.Equal(t, "1.50e-06", summary.FormatHMin())
	assert.Equal(t, "3250.00", summary.FormatEfficiency())
}

func TestSummaryMetricsEmpty(t *testing.T) {
	summary := SummaryMetrics(nil)
	assert.True(t, summary.Empty())
	assert.False(t, math.IsNaN(summary.MeanCOF))
	assert.Equal(t, tribology.NoData, summary.FormatCOF())
	assert.Equal(t, tribology.NoData, summary.FormatLCC())
	assert.Equal(t, tribology.NoData, summary.FormatHMin())
	assert.Equal(t, tribology.NoData, summary.FormatEfficiency())
}

func TestRenderDefaultsToWholeTopN(t *testing.T) {
	ds := append(exampleDataset(),
		tribology.Record{Line: 3, Shape: "T", E: 0.2, COF: 0.05, LCC: 10, HMin: 1e-6},
		tribology.Record{Line: 4, Shape: "T", E: 0.3, COF: math.NaN(), LCC: 10, HMin: 1e-6},
	)

	view := Render(ds, tribology.FilterParams{TopN: 2})

	assert.Equal(t, 2, view.TopN)
	assert.Equal(t, []string{"C-1", "S"}, view.TopShapes)
	assert.Equal(t, view.TopShapes, view.Selected)
	assert.Len(t, view.Ranked, 3)
	assert.Len(t, view.Top, 2)
	assert.Len(t, view.Records, 2)
	assert.Equal(t, 1, view.Cleaning.Dropped)
	assert.True(t, view.HasNotice(tribology.NoticeCleaningDataLoss))
	assert.False(t, view.HasNotice(tribology.NoticeEmptySelection))
}

func TestRenderManualSelection(t *testing.T) {
	view := Render(exampleDataset(), tribology.FilterParams{TopN: 1, Shapes: []string{"S", "C-1", "C-1"}})

	assert.Equal(t, []string{"C-1"}, view.Selected, "shapes outside the top N are ignored")
	require.Len(t, view.Records, 1)
	assert.Equal(t, "C-1", view.Records[0].Shape)
	assert.InDelta(t, 4000, view.Summary.MeanEfficiency, 1e-9)
}

func TestRenderEmptySelection(t *testing.T) {
	view := Render(exampleDataset(), tribology.FilterParams{TopN: 10, Shapes: []string{}})

	assert.Empty(t, view.Records)
	assert.True(t, view.Summary.Empty())
	assert.True(t, view.HasNotice(tribology.NoticeEmptySelection))
	assert.Len(t, view.Top, 2, "the ranking chart still shows the top groups")
}

func TestRenderEmptyDataset(t *testing.T) {
	view := Render(nil, tribology.FilterParams{TopN: 5})
	assert.Empty(t, view.Ranked)
	assert.Empty(t, view.Records)
	assert.True(t, view.HasNotice(tribology.NoticeEmptySelection))
}

func TestRenderZeroCOFNotice(t *testing.T) {
	ds := append(exampleDataset(), tribology.Record{Line: 3, Shape: "S", E: 0.3, COF: 0, LCC: 70, HMin: 1e-6})
	view := Render(ds, tribology.FilterParams{})

	assert.Equal(t, 2, view.TopN, "TopN < 1 keeps every group")
	assert.Len(t, view.Records, 3)
	assert.Len(t, view.Efficiency, 2)
	assert.True(t, view.HasNotice(tribology.NoticeDegenerateDivision))
	assert.False(t, math.IsInf(view.Summary.MeanEfficiency, 0))
	for _, n := range view.Notices {
		if n.Kind == tribology.NoticeDegenerateDivision {
			assert.Contains(t, n.Message, "non-finite LCC/COF")
		}
	}
}

func shapesOf(groups []tribology.GroupStat) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Shape
	}
	return out
}
