package charts

import (
	"bytes"
	"testing"

	"tribodash/domain/tribology"
	"tribodash/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView(params tribology.FilterParams) tribology.View {
	ds := tribology.Dataset{
		{Line: 1, Shape: "S", E: 0.1, COF: 0.02, LCC: 50, HMin: 1e-6},
		{Line: 2, Shape: "C-1", E: 0.1, COF: 0.01, LCC: 40, HMin: 2e-6},
		{Line: 3, Shape: "S", E: 0.2, COF: 0.03, LCC: 60, HMin: 3e-6},
		{Line: 4, Shape: "T", E: 0.2, COF: 0.05, LCC: 70, HMin: 1e-6},
	}
	return pipeline.Render(ds, params)
}

func TestBuildProducesFourCharts(t *testing.T) {
	specs := NewBuilder(nil).Build(sampleView(tribology.FilterParams{TopN: 2}))
	require.Len(t, specs, 4)

	assert.Equal(t, "Stribeck curve - COF vs eccentricity (Top 2)", specs[0].Title)
	assert.Equal(t, "Load carrying capacity (LCC) vs eccentricity", specs[1].Title)
	assert.Equal(t, "Mean COF per shape (Top 2)", specs[2].Title)
	assert.Equal(t, "Efficiency (LCC/COF) vs eccentricity (Top 2)", specs[3].Title)

	stribeck := specs[0]
	assert.True(t, stribeck.Markers)
	require.Len(t, stribeck.Series, 2)
	assert.Equal(t, "S", stribeck.Series[0].Name)
	assert.Equal(t, []Point{{X: 0.1, Y: 0.02}, {X: 0.2, Y: 0.03}}, stribeck.Series[0].Points)

	bars := specs[2].Bars
	require.Len(t, bars, 2)
	assert.Equal(t, "C-1", bars[0].Label)
	assert.InDelta(t, 0.01, bars[0].Value, 1e-12)
}

func TestColorsAgreeAcrossCharts(t *testing.T) {
	specs := NewBuilder(nil).Build(sampleView(tribology.FilterParams{TopN: 3}))

	colors := make(map[string]string)
	for _, b := range specs[2].Bars {
		colors[b.Label] = b.Color
	}
	for _, spec := range []ChartSpec{specs[0], specs[1], specs[3]} {
		for _, s := range spec.Series {
			assert.Equal(t, colors[s.Name], s.Color, "%s in %s", s.Name, spec.Name)
		}
	}
	assert.NotEqual(t, colors["S"], colors["C-1"])
}

func TestPaletteIsStable(t *testing.T) {
	p := NewPalette("red", "blue")
	assert.Equal(t, "red", p.Color("a"))
	assert.Equal(t, "blue", p.Color("b"))
	assert.Equal(t, "red", p.Color("c"))
	assert.Equal(t, "red", p.Color("a"))
}

func TestSymbolSizes(t *testing.T) {
	assert.Equal(t, []int{6, 18, 30}, symbolSizes([]float64{1e-6, 2e-6, 3e-6}))
	assert.Equal(t, []int{12, 12}, symbolSizes([]float64{5, 5}))
	assert.Empty(t, symbolSizes(nil))
}

func TestEmptyViewGetsNoDataSubtitle(t *testing.T) {
	specs := NewBuilder(nil).Build(sampleView(tribology.FilterParams{TopN: 2, Shapes: []string{}}))

	for _, spec := range []ChartSpec{specs[0], specs[1], specs[3]} {
		assert.True(t, spec.Empty(), spec.Name)
		assert.Equal(t, tribology.NoData, spec.Subtitle, spec.Name)
	}
	assert.False(t, specs[2].Empty(), "the ranking bar chart ignores the manual selection")

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, "Tribology", specs))
	assert.Contains(t, buf.String(), "Stribeck curve")
}

func TestBuildOne(t *testing.T) {
	b := NewBuilder(nil)
	view := sampleView(tribology.FilterParams{TopN: 2})

	spec, err := b.BuildOne(view, ChartEfficiency)
	require.NoError(t, err)
	assert.Equal(t, KindScatter, spec.Kind)

	_, err = b.BuildOne(view, "pie")
	assert.Error(t, err)
}

func TestRenderPageContainsTitles(t *testing.T) {
	specs := NewBuilder(nil).Build(sampleView(tribology.FilterParams{TopN: 3}))

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, "Tribology Analysis Dashboard", specs))
	html := buf.String()
	for _, spec := range specs {
		assert.Contains(t, html, spec.Title)
	}

	buf.Reset()
	require.NoError(t, RenderChart(&buf, specs[2]))
	assert.Contains(t, buf.String(), "Mean COF per shape")
}
