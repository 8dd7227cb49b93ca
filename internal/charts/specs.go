package charts

import (
	"fmt"
	"math"

	"tribodash/domain/tribology"

	"gonum.org/v1/gonum/floats"
)

// Chart names used in URLs and as element IDs
const (
	ChartStribeck   = "stribeck"
	ChartLCC        = "lcc"
	ChartMeanCOF    = "mean-cof"
	ChartEfficiency = "efficiency"
)

// Names lists every chart in dashboard order
var Names = []string{ChartStribeck, ChartLCC, ChartMeanCOF, ChartEfficiency}

// Kind is the mark type of a chart
type Kind string

const (
	KindLine    Kind = "line"
	KindBar     Kind = "bar"
	KindScatter Kind = "scatter"
)

// Symbol sizes for the efficiency scatter, in pixels
const (
	minSymbolSize   = 6
	symbolSizeRange = 24
	flatSymbolSize  = 12
)

// Point is one plotted mark. Size is only meaningful for scatter charts.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size int     `json:"size,omitempty"`
}

// Series is the marks of one shape
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Bar is one category of a bar chart
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// ChartSpec describes a chart independently of the drawing library
type ChartSpec struct {
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	XLabel   string   `json:"x_label"`
	YLabel   string   `json:"y_label"`
	Markers  bool     `json:"markers"`
	Series   []Series `json:"series,omitempty"`
	Bars     []Bar    `json:"bars,omitempty"`
}

// Empty reports whether the chart has nothing to draw
func (c ChartSpec) Empty() bool {
	if c.Kind == KindBar {
		return len(c.Bars) == 0
	}
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// Builder turns views into chart specs with a shared palette
type Builder struct {
	palette *Palette
}

// NewBuilder returns a Builder using palette, or a fresh default palette when nil
func NewBuilder(palette *Palette) *Builder {
	if palette == nil {
		palette = NewPalette()
	}
	return &Builder{palette: palette}
}

// Build returns the four dashboard charts in order
func (b *Builder) Build(view tribology.View) []ChartSpec {
	b.palette.Assign(shapesOf(view.Ranked)...)
	return []ChartSpec{
		b.stribeck(view),
		b.lcc(view),
		b.meanCOF(view),
		b.efficiency(view),
	}
}

// BuildOne returns a single chart by name
func (b *Builder) BuildOne(view tribology.View, name string) (ChartSpec, error) {
	b.palette.Assign(shapesOf(view.Ranked)...)
	switch name {
	case ChartStribeck:
		return b.stribeck(view), nil
	case ChartLCC:
		return b.lcc(view), nil
	case ChartMeanCOF:
		return b.meanCOF(view), nil
	case ChartEfficiency:
		return b.efficiency(view), nil
	}
	return ChartSpec{}, fmt.Errorf("unknown chart %q", name)
}

func (b *Builder) stribeck(view tribology.View) ChartSpec {
	spec := ChartSpec{
		Name:    ChartStribeck,
		Kind:    KindLine,
		Title:   fmt.Sprintf("Stribeck curve - COF vs eccentricity (Top %d)", view.TopN),
		XLabel:  "Eccentricity",
		YLabel:  "Coefficient of friction",
		Markers: true,
		Series:  b.seriesBy(view.Records, func(r tribology.Record) float64 { return r.COF }),
	}
	return withEmptyNote(spec)
}

func (b *Builder) lcc(view tribology.View) ChartSpec {
	spec := ChartSpec{
		Name:    ChartLCC,
		Kind:    KindLine,
		Title:   "Load carrying capacity (LCC) vs eccentricity",
		XLabel:  "E",
		YLabel:  "Load carrying capacity (N)",
		Markers: true,
		Series:  b.seriesBy(view.Records, func(r tribology.Record) float64 { return r.LCC }),
	}
	return withEmptyNote(spec)
}

// meanCOF plots the top-N ranking, independent of the manual selection
func (b *Builder) meanCOF(view tribology.View) ChartSpec {
	spec := ChartSpec{
		Name:   ChartMeanCOF,
		Kind:   KindBar,
		Title:  fmt.Sprintf("Mean COF per shape (Top %d)", view.TopN),
		XLabel: "shape",
		YLabel: "COF",
		Bars:   make([]Bar, 0, len(view.Top)),
	}
	for _, g := range view.Top {
		spec.Bars = append(spec.Bars, Bar{Label: g.Shape, Value: g.MeanCOF, Color: b.palette.Color(g.Shape)})
	}
	return withEmptyNote(spec)
}

func (b *Builder) efficiency(view tribology.View) ChartSpec {
	spec := ChartSpec{
		Name:   ChartEfficiency,
		Kind:   KindScatter,
		Title:  fmt.Sprintf("Efficiency (LCC/COF) vs eccentricity (Top %d)", view.TopN),
		XLabel: "E",
		YLabel: "Efficiency",
	}

	hmin := make([]float64, len(view.Efficiency))
	for i, p := range view.Efficiency {
		hmin[i] = p.HMin
	}
	sizes := symbolSizes(hmin)

	index := make(map[string]int)
	for i, p := range view.Efficiency {
		j, ok := index[p.Shape]
		if !ok {
			j = len(spec.Series)
			index[p.Shape] = j
			spec.Series = append(spec.Series, Series{Name: p.Shape, Color: b.palette.Color(p.Shape)})
		}
		spec.Series[j].Points = append(spec.Series[j].Points, Point{X: p.E, Y: p.Efficiency, Size: sizes[i]})
	}
	return withEmptyNote(spec)
}

// seriesBy groups records by shape in first-seen order, keeping data order within a series
func (b *Builder) seriesBy(ds tribology.Dataset, y func(tribology.Record) float64) []Series {
	var series []Series
	index := make(map[string]int)
	for _, r := range ds {
		i, ok := index[r.Shape]
		if !ok {
			i = len(series)
			index[r.Shape] = i
			series = append(series, Series{Name: r.Shape, Color: b.palette.Color(r.Shape)})
		}
		series[i].Points = append(series[i].Points, Point{X: r.E, Y: y(r)})
	}
	return series
}

// symbolSizes scales values linearly onto the symbol size range
func symbolSizes(values []float64) []int {
	sizes := make([]int, len(values))
	if len(values) == 0 {
		return sizes
	}
	lo, hi := floats.Min(values), floats.Max(values)
	for i, v := range values {
		if hi == lo {
			sizes[i] = flatSymbolSize
			continue
		}
		sizes[i] = minSymbolSize + int(math.Round(symbolSizeRange*(v-lo)/(hi-lo)))
	}
	return sizes
}

func withEmptyNote(spec ChartSpec) ChartSpec {
	if spec.Empty() {
		spec.Subtitle = tribology.NoData
	}
	return spec
}

func shapesOf(groups []tribology.GroupStat) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Shape
	}
	return out
}
