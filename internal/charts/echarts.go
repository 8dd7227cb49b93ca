package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth     = "100%"
	chartHeight    = "420px"
	chartTextColor = "#333333"
)

// RenderPage writes every spec as one HTML page
func RenderPage(w io.Writer, title string, specs []ChartSpec) error {
	page := components.NewPage()
	page.PageTitle = title
	for _, spec := range specs {
		chart, err := toChart(spec)
		if err != nil {
			return err
		}
		page.AddCharts(chart)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart page: %w", err)
	}
	return nil
}

// RenderChart writes a single chart as a standalone HTML document
func RenderChart(w io.Writer, spec ChartSpec) error {
	chart, err := toChart(spec)
	if err != nil {
		return err
	}
	if err := chart.Render(w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", spec.Name, err)
	}
	return nil
}

type renderable interface {
	components.Charter
	Render(w io.Writer) error
}

func toChart(spec ChartSpec) (renderable, error) {
	switch spec.Kind {
	case KindLine:
		return buildLine(spec), nil
	case KindBar:
		return buildBar(spec), nil
	case KindScatter:
		return buildScatter(spec), nil
	}
	return nil, fmt.Errorf("unsupported chart kind %q", spec.Kind)
}

func globalOptions(spec ChartSpec, xType string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:   chartWidth,
			Height:  chartHeight,
			ChartID: spec.Name,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      spec.Title,
			Subtitle:   spec.Subtitle,
			TitleStyle: &opts.TextStyle{Color: chartTextColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(spec.Kind != KindBar),
			Right:  "10",
			Orient: "vertical",
			Type:   "scroll",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         spec.XLabel,
			Type:         xType,
			NameLocation: "center",
			NameGap:      30,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         spec.YLabel,
			NameLocation: "center",
			NameGap:      60,
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   "90",
			Right:  "140",
			Bottom: "60",
		}),
	}
}

func buildLine(spec ChartSpec) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions(spec, "value")...)

	for _, s := range spec.Series {
		data := make([]opts.LineData, len(s.Points))
		for i, p := range s.Points {
			data[i] = opts.LineData{Value: []interface{}{p.X, p.Y}}
		}
		line.AddSeries(s.Name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
		)
	}

	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(spec.Markers)}),
	)
	return line
}

func buildBar(spec ChartSpec) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(spec, "category")...)

	labels := make([]string, len(spec.Bars))
	data := make([]opts.BarData, len(spec.Bars))
	for i, b := range spec.Bars {
		labels[i] = b.Label
		data[i] = opts.BarData{
			Name:      b.Label,
			Value:     roundTo(b.Value, 4),
			ItemStyle: &opts.ItemStyle{Color: b.Color},
		}
	}

	bar.SetXAxis(labels).
		AddSeries("mean COF", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)
	return bar
}

func buildScatter(spec ChartSpec) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(globalOptions(spec, "value")...)

	for _, s := range spec.Series {
		data := make([]opts.ScatterData, len(s.Points))
		for i, p := range s.Points {
			data[i] = opts.ScatterData{
				Value:      []interface{}{p.X, p.Y},
				SymbolSize: p.Size,
			}
		}
		scatter.AddSeries(s.Name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}
	return scatter
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
