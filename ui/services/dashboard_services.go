package services

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"tribodash/adapters/tabular"
	"tribodash/domain/tribology"
	"tribodash/internal/charts"
	"tribodash/internal/config"
	"tribodash/internal/errors"
	"tribodash/internal/pipeline"
)

// Query parameters understood by the dashboard endpoints
const (
	ParamTopN   = "top_n"
	ParamShapes = "shapes"

	// ParamShapesTopN is the top_n the shape options were rendered for
	ParamShapesTopN = "shapes_top_n"
)

// DashboardService runs the pipeline over the cached dataset for each request
type DashboardService struct {
	data   *DataService
	config config.DashboardConfig
}

// NewDashboardService creates a dashboard service
func NewDashboardService(data *DataService, cfg config.DashboardConfig) *DashboardService {
	return &DashboardService{data: data, config: cfg}
}

// Config returns the dashboard settings
func (s *DashboardService) Config() config.DashboardConfig {
	return s.config
}

// Data returns the underlying dataset store
func (s *DashboardService) Data() *DataService {
	return s.data
}

// ParseFilterParams reads widget values from a query string. top_n defaults
// to the configured default and is clamped to the slider range. A shapes key
// that is present but empty means the user cleared the selection; an absent
// key means every top-N shape. When shapes_top_n says the options were
// rendered for a different top_n, the selection resets to every top-N shape.
func ParseFilterParams(values url.Values, cfg config.DashboardConfig) (tribology.FilterParams, error) {
	params := tribology.FilterParams{TopN: cfg.DefaultTopN}

	if raw := strings.TrimSpace(values.Get(ParamTopN)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return params, errors.InvalidInput("top_n must be an integer")
		}
		params.TopN = cfg.ClampTopN(n)
	}

	if list, ok := values[ParamShapes]; ok {
		params.Shapes = []string{}
		for _, item := range list {
			for _, shape := range strings.Split(item, ",") {
				if shape = strings.TrimSpace(shape); shape != "" {
					params.Shapes = append(params.Shapes, shape)
				}
			}
		}
	}

	if raw := strings.TrimSpace(values.Get(ParamShapesTopN)); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || cfg.ClampTopN(n) != params.TopN {
			params.Shapes = nil
		}
	}
	return params, nil
}

// View renders the dashboard state for params
func (s *DashboardService) View(ctx context.Context, params tribology.FilterParams) (tribology.View, error) {
	ds, _, err := s.data.Dataset(ctx)
	if err != nil {
		return tribology.View{}, err
	}
	return pipeline.Render(ds, params), nil
}

// Groups returns every shape ranked by mean COF
func (s *DashboardService) Groups(ctx context.Context) ([]tribology.GroupStat, error) {
	ds, _, err := s.data.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	cleaned, _ := pipeline.Clean(ds)
	return pipeline.RankGroupsByMeanCOF(cleaned), nil
}

// Charts returns the four chart specs for params
func (s *DashboardService) Charts(ctx context.Context, params tribology.FilterParams) ([]charts.ChartSpec, error) {
	view, err := s.View(ctx, params)
	if err != nil {
		return nil, err
	}
	return charts.NewBuilder(nil).Build(view), nil
}

// WriteChartsPage renders every chart into one HTML page
func (s *DashboardService) WriteChartsPage(ctx context.Context, w io.Writer, params tribology.FilterParams) error {
	specs, err := s.Charts(ctx, params)
	if err != nil {
		return err
	}
	return charts.RenderPage(w, s.config.Title, specs)
}

// WriteChart renders a single chart by name
func (s *DashboardService) WriteChart(ctx context.Context, w io.Writer, name string, params tribology.FilterParams) error {
	view, err := s.View(ctx, params)
	if err != nil {
		return err
	}
	spec, err := charts.NewBuilder(nil).BuildOne(view, name)
	if err != nil {
		return errors.NotFound("chart " + name)
	}
	return charts.RenderChart(w, spec)
}

// WriteExport writes the filtered records, efficiency points and ranking as an xlsx workbook
func (s *DashboardService) WriteExport(ctx context.Context, w io.Writer, params tribology.FilterParams) error {
	view, err := s.View(ctx, params)
	if err != nil {
		return err
	}
	if err := tabular.WriteWorkbook(w, ExportSheets(view)); err != nil {
		return errors.Wrap(err, "failed to write export")
	}
	return nil
}

// ExportSheets lays a view out as workbook sheets
func ExportSheets(view tribology.View) []tabular.Sheet {
	records := tabular.Sheet{Name: "records", Headers: tribology.RequiredColumns}
	for _, r := range view.Records {
		records.Rows = append(records.Rows, []interface{}{r.Shape, r.E, r.COF, r.LCC, r.HMin})
	}

	efficiency := tabular.Sheet{
		Name:    "efficiency",
		Headers: append(append([]string{}, tribology.RequiredColumns...), "Efficiency"),
	}
	for _, p := range view.Efficiency {
		efficiency.Rows = append(efficiency.Rows, []interface{}{p.Shape, p.E, p.COF, p.LCC, p.HMin, p.Efficiency})
	}

	groups := tabular.Sheet{Name: "groups", Headers: []string{"rank", "shape", "mean_COF", "count"}}
	for _, g := range view.Top {
		groups.Rows = append(groups.Rows, []interface{}{g.Rank, g.Shape, g.MeanCOF, g.Count})
	}

	summary := tabular.Sheet{
		Name:    "summary",
		Headers: []string{"metric", "value"},
		Rows: [][]interface{}{
			{"rows", view.Summary.Rows},
			{"mean_COF", view.Summary.FormatCOF()},
			{"mean_LCC", view.Summary.FormatLCC()},
			{"mean_h_min", view.Summary.FormatHMin()},
			{"mean_efficiency", view.Summary.FormatEfficiency()},
		},
	}
	return []tabular.Sheet{records, efficiency, groups, summary}
}
