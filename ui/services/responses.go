package services

import (
	"math"
	"net/url"
	"strconv"

	"tribodash/domain/tribology"
)

// SummaryResponse is the JSON form of a Summary. Means are null when there is nothing to average.
type SummaryResponse struct {
	Rows           int      `json:"rows"`
	MeanCOF        *float64 `json:"mean_COF"`
	MeanLCC        *float64 `json:"mean_LCC"`
	MeanHMin       *float64 `json:"mean_h_min"`
	MeanEfficiency *float64 `json:"mean_efficiency"`
	EfficiencyRows int      `json:"efficiency_rows"`
	Display        struct {
		COF        string `json:"COF"`
		LCC        string `json:"LCC"`
		HMin       string `json:"h_min"`
		Efficiency string `json:"efficiency"`
	} `json:"display"`
}

// GroupResponse is the JSON form of a GroupStat
type GroupResponse struct {
	Rank    int      `json:"rank"`
	Shape   string   `json:"shape"`
	MeanCOF *float64 `json:"mean_COF"`
	Count   int      `json:"count"`
}

// ViewResponse is the JSON body of /api/view
type ViewResponse struct {
	TopN       int                         `json:"top_n"`
	TopShapes  []string                    `json:"top_shapes"`
	Selected   []string                    `json:"selected"`
	Top        []GroupResponse             `json:"top"`
	Records    tribology.Dataset           `json:"records"`
	Efficiency []tribology.EfficiencyPoint `json:"efficiency"`
	Summary    SummaryResponse             `json:"summary"`
	Cleaning   tribology.CleanReport       `json:"cleaning"`
	Notices    []tribology.Notice          `json:"notices"`
}

// NewViewResponse converts a view for JSON encoding
func NewViewResponse(view tribology.View) ViewResponse {
	return ViewResponse{
		TopN:       view.TopN,
		TopShapes:  view.TopShapes,
		Selected:   view.Selected,
		Top:        NewGroupResponses(view.Top),
		Records:    view.Records,
		Efficiency: view.Efficiency,
		Summary:    NewSummaryResponse(view.Summary),
		Cleaning:   view.Cleaning,
		Notices:    view.Notices,
	}
}

// NewSummaryResponse converts a summary for JSON encoding
func NewSummaryResponse(s tribology.Summary) SummaryResponse {
	resp := SummaryResponse{Rows: s.Rows, EfficiencyRows: s.EfficiencyRows}
	if !s.Empty() {
		resp.MeanCOF = finite(s.MeanCOF)
		resp.MeanLCC = finite(s.MeanLCC)
		resp.MeanHMin = finite(s.MeanHMin)
	}
	if s.EfficiencyRows > 0 {
		resp.MeanEfficiency = finite(s.MeanEfficiency)
	}
	resp.Display.COF = s.FormatCOF()
	resp.Display.LCC = s.FormatLCC()
	resp.Display.HMin = s.FormatHMin()
	resp.Display.Efficiency = s.FormatEfficiency()
	return resp
}

// NewGroupResponses converts ranked groups for JSON encoding
func NewGroupResponses(groups []tribology.GroupStat) []GroupResponse {
	out := make([]GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = GroupResponse{Rank: g.Rank, Shape: g.Shape, MeanCOF: finite(g.MeanCOF), Count: g.Count}
	}
	return out
}

// EncodeFilterParams is the inverse of ParseFilterParams
func EncodeFilterParams(params tribology.FilterParams) string {
	values := url.Values{}
	values.Set(ParamTopN, strconv.Itoa(params.TopN))
	if params.Shapes != nil {
		values[ParamShapes] = append([]string{""}, params.Shapes...)
	}
	return values.Encode()
}

// NewShapeLookup indexes shapes for membership tests in templates
func NewShapeLookup(shapes []string) map[string]bool {
	lookup := make(map[string]bool, len(shapes))
	for _, s := range shapes {
		lookup[s] = true
	}
	return lookup
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
