package tribology

import (
	"fmt"
	"math"
)

// Column names expected in the header of a results file.
const (
	ColumnShape = "shape"
	ColumnE     = "E"
	ColumnCOF   = "COF"
	ColumnLCC   = "LCC"
	ColumnHMin  = "h_min"
)

// RequiredColumns lists every column a results file must carry, in canonical order.
var RequiredColumns = []string{ColumnShape, ColumnE, ColumnCOF, ColumnLCC, ColumnHMin}

// Record is one experimental measurement. Missing numeric values are NaN and
// a missing shape is the empty string.
type Record struct {
	Line  int     `json:"line"` // 1-based data row in the source file
	Shape string  `json:"shape"`
	E     float64 `json:"E"`
	COF   float64 `json:"COF"`
	LCC   float64 `json:"LCC"`
	HMin  float64 `json:"h_min"`
}

// Numeric returns the numeric fields in canonical column order
func (r Record) Numeric() [4]float64 {
	return [4]float64{r.E, r.COF, r.LCC, r.HMin}
}

// Complete reports whether no field is missing or infinite
func (r Record) Complete() bool {
	if r.Shape == "" {
		return false
	}
	for _, v := range r.Numeric() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SameValues compares every field except provenance. NaN equals NaN so raw rows compare sanely.
func (r Record) SameValues(o Record) bool {
	if r.Shape != o.Shape {
		return false
	}
	a, b := r.Numeric(), o.Numeric()
	for i := range a {
		if a[i] != b[i] && !(math.IsNaN(a[i]) && math.IsNaN(b[i])) {
			return false
		}
	}
	return true
}

// Dataset is an ordered sequence of records
type Dataset []Record

// Shapes returns the distinct shapes in first-seen order
func (d Dataset) Shapes() []string {
	seen := make(map[string]bool)
	var shapes []string
	for _, r := range d {
		if !seen[r.Shape] {
			seen[r.Shape] = true
			shapes = append(shapes, r.Shape)
		}
	}
	return shapes
}

// GroupStat is the mean COF of one shape
type GroupStat struct {
	Rank    int     `json:"rank"`
	Shape   string  `json:"shape"`
	MeanCOF float64 `json:"mean_COF"`
	Count   int     `json:"count"`
}

// EfficiencyPoint is a record with its derived LCC/COF ratio
type EfficiencyPoint struct {
	Record
	Efficiency float64 `json:"Efficiency"`
}

// Summary holds the dashboard KPIs over a filtered dataset.
// When Rows is zero every mean is meaningless and Empty reports true.
type Summary struct {
	Rows           int     `json:"rows"`
	MeanCOF        float64 `json:"mean_COF"`
	MeanLCC        float64 `json:"mean_LCC"`
	MeanHMin       float64 `json:"mean_h_min"`
	MeanEfficiency float64 `json:"mean_efficiency"`
	EfficiencyRows int     `json:"efficiency_rows"`
}

// NoData is what a metric displays when there is nothing to average
const NoData = "no data"

// Empty reports whether the summary covers no rows
func (s Summary) Empty() bool { return s.Rows == 0 }

// FormatCOF formats the mean COF the way the KPI card shows it
func (s Summary) FormatCOF() string {
	if s.Empty() {
		return NoData
	}
	return fmt.Sprintf("%.4f", s.MeanCOF)
}

// FormatLCC formats the mean LCC in newtons
func (s Summary) FormatLCC() string {
	if s.Empty() {
		return NoData
	}
	return fmt.Sprintf("%.2f", s.MeanLCC)
}

// FormatHMin formats the mean film thickness in meters
func (s Summary) FormatHMin() string {
	if s.Empty() {
		return NoData
	}
	return fmt.Sprintf("%.2e", s.MeanHMin)
}

// FormatEfficiency formats the mean LCC/COF ratio
func (s Summary) FormatEfficiency() string {
	if s.EfficiencyRows == 0 {
		return NoData
	}
	return fmt.Sprintf("%.2f", s.MeanEfficiency)
}

// CleanReport describes what cleaning removed
type CleanReport struct {
	Input              int `json:"input"`
	Kept               int `json:"kept"`
	Dropped            int `json:"dropped"`
	InfinitiesReplaced int `json:"infinities_replaced"`
}

// FilterParams carries the widget state into the pipeline.
//
// Shapes == nil means every top-N shape is selected (the multiselect default);
// a non-nil empty slice means the user cleared the selection.
type FilterParams struct {
	TopN   int      `json:"top_n"`
	Shapes []string `json:"shapes"`
}

// NoticeKind classifies a recoverable condition surfaced next to the charts
type NoticeKind string

const (
	NoticeCleaningDataLoss   NoticeKind = "cleaning_data_loss"
	NoticeDegenerateDivision NoticeKind = "degenerate_division"
	NoticeEmptySelection     NoticeKind = "empty_selection"
)

// Notice is a non-fatal condition the dashboard displays
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	Count   int        `json:"count,omitempty"`
}

// View is everything one dashboard render needs
type View struct {
	TopN       int               `json:"top_n"`
	Ranked     []GroupStat       `json:"ranked"`
	Top        []GroupStat       `json:"top"`
	TopShapes  []string          `json:"top_shapes"`
	Selected   []string          `json:"selected"`
	Records    Dataset           `json:"records"`
	Efficiency []EfficiencyPoint `json:"efficiency"`
	Summary    Summary           `json:"summary"`
	Cleaning   CleanReport       `json:"cleaning"`
	Notices    []Notice          `json:"notices"`
}

// HasNotice reports whether the view carries a notice of the given kind
func (v View) HasNotice(kind NoticeKind) bool {
	for _, n := range v.Notices {
		if n.Kind == kind {
			return true
		}
	}
	return false
}
