package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"tribodash/adapters/tabular"
	"tribodash/domain/core"
	"tribodash/domain/tribology"
	apperrors "tribodash/internal/errors"
)

// LoadInfo describes where a dataset came from
type LoadInfo struct {
	Source  string           `json:"source"`
	Hash    core.DatasetHash `json:"hash"`
	Rows    int              `json:"rows"`
	Columns []string         `json:"columns"`
}

// missingTokens are cell values read as a missing number or shape
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"#n/a": true,
	"<na>": true,
	"-nan": true,
}

// Load reads a results file into a Dataset. Any failure is a LoadError.
func Load(path string) (tribology.Dataset, error) {
	ds, _, err := LoadWithInfo(path)
	return ds, err
}

// LoadWithInfo is Load that also reports the source fingerprint
func LoadWithInfo(path string) (tribology.Dataset, LoadInfo, error) {
	table, err := tabular.NewDataReader(path).ReadData()
	if err != nil {
		return nil, LoadInfo{}, apperrors.LoadError(path, err)
	}
	ds, err := FromTable(table)
	if err != nil {
		return nil, LoadInfo{}, apperrors.LoadError(path, err)
	}
	return ds, LoadInfo{
		Source:  path,
		Hash:    table.Hash,
		Rows:    len(ds),
		Columns: table.Headers,
	}, nil
}

// FromTable converts raw rows into records. Extra columns are ignored;
// a header without every required column is an error naming the missing ones.
// A header with no data rows is an empty Dataset.
func FromTable(table *tabular.Table) (tribology.Dataset, error) {
	if missing := table.MissingColumns(tribology.RequiredColumns); len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	ds := make(tribology.Dataset, 0, len(table.Rows))
	for i, row := range table.Rows {
		// labels are kept verbatim, so " S" and "S" are different shapes
		shape := row[tribology.ColumnShape]
		if missingTokens[strings.ToLower(shape)] {
			shape = ""
		}
		ds = append(ds, tribology.Record{
			Line:  i + 1,
			Shape: shape,
			E:     parseNumber(row[tribology.ColumnE]),
			COF:   parseNumber(row[tribology.ColumnCOF]),
			LCC:   parseNumber(row[tribology.ColumnLCC]),
			HMin:  parseNumber(row[tribology.ColumnHMin]),
		})
	}
	return ds, nil
}

// parseNumber returns NaN for missing or malformed cells. Infinity tokens and
// out-of-range literals come back as ±Inf for Clean to deal with.
func parseNumber(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if missingTokens[strings.ToLower(cell)] {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}
