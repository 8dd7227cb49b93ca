package tabular

import "tribodash/domain/core"

// RawRowData represents a row of raw cell text keyed by trimmed header
type RawRowData map[string]string

// Table is a header plus rows of raw text, as read from a delimited file or workbook
type Table struct {
	Source  string           // path or label the table was read from
	Hash    core.DatasetHash // fingerprint of the raw bytes
	Headers []string         // trimmed column headers
	Rows    []RawRowData     // data rows
}

// HasColumn reports whether a trimmed header is present
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the names in required that the header lacks
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Sheet is one worksheet of an exported workbook
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}
