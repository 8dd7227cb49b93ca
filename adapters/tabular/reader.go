package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tribodash/domain/core"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// File types understood by DataReader
const (
	FileTypeDelimited = "delimited"
	FileTypeXLSX      = "xlsx"
)

// DataReader handles reading tab-separated, comma-separated and Excel files
type DataReader struct {
	filePath  string
	fileType  string
	delimiter rune
}

// NewDataReader creates a reader whose format follows the file extension:
// .xlsx is a workbook, .csv is comma separated, anything else is tab separated.
func NewDataReader(filePath string) *DataReader {
	r := &DataReader{filePath: filePath, fileType: FileTypeDelimited, delimiter: '\t'}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		r.fileType = FileTypeXLSX
	case ".csv":
		r.delimiter = ','
	}
	return r
}

// FileType returns FileTypeDelimited or FileTypeXLSX
func (r *DataReader) FileType() string {
	return r.fileType
}

// ReadData reads the whole source into a Table
func (r *DataReader) ReadData() (*Table, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	startTime := time.Now()
	content, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", r.filePath)
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.filePath, err)
	}

	var table *Table
	switch r.fileType {
	case FileTypeXLSX:
		table, err = ParseWorkbook(bytes.NewReader(content))
	default:
		table, err = ParseDelimited(content, r.delimiter)
	}
	if err != nil {
		return nil, err
	}

	table.Source = r.filePath
	log.Printf("[DataReader] %s read in %.2fms (%d columns, %d rows)",
		r.filePath, float64(time.Since(startTime).Nanoseconds())/1e6, len(table.Headers), len(table.Rows))
	return table, nil
}

// ParseDelimited parses delimited text with a header row. Every cell is kept
// as text; gota's NaN markers (NA, NaN) come back as "NaN". Short rows are
// padded with empty cells, long rows are cut to the header, and stray quotes
// are read literally so one bad line never rejects the file.
func ParseDelimited(content []byte, delimiter rune) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited data: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	width := len(records[0])
	for i := 1; i < len(records); i++ {
		records[i] = fitRow(records[i], width)
	}

	if len(records) > 1 {
		df := dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
		)
		if df.Err != nil {
			return nil, fmt.Errorf("failed to parse delimited data: %w", df.Err)
		}
		records = df.Records()
	}

	table := processRows(records)
	table.Hash = core.NewDatasetHash(content)
	return table, nil
}

// fitRow pads or cuts a record to the header width
func fitRow(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// ParseWorkbook reads the first worksheet of an Excel workbook
func ParseWorkbook(r io.Reader) (*Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	table := processRows(rows)
	table.Hash = core.NewDatasetHash(content)
	return table, nil
}

// processRows converts raw string rows into a Table. Header names are trimmed;
// cells are kept as read.
func processRows(rows [][]string) *Table {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRowData, len(headers))
		for j, header := range headers {
			if j < len(rows[i]) {
				rowData[header] = rows[i][j]
			} else {
				rowData[header] = ""
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &Table{
		Headers: headers,
		Rows:    dataRows,
	}
}
