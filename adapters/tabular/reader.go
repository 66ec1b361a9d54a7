package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"covidash/domain/core"
	"covidash/domain/dataset"
	"covidash/internal"

	"github.com/xuri/excelize/v2"
)

// File types understood by DataReader
const (
	FileTypeCSV  = "csv"
	FileTypeXLSX = "xlsx"
)

// Table is the raw content of one tabular file
type Table = dataset.Table

// DataReader handles reading CSV and Excel files
type DataReader struct {
	filePath string
	fileType string
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type follows the extension and defaults to CSV
func NewDataReader(filePath string) *DataReader {
	fileType := FileTypeCSV
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		fileType = FileTypeXLSX
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: internal.DefaultLogger}
}

// WithLogger sets the logger used for read diagnostics
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Path returns the file the reader points at
func (r *DataReader) Path() string { return r.filePath }

// FileType returns "csv" or "xlsx"
func (r *DataReader) FileType() string { return r.fileType }

// ReadData reads the whole file into a Table
func (r *DataReader) ReadData(ctx context.Context) (*Table, error) {
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	readStart := time.Now()
	content, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s: %w", strings.ToUpper(r.fileType), r.filePath, err)
		}
		return nil, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(r.fileType), err)
	}

	var table *Table
	switch r.fileType {
	case FileTypeXLSX:
		table, err = ReadXLSX(bytes.NewReader(content))
	default:
		table, err = ReadCSV(bytes.NewReader(content))
	}
	if err != nil {
		return nil, err
	}
	table.Fingerprint = core.NewHash(content)

	r.logger.Debug("[DataReader] %s file processed in %.2fms (%d columns, %d rows)",
		strings.ToUpper(r.fileType), float64(time.Since(readStart).Nanoseconds())/1e6,
		len(table.Headers), len(table.Rows))
	return table, nil
}

// ReadCSV parses CSV content with a header row. Ragged rows are tolerated.
func ReadCSV(src io.Reader) (*Table, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}
	return processRows(rows), nil
}

// ReadXLSX parses the first sheet of a workbook
func ReadXLSX(src io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}
	return processRows(rows), nil
}

// processRows converts raw string rows into a Table, skipping blank lines
func processRows(rows [][]string) *Table {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		header = strings.TrimPrefix(header, "\ufeff")
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]dataset.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rowData := make(dataset.RawRecord, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &Table{Headers: headers, Rows: dataRows}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
