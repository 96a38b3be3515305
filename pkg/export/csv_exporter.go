package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ScoreSheet is a classroom roster with scores, ready to be rendered into a
// downloadable report. Rows are ordered the way the roster query returned
// them and each row has one cell per column.
type ScoreSheet struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// CSVExporter renders score sheets into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the score sheet. The title is not
// part of the CSV output; spreadsheets get it from the file name.
func (e *CSVExporter) Render(sheet ScoreSheet) ([]byte, error) {
	if len(sheet.Columns) == 0 {
		return nil, fmt.Errorf("score sheet requires at least one column")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(sheet.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range sheet.Rows {
		if len(row) != len(sheet.Columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(sheet.Columns))
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
