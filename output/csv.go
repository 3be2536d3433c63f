package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/extract/reader"
)

// CSVFormatter outputs records as CSV with a header row of labels.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the header and the items of each record as written in the
// source.
func (c *CSVFormatter) Format(t *reader.Table, records []reader.Record) error {
	csvWriter := csv.NewWriter(c.writer)

	header := make([]string, len(t.Labels))
	for i, label := range t.Labels {
		header[i] = sanitizeCell(label)
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		if err := csvWriter.Write(rec.Fields); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// sanitizeCell guards a label against formula execution in spreadsheet
// applications. Numeric items never need it: a leading sign is followed by
// a digit or a point.
func sanitizeCell(val string) string {
	if len(val) == 0 {
		return val
	}
	switch val[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		if _, ok := reader.ParseNumber(val); ok {
			return val
		}
		return "'" + strings.ReplaceAll(val, "'", "''")
	}
	return val
}
