package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/extract/reader"
)

// TableFormatter renders records as a bordered ASCII table.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the labels as the table header and one row per record.
func (f *TableFormatter) Format(t *reader.Table, records []reader.Record) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Fields
	}
	renderTable(f.writer, t.Labels, rows)
	return nil
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(rows)
	table.Render()
}
