package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/vegasq/extract/reader"
)

// FormatSchema writes a column listing in the named format. jsonl and csv
// are machine readable; every other format renders a table.
func FormatSchema(w io.Writer, format string, columns []reader.ColumnInfo) error {
	switch format {
	case FormatJSONL, "json":
		encoder := json.NewEncoder(w)
		for _, c := range columns {
			if err := encoder.Encode(c); err != nil {
				return err
			}
		}
		return nil
	case FormatCSV:
		csvWriter := csv.NewWriter(w)
		if err := csvWriter.Write([]string{"ordinal", "name", "type", "optional"}); err != nil {
			return err
		}
		for _, c := range columns {
			record := []string{strconv.Itoa(c.Ordinal), sanitizeCell(c.Name), c.Type, strconv.FormatBool(c.Optional)}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return fmt.Errorf("failed to flush CSV writer: %w", err)
		}
		return nil
	}

	rows := [][]string{{"#0", "(record number)", "INT"}}
	for _, c := range columns {
		rows = append(rows, []string{c.Ref(), c.Name, c.Type})
	}
	renderTable(w, []string{"Ref", "Name", "Type"}, rows)
	return nil
}
